// Package pipeline drives a generation run through its states:
//
//	Idle -> Extracting -> Detecting -> AwaitingAssignment -> Merging ->
//	WritingManifest -> Assembling -> Done
//
// Any state may end in Failed. A run executes on its own goroutine and the
// Engine admits one run, import batch or deletion at a time; requests made
// while it is busy are rejected with a BUSY error rather than queued.
//
// AwaitingAssignment is a gate: every appearance archive with detected
// candidates must carry an assignment in the Request, or the run fails
// there without touching the output directory.
package pipeline
