package pipeline

import "time"

// State is a step of a generation run
type State int

const (
	Idle State = iota
	Extracting
	Detecting
	AwaitingAssignment
	Merging
	WritingManifest
	Assembling
	Done
	Failed
)

var stateNames = [...]string{
	Idle:               "idle",
	Extracting:         "extracting",
	Detecting:          "detecting",
	AwaitingAssignment: "awaiting-assignment",
	Merging:            "merging",
	WritingManifest:    "writing-manifest",
	Assembling:         "assembling",
	Done:               "done",
	Failed:             "failed",
}

// String implements fmt.Stringer
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// Transition is one state change of a run
type Transition struct {
	From State
	To   State
	At   time.Time
}
