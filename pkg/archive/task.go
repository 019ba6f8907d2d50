package archive

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/google/uuid"
)

// Progress is sent after each archive of a batch
type Progress struct {
	Done    int
	Total   int
	Archive types.ModArchive
	Err     error
}

// Failure pairs an archive with the reason it could not be extracted
type Failure struct {
	Archive types.ModArchive
	Err     error
}

// BatchResult is the outcome of a batch extraction
type BatchResult struct {
	// Extracted holds the archives that succeeded, ExtractedRoot set
	Extracted []types.ModArchive
	Failed    []Failure
}

// Err summarizes the failures, or returns nil when there were none
func (r BatchResult) Err() error {
	switch len(r.Failed) {
	case 0:
		return nil
	case 1:
		return r.Failed[0].Err
	}
	names := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		names[i] = f.Archive.Name()
	}
	return errors.Newf(errors.ErrExtraction, "%d archives failed to extract: %s",
		len(r.Failed), strings.Join(names, ", ")).
		WithDetail("archives", names)
}

// Task is a running batch extraction
type Task struct {
	ID       string
	progress chan Progress
	result   chan BatchResult
}

func newTask(total int) *Task {
	return &Task{
		ID:       uuid.New().String()[:8],
		progress: make(chan Progress, total),
		result:   make(chan BatchResult, 1),
	}
}

// Progress streams one update per archive and is closed after the last one.
// It is buffered for the whole batch, so ignoring it never stalls the task.
func (t *Task) Progress() <-chan Progress {
	return t.progress
}

// Result delivers the final BatchResult once
func (t *Task) Result() <-chan BatchResult {
	return t.result
}

// Wait blocks until the batch finishes, discarding progress updates
func (t *Task) Wait() BatchResult {
	for range t.progress {
	}
	return <-t.result
}

// String implements fmt.Stringer
func (t *Task) String() string {
	return fmt.Sprintf("extract task %s", t.ID)
}
