package pipeline

import (
	"fmt"
	"time"

	"github.com/arthur-debert/bg3compat/pkg/assemble"
	"github.com/arthur-debert/bg3compat/pkg/manifest"
	"github.com/arthur-debert/bg3compat/pkg/merge"
	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Request is everything a run needs; it is not read again after Start
type Request struct {
	RaceArchives       []types.ModArchive
	AppearanceArchives []types.ModArchive
	// Assignments maps an appearance archive stem to a race identifier,
	// English race name or localization key
	Assignments map[string]string
	Manifest    manifest.UserInput
	// Target is the output folder to update; empty derives it from the mod name
	Target string
	// RegenerateIDs gives every identifier the appearance archives declare
	// a fresh value
	RegenerateIDs bool
}

// Outcome is what a finished run reports
type Outcome struct {
	State State
	Err   error

	// Detection holds the candidates found per appearance archive stem
	Detection   map[string][]types.Identifier
	Passthrough []string
	Manifest    *manifest.PatchManifest
	Output      *assemble.Output
	Conflicts   []merge.Conflict
	Skeletons   map[types.Identifier]merge.Skeleton
	Remapped    int
	Overlaid    int
}

// Succeeded reports whether the run reached Done
func (o Outcome) Succeeded() bool {
	return o.State == Done
}

// Run is a generation run executing in the background
type Run struct {
	ID string

	state  State
	states chan Transition
	done   chan Outcome
}

func newRun(id string) *Run {
	return &Run{
		ID:     id,
		state:  Idle,
		states: make(chan Transition, len(stateNames)),
		done:   make(chan Outcome, 1),
	}
}

// States streams the run's transitions and is closed after the terminal one.
// It is buffered for every state, so ignoring it never stalls the run.
func (r *Run) States() <-chan Transition {
	return r.states
}

// Done delivers the Outcome once the run has finished
func (r *Run) Done() <-chan Outcome {
	return r.done
}

// Wait blocks until the run finishes, discarding transitions
func (r *Run) Wait() Outcome {
	for range r.states {
	}
	return <-r.done
}

// String implements fmt.Stringer
func (r *Run) String() string {
	return fmt.Sprintf("run %s", r.ID)
}

// enter is only called from the run's goroutine
func (r *Run) enter(s State) {
	r.states <- Transition{From: r.state, To: s, At: time.Now()}
	r.state = s
}

func (r *Run) finish(out Outcome) {
	close(r.states)
	r.done <- out
	close(r.done)
}
