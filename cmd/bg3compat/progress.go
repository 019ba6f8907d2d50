package bg3compat

import (
	"fmt"

	"github.com/arthur-debert/bg3compat/pkg/archive"
	"github.com/arthur-debert/bg3compat/pkg/pipeline"
	"github.com/pterm/pterm"
)

// followImport drains the task's progress and returns its result. On a
// terminal it draws a pterm progress bar; otherwise one line per archive.
func (a *app) followImport(task *archive.Task, total int) archive.BatchResult {
	if !a.terminal {
		for p := range task.Progress() {
			line := a.lang.Sprintf("import_progress", p.Done, p.Total)
			if p.Err != nil {
				line = a.renderer.RenderError(p.Err)
			}
			_, _ = fmt.Fprintln(a.errOut, a.renderer.RenderProgress(p.Done, p.Total, p.Archive.Name()+": "+line))
		}
		return <-task.Result()
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Extracting").
		WithWriter(a.errOut).
		Start()
	if err != nil {
		a.logger.Debug().Err(err).Msg("Progress bar unavailable")
		return task.Wait()
	}
	for p := range task.Progress() {
		bar.UpdateTitle(p.Archive.Name())
		if p.Err != nil {
			pterm.Error.WithWriter(a.errOut).Println(p.Archive.Name() + ": " + p.Err.Error())
		}
		bar.Increment()
	}
	_, _ = bar.Stop()
	return <-task.Result()
}

// followRun drains the run's transitions and returns its outcome. On a
// terminal a spinner shows the current state.
func (a *app) followRun(run *pipeline.Run) pipeline.Outcome {
	var spinner *pterm.SpinnerPrinter
	if a.terminal {
		s, err := pterm.DefaultSpinner.WithWriter(a.errOut).Start(pipeline.Extracting.String())
		if err == nil {
			spinner = s
		}
	}
	for tr := range run.States() {
		a.logger.Info().Str("run", run.ID).Str("from", tr.From.String()).Str("to", tr.To.String()).Msg("Run state changed")
		if spinner != nil && !tr.To.Terminal() {
			spinner.UpdateText(tr.To.String())
		}
	}
	out := <-run.Done()
	if spinner != nil {
		if out.Succeeded() {
			spinner.Success(pipeline.Done.String())
		} else {
			spinner.Fail(pipeline.Failed.String())
		}
	}
	return out
}
