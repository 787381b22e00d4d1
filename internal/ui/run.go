package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sizefit/internal/model"
	"sizefit/internal/pipeline"
	"sizefit/internal/progress"
)

// Run launches the TUI on out and sizes inputs with up to opts.Jobs
// concurrent jobs. It returns every job's result in input order and an
// error listing the failed jobs, if any.
func Run(ctx context.Context, out io.Writer, inputs []string, opts model.Options, svcOpts ...pipeline.Option) ([]progress.Result, error) {
	m := NewModel(ctx, inputs, opts, svcOpts...)
	prog := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(out))
	final, err := prog.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, err
	}
	fm, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	results := fm.Results()

	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, fmt.Sprintf("- %s: %s", r.Input, r.Err))
		}
	}
	if len(failed) > 0 {
		return results, fmt.Errorf("%d job(s) failed:\n%s", len(failed), strings.Join(failed, "\n"))
	}
	return results, nil
}
