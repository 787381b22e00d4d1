package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sizefit/internal/config"
	"sizefit/internal/pipeline"
	"sizefit/internal/ui"
)

var errNoTerminal = errors.New("tui needs a terminal on stderr; use the root command for scripted runs")

func newTuiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui <input_video>...",
		Short: "Size several videos concurrently in an interactive view",
		Long: "tui draws its view on stderr and, once every job has finished, prints one " +
			"\"<kbps> <0|1> <input>\" line per sized video on stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.ErrOrStderr()) {
				return fail(errNoTerminal)
			}
			opts, _, err := loadOptions(cmd, a)
			if err != nil {
				return fail(err)
			}
			results, runErr := ui.Run(cmd.Context(), cmd.ErrOrStderr(), args, opts, pipeline.WithRunner(a.runner))
			for _, r := range results {
				if r.Err != nil {
					continue
				}
				flag := 0
				if r.Bitrate.ReduceFrameRate {
					flag = 1
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d %d %s\n", r.Bitrate.VideoKbps, flag, r.Input)
			}
			return fail(runErr)
		},
	}
	cmd.Flags().Int(config.FlagName(config.KeyJobs), 2, "Max concurrent sizing jobs")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
