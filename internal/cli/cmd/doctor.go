package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sizefit/internal/dirs"
	"sizefit/internal/util/deps"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (ffprobe, ffmpeg) and configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, _, err := loadOptions(cmd, a)
			if err != nil {
				return fail(err)
			}
			out := cmd.OutOrStdout()

			fp, ferr := deps.FindFFprobe(opts.FFprobePath)
			if ferr != nil {
				return fail(ferr)
			}
			fmt.Fprintf(out, "FFprobe:  %s\n", fp)

			if ff, err := deps.FindFFmpeg(""); err == nil {
				fmt.Fprintf(out, "FFmpeg:   %s\n", ff)
			} else {
				fmt.Fprintln(out, "FFmpeg:   not found (only needed to run the suggested encode)")
			}

			cfg := "none"
			if p, err := dirs.ConfigFile(); err == nil {
				cfg = p + " (not present)"
				if _, err := os.Stat(p); err == nil {
					cfg = p
				}
			}
			fmt.Fprintf(out, "Config:   %s\n", cfg)
			fmt.Fprintf(out, "Target:   %g MB, audio %d kbps\n", opts.TargetSizeMB, opts.AudioKbps)
			return nil
		},
	}
}
