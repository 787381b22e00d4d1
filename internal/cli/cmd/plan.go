package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sizefit/internal/encoder"
	"sizefit/internal/model"
	"sizefit/internal/util"
	"sizefit/internal/util/bitrate"
	"sizefit/internal/util/format"
)

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plan <input_video> [start_seconds] [duration_seconds]",
		Short:         "Explain how the bitrate was chosen and show a matching ffmpeg command",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          positionalArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sizeOne(cmd, a, args)
			if err != nil {
				return fail(err)
			}
			printPlan(cmd.OutOrStdout(), s)
			return nil
		},
	}
	return cmd
}

// printPlan outputs the sizing breakdown and the ffmpeg command it implies.
func printPlan(w io.Writer, s sizing) {
	req, res := s.Request, s.Result
	md, b := res.Metadata, res.Breakdown
	pixels := md.Width * md.Height

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Sizing plan:")
	fmt.Fprintf(tw, "- Input:\t%s\n", req.Input)
	fmt.Fprintf(tw, "- Target:\t%s with %d kbps audio\n", format.HumanizeBytes(int64(s.Options.TargetSizeMB*1024*1024)), s.Options.AudioKbps)
	fmt.Fprintf(tw, "- Video:\t%dx%d (%s), %s at %.3f fps (%s)\n", md.Width, md.Height, bitrate.TierName(pixels), format.Seconds(md.DurationSec), md.FrameRate, md.RawRate)
	fmt.Fprintf(tw, "- Clip:\t%s\n", describeWindow(req.Window, res.ClipDuration))
	fmt.Fprintf(tw, "- Budget:\t%s total, %s audio, %s left for video\n", format.Bits(b.TargetBits), format.Bits(b.AudioBits), format.Bits(b.AvailableBits))
	fmt.Fprintf(tw, "- Base rate:\t%s\n", format.Kbps(b.BaseKbps))
	fmt.Fprintf(tw, "- Resolution factor:\t%.1f -> %s\n", b.Factor, format.Kbps(b.AdjustedKbps))
	fmt.Fprintf(tw, "- Tier floor:\t%s\n", format.Kbps(b.MinKbps))
	fmt.Fprintf(tw, "- Cap:\t%.0f kbps (target rate %s)\n", b.MaxKbps, format.Kbps(b.TargetKbps))
	if b.ShortClip {
		fmt.Fprintf(tw, "- Short clip floor:\t%.0f kbps\n", float64(b.TargetKbps)*0.9)
	}
	fmt.Fprintf(tw, "- Video bitrate:\t%d kbps\n", res.Bitrate.VideoKbps)
	fmt.Fprintf(tw, "- Reduce frame rate:\t%v\n", res.Bitrate.ReduceFrameRate)
	_ = tw.Flush()

	args := encoder.BuildVideoArgs(encoder.Job{
		InputPath: req.Input,
		Window:    req.Window,
		Bitrate:   res.Bitrate,
		AudioKbps: s.Options.AudioKbps,
	})
	fmt.Fprintln(w, "Suggested encode:")
	fmt.Fprintf(w, "  %s\n", util.ShellQuote("ffmpeg", args))
}

func describeWindow(w model.Window, clipSec float64) string {
	switch {
	case w.StartSec == 0 && !w.HasLength:
		return fmt.Sprintf("whole video (%s)", format.Seconds(clipSec))
	case !w.HasLength:
		return fmt.Sprintf("from %s to the end (%s)", format.Seconds(w.StartSec), format.Seconds(clipSec))
	default:
		return fmt.Sprintf("from %s for %s", format.Seconds(w.StartSec), format.Seconds(clipSec))
	}
}
