package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sizefit/internal/clip"
	"sizefit/internal/config"
	"sizefit/internal/logging"
	"sizefit/internal/model"
	"sizefit/internal/pipeline"
	"sizefit/internal/util"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func fail(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitFailure, Err: err}
}

// app carries what commands share; tests swap the runner and config paths.
type app struct {
	runner      util.CmdRunner
	configPaths []string
}

const usageLine = "sizefit <input_video> [start_seconds] [duration_seconds]"

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   usageLine,
		Short: "Recommend a video bitrate that fits a clip under a size budget",
		Long: "sizefit probes a video with ffprobe and prints the video bitrate (kbps) an encoder should use " +
			"so the clip fits the target size, followed by 1 when the frame rate should be reduced to 30 fps " +
			"and 0 otherwise. All diagnostics go to stderr.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          positionalArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := sizeOne(cmd, a, args)
			if err != nil {
				return fail(err)
			}
			flag := 0
			if res.Bitrate.ReduceFrameRate {
				flag = 1
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", res.Bitrate.VideoKbps, flag)
			return nil
		},
	}

	bindSizingFlags(root.PersistentFlags())

	root.AddCommand(newPlanCmd(a))
	root.AddCommand(newTuiCmd(a))
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newCompletionCmd())

	return root
}

func bindSizingFlags(fs *pflag.FlagSet) {
	fs.Float64(config.FlagName(config.KeyTargetSizeMB), model.DefaultTargetSizeMB, "Target output size (MB, 1 MB = 1048576 bytes)")
	fs.Int(config.FlagName(config.KeyAudioKbps), model.DefaultAudioKbps, "Audio bitrate (kbps) reserved out of the budget")
	fs.String(config.FlagName(config.KeyFFprobe), "", "Path to ffprobe (default: look up in PATH)")
	fs.Duration(config.FlagName(config.KeyProbeTimeout), 0, "Give up on ffprobe after this long (0 waits forever)")
	fs.BoolP(config.FlagName(config.KeyVerbose), "v", false, "Show progress diagnostics and ffprobe output on stderr")
	fs.String(config.FlagName(config.KeyLogLevel), "", "Log level: debug, info, warn, error (default warn, info with -v)")
	fs.String(config.FlagName(config.KeyLogFormat), "console", "Log format: console, json")
}

func positionalArgs(_ *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return fmt.Errorf("%w: expected 1 to 3 arguments, got %d\nUsage: %s", model.ErrUsage, len(args), usageLine)
	}
	return nil
}

// loadOptions layers defaults, config file, env and flags for cmd.
func loadOptions(cmd *cobra.Command, a *app) (model.Options, *logging.Logger, error) {
	v, err := config.Init(cmd.Flags(), a.configPaths...)
	if err != nil {
		return model.Options{}, nil, err
	}
	opts, err := config.Resolve(v)
	if err != nil {
		return model.Options{}, nil, err
	}
	logger := logging.New(logging.Config{
		Level:   opts.LogLevel,
		Format:  opts.LogFormat,
		Verbose: opts.Verbose,
		Output:  cmd.ErrOrStderr(),
	})
	if f := v.ConfigFileUsed(); f != "" {
		logger.Debugf("Using config file: %s", f)
	}
	return opts, logger, nil
}

// sizing is one finished job together with what produced it.
type sizing struct {
	pipeline.Result
	Request model.Request
	Options model.Options
}

// sizeOne runs the sizing pipeline for "<input> [start] [duration]".
func sizeOne(cmd *cobra.Command, a *app, args []string) (sizing, error) {
	opts, logger, err := loadOptions(cmd, a)
	if err != nil {
		return sizing{}, err
	}

	out := sizing{Options: opts, Request: model.Request{Input: args[0]}}
	var start, length string
	if len(args) > 1 {
		start = args[1]
	}
	if len(args) > 2 {
		length = args[2]
	}
	if out.Request.Window, err = clip.ParseWindow(start, length); err != nil {
		return out, err
	}

	svc := pipeline.NewService(
		pipeline.WithOptions(opts),
		pipeline.WithRunner(a.runner),
		pipeline.WithLogger(logger),
	)
	out.Result, err = svc.Run(cmd.Context(), out.Request)
	return out, err
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd(&app{runner: util.NewDefaultRunner()})
	return root.ExecuteContext(ctx)
}
