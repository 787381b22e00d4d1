// Package pipeline orchestrates a sizing job: check input, probe, resolve
// the clip window and compute the recommendation.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"sizefit/internal/clip"
	"sizefit/internal/logging"
	"sizefit/internal/model"
	"sizefit/internal/probe"
	"sizefit/internal/progress"
	"sizefit/internal/util"
	"sizefit/internal/util/bitrate"
	"sizefit/internal/util/deps"
)

// Service runs sizing jobs.
type Service struct {
	ffprobePath string
	opts        model.Options
	runner      util.CmdRunner
	reporter    progress.Reporter
	jobID       string
	log         *logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithFFprobePath sets the ffprobe binary path. Without it the path is
// looked up from Options.FFprobePath or PATH on the first Run.
func WithFFprobePath(p string) Option {
	return func(s *Service) {
		s.ffprobePath = p
	}
}

// WithOptions sets the resolved runtime options.
func WithOptions(o model.Options) Option {
	return func(s *Service) {
		s.opts = o
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter (used by TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithJobID sets the job ID associated with reporter events and log lines.
func WithJobID(id string) Option {
	return func(s *Service) {
		s.jobID = id
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// NewService constructs a new Service with the provided options.
// Without WithOptions the model defaults apply.
func NewService(opts ...Option) *Service {
	s := &Service{
		opts: model.Options{
			TargetSizeMB: model.DefaultTargetSizeMB,
			AudioKbps:    model.DefaultAudioKbps,
		},
	}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	s.log = s.log.WithJobID(s.jobID)
	return s
}

// Result is the outcome of Run.
type Result struct {
	Metadata     model.VideoMetadata
	ClipDuration float64
	Bitrate      model.BitrateResult
	Breakdown    bitrate.Breakdown
}

// Run sizes a single input. It never prints; diagnostics go to the logger
// and, when present, the reporter receives stage updates and a final Result.
func (s *Service) Run(ctx context.Context, req model.Request) (Result, error) {
	res, err := s.run(ctx, req)
	if err != nil {
		s.log.Infof("Sizing %s failed: %v", req.Input, err)
		s.emit(progress.StageError, err.Error())
		s.finish(req.Input, model.BitrateResult{}, err)
		return res, err
	}
	s.emit(progress.StageCompleted, fmt.Sprintf("%d kbps, reduce fps: %v", res.Bitrate.VideoKbps, res.Bitrate.ReduceFrameRate))
	s.finish(req.Input, res.Bitrate, nil)
	return res, nil
}

func (s *Service) run(ctx context.Context, req model.Request) (Result, error) {
	var res Result

	if err := util.CheckInputFile(req.Input); err != nil {
		return res, fmt.Errorf("%w: %s", model.ErrInputNotFound, req.Input)
	}

	ffprobe, err := s.resolveFFprobe()
	if err != nil {
		return res, fmt.Errorf("probe video info: %w", err)
	}

	s.log.Infof("Analyzing video: %s", req.Input)
	s.emit(progress.StageProbing, "Probing "+filepath.Base(req.Input))
	s.log.Debugf("Running command: %s", util.ShellQuote(ffprobe, probe.Args(req.Input)))

	popts := probe.Options{
		FFprobePath: ffprobe,
		Timeout:     s.opts.ProbeTimeout,
		Verbose:     s.opts.Verbose && s.reporter == nil,
		Runner:      s.runner,
	}
	if s.reporter != nil {
		popts.StderrLine = func(line string) {
			s.reporter.Log(progress.Log{JobID: s.jobID, Line: line})
		}
	}
	md, err := probe.Probe(ctx, req.Input, popts)
	if err != nil {
		return res, fmt.Errorf("probe video info: %w", err)
	}
	res.Metadata = md

	dur, err := clip.Resolve(md.DurationSec, req.Window)
	if err != nil {
		return res, fmt.Errorf("resolve clip window: %w", err)
	}
	res.ClipDuration = dur

	s.log.Infof("Duration: %.2fs, Resolution: %dx%d", dur, md.Width, md.Height)
	s.emit(progress.StageSizing, fmt.Sprintf("%.2fs at %dx%d", dur, md.Width, md.Height))

	r, b, err := bitrate.Recommend(model.BitrateRequest{
		DurationSec:  dur,
		Width:        md.Width,
		Height:       md.Height,
		TargetSizeMB: s.opts.TargetSizeMB,
		AudioKbps:    s.opts.AudioKbps,
	}, md.FrameRate)
	if err != nil {
		return res, fmt.Errorf("compute bitrate: %w", err)
	}
	res.Bitrate, res.Breakdown = r, b

	if b.AvailableBits <= 0 {
		s.log.Warnf("Audio at %d kbps leaves no room for video in %.1f MB", s.opts.AudioKbps, s.opts.TargetSizeMB)
	}
	if b.ShortClip && float64(b.VideoKbps) > b.MaxKbps {
		s.log.Warnf("Short-clip floor %d kbps exceeds the %.0f kbps cap", b.VideoKbps, b.MaxKbps)
	}
	return res, nil
}

func (s *Service) resolveFFprobe() (string, error) {
	if s.ffprobePath != "" {
		return s.ffprobePath, nil
	}
	p, err := deps.FindFFprobe(s.opts.FFprobePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrProbeFailure, err)
	}
	s.ffprobePath = p
	return p, nil
}

func (s *Service) emit(stage progress.Stage, msg string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{JobID: s.jobID, Stage: stage, Message: msg})
}

func (s *Service) finish(input string, r model.BitrateResult, err error) {
	if s.reporter == nil {
		return
	}
	s.reporter.Result(progress.Result{JobID: s.jobID, Input: input, Bitrate: r, Err: err})
}
