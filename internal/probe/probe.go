// Package probe runs ffprobe and turns its JSON into model.VideoMetadata.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sizefit/internal/model"
	"sizefit/internal/util"
	"sizefit/internal/util/bitrate"
)

const defaultFrameRate = "30/1"

// Options control ffprobe execution.
type Options struct {
	FFprobePath string
	Timeout     time.Duration // 0 means wait for ffprobe indefinitely.
	Verbose     bool
	Runner      util.CmdRunner    // nil uses util.NewDefaultRunner()
	StderrLine  func(line string) // optional, receives ffprobe stderr as it is read
}

// Args returns the ffprobe arguments used for path: container duration plus
// width, height and r_frame_rate of the first video stream.
func Args(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-select_streams", "v:0",
		"-of", "json",
		path,
	}
}

// Probe runs ffprobe against path and returns the parsed metadata.
func Probe(ctx context.Context, path string, opts Options) (model.VideoMetadata, error) {
	if opts.FFprobePath == "" {
		return model.VideoMetadata{}, fmt.Errorf("%w: ffprobe path is required", model.ErrProbeFailure)
	}
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	res, err := runner.Run(ctx, util.CmdSpec{
		Path:       opts.FFprobePath,
		Args:       Args(path),
		Verbose:    opts.Verbose,
		StderrLine: opts.StderrLine,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return model.VideoMetadata{}, fmt.Errorf("%w: timed out after %s", model.ErrProbeFailure, opts.Timeout)
		}
		stderr := strings.TrimSpace(string(res.Stderr))
		if stderr == "" {
			return model.VideoMetadata{}, fmt.Errorf("%w: %v", model.ErrProbeFailure, err)
		}
		return model.VideoMetadata{}, fmt.Errorf("%w with error: %s", model.ErrProbeFailure, stderr)
	}

	md, err := ParseJSON(res.Stdout)
	if err != nil {
		return model.VideoMetadata{}, err
	}
	md.Path = path
	return md, nil
}

// ParseJSON converts raw ffprobe JSON output into VideoMetadata.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (model.VideoMetadata, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.VideoMetadata{}, fmt.Errorf("%w: parse ffprobe output: %v", model.ErrProbeFailure, err)
	}

	duration := parseFloat(raw.Format.Duration)
	if !(duration > 0) {
		return model.VideoMetadata{}, fmt.Errorf("%w: could not determine video duration", model.ErrMetadataMissing)
	}
	if len(raw.Streams) == 0 {
		return model.VideoMetadata{}, fmt.Errorf("%w: no video streams found", model.ErrMetadataMissing)
	}

	s := raw.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return model.VideoMetadata{}, fmt.Errorf("%w: could not determine video dimensions", model.ErrMetadataMissing)
	}
	rate := s.FrameRate
	if rate == "" {
		rate = defaultFrameRate
	}

	return model.VideoMetadata{
		DurationSec: duration,
		Width:       s.Width,
		Height:      s.Height,
		FrameRate:   bitrate.ParseFrameRate(rate),
		RawRate:     rate,
	}, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FrameRate string `json:"r_frame_rate"`
}

// ffprobe reports durations as strings ("12.345000", sometimes "N/A").
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
