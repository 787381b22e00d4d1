package model

import "time"

// Defaults used when neither flags, env nor config override them.
const (
	DefaultTargetSizeMB = 9.0
	DefaultAudioKbps    = 128
	DefaultFrameRate    = 30.0
)

// VideoMetadata is what the probe reports for the first video stream of a file.
type VideoMetadata struct {
	Path        string
	DurationSec float64 // Full container duration.
	Width       int
	Height      int
	FrameRate   float64 // Parsed from r_frame_rate; DefaultFrameRate when unparseable.
	RawRate     string  // r_frame_rate as reported, e.g. "30000/1001".
}

// Window selects the part of a video being sized.
type Window struct {
	StartSec  float64
	LengthSec float64
	HasLength bool // LengthSec is only meaningful when true.
}

// BitrateRequest holds the inputs of the sizing algorithm.
type BitrateRequest struct {
	DurationSec  float64
	Width        int
	Height       int
	TargetSizeMB float64
	AudioKbps    int
}

// BitrateResult is the recommendation handed back to the caller.
type BitrateResult struct {
	VideoKbps       int
	ReduceFrameRate bool
}

// Options holds user-configurable runtime options after flag/env/config layering.
type Options struct {
	TargetSizeMB float64
	AudioKbps    int
	FFprobePath  string        // Empty means look up "ffprobe" in PATH.
	ProbeTimeout time.Duration // 0 disables the timeout.
	Verbose      bool
	LogLevel     string
	LogFormat    string // console | json
	Jobs         int    // Concurrent jobs for the TUI.
}

// Request identifies a single sizing job.
type Request struct {
	Input  string
	Window Window
}
