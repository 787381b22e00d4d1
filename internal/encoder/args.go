// Package encoder builds the ffmpeg command line that matches a bitrate
// recommendation. Nothing here runs ffmpeg.
package encoder

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"sizefit/internal/model"
)

// Job is everything needed to render a suggested ffmpeg invocation.
type Job struct {
	InputPath  string
	OutputPath string // empty derives one next to the input
	Window     model.Window
	Bitrate    model.BitrateResult
	AudioKbps  int
	Preset     string
}

// BuildVideoArgs constructs ffmpeg arguments for encoding the clip at the
// recommended bitrate. The output path is always the last argument.
func BuildVideoArgs(j Job) []string {
	args := []string{"-y"}
	if j.Window.StartSec > 0 {
		args = append(args, "-ss", formatSeconds(j.Window.StartSec))
	}
	args = append(args, "-i", j.InputPath)
	if j.Window.HasLength && j.Window.LengthSec > 0 {
		args = append(args, "-t", formatSeconds(j.Window.LengthSec))
	}

	kbps := j.Bitrate.VideoKbps
	args = append(args,
		"-c:v", "libx264",
		"-preset", valueOr(j.Preset, "veryfast"),
		"-pix_fmt", "yuv420p",
		"-b:v", fmt.Sprintf("%dk", kbps),
		"-maxrate", fmt.Sprintf("%dk", kbps),
		"-bufsize", fmt.Sprintf("%dk", kbps*2),
	)
	if j.Bitrate.ReduceFrameRate {
		args = append(args, "-r", strconv.Itoa(int(model.DefaultFrameRate)))
	}

	if j.AudioKbps > 0 {
		args = append(args, "-c:a", "aac", "-b:a", fmt.Sprintf("%dk", j.AudioKbps))
	} else {
		args = append(args, "-an")
	}

	args = append(args, "-movflags", "+faststart", valueOr(j.OutputPath, OutputPath(j.InputPath, j.Bitrate)))
	return args
}

// OutputPath derives a sibling .mp4 path tagged with the video bitrate,
// e.g. /v/clip.mov -> /v/clip_2074k.mp4. Frame-rate reduction adds _30fps.
func OutputPath(input string, r model.BitrateResult) string {
	dir := filepath.Dir(input)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	parts := []string{base, fmt.Sprintf("%dk", r.VideoKbps)}
	if r.ReduceFrameRate {
		parts = append(parts, fmt.Sprintf("%dfps", int(model.DefaultFrameRate)))
	}
	return filepath.Join(dir, strings.Join(parts, "_")+".mp4")
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
