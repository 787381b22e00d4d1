package encoder

import (
	"path/filepath"
	"strings"
	"testing"

	"sizefit/internal/model"
)

func TestBuildVideoArgs(t *testing.T) {
	tests := []struct {
		name            string
		job             Job
		wantContains    []string
		wantNotContains []string
		wantLast        string
	}{
		{
			name: "whole file",
			job: Job{
				InputPath:  "/tmp/input.mp4",
				OutputPath: "/tmp/output.mp4",
				Bitrate:    model.BitrateResult{VideoKbps: 1216},
				AudioKbps:  128,
			},
			wantContains:    []string{"-i /tmp/input.mp4", "-b:v 1216k", "-maxrate 1216k", "-bufsize 2432k", "-b:a 128k", "-preset veryfast"},
			wantNotContains: []string{"-ss", "-t ", "-r 30", "-an"},
			wantLast:        "/tmp/output.mp4",
		},
		{
			name: "clip window and fps cap",
			job: Job{
				InputPath:  "/tmp/input.mp4",
				OutputPath: "/tmp/output.mp4",
				Window:     model.Window{StartSec: 12.5, LengthSec: 10, HasLength: true},
				Bitrate:    model.BitrateResult{VideoKbps: 6569, ReduceFrameRate: true},
				AudioKbps:  96,
				Preset:     "slow",
			},
			wantContains: []string{"-ss 12.5 -i /tmp/input.mp4 -t 10", "-r 30", "-b:a 96k", "-preset slow"},
			wantLast:     "/tmp/output.mp4",
		},
		{
			name: "no audio",
			job: Job{
				InputPath:  "/tmp/input.mp4",
				OutputPath: "/tmp/output.mp4",
				Bitrate:    model.BitrateResult{VideoKbps: 2000},
			},
			wantContains:    []string{"-an"},
			wantNotContains: []string{"-b:a", "-c:a"},
			wantLast:        "/tmp/output.mp4",
		},
		{
			name: "derived output path",
			job: Job{
				InputPath: filepath.Join("videos", "holiday.mov"),
				Bitrate:   model.BitrateResult{VideoKbps: 2074, ReduceFrameRate: true},
				AudioKbps: 128,
			},
			wantLast: filepath.Join("videos", "holiday_2074k_30fps.mp4"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := BuildVideoArgs(tt.job)

			argsStr := strings.Join(args, " ")
			for _, want := range tt.wantContains {
				if !strings.Contains(argsStr, want) {
					t.Errorf("BuildVideoArgs() args missing %q, got: %v", want, args)
				}
			}
			for _, notWant := range tt.wantNotContains {
				if strings.Contains(argsStr, notWant) {
					t.Errorf("BuildVideoArgs() args should not contain %q, got: %v", notWant, args)
				}
			}
			if args[len(args)-1] != tt.wantLast {
				t.Errorf("BuildVideoArgs() last arg = %v, want %v", args[len(args)-1], tt.wantLast)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		r    model.BitrateResult
		want string
	}{
		{"clip.mp4", model.BitrateResult{VideoKbps: 1216}, "clip_1216k.mp4"},
		{filepath.Join("a", "b.c.webm"), model.BitrateResult{VideoKbps: 20}, filepath.Join("a", "b.c_20k.mp4")},
		{"noext", model.BitrateResult{VideoKbps: 6569, ReduceFrameRate: true}, "noext_6569k_30fps.mp4"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, tt.r); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
