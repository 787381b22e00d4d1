package util

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name string
		path string
		args []string
		want string
	}{
		{name: "plain", path: "ffprobe", args: []string{"-v", "error"}, want: "ffprobe -v error"},
		{name: "spaces", path: "ffprobe", args: []string{"my clip.mp4"}, want: "ffprobe 'my clip.mp4'"},
		{name: "single quote", path: "ffprobe", args: []string{"it's.mp4"}, want: `ffprobe 'it'\''s.mp4'`},
		{name: "empty arg", path: "ffprobe", args: []string{""}, want: "ffprobe ''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShellQuote(tt.path, tt.args); got != tt.want {
				t.Errorf("ShellQuote() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_CapturesOutputAndExitCode(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	res, err := Run(context.Background(), CmdSpec{Path: sh, Args: []string{"-c", "echo out; echo err 1>&2"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(res.Stdout) != "out\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if string(res.Stderr) != "err\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}

	res, err = Run(context.Background(), CmdSpec{Path: sh, Args: []string{"-c", "echo boom 1>&2; exit 3"}})
	if err == nil {
		t.Fatal("Run() expected error on non-zero exit")
	}
	if res.Code != 3 {
		t.Errorf("Code = %d, want 3", res.Code)
	}
	if string(res.Stderr) != "boom\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	res, err := Run(context.Background(), CmdSpec{Path: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("Run() expected error for missing binary")
	}
	if res.Code != -1 {
		t.Errorf("Code = %d, want -1", res.Code)
	}
}

func TestCheckInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CheckInputFile(file); err != nil {
		t.Errorf("CheckInputFile(existing) = %v", err)
	}
	if err := CheckInputFile(filepath.Join(dir, "missing.mp4")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CheckInputFile(missing) = %v, want ErrNotExist", err)
	}
	if err := CheckInputFile(""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CheckInputFile(\"\") = %v, want ErrNotExist", err)
	}
	if err := CheckInputFile(dir); !errors.Is(err, ErrNotRegular) {
		t.Errorf("CheckInputFile(dir) = %v, want ErrNotRegular", err)
	}
}
