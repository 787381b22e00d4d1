package dirs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on linux")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join(xdg, "sizefit"); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}

	f, err := ConfigFile()
	if err != nil {
		t.Fatalf("ConfigFile() error = %v", err)
	}
	if want := filepath.Join(xdg, "sizefit", "config.yaml"); f != want {
		t.Errorf("ConfigFile() = %q, want %q", f, want)
	}
}

func TestEnsure(t *testing.T) {
	if err := Ensure(""); err == nil {
		t.Error("Ensure(\"\") expected error")
	}
	p := filepath.Join(t.TempDir(), "a", "b")
	if err := Ensure(p); err != nil {
		t.Fatalf("Ensure(%q) error = %v", p, err)
	}
	if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
		t.Errorf("Ensure did not create %q", p)
	}
}
