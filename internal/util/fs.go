package util

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotRegular is returned by CheckInputFile for directories and other non-files.
var ErrNotRegular = errors.New("not a regular file")

// CheckInputFile returns nil if path names an existing regular file.
// A missing path yields an error wrapping os.ErrNotExist.
func CheckInputFile(path string) error {
	if path == "" {
		return fmt.Errorf("empty path: %w", os.ErrNotExist)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	return nil
}
