// Package clip resolves the part of a video that is being sized.
package clip

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sizefit/internal/model"
)

// ParseSeconds parses an optional seconds argument. An empty (or blank)
// string means the value was not given.
func ParseSeconds(name, s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("%w: %s must be a number of seconds, got %q", model.ErrUsage, name, s)
	}
	return v, true, nil
}

// ParseWindow builds a Window from the optional start and duration arguments.
func ParseWindow(start, length string) (model.Window, error) {
	var w model.Window
	st, _, err := ParseSeconds("start_seconds", start)
	if err != nil {
		return model.Window{}, err
	}
	w.StartSec = st
	l, ok, err := ParseSeconds("duration_seconds", length)
	if err != nil {
		return model.Window{}, err
	}
	w.LengthSec, w.HasLength = l, ok
	return w, nil
}

// Resolve returns the effective clip duration for a video of fullSec seconds.
func Resolve(fullSec float64, w model.Window) (float64, error) {
	if w.StartSec < 0 {
		return 0, fmt.Errorf("%w: start offset must not be negative, got %v", model.ErrInvalidInput, w.StartSec)
	}
	if w.StartSec >= fullSec {
		return 0, fmt.Errorf("%w (start %.2fs, duration %.2fs)", model.ErrRange, w.StartSec, fullSec)
	}
	remaining := fullSec - w.StartSec
	if !w.HasLength {
		return remaining, nil
	}
	if w.LengthSec <= 0 {
		return 0, fmt.Errorf("%w: clip length must be positive, got %v", model.ErrInvalidInput, w.LengthSec)
	}
	return math.Min(w.LengthSec, remaining), nil
}
