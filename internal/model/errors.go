package model

import "errors"

// Error kinds. Stages wrap these with %w so callers can match with errors.Is.
var (
	ErrUsage           = errors.New("usage error")
	ErrInputNotFound   = errors.New("input file not found")
	ErrProbeFailure    = errors.New("ffprobe failed")
	ErrMetadataMissing = errors.New("metadata missing")
	ErrRange           = errors.New("start time is beyond video duration")
	ErrInvalidInput    = errors.New("invalid input")
)

// Kind returns the taxonomy error err wraps, or nil if it wraps none.
func Kind(err error) error {
	for _, k := range []error{ErrUsage, ErrInputNotFound, ErrProbeFailure, ErrMetadataMissing, ErrRange, ErrInvalidInput} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
