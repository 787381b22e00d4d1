package bitrate

import (
	"strconv"
	"strings"

	"sizefit/internal/model"
)

// FrameRateThreshold is the rate above which frame rate reduction is recommended.
const FrameRateThreshold = 30.0

// ParseFrameRate parses an ffprobe rational such as "30000/1001".
// Anything that is not two integers with a non-zero denominator yields
// model.DefaultFrameRate.
func ParseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return model.DefaultFrameRate
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return model.DefaultFrameRate
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d == 0 {
		return model.DefaultFrameRate
	}
	return float64(n) / float64(d)
}

// ShouldReduceFrameRate reports whether fps is above FrameRateThreshold.
func ShouldReduceFrameRate(fps float64) bool {
	return fps > FrameRateThreshold
}

// Recommend combines the bitrate and frame-rate decisions for one clip.
func Recommend(req model.BitrateRequest, fps float64) (model.BitrateResult, Breakdown, error) {
	b, err := Explain(req)
	if err != nil {
		return model.BitrateResult{}, Breakdown{}, err
	}
	return model.BitrateResult{
		VideoKbps:       b.VideoKbps,
		ReduceFrameRate: ShouldReduceFrameRate(fps),
	}, b, nil
}
