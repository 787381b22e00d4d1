package bitrate

import (
	"fmt"
	"math"

	"sizefit/internal/model"
)

const (
	overheadMargin   = 0.99 // 1% reserved for container framing
	shortClipSec     = 30.0
	mediumClipSec    = 60.0
	shortMaxKbps     = 16000.0
	longMaxKbps      = 12000.0
	shortCapFactor   = 1.2
	shortFloorFactor = 0.9
	defaultMinKbps   = 2000
)

const (
	pixels720p  = 1280 * 720
	pixels1080p = 1920 * 1080
	pixels1440p = 2560 * 1440
	pixels2160p = 3840 * 2160
)

// Tier is a resolution bucket: every pixel count up to MaxPixels gets at least MinKbps.
type Tier struct {
	Name      string
	MaxPixels int
	MinKbps   int
}

// Tiers is sorted by MaxPixels; the first tier that fits wins.
var Tiers = []Tier{
	{Name: "720p", MaxPixels: pixels720p, MinKbps: 2000},
	{Name: "1080p", MaxPixels: pixels1080p, MinKbps: 3000},
	{Name: "1440p", MaxPixels: pixels1440p, MinKbps: 4000},
	{Name: "2160p", MaxPixels: pixels2160p, MinKbps: 6000},
}

// Breakdown exposes every intermediate value of the sizing algorithm.
type Breakdown struct {
	TargetBits    float64
	AudioBits     float64
	AvailableBits float64
	BaseKbps      int
	Factor        float64
	AdjustedKbps  int
	MinKbps       int
	TargetKbps    int
	MaxKbps       float64
	ShortClip     bool // Short-clip floor applied (duration < 30s).
	VideoKbps     int
}

// ComputeVideoKbps returns the video bitrate (kbps) that fits a clip of
// durationSec at width x height under targetSizeMB, leaving room for audio.
func ComputeVideoKbps(durationSec float64, width, height int, targetSizeMB float64, audioKbps int) (int, error) {
	b, err := Explain(model.BitrateRequest{
		DurationSec:  durationSec,
		Width:        width,
		Height:       height,
		TargetSizeMB: targetSizeMB,
		AudioKbps:    audioKbps,
	})
	if err != nil {
		return 0, err
	}
	return b.VideoKbps, nil
}

// Explain runs the sizing algorithm and keeps the intermediate values.
// Base, adjusted and target kbps are truncated toward zero before later steps
// use them; moving a truncation changes the output.
func Explain(req model.BitrateRequest) (Breakdown, error) {
	if err := validate(req); err != nil {
		return Breakdown{}, err
	}
	d := req.DurationSec
	res := req.Width * req.Height

	var b Breakdown
	b.TargetBits = req.TargetSizeMB * 8 * 1024 * 1024
	b.AudioBits = d * float64(req.AudioKbps) * 1024
	b.AvailableBits = b.TargetBits*overheadMargin - b.AudioBits
	b.BaseKbps = truncKbps(b.AvailableBits / (d * 1024))

	b.Factor = resolutionFactor(res)
	b.AdjustedKbps = truncKbps(float64(b.BaseKbps) * b.Factor)
	b.MinKbps = MinKbps(res)

	b.TargetKbps = truncKbps(b.TargetBits * overheadMargin / (d * 1024))
	target := float64(b.TargetKbps)
	if d < mediumClipSec {
		b.MaxKbps = math.Min(shortMaxKbps, target*shortCapFactor)
	} else {
		b.MaxKbps = math.Min(longMaxKbps, target)
	}

	result := math.Min(b.MaxKbps, math.Max(float64(b.MinKbps), float64(b.AdjustedKbps)))
	if d < shortClipSec {
		b.ShortClip = true
		result = math.Max(result, target*shortFloorFactor)
	}
	b.VideoKbps = truncKbps(result)
	return b, nil
}

// MinKbps returns the floor of the smallest tier that holds pixels.
func MinKbps(pixels int) int {
	for _, t := range Tiers {
		if pixels <= t.MaxPixels {
			return t.MinKbps
		}
	}
	return defaultMinKbps
}

// TierName names the tier holding pixels, or "above 2160p".
func TierName(pixels int) string {
	for _, t := range Tiers {
		if pixels <= t.MaxPixels {
			return t.Name
		}
	}
	return "above " + Tiers[len(Tiers)-1].Name
}

func resolutionFactor(pixels int) float64 {
	switch {
	case pixels <= pixels720p:
		return 0.9
	case pixels <= pixels1080p:
		return 1.1
	default:
		return 1.3
	}
}

// truncKbps truncates toward zero, saturating instead of overflowing for
// near-zero durations.
func truncKbps(v float64) int {
	switch {
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}

func validate(req model.BitrateRequest) error {
	switch {
	case !(req.DurationSec > 0) || math.IsInf(req.DurationSec, 0):
		return fmt.Errorf("%w: duration must be positive, got %v", model.ErrInvalidInput, req.DurationSec)
	case req.Width <= 0 || req.Height <= 0:
		return fmt.Errorf("%w: resolution must be positive, got %dx%d", model.ErrInvalidInput, req.Width, req.Height)
	case !(req.TargetSizeMB > 0):
		return fmt.Errorf("%w: target size must be positive, got %v MB", model.ErrInvalidInput, req.TargetSizeMB)
	case req.AudioKbps < 0:
		return fmt.Errorf("%w: audio bitrate must not be negative, got %d kbps", model.ErrInvalidInput, req.AudioKbps)
	}
	return nil
}
