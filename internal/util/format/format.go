// Package format renders sizes, rates and durations for humans.
package format

import (
	"math"
	"strconv"
	"time"
)

var byteUnits = []string{"KB", "MB", "GB", "TB", "PB", "EB"}

// HumanizeBytes converts a byte count into a human-readable string (e.g., "1.5 MB").
// Negative counts keep their sign.
func HumanizeBytes(b int64) string {
	const unit = 1024
	if b < 0 {
		if b == math.MinInt64 {
			return "-8.0 EB"
		}
		return "-" + HumanizeBytes(-b)
	}
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < len(byteUnits)-1; n /= unit {
		div *= unit
		exp++
	}
	frac := float64(b) / float64(div)
	return strconv.FormatFloat(frac, 'f', 1, 64) + " " + byteUnits[exp]
}

// Bits renders a bit count as the byte size it amounts to.
func Bits(bits float64) string {
	return HumanizeBytes(int64(bits / 8))
}

// Kbps renders a kilobit rate, switching to Mbps from 10000 kbps.
func Kbps(kbps int) string {
	if kbps >= 10000 || kbps <= -10000 {
		return strconv.FormatFloat(float64(kbps)/1000, 'f', 1, 64) + " Mbps"
	}
	return strconv.Itoa(kbps) + " kbps"
}

// Seconds renders a duration in seconds like "1m05.50s", rounded to
// hundredths. Under a minute it is just "12.34s".
func Seconds(sec float64) string {
	d := time.Duration(math.Round(sec*100)) * 10 * time.Millisecond
	if d < time.Minute {
		return strconv.FormatFloat(d.Seconds(), 'f', 2, 64) + "s"
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := float64(d%time.Minute) / float64(time.Second)
	out := ""
	if h > 0 {
		out = strconv.Itoa(int(h)) + "h" + pad2(int(m)) + "m"
	} else {
		out = strconv.Itoa(int(m)) + "m"
	}
	ss := strconv.FormatFloat(s, 'f', 2, 64)
	if s < 10 {
		ss = "0" + ss
	}
	return out + ss + "s"
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
