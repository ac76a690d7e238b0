// Package format renders the per-worker progress figures: short display
// names, remaining-time strings, and megabyte values.
package format

import (
	"math"
	"strconv"
	"strings"
)

// nameWidth is the display width a filename is cut down to.
const nameWidth = 25

// tailKeep is how many characters before the extension dot survive a cut.
const tailKeep = 5

// ShortName truncates long filenames for the status block. Names shorter
// than the width pass through unchanged; longer names keep the first
// nameWidth characters plus "..." plus the last tailKeep characters before
// the extension and the extension itself.
func ShortName(name string) string {
	if len(name) < nameWidth {
		return name
	}
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return name[:nameWidth] + "..."
	}
	tail := dot - tailKeep
	if tail < 0 {
		tail = 0
	}
	return name[:nameWidth] + "..." + name[tail:]
}

// TimeLeft renders an ETA in seconds as "H hour(s) M minute(s) S second(s)
// left", omitting zero units. Zero or negative ETA yields an empty string.
func TimeLeft(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var out string
	if hours > 0 {
		out += strconv.Itoa(hours) + " hour" + plural(hours) + " "
	}
	if minutes > 0 {
		out += strconv.Itoa(minutes) + " minute" + plural(minutes) + " "
	}
	if secs > 0 {
		out += strconv.Itoa(secs) + " second" + plural(secs) + " "
	}
	if out == "" {
		return ""
	}
	return out + "left"
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// Megabytes converts a byte count to megabytes rounded to two decimals.
func Megabytes(b int64) float64 {
	return math.Round(float64(b)/1e6*100) / 100
}

// Percent computes downloaded/total as a percentage rounded to two
// decimals. A non-positive total yields a negative percentage so callers
// can tell "unknown" apart from 0%.
func Percent(downloaded, total float64) float64 {
	if total <= 0 {
		return -1
	}
	return math.Round(downloaded/total*100*100) / 100
}
