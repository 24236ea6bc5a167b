// package formatter converts byte counts, byte rates, and elapsed durations into human-readable strings
package formatter

import (
	"fmt"
	"math"
	"strconv"
)

// units holds the four supported magnitude labels; values above the last unit stay in GB.
var units = [4]string{"B", "KB", "MB", "GB"}

// FormatBytes renders a byte count using 1024-based units, rounded to one decimal place.
//
// A zero count renders as "0 B". Trailing ".0" is trimmed, so 1024 renders as "1 KB" and 1536 as "1.5 KB".
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 B"
	}

	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i < 0 {
		i = 0
	}
	if i > len(units)-1 {
		i = len(units) - 1
	}

	value := math.Round(float64(n)/math.Pow(1024, float64(i))*10) / 10
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + units[i]
}

// FormatRate renders a transfer rate as a byte count per second.
func FormatRate(bytesPerSecond float64) string {
	return FormatBytes(int64(bytesPerSecond)) + "/s"
}

// FormatDuration renders elapsed whole seconds as seconds, minutes and seconds, or hours and minutes.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}
