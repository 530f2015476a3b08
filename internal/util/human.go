package util

import (
	"fmt"
	"time"
)

var byteUnits = []string{"KB", "MB", "GB", "TB"}

// Human formats a byte count with binary units.
func Human(n int64) string {
	if n < 1<<10 {
		return fmt.Sprintf("%d B", n)
	}

	v := float64(n) / (1 << 10)
	unit := 0
	for v >= 1<<10 && unit < len(byteUnits)-1 {
		v /= 1 << 10
		unit++
	}

	return fmt.Sprintf("%.2f %s", v, byteUnits[unit])
}

// Rate formats n bytes moved over d as a per-second figure. It is empty
// when d is too short to say anything.
func Rate(n int64, d time.Duration) string {
	if d < time.Millisecond || n <= 0 {
		return ""
	}
	return Human(int64(float64(n)/d.Seconds())) + "/s"
}
