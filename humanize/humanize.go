// Package humanize formats byte counts for display.
package humanize

import "fmt"

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// Bytes formats n with binary (1024) steps: "500 B", "1.00 KB", "2.50 MB"
func Bytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	return fmt.Sprintf("%.2f %s", value, byteUnits[unit])
}
