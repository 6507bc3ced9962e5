package domain

import "fmt"

const (
	// KiB is the number of bytes in a kilobyte.
	KiB = 1024
	// MiB is the number of bytes in a megabyte.
	MiB = 1024 * KiB
)

// FormatBytes renders a byte count as B, KB or MB.
func FormatBytes(n int64) string {
	switch {
	case n >= MiB:
		return fmt.Sprintf("%.2f MB", float64(n)/MiB)
	case n >= KiB:
		return fmt.Sprintf("%.2f KB", float64(n)/KiB)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// BytesToKB converts a byte count to kilobytes.
func BytesToKB(n uint64) float64 {
	return float64(n) / KiB
}
