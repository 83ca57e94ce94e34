package bytes

import "fmt"

var units = [...]string{"B", "KB", "MB", "GB", "TB"}

// FmtMem renders a byte count as the two most significant binary units,
// e.g. 1536 -> "1KB 512B". Counter storage is reported this way in logs.
func FmtMem(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%dB", n)
	}
	unit, div := 0, uint64(1)
	for unit < len(units)-1 && n/div >= 1024 {
		unit++
		div *= 1024
	}
	return fmt.Sprintf("%d%s %d%s", n/div, units[unit], n%div/(div/1024), units[unit-1])
}
