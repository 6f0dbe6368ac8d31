// Package encode turns normalized score tracks into the bar-quantized op
// representation and deduplicates structurally identical bars across the
// song.
package encode

// Durations the driver encodes directly, in ticks (24 per quarter note).
var lenTable = []int{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12,
	13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24,
	28, 30, 32, 36, 40, 42, 44, 48,
	52, 56, 60, 64, 66, 68, 72, 76,
	80, 84, 88, 92, 96,
}

// quantizeLen returns the largest encodable duration not exceeding n, or 0
// when n < 1. Shortfalls are covered by the caller re-emitting the remainder.
func quantizeLen(n int) int {
	if n >= 96 {
		return 96
	}
	best := 0
	for _, l := range lenTable {
		if l > n {
			break
		}
		best = l
	}
	return best
}
