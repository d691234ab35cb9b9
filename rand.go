package coexist

//
// Shared randomness
//
// Every draw in a run — backoff slots, desync offsets — goes through the
// single *rand.Rand the run was seeded with at entry, so that two runs
// with identical inputs produce bit-identical statistics.
//

import "math/rand"

// drawBackoffSlots implements CW = min(2^retriesInRow*(minCW+1)-1, maxCW),
// shared by both the Wi-Fi and NR-U contention-window formulas.
func drawBackoffSlots(rng *rand.Rand, retriesInRow, minCW, maxCW int) int {
	upper := (1<<uint(retriesInRow))*(minCW+1) - 1
	if upper > maxCW {
		upper = maxCW
	}
	if upper < 0 {
		upper = 0
	}
	return rng.Intn(upper + 1)
}

// uniformInt64 draws a uniformly distributed integer in [lo, hi].
func uniformInt64(rng *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int63n(hi-lo+1)
}
