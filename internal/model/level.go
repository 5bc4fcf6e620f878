package model

// NextLevelThreshold returns the total-request count at which a gate on the
// given level advances to the next one.
func NextLevelThreshold(level int) int {
	return level * 100
}

// ComputeLevel applies one incremental leveling step: if totalRequests has
// reached the current level's threshold, the gate advances by exactly one
// level. A single call never advances more than one level, so a bulk edit of
// TotalRequests under-levels until enough individual increments apply.
// Callers rely on this; do not replace with 1 + totalRequests/100.
func ComputeLevel(level, totalRequests int) (newLevel int, leveledUp bool) {
	if totalRequests >= NextLevelThreshold(level) {
		return level + 1, true
	}
	return level, false
}

// ProgressToNextLevel returns the progress-bar fraction in [0,1). It is a
// generic mod-100 bar, deliberately not scaled to the current level's
// threshold size.
func ProgressToNextLevel(totalRequests int) float64 {
	return float64(totalRequests%100) / 100
}
