package model

import "math/rand"

// activityRange is the half-open value range for one window's daily points.
type activityRange struct {
	min, max int // inclusive bounds
}

var activityRanges = map[Window]activityRange{
	Window7d:  {10, 59},
	Window30d: {20, 119},
	Window90d: {30, 179},
}

// NewActivitySeries generates the placeholder activity dataset for a new
// gate: one point per day for each window, uniformly random within the
// window's range. The shape is deterministic; only the values come from rng.
func NewActivitySeries(rng *rand.Rand) map[Window][]int {
	series := make(map[Window][]int, len(Windows))
	for _, w := range Windows {
		r := activityRanges[w]
		points := make([]int, w.Days())
		for i := range points {
			points[i] = r.min + rng.Intn(r.max-r.min+1)
		}
		series[w] = points
	}
	return series
}
