package model

import "time"

// Status represents a gate's availability.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	}
	return false
}

// Window is an activity-series timeframe key.
type Window string

const (
	Window7d  Window = "7d"
	Window30d Window = "30d"
	Window90d Window = "90d"
)

// Windows lists all timeframe keys, shortest first.
var Windows = []Window{Window7d, Window30d, Window90d}

// String returns the string representation of the window.
func (w Window) String() string {
	return string(w)
}

// IsValid checks whether the window is a known timeframe key.
func (w Window) IsValid() bool {
	switch w {
	case Window7d, Window30d, Window90d:
		return true
	}
	return false
}

// Days returns the number of daily points in the window. Unknown windows
// return 0.
func (w Window) Days() int {
	switch w {
	case Window7d:
		return 7
	case Window30d:
		return 30
	case Window90d:
		return 90
	}
	return 0
}

// Gate is the core project record. The JSON field names are the persistence
// and synthetic-API wire contract and must not change.
type Gate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SourceURL string    `json:"url"` // opaque spreadsheet reference, never fetched
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`

	// RequestsToday is session-scoped: no day-boundary reset exists.
	RequestsToday int `json:"requestsToday"`
	TotalRequests int `json:"totalRequests"`

	// Level caches the result of the incremental leveling rule; it must
	// never be recomputed from TotalRequests in closed form.
	Level int `json:"level"`

	// ActivitySeries is a placeholder dataset generated once at creation.
	ActivitySeries map[Window][]int `json:"activityData"`
}

// Clone returns a deep copy of the gate, including the activity series.
func (g *Gate) Clone() *Gate {
	clone := *g
	if g.ActivitySeries != nil {
		clone.ActivitySeries = make(map[Window][]int, len(g.ActivitySeries))
		for w, points := range g.ActivitySeries {
			clone.ActivitySeries[w] = append([]int(nil), points...)
		}
	}
	return &clone
}
