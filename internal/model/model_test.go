package model

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"
)

func TestStatus_IsValid(t *testing.T) {
	for _, tc := range []struct {
		status Status
		want   bool
	}{
		{StatusActive, true},
		{StatusInactive, true},
		{Status(""), false},
		{Status("deleted"), false},
	} {
		if got := tc.status.IsValid(); got != tc.want {
			t.Errorf("Status(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestWindow_Days(t *testing.T) {
	for _, tc := range []struct {
		window Window
		want   int
	}{
		{Window7d, 7},
		{Window30d, 30},
		{Window90d, 90},
		{Window(""), 0},
		{Window("365d"), 0},
	} {
		if got := tc.window.Days(); got != tc.want {
			t.Errorf("Window(%q).Days() = %d, want %d", tc.window, got, tc.want)
		}
	}
}

func TestGate_Clone(t *testing.T) {
	g := &Gate{
		ID:             "gate-abc123",
		Name:           "Test",
		SourceURL:      "https://x",
		Status:         StatusActive,
		CreatedAt:      time.Now().UTC(),
		Level:          1,
		ActivitySeries: map[Window][]int{Window7d: {1, 2, 3, 4, 5, 6, 7}},
	}
	clone := g.Clone()
	clone.ActivitySeries[Window7d][0] = 99
	clone.TotalRequests = 50

	if g.ActivitySeries[Window7d][0] != 1 {
		t.Error("Clone shares the activity series with the original")
	}
	if g.TotalRequests != 0 {
		t.Error("Clone shares scalar fields with the original")
	}
}

// The persisted JSON field names are the wire contract; changing any of them
// would break both stored data and the synthetic API mirror.
func TestGate_JSONFieldNames(t *testing.T) {
	g := &Gate{
		ID:        "gate-1700000000000",
		Name:      "Test",
		SourceURL: "https://x",
		Status:    StatusActive,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Level:     1,
	}
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, name := range []string{
		"id", "name", "url", "status", "createdAt",
		"requestsToday", "totalRequests", "level", "activityData",
	} {
		if _, ok := fields[name]; !ok {
			t.Errorf("marshaled gate is missing field %q", name)
		}
	}
	if len(fields) != 9 {
		t.Errorf("marshaled gate has %d fields, want 9", len(fields))
	}
}

func TestComputeLevel_SingleStep(t *testing.T) {
	for _, tc := range []struct {
		level, total  int
		wantLevel     int
		wantLeveledUp bool
	}{
		{1, 0, 1, false},
		{1, 99, 1, false},
		{1, 100, 2, true},
		{1, 101, 2, true},
		{2, 199, 2, false},
		{2, 200, 3, true},
		// A bulk jump still advances only one level per call.
		{1, 1000, 2, true},
	} {
		level, leveledUp := ComputeLevel(tc.level, tc.total)
		if level != tc.wantLevel || leveledUp != tc.wantLeveledUp {
			t.Errorf("ComputeLevel(%d, %d) = (%d, %v), want (%d, %v)",
				tc.level, tc.total, level, leveledUp, tc.wantLevel, tc.wantLeveledUp)
		}
	}
}

// Applied one increment at a time from zero, the incremental rule agrees with
// the closed form 1 + total/100.
func TestComputeLevel_IncrementalMatchesClosedForm(t *testing.T) {
	level := 1
	for total := 1; total <= 450; total++ {
		level, _ = ComputeLevel(level, total)
		if want := 1 + total/100; level != want {
			t.Fatalf("after %d single increments: level = %d, want %d", total, level, want)
		}
	}
}

// Under a bulk jump the incremental rule diverges from the closed form: a
// gate whose total leaps far ahead under-levels until enough individual
// increments apply. This is long-standing observable behavior, kept on
// purpose; if this test starts failing, the leveling rule was "fixed".
func TestComputeLevel_BulkJumpUnderLevels(t *testing.T) {
	level, leveledUp := ComputeLevel(1, 1000)
	if !leveledUp || level != 2 {
		t.Fatalf("ComputeLevel(1, 1000) = (%d, %v), want (2, true)", level, leveledUp)
	}
	if closed := 1 + 1000/100; level == closed {
		t.Fatalf("bulk jump reached closed-form level %d; divergence is expected", closed)
	}
}

func TestProgressToNextLevel(t *testing.T) {
	for _, tc := range []struct {
		total int
		want  float64
	}{
		{0, 0},
		{50, 0.5},
		{99, 0.99},
		{100, 0},
		// Not scaled to the level-2 threshold of 200: still a mod-100 bar.
		{250, 0.5},
	} {
		if got := ProgressToNextLevel(tc.total); got != tc.want {
			t.Errorf("ProgressToNextLevel(%d) = %v, want %v", tc.total, got, tc.want)
		}
	}
}

func TestNewActivitySeries(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	series := NewActivitySeries(rng)

	if len(series) != len(Windows) {
		t.Fatalf("series has %d windows, want %d", len(series), len(Windows))
	}
	for _, w := range Windows {
		points, ok := series[w]
		if !ok {
			t.Fatalf("series is missing window %q", w)
		}
		if len(points) != w.Days() {
			t.Errorf("window %q has %d points, want %d", w, len(points), w.Days())
		}
		r := activityRanges[w]
		for i, p := range points {
			if p < r.min || p > r.max {
				t.Errorf("window %q point %d = %d, want within [%d,%d]", w, i, p, r.min, r.max)
			}
		}
	}
}

func TestNewActivitySeries_SeededDeterminism(t *testing.T) {
	a := NewActivitySeries(rand.New(rand.NewSource(7)))
	b := NewActivitySeries(rand.New(rand.NewSource(7)))
	for _, w := range Windows {
		for i := range a[w] {
			if a[w][i] != b[w][i] {
				t.Fatalf("window %q diverges at point %d with identical seeds", w, i)
			}
		}
	}
}

func TestValidateGate(t *testing.T) {
	valid := func() *Gate {
		return &Gate{
			ID:        "gate-abc",
			Name:      "Test",
			SourceURL: "https://x",
			Status:    StatusActive,
			CreatedAt: time.Now().UTC(),
			Level:     1,
		}
	}

	if err := ValidateGate(valid()); err != nil {
		t.Fatalf("valid gate rejected: %v", err)
	}

	for _, tc := range []struct {
		name   string
		mutate func(*Gate)
		field  string
	}{
		{"empty id", func(g *Gate) { g.ID = "" }, "id"},
		{"empty name", func(g *Gate) { g.Name = "  " }, "name"},
		{"empty url", func(g *Gate) { g.SourceURL = "" }, "url"},
		{"bad status", func(g *Gate) { g.Status = "paused" }, "status"},
		{"zero level", func(g *Gate) { g.Level = 0 }, "level"},
		{"negative today", func(g *Gate) { g.RequestsToday = -1 }, "requestsToday"},
		{"negative total", func(g *Gate) { g.TotalRequests = -5 }, "totalRequests"},
		{"short window", func(g *Gate) { g.ActivitySeries = map[Window][]int{Window7d: {1, 2}} }, "activityData"},
		{"unknown window", func(g *Gate) { g.ActivitySeries = map[Window][]int{"365d": {1}} }, "activityData"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := valid()
			tc.mutate(g)
			err := ValidateGate(g)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			found := false
			for _, fe := range ve.Errors {
				if fe.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on field %q: %v", tc.field, err)
			}
		})
	}
}
