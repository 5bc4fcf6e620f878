package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/groblegark/shadowgate/internal/model"
	"github.com/groblegark/shadowgate/internal/store"
)

// memStore is an in-memory Store for backup tests.
type memStore struct {
	gates []*model.Gate
}

func (m *memStore) List(_ context.Context) ([]*model.Gate, error) {
	return m.gates, nil
}

func (m *memStore) Append(_ context.Context, gate *model.Gate) error {
	m.gates = append(m.gates, gate)
	return nil
}

func (m *memStore) Replace(_ context.Context, id string, gate *model.Gate) error {
	for i, g := range m.gates {
		if g.ID == id {
			m.gates[i] = gate
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) Close() error { return nil }

func TestExportJSONL_Empty(t *testing.T) {
	ms := &memStore{}
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.GateCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_SortsGatesByID(t *testing.T) {
	now := time.Now().UTC()
	ms := &memStore{gates: []*model.Gate{
		{ID: "gate-zzz", Name: "Second", Status: model.StatusActive, CreatedAt: now, Level: 1},
		{ID: "gate-aaa", Name: "First", Status: model.StatusActive, CreatedAt: now, Level: 3},
	}}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 gates = 3 lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.GateCount != 2 {
		t.Fatalf("header gate_count = %d, want 2", h.GateCount)
	}

	var rec1, rec2 record
	if err := json.Unmarshal([]byte(lines[1]), &rec1); err != nil {
		t.Fatalf("unmarshal line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &rec2); err != nil {
		t.Fatalf("unmarshal line 2: %v", err)
	}
	if rec1.Type != "gate" || rec2.Type != "gate" {
		t.Fatalf("expected gate types, got %q and %q", rec1.Type, rec2.Type)
	}

	data1, _ := json.Marshal(rec1.Data)
	data2, _ := json.Marshal(rec2.Data)
	var g1, g2 model.Gate
	if err := json.Unmarshal(data1, &g1); err != nil {
		t.Fatalf("unmarshal g1: %v", err)
	}
	if err := json.Unmarshal(data2, &g2); err != nil {
		t.Fatalf("unmarshal g2: %v", err)
	}

	if g1.ID != "gate-aaa" || g2.ID != "gate-zzz" {
		t.Fatalf("gates not sorted: got %q, %q", g1.ID, g2.ID)
	}
	if g1.Level != 3 {
		t.Fatalf("gate-aaa level = %d, want 3", g1.Level)
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
