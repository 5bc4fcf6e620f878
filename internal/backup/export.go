// Package backup exports the gate list as JSONL and ships it to configured
// destinations on a schedule. Exports are whole snapshots; a destination
// always holds a complete, self-describing copy.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groblegark/shadowgate/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GateCount int       `json:"gate_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes all gates from the store as JSONL to w, sorted by ID.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	gates, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("list gates: %w", err)
	}

	sort.Slice(gates, func(i, j int) bool {
		return gates[i].ID < gates[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
		GateCount: len(gates),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, g := range gates {
		if err := enc.Encode(record{Type: "gate", Data: g}); err != nil {
			return fmt.Errorf("encode gate %s: %w", g.ID, err)
		}
	}

	return nil
}
