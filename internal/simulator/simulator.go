// Package simulator drives synthetic request traffic against gates. Each
// simulated request bumps the gate's counters, applies the leveling rule, and
// persists the result before notifying connected mirrors.
package simulator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/groblegark/shadowgate/internal/bridge"
	"github.com/groblegark/shadowgate/internal/model"
	"github.com/groblegark/shadowgate/internal/store"
)

// Simulator mutates gate counters through the store and announces the result
// on the bus. Publish failures never fail a simulation; persistence failures
// always do.
type Simulator struct {
	store     store.Store
	publisher bridge.Publisher
}

// New creates a Simulator. Pass bridge.NoopPublisher when no bus is wired.
func New(s store.Store, p bridge.Publisher) *Simulator {
	return &Simulator{store: s, publisher: p}
}

// Simulate records one synthetic request against the gate: both counters
// increment and the leveling rule applies one step. The input gate is not
// modified; the updated record is returned after it has been persisted. If
// persistence fails the stored state is unchanged and the error is returned.
func (s *Simulator) Simulate(ctx context.Context, gate *model.Gate) (*model.Gate, bool, error) {
	updated := gate.Clone()
	updated.RequestsToday++
	updated.TotalRequests++

	newLevel, leveledUp := model.ComputeLevel(updated.Level, updated.TotalRequests)
	updated.Level = newLevel

	if err := s.store.Replace(ctx, updated.ID, updated); err != nil {
		return nil, false, fmt.Errorf("persisting simulated request for %s: %w", updated.ID, err)
	}

	s.notify(ctx, updated)
	return updated, leveledUp, nil
}

// notify announces the mutation: a single-record advisory update followed by
// a wholesale sync of the full list so mirrors that missed the update still
// converge. Failures are logged and ignored.
func (s *Simulator) notify(ctx context.Context, updated *model.Gate) {
	if err := s.publisher.Publish(ctx, bridge.TopicProjectUpdate, bridge.NewProjectUpdate(updated)); err != nil {
		slog.Warn("failed to publish gate update", "gate_id", updated.ID, "error", err)
	}

	gates, err := s.store.List(ctx)
	if err != nil {
		slog.Warn("failed to list gates for sync", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, bridge.TopicProjectsSync, bridge.NewProjectsSync(gates)); err != nil {
		slog.Warn("failed to publish gate sync", "error", err)
	}
}
