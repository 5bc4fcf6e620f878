package store

import (
	"context"
	"errors"

	"github.com/groblegark/shadowgate/internal/model"
)

// Key is the single storage key holding the whole gate list, kept identical
// to the browser-era layout so exported datasets remain interchangeable.
const Key = "shadowGateProjects"

// ErrNotFound is returned by Replace when no gate carries the given ID.
var ErrNotFound = errors.New("gate not found")

// Store persists the gate list as a whole collection: every mutation reads
// the entire list, changes it in memory, and writes the entire list back.
// Operations are therefore not atomic across concurrent writers; two
// interleaved mutations can lose one of them. A single writer at a time is
// assumed; deployments with more than one writer must serialize externally.
//
// A store with no prior data lists an empty collection, not an error.
type Store interface {
	// List returns all gates in insertion order.
	List(ctx context.Context) ([]*model.Gate, error)
	// Append adds a gate to the end of the list. ID uniqueness is the
	// caller's precondition; the store does not verify it.
	Append(ctx context.Context, gate *model.Gate) error
	// Replace swaps the gate with the given ID for the provided record.
	Replace(ctx context.Context, id string, gate *model.Gate) error

	// Lifecycle
	Close() error
}
