// Package local implements the store.Store interface backed by a
// profile-local SQLite database, the closest server-less analogue to the
// key-value storage the gate list originally lived in.
package local

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/groblegark/shadowgate/internal/model"
	"github.com/groblegark/shadowgate/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// LocalStore implements store.Store backed by a single-file SQLite database.
type LocalStore struct {
	db *sql.DB
}

// Compile-time check that LocalStore implements store.Store.
var _ store.Store = (*LocalStore)(nil)

// New opens (creating if needed) the SQLite database at the given path and
// runs any pending migrations.
func New(path string) (*LocalStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writes; a single connection avoids busy errors.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &LocalStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) List(ctx context.Context) ([]*model.Gate, error) {
	return s.readAll(ctx)
}

func (s *LocalStore) Append(ctx context.Context, gate *model.Gate) error {
	gates, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	gates = append(gates, gate)
	return s.writeAll(ctx, gates)
}

func (s *LocalStore) Replace(ctx context.Context, id string, gate *model.Gate) error {
	gates, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	for i, g := range gates {
		if g.ID == id {
			gates[i] = gate
			return s.writeAll(ctx, gates)
		}
	}
	return store.ErrNotFound
}

// readAll loads and decodes the whole gate list. A missing row is first-run
// state and yields an empty list.
func (s *LocalStore) readAll(ctx context.Context) ([]*model.Gate, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM storage WHERE key = ?`, store.Key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read gate list: %w", err)
	}

	var gates []*model.Gate
	if err := json.Unmarshal([]byte(raw), &gates); err != nil {
		return nil, fmt.Errorf("decode gate list: %w", err)
	}
	return gates, nil
}

// writeAll encodes and stores the whole gate list under the single key.
func (s *LocalStore) writeAll(ctx context.Context, gates []*model.Gate) error {
	if gates == nil {
		gates = []*model.Gate{}
	}
	raw, err := json.Marshal(gates)
	if err != nil {
		return fmt.Errorf("encode gate list: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO storage (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		store.Key, string(raw))
	if err != nil {
		return fmt.Errorf("write gate list: %w", err)
	}
	return nil
}
