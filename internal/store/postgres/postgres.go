// Package postgres implements the store.Store interface backed by PostgreSQL,
// for deployments where the gate list lives on a shared server instead of a
// local profile.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/shadowgate/internal/model"
	"github.com/groblegark/shadowgate/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
// The whole-collection read-modify-write contract is unchanged: Postgres
// buys durability here, not record-level updates.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// newWithDB wraps an existing connection without running migrations (tests).
func newWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) List(ctx context.Context) ([]*model.Gate, error) {
	return s.readAll(ctx)
}

func (s *PostgresStore) Append(ctx context.Context, gate *model.Gate) error {
	gates, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	gates = append(gates, gate)
	return s.writeAll(ctx, gates)
}

func (s *PostgresStore) Replace(ctx context.Context, id string, gate *model.Gate) error {
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

func (s *PostgresStore) readAll(ctx context.Context) ([]*model.Gate, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM storage WHERE key = $1`, store.Key).Scan(&raw)
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

func (s *PostgresStore) writeAll(ctx context.Context, gates []*model.Gate) error {
	if gates == nil {
		gates = []*model.Gate{}
	}
	raw, err := json.Marshal(gates)
	if err != nil {
		return fmt.Errorf("encode gate list: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO storage (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		store.Key, string(raw))
	if err != nil {
		return fmt.Errorf("write gate list: %w", err)
	}
	return nil
}
