// Package store keeps versioned model card artifacts in a SQLite database.
// Each Put records a new artifact; earlier versions of a card stay
// retrievable by ID.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-modelcard/pkg/card"
	"github.com/goliatone/go-modelcard/pkg/cardpb"
	"github.com/goliatone/go-modelcard/pkg/schema"
)

// ErrNotFound is returned when no artifact matches a lookup.
var ErrNotFound = errors.New("store: artifact not found")

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const ddl = `
CREATE TABLE IF NOT EXISTS artifacts (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	schema_version TEXT NOT NULL,
	created_at     INTEGER NOT NULL,
	card           BLOB
);
CREATE INDEX IF NOT EXISTS artifacts_by_name ON artifacts(name, created_at);
`

// Artifact is one stored version of a model card.
type Artifact struct {
	ID            string
	Name          string
	SchemaVersion string
	CreatedAt     time.Time
	Card          *card.ModelCard
}

// JSON returns the artifact's card as a versioned JSON payload.
func (a Artifact) JSON() ([]byte, error) {
	return a.Card.ToJSON(card.WithSchemaVersion(), card.WithIndent("  "))
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for artifact timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is safe for concurrent use; SQLite serialises writers.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: database path is required")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// One connection keeps an in-memory database alive and matches SQLite's
	// single-writer model.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{"PRAGMA busy_timeout=5000"}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: set pragma: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initialise schema: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores c as a new artifact. An empty name falls back to the card's
// model_details.name. Cards failing card.Check are rejected so every stored
// artifact can be read back.
func (s *Store) Put(ctx context.Context, name string, c *card.ModelCard) (Artifact, error) {
	if c == nil {
		return Artifact{}, card.ErrNilCard
	}
	if name == "" && c.ModelDetails != nil {
		name = c.ModelDetails.Name.Value()
	}
	if name == "" {
		return Artifact{}, errors.New("store: artifact name is required")
	}
	if err := c.Check(); err != nil {
		return Artifact{}, fmt.Errorf("store: %w", err)
	}

	blob, err := c.ToProto().Marshal()
	if err != nil {
		return Artifact{}, fmt.Errorf("store: encode card: %w", err)
	}
	a := Artifact{
		ID:            uuid.NewString(),
		Name:          name,
		SchemaVersion: schema.Current,
		CreatedAt:     s.now().UTC(),
		Card:          c.Clone(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO artifacts (id, name, schema_version, created_at, card) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.SchemaVersion, a.CreatedAt.UnixNano(), blob)
	if err != nil {
		return Artifact{}, fmt.Errorf("store: insert artifact: %w", err)
	}
	return a, nil
}

// Get returns the artifact with id.
func (s *Store) Get(ctx context.Context, id string) (Artifact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Artifact{}, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, schema_version, created_at, card FROM artifacts WHERE id = ?`, id)
	return scanArtifact(row)
}

// Latest returns the most recently stored artifact named name.
func (s *Store) Latest(ctx context.Context, name string) (Artifact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, schema_version, created_at, card FROM artifacts
		 WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, name)
	return scanArtifact(row)
}

// Summary describes an artifact without decoding its card.
type Summary struct {
	ID            string
	Name          string
	SchemaVersion string
	CreatedAt     time.Time
}

// List returns every artifact, grouped by name and oldest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, schema_version, created_at FROM artifacts ORDER BY name, created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list artifacts: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum   Summary
			nanos int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.SchemaVersion, &nanos); err != nil {
			return nil, fmt.Errorf("store: scan artifact: %w", err)
		}
		sum.CreatedAt = time.Unix(0, nanos).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list artifacts: %w", err)
	}
	return out, nil
}

func scanArtifact(row *sql.Row) (Artifact, error) {
	var (
		a     Artifact
		nanos int64
		blob  []byte
	)
	if err := row.Scan(&a.ID, &a.Name, &a.SchemaVersion, &nanos, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artifact{}, ErrNotFound
		}
		return Artifact{}, fmt.Errorf("store: read artifact: %w", err)
	}
	a.CreatedAt = time.Unix(0, nanos).UTC()

	pb := &cardpb.ModelCard{}
	if err := pb.Unmarshal(blob); err != nil {
		return Artifact{}, fmt.Errorf("store: artifact %s: %w", a.ID, err)
	}
	c, err := card.FromProto(pb)
	if err != nil {
		return Artifact{}, fmt.Errorf("store: artifact %s: %w", a.ID, err)
	}
	a.Card = c
	return a, nil
}
