package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SnapshotRepository stores the engine's keyed JSON snapshots in a single
// key/value table. The running process treats these writes as best-effort
// caching; the in-memory store remains the source of truth.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new instance of SnapshotRepository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// EnsureSchema creates the snapshots table when it does not exist yet.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS snapshots (key TEXT PRIMARY KEY, payload JSONB NOT NULL, updated_at TIMESTAMPTZ NOT NULL)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure snapshots schema: %w", err)
	}
	return nil
}

// Load reads and unmarshals the snapshot stored under key. The boolean is
// false when no snapshot exists yet.
func (r *SnapshotRepository) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	const query = `SELECT payload FROM snapshots WHERE key = $1 LIMIT 1`
	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, key); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("unmarshal snapshot %s: %w", key, err)
	}
	return true, nil
}

// Save marshals value and upserts it under key.
func (r *SnapshotRepository) Save(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}
	const query = `INSERT INTO snapshots (key, payload, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}
