package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_collections (
    key TEXT PRIMARY KEY,
    value JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type kvRow struct {
	Key   string `db:"key"`
	Value []byte `db:"value"`
}

// PostgresKVStore keeps each collection as one JSONB row.
type PostgresKVStore struct {
	db        *sqlx.DB
	namespace string
}

// NewPostgresKVStore constructs a Postgres backed store.
func NewPostgresKVStore(db *sqlx.DB, namespace string) *PostgresKVStore {
	return &PostgresKVStore{db: db, namespace: namespace}
}

// EnsureSchema creates the backing table when missing.
func (s *PostgresKVStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("create kv_collections: %w", err)
	}
	return nil
}

// Get fetches one collection row.
func (s *PostgresKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, `SELECT value FROM kv_collections WHERE key = $1`, namespaced(s.namespace, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get kv %s: %w", key, err)
	}
	return raw, true, nil
}

// GetMany fetches several rows with a single ANY query.
func (s *PostgresKVStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	lookup := make(map[string]string, len(keys))
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = namespaced(s.namespace, key)
		lookup[full[i]] = key
	}

	var rows []kvRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT key, value FROM kv_collections WHERE key = ANY($1)`, pq.Array(full)); err != nil {
		return nil, fmt.Errorf("list kv: %w", err)
	}
	for _, row := range rows {
		if key, ok := lookup[row.Key]; ok {
			out[key] = row.Value
		}
	}
	return out, nil
}

// SetMany upserts every value in one transaction.
func (s *PostgresKVStore) SetMany(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin kv tx: %w", err)
	}
	const query = `INSERT INTO kv_collections (key, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, query, namespaced(s.namespace, key), values[key], now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert kv %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit kv tx: %w", err)
	}
	return nil
}
