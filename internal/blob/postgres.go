package blob

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

const createBlobsTable = `
CREATE TABLE IF NOT EXISTS taskpad_blobs (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const selectBlob = `SELECT value FROM taskpad_blobs WHERE key = $1`

const upsertBlob = `
INSERT INTO taskpad_blobs (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

// Postgres stores blobs in a single postgres table. Each Put is one
// upsert statement.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to dsn and ensures the blobs table exists.
func OpenPostgres(dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store, err := NewPostgres(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgres wraps an existing connection pool and ensures the blobs
// table exists. Close closes db.
func NewPostgres(db *sql.DB) (*Postgres, error) {
	if _, err := db.Exec(createBlobsTable); err != nil {
		return nil, fmt.Errorf("create blobs table: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Get reads the value stored under key.
func (p *Postgres) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := p.db.QueryRow(selectBlob, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select blob %s: %w", key, err)
	}
	return value, nil
}

// Put upserts value under key.
func (p *Postgres) Put(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := p.db.Exec(upsertBlob, key, value); err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
