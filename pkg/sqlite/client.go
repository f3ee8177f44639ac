package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Client wraps a SQLite handle for reuse across repositories
type Client struct {
	db *sql.DB
}

// Config holds SQLite connection configuration
type Config struct {
	// Path is the database file; ":memory:" works for throwaway corpora
	Path string
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	job_id     TEXT PRIMARY KEY,
	title      TEXT,
	company    TEXT,
	location   TEXT,
	remote     INTEGER NOT NULL DEFAULT 0,
	salary_avg REAL
);
CREATE TABLE IF NOT EXISTS skills (
	job_id   TEXT NOT NULL REFERENCES jobs(job_id) ON DELETE CASCADE,
	name     TEXT NOT NULL,
	required INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS skills_job_id ON skills(job_id);
`

// NewClient opens the database and verifies it answers
func NewClient(cfg Config) (*Client, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: database path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %s: %w", cfg.Path, err)
	}
	// one writer at a time; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: failed to verify connectivity: %w", err)
	}

	return &Client{db: db}, nil
}

// Migrate creates the corpus tables when they are missing
func (c *Client) Migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: failed to apply schema: %w", err)
	}
	return nil
}

// DB returns the underlying handle for repository use
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the database handle
func (c *Client) Close(_ context.Context) error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
