package bench

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL, for shared history
// across machines (e.g. CI benchmark tracking).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store and applies migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id SERIAL PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		records TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Save persists one run.
func (s *PostgresStore) Save(run Run) error {
	blob, err := json.Marshal(run.Records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	query := `INSERT INTO runs (label, records, created_at) VALUES ($1, $2, $3)`
	_, err = s.db.Exec(query, run.Label, string(blob), ts)
	return err
}

// LoadLatest returns the most recent run, or nil when none exist.
func (s *PostgresStore) LoadLatest() (*Run, error) {
	query := `SELECT id, label, records, created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`
	run, err := scanRun(s.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// LoadAll returns all saved runs, oldest first.
func (s *PostgresStore) LoadAll() ([]Run, error) {
	query := `SELECT id, label, records, created_at FROM runs ORDER BY created_at ASC, id ASC`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}
