package bench

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL DEFAULT '',
		records TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save persists one run. Records are stored as a JSON blob for
// flexibility; the row carries identity and ordering columns.
func (s *SQLiteStore) Save(run Run) error {
	blob, err := json.Marshal(run.Records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	query := `INSERT INTO runs (label, records, created_at) VALUES (?, ?, ?)`
	_, err = s.db.Exec(query, run.Label, string(blob), ts)
	return err
}

// LoadLatest returns the most recent run, or nil when none exist.
func (s *SQLiteStore) LoadLatest() (*Run, error) {
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
func (s *SQLiteStore) LoadAll() ([]Run, error) {
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var blob string
	if err := row.Scan(&run.ID, &run.Label, &blob, &run.Timestamp); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(blob), &run.Records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return &run, nil
}
