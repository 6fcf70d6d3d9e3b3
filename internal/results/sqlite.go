// internal/results/sqlite.go
package results

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	run_id    TEXT PRIMARY KEY,
	model     TEXT NOT NULL,
	task      TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	accuracy  REAL NOT NULL,
	data      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_model ON results(model);
`

// SQLiteStore keeps results in a single SQLite table keyed by run ID.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating results table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts r, replacing any earlier row with the same run ID.
func (s *SQLiteStore) Append(r Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO results (run_id, model, task, timestamp, accuracy, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			model = excluded.model,
			task = excluded.task,
			timestamp = excluded.timestamp,
			accuracy = excluded.accuracy,
			data = excluded.data`,
		r.RunID, r.Model, r.Task, r.Timestamp.UTC().Format(time.RFC3339Nano), r.Metrics.Accuracy, string(data))
	if err != nil {
		return fmt.Errorf("error storing result %s: %w", r.RunID, err)
	}
	return nil
}

// All returns every stored result, oldest first.
func (s *SQLiteStore) All() ([]Result, error) {
	rows, err := s.db.Query(`SELECT data FROM results ORDER BY timestamp, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r Result
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("error decoding stored result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the result with the given run ID.
func (s *SQLiteStore) Get(runID string) (Result, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM results WHERE run_id = ?`, runID).Scan(&data)
	if err == sql.ErrNoRows {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return Result{}, err
	}
	var r Result
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return Result{}, err
	}
	return r, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
