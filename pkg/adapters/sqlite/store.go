// Package sqlite stores run records in a SQLite database, one row per record.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/busybeaver/internal/dto"
	"github.com/aretw0/busybeaver/pkg/domain"
	_ "modernc.org/sqlite"
)

const schemaV1 = `
CREATE TABLE IF NOT EXISTS run_records (
	run_id      TEXT NOT NULL,
	idx         INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	steps       INTEGER NOT NULL DEFAULT 0,
	record_json TEXT NOT NULL,
	PRIMARY KEY (run_id, idx)
);
CREATE INDEX IF NOT EXISTS idx_run_records_outcome ON run_records(run_id, outcome, steps);
`

// ErrIndexTooLarge is returned for indexes SQLite's signed integers cannot hold.
var ErrIndexTooLarge = errors.New("index does not fit a sqlite integer")

// Store implements ports.ResultStore on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer; search workers queue on the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schemaV1); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save upserts rec under runID.
func (s *Store) Save(ctx context.Context, runID string, rec domain.Record) error {
	idx, err := toRow(rec.Index)
	if err != nil {
		return err
	}

	data, err := json.Marshal(dto.FromRecord(rec))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	const q = `INSERT INTO run_records (run_id, idx, outcome, steps, record_json)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(run_id, idx) DO UPDATE SET
	outcome = excluded.outcome,
	steps = excluded.steps,
	record_json = excluded.record_json`
	_, err = s.db.ExecContext(ctx, q, runID, idx, string(rec.Result.Outcome), rec.Result.Steps, string(data))
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// Load retrieves one record.
func (s *Store) Load(ctx context.Context, runID string, index uint64) (domain.Record, error) {
	idx, err := toRow(index)
	if err != nil {
		return domain.Record{}, domain.ErrResultNotFound
	}

	var data string
	err = s.db.QueryRowContext(ctx,
		`SELECT record_json FROM run_records WHERE run_id = ? AND idx = ?`, runID, idx,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, domain.ErrResultNotFound
		}
		return domain.Record{}, fmt.Errorf("load record: %w", err)
	}
	return decode(data)
}

// List returns the records of a run ordered by index.
func (s *Store) List(ctx context.Context, runID string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_json FROM run_records WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	recs := []domain.Record{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := decode(data)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Runs returns the stored run IDs in lexical order.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT run_id FROM run_records ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}

// Delete removes every record of the run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM run_records WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func toRow(index uint64) (int64, error) {
	if index > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d", ErrIndexTooLarge, index)
	}
	return int64(index), nil
}

func decode(data string) (domain.Record, error) {
	var rec dto.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return domain.Record{}, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return rec.ToDomain()
}
