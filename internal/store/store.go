// Package store persists measurement runs and results to sqlite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/anthro.report/internal/anthro"
)

// busyRetries and busyBackoff govern retry behaviour when sqlite reports a
// locked database under concurrent writers.
const (
	busyRetries = 5
	busyBackoff = 50 * time.Millisecond
)

// Store wraps the sqlite handle used for measurement persistence.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the raw handle for migrations and ad hoc queries.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Run represents one batch invocation over a set of cases.
type Run struct {
	RunID     string `json:"run_id"`
	Source    string `json:"source"`
	Cases     int    `json:"cases"`
	CreatedAt int64  `json:"created_at"`
}

// ResultRow is a persisted MeasurementResult with its provenance. An
// undefined value is stored as NULL, never as a sentinel number.
type ResultRow struct {
	ResultID string                   `json:"result_id"`
	RunID    string                   `json:"run_id"`
	CaseID   string                   `json:"case_id"`
	Result   anthro.MeasurementResult `json:"result"`
}

// InsertRun persists a new run record. A missing RunID is generated.
func (s *Store) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO runs (run_id, source, cases, created_at)
			VALUES (?, ?, ?, ?)
		`, run.RunID, run.Source, run.Cases, run.CreatedAt)
		return err
	})
}

// InsertResult persists one measurement result for a run.
func (s *Store) InsertResult(runID, caseID string, r anthro.MeasurementResult) error {
	warnings, err := json.Marshal(r.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO measurements (
				result_id, run_id, case_id, measurement_key,
				circumference_m, section_id, method_tag, warnings, failure_reason, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			uuid.New().String(),
			runID,
			caseID,
			string(r.Key),
			nullFloat(r.Value),
			r.SectionID,
			nullStr(r.MethodTag),
			string(warnings),
			nullStr(r.FailureReason),
			time.Now().UnixNano(),
		)
		return err
	})
}

// Results returns all persisted results for a run, ordered by case and key.
func (s *Store) Results(runID string) ([]ResultRow, error) {
	rows, err := s.db.Query(`
		SELECT result_id, run_id, case_id, measurement_key,
		       circumference_m, section_id, method_tag, warnings, failure_reason
		FROM measurements
		WHERE run_id = ?
		ORDER BY case_id, measurement_key
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var (
			row      ResultRow
			key      string
			value    sql.NullFloat64
			method   sql.NullString
			warnings string
			failure  sql.NullString
		)
		if err := rows.Scan(&row.ResultID, &row.RunID, &row.CaseID, &key,
			&value, &row.Result.SectionID, &method, &warnings, &failure); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		row.Result.Key = anthro.Key(key)
		if value.Valid {
			row.Result.Value = value.Float64
		} else {
			row.Result.Value = math.NaN()
		}
		row.Result.MethodTag = method.String
		row.Result.FailureReason = failure.String
		if err := json.Unmarshal([]byte(warnings), &row.Result.Warnings); err != nil {
			return nil, fmt.Errorf("decoding warnings for %s: %w", row.ResultID, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Runs returns all runs, most recent first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, source, cases, created_at
		FROM runs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Source, &r.Cases, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// retryOnBusy retries fn when sqlite reports the database as locked or busy,
// backing off linearly between attempts.
func retryOnBusy(fn func() error) error {
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(busyBackoff * time.Duration(attempt+1))
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}
