package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"resumescore/internal/errors"
	"resumescore/internal/types"
)

// Record is one persisted analysis.
type Record struct {
	ID        string               `json:"id"`
	JobRole   string               `json:"jobRole"`
	FileName  string               `json:"fileName,omitempty"`
	WordCount int                  `json:"wordCount"`
	Report    types.AnalysisReport `json:"report"`
	CreatedAt time.Time            `json:"createdAt"`
}

// Store persists analysis history in SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	job_role   TEXT NOT NULL,
	file_name  TEXT NOT NULL DEFAULT '',
	word_count INTEGER NOT NULL DEFAULT 0,
	report     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
`

// Open opens (creating if needed) the SQLite database at path and
// applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to open database", err).WithContext("path", path)
	}

	// SQLite allows a single writer; serialize access through one
	// connection to avoid SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to apply database schema", err).WithContext("path", path)
	}

	return &Store{db: db}, nil
}

// Save persists a report and returns the stored record.
func (s *Store) Save(ctx context.Context, report types.AnalysisReport, fileName string, wordCount int) (*Record, error) {
	record := &Record{
		ID:        uuid.NewString(),
		JobRole:   report.JobRole,
		FileName:  fileName,
		WordCount: wordCount,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to encode report", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, job_role, file_name, word_count, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.JobRole, record.FileName, record.WordCount,
		string(reportJSON), record.CreatedAt)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to save analysis", err)
	}

	return record, nil
}

// Get fetches one analysis by id. A missing id yields a NOT_FOUND
// storage error.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, job_role, file_name, word_count, report, created_at
		 FROM analyses WHERE id = ?`, id)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewStorageError(errors.ErrCodeNotFound,
			"Analysis not found", nil).WithContext("id", id)
	}
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to load analysis", err).WithContext("id", id)
	}

	return record, nil
}

// Recent returns the most recent analyses, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_role, file_name, word_count, report, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to query analysis history", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
				"Failed to scan analysis row", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to iterate analysis history", err)
	}

	return records, nil
}

// Count returns the number of stored analyses.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&count); err != nil {
		return 0, errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Failed to count analyses", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var record Record
	var reportJSON string

	if err := row.Scan(&record.ID, &record.JobRole, &record.FileName,
		&record.WordCount, &reportJSON, &record.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(reportJSON), &record.Report); err != nil {
		return nil, err
	}

	return &record, nil
}
