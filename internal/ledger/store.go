// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists the history of archived resume files in a SQLite
// database and exports it as YAML or JSON.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/resume-publisher/pkg/types"
)

const defaultLimit = 50

// timeLayout is fixed-width so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the archive ledger database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the ledger database at path, creating its parent
// directory and schema when needed.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS archive_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			stem TEXT NOT NULL,
			source_path TEXT NOT NULL,
			archive_path TEXT NOT NULL UNIQUE,
			size INTEGER NOT NULL,
			sha256 TEXT NOT NULL,
			mod_time TEXT NOT NULL,
			archived_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_batch ON archive_records(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_stem ON archive_records(stem)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts every record of one archive run in a single transaction.
func (s *Store) Record(ctx context.Context, records []types.ArchiveRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO archive_records
			(batch_id, timestamp, stem, source_path, archive_path, size, sha256, mod_time, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		stem := types.NewResumeFile(r.SourcePath).Stem
		_, err := stmt.ExecContext(ctx,
			r.BatchID, r.Timestamp, stem, r.SourcePath, r.ArchivePath,
			r.Size, r.SHA256,
			r.ModTime.UTC().Format(timeLayout),
			r.ArchivedAt.UTC().Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", r.ArchivePath, err)
		}
	}

	return tx.Commit()
}

// QueryOptions filters List results. Zero values mean no filter.
type QueryOptions struct {
	BatchID string
	Stem    string
	Limit   int
}

// List returns records matching opts, newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.ArchiveRecord, error) {
	var where []string
	var args []any
	if opts.BatchID != "" {
		where = append(where, "batch_id = ?")
		args = append(args, opts.BatchID)
	}
	if opts.Stem != "" {
		where = append(where, "stem = ?")
		args = append(args, opts.Stem)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	q := `SELECT batch_id, timestamp, source_path, archive_path, size, sha256, mod_time, archived_at
		  FROM archive_records`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY archived_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.ArchiveRecord
	for rows.Next() {
		var r types.ArchiveRecord
		var modTime, archivedAt string
		if err := rows.Scan(&r.BatchID, &r.Timestamp, &r.SourcePath, &r.ArchivePath,
			&r.Size, &r.SHA256, &modTime, &archivedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.ModTime, _ = time.Parse(timeLayout, modTime)
		r.ArchivedAt, _ = time.Parse(timeLayout, archivedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Batch summarizes one archive run.
type Batch struct {
	BatchID    string    `json:"batch_id" yaml:"batch_id"`
	Timestamp  string    `json:"timestamp" yaml:"timestamp"`
	Files      int       `json:"files" yaml:"files"`
	ArchivedAt time.Time `json:"archived_at" yaml:"archived_at"`
}

// Batches returns one summary per archive run, newest first.
func (s *Store) Batches(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT batch_id, timestamp, COUNT(*), MAX(archived_at) AS last
		 FROM archive_records
		 GROUP BY batch_id, timestamp
		 ORDER BY last DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		var last string
		if err := rows.Scan(&b.BatchID, &b.Timestamp, &b.Files, &last); err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		b.ArchivedAt, _ = time.Parse(timeLayout, last)
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
