// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog persists conversion run history in a SQLite database.
// Implements: prd007-runlog (R1-R3);
//
//	docs/ARCHITECTURE § Run History.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/rmd2tex/pkg/types"
)

const (
	dbFile     = "runs.db"
	defaultDir = ".rmd2tex"
)

// Run records one conversion run.
type Run struct {
	// ID is the run's database row id, assigned on Record.
	ID int64 `json:"id"`

	// Manuscript is the manuscript slug.
	Manuscript string `json:"manuscript"`

	// SourcePath is the Rmd source that was converted.
	SourcePath string `json:"source_path"`

	// TexPath is the LaTeX output, empty for failed runs.
	TexPath string `json:"tex_path,omitempty"`

	// Engine is the render engine binary that was used.
	Engine string `json:"engine"`

	// TablesRewritten counts the rewritten longtable blocks.
	TablesRewritten int `json:"tables_rewritten"`

	// AssetsCopied counts the resources copied into the submission.
	AssetsCopied int `json:"assets_copied"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`

	// Status is the run's final conversion status.
	Status types.ConversionStatus `json:"status"`

	// CreatedAt is when the run was recorded, UTC.
	CreatedAt time.Time `json:"created_at"`
}

// Store manages the run history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the run history database at cfg.Dir/runs.db,
// creating the schema if it does not exist.
func NewStore(cfg types.RunLogConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run log directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening run log database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			manuscript TEXT NOT NULL,
			source_path TEXT NOT NULL,
			tex_path TEXT,
			engine TEXT,
			tables_rewritten INTEGER,
			assets_copied INTEGER,
			duration_ms INTEGER,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_manuscript ON runs(manuscript)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run and returns it with its assigned ID and timestamp.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	run.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs
			(manuscript, source_path, tex_path, engine, tables_rewritten,
			 assets_copied, duration_ms, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Manuscript, run.SourcePath, run.TexPath, run.Engine,
		run.TablesRewritten, run.AssetsCopied, run.Duration.Milliseconds(),
		string(run.Status), run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}

	run.ID, err = res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. A limit of zero uses the
// store's configured maximum. An optional manuscript slug filters the list.
func (s *Store) List(ctx context.Context, manuscript string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	query := `SELECT id, manuscript, source_path, tex_path, engine,
			tables_rewritten, assets_copied, duration_ms, status, created_at
		FROM runs`
	args := []interface{}{}
	if manuscript != "" {
		query += ` WHERE manuscript = ?`
		args = append(args, manuscript)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			durationMS int64
			status     string
			createdAt  string
		)
		if err := rows.Scan(&r.ID, &r.Manuscript, &r.SourcePath, &r.TexPath,
			&r.Engine, &r.TablesRewritten, &r.AssetsCopied, &durationMS,
			&status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.Status = types.ConversionStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
