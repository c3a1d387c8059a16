// Package store persists extraction runs and their derived artifacts in a
// SQLite metastore.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Artifact kinds persisted per run. The names double as output file stems
// for the CLI.
const (
	ArtifactDBObjects          = "db_objects"
	ArtifactInformaticaObjects = "informatica_objects"
	ArtifactColumnLineage      = "column_lineage"
	ArtifactXMLSchema          = "xml_schema"
	ArtifactDTD                = "dtd"
)

// KnownArtifact reports whether kind names a persisted artifact.
func KnownArtifact(kind string) bool {
	switch kind {
	case ArtifactDBObjects, ArtifactInformaticaObjects, ArtifactColumnLineage,
		ArtifactXMLSchema, ArtifactDTD:
		return true
	}
	return false
}

// ErrNotFound is returned when a run or artifact does not exist.
var ErrNotFound = errors.New("store: not found")

// Run is one recorded extraction run.
type Run struct {
	ID             string    `json:"id"`
	SourcePath     string    `json:"source_path"`
	RepositoryName string    `json:"repository_name"`
	LineageEdges   int       `json:"lineage_edges"`
	CreatedAt      time.Time `json:"created_at"`
}

// RunStore reads and writes extraction runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore returns a RunStore over the given metastore handle.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// CreateRun inserts a run and its artifacts in one transaction.
func (s *RunStore) CreateRun(ctx context.Context, run Run, artifacts map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO extraction_runs (id, source_path, repository_name, lineage_edges, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.SourcePath, run.RepositoryName, run.LineageEdges, run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for kind, body := range artifacts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_artifacts (run_id, kind, body) VALUES (?, ?, ?)`,
			run.ID, kind, body,
		); err != nil {
			return fmt.Errorf("insert artifact %s: %w", kind, err)
		}
	}

	return tx.Commit()
}

// GetRun returns one run by id.
func (s *RunStore) GetRun(ctx context.Context, id string) (Run, error) {
	return s.scanRun(s.db.QueryRowContext(ctx,
		`SELECT id, source_path, repository_name, lineage_edges, created_at
		 FROM extraction_runs WHERE id = ?`, id))
}

// LatestRun returns the most recently created run.
func (s *RunStore) LatestRun(ctx context.Context) (Run, error) {
	return s.scanRun(s.db.QueryRowContext(ctx,
		`SELECT id, source_path, repository_name, lineage_edges, created_at
		 FROM extraction_runs ORDER BY created_at DESC, id DESC LIMIT 1`))
}

// ListRuns returns all runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, repository_name, lineage_edges, created_at
		 FROM extraction_runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SourcePath, &r.RepositoryName, &r.LineageEdges, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetArtifact returns one artifact body for a run.
func (s *RunStore) GetArtifact(ctx context.Context, runID, kind string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM run_artifacts WHERE run_id = ? AND kind = ?`,
		runID, kind,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact %s/%s: %w", runID, kind, err)
	}
	return body, nil
}

func (s *RunStore) scanRun(row *sql.Row) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.SourcePath, &r.RepositoryName, &r.LineageEdges, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}
