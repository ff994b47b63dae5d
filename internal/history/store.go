// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records pipeline runs in a SQLite database so that past
// results can be listed, shown and exported after output.json has been
// overwritten.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/section-digest/internal/persona"
	"github.com/pdiddy/section-digest/pkg/types"
)

// ErrNotFound is returned when a run ID is not in the store.
var ErrNotFound = errors.New("run not found")

// Store manages the run history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run summarises one recorded pipeline run.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
	Persona    string    `json:"persona" yaml:"persona"`
	Task       string    `json:"task" yaml:"task"`
	Documents  []string  `json:"documents" yaml:"documents"`
	Sections   int       `json:"sections" yaml:"sections"`
}

// NewStore opens or creates the history database at cfg.DBPath, creating
// its parent directory and the schema if needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
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
			id TEXT PRIMARY KEY,
			persona TEXT NOT NULL,
			task TEXT NOT NULL,
			created_at TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			documents TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			document TEXT NOT NULL,
			rank INTEGER NOT NULL,
			page INTEGER NOT NULL,
			title TEXT NOT NULL,
			refined_text TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores out as a new run and returns its ID.
func (s *Store) Record(ctx context.Context, out *types.Output) (string, error) {
	if len(out.ExtractedSections) != len(out.SubsectionAnalysis) {
		return "", fmt.Errorf("section lists out of step: %d extracted, %d analysed",
			len(out.ExtractedSections), len(out.SubsectionAnalysis))
	}

	docsJSON, err := json.Marshal(out.Metadata.InputDocuments)
	if err != nil {
		return "", fmt.Errorf("encoding documents: %w", err)
	}
	personaJSON := string(out.Metadata.Persona)
	if personaJSON == "" {
		personaJSON = "null"
	}

	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, persona, task, created_at, recorded_at, documents)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, personaJSON, out.Metadata.JobToBeDone, out.Metadata.ProcessingTimestamp,
		s.now().UTC().Format(time.RFC3339Nano), string(docsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (run_id, position, document, rank, page, title, refined_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, sec := range out.ExtractedSections {
		sub := out.SubsectionAnalysis[i]
		if _, err := stmt.ExecContext(ctx,
			id, i, sec.Document, sec.ImportanceRank, sec.PageNumber, sec.SectionTitle, sub.RefinedText,
		); err != nil {
			return "", fmt.Errorf("inserting section %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// List returns the most recently recorded runs first. A limit of zero or
// less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT r.id, r.persona, r.task, r.recorded_at, r.documents,
			(SELECT count(*) FROM sections WHERE run_id = r.id)
		FROM runs r
		ORDER BY r.recorded_at DESC, r.rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run         Run
			personaJSON string
			recordedAt  string
			docsJSON    string
		)
		if err := rows.Scan(&run.ID, &personaJSON, &run.Task, &recordedAt, &docsJSON, &run.Sections); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if err := decodeRun(&run, personaJSON, recordedAt, docsJSON); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get rebuilds the output document of run id. It returns ErrNotFound when
// no such run exists.
func (s *Store) Get(ctx context.Context, id string) (*types.Output, error) {
	var personaJSON, createdAt, docsJSON string
	out := &types.Output{
		ExtractedSections:  []types.ExtractedSection{},
		SubsectionAnalysis: []types.SubsectionAnalysis{},
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT persona, task, created_at, documents FROM runs WHERE id = ?`, id,
	).Scan(&personaJSON, &out.Metadata.JobToBeDone, &createdAt, &docsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", id, err)
	}

	out.Metadata.Persona = json.RawMessage(personaJSON)
	out.Metadata.ProcessingTimestamp = createdAt
	if err := json.Unmarshal([]byte(docsJSON), &out.Metadata.InputDocuments); err != nil {
		return nil, fmt.Errorf("decoding documents of run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT document, rank, page, title, refined_text FROM sections
		 WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying sections of run %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sec types.ExtractedSection
		var sub types.SubsectionAnalysis
		if err := rows.Scan(&sec.Document, &sec.ImportanceRank, &sec.PageNumber, &sec.SectionTitle, &sub.RefinedText); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sub.Document = sec.Document
		sub.PageNumber = sec.PageNumber
		out.ExtractedSections = append(out.ExtractedSections, sec)
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeRun(run *Run, personaJSON, recordedAt, docsJSON string) error {
	run.Persona = persona.Role(json.RawMessage(personaJSON))

	t, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return fmt.Errorf("parsing recorded_at of run %s: %w", run.ID, err)
	}
	run.RecordedAt = t

	if err := json.Unmarshal([]byte(docsJSON), &run.Documents); err != nil {
		return fmt.Errorf("decoding documents of run %s: %w", run.ID, err)
	}
	return nil
}
