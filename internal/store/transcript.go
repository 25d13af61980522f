// Package store persists generation transcripts to a local SQLite
// database so failed or odd runs can be reviewed after the fact.
// Recording is optional; the pipeline accepts a nil store.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gitdeck.app/cli/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// TranscriptStore records capability attempts and reads them back by run.
type TranscriptStore interface {
	Record(ctx context.Context, rec *model.GenerationRecord) error
	ListByRun(ctx context.Context, runID int64) ([]model.GenerationRecord, error)
	Close() error
}

// SQLiteTranscriptStore is the file-backed TranscriptStore.
type SQLiteTranscriptStore struct {
	db *sql.DB
}

// NewSQLiteTranscriptStore opens (creating if needed) the database at
// path and applies the schema.
func NewSQLiteTranscriptStore(path string) (*SQLiteTranscriptStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating transcript db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_fk=1")
	if err != nil {
		return nil, fmt.Errorf("opening transcript db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing transcript schema: %w", err)
	}

	return &SQLiteTranscriptStore{db: db}, nil
}

func (s *SQLiteTranscriptStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteTranscriptStore) Record(ctx context.Context, rec *model.GenerationRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_records (
			id, run_id, segment_index, role, stage, attempt, model,
			input_text, output_json, valid, issues, latency_ms,
			prompt_tokens, completion_tokens, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RunID, rec.SegmentIndex, string(rec.Role), string(rec.Stage),
		rec.Attempt, rec.Model, rec.InputText, rec.OutputJSON, rec.Valid,
		strings.Join(rec.Issues, "\n"), rec.LatencyMs, rec.PromptTokens,
		rec.CompletionTokens, createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting generation record: %w", err)
	}
	return nil
}

func (s *SQLiteTranscriptStore) ListByRun(ctx context.Context, runID int64) ([]model.GenerationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, segment_index, role, stage, attempt, model,
			input_text, output_json, valid, issues, latency_ms,
			prompt_tokens, completion_tokens, created_at
		FROM generation_records
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying generation records: %w", err)
	}
	defer rows.Close()

	var records []model.GenerationRecord
	for rows.Next() {
		var rec model.GenerationRecord
		var role, stage, issues string
		var latency, promptTokens, completionTokens sql.NullInt64
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.SegmentIndex, &role, &stage,
			&rec.Attempt, &rec.Model, &rec.InputText, &rec.OutputJSON,
			&rec.Valid, &issues, &latency, &promptTokens, &completionTokens,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning generation record: %w", err)
		}
		rec.Role = model.SegmentRole(role)
		rec.Stage = model.GenerationStage(stage)
		if issues != "" {
			rec.Issues = strings.Split(issues, "\n")
		}
		rec.LatencyMs = nullableInt(latency)
		rec.PromptTokens = nullableInt(promptTokens)
		rec.CompletionTokens = nullableInt(completionTokens)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
