package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gitdeck.app/cli/internal/model"
)

func TestSQLiteTranscriptStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	s, err := NewSQLiteTranscriptStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteTranscriptStore() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	latency := 420
	first := &model.GenerationRecord{
		ID:           1001,
		RunID:        7,
		SegmentIndex: 2,
		Role:         model.RoleContent,
		Stage:        model.StageGenerate,
		Attempt:      1,
		Model:        "gpt-4o-mini",
		InputText:    "- abc1234 feat: add login flow (+120/-5)",
		OutputJSON:   []byte(`{"title":"Login lands"}`),
		Valid:        true,
		LatencyMs:    &latency,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Record(ctx, first); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	second := &model.GenerationRecord{
		ID:           1002,
		RunID:        7,
		SegmentIndex: 2,
		Role:         model.RoleContent,
		Stage:        model.StageValidate,
		Attempt:      1,
		Valid:        false,
		Issues:       []string{"title is blank", "content is blank"},
	}
	if err := s.Record(ctx, second); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err := s.ListByRun(ctx, 7)
	if err != nil {
		t.Fatalf("ListByRun() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByRun() returned %d records, want 2", len(got))
	}
	if got[0].Stage != model.StageGenerate || got[1].Stage != model.StageValidate {
		t.Errorf("ListByRun() stages = %s, %s; want generate, validate", got[0].Stage, got[1].Stage)
	}
	if got[0].LatencyMs == nil || *got[0].LatencyMs != 420 {
		t.Errorf("ListByRun() first latency = %v, want 420", got[0].LatencyMs)
	}
	if got[1].LatencyMs != nil {
		t.Errorf("ListByRun() second latency = %v, want nil", got[1].LatencyMs)
	}
	if len(got[1].Issues) != 2 || got[1].Issues[0] != "title is blank" {
		t.Errorf("ListByRun() issues = %v", got[1].Issues)
	}
	if string(got[0].OutputJSON) != `{"title":"Login lands"}` {
		t.Errorf("ListByRun() output = %s", got[0].OutputJSON)
	}
	if got[1].CreatedAt.IsZero() {
		t.Error("ListByRun() second created_at is zero, want fill-in on insert")
	}
}

func TestListByRunScopesToRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	s, err := NewSQLiteTranscriptStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteTranscriptStore() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	for i, runID := range []int64{1, 1, 2} {
		rec := &model.GenerationRecord{
			ID:      int64(2000 + i),
			RunID:   runID,
			Role:    model.RoleTitle,
			Stage:   model.StageGenerate,
			Attempt: 1,
		}
		if err := s.Record(ctx, rec); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := s.ListByRun(ctx, 1)
	if err != nil {
		t.Fatalf("ListByRun() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListByRun(1) returned %d records, want 2", len(got))
	}
}
