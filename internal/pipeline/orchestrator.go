// Package pipeline drives deck generation segment by segment. Each
// segment runs a small state machine (generating, formatting, validating)
// with a bounded number of attempts; a segment that exhausts its attempts
// is filled by a role-specific placeholder, never dropped, so the deck
// always comes out with one slide per segment.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gitdeck.app/cli/common/id"
	"gitdeck.app/cli/common/logger"
	"gitdeck.app/cli/internal/author"
	"gitdeck.app/cli/internal/model"
	"gitdeck.app/cli/internal/store"
)

const (
	// maxAttempts bounds generate/format/validate cycles per segment.
	maxAttempts = 3
	// contextWindow is how many prior slides the narrative context keeps.
	contextWindow = 2
	// summaryChars is how much of an accepted slide's content feeds the
	// next segments' continuity digest.
	summaryChars = 200
)

type state string

const (
	stateGenerating state = "generating"
	stateFormatting state = "formatting"
	stateValidating state = "validating"
	stateAccepted   state = "accepted"
	stateRetry      state = "retry"
	stateFailed     state = "failed"
)

type Config struct {
	Theme        string // visual theme recorded on the deck
	OverallTheme string // one-line narrative theme fed to prompts
	Model        string // model name recorded on transcripts
}

// Orchestrator owns the per-segment retry discipline and the narrative
// context that threads accepted slides into later prompts.
type Orchestrator struct {
	cfg         Config
	generator   author.Generator
	formatter   author.Formatter
	validator   author.Validator
	transcripts store.TranscriptStore // nil disables recording
}

func NewOrchestrator(cfg Config, gen author.Generator, formatter author.Formatter, validator author.Validator, transcripts store.TranscriptStore) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		generator:   gen,
		formatter:   formatter,
		validator:   validator,
		transcripts: transcripts,
	}
}

// Run processes every segment in order and assembles the deck. Segments
// are strictly sequential: each prompt depends on the slides accepted
// before it. Cancellation is honored between segments, never mid-call,
// and a cancelled run returns no partial deck.
func (o *Orchestrator) Run(ctx context.Context, segments []model.NarrativeSegment) (*model.SlideDeck, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments to process")
	}

	runID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		RunID:     logger.Ptr(runID),
		Component: "gitdeck.pipeline",
	})

	slog.InfoContext(ctx, "pipeline run starting",
		"segments", len(segments),
		"theme", o.cfg.Theme)

	deck := &model.SlideDeck{
		Theme:  o.cfg.Theme,
		Slides: make([]model.SlideRecord, 0, len(segments)),
	}
	nctx := model.NarrativeContext{
		OverallTheme:  o.cfg.OverallTheme,
		TotalSegments: len(segments),
	}

	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "pipeline run cancelled", "completed_segments", i)
			return nil, err
		}

		nctx.SegmentIndex = i
		nctx.IsFirst = i == 0
		nctx.IsLast = i == len(segments)-1

		segCtx := logger.WithLogFields(ctx, logger.LogFields{SegmentIndex: logger.Ptr(i)})
		record := o.processSegment(segCtx, runID, seg, nctx)

		deck.Slides = append(deck.Slides, record)
		pushContext(&nctx, record)
	}

	deck.Title = strings.TrimSpace(deck.Slides[0].Title)
	if deck.Title == "" {
		deck.Title = "Development Progress"
	}

	slog.InfoContext(ctx, "pipeline run complete",
		"slides", len(deck.Slides),
		"title", deck.Title)

	return deck, nil
}

// processSegment drives one segment through the state machine until it is
// accepted. It always terminates with a usable record: after maxAttempts
// the segment is Failed and the placeholder substitution accepts it.
func (o *Orchestrator) processSegment(ctx context.Context, runID int64, seg model.NarrativeSegment, nctx model.NarrativeContext) model.SlideRecord {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		record, st := o.attempt(ctx, runID, seg, nctx, attempt)
		if st == stateAccepted {
			slog.InfoContext(ctx, "segment accepted",
				"role", seg.Role,
				"attempt", attempt,
				"title", record.Title)
			return record
		}
		slog.WarnContext(ctx, "segment attempt failed",
			"role", seg.Role,
			"attempt", attempt,
			"state", string(st))
	}

	slog.WarnContext(ctx, "segment failed, substituting placeholder",
		"role", seg.Role,
		"attempts", maxAttempts)

	placeholder := placeholderFor(seg)
	o.logTranscript(ctx, transcriptEntry{
		runID:   runID,
		nctx:    nctx,
		seg:     seg,
		stage:   model.StageFallback,
		attempt: maxAttempts,
		record:  &placeholder,
		valid:   true,
	})
	return placeholder
}

// attempt runs one generating -> formatting -> validating pass. Any error
// or validation failure resolves to stateRetry; the caller owns the
// attempt budget.
func (o *Orchestrator) attempt(ctx context.Context, runID int64, seg model.NarrativeSegment, nctx model.NarrativeContext, attempt int) (model.SlideRecord, state) {
	entry := transcriptEntry{runID: runID, nctx: nctx, seg: seg, attempt: attempt}

	start := time.Now()
	record, err := o.generator.Generate(ctx, seg, nctx)
	entry.stage = model.StageGenerate
	entry.latency = time.Since(start)
	entry.record = record
	entry.valid = err == nil
	if err != nil {
		entry.issues = []string{err.Error()}
	}
	o.logTranscript(ctx, entry)
	if err != nil {
		slog.WarnContext(ctx, "generation failed", "error", err, "state", string(stateGenerating))
		return model.SlideRecord{}, stateRetry
	}

	start = time.Now()
	formatted, err := o.formatter.Format(ctx, *record)
	entry.stage = model.StageFormat
	entry.latency = time.Since(start)
	entry.record = &formatted
	entry.valid = err == nil
	entry.issues = nil
	if err != nil {
		entry.issues = []string{err.Error()}
	}
	o.logTranscript(ctx, entry)
	if err != nil {
		slog.WarnContext(ctx, "formatting failed", "error", err, "state", string(stateFormatting))
		return model.SlideRecord{}, stateRetry
	}

	start = time.Now()
	result := o.validator.Validate(formatted)
	entry.stage = model.StageValidate
	entry.latency = time.Since(start)
	entry.record = &formatted
	entry.valid = result.IsValid
	entry.issues = result.Issues
	o.logTranscript(ctx, entry)
	if !result.IsValid {
		slog.WarnContext(ctx, "validation failed",
			"state", string(stateValidating),
			"issues", strings.Join(result.Issues, "; "))
		return model.SlideRecord{}, stateRetry
	}
	for _, rec := range result.Recommendations {
		slog.DebugContext(ctx, "validation recommendation", "recommendation", rec)
	}

	return formatted, stateAccepted
}

// pushContext appends an accepted slide to the continuity ring buffer,
// evicting the oldest entry beyond the window.
func pushContext(nctx *model.NarrativeContext, record model.SlideRecord) {
	nctx.Previous = append(nctx.Previous, model.SegmentSummary{
		Title:   record.Title,
		Content: logger.Truncate(record.Content, summaryChars),
	})
	if len(nctx.Previous) > contextWindow {
		nctx.Previous = nctx.Previous[len(nctx.Previous)-contextWindow:]
	}
}

// placeholderFor builds the deterministic stand-in slide for a segment
// whose attempts are exhausted. It never fails and is never retried.
func placeholderFor(seg model.NarrativeSegment) model.SlideRecord {
	switch seg.Role {
	case model.RoleTitle:
		return model.SlideRecord{
			Title:    "Overview",
			Subtitle: "A look at recent development",
			Layout:   model.LayoutCover,
			Content:  "A walk through the recent commit history.",
		}
	case model.RoleConclusion:
		return model.SlideRecord{
			Title:   "Summary",
			Layout:  model.LayoutCenter,
			Content: "That wraps up this stretch of work. Questions welcome.",
		}
	default:
		n := len(seg.Commits)
		noun := "commits"
		if n == 1 {
			noun = "commit"
		}
		return model.SlideRecord{
			Title:   "Progress Update",
			Layout:  model.LayoutDefault,
			Content: fmt.Sprintf("This stretch covered %d %s of steady progress.", n, noun),
		}
	}
}

type transcriptEntry struct {
	runID   int64
	nctx    model.NarrativeContext
	seg     model.NarrativeSegment
	stage   model.GenerationStage
	attempt int
	record  *model.SlideRecord
	valid   bool
	issues  []string
	latency time.Duration
}

// logTranscript persists one stage outcome. Recording is observability,
// not critical path: a nil store or a failed insert never affects the run.
func (o *Orchestrator) logTranscript(ctx context.Context, entry transcriptEntry) {
	if o.transcripts == nil {
		return
	}

	var output []byte
	if entry.record != nil {
		var err error
		output, err = json.Marshal(entry.record)
		if err != nil {
			slog.ErrorContext(ctx, "failed to marshal slide for transcript", "error", err)
			return
		}
	}

	rec := &model.GenerationRecord{
		ID:           id.New(),
		RunID:        entry.runID,
		SegmentIndex: entry.nctx.SegmentIndex,
		Role:         entry.seg.Role,
		Stage:        entry.stage,
		Attempt:      entry.attempt,
		Model:        o.cfg.Model,
		InputText:    author.DigestCommits(entry.seg.Commits),
		OutputJSON:   output,
		Valid:        entry.valid,
		Issues:       entry.issues,
		LatencyMs:    intPtr(int(entry.latency.Milliseconds())),
	}

	if err := o.transcripts.Record(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to record transcript", "error", err)
	}
}

func intPtr(i int) *int { return &i }
