// Package author wraps the language-model capability behind the three
// narrow contracts the pipeline consumes: generate a slide for a segment,
// format its markup, validate the result. Each call is a single blocking
// round-trip; retry policy lives with the pipeline, not here.
package author

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gitdeck.app/cli/common/llm"
	"gitdeck.app/cli/internal/model"
	"gitdeck.app/cli/internal/styles"
)

// Generator produces one SlideRecord for a narrative segment.
type Generator interface {
	Generate(ctx context.Context, seg model.NarrativeSegment, nctx model.NarrativeContext) (*model.SlideRecord, error)
}

var slideSchema = llm.GenerateSchema[model.SlideRecord]()

type slideWriter struct {
	llm   llm.Client
	style styles.Style
	opts  styles.Options
	theme string
}

// NewSlideWriter builds the model-backed Generator. The style and options
// shape the prompt; the theme is echoed into it so slides can reference
// the deck's look.
func NewSlideWriter(client llm.Client, style styles.Style, opts styles.Options, theme string) Generator {
	return &slideWriter{llm: client, style: style, opts: opts, theme: theme}
}

func (w *slideWriter) Generate(ctx context.Context, seg model.NarrativeSegment, nctx model.NarrativeContext) (*model.SlideRecord, error) {
	prompt := w.buildPrompt(seg, nctx)
	slog.DebugContext(ctx, "slide prompt built",
		"segment", nctx.SegmentIndex,
		"role", seg.Role,
		"prompt_chars", len(prompt))

	var record model.SlideRecord
	_, err := w.llm.Chat(ctx, llm.Request{
		SystemPrompt: slideSystemPrompt,
		UserPrompt:   prompt,
		SchemaName:   "slide_record",
		Schema:       slideSchema,
		Temperature:  llm.Temp(0.7),
	}, &record)
	if err != nil {
		if errors.Is(err, llm.ErrMalformedResponse) {
			return nil, &SchemaError{Stage: model.StageGenerate, Err: err}
		}
		if llm.IsRetryable(ctx, err) {
			return nil, newRetryableCallError(model.StageGenerate, err)
		}
		return nil, newFatalCallError(model.StageGenerate, err)
	}

	// A structurally valid response with nothing in it is still unusable.
	if strings.TrimSpace(record.Title) == "" && strings.TrimSpace(record.Content) == "" {
		return nil, &SchemaError{Stage: model.StageGenerate, Err: errors.New("response carried no title or content")}
	}
	if record.Layout == "" {
		record.Layout = model.LayoutDefault
	}

	slog.InfoContext(ctx, "slide generated",
		"segment", nctx.SegmentIndex,
		"role", seg.Role,
		"title", record.Title,
		"layout", record.Layout)

	return &record, nil
}
