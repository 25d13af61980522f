package author

import (
	"context"
	"log/slog"

	"gitdeck.app/cli/internal/model"
)

// Formatter normalizes a slide's markup so the downstream renderer
// cannot misparse it.
type Formatter interface {
	Format(ctx context.Context, record model.SlideRecord) (model.SlideRecord, error)
}

type markupFormatter struct{}

// NewFormatter returns the deterministic markup formatter. It never
// fails; the error return exists so the pipeline can drive all three
// stages through one shape.
func NewFormatter() Formatter { return markupFormatter{} }

// Format returns a cleaned copy of record; the input is never mutated.
// Running Format over its own output changes nothing.
func (markupFormatter) Format(ctx context.Context, record model.SlideRecord) (model.SlideRecord, error) {
	out := record

	var nContent, nRight, nSubtitle int
	out.Content, nContent = SanitizeMarkup(record.Content)
	out.RightContent, nRight = SanitizeMarkup(record.RightContent)
	out.Subtitle, nSubtitle = SanitizeMarkup(record.Subtitle)

	if out.Layout == "" {
		out.Layout = model.LayoutDefault
	}

	if n := nContent + nRight + nSubtitle; n > 0 {
		slog.DebugContext(ctx, "markup cleaned",
			"title", record.Title,
			"markers_escaped", n)
	}

	return out, nil
}
