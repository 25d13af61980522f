package logger

import (
	"context"
	"unicode/utf8"
)

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields carries the structured fields every log line inside a context
// should include. Fields flow through context enrichment so call sites
// never repeat run or segment identifiers by hand.
type LogFields struct {
	RunID        *int64  // pipeline run ID
	Repo         *string // repository path the run reads
	SegmentIndex *int    // narrative segment currently processed
	Stage        *string // pipeline stage (generate, format, validate, fallback)
	Component    string  // component name, e.g. "gitdeck.pipeline"
}

// WithLogFields enriches context with structured log fields. Multiple
// calls merge, newer non-nil/non-empty values winning. Timeouts and
// cancellation on the context are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context, empty if none were set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.RunID != nil {
		result.RunID = new.RunID
	}
	if new.Repo != nil {
		result.Repo = new.Repo
	}
	if new.SegmentIndex != nil {
		result.SegmentIndex = new.SegmentIndex
	}
	if new.Stage != nil {
		result.Stage = new.Stage
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr builds a pointer from a value, for setting LogFields inline:
// logger.WithLogFields(ctx, logger.LogFields{RunID: logger.Ptr(runID)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens s to at most maxLen bytes, appending "..." when cut.
// The cut lands on a rune boundary so a multi-byte character is never
// split in half. Useful for logging prompts and slide bodies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
