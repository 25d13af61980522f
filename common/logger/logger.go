package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"gitdeck.app/cli/core/config"
)

// Setup installs the default logger. Logs go to stderr so stdout stays
// clean for command output; text in development, JSON in production.
func Setup(cfg config.Config) {
	opts := &slog.HandlerOptions{
		Level: level(cfg),
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = NewContextHandler(slog.NewJSONHandler(os.Stderr, opts))
	} else {
		handler = NewContextHandler(slog.NewTextHandler(os.Stderr, opts))
	}

	slog.SetDefault(slog.New(handler))
}

func level(cfg config.Config) slog.Level {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if cfg.IsDevelopment() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// ContextHandler enriches every record with the LogFields carried by the
// context, so run and segment identifiers appear on all lines without
// being repeated at call sites.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	fields := GetLogFields(ctx)
	if fields.RunID != nil {
		r.AddAttrs(slog.Int64("run_id", *fields.RunID))
	}
	if fields.Repo != nil {
		r.AddAttrs(slog.String("repo", *fields.Repo))
	}
	if fields.SegmentIndex != nil {
		r.AddAttrs(slog.Int("segment", *fields.SegmentIndex))
	}
	if fields.Stage != nil {
		r.AddAttrs(slog.String("stage", *fields.Stage))
	}
	if fields.Component != "" {
		r.AddAttrs(slog.String("component", fields.Component))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
