package deck

import (
	"fmt"
	"os"
	"path/filepath"

	"gitdeck.app/cli/internal/model"
)

// Filename is the canonical deck file name. The preview process looks
// for exactly this name inside the deck directory.
const Filename = "slides.md"

// SerializationError reports a failure to persist the deck. Path is the
// resolved location the write was aimed at.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("writing deck to %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Writer persists decks under a root directory.
type Writer struct {
	rootDir string
}

// NewWriter creates a Writer rooted at dir, creating the directory when
// missing. The directory is resolved to an absolute path up front so
// returned paths and error messages are unambiguous.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("deck output directory is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving deck directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating deck directory: %w", err)
	}

	return &Writer{rootDir: abs}, nil
}

// Dir returns the resolved deck directory.
func (w *Writer) Dir() string { return w.rootDir }

// Write serializes the deck and persists it, returning the resolved
// path of the deck file.
func (w *Writer) Write(d model.SlideDeck) (string, error) {
	fullPath := filepath.Join(w.rootDir, Filename)

	if len(d.Slides) == 0 {
		return "", &SerializationError{Path: fullPath, Err: fmt.Errorf("deck has no slides")}
	}

	// Atomic write: temp file in the same directory, then rename.
	tmpPath := fullPath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(Serialize(d)), 0o644); err != nil {
		return "", &SerializationError{Path: fullPath, Err: err}
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", &SerializationError{Path: fullPath, Err: err}
	}

	return fullPath, nil
}
