package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"gitdeck.app/cli/internal/deck"
)

// Launch starts the external Slidev renderer against the deck file and
// detaches. Fire and forget: the deck on disk is already complete, so a
// launch failure is the caller's to report, never to retry.
func Launch(ctx context.Context, dir string, port int) (string, error) {
	path := filepath.Join(dir, deck.Filename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no deck to preview: %w", err)
	}

	bin, err := exec.LookPath("npx")
	if err != nil {
		return "", fmt.Errorf("slidev needs npx on PATH: %w", err)
	}

	cmd := exec.Command(bin, "slidev", path, "--port", strconv.Itoa(port), "--open")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = nil
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("starting slidev: %w", err)
	}

	// The renderer outlives this process.
	if err := cmd.Process.Release(); err != nil {
		return "", fmt.Errorf("detaching slidev: %w", err)
	}

	endpoint := fmt.Sprintf("http://localhost:%d", port)
	slog.InfoContext(ctx, "slidev launched", "endpoint", endpoint, "deck", path)
	return endpoint, nil
}
