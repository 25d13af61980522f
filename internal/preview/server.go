// Package preview serves a generated deck directory over HTTP and can
// hand the deck to the external Slidev renderer. The server is a quick
// way to eyeball the markup; Slidev owns the real slide experience.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"gitdeck.app/cli/internal/deck"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><title>gitdeck preview</title></head>
<body>
<h1>gitdeck preview</h1>
<p>The generated deck is served at <a href="/deck.md">/deck.md</a>.</p>
<p>For rendered slides, run Slidev against this directory or pass --open to gitdeck generate.</p>
</body>
</html>
`

// Server exposes a deck directory over HTTP.
type Server struct {
	dir    string
	engine *gin.Engine
}

// NewServer builds the preview server for a deck directory.
func NewServer(dir string, production bool) *Server {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(recovery())
	engine.Use(requestLogger())

	s := &Server{dir: dir, engine: engine}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/", s.index)
	engine.GET("/deck.md", s.deckFile)

	return s
}

// Handler exposes the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	slog.InfoContext(ctx, "preview server started", "port", port, "dir", s.dir)

	select {
	case err := <-errCh:
		return fmt.Errorf("preview server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

func (s *Server) deckFile(c *gin.Context) {
	path := filepath.Join(s.dir, deck.Filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no deck has been generated yet"})
		return
	}
	c.Header("Content-Type", "text/markdown; charset=utf-8")
	c.File(path)
}
