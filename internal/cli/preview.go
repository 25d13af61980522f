package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gitdeck.app/cli/common/logger"
	"gitdeck.app/cli/core/config"
	"gitdeck.app/cli/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve a generated deck directory over local HTTP",
	RunE:  runPreview,
}

func init() {
	f := previewCmd.Flags()
	f.String("dir", "slides", "Deck directory to serve")
	f.Int("port", 0, "Port to listen on (default GITDECK_PREVIEW_PORT or 3030)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg)

	dir, _ := cmd.Flags().GetString("dir")
	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.PreviewPort()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := preview.NewServer(dir, cfg.IsProduction())
	return server.Run(ctx, port)
}
