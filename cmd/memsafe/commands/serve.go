package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/irahardianto/memsafe/internal/engine/config"
	"github.com/irahardianto/memsafe/internal/engine/llm"
	"github.com/irahardianto/memsafe/internal/engine/server"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Long: `Start a JSON HTTP API:

  GET  /health          liveness check
  POST /api/analyze     {"code": "...", "filename": "main.c"}
  POST /api/interpret   {"code": "...", "response": "..."}

If no provider can be configured, /api/analyze answers 503 and
/api/interpret keeps working.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := resolveConfig(ctx, defaultConfigLoader, currentFlags())
		if err != nil {
			return err
		}
		if flagAddr != "" {
			cfg.Server.Addr = flagAddr
		}
		return runServe(ctx, cfg, llm.Factories{})
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

// runServe builds the server for cfg and blocks until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, f llm.Factories) error {
	return newServer(ctx, cfg, f).ListenAndServe(ctx, cfg.Server.Addr)
}

// newServer creates the HTTP server. A provider that cannot be set up only
// disables analysis.
func newServer(ctx context.Context, cfg *config.Config, f llm.Factories) *server.Server {
	log := logger.FromContext(ctx)

	var a server.SourceAnalyzer
	if an, err := newAnalyzer(ctx, cfg, f); err != nil {
		log.Warn("analysis disabled", "error", err)
	} else {
		a = an
	}

	return server.New(a, cfg.MaxSourceBytes(), log)
}
