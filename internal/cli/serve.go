package cli

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/web"
	"github.com/spf13/cobra"
)

var (
	serveFlags CommonFlags
	serveAddr  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local web view of the monitor",
	Long: `Start an HTTP server with JSON endpoints and a websocket stream of
snapshots. It listens on loopback by default and has no authentication,
so only bind it elsewhere on a network you trust.

Endpoints:
  GET /healthz         readiness and latest sequence number
  GET /api/snapshot    latest snapshot (?format=json|yaml|text)
  GET /api/history     chart series
  GET /api/alerts      active alerts and the alert log
  GET /api/settings    effective settings
  GET /ws              websocket stream, one frame per sample

Examples:
  sysmon serve
  sysmon serve --addr 127.0.0.1:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(cmd.Context(), serveFlags, serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	AddCommonFlags(serveCmd, &serveFlags)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: serve.addr from config)")
}

// serveCommand runs the web view until ctx is cancelled.
func serveCommand(ctx context.Context, flags CommonFlags, addr string) error {
	log := logger.NewEnvLogger("[web]")
	p, err := newPipeline(ctx, flags, log)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = p.holder.Settings().Serve.Addr
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.start(ctx)

	gin.SetMode(gin.ReleaseMode)
	return web.New(p.store, p.holder, web.WithLogger(log)).ListenAndServe(ctx, addr)
}
