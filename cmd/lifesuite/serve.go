package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lifesuite/internal/api"
	"lifesuite/internal/config"
	"lifesuite/internal/mcp"
	"lifesuite/internal/slogutil"
	"lifesuite/internal/version"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP transport",
	Long: `Start the HTTP transport. MCP clients POST JSON-RPC messages to /mcp
with "Authorization: Bearer <token>". /health, /ready and (when enabled)
/metrics are served without authentication.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}

	logs, err := newLoggerFactory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logs.Close() }()
	logger := logs.Logger(slogutil.SubsystemHTTP)

	a, err := newApp(cfg, logs)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.limiter.StartCleanup(ctx, time.Minute)

	mcpServer := mcp.NewMCPServer(version.Version, a.dispatcher, a.gate,
		logs.Logger(slogutil.SubsystemMCP), mcp.WithRecorder(a.recorder))

	server, err := api.NewServer(cfg.Server, api.Deps{
		MCP:      mcpServer,
		Gate:     a.gate,
		Recorder: a.recorder,
		Metrics:  a.provider,
		Limiter:  a.limiter,
	}, logger)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.ErrOrStderr(), "lifesuite listening on http://%s\n", server.Addr())
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err.Error())
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutMs)*time.Millisecond)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", "error", err.Error())
		return err
	}
	if err := a.shutdown(shutdownCtx); err != nil {
		logger.Warn("Metrics shutdown failed", "error", err.Error())
	}

	logger.Info("Server stopped gracefully")
	return nil
}
