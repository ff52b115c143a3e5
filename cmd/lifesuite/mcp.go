package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lifesuite/internal/config"
	"lifesuite/internal/mcp"
	"lifesuite/internal/slogutil"
	"lifesuite/internal/version"
)

var mcpToken string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol server on stdin/stdout.

Messages are newline-delimited JSON-RPC 2.0. The session is authorized once
at startup with --token; initialize and tools/list work without it, but
every tools/call on an unauthorized session is rejected.

Logs go to stderr (and the configured log file), never stdout.

Example:
  lifesuite mcp --token "$AUTH_TOKEN"`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpToken, "token", "", "Bearer token that authorizes this stdio session")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		return err
	}

	logs, err := newLoggerFactory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logs.Close() }()
	logger := logs.Logger(slogutil.SubsystemMCP)

	a, err := newApp(cfg, logs)
	if err != nil {
		return err
	}
	defer func() { _ = a.shutdown(context.Background()) }()

	server := mcp.NewMCPServer(version.Version, a.dispatcher, a.gate, logger, mcp.WithRecorder(a.recorder))
	if err := server.Authenticate(mcpToken); err != nil {
		logger.Warn("Starting unauthorized session; tools/call will be rejected",
			"error", err.Error(),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Error("MCP server error", "error", err.Error())
		return err
	}
	return nil
}
