package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"lifesuite/internal/config"
	"lifesuite/internal/slogutil"
	"lifesuite/internal/version"
)

var (
	// configPathFlag is the CLI --config flag value
	configPathFlag string
	// logLevelFlag overrides every configured log level when set
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "lifesuite",
	Short: "Innovation & Lifestyle Suite MCP server",
	Long: `lifesuite serves a fixed catalog of report-generating operations
(crypto, startup, content, fashion, food, NFT, social media, influencer,
dating and travel) to MCP clients over HTTP or stdio, behind a single
bearer credential.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("lifesuite version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "",
		"Path to lifesuite.toml (default: ./lifesuite.toml or ~/.lifesuite/lifesuite.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Override log level for all subsystems: debug, info, warn, error, off")
}

// newLoggerFactory builds the per-subsystem logger factory, applying the
// --log-level override.
func newLoggerFactory(cfg *config.Config) (*slogutil.LoggerFactory, error) {
	var cliLevel *slog.Level
	if logLevelFlag != "" {
		level := slogutil.LevelFromString(logLevelFlag)
		cliLevel = &level
	}
	return slogutil.NewLoggerFactory(cfg.Logging, nil, cliLevel)
}
