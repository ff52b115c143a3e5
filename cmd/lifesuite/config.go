package main

import (
	"encoding/json"
	"fmt"
	"io"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"lifesuite/internal/config"
)

var configShowJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample lifesuite.toml with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.FileName
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.DefaultConfig().WriteFile(path); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		fmt.Fprintln(cmd.OutOrStdout(), "Set AUTH_TOKEN and MY_NUMBER (or edit [auth]) before starting the server.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with the secret masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read(configPathFlag)
		if err != nil {
			return err
		}
		if verr := cfg.Validate(); verr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", verr)
		}
		return writeConfig(cmd.OutOrStdout(), cfg, configShowJSON)
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "Output as JSON")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func writeConfig(w io.Writer, cfg *config.Config, asJSON bool) error {
	redacted := cfg.Redacted()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(redacted)
	}
	return toml.NewEncoder(w).SetIndentTables(true).Encode(redacted)
}
