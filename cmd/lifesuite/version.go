package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"lifesuite/internal/version"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		build := version.Get()
		if versionJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(build)
		}
		fmt.Fprintln(cmd.OutOrStdout(), build)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(versionCmd)
}
