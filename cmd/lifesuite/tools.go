package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lifesuite/internal/operations"
)

var toolsFormatFlag string

var toolsCmd = &cobra.Command{
	Use:   "tools [name]",
	Short: "List the operation catalog",
	Long: `List every operation the server exposes, or show the parameters of one.

Examples:
  lifesuite tools                         # Catalog summary
  lifesuite tools crypto_intelligence     # Parameters of one operation
  lifesuite tools --format yaml           # Whole catalog as YAML`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().StringVar(&toolsFormatFlag, "format", "text", "Output format: text, json or yaml")
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	catalog := operations.Catalog()

	if len(args) == 0 {
		return writeCatalog(cmd.OutOrStdout(), catalog, toolsFormatFlag)
	}

	for _, op := range catalog {
		if op.Name == args[0] {
			return writeOperation(cmd.OutOrStdout(), op, toolsFormatFlag)
		}
	}
	return fmt.Errorf("unknown operation: %s\n\nUse 'lifesuite tools' to see available operations", args[0])
}

func writeCatalog(w io.Writer, catalog []operations.Operation, format string) error {
	switch format {
	case "json", "yaml":
		return encode(w, catalog, format)
	case "text", "":
	default:
		return fmt.Errorf("unknown format: %s (valid: text, json, yaml)", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tREQUIRED\tDESCRIPTION")
	for _, op := range catalog {
		required := strings.Join(op.Required(), ", ")
		if required == "" {
			required = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", op.Name, required, op.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use 'lifesuite tools <operation>' for parameter details.")
	return nil
}

func writeOperation(w io.Writer, op operations.Operation, format string) error {
	switch format {
	case "json", "yaml":
		return encode(w, op, format)
	case "text", "":
	default:
		return fmt.Errorf("unknown format: %s (valid: text, json, yaml)", format)
	}

	fmt.Fprintf(w, "%s\n", op.Name)
	fmt.Fprintln(w, strings.Repeat("─", len(op.Name)))
	fmt.Fprintf(w, "%s\n\n", op.Description)
	if op.UseWhen != "" {
		fmt.Fprintf(w, "Use when:     %s\n", op.UseWhen)
	}
	if op.SideEffects != "" {
		fmt.Fprintf(w, "Side effects: %s\n", op.SideEffects)
	}
	if len(op.Params) == 0 {
		fmt.Fprintln(w, "\nNo parameters.")
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAMETER\tREQUIRED\tDEFAULT\tDESCRIPTION")
	for _, p := range op.Params {
		req, def := "no", p.Default
		if p.Required {
			req, def = "yes", "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, req, def, p.Description)
	}
	return tw.Flush()
}

func encode(w io.Writer, v interface{}, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
