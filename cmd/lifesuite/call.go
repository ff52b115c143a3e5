package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lifesuite/internal/auth"
	"lifesuite/internal/config"
	"lifesuite/internal/operations"
)

var callToken string

var callCmd = &cobra.Command{
	Use:   "call <operation> [key=value...]",
	Short: "Render an operation's report locally",
	Long: `Render an operation's report without starting a server. Arguments are
key=value pairs; omitted optional parameters take their defaults.
validate releases the configured identity and needs --token.

Examples:
  lifesuite call crypto_intelligence crypto_name=Bitcoin
  lifesuite call social_media_trend_predictor platform=tiktok niche=fitness
  lifesuite call validate --token "$AUTH_TOKEN"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVar(&callToken, "token", "", "Bearer token presented for the call")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	callArgs, err := parseCallArgs(args[1:])
	if err != nil {
		return err
	}

	// No server settings are needed, so skip full validation.
	cfg, err := config.Read(configPathFlag)
	if err != nil {
		return err
	}

	gate, err := auth.NewGate(cfg.Auth, nil, nil)
	if err != nil {
		return err
	}
	dispatcher, err := operations.NewDispatcher(gate)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if callToken != "" {
		ctx = auth.WithResult(ctx, gate.Authorize(callToken))
	}

	report, err := dispatcher.Dispatch(ctx, args[0], callArgs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprint(out, report); err != nil {
		return err
	}
	if !strings.HasSuffix(report, "\n") {
		_, err = fmt.Fprintln(out)
	}
	return err
}

// parseCallArgs turns key=value pairs into an argument map. Values may be
// empty and may contain '='; a later pair overrides an earlier one.
func parseCallArgs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
