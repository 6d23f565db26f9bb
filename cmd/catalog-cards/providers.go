package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

func newProvidersCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show which AI provider the configured credentials select",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), root.envFile, true)
			if err != nil {
				return err
			}
			creds := a.credentials()
			out := cmd.OutOrStdout()

			for _, id := range []llm.ProviderID{
				llm.ProviderDeepSeek, llm.ProviderAnthropic, llm.ProviderHuggingFace, llm.ProviderGoogle, llm.ProviderOpenAI,
			} {
				fmt.Fprintf(out, "%-12s %s\n", id, mask(creds.Key(id)))
			}

			gw, err := a.gateway()
			if err != nil {
				return err
			}
			if gw.Provider() == llm.ProviderNone {
				fmt.Fprintln(out, "\nselected: none (rule-based fallback only)")
				return nil
			}
			fmt.Fprintf(out, "\nselected: %s (vision: %t)\n", gw.Provider(), gw.SupportsVision())
			return nil
		},
	}
}

func mask(key string) string {
	switch {
	case key == "":
		return "not set"
	case len(key) <= 8:
		return "set"
	default:
		return key[:4] + "…" + key[len(key)-4:]
	}
}
