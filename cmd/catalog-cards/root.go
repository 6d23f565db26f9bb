package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	envFile   string
	noHistory bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "catalog-cards",
		Short: "Convert PDF product catalogs into HTML shopping pages",
		Long: `catalog-cards extracts the content of a PDF product catalog, structures it
into a product listing with an AI provider (or a rule-based fallback when none
is configured), optionally translates it, and renders a static HTML page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.envFile, "env", "", "extra .env file to load")
	cmd.PersistentFlags().BoolVar(&flags.noHistory, "no-history", false, "do not record runs in the history store")

	cmd.AddCommand(
		newConvertCmd(flags),
		newWatchCmd(flags),
		newHistoryCmd(flags),
		newProvidersCmd(flags),
		newDBHealthCmd(flags),
	)
	return cmd
}
