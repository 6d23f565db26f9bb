package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-cards/internal/repository"
)

func newDBHealthCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dbhealth",
		Short: "Check that the history store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), root.envFile, false)
			if err != nil {
				return err
			}
			defer a.close()
			if a.db == nil {
				return errors.New("DB health: FAIL (store could not be opened)")
			}
			if err := repository.HealthCheck(cmd.Context(), a.db, time.Second, a.logger); err != nil {
				return fmt.Errorf("DB health: FAIL (%w)", err)
			}

			runs, err := a.runs.List(cmd.Context(), 1)
			if err != nil {
				return fmt.Errorf("listing runs: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "DB health: OK (%s)\n", a.db.Dialect)
			if len(runs) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "last run: %s %s\n", runs[0].StartedAt.Local().Format(time.RFC3339), runs[0].Status)
			}
			return nil
		},
	}
}
