package main

import (
	"fmt"
	"os"

	"github.com/aditsuu/wisatarec/internal/app"

	"github.com/spf13/cobra"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit the recommendation engine from a dataset and save a snapshot",
	Long: `Fit ingests the dataset, builds the similarity index and popularity model,
and saves the fitted state to the snapshot path. Query commands then load the
snapshot instead of refitting.

Examples:
  wisatarec fit --data wisata.csv
  wisatarec fit --data export.json --format json --snapshot /var/lib/wisatarec/model.gob`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, ctx, stop, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer stop()

		if config.DataSource == "" {
			return fmt.Errorf("fit requires --data")
		}

		eng, err := app.Fit(ctx, config)
		if err != nil {
			return fmt.Errorf("fit failed: %w", err)
		}

		if err := eng.Save(config.SnapshotPath); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		if !config.Quiet {
			fmt.Fprintf(os.Stderr, "Fitted %d attractions; snapshot saved to %s\n",
				len(eng.Rows()), config.SnapshotPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)
}
