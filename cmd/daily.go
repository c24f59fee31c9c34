package cmd

import (
	"github.com/huangsam/dealflow/core"
	"github.com/spf13/cobra"
)

// dailyCmd shows stage entries per day of the current month.
var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show stage entries per day of the current month.",
	Long: `Count, for each day of the current calendar month, how many deals entered
each stage.

Stages are matched loosely against the catalog. Deals whose stage cannot be
resolved are reported after the table.

Examples:
  # Month-to-date entries
  dealflow daily

  # Write a parquet file for a notebook
  dealflow daily --output parquet --output-file daily.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteDaily, "Cannot build daily evolution"),
}
