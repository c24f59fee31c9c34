package cmd

import (
	"github.com/huangsam/dealflow/core"
	"github.com/spf13/cobra"
)

// transitionsCmd rebuilds stage changes from the change log.
var transitionsCmd = &cobra.Command{
	Use:   "transitions",
	Short: "Reconstruct stage changes from the change log and classify them.",
	Long: `Page through the change log of the stage field and rebuild every stage change.

Each change is classified as an Advance or a Regression by comparing the
tiers of its two stages, then grouped by day and stage pair. Records are
enriched with the current owner, contract value and close date of the deal.

Paging stops when a page comes back short, when an entry is older than the
horizon, or after --max-pages pages.

Examples:
  # Last 90 days (default)
  dealflow transitions

  # Last two weeks, quickly
  dealflow transitions --horizon "14 days" --page-delay 0

  # Export the flat records
  dealflow transitions --output csv --output-file transitions.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteTransitions, "Cannot reconstruct transitions"),
}
