package cmd

import (
	"github.com/huangsam/dealflow/core"
	"github.com/spf13/cobra"
)

// evolutionCmd buckets deals by how long ago they entered their stage.
var evolutionCmd = &cobra.Command{
	Use:   "evolution",
	Short: "Show how many deals entered each stage within fixed day windows.",
	Long: `Bucket every deal by the age of its entry into its current stage.

The windows are 0-7, 8-14, 15-21, 22-30, 31-60 and 61-90 days. Deals
without a readable entry date and deals outside every window are counted
separately.

Examples:
  # Stage ages for the whole board
  dealflow evolution

  # Only one owner, as CSV
  dealflow evolution --owner "Bo Lima" --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteEvolution, "Cannot build stage evolution"),
}
