package cmd

import (
	"github.com/huangsam/dealflow/core"
	"github.com/spf13/cobra"
)

// snapshotCmd totals the active pipeline by stage.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show active deals per stage as a count or a contract value sum.",
	Long: `Total the active deals of the board by their current stage.

Only deals whose status is Active and whose stage title is in the catalog are
counted. Every catalog stage is listed, even when no deal sits in it.

Modes:
- count: number of deals per stage (default)
- value: sum of the contract values per stage

Examples:
  # Deals per stage
  dealflow snapshot --board-id 123

  # Pipeline value for one owner
  dealflow snapshot --mode value --owner "Ana Souza"

  # Export to JSON
  dealflow snapshot --output json --output-file snapshot.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteSnapshot, "Cannot build stage snapshot"),
}
