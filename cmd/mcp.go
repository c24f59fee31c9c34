package cmd

import (
	"github.com/huangsam/dealflow/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Dealflow MCP server",
	Long:  `Launch an MCP server that lets AI agents read stage snapshots, evolution windows and transitions via standard tools.`,
	// Setup logs go to stderr, which keeps stdio clean for the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
