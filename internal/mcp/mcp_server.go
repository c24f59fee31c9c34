// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/dealflow/core"
	"github.com/huangsam/dealflow/core/transition"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the dealflow MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Dealflow Pipeline Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}
	h.src, h.srcErr = core.NewSources(baseCfg, mgr)
	if h.srcErr == nil {
		h.tracker = transition.NewTracker(transition.NewEngine(h.src.Logs, core.EngineOptions(baseCfg)))
	}

	// --- 1. Tool: get_stage_snapshot ---
	s.AddTool(mcp.NewTool("get_stage_snapshot",
		mcp.WithDescription("Count active deals, or sum their contract value, per pipeline stage."),
		mcp.WithString("mode", mcp.Description("What to total per stage. Defaults to 'count'."), mcp.Enum("count", "value")),
		mcp.WithString("owner", mcp.Description("Only include deals of this owner (exact match).")),
		mcp.WithString("company", mcp.Description("Only include deals of this company (exact match).")),
	), h.handleGetStageSnapshot)

	// --- 2. Tool: get_stage_evolution ---
	s.AddTool(mcp.NewTool("get_stage_evolution",
		mcp.WithDescription("Bucket deals by how many days they have been in their current stage (0-7, 8-14, ... 61-90)."),
		mcp.WithString("owner", mcp.Description("Only include deals of this owner (exact match).")),
	), h.handleGetStageEvolution)

	// --- 3. Tool: get_daily_evolution ---
	s.AddTool(mcp.NewTool("get_daily_evolution",
		mcp.WithDescription("Count stage entries per day of the current month."),
		mcp.WithString("owner", mcp.Description("Only include deals of this owner (exact match).")),
	), h.handleGetDailyEvolution)

	// --- 4. Tool: get_transitions ---
	s.AddTool(mcp.NewTool("get_transitions",
		mcp.WithDescription("Reconstruct stage transitions from the change log and classify them as Advance or Regression. A newer call supersedes one still running."),
	), h.handleGetTransitions)

	// --- 5. Tool: get_transition_status ---
	s.AddTool(mcp.NewTool("get_transition_status",
		mcp.WithDescription("Report the state of the latest transition reconstruction and when its last report was generated."),
	), h.handleGetTransitionStatus)

	return s
}

// StartMCPServer starts the dealflow MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
