package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/dealflow/core"
	"github.com/huangsam/dealflow/core/transition"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     core.Sources
	srcErr  error
	tracker *transition.Tracker
}

// transitionStatus is the payload of get_transition_status.
type transitionStatus struct {
	State       string    `json:"state"`
	Page        int       `json:"page"`
	Error       string    `json:"error,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitzero"`
	Records     int       `json:"records"`
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

// applyFilters copies the owner and company arguments onto cfg.
func applyFilters(cfg *contract.Config, request mcp.CallToolRequest) {
	if o := strings.TrimSpace(request.GetString("owner", "")); o != "" {
		cfg.Owner = o
	}
	if c := strings.TrimSpace(request.GetString("company", "")); c != "" {
		cfg.Company = c
	}
}

func (h *toolHandler) handleGetStageSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.srcErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("source unavailable: %v", h.srcErr)), nil
	}
	cfg := h.baseCfg.Clone()
	applyFilters(cfg, request)
	if m := request.GetString("mode", ""); m != "" {
		mode := schema.SnapshotMode(strings.ToLower(m))
		if _, ok := schema.ValidSnapshotModes[mode]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid mode '%s'. must be count, value", m)), nil
		}
		cfg.Mode = mode
	}

	result, err := core.BuildSnapshot(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetStageEvolution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.srcErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("source unavailable: %v", h.srcErr)), nil
	}
	cfg := h.baseCfg.Clone()
	applyFilters(cfg, request)

	rows, err := core.BuildEvolution(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evolution failed: %v", err)), nil
	}
	return jsonResult(rows), nil
}

func (h *toolHandler) handleGetDailyEvolution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.srcErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("source unavailable: %v", h.srcErr)), nil
	}
	cfg := h.baseCfg.Clone()
	applyFilters(cfg, request)

	daily, err := core.BuildDaily(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("daily evolution failed: %v", err)), nil
	}
	return jsonResult(daily), nil
}

func (h *toolHandler) handleGetTransitions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.srcErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("source unavailable: %v", h.srcErr)), nil
	}
	deals, err := h.src.Deals.FetchDeals(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch deals failed: %v", err)), nil
	}

	report, err := h.tracker.Refresh(ctx, deals)
	if errors.Is(err, transition.ErrSuperseded) {
		return mcp.NewToolResultError("transition reconstruction superseded by a newer request"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("transition reconstruction failed: %v", err)), nil
	}
	return jsonResult(report), nil
}

func (h *toolHandler) handleGetTransitionStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.srcErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("source unavailable: %v", h.srcErr)), nil
	}
	state, page, lastErr := h.tracker.State()
	status := transitionStatus{State: state.String(), Page: page}
	if lastErr != nil {
		status.Error = lastErr.Error()
	}
	if latest := h.tracker.Latest(); latest != nil {
		status.GeneratedAt = latest.GeneratedAt
		status.Records = len(latest.Records)
	}
	return jsonResult(status), nil
}
