package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/dealflow/internal/contract"
	mcp_internal "github.com/huangsam/dealflow/internal/mcp"
	"github.com/huangsam/dealflow/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig() *contract.Config {
	return &contract.Config{
		Source:       schema.FileSource,
		DealsFile:    filepath.Join("testdata", "deals.json"),
		LogsFile:     filepath.Join("testdata", "logs.json"),
		Mode:         schema.CountMode,
		Horizon:      100 * 365 * 24 * time.Hour, // Fixture logs are dated 2024-2025
		LogPageLimit: 200,
		TrackedField: "status6__1",
	}
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPServerSnapshot(t *testing.T) {
	s := mcp_internal.NewMCPServer(fileConfig(), nil)

	res := callTool(t, s, "get_stage_snapshot", map[string]any{"mode": "value", "owner": "Bo"})
	require.False(t, res.IsError, resultText(t, res))

	var decoded schema.SnapshotResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decoded))
	assert.Equal(t, schema.ValueMode, decoded.Mode)
	assert.Equal(t, "Bo", decoded.Owner)
	assert.Equal(t, "3000", decoded.Total.String())
}

func TestMCPServerEvolutionAndDaily(t *testing.T) {
	s := mcp_internal.NewMCPServer(fileConfig(), nil)

	res := callTool(t, s, "get_stage_evolution", nil)
	require.False(t, res.IsError, resultText(t, res))
	var rows []schema.EvolutionRow
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
	assert.Len(t, rows, 9)

	res = callTool(t, s, "get_daily_evolution", map[string]any{"owner": "Ana"})
	require.False(t, res.IsError, resultText(t, res))
	var daily schema.DailyEvolution
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &daily))
	assert.GreaterOrEqual(t, len(daily.Days), 28)
	require.Len(t, daily.Unresolved, 1)
	assert.Equal(t, "104", daily.Unresolved[0].DealID)
}

func TestMCPServerTransitions(t *testing.T) {
	s := mcp_internal.NewMCPServer(fileConfig(), nil)

	res := callTool(t, s, "get_transition_status", nil)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"state": "idle"`)

	res = callTool(t, s, "get_transitions", nil)
	require.False(t, res.IsError, resultText(t, res))
	var report schema.TransitionReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	require.Len(t, report.Records, 3)
	assert.Equal(t, "a2", report.Records[0].LogID)
	assert.Equal(t, schema.Regression, report.Records[0].Classification)

	res = callTool(t, s, "get_transition_status", nil)
	text := resultText(t, res)
	assert.Contains(t, text, `"state": "done"`)
	assert.Contains(t, text, `"records": 3`)
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(fileConfig(), nil)

	t.Run("get_stage_snapshot invalid mode", func(t *testing.T) {
		res := callTool(t, s, "get_stage_snapshot", map[string]any{"mode": "sum"})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "invalid mode 'sum'")
	})

	t.Run("missing deals file", func(t *testing.T) {
		cfg := fileConfig()
		cfg.DealsFile = filepath.Join(t.TempDir(), "missing.json")
		broken := mcp_internal.NewMCPServer(cfg, nil)

		res := callTool(t, broken, "get_stage_evolution", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "evolution failed")

		res = callTool(t, broken, "get_transitions", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "fetch deals failed")
	})

	t.Run("unsupported source", func(t *testing.T) {
		broken := mcp_internal.NewMCPServer(&contract.Config{Source: "sheets"}, nil)
		for _, name := range []string{"get_stage_snapshot", "get_transitions", "get_transition_status"} {
			res := callTool(t, broken, name, nil)
			assert.True(t, res.IsError, name)
			assert.Contains(t, resultText(t, res), "source unavailable")
		}
	})
}
