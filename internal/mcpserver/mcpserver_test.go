// ABOUTME: Tests for the MCP tool surface over the advisor manager.

package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/positivity/advisor-gateway/internal/advisor"
	"github.com/positivity/advisor-gateway/internal/agents"
)

func testManager(t *testing.T) *advisor.Manager {
	t.Helper()
	m := advisor.NewManager(nil)
	require.NoError(t, agents.RegisterDefaults(m))
	return m
}

func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestConsultTool_Handle_Success(t *testing.T) {
	tool := NewConsultTool(testManager(t), "service-token")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"domain":      "testing",
		"description": "how should we test the new importer",
	}

	result, err := tool.Handle(context.Background(), req)
	require.NoError(t, err)
	require.False(t, isErrorResult(result))

	text := getResultText(result)
	assert.Contains(t, text, "testing advisor (success)")
	assert.Contains(t, text, "Testing pattern recommendation")
	assert.Contains(t, text, "Recommendations:")
	assert.Contains(t, text, "Confidence: 0.80")
}

func TestConsultTool_Handle_MissingArguments(t *testing.T) {
	tool := NewConsultTool(testManager(t), "service-token")

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing domain", map[string]interface{}{"description": "something"}},
		{"missing description", map[string]interface{}{"domain": "testing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tt.args
			result, err := tool.Handle(context.Background(), req)
			require.NoError(t, err)
			assert.True(t, isErrorResult(result))
		})
	}
}

func TestConsultTool_Handle_SessionDomainMismatch(t *testing.T) {
	tool := NewConsultTool(testManager(t), "service-token")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"domain":      "testing",
		"description": "open the session",
		"session_id":  "sess-1",
	}
	result, err := tool.Handle(context.Background(), req)
	require.NoError(t, err)
	require.False(t, isErrorResult(result))

	req.Params.Arguments = map[string]interface{}{
		"domain":      "security",
		"description": "same session, different domain",
		"session_id":  "sess-1",
	}
	result, err = tool.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, isErrorResult(result))
	assert.Contains(t, getResultText(result), "bound to domain testing")
}

func TestConsultTool_Handle_UnknownDomain(t *testing.T) {
	tool := NewConsultTool(testManager(t), "service-token")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"domain":      "no-such-domain",
		"description": "anything",
	}

	result, err := tool.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, isErrorResult(result))
	assert.Contains(t, getResultText(result), "no advisor registered")
}

func TestConsultTool_Handle_Properties(t *testing.T) {
	tool := NewConsultTool(testManager(t), "service-token")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"domain":      "cicd",
		"description": "review the pipeline",
		"properties":  "stages=build,deploy;gates=build=lint",
	}

	result, err := tool.Handle(context.Background(), req)
	require.NoError(t, err)
	require.False(t, isErrorResult(result))
	assert.Contains(t, getResultText(result), "add quality gates to: deploy")
}

func TestConsultTool_Handle_StoppedIsNotAnError(t *testing.T) {
	tool := NewConsultTool(testManager(t), "service-token")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"domain":      "story",
		"description": "As a user I want things so that stuff happens.",
		"properties":  "repository=wrong-repo;title=[BACKEND] [STORY] Things",
	}

	result, err := tool.Handle(context.Background(), req)
	require.NoError(t, err)
	require.False(t, isErrorResult(result))
	assert.Contains(t, getResultText(result), "STOP: Repository not in scope")
}

func TestParseProperties(t *testing.T) {
	props := parseProperties("stages=build,deploy; gates=build=lint;empty")
	assert.Equal(t, "build,deploy", props["stages"])
	assert.Equal(t, "build=lint", props["gates"])
	_, ok := props["empty"]
	assert.False(t, ok)
	assert.Nil(t, parseProperties("  "))
}

func TestListTool_Handle(t *testing.T) {
	tool := NewListTool(testManager(t))

	result, err := tool.Handle(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, isErrorResult(result))

	text := getResultText(result)
	assert.Contains(t, text, "14 advisors available")
	assert.Contains(t, text, "security:")
	assert.Contains(t, text, "requires role: security or admin")
	// capability lists are comma joined
	assert.True(t, strings.Contains(text, "unit-testing"))
}

func TestNewRegistersTools(t *testing.T) {
	s := New(testManager(t), "service-token")
	assert.NotNil(t, s)
}
