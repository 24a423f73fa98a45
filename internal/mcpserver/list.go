// ABOUTME: The list_advisors MCP tool describing the registered domains.

package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// ListTool handles the list_advisors MCP tool.
type ListTool struct {
	manager *advisor.Manager
}

// NewListTool creates a ListTool.
func NewListTool(m *advisor.Manager) *ListTool {
	return &ListTool{manager: m}
}

// Definition returns the MCP tool definition for list_advisors.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("list_advisors",
		mcp.WithDescription(
			"List the available advisor domains with their capabilities and role requirements.",
		),
	)
}

// Handle processes the list_advisors tool call.
func (t *ListTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := t.manager.List()
	if len(infos) == 0 {
		return mcp.NewToolResultText("No advisors registered."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d advisors available:\n\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(&b, "- %s: %s", info.Domain, strings.Join(info.Capabilities, ", "))
		if len(info.RequiredRoles) > 0 {
			fmt.Fprintf(&b, " (requires role: %s)", strings.Join(info.RequiredRoles, " or "))
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
