// ABOUTME: The consult_advisor MCP tool translating tool calls into
// ABOUTME: manager consultations and formatting responses as markdown.

package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// ConsultTool handles the consult_advisor MCP tool.
type ConsultTool struct {
	manager *advisor.Manager
	// token authenticates MCP-originated consultations with the manager.
	token string
}

// NewConsultTool creates a ConsultTool. The token is attached to every
// consultation as the caller credential.
func NewConsultTool(m *advisor.Manager, token string) *ConsultTool {
	return &ConsultTool{manager: m, token: token}
}

// Definition returns the MCP tool definition for consult_advisor.
func (t *ConsultTool) Definition() mcp.Tool {
	return mcp.NewTool("consult_advisor",
		mcp.WithDescription(
			"Consult a domain advisor for engineering guidance. Returns structured "+
				"guidance with recommendations and a confidence score.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Advisor domain, e.g. architecture, testing, security, story"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What you need guidance on"),
		),
		mcp.WithString("session_id",
			mcp.Description("Optional session key; consultations in a session share context"),
		),
		mcp.WithString("properties",
			mcp.Description("Optional key=value pairs separated by semicolons, e.g. 'stages=build,deploy;gates=build=lint'"),
		),
	)
}

// Handle processes the consult_advisor tool call.
func (t *ConsultTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain := req.GetString("domain", "")
	if domain == "" {
		return mcp.NewToolResultError("'domain' is required"), nil
	}
	description := req.GetString("description", "")
	if description == "" {
		return mcp.NewToolResultError("'description' is required"), nil
	}

	var reqCtx *advisor.Context
	if sessionID := req.GetString("session_id", ""); sessionID != "" {
		reqCtx = t.manager.GetOrCreateSession(sessionID, domain)
		if reqCtx.Domain() != domain {
			return mcp.NewToolResultError(fmt.Sprintf(
				"session %s is bound to domain %s", sessionID, reqCtx.Domain())), nil
		}
	} else {
		reqCtx = advisor.NewDomainContext(domain)
	}
	for k, v := range parseProperties(req.GetString("properties", "")) {
		reqCtx.SetProperty(k, v)
	}

	resp := t.manager.Consult(ctx, &advisor.Request{
		Type:        "consultation",
		Description: description,
		Context:     reqCtx,
		Security:    &advisor.SecurityContext{Token: t.token, ServiceType: "mcp"},
	})

	if resp.Status() == advisor.StatusFailure {
		return mcp.NewToolResultError(resp.Output()), nil
	}
	return mcp.NewToolResultText(formatResponse(resp)), nil
}

// parseProperties splits "k=v;k2=v2" into a map. Values may contain '='.
func parseProperties(raw string) map[string]string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	props := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		if k, v, ok := strings.Cut(strings.TrimSpace(pair), "="); ok && k != "" {
			props[k] = v
		}
	}
	return props
}

// formatResponse lays out a consultation response as markdown.
func formatResponse(resp *advisor.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s advisor (%s)\n\n", resp.Domain(), resp.Status())
	b.WriteString(resp.Output())
	b.WriteString("\n")
	if recs := resp.Recommendations(); len(recs) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, r := range recs {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	fmt.Fprintf(&b, "\nConfidence: %.2f\n", resp.Confidence())
	return b.String()
}
