// ABOUTME: MCP server exposing the advisor registry as tools over stdio.
// ABOUTME: Wires consult_advisor and list_advisors against the manager.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with the advisor tools registered. The manager
// carries the registry, auth gating, and persistence; this layer only
// translates tool calls.
func New(m *advisor.Manager, serviceToken string) *server.MCPServer {
	s := server.NewMCPServer(
		"advisor-gateway",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	consultTool := NewConsultTool(m, serviceToken)
	s.AddTool(consultTool.Definition(), consultTool.Handle)

	listTool := NewListTool(m)
	s.AddTool(listTool.Definition(), listTool.Handle)

	return s
}

// ServeStdio runs the server on stdin/stdout until the stream closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func serverInstructions() string {
	return "Consult domain advisors for engineering guidance. " +
		"Call list_advisors to see the available domains and their capabilities, " +
		"then consult_advisor with a domain and a description of what you need. " +
		"Responses carry a status, guidance text, recommendations, and a confidence score."
}
