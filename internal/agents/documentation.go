// ABOUTME: Documentation advisor covering API docs and technical writing.

package agents

import (
	"context"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// DocumentationAgent advises on documentation strategy and generation.
type DocumentationAgent struct {
	baseAgent
}

// NewDocumentationAgent builds the documentation advisor.
func NewDocumentationAgent() *DocumentationAgent {
	return &DocumentationAgent{baseAgent{
		domain: advisor.DomainDocumentation,
		capabilities: []string{
			"api-documentation",
			"code-documentation",
			"user-guides",
			"technical-writing",
			"documentation-generation",
		},
	}}
}

func (a *DocumentationAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	recs := []string{
		"generate API reference from the source of truth; never hand-maintain it",
		"write guides around tasks the reader wants done, not around your module layout",
		"treat stale documentation as a bug with an owner",
	}
	if audience, ok := req.Context.Property("audience"); ok {
		recs = append(recs, "calibrate depth and vocabulary to the "+audience+" audience")
	}
	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Documentation recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
	}), nil
}
