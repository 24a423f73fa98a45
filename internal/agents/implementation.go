// ABOUTME: Implementation advisor covering code quality and refactoring.

package agents

import (
	"context"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// ImplementationAgent advises on day-to-day coding decisions.
type ImplementationAgent struct {
	baseAgent
}

// NewImplementationAgent builds the implementation advisor.
func NewImplementationAgent() *ImplementationAgent {
	return &ImplementationAgent{baseAgent{
		domain: advisor.DomainImplementation,
		capabilities: []string{
			"code-implementation",
			"best-practices",
			"refactoring",
			"code-quality",
			"design-patterns",
		},
	}}
}

func (a *ImplementationAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	recs := []string{
		"make the change easy, then make the easy change",
		"refactor under green tests only",
		"reach for a pattern when the problem demands it, not before",
	}
	if lang, ok := req.Context.Property("language"); ok {
		recs = append(recs, "follow the idioms of "+lang+" over habits carried from other languages")
	}
	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Implementation recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
	}), nil
}
