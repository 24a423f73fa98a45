// ABOUTME: Architecture advisor covering system design and pattern selection.
// ABOUTME: Produces layered guidance from the stated objective.

package agents

import (
	"context"
	"fmt"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// ArchitectureAgent advises on system structure: decomposition, pattern
// selection, and technology stack fit.
type ArchitectureAgent struct {
	baseAgent
}

// NewArchitectureAgent builds the architecture advisor.
func NewArchitectureAgent() *ArchitectureAgent {
	return &ArchitectureAgent{baseAgent{
		domain: advisor.DomainArchitecture,
		capabilities: []string{
			"system-design",
			"pattern-selection",
			"technology-stack",
			"architectural-review",
			"scalability-design",
		},
	}}
}

func (a *ArchitectureAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	query := primaryQuery(req)
	recs := []string{
		"map the bounded contexts before choosing a decomposition",
		"prefer the simplest pattern that satisfies the quality attributes",
		"record the decision and its trade-offs in an ADR",
	}
	if style, ok := req.Context.Property("style"); ok {
		recs = append(recs, fmt.Sprintf("validate the %s style against the expected load profile", style))
	}
	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Architecture recommendation: " + query,
		Confidence:      0.8,
		Recommendations: recs,
		Metadata:        map[string]any{"capabilities": a.Capabilities()},
	}), nil
}
