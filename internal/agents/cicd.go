// ABOUTME: CI/CD advisor covering pipeline design and quality gates.
// ABOUTME: Surfaces ungated stages from a CICDContext built off the request.

package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// CICDAgent advises on pipeline shape, gating, and artifact flow.
type CICDAgent struct {
	baseAgent
}

// NewCICDAgent builds the CI/CD advisor.
func NewCICDAgent() *CICDAgent {
	return &CICDAgent{baseAgent{
		domain: advisor.DomainCICD,
		capabilities: []string{
			"pipeline-design",
			"automated-testing",
			"deployment-automation",
			"security-scanning",
			"artifact-management",
		},
	}}
}

func (a *CICDAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	cc := advisor.NewCICDContext(advisor.CICDParams{
		Stages:       listProperty(req, "stages"),
		Tools:        listProperty(req, "tools"),
		Environments: listProperty(req, "environments"),
	})
	// gates come in as "stage=gate" pairs
	for _, pair := range listProperty(req, "gates") {
		if stage, gate, ok := strings.Cut(pair, "="); ok {
			cc.SetQualityGate(strings.TrimSpace(stage), strings.TrimSpace(gate))
		}
	}

	recs := []string{
		"build the artifact once and promote the same bytes through every environment",
		"fail the pipeline on security scan findings, not just on test failures",
	}
	if ungated := cc.UngatedStages(); len(ungated) > 0 {
		recs = append(recs, fmt.Sprintf("add quality gates to: %s", strings.Join(ungated, ", ")))
	}

	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "CI/CD recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
		Metadata: map[string]any{
			"stages":       cc.Stages(),
			"environments": cc.Environments(),
		},
	}), nil
}
