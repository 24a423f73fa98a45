// ABOUTME: Integration advisor covering service boundaries and data mapping.

package agents

import (
	"context"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// IntegrationAgent advises on wiring systems together.
type IntegrationAgent struct {
	baseAgent
}

// NewIntegrationAgent builds the integration advisor.
func NewIntegrationAgent() *IntegrationAgent {
	return &IntegrationAgent{baseAgent{
		domain: advisor.DomainIntegration,
		capabilities: []string{
			"api-integration",
			"service-integration",
			"data-mapping",
			"integration-patterns",
			"gateway-design",
		},
	}}
}

func (a *IntegrationAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	recs := []string{
		"own an anti-corruption layer at every third-party boundary",
		"map data at the edge; keep foreign shapes out of the core model",
		"version integration contracts and test against recorded fixtures",
	}
	if upstream, ok := req.Context.Property("upstream"); ok {
		recs = append(recs, "isolate "+upstream+" behind an interface you control")
	}
	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Integration recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
	}), nil
}
