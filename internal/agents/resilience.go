// ABOUTME: Resilience advisor covering fault tolerance and recovery posture.
// ABOUTME: Matches declared patterns against declared failure scenarios.

package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// ResilienceAgent advises on fault tolerance, retries, and recovery drills.
type ResilienceAgent struct {
	baseAgent
}

// NewResilienceAgent builds the resilience advisor.
func NewResilienceAgent() *ResilienceAgent {
	return &ResilienceAgent{baseAgent{
		domain: advisor.DomainResilience,
		capabilities: []string{
			"fault-tolerance",
			"circuit-breakers",
			"retry-strategies",
			"disaster-recovery",
			"chaos-engineering",
		},
	}}
}

func (a *ResilienceAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	rc := advisor.NewResilienceContext(advisor.ResilienceParams{
		Patterns:         listProperty(req, "patterns"),
		FailureScenarios: listProperty(req, "failure_scenarios"),
		CircuitThreshold: req.Context.PropertyOr("circuit_threshold", ""),
	})

	recs := []string{
		"bound every retry with a budget and jittered backoff",
		"set timeouts shorter than the caller's own deadline",
	}
	if len(rc.FailureScenarios()) > 0 && len(rc.Patterns()) == 0 {
		recs = append(recs, fmt.Sprintf("no mitigation patterns declared for scenarios: %s",
			strings.Join(rc.FailureScenarios(), ", ")))
	}
	if rc.CircuitThreshold() == "" {
		recs = append(recs, "pick a circuit breaker threshold from observed error rates, not a guess")
	}

	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Resilience recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
		Metadata: map[string]any{
			"patterns":  rc.Patterns(),
			"scenarios": rc.FailureScenarios(),
		},
	}), nil
}
