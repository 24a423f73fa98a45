// ABOUTME: Observability advisor covering the three signals and alerting.
// ABOUTME: Flags missing signal coverage from the request properties.

package agents

import (
	"context"
	"fmt"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// ObservabilityAgent advises on monitoring, logging, tracing, and alerting.
type ObservabilityAgent struct {
	baseAgent
}

// NewObservabilityAgent builds the observability advisor.
func NewObservabilityAgent() *ObservabilityAgent {
	return &ObservabilityAgent{baseAgent{
		domain: advisor.DomainObservability,
		capabilities: []string{
			"monitoring",
			"logging",
			"tracing",
			"metrics",
			"alerting",
		},
	}}
}

func (a *ObservabilityAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	oc := advisor.NewObservabilityContext(advisor.ObservabilityParams{
		Signals:    listProperty(req, "signals"),
		Dashboards: listProperty(req, "dashboards"),
	})

	recs := []string{
		"emit structured logs with a stable event vocabulary",
		"alert on symptoms users feel, not on every internal metric",
	}
	have := make(map[string]bool)
	for _, s := range oc.Signals() {
		have[s] = true
	}
	for _, want := range []string{"logs", "metrics", "traces"} {
		if !have[want] {
			recs = append(recs, fmt.Sprintf("close the %s gap before adding more dashboards", want))
		}
	}

	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Observability recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
		Metadata: map[string]any{
			"signals":    oc.Signals(),
			"dashboards": oc.Dashboards(),
		},
	}), nil
}
