// ABOUTME: Testing advisor covering strategy, automation, and TDD/BDD flow.
// ABOUTME: Builds a TestingContext view from the request properties.

package agents

import (
	"context"
	"fmt"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// TestingAgent advises on test strategy across the pyramid.
type TestingAgent struct {
	baseAgent
}

// NewTestingAgent builds the testing advisor.
func NewTestingAgent() *TestingAgent {
	return &TestingAgent{baseAgent{
		domain: advisor.DomainTesting,
		capabilities: []string{
			"test-strategy",
			"unit-testing",
			"integration-testing",
			"test-automation",
			"tdd-bdd",
		},
	}}
}

func (a *TestingAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	tc := advisor.NewTestingContext(advisor.TestingParams{
		Levels:     listProperty(req, "levels"),
		Frameworks: listProperty(req, "frameworks"),
	})

	recs := []string{
		"keep the bulk of coverage in fast unit tests",
		"pin integration tests to contract boundaries, not internals",
		"run the full suite in the pipeline on every change",
	}
	if len(tc.Levels()) == 0 {
		recs = append(recs, "start by naming the test levels you run today; the gaps fall out of that list")
	}
	for _, fw := range tc.Frameworks() {
		recs = append(recs, fmt.Sprintf("standardize fixtures and assertions within %s rather than mixing styles", fw))
	}

	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Testing pattern recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
		Metadata: map[string]any{
			"levels":     tc.Levels(),
			"frameworks": tc.Frameworks(),
		},
	}), nil
}
