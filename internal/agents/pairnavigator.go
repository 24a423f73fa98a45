// ABOUTME: Pair navigator advisor giving in-the-moment collaboration feedback.
// ABOUTME: Tracks repeated attempts on the same problem and says when to step back.

package agents

import (
	"context"
	"fmt"
	"strconv"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// maxAttemptsBeforePause is how many tries at the same problem the navigator
// tolerates before advising the pair to stop and rethink.
const maxAttemptsBeforePause = 3

// PairNavigatorAgent plays the navigator seat: reviews direction, spots
// circling, and prompts knowledge sharing.
type PairNavigatorAgent struct {
	baseAgent
}

// NewPairNavigatorAgent builds the pair navigator advisor.
func NewPairNavigatorAgent() *PairNavigatorAgent {
	return &PairNavigatorAgent{baseAgent{
		domain: advisor.DomainPairNavigator,
		capabilities: []string{
			"pair-programming",
			"code-review",
			"collaborative-development",
			"knowledge-sharing",
			"code-quality-feedback",
		},
	}}
}

func (a *PairNavigatorAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	attempts, _ := strconv.Atoi(req.Context.PropertyOr("attempts", "0"))
	if attempts >= maxAttemptsBeforePause {
		return advisor.Stopped(a.domain, fmt.Sprintf(
			"STOP: %d attempts at the same problem; step away, write down what you know, and re-approach",
			attempts)), nil
	}

	recs := []string{
		"say the plan out loud before the driver types it",
		"swap seats on every test cycle",
		"capture open questions in the moment instead of holding them in your head",
	}
	if attempts > 0 {
		recs = append(recs, fmt.Sprintf("attempt %d on this problem; state what changed since the last try", attempts))
	}
	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Navigator feedback: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
		Metadata:        map[string]any{"attempts": attempts},
	}), nil
}
