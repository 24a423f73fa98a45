// ABOUTME: Deployment advisor covering rollout strategies and rollback drills.
// ABOUTME: Restricted to operator and admin roles.

package agents

import (
	"context"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// DeploymentAgent advises on rollout strategy. Guidance here changes what
// runs in production, so consultation requires an operator role.
type DeploymentAgent struct {
	baseAgent
}

// NewDeploymentAgent builds the deployment advisor.
func NewDeploymentAgent() *DeploymentAgent {
	return &DeploymentAgent{baseAgent{
		domain: advisor.DomainDeployment,
		capabilities: []string{
			"deployment-strategy",
			"rollback-procedures",
			"blue-green-deployment",
			"canary-releases",
			"infrastructure-automation",
		},
		requiredRoles: []string{"operator", "admin"},
	}}
}

func (a *DeploymentAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	recs := []string{
		"rehearse the rollback before you need it",
		"canary with real traffic and an automatic abort condition",
		"automate the path to production end to end; manual steps rot",
	}
	switch req.Context.PropertyOr("strategy", "") {
	case "blue-green":
		recs = append(recs, "keep both environments identical down to config; drift defeats the switch")
	case "canary":
		recs = append(recs, "define the canary success metric before the first rollout")
	}
	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Deployment recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
	}), nil
}
