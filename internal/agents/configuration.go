// ABOUTME: Configuration advisor covering externalization and secrets policy.
// ABOUTME: Reads config sources and profiles from the request properties.

package agents

import (
	"context"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// ConfigurationAgent advises on config management and secrets handling.
type ConfigurationAgent struct {
	baseAgent
}

// NewConfigurationAgent builds the configuration advisor.
func NewConfigurationAgent() *ConfigurationAgent {
	return &ConfigurationAgent{baseAgent{
		domain: advisor.DomainConfiguration,
		capabilities: []string{
			"config-externalization",
			"secrets-management",
			"environment-configuration",
			"config-validation",
			"feature-flags",
		},
	}}
}

func (a *ConfigurationAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	cc := advisor.NewConfigurationContext(advisor.ConfigurationParams{
		Sources:       listProperty(req, "sources"),
		Profiles:      listProperty(req, "profiles"),
		SecretsPolicy: req.Context.PropertyOr("secrets_policy", ""),
	})

	recs := []string{
		"keep configuration out of the artifact; inject per environment",
		"validate configuration at startup and fail fast on bad values",
		"flag-gate risky behavior changes so rollback is a toggle, not a deploy",
	}
	if cc.SecretsPolicy() == "" {
		recs = append(recs, "define a secrets policy: where secrets live, who reads them, how they rotate")
	}

	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Configuration recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
		Metadata: map[string]any{
			"sources":  cc.Sources(),
			"profiles": cc.Profiles(),
		},
	}), nil
}
