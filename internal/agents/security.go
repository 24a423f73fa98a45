// ABOUTME: Security advisor covering vulnerability assessment and access control.
// ABOUTME: Requires an elevated role and flags unmitigated threats.

package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// SecurityAgent advises on security posture. Consultation is restricted to
// callers holding a security-capable role.
type SecurityAgent struct {
	baseAgent
}

// NewSecurityAgent builds the security advisor.
func NewSecurityAgent() *SecurityAgent {
	return &SecurityAgent{baseAgent{
		domain: advisor.DomainSecurity,
		capabilities: []string{
			"security-analysis",
			"vulnerability-assessment",
			"authentication",
			"authorization",
			"encryption",
		},
		requiredRoles: []string{"security", "admin"},
	}}
}

func (a *SecurityAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	sc := advisor.NewSecurityPostureContext(advisor.SecurityPostureParams{
		Controls:              listProperty(req, "controls"),
		AuthenticationMethods: listProperty(req, "auth_methods"),
		ComplianceNeeds:       listProperty(req, "compliance"),
		RiskLevel:             req.Context.PropertyOr("risk_level", "unassessed"),
	})
	for _, pair := range listProperty(req, "threats") {
		threat, risk, _ := strings.Cut(pair, "=")
		sc.AddThreat(strings.TrimSpace(threat), strings.TrimSpace(risk))
	}
	for _, pair := range listProperty(req, "mitigations") {
		if threat, detail, ok := strings.Cut(pair, "="); ok {
			sc.AddMitigation(strings.TrimSpace(threat), strings.TrimSpace(detail))
		}
	}

	recs := []string{
		"authenticate at the edge, authorize at every service",
		"encrypt in transit everywhere; encrypt at rest for anything identifying a person",
	}
	if open := sc.UnmitigatedThreats(); len(open) > 0 {
		recs = append(recs, fmt.Sprintf("mitigate open threats: %s", strings.Join(open, ", ")))
	}
	if sc.RiskLevel() == "unassessed" {
		recs = append(recs, "run a threat model session; an unassessed risk level blocks prioritization")
	}

	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Security recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
		Metadata: map[string]any{
			"risk_level":   sc.RiskLevel(),
			"open_threats": sc.UnmitigatedThreats(),
		},
	}), nil
}
