// ABOUTME: Contract tests run across every default advisor plus spot checks
// ABOUTME: of domain-specific findings derived from request properties.

package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

func consultRequest(domain string, props map[string]string) *advisor.Request {
	ctx := advisor.NewDomainContext(domain)
	for k, v := range props {
		ctx.SetProperty(k, v)
	}
	return &advisor.Request{
		Type:        "consultation",
		Description: "guidance needed for the current work",
		Context:     ctx,
		Security:    &advisor.SecurityContext{Token: "tok", UserID: "dev-1", Roles: []string{"admin"}},
	}
}

func TestDefaultsContract(t *testing.T) {
	agents := Defaults()
	require.Len(t, agents, 14)

	seen := make(map[string]bool)
	for _, a := range agents {
		a := a
		t.Run(a.Domain(), func(t *testing.T) {
			require.NotEmpty(t, a.Domain())
			assert.False(t, seen[a.Domain()], "duplicate domain")
			seen[a.Domain()] = true
			assert.Len(t, a.Capabilities(), 5)

			props := map[string]string{"objective": "improve the checkout flow"}
			if a.Domain() == advisor.DomainStory {
				props = map[string]string{
					"repository": "durion-positivity-backend",
					"title":      "[BACKEND] [STORY] Checkout improvements",
				}
			}
			req := consultRequest(a.Domain(), props)
			if a.Domain() == advisor.DomainStory {
				req.Description = "As a shopper I want a faster checkout so that I finish in one step.\n- WHEN the shopper submits the cart the system shall create an order"
			}

			resp, err := a.Handle(context.Background(), req)
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, advisor.StatusSuccess, resp.Status())
			assert.Equal(t, a.Domain(), resp.Domain())
			assert.NotEmpty(t, resp.Output())
			assert.GreaterOrEqual(t, resp.Confidence(), 0.0)
			assert.LessOrEqual(t, resp.Confidence(), 1.0)
		})
	}
}

func TestRegisterDefaults(t *testing.T) {
	m := advisor.NewManager(nil)
	require.NoError(t, RegisterDefaults(m))
	assert.Len(t, m.List(), 14)
	_, ok := m.Get(advisor.DomainArchitecture)
	assert.True(t, ok)
}

func TestCapabilitiesCopied(t *testing.T) {
	a := NewTestingAgent()
	caps := a.Capabilities()
	caps[0] = "mutated"
	assert.Equal(t, "test-strategy", a.Capabilities()[0])
}

func TestRestrictedAdvisors(t *testing.T) {
	assert.ElementsMatch(t, []string{"security", "admin"}, NewSecurityAgent().RequiredRoles())
	assert.ElementsMatch(t, []string{"operator", "admin"}, NewDeploymentAgent().RequiredRoles())
	assert.Empty(t, NewTestingAgent().RequiredRoles())
}

func TestPrimaryQueryPreference(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]string
		desc  string
		want  string
	}{
		{"objective wins", map[string]string{"objective": "obj", "task": "task", "focus": "focus"}, "desc", "obj"},
		{"task over focus", map[string]string{"task": "task", "focus": "focus"}, "desc", "task"},
		{"focus alone", map[string]string{"focus": "focus"}, "desc", "focus"},
		{"description fallback", nil, "from the description", "from the description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := consultRequest("architecture", tt.props)
			req.Description = tt.desc
			assert.Equal(t, tt.want, primaryQuery(req))
		})
	}

	t.Run("general fallback names the domain", func(t *testing.T) {
		req := consultRequest("architecture", nil)
		req.Description = "   "
		assert.Equal(t, "general request for architecture", primaryQuery(req))
	})
}

func TestCICDAgentFlagsUngatedStages(t *testing.T) {
	a := NewCICDAgent()
	resp, err := a.Handle(context.Background(), consultRequest(advisor.DomainCICD, map[string]string{
		"objective": "tighten the release pipeline",
		"stages":    "build, test, deploy",
		"gates":     "build=lint, test=coverage",
	}))
	require.NoError(t, err)
	require.True(t, resp.IsSuccess())
	assert.Contains(t, resp.Recommendations(), "add quality gates to: deploy")
}

func TestSecurityAgentFlagsOpenThreats(t *testing.T) {
	a := NewSecurityAgent()
	resp, err := a.Handle(context.Background(), consultRequest(advisor.DomainSecurity, map[string]string{
		"objective":   "harden the payment path",
		"threats":     "sql-injection=high, csrf=medium",
		"mitigations": "sql-injection=parameterized queries",
		"risk_level":  "high",
	}))
	require.NoError(t, err)
	require.True(t, resp.IsSuccess())
	open, ok := resp.Metadata()["open_threats"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"csrf"}, open)
}

func TestEventDrivenAgentFlagsUnversionedTopics(t *testing.T) {
	a := NewEventDrivenAgent()
	resp, err := a.Handle(context.Background(), consultRequest(advisor.DomainEventDriven, map[string]string{
		"objective": "design order events",
		"topics":    "orders, payments",
		"schemas":   "orders=v2",
	}))
	require.NoError(t, err)
	require.True(t, resp.IsSuccess())
	assert.Contains(t, resp.Recommendations(), "declare schemas for topics: payments")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a, b ,c "))
	assert.Nil(t, splitList("   "))
	assert.Equal(t, []string{"solo"}, splitList("solo,,"))
}
