// ABOUTME: Shared advisor plumbing and the default registry set.
// ABOUTME: Concrete advisors embed baseAgent and add domain logic on top.

package agents

import (
	"strings"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// baseAgent carries the static identity every advisor shares. Concrete
// advisors embed it and implement Handle.
type baseAgent struct {
	domain        string
	capabilities  []string
	requiredRoles []string
}

func (b baseAgent) Domain() string { return b.domain }

func (b baseAgent) Capabilities() []string {
	out := make([]string, len(b.capabilities))
	copy(out, b.capabilities)
	return out
}

func (b baseAgent) RequiredRoles() []string {
	if len(b.requiredRoles) == 0 {
		return nil
	}
	out := make([]string, len(b.requiredRoles))
	copy(out, b.requiredRoles)
	return out
}

// primaryQuery picks the subject of a consultation from the context
// properties, preferring objective over task over focus. When none is set it
// falls back to "general request" and tags the domain so the guidance still
// names what it is about.
func primaryQuery(req *advisor.Request) string {
	for _, key := range []string{"objective", "task", "focus"} {
		if v, ok := req.Context.Property(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if strings.TrimSpace(req.Description) != "" {
		return strings.TrimSpace(req.Description)
	}
	return "general request for " + req.Context.Domain()
}

// splitList parses a comma separated property value into trimmed items.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// listProperty reads a comma separated list property from the request context.
func listProperty(req *advisor.Request, key string) []string {
	v, ok := req.Context.Property(key)
	if !ok {
		return nil
	}
	return splitList(v)
}

// Defaults returns the full advisor set in registration order.
func Defaults() []advisor.Agent {
	return []advisor.Agent{
		NewArchitectureAgent(),
		NewTestingAgent(),
		NewObservabilityAgent(),
		NewCICDAgent(),
		NewConfigurationAgent(),
		NewResilienceAgent(),
		NewEventDrivenAgent(),
		NewSecurityAgent(),
		NewDocumentationAgent(),
		NewImplementationAgent(),
		NewDeploymentAgent(),
		NewIntegrationAgent(),
		NewPairNavigatorAgent(),
		NewStoryAgent(),
	}
}

// RegisterDefaults registers every default advisor with the manager.
func RegisterDefaults(m *advisor.Manager) error {
	for _, a := range Defaults() {
		if err := m.Register(a); err != nil {
			return err
		}
	}
	return nil
}
