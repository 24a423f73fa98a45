// ABOUTME: Agent interface and domain keys for the advisor registry.
// ABOUTME: Every concrete advisor implements this uniform contract.

package advisor

import (
	"context"
)

// Routing domains. The Context.Domain field carries one of these keys and
// the Manager selects the advisor registered under it.
const (
	DomainArchitecture   = "architecture"
	DomainTesting        = "testing"
	DomainObservability  = "observability"
	DomainCICD           = "cicd"
	DomainConfiguration  = "configuration"
	DomainResilience     = "resilience"
	DomainEventDriven    = "event-driven"
	DomainSecurity       = "security"
	DomainDocumentation  = "documentation"
	DomainImplementation = "implementation"
	DomainDeployment     = "deployment"
	DomainIntegration    = "integration"
	DomainPairNavigator  = "pair-navigator"
	DomainStory          = "story"
)

// Agent is a domain advisor behind the uniform consultation contract.
// Handle receives a request whose shape has already been validated by the
// Manager; implementations add domain logic only.
type Agent interface {
	// Domain returns the routing key this advisor serves.
	Domain() string

	// Capabilities lists the topics this advisor covers.
	Capabilities() []string

	// RequiredRoles lists roles a caller must hold to consult this advisor.
	// Empty means any authenticated caller.
	RequiredRoles() []string

	// Handle processes a validated request and produces a response.
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// Info is the public description of a registered advisor.
type Info struct {
	Domain        string
	Capabilities  []string
	RequiredRoles []string
}
