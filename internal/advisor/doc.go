// Package advisor implements the consultation contract and dispatch core.
//
// # Overview
//
// A consultation is a Request carrying a description, a routing Context, and
// a SecurityContext with a bearer token. The Manager validates credentials,
// selects the Agent registered under the context's domain, checks role
// requirements, and delegates. Every path produces a Response with a status,
// and every auth failure, routing failure, and processed request lands in the
// audit trail.
//
// # Manager
//
//	mgr := advisor.NewManager(logger,
//	    advisor.WithVerifier(verifier),
//	    advisor.WithFallback(agents.NewArchitectureAgent()),
//	    advisor.WithRecorder(st),
//	)
//	mgr.Register(agents.NewTestingAgent())
//
//	resp := mgr.Consult(ctx, &advisor.Request{
//	    Type:        "consultation",
//	    Description: "how should we test the order pipeline",
//	    Context:     advisor.NewDomainContext(advisor.DomainTesting),
//	    Security:    &advisor.SecurityContext{Token: token},
//	})
//
// # Response Contract
//
// Consult never returns nil and never returns a response without a status.
// Failures (authentication, authorization, routing, validation, agent
// errors, agent panics) come back as StatusFailure responses with
// confidence zero.
//
// # Context Model
//
// Context is the base routing/session object; the domain-specific contexts
// (SecurityPostureContext, CICDContext, ResilienceContext, ...) layer
// structured knowledge on top of it. All collection accessors return copies.
//
// # Sessions
//
// Session contexts are tracked per session id and expire after the
// configured TTL (default 30 minutes). Access refreshes the clock.
package advisor
