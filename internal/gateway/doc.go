/*
Package gateway assembles the consultation service: it builds the store,
the token verifier, and the advisor manager from config, registers the
default advisor set, and serves the HTTP API.

# Endpoints

	GET  /health             liveness, always unauthenticated
	GET  /health/ready       readiness, 503 until advisors are registered
	POST /api/consult        run a consultation, returns the response envelope
	GET  /api/agents         list registered advisors
	GET  /api/consultations  consultation history, admin role required
	GET  /api/audit          audit trail, admin role required

When a JWT secret is configured every /api route runs behind bearer token
verification and the verified identity feeds the consultation's security
context. Without a secret the routes are open and the manager gates on
token presence alone.

The console page, when enabled, mounts at /console behind the same admin
gate as the history endpoints.

Consultation outcomes are always HTTP 200 with the status carried inside
the response envelope; only transport problems (bad JSON, missing fields,
store failures) and retry conflicts (a request id already dispatched for
the caller, or a session consulted under a different domain) map to HTTP
error codes.
*/
package gateway
