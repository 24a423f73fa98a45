// Package auth provides authentication for advisor-gateway.
//
// # Authentication
//
// API clients and services authenticate with JWT tokens signed with HS256
// using the configured jwt_secret. Tokens carry the subject plus optional
// roles, permissions, service_id and service_type claims.
//
// # Identity Propagation
//
// The HTTP middleware verifies the bearer token and attaches an AuthContext
// to the request context:
//
//	handler = auth.HTTPAuthMiddleware(verifier)(handler)
//
// Handlers read it back with FromContext:
//
//	authCtx := auth.FromContext(r.Context())
//
// # Token Management
//
//	verifier := auth.NewJWTVerifier(secret)
//	token, err := verifier.Generate(&auth.Claims{Subject: "user-1"}, ttl)
//	claims, err := verifier.Verify(token)
package auth
