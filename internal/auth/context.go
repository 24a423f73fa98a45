// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithAuth/FromContext for propagating auth info via context

package auth

import (
	"context"
)

// AuthContext holds the authenticated identity information extracted from a request.
// This is populated by the auth middleware and can be retrieved from context in handlers.
type AuthContext struct {
	UserID      string   // subject of the verified token
	Roles       []string // roles assigned to this identity
	Permissions []string // fine-grained permissions assigned to this identity
	ServiceID   string   // calling service identifier, if a service credential
	ServiceType string   // calling service type, if a service credential
}

// IsAdmin returns true if the identity has admin or owner role.
func (a *AuthContext) IsAdmin() bool {
	return a.HasRole("admin") || a.HasRole("owner")
}

// HasRole returns true if the identity carries the given role.
func (a *AuthContext) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission returns true if the identity carries the given permission.
func (a *AuthContext) HasPermission(perm string) bool {
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// authContextKey is the key type for storing AuthContext in context.Context.
type authContextKey struct{}

// WithAuth returns a new context with the AuthContext attached.
func WithAuth(ctx context.Context, auth *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// FromContext retrieves the AuthContext from the context, returning nil if not present.
func FromContext(ctx context.Context) *AuthContext {
	val := ctx.Value(authContextKey{})
	if val == nil {
		return nil
	}
	auth, ok := val.(*AuthContext)
	if !ok {
		return nil
	}
	return auth
}

// MustFromContext retrieves the AuthContext from the context, panicking if not present.
func MustFromContext(ctx context.Context) *AuthContext {
	auth := FromContext(ctx)
	if auth == nil {
		panic("auth: AuthContext not found in context")
	}
	return auth
}
