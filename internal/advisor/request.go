// ABOUTME: Request envelope and security context for advisor consultations.
// ABOUTME: Carries description, priority, routing context, and credentials.

package advisor

import (
	"errors"
	"fmt"
	"strings"
)

// Priority indicates how urgent a consultation is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ErrInvalidRequest indicates a request failed shape validation.
var ErrInvalidRequest = errors.New("invalid request")

// SecurityContext bundles the credentials and identity attached to a request.
// Token presence gates acceptance; when the Manager has a verifier configured
// the token must also verify, and the identity fields are filled from its
// claims when left blank.
type SecurityContext struct {
	Token       string
	UserID      string
	Roles       []string
	Permissions []string
	ServiceID   string
	ServiceType string
}

// Clone returns a deep copy of the security context.
func (s *SecurityContext) Clone() *SecurityContext {
	if s == nil {
		return nil
	}
	out := &SecurityContext{
		Token:       s.Token,
		UserID:      s.UserID,
		ServiceID:   s.ServiceID,
		ServiceType: s.ServiceType,
	}
	if len(s.Roles) > 0 {
		out.Roles = make([]string, len(s.Roles))
		copy(out.Roles, s.Roles)
	}
	if len(s.Permissions) > 0 {
		out.Permissions = make([]string, len(s.Permissions))
		copy(out.Permissions, s.Permissions)
	}
	return out
}

// HasRole returns true if the context carries the given role.
func (s *SecurityContext) HasRole(role string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Request is the envelope handed to the Manager for consultation.
type Request struct {
	ID          string
	Type        string
	Description string
	Priority    Priority
	Context     *Context
	Security    *SecurityContext
	RequireTLS  bool
}

// ValidateRequest checks the request shape shared by all advisors:
// the request, its description, and its context must be present, and the
// type must not be marked invalid. The Manager applies this before
// delegating; agents may add their own checks on top.
func ValidateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidRequest)
	}
	if req.Context == nil {
		return fmt.Errorf("%w: context is required", ErrInvalidRequest)
	}
	if req.Type == "" || strings.Contains(req.Type, "invalid") {
		return fmt.Errorf("%w: invalid type", ErrInvalidRequest)
	}
	return nil
}
