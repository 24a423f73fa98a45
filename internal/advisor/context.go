// ABOUTME: Base consultation context carrying routing domain and session state.
// ABOUTME: Constructed via params struct with defaults and defensive copies.

package advisor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Context carries the routing and session information for a consultation.
// The Domain field is the routing key the Manager uses to select an advisor.
// Property access goes through copying accessors so a context handed to an
// agent cannot be mutated out from under the session that owns it. Session
// contexts are shared across requests, so the mutable state (properties and
// the update timestamp) is guarded by a mutex.
type Context struct {
	id          string
	sessionID   string
	createdAt   time.Time
	contextType string
	domain      string

	mu          sync.RWMutex
	lastUpdated time.Time
	properties  map[string]string
}

// ContextParams carries the inputs for building a Context.
// Zero-value fields get defaults: generated UUIDs for ID and SessionID,
// the current time for CreatedAt.
type ContextParams struct {
	ID         string
	SessionID  string
	Type       string
	Domain     string
	Properties map[string]string
	CreatedAt  time.Time
}

// NewContext builds a Context from params, applying defaults and copying
// the properties map.
func NewContext(p ContextParams) *Context {
	c := &Context{
		id:          p.ID,
		sessionID:   p.SessionID,
		createdAt:   p.CreatedAt,
		contextType: p.Type,
		domain:      p.Domain,
		properties:  make(map[string]string, len(p.Properties)),
	}
	if c.id == "" {
		c.id = uuid.New().String()
	}
	if c.sessionID == "" {
		c.sessionID = uuid.New().String()
	}
	if c.createdAt.IsZero() {
		c.createdAt = time.Now().UTC()
	}
	c.lastUpdated = c.createdAt
	for k, v := range p.Properties {
		c.properties[k] = v
	}
	return c
}

// NewDomainContext builds a plain routing context for the given domain.
func NewDomainContext(domain string) *Context {
	return NewContext(ContextParams{Domain: domain, Type: domain})
}

// ID returns the context identifier.
func (c *Context) ID() string { return c.id }

// SessionID returns the session this context belongs to.
func (c *Context) SessionID() string { return c.sessionID }

// CreatedAt returns when the context was created.
func (c *Context) CreatedAt() time.Time { return c.createdAt }

// LastUpdated returns when the context was last modified.
func (c *Context) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}

// Type returns the context type tag.
func (c *Context) Type() string { return c.contextType }

// Domain returns the routing domain.
func (c *Context) Domain() string { return c.domain }

// Property returns the value for key, and whether it was present.
func (c *Context) Property(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.properties[key]
	return v, ok
}

// PropertyOr returns the value for key, or fallback when absent or empty.
func (c *Context) PropertyOr(key, fallback string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.properties[key]; ok && v != "" {
		return v
	}
	return fallback
}

// SetProperty stores a property value and touches the update timestamp.
func (c *Context) SetProperty(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.properties[key] = value
	c.lastUpdated = time.Now().UTC()
}

// touch advances the update timestamp.
func (c *Context) touch() {
	c.mu.Lock()
	c.lastUpdated = time.Now().UTC()
	c.mu.Unlock()
}

// Properties returns a copy of the property map.
func (c *Context) Properties() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.properties))
	for k, v := range c.properties {
		out[k] = v
	}
	return out
}

