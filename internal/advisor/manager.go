// ABOUTME: Manages registered advisors, validates credentials, and routes requests.
// ABOUTME: Central dispatcher mapping Request -> Agent -> Response with auditing.

package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/positivity/advisor-gateway/internal/auth"
	"github.com/positivity/advisor-gateway/internal/store"
)

// ErrAgentAlreadyRegistered indicates an advisor for the same domain is already registered.
var ErrAgentAlreadyRegistered = errors.New("agent already registered")

// ErrAgentNotFound indicates no advisor is registered for the domain.
var ErrAgentNotFound = errors.New("agent not found")

// ErrMissingCredentials indicates a request arrived without a token.
var ErrMissingCredentials = errors.New("missing credentials")

// anonymousUser is the audit attribution for requests with no resolvable identity.
const anonymousUser = "anonymous"

// Recorder persists the consultation history and audit trail.
// *store.SQLiteStore and *store.MockStore both satisfy it.
type Recorder interface {
	RecordConsultation(ctx context.Context, c *store.Consultation) error
	AppendAudit(ctx context.Context, e *store.AuditEntry) error
}

// Manager coordinates all registered advisors and routes consultations to them.
type Manager struct {
	mu       sync.RWMutex
	agents   map[string]Agent
	sessions map[string]*session
	logger   *slog.Logger

	verifier   auth.TokenVerifier
	fallback   Agent
	recorder   Recorder
	sessionTTL time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithVerifier attaches a token verifier. Without one, token presence alone
// gates acceptance and identity comes from the request's security context.
func WithVerifier(v auth.TokenVerifier) Option {
	return func(m *Manager) { m.verifier = v }
}

// WithFallback sets the advisor consulted when no domain matches.
func WithFallback(a Agent) Option {
	return func(m *Manager) { m.fallback = a }
}

// WithRecorder attaches a persistence sink for consultations and audit entries.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithSessionTTL overrides the session context expiry (default 30 minutes).
func WithSessionTTL(d time.Duration) Option {
	return func(m *Manager) { m.sessionTTL = d }
}

// NewManager creates a new Manager instance. A nil logger falls back to
// slog.Default.
func NewManager(logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		agents:     make(map[string]Agent),
		sessions:   make(map[string]*session),
		logger:     logger,
		sessionTTL: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds an advisor to the registry.
// Returns ErrAgentAlreadyRegistered if the domain is already taken.
func (m *Manager) Register(agent Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	domain := agent.Domain()
	if _, exists := m.agents[domain]; exists {
		return fmt.Errorf("%w: %s", ErrAgentAlreadyRegistered, domain)
	}

	m.agents[domain] = agent
	m.logger.Info("advisor registered",
		"domain", domain,
		"capabilities", agent.Capabilities(),
		"total_agents", len(m.agents),
	)
	return nil
}

// Unregister removes the advisor for a domain.
func (m *Manager) Unregister(domain string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.agents[domain]; exists {
		delete(m.agents, domain)
		m.logger.Info("advisor unregistered",
			"domain", domain,
			"total_agents", len(m.agents),
		)
	}
}

// Get retrieves the advisor for a domain.
func (m *Manager) Get(domain string) (Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	agent, ok := m.agents[domain]
	return agent, ok
}

// List returns information about all registered advisors.
func (m *Manager) List() []*Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]*Info, 0, len(m.agents))
	for _, agent := range m.agents {
		infos = append(infos, &Info{
			Domain:        agent.Domain(),
			Capabilities:  agent.Capabilities(),
			RequiredRoles: agent.RequiredRoles(),
		})
	}
	return infos
}

// Consult processes a request end to end: credential validation, routing by
// the context domain, role authorization, shape validation, delegation, and
// auditing. It always returns a non-nil response with a status set; transport
// errors never escape as Go errors.
func (m *Manager) Consult(ctx context.Context, req *Request) *Response {
	start := time.Now()

	domain := ""
	sessionID := ""
	if req != nil && req.Context != nil {
		domain = req.Context.Domain()
		sessionID = req.Context.SessionID()
	}

	// Credential validation comes first so nothing leaks to unauthenticated
	// callers, not even validation errors.
	userID, authErr := m.authenticate(req)
	if authErr != nil {
		m.audit(ctx, userID, domain, store.AuditAuthFailed, false, map[string]any{"reason": authErr.Error()})
		return m.finish(req, start, Failure(domain, "authentication failed: "+authErr.Error()))
	}

	if err := ValidateRequest(req); err != nil {
		m.audit(ctx, userID, domain, store.AuditRejected, false, map[string]any{"reason": err.Error()})
		return m.finish(req, start, Failure(domain, err.Error()))
	}

	agent, ok := m.Get(domain)
	if !ok {
		agent = m.fallback
		if agent == nil {
			m.audit(ctx, userID, domain, store.AuditRouteFailed, false, nil)
			return m.finish(req, start, Failure(domain, fmt.Sprintf("no advisor registered for domain %q", domain)))
		}
		m.logger.Debug("falling back", "requested_domain", domain, "fallback", agent.Domain())
	}

	if !m.authorized(req.Security, agent) {
		m.audit(ctx, userID, domain, store.AuditAuthzFailed, false, map[string]any{"required_roles": agent.RequiredRoles()})
		return m.finish(req, start, Failure(domain, fmt.Sprintf("authorization failed: insufficient permissions for %s", domain)))
	}

	resp := m.dispatch(ctx, agent, req)
	resp = m.finish(req, start, resp)

	m.audit(ctx, userID, domain, store.AuditConsulted, resp.IsSuccess(), map[string]any{
		"agent":  agent.Domain(),
		"status": string(resp.Status()),
	})
	m.record(ctx, userID, sessionID, domain, agent.Domain(), req, resp)
	return resp
}

// authenticate checks the request credentials and resolves the caller identity.
// With a verifier configured the token must verify and blank identity fields
// on the security context are filled from its claims. Without one, token
// presence alone is required.
func (m *Manager) authenticate(req *Request) (string, error) {
	if req == nil || req.Security == nil || req.Security.Token == "" {
		return anonymousUser, ErrMissingCredentials
	}

	sec := req.Security
	if m.verifier == nil {
		if sec.UserID == "" {
			return anonymousUser, nil
		}
		return sec.UserID, nil
	}

	claims, err := m.verifier.Verify(sec.Token)
	if err != nil {
		user := sec.UserID
		if user == "" {
			user = anonymousUser
		}
		return user, err
	}

	if sec.UserID == "" {
		sec.UserID = claims.Subject
	}
	if sec.Roles == nil {
		sec.Roles = claims.Roles
	}
	if sec.Permissions == nil {
		sec.Permissions = claims.Permissions
	}
	if sec.ServiceID == "" {
		sec.ServiceID = claims.ServiceID
	}
	if sec.ServiceType == "" {
		sec.ServiceType = claims.ServiceType
	}
	return sec.UserID, nil
}

// authorized checks the advisor's role requirements against the caller.
func (m *Manager) authorized(sec *SecurityContext, agent Agent) bool {
	required := agent.RequiredRoles()
	if len(required) == 0 {
		return true
	}
	for _, role := range required {
		if sec.HasRole(role) {
			return true
		}
	}
	return false
}

// dispatch delegates to the agent with panic recovery, turning any failure
// into a failure response so the contract holds on every path.
func (m *Manager) dispatch(ctx context.Context, agent Agent, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("advisor panicked", "domain", agent.Domain(), "panic", r)
			resp = Failure(req.Context.Domain(), fmt.Sprintf("internal error: %v", r))
		}
	}()

	resp, err := agent.Handle(ctx, req)
	if err != nil {
		m.logger.Warn("advisor failed", "domain", agent.Domain(), "error", err)
		return Failure(req.Context.Domain(), "internal error: "+err.Error())
	}
	if resp == nil {
		return Failure(req.Context.Domain(), "internal error: advisor returned no response")
	}
	return resp
}

// finish stamps the request ID and processing time on a response.
func (m *Manager) finish(req *Request, start time.Time, resp *Response) *Response {
	if resp.requestID == "" {
		if req != nil && req.ID != "" {
			resp.requestID = req.ID
		} else {
			resp.requestID = uuid.New().String()
		}
	}
	resp.processingTime = time.Since(start)
	return resp
}

// audit writes an audit entry, logging rather than failing on errors.
func (m *Manager) audit(ctx context.Context, userID, domain string, action store.AuditAction, success bool, detail map[string]any) {
	if m.recorder == nil {
		return
	}
	entry := &store.AuditEntry{
		UserID:  userID,
		Domain:  domain,
		Action:  action,
		Success: success,
		Detail:  detail,
	}
	if err := m.recorder.AppendAudit(ctx, entry); err != nil {
		m.logger.Warn("failed to append audit entry", "action", action, "error", err)
	}
}

// record writes a consultation history row, logging rather than failing on errors.
func (m *Manager) record(ctx context.Context, userID, sessionID, domain, agentDomain string, req *Request, resp *Response) {
	if m.recorder == nil {
		return
	}
	c := &store.Consultation{
		RequestID:        resp.RequestID(),
		SessionID:        sessionID,
		Domain:           domain,
		AgentDomain:      agentDomain,
		UserID:           userID,
		Description:      req.Description,
		Status:           string(resp.Status()),
		Output:           resp.Output(),
		Confidence:       resp.Confidence(),
		ProcessingTimeMs: resp.ProcessingTime().Milliseconds(),
	}
	if err := m.recorder.RecordConsultation(ctx, c); err != nil {
		m.logger.Warn("failed to record consultation", "request_id", c.RequestID, "error", err)
	}
}
