// ABOUTME: Session context tracking for multi-turn consultations.
// ABOUTME: Contexts are kept per session id and expire after the session TTL.

package advisor

import (
	"time"
)

// session pairs a context with its last access time for expiry.
type session struct {
	ctx        *Context
	lastAccess time.Time
}

// GetOrCreateSession returns the context for a session, creating one tagged
// with the given domain if none exists or the previous one expired.
// Access refreshes the expiry clock.
func (m *Manager) GetOrCreateSession(sessionID, domain string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.pruneSessionsLocked(now)

	if s, ok := m.sessions[sessionID]; ok {
		s.lastAccess = now
		return s.ctx
	}

	ctx := NewContext(ContextParams{
		SessionID: sessionID,
		Domain:    domain,
		Type:      domain,
	})
	m.sessions[sessionID] = &session{ctx: ctx, lastAccess: now}
	m.logger.Debug("session context created", "session_id", sessionID, "domain", domain)
	return ctx
}

// EndSession discards the context for a session.
func (m *Manager) EndSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// SessionCount returns the number of live (non-expired) sessions.
func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneSessionsLocked(time.Now())
	return len(m.sessions)
}

// PruneSessions drops expired session contexts and reports how many live
// sessions remain. Expiry also happens lazily on access; this exists for
// periodic cleanup so idle managers do not hold dead contexts.
func (m *Manager) PruneSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneSessionsLocked(time.Now())
	return len(m.sessions)
}

// pruneSessionsLocked drops sessions idle past the TTL. Caller holds m.mu.
func (m *Manager) pruneSessionsLocked(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.lastAccess) > m.sessionTTL {
			delete(m.sessions, id)
			m.logger.Debug("session context expired", "session_id", id)
		}
	}
}
