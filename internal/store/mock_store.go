// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu            sync.RWMutex
	consultations []*Consultation
	audit         []*AuditEntry
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// RecordConsultation stores a consultation in memory.
func (m *MockStore) RecordConsultation(ctx context.Context, c *Consultation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Make a copy to avoid external modification
	cc := *c
	if cc.ID == "" {
		cc.ID = uuid.New().String()
	}
	if cc.CreatedAt.IsZero() {
		cc.CreatedAt = time.Now().UTC()
	}
	m.consultations = append(m.consultations, &cc)
	return nil
}

// ListConsultations returns matching consultations, newest first.
func (m *MockStore) ListConsultations(ctx context.Context, f ConsultationFilter) ([]*Consultation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Consultation
	for _, c := range m.consultations {
		if f.Since != nil && c.CreatedAt.Before(*f.Since) {
			continue
		}
		if f.Until != nil && c.CreatedAt.After(*f.Until) {
			continue
		}
		if f.Domain != nil && c.Domain != *f.Domain {
			continue
		}
		if f.UserID != nil && c.UserID != *f.UserID {
			continue
		}
		if f.SessionID != nil && c.SessionID != *f.SessionID {
			continue
		}
		cc := *c
		out = append(out, &cc)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := normalizeLimit(f.Limit)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AppendAudit stores an audit entry in memory.
func (m *MockStore) AppendAudit(ctx context.Context, e *AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ee := *e
	if ee.ID == "" {
		ee.ID = uuid.New().String()
	}
	if ee.Timestamp.IsZero() {
		ee.Timestamp = time.Now().UTC()
	}
	m.audit = append(m.audit, &ee)
	return nil
}

// ListAudit returns matching audit entries, newest first.
func (m *MockStore) ListAudit(ctx context.Context, f AuditFilter) ([]*AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*AuditEntry
	for _, e := range m.audit {
		if f.Since != nil && e.Timestamp.Before(*f.Since) {
			continue
		}
		if f.Until != nil && e.Timestamp.After(*f.Until) {
			continue
		}
		if f.UserID != nil && e.UserID != *f.UserID {
			continue
		}
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		ee := *e
		out = append(out, &ee)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	limit := normalizeLimit(f.Limit)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}
