// ABOUTME: Tests for the in-memory mock store
// ABOUTME: Ensures MockStore matches SQLiteStore list/filter semantics

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_ImplementsStore(t *testing.T) {
	var _ Store = NewMockStore()
}

func TestMockStore_ConsultationRoundTrip(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	c := &Consultation{
		RequestID:   "req-1",
		SessionID:   "sess-1",
		Domain:      "cicd",
		AgentDomain: "cicd",
		UserID:      "user-1",
		Description: "pipeline review",
		Status:      "success",
		Output:      "ok",
	}
	require.NoError(t, m.RecordConsultation(ctx, c))

	got, err := m.ListConsultations(ctx, ConsultationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "cicd", got[0].Domain)

	// Mutating the returned copy must not affect the stored entry
	got[0].Output = "mutated"
	again, err := m.ListConsultations(ctx, ConsultationFilter{})
	require.NoError(t, err)
	assert.Equal(t, "ok", again[0].Output)
}

func TestMockStore_AuditFilters(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, m.AppendAudit(ctx, &AuditEntry{UserID: "a", Action: AuditConsulted, Success: true, Timestamp: base}))
	require.NoError(t, m.AppendAudit(ctx, &AuditEntry{UserID: "b", Action: AuditAuthFailed, Timestamp: base.Add(time.Second)}))

	action := AuditAuthFailed
	got, err := m.ListAudit(ctx, AuditFilter{Action: &action})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].UserID)

	all, err := m.ListAudit(ctx, AuditFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, AuditAuthFailed, all[0].Action) // newest first
}
