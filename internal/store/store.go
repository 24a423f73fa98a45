// ABOUTME: Store interface and data types for advisor-gateway persistence
// ABOUTME: Defines Consultation, AuditEntry structs and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Consultation represents one processed guidance request for history purposes
type Consultation struct {
	ID               string
	RequestID        string
	SessionID        string
	Domain           string // requested routing domain
	AgentDomain      string // advisor that actually handled it (fallbacks differ)
	UserID           string
	Description      string
	Status           string
	Output           string
	Confidence       float64
	ProcessingTimeMs int64
	CreatedAt        time.Time
}

// ConsultationFilter specifies filtering options for listing consultations.
type ConsultationFilter struct {
	Since     *time.Time
	Until     *time.Time
	Domain    *string
	UserID    *string
	SessionID *string
	Limit     int // max results (default 100, max 1000)
}

// AuditAction represents an auditable action.
type AuditAction string

const (
	AuditAuthFailed  AuditAction = "auth_failed"
	AuditAuthzFailed AuditAction = "authz_failed"
	AuditRouteFailed AuditAction = "route_failed"
	AuditRejected    AuditAction = "rejected"
	AuditConsulted   AuditAction = "consulted"
	AuditTokenIssued AuditAction = "token_issued"
)

// ValidAuditActions lists all valid audit actions.
var ValidAuditActions = []AuditAction{
	AuditAuthFailed,
	AuditAuthzFailed,
	AuditRouteFailed,
	AuditRejected,
	AuditConsulted,
	AuditTokenIssued,
}

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID        string         // UUID v4
	UserID    string         // who the request was attributed to ("anonymous" when unknown)
	Domain    string         // routing domain involved, if any
	Action    AuditAction    // what happened
	Success   bool           // whether the action completed successfully
	Detail    map[string]any // additional context (max 64KB JSON)
	Timestamp time.Time      // when it happened
}

// AuditFilter specifies filtering options for listing audit entries.
type AuditFilter struct {
	Since  *time.Time   // entries after this time
	Until  *time.Time   // entries before this time
	UserID *string      // filter by attributed user
	Action *AuditAction // filter by action type
	Limit  int          // max results (default 100, max 1000)
}

// Store is the persistence interface for consultations and the audit trail.
type Store interface {
	// RecordConsultation appends a consultation to the history.
	// Generates ID and CreatedAt if not set.
	RecordConsultation(ctx context.Context, c *Consultation) error

	// ListConsultations returns history entries matching the filter,
	// newest first.
	ListConsultations(ctx context.Context, f ConsultationFilter) ([]*Consultation, error)

	// AppendAudit appends a new entry to the audit log.
	// Generates ID and Timestamp if not set.
	AppendAudit(ctx context.Context, e *AuditEntry) error

	// ListAudit returns audit entries matching the filter, newest first.
	ListAudit(ctx context.Context, f AuditFilter) ([]*AuditEntry, error)

	// Close releases the underlying resources.
	Close() error
}

// normalizeLimit applies default (100) and cap (1000) to list limits.
func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}
