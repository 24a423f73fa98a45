// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides consultation/audit persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS consultations (
			id TEXT PRIMARY KEY,
			request_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			domain TEXT NOT NULL,
			agent_domain TEXT NOT NULL,
			user_id TEXT NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL,
			output TEXT NOT NULL,
			confidence REAL NOT NULL,
			processing_time_ms INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_consultations_session
			ON consultations(session_id);
		CREATE INDEX IF NOT EXISTS idx_consultations_created
			ON consultations(created_at);

		CREATE TABLE IF NOT EXISTS audit_log (
			audit_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			domain TEXT NOT NULL,
			action TEXT NOT NULL,
			success INTEGER NOT NULL,
			detail_json TEXT,
			ts DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_audit_ts ON audit_log(ts);
		CREATE INDEX IF NOT EXISTS idx_audit_user ON audit_log(user_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordConsultation appends a consultation to the history.
// Generates ID and CreatedAt if not set.
func (s *SQLiteStore) RecordConsultation(ctx context.Context, c *Consultation) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO consultations (id, request_id, session_id, domain, agent_domain, user_id, description, status, output, confidence, processing_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.RequestID,
		c.SessionID,
		c.Domain,
		c.AgentDomain,
		c.UserID,
		c.Description,
		c.Status,
		c.Output,
		c.Confidence,
		c.ProcessingTimeMs,
		c.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting consultation: %w", err)
	}

	s.logger.Debug("recorded consultation",
		"id", c.ID,
		"domain", c.Domain,
		"user", c.UserID,
		"status", c.Status,
	)
	return nil
}

// ListConsultations returns history entries matching the filter, newest first.
func (s *SQLiteStore) ListConsultations(ctx context.Context, f ConsultationFilter) ([]*Consultation, error) {
	var conditions []string
	var args []any

	if f.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, f.Since.UTC().Format(time.RFC3339))
	}
	if f.Until != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, f.Until.UTC().Format(time.RFC3339))
	}
	if f.Domain != nil {
		conditions = append(conditions, "domain = ?")
		args = append(args, *f.Domain)
	}
	if f.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.SessionID != nil {
		conditions = append(conditions, "session_id = ?")
		args = append(args, *f.SessionID)
	}

	query := "SELECT id, request_id, session_id, domain, agent_domain, user_id, description, status, output, confidence, processing_time_ms, created_at FROM consultations"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, normalizeLimit(f.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying consultations: %w", err)
	}
	defer rows.Close()

	var out []*Consultation
	for rows.Next() {
		var c Consultation
		var createdStr string
		if err := rows.Scan(
			&c.ID,
			&c.RequestID,
			&c.SessionID,
			&c.Domain,
			&c.AgentDomain,
			&c.UserID,
			&c.Description,
			&c.Status,
			&c.Output,
			&c.Confidence,
			&c.ProcessingTimeMs,
			&createdStr,
		); err != nil {
			return nil, fmt.Errorf("scanning consultation: %w", err)
		}
		c.CreatedAt, err = time.Parse(time.RFC3339, createdStr)
		if err != nil {
			return nil, fmt.Errorf("parsing consultation timestamp: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating consultations: %w", err)
	}

	return out, nil
}

// AppendAudit appends a new entry to the audit log.
// Generates ID and Timestamp if not set.
func (s *SQLiteStore) AppendAudit(ctx context.Context, e *AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	var detailJSON *string
	if e.Detail != nil {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshaling audit detail: %w", err)
		}
		str := string(data)
		detailJSON = &str
	}

	query := `
		INSERT INTO audit_log (audit_id, user_id, domain, action, success, detail_json, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.Domain,
		string(e.Action),
		e.Success,
		detailJSON,
		e.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	s.logger.Debug("appended audit log",
		"id", e.ID,
		"user", e.UserID,
		"action", e.Action,
		"success", e.Success,
	)
	return nil
}

// ListAudit returns audit entries matching the filter, newest first.
func (s *SQLiteStore) ListAudit(ctx context.Context, f AuditFilter) ([]*AuditEntry, error) {
	var conditions []string
	var args []any

	if f.Since != nil {
		conditions = append(conditions, "ts >= ?")
		args = append(args, f.Since.UTC().Format(time.RFC3339))
	}
	if f.Until != nil {
		conditions = append(conditions, "ts <= ?")
		args = append(args, f.Until.UTC().Format(time.RFC3339))
	}
	if f.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.Action != nil {
		conditions = append(conditions, "action = ?")
		args = append(args, string(*f.Action))
	}

	query := "SELECT audit_id, user_id, domain, action, success, detail_json, ts FROM audit_log"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ts DESC LIMIT ?"
	args = append(args, normalizeLimit(f.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var out []*AuditEntry
	for rows.Next() {
		var e AuditEntry
		var actionStr, tsStr string
		var detailJSON *string
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Domain,
			&actionStr,
			&e.Success,
			&detailJSON,
			&tsStr,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Action = AuditAction(actionStr)
		e.Timestamp, err = time.Parse(time.RFC3339, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp: %w", err)
		}
		if detailJSON != nil {
			if err := json.Unmarshal([]byte(*detailJSON), &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshaling audit detail: %w", err)
			}
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit log: %w", err)
	}

	return out, nil
}
