// Package store provides persistence for advisor-gateway.
//
// # Overview
//
// Two tables back the gateway: consultations (one row per processed guidance
// request) and audit_log (one row per auditable action: authentication and
// authorization failures, routing failures, processed consultations, issued
// tokens).
//
// # Implementations
//
//   - SQLiteStore: production implementation using modernc.org/sqlite with
//     WAL mode and automatic schema creation.
//   - MockStore: in-memory implementation for tests.
//
// # Usage
//
//	s, err := store.NewSQLiteStore("/var/lib/advisor/gateway.db")
//	if err != nil { ... }
//	defer s.Close()
//
//	err = s.AppendAudit(ctx, &store.AuditEntry{
//	    UserID: "user-1",
//	    Domain: "testing",
//	    Action: store.AuditConsulted,
//	    Success: true,
//	})
package store
