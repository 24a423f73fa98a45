// ABOUTME: HTTP API handlers for consultations, advisor listing, and history.
// ABOUTME: Provides POST /api/consult plus admin-only audit and history reads.

package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/positivity/advisor-gateway/internal/advisor"
	"github.com/positivity/advisor-gateway/internal/auth"
	"github.com/positivity/advisor-gateway/internal/store"
)

// ConsultRequest is the JSON request body for POST /api/consult.
// RequestID is optional; when set it makes the consultation idempotent, and
// retries within the dedupe window are rejected with 409.
type ConsultRequest struct {
	RequestID   string            `json:"request_id,omitempty"`
	Type        string            `json:"type,omitempty"`
	Domain      string            `json:"domain"`
	Description string            `json:"description"`
	Priority    string            `json:"priority,omitempty"`
	SessionID   string            `json:"session_id,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
}

// ConsultResponse is the JSON response for POST /api/consult.
type ConsultResponse struct {
	RequestID        string         `json:"request_id"`
	Domain           string         `json:"domain"`
	Status           string         `json:"status"`
	Output           string         `json:"output"`
	Confidence       float64        `json:"confidence"`
	Recommendations  []string       `json:"recommendations,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
	Timestamp        string         `json:"timestamp"`
}

// AdvisorInfoResponse is the JSON response element for GET /api/agents.
type AdvisorInfoResponse struct {
	Domain        string   `json:"domain"`
	Capabilities  []string `json:"capabilities"`
	RequiredRoles []string `json:"required_roles,omitempty"`
}

// ConsultationResponse is the JSON response element for GET /api/consultations.
type ConsultationResponse struct {
	ID               string  `json:"id"`
	RequestID        string  `json:"request_id"`
	SessionID        string  `json:"session_id,omitempty"`
	Domain           string  `json:"domain"`
	AgentDomain      string  `json:"agent_domain"`
	UserID           string  `json:"user_id"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	Output           string  `json:"output"`
	Confidence       float64 `json:"confidence"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
	CreatedAt        string  `json:"created_at"`
}

// AuditEntryResponse is the JSON response element for GET /api/audit.
type AuditEntryResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Domain    string         `json:"domain,omitempty"`
	Action    string         `json:"action"`
	Success   bool           `json:"success"`
	Detail    map[string]any `json:"detail,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// parseConsultRequest parses and validates a ConsultRequest from the given
// reader. Returns an error if the JSON is invalid or required fields are
// missing.
func parseConsultRequest(r io.Reader) (*ConsultRequest, error) {
	var req ConsultRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, errors.New("invalid JSON body")
	}
	if req.Domain == "" {
		return nil, errors.New("domain is required")
	}
	if req.Description == "" {
		return nil, errors.New("description is required")
	}
	return &req, nil
}

// securityFromRequest builds the consultation security context from the
// bearer token and, when auth middleware ran, the verified identity.
func securityFromRequest(r *http.Request) *advisor.SecurityContext {
	sec := &advisor.SecurityContext{
		Token: strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
	}
	if ac := auth.FromContext(r.Context()); ac != nil {
		sec.UserID = ac.UserID
		sec.Roles = ac.Roles
		sec.Permissions = ac.Permissions
		sec.ServiceID = ac.ServiceID
		sec.ServiceType = ac.ServiceType
	}
	return sec
}

// handleConsult handles POST /api/consult: routes the request to the
// matching advisor and returns the typed response envelope. Consultation
// failures are reported in the envelope status, not as HTTP errors.
func (g *Gateway) handleConsult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.sendJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := parseConsultRequest(r.Body)
	if err != nil {
		g.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	sec := securityFromRequest(r)
	if body.RequestID != "" {
		if at, dup := g.dedupe.Seen(sec.UserID, body.RequestID); dup {
			g.sendJSONError(w, http.StatusConflict, fmt.Sprintf(
				"duplicate request %s, dispatched %s", body.RequestID, at.UTC().Format(time.RFC3339)))
			return
		}
	}

	var reqCtx *advisor.Context
	if body.SessionID != "" {
		reqCtx = g.manager.GetOrCreateSession(body.SessionID, body.Domain)
		if reqCtx.Domain() != body.Domain {
			g.sendJSONError(w, http.StatusConflict, fmt.Sprintf(
				"session %s is bound to domain %s", body.SessionID, reqCtx.Domain()))
			return
		}
	} else {
		reqCtx = advisor.NewDomainContext(body.Domain)
	}
	for k, v := range body.Properties {
		reqCtx.SetProperty(k, v)
	}

	reqType := body.Type
	if reqType == "" {
		reqType = "consultation"
	}
	req := &advisor.Request{
		ID:          body.RequestID,
		Type:        reqType,
		Description: body.Description,
		Priority:    advisor.Priority(body.Priority),
		Context:     reqCtx,
		Security:    sec,
	}

	resp := g.manager.Consult(r.Context(), req)
	// Only a dispatched consultation burns the request id; a rejected one
	// (bad credentials, unroutable domain) stays retryable.
	if body.RequestID != "" && resp.Status() != advisor.StatusFailure {
		g.dedupe.Record(sec.UserID, body.RequestID)
	}
	g.writeJSON(w, http.StatusOK, toConsultResponse(resp))
}

func toConsultResponse(resp *advisor.Response) ConsultResponse {
	return ConsultResponse{
		RequestID:        resp.RequestID(),
		Domain:           resp.Domain(),
		Status:           string(resp.Status()),
		Output:           resp.Output(),
		Confidence:       resp.Confidence(),
		Recommendations:  resp.Recommendations(),
		Metadata:         resp.Metadata(),
		ProcessingTimeMs: resp.ProcessingTime().Milliseconds(),
		Timestamp:        resp.Timestamp().UTC().Format(time.RFC3339),
	}
}

// handleListAgents handles GET /api/agents: returns every registered
// advisor with its capabilities and role requirements.
func (g *Gateway) handleListAgents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.sendJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	infos := g.manager.List()
	response := make([]AdvisorInfoResponse, 0, len(infos))
	for _, info := range infos {
		response = append(response, AdvisorInfoResponse{
			Domain:        info.Domain,
			Capabilities:  info.Capabilities,
			RequiredRoles: info.RequiredRoles,
		})
	}
	g.writeJSON(w, http.StatusOK, response)
}

// handleListConsultations handles GET /api/consultations (admin only).
// Supports domain, user_id, session_id, since, and limit query parameters.
func (g *Gateway) handleListConsultations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.sendJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := store.ConsultationFilter{}
	q := r.URL.Query()
	if v := q.Get("domain"); v != "" {
		filter.Domain = &v
	}
	if v := q.Get("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := q.Get("session_id"); v != "" {
		filter.SessionID = &v
	}
	since, until, limit, err := parseTimeWindow(q.Get("since"), q.Get("until"), q.Get("limit"))
	if err != nil {
		g.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Since, filter.Until, filter.Limit = since, until, limit

	consultations, err := g.store.ListConsultations(r.Context(), filter)
	if err != nil {
		g.logger.Error("failed to list consultations", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "failed to list consultations")
		return
	}

	response := make([]ConsultationResponse, 0, len(consultations))
	for _, c := range consultations {
		response = append(response, ConsultationResponse{
			ID:               c.ID,
			RequestID:        c.RequestID,
			SessionID:        c.SessionID,
			Domain:           c.Domain,
			AgentDomain:      c.AgentDomain,
			UserID:           c.UserID,
			Description:      c.Description,
			Status:           c.Status,
			Output:           c.Output,
			Confidence:       c.Confidence,
			ProcessingTimeMs: c.ProcessingTimeMs,
			CreatedAt:        c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	g.writeJSON(w, http.StatusOK, response)
}

// handleListAudit handles GET /api/audit (admin only).
// Supports action, user_id, since, and limit query parameters.
func (g *Gateway) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.sendJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := store.AuditFilter{}
	q := r.URL.Query()
	if v := q.Get("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := q.Get("action"); v != "" {
		action := store.AuditAction(v)
		filter.Action = &action
	}
	since, until, limit, err := parseTimeWindow(q.Get("since"), q.Get("until"), q.Get("limit"))
	if err != nil {
		g.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Since, filter.Until, filter.Limit = since, until, limit

	entries, err := g.store.ListAudit(r.Context(), filter)
	if err != nil {
		g.logger.Error("failed to list audit entries", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}

	response := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, AuditEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Domain:    e.Domain,
			Action:    string(e.Action),
			Success:   e.Success,
			Detail:    e.Detail,
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	g.writeJSON(w, http.StatusOK, response)
}

// parseTimeWindow parses the shared since/until/limit query parameters.
func parseTimeWindow(sinceRaw, untilRaw, limitRaw string) (since, until *time.Time, limit int, err error) {
	if sinceRaw != "" {
		t, parseErr := time.Parse(time.RFC3339, sinceRaw)
		if parseErr != nil {
			return nil, nil, 0, errors.New("invalid since timestamp, want RFC3339")
		}
		since = &t
	}
	if untilRaw != "" {
		t, parseErr := time.Parse(time.RFC3339, untilRaw)
		if parseErr != nil {
			return nil, nil, 0, errors.New("invalid until timestamp, want RFC3339")
		}
		until = &t
	}
	if limitRaw != "" {
		n, parseErr := strconv.Atoi(limitRaw)
		if parseErr != nil || n < 0 {
			return nil, nil, 0, errors.New("invalid limit")
		}
		limit = n
	}
	return since, until, limit, nil
}

// writeJSON writes a JSON response with the given status.
func (g *Gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (g *Gateway) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
