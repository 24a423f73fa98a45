// ABOUTME: Read-only web console showing advisors and recent consultations.
// ABOUTME: Renders consultation output markdown to HTML via goldmark.

package console

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"github.com/positivity/advisor-gateway/internal/advisor"
	"github.com/positivity/advisor-gateway/internal/store"
)

// historyPageSize bounds how many consultations the console shows.
const historyPageSize = 50

// Console serves the read-only operator view. It has no write paths and no
// session state; access control, if any, happens in front of it.
type Console struct {
	store   store.Store
	manager *advisor.Manager
	logger  *slog.Logger
	md      goldmark.Markdown
	tmpl    *template.Template
}

type advisorItem struct {
	Domain        string
	Capabilities  []string
	RequiredRoles []string
}

type consultationItem struct {
	Domain      string
	AgentDomain string
	UserID      string
	Status      string
	Confidence  float64
	CreatedAt   string
	Output      template.HTML
}

type consolePageData struct {
	Title         string
	Advisors      []advisorItem
	Consultations []consultationItem
}

// New creates a console over the given store and advisor registry.
func New(st store.Store, m *advisor.Manager, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		store:   st,
		manager: m,
		logger:  logger.With("component", "console"),
		md:      goldmark.New(),
		tmpl:    template.Must(template.ParseFS(templateFS, "templates/console.html")),
	}
}

// RegisterRoutes mounts the console page, wrapping it in the given
// middleware from outermost to innermost. The page exposes consultation
// history, so callers gate it the same way as the history API.
func (c *Console) RegisterRoutes(mux *http.ServeMux, middleware ...func(http.Handler) http.Handler) {
	var h http.Handler = http.HandlerFunc(c.handleConsole)
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	mux.Handle("/console", h)
}

func (c *Console) handleConsole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	data := consolePageData{Title: "Advisor Console"}
	for _, info := range c.manager.List() {
		data.Advisors = append(data.Advisors, advisorItem{
			Domain:        info.Domain,
			Capabilities:  info.Capabilities,
			RequiredRoles: info.RequiredRoles,
		})
	}

	consultations, err := c.store.ListConsultations(r.Context(), store.ConsultationFilter{Limit: historyPageSize})
	if err != nil {
		c.logger.Error("failed to load consultations", "error", err)
		http.Error(w, "failed to load consultations", http.StatusInternalServerError)
		return
	}
	for _, cons := range consultations {
		data.Consultations = append(data.Consultations, consultationItem{
			Domain:      cons.Domain,
			AgentDomain: cons.AgentDomain,
			UserID:      cons.UserID,
			Status:      cons.Status,
			Confidence:  cons.Confidence,
			CreatedAt:   cons.CreatedAt.UTC().Format(time.RFC3339),
			Output:      c.renderMarkdown(cons.Output),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render console", "error", err)
	}
}

// renderMarkdown converts consultation output to HTML. Goldmark runs with
// raw HTML rendering off, so request text embedded in outputs stays inert.
func (c *Console) renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(md), &buf); err != nil {
		c.logger.Error("failed to convert markdown", "error", err)
		return template.HTML("<p>failed to render output</p>")
	}
	return template.HTML(buf.String())
}
