// ABOUTME: Tests for the web console page rendering.
// ABOUTME: Uses the in-memory store and a populated advisor registry.

package console

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/positivity/advisor-gateway/internal/advisor"
	"github.com/positivity/advisor-gateway/internal/agents"
	"github.com/positivity/advisor-gateway/internal/store"
)

func testConsole(t *testing.T) (*Console, *store.MockStore) {
	t.Helper()
	st := store.NewMockStore()
	m := advisor.NewManager(nil)
	require.NoError(t, agents.RegisterDefaults(m))
	return New(st, m, nil), st
}

func serveConsole(t *testing.T, c *Console, method string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	c.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, "/console", nil))
	return rec
}

func TestConsoleListsAdvisors(t *testing.T) {
	c, _ := testConsole(t)
	rec := serveConsole(t, c, http.MethodGet)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "architecture")
	assert.Contains(t, body, "pair-navigator")
	assert.Contains(t, body, "No consultations recorded yet")
}

func TestConsoleRendersConsultationMarkdown(t *testing.T) {
	c, st := testConsole(t)
	require.NoError(t, st.RecordConsultation(context.Background(), &store.Consultation{
		Domain:      "story",
		AgentDomain: "story",
		UserID:      "dev-1",
		Status:      "success",
		Output:      "# Strengthened story\n\n- item one\n",
		Confidence:  0.85,
	}))

	rec := serveConsole(t, c, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Strengthened story</h1>")
	assert.Contains(t, body, "<li>item one</li>")
	assert.Contains(t, body, "status-success")
}

func TestConsoleEscapesRawHTMLInOutput(t *testing.T) {
	c, st := testConsole(t)
	require.NoError(t, st.RecordConsultation(context.Background(), &store.Consultation{
		Domain: "testing",
		Status: "success",
		Output: "guidance <script>alert(1)</script>",
	}))

	rec := serveConsole(t, c, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
}

func TestConsoleRejectsNonGET(t *testing.T) {
	c, _ := testConsole(t)
	rec := serveConsole(t, c, http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
