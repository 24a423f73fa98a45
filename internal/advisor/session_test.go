// ABOUTME: Tests for session context tracking and expiry.
// ABOUTME: Covers create, reuse, explicit end, and TTL-based pruning.

package advisor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetOrCreateSession(t *testing.T) {
	m := testManager(t)

	first := m.GetOrCreateSession("sess-1", "testing")
	if first.SessionID() != "sess-1" {
		t.Errorf("SessionID = %q, want %q", first.SessionID(), "sess-1")
	}
	if first.Domain() != "testing" {
		t.Errorf("Domain = %q, want %q", first.Domain(), "testing")
	}

	// Same session id returns the same context even with another domain hint
	second := m.GetOrCreateSession("sess-1", "security")
	if second != first {
		t.Error("GetOrCreateSession() created a new context for an existing session")
	}

	if m.SessionCount() != 1 {
		t.Errorf("SessionCount() = %d, want 1", m.SessionCount())
	}
}

func TestEndSession(t *testing.T) {
	m := testManager(t)

	m.GetOrCreateSession("sess-1", "testing")
	m.EndSession("sess-1")

	if m.SessionCount() != 0 {
		t.Errorf("SessionCount() = %d, want 0", m.SessionCount())
	}
}

func TestSessionExpiry(t *testing.T) {
	m := testManager(t, WithSessionTTL(10*time.Millisecond))

	first := m.GetOrCreateSession("sess-1", "testing")
	time.Sleep(20 * time.Millisecond)

	// Expired: a fresh context is created
	second := m.GetOrCreateSession("sess-1", "testing")
	if second == first {
		t.Error("GetOrCreateSession() reused an expired session context")
	}
}

func TestSessionContextConcurrentUse(t *testing.T) {
	m := testManager(t)
	if err := m.Register(&stubAgent{
		domain: "testing",
		handle: func(_ context.Context, req *Request) (*Response, error) {
			// Force a read of the shared property map during dispatch.
			_ = req.Context.Properties()
			return Success(ResponseParams{Domain: "testing", Output: "ok"}), nil
		},
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx := m.GetOrCreateSession("session-1", "testing")
			ctx.SetProperty(fmt.Sprintf("focus-%d", n), "value")
			req := validRequest("testing")
			req.Context = ctx
			if resp := m.Consult(context.Background(), req); !resp.IsSuccess() {
				t.Errorf("Consult() status = %v, output = %s", resp.Status(), resp.Output())
			}
		}(i)
	}
	wg.Wait()

	props := m.GetOrCreateSession("session-1", "testing").Properties()
	if len(props) != 8 {
		t.Errorf("session properties = %d, want 8", len(props))
	}
}

func TestPruneSessions(t *testing.T) {
	m := testManager(t, WithSessionTTL(10*time.Millisecond))

	m.GetOrCreateSession("sess-1", "testing")
	m.GetOrCreateSession("sess-2", "security")
	time.Sleep(20 * time.Millisecond)
	m.GetOrCreateSession("sess-3", "deployment")

	if remaining := m.PruneSessions(); remaining != 1 {
		t.Errorf("PruneSessions() = %d, want 1", remaining)
	}
	if m.SessionCount() != 1 {
		t.Errorf("SessionCount() = %d, want 1", m.SessionCount())
	}
}

func TestSessionAccessRefreshesTTL(t *testing.T) {
	m := testManager(t, WithSessionTTL(50*time.Millisecond))

	first := m.GetOrCreateSession("sess-1", "testing")
	for i := 0; i < 3; i++ {
		time.Sleep(20 * time.Millisecond)
		if got := m.GetOrCreateSession("sess-1", "testing"); got != first {
			t.Fatal("session expired despite access refreshes")
		}
	}
}
