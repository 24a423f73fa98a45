// ABOUTME: Tests for the base Context and its params-struct construction.
// ABOUTME: Covers defaults, property access, and timestamp updates.

package advisor

import (
	"testing"
	"time"
)

func TestNewContext_Defaults(t *testing.T) {
	c := NewContext(ContextParams{Domain: "testing"})

	if c.ID() == "" {
		t.Error("ID not generated")
	}
	if c.SessionID() == "" {
		t.Error("SessionID not generated")
	}
	if c.CreatedAt().IsZero() {
		t.Error("CreatedAt not set")
	}
	if !c.LastUpdated().Equal(c.CreatedAt()) {
		t.Error("LastUpdated should equal CreatedAt on a fresh context")
	}
	if c.Domain() != "testing" {
		t.Errorf("Domain = %q, want %q", c.Domain(), "testing")
	}
}

func TestNewContext_ExplicitValues(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewContext(ContextParams{
		ID:        "ctx-1",
		SessionID: "sess-1",
		Type:      "cicd-pipeline",
		Domain:    "cicd",
		CreatedAt: created,
		Properties: map[string]string{
			"objective": "speed up the pipeline",
		},
	})

	if c.ID() != "ctx-1" || c.SessionID() != "sess-1" {
		t.Errorf("ids = %q/%q, want ctx-1/sess-1", c.ID(), c.SessionID())
	}
	if !c.CreatedAt().Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", c.CreatedAt(), created)
	}
	if v, ok := c.Property("objective"); !ok || v != "speed up the pipeline" {
		t.Errorf("Property(objective) = %q/%v", v, ok)
	}
}

func TestContext_Properties(t *testing.T) {
	src := map[string]string{"a": "1"}
	c := NewContext(ContextParams{Domain: "d", Properties: src})

	// Input map is copied
	src["a"] = "mutated"
	if v, _ := c.Property("a"); v != "1" {
		t.Error("input map mutation leaked into context")
	}

	// Accessor returns a copy
	c.Properties()["a"] = "changed"
	if v, _ := c.Property("a"); v != "1" {
		t.Error("Properties() is not a copy")
	}

	if got := c.PropertyOr("missing", "fallback"); got != "fallback" {
		t.Errorf("PropertyOr(missing) = %q, want fallback", got)
	}
	if got := c.PropertyOr("a", "fallback"); got != "1" {
		t.Errorf("PropertyOr(a) = %q, want 1", got)
	}
}

func TestContext_SetPropertyTouches(t *testing.T) {
	c := NewContext(ContextParams{Domain: "d", CreatedAt: time.Now().Add(-time.Minute)})
	before := c.LastUpdated()

	c.SetProperty("k", "v")

	if !c.LastUpdated().After(before) {
		t.Error("SetProperty did not update LastUpdated")
	}
	if v, _ := c.Property("k"); v != "v" {
		t.Errorf("Property(k) = %q, want v", v)
	}
}
