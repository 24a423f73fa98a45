// ABOUTME: Tests for the Response contract.
// ABOUTME: Validates status semantics and defensive copying of collections.

package advisor

import (
	"testing"
)

func TestSuccessResponse(t *testing.T) {
	resp := Success(ResponseParams{
		RequestID:       "req-1",
		Domain:          "testing",
		Output:          "guidance",
		Confidence:      0.85,
		Recommendations: []string{"adopt table tests", "add coverage gate"},
		Metadata:        map[string]any{"capability": "test-strategy"},
	})

	if !resp.IsSuccess() {
		t.Error("IsSuccess() = false, want true")
	}
	if resp.Status() != StatusSuccess {
		t.Errorf("Status() = %v, want %v", resp.Status(), StatusSuccess)
	}
	if resp.Confidence() != 0.85 {
		t.Errorf("Confidence() = %v, want 0.85", resp.Confidence())
	}
	if resp.Timestamp().IsZero() {
		t.Error("Timestamp() is zero")
	}
	if len(resp.Recommendations()) != 2 {
		t.Errorf("Recommendations() = %v, want 2 items", resp.Recommendations())
	}
}

func TestFailureResponse(t *testing.T) {
	resp := Failure("testing", "something went wrong")

	if resp.IsSuccess() {
		t.Error("IsSuccess() = true, want false")
	}
	if resp.Status() != StatusFailure {
		t.Errorf("Status() = %v, want %v", resp.Status(), StatusFailure)
	}
	if resp.Confidence() != 0 {
		t.Errorf("Confidence() = %v, want 0", resp.Confidence())
	}
	if resp.Output() != "something went wrong" {
		t.Errorf("Output() = %q", resp.Output())
	}
}

func TestStoppedResponse(t *testing.T) {
	resp := Stopped("story", "partial output")
	if resp.Status() != StatusStopped {
		t.Errorf("Status() = %v, want %v", resp.Status(), StatusStopped)
	}
	if resp.Output() != "partial output" {
		t.Errorf("Output() = %q", resp.Output())
	}
}

func TestResponseDefensiveCopies(t *testing.T) {
	recs := []string{"one", "two"}
	meta := map[string]any{"key": "value"}
	resp := Success(ResponseParams{Domain: "d", Output: "o", Recommendations: recs, Metadata: meta})

	// Mutating the inputs after build must not change the response
	recs[0] = "mutated"
	meta["key"] = "mutated"
	if resp.Recommendations()[0] != "one" {
		t.Error("input slice mutation leaked into response")
	}
	if resp.Metadata()["key"] != "value" {
		t.Error("input map mutation leaked into response")
	}

	// Mutating accessor results must not change the response
	resp.Recommendations()[0] = "changed"
	resp.Metadata()["key"] = "changed"
	if resp.Recommendations()[0] != "one" {
		t.Error("accessor slice is not a copy")
	}
	if resp.Metadata()["key"] != "value" {
		t.Error("accessor map is not a copy")
	}
}

func TestValidateRequest(t *testing.T) {
	valid := &Request{
		Type:        "consultation",
		Description: "a question",
		Context:     NewDomainContext("testing"),
	}
	if err := ValidateRequest(valid); err != nil {
		t.Errorf("ValidateRequest(valid) error = %v", err)
	}

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "nil", req: nil},
		{name: "blank description", req: &Request{Type: "t", Description: " ", Context: NewDomainContext("d")}},
		{name: "nil context", req: &Request{Type: "t", Description: "d"}},
		{name: "empty type", req: &Request{Description: "d", Context: NewDomainContext("d")}},
		{name: "invalid type", req: &Request{Type: "invalid", Description: "d", Context: NewDomainContext("d")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateRequest(tt.req); err == nil {
				t.Error("ValidateRequest() = nil, want error")
			}
		})
	}
}
