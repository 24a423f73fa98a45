// ABOUTME: Response contract for advisor consultations.
// ABOUTME: Immutable status/output/confidence envelope returned by every agent.

package advisor

import (
	"time"
)

// Status represents the outcome of a consultation.
type Status string

const (
	// StatusSuccess indicates the advisor processed the request.
	StatusSuccess Status = "success"
	// StatusFailure indicates the advisor failed to process the request.
	StatusFailure Status = "failure"
	// StatusStopped indicates processing was stopped before completion.
	StatusStopped Status = "stopped"
	// StatusPending indicates processing has not completed yet.
	StatusPending Status = "pending"
)

// Response is the result of a consultation. Once built it is read-only:
// recommendation and metadata accessors return copies so callers cannot
// mutate a response shared across goroutines.
type Response struct {
	requestID       string
	domain          string
	status          Status
	output          string
	confidence      float64
	recommendations []string
	metadata        map[string]any
	processingTime  time.Duration
	timestamp       time.Time
}

// ResponseParams carries the inputs for building a success response.
type ResponseParams struct {
	RequestID       string
	Domain          string
	Output          string
	Confidence      float64
	Recommendations []string
	Metadata        map[string]any
}

// Success builds a successful response from the given params.
// Recommendations and metadata are copied.
func Success(p ResponseParams) *Response {
	r := &Response{
		requestID:  p.RequestID,
		domain:     p.Domain,
		status:     StatusSuccess,
		output:     p.Output,
		confidence: p.Confidence,
		timestamp:  time.Now().UTC(),
	}
	if len(p.Recommendations) > 0 {
		r.recommendations = make([]string, len(p.Recommendations))
		copy(r.recommendations, p.Recommendations)
	}
	if len(p.Metadata) > 0 {
		r.metadata = make(map[string]any, len(p.Metadata))
		for k, v := range p.Metadata {
			r.metadata[k] = v
		}
	}
	return r
}

// Failure builds a failed response with confidence zero.
func Failure(domain, message string) *Response {
	return &Response{
		domain:    domain,
		status:    StatusFailure,
		output:    message,
		timestamp: time.Now().UTC(),
	}
}

// Stopped builds a response for processing that was halted, carrying the
// output produced so far.
func Stopped(domain, output string) *Response {
	return &Response{
		domain:    domain,
		status:    StatusStopped,
		output:    output,
		timestamp: time.Now().UTC(),
	}
}

// RequestID returns the ID of the request this response answers.
func (r *Response) RequestID() string { return r.requestID }

// Domain returns the advisor domain that produced the response.
func (r *Response) Domain() string { return r.domain }

// Status returns the consultation status. Never empty on a built response.
func (r *Response) Status() Status { return r.status }

// IsSuccess reports whether the consultation succeeded.
func (r *Response) IsSuccess() bool { return r.status == StatusSuccess }

// Output returns the guidance text.
func (r *Response) Output() string { return r.output }

// Confidence returns the advisor's confidence in [0, 1].
func (r *Response) Confidence() float64 { return r.confidence }

// Recommendations returns a copy of the recommendation list.
func (r *Response) Recommendations() []string {
	if len(r.recommendations) == 0 {
		return nil
	}
	out := make([]string, len(r.recommendations))
	copy(out, r.recommendations)
	return out
}

// Metadata returns a copy of the response metadata.
func (r *Response) Metadata() map[string]any {
	if len(r.metadata) == 0 {
		return nil
	}
	out := make(map[string]any, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

// ProcessingTime returns how long the consultation took. Stamped by the Manager.
func (r *Response) ProcessingTime() time.Duration { return r.processingTime }

// Timestamp returns when the response was built.
func (r *Response) Timestamp() time.Time { return r.timestamp }
