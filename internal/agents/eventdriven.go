// ABOUTME: Event-driven advisor covering brokers, schemas, and saga flow.
// ABOUTME: Flags unversioned topics from an EventDrivenContext view.

package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/positivity/advisor-gateway/internal/advisor"
)

// EventDrivenAgent advises on messaging topologies and event contracts.
type EventDrivenAgent struct {
	baseAgent
}

// NewEventDrivenAgent builds the event-driven advisor.
func NewEventDrivenAgent() *EventDrivenAgent {
	return &EventDrivenAgent{baseAgent{
		domain: advisor.DomainEventDriven,
		capabilities: []string{
			"event-sourcing",
			"message-brokers",
			"event-schema-design",
			"saga-patterns",
			"event-streaming",
		},
	}}
}

func (a *EventDrivenAgent) Handle(_ context.Context, req *advisor.Request) (*advisor.Response, error) {
	ec := advisor.NewEventDrivenContext(advisor.EventDrivenParams{
		Brokers:           listProperty(req, "brokers"),
		Topics:            listProperty(req, "topics"),
		DeliveryGuarantee: req.Context.PropertyOr("delivery_guarantee", ""),
	})
	for _, pair := range listProperty(req, "schemas") {
		if topic, version, ok := strings.Cut(pair, "="); ok {
			ec.SetSchema(strings.TrimSpace(topic), strings.TrimSpace(version))
		}
	}

	recs := []string{
		"make consumers idempotent; at-least-once delivery is the realistic default",
		"version event schemas from day one and only evolve them additively",
	}
	if unversioned := ec.UnversionedTopics(); len(unversioned) > 0 {
		recs = append(recs, fmt.Sprintf("declare schemas for topics: %s", strings.Join(unversioned, ", ")))
	}
	if ec.DeliveryGuarantee() == "" {
		recs = append(recs, "state the delivery guarantee explicitly; consumers design around it")
	}

	return advisor.Success(advisor.ResponseParams{
		Domain:          a.domain,
		Output:          "Event-driven recommendation: " + primaryQuery(req),
		Confidence:      0.8,
		Recommendations: recs,
		Metadata: map[string]any{
			"brokers": ec.Brokers(),
			"topics":  ec.Topics(),
		},
	}), nil
}
