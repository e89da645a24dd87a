package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EventPublisher publishes negotiation lifecycle events to NATS for
// consumption by downstream services (dashboards, notifications).
//
// Subject convention: procurement.negotiation.<event_type>
// Event types: round_opened, reply_received, session_accepted,
//              session_completed, session_timed_out, session_abandoned,
//              decision_made, price_spike_detected
//
// All publish operations are non-fatal — errors are logged but never
// propagated to the caller, so event failures never interrupt negotiation
// operations.
type EventPublisher struct {
	conn *nats.Conn
	log  zerolog.Logger
}

// NegotiationEvent is the JSON schema published to NATS.
type NegotiationEvent struct {
	EventType  string                 `json:"event_type"`
	TaskID     string                 `json:"task_id"`
	SupplierID string                 `json:"supplier_id,omitempty"`
	SessionID  string                 `json:"session_id,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// NewEventPublisher creates a publisher backed by the given NATS connection.
func NewEventPublisher(conn *nats.Conn, log zerolog.Logger) *EventPublisher {
	return &EventPublisher{conn: conn, log: log}
}

// Publish publishes a negotiation event to NATS.
// Subject: procurement.negotiation.<eventType>
func (p *EventPublisher) Publish(eventType, taskID, supplierID, sessionID string, payload map[string]interface{}) {
	if p.conn == nil {
		return
	}

	event := &NegotiationEvent{
		EventType:  eventType,
		TaskID:     taskID,
		SupplierID: supplierID,
		SessionID:  sessionID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn().Err(err).Str("event_type", eventType).Msg("events: failed to marshal event")
		return
	}

	subject := fmt.Sprintf("procurement.negotiation.%s", eventType)
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Warn().Err(err).
			Str("subject", subject).
			Str("task_id", taskID).
			Msg("events: failed to publish NATS event (non-fatal)")
		return
	}

	p.log.Debug().
		Str("subject", subject).
		Str("task_id", taskID).
		Str("supplier_id", supplierID).
		Msg("events: event published")
}
