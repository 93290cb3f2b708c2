// Package events carries operational events out of the payment hub. Domain
// logic emits transport-agnostic events; the Kafka publisher (or a no-op in
// development) handles delivery.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an event stream.
type Kind string

const (
	// KindPaymentOperation covers dispatched payment operations.
	KindPaymentOperation Kind = "payment_operation"

	// KindSCAOperation covers SCA gate calls.
	KindSCAOperation Kind = "sca_operation"
)

// Event is one operational observation. Keep it transport-agnostic so sinks
// can fan out.
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category,omitempty"`
	Operation  string    `json:"operation"`
	Method     string    `json:"method,omitempty"`
	PaymentID  string    `json:"payment_id,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
}

// Publisher delivers events to the observability sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NewOperationEvent builds a payment-operation event.
func NewOperationEvent(category, operation, paymentID string, duration time.Duration, success bool) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       KindPaymentOperation,
		Timestamp:  time.Now().UTC(),
		Category:   category,
		Operation:  operation,
		PaymentID:  paymentID,
		DurationMS: duration.Milliseconds(),
		Success:    success,
	}
}

// NewSCAEvent builds an SCA gate event.
func NewSCAEvent(operation, method string, duration time.Duration, success bool) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       KindSCAOperation,
		Timestamp:  time.Now().UTC(),
		Operation:  operation,
		Method:     method,
		DurationMS: duration.Milliseconds(),
		Success:    success,
	}
}

// Emit publishes an event and logs a warning on failure. Both the logger
// and the publisher are optional; emission never fails the caller.
func Emit(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to publish event",
			"kind", event.Kind,
			"operation", event.Operation,
			"error", err,
		)
	}
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close()                               {}
