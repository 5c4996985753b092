package common

import (
	"time"

	"github.com/google/uuid"
)

type Meta struct {
	// Dispatch attempt or request correlation ID
	CorrelationID *string `json:"correlation_id,omitempty"`
	// Unique event ID
	ID string `json:"id"`
	// Emitting service, e.g. notifyd
	Producer *string `json:"producer,omitempty"`
	// Timestamp when the event was emitted
	Time time.Time `json:"time"`
	// Event name and version, e.g. notification.dispatched.v1
	Type string `json:"type"`
}

// NewMeta stamps a fresh event ID and the current UTC time.
// Empty producer or correlation values are left unset.
func NewMeta(eventType, producer, correlationID string) Meta {
	m := Meta{
		ID:   uuid.NewString(),
		Time: time.Now().UTC(),
		Type: eventType,
	}
	if producer != "" {
		m.Producer = &producer
	}
	if correlationID != "" {
		m.CorrelationID = &correlationID
	}
	return m
}
