package common

// Envelope is the broker frame around every event this module emits.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// GenericEnvelope is the typed form consumers decode into.
type GenericEnvelope[T any] struct {
	Meta Meta `json:"meta"`
	Data T    `json:"data"`
}

// NewEnvelope wraps data for the event described by em.
func NewEnvelope(em EventMeta, producer string, correlationID string, data any) Envelope {
	return Envelope{
		Meta: NewMeta(em.EventType, producer, correlationID),
		Data: data,
	}
}
