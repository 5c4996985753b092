package notifications

import (
	"time"

	"github.com/roboricindustries/raycon-notify/pkg/schemas/common"
)

const (
	RequestedEventType = "notification.dispatch.requested.v1"
	RequestedExchange  = "notification.internal"
	RequestedKey       = "notification.dispatch.requested.v1"

	DispatchedEventType = "notification.dispatched.v1"
	FailedEventType     = "notification.failed.v1"
	EventsExchange      = "notification.events"
)

var (
	RequestedMeta = common.EventMeta{
		EventType:  RequestedEventType,
		Exchange:   RequestedExchange,
		RoutingKey: RequestedKey,
	}
	DispatchedMeta = common.EventMeta{
		EventType:  DispatchedEventType,
		Exchange:   EventsExchange,
		RoutingKey: DispatchedEventType,
	}
	FailedMeta = common.EventMeta{
		EventType:  FailedEventType,
		Exchange:   EventsExchange,
		RoutingKey: FailedEventType,
	}
)

// DispatchedV1 is emitted once the notification transaction reached the
// requested confirmation depth.
type DispatchedV1 struct {
	AttemptID string `json:"attempt_id"`
	// Mode code, "1".."4"
	Mode string `json:"mode"`
	// Address passed to the contract
	Recipient string `json:"recipient"`
	// "<mode>+<pointer>" as submitted on-chain
	Identity string `json:"identity"`
	Pointer  string `json:"pointer"`
	TxHash   string `json:"tx_hash"`
	// Subset recipient count, zero for other modes
	RecipientCount int       `json:"recipient_count,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// FailedV1 is emitted when an attempt ends in the failed state.
type FailedV1 struct {
	AttemptID string `json:"attempt_id"`
	Mode      string `json:"mode"`
	Recipient string `json:"recipient,omitempty"`
	// validation | key_resolution | encryption | storage | chain | cancelled
	Kind string `json:"kind"`
	// Human readable reason, as shown to the channel owner
	Info string `json:"info"`
	// Set when the payload was stored before the failure
	Pointer  string    `json:"pointer,omitempty"`
	FailedAt time.Time `json:"failed_at"`
}
