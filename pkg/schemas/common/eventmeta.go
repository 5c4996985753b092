package common

type EventMeta struct {
	EventType  string // e.g. "notification.dispatched.v1"
	Exchange   string // e.g. "notification.events"
	RoutingKey string // e.g. "notification.dispatched.v1"
}
