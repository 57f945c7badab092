package events

import "time"

// Event is the contract for everything the assistant publishes to the bus:
// handoff requests, served recommendations, ended conversations.
type Event interface {
	// EventType returns the event code (e.g., "STAFF_HANDOFF_REQUESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent carries the common fields; the constructors in
// assistant_events.go build the concrete events on top of it.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
