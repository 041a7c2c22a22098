package domain

import "time"

// EventType defines the type of real-time event.
type EventType string

const (
	EventDatasetReloaded EventType = "DATASET_RELOADED"
	EventPong            EventType = "PONG"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type      EventType   `json:"type"`
	Dataset   string      `json:"dataset,omitempty"` // Used for routing to dataset "rooms"
	Version   string      `json:"version,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}
