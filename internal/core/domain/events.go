package domain

import "time"

// EventType defines the type of real-time event.
type EventType string

const (
	// EventSnapshotRefreshed fires after the ticket snapshot is replaced.
	EventSnapshotRefreshed EventType = "SNAPSHOT_REFRESHED"
)

// Event is the payload sent over WebSocket to connected admin UIs.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// SnapshotRefreshedPayload describes a completed snapshot reload.
type SnapshotRefreshedPayload struct {
	TicketCount int       `json:"ticketCount"`
	LoadedAt    time.Time `json:"loadedAt"`
}
