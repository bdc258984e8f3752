package models

import "time"

// Activity event types.
const (
	EventCameraOn   = "CAMERA_ON"
	EventCameraOff  = "CAMERA_OFF"
	EventModeNormal = "MODE_NORMAL"
	EventModeOnAir  = "MODE_ON_AIR"
	EventError      = "ERROR"
)

// ActivityEvent is a single entry of the activity log.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // CAMERA_ON | CAMERA_OFF | MODE_NORMAL | MODE_ON_AIR | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
