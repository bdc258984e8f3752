package models

import "time"

// CameraState is the last capture edge observed in the OS log.
type CameraState string

const (
	CameraCapturing CameraState = "capturing"
	CameraIdle      CameraState = "idle"
	CameraUnknown   CameraState = "unknown" // nothing observed since start
)

// DisplayMode is the mode requested from the display.
type DisplayMode string

const (
	DisplayModeNormal DisplayMode = "normal"
	DisplayModeOnAir  DisplayMode = "onAir"
)

// Status is the in-memory snapshot served by /api/v1/status and /ws.
type Status struct {
	Camera           CameraState `json:"camera"`
	CameraChangedAt  time.Time   `json:"camera_changed_at,omitempty"`
	LastMode         DisplayMode `json:"last_mode,omitempty"`
	LastModeError    string      `json:"last_mode_error,omitempty"`
	LastModeAt       time.Time   `json:"last_mode_at,omitempty"`
	MonitorRunning   bool        `json:"monitor_running"`
	TargetDeviceName string      `json:"target_device_name,omitempty"`
}
