package service

import "time"

// LogFilter selects activity log entries by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "CAMERA_ON", "CAMERA_OFF", "MODE_NORMAL", "MODE_ON_AIR", "ERROR"
}
