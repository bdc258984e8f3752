package service

import (
	"context"

	"pixoonair/internal/logger"
	"pixoonair/internal/models"
	"pixoonair/internal/repository"
)

type Authorization interface {
	Enabled() bool
	GenerateToken(passphrase string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Settings loads and saves the user configuration.
type Settings interface {
	LoadSettings(ctx context.Context) (models.AppSettings, error)
	SaveSettings(ctx context.Context, in models.AppSettings) error
}

// Display switches the target device between normal and on-air.
type Display interface {
	ChangeDisplayMode(ctx context.Context, mode models.DisplayMode) error
	ActivateNormalMode(ctx context.Context) error
	ActivateOnAirMode(ctx context.Context) error
}

// Status exposes the latest camera and display state.
type Status interface {
	GetStatus(ctx context.Context) (models.Status, error)
	RecordCamera(state models.CameraState)
	LogCamera(ctx context.Context, state models.CameraState)
	SetMonitorCheck(fn func() bool)
	CloseLog()
}

// EventLog exposes the activity log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error)
}

// Lifecycle accepts application exit requests.
type Lifecycle interface {
	RequestExit() bool
}

type Service struct {
	Settings
	Display
	Status
	EventLog
	Authorization
	Lifecycle
}

// NewService wires the repository layer and the device client into the
// concrete services.
func NewService(repos *repository.Repository, client DeviceClient, auth Authorization, lifecycle Lifecycle, log *logger.Logger) *Service {
	settings := NewSettingsService(repos.Settings)
	status := NewStatusService(repos.Events, log.Named("status"))
	return &Service{
		Settings:      settings,
		Display:       NewDisplayService(settings, client, status, log.Named("display")),
		Status:        status,
		EventLog:      NewEventLogService(repos.Events),
		Authorization: auth,
		Lifecycle:     lifecycle,
	}
}
