package service

import (
	"context"

	"pixoonair/internal/logger"
	"pixoonair/internal/models"
)

// CameraRecorder tracks camera edges.
type CameraRecorder interface {
	RecordCamera(state models.CameraState)
	LogCamera(ctx context.Context, state models.CameraState)
}

// CameraBridge turns monitor callbacks into dispatched display actions.
type CameraBridge struct {
	display    Display
	settings   SettingsLoader
	status     CameraRecorder
	dispatcher Dispatcher
	log        *logger.Logger
}

func NewCameraBridge(display Display, settings SettingsLoader, status CameraRecorder, dispatcher Dispatcher, log *logger.Logger) *CameraBridge {
	if log == nil {
		log = logger.NewNop()
	}
	return &CameraBridge{
		display:    display,
		settings:   settings,
		status:     status,
		dispatcher: dispatcher,
		log:        log,
	}
}

// OnCameraActive is the monitor's start-of-capture callback.
func (b *CameraBridge) OnCameraActive() {
	b.handle(models.CameraCapturing, "activate_on_air_mode", b.display.ActivateOnAirMode)
}

// OnCameraIdle is the monitor's end-of-capture callback.
func (b *CameraBridge) OnCameraIdle() {
	b.handle(models.CameraIdle, "activate_normal_mode", b.display.ActivateNormalMode)
}

func (b *CameraBridge) handle(state models.CameraState, name string, action func(context.Context) error) {
	if b.status != nil {
		b.status.RecordCamera(state)
	}
	b.dispatcher.Submit(b.queueKey(), name, func(ctx context.Context) error {
		if b.status != nil {
			b.status.LogCamera(ctx, state)
		}
		return action(ctx)
	})
}

// queueKey serializes actions per target device. The settings read is a
// local SQLite lookup.
func (b *CameraBridge) queueKey() string {
	st, err := b.settings.LoadSettings(context.Background())
	if err != nil {
		b.log.Warnw("camera_bridge_settings_failed", "err", err)
		return ""
	}
	return st.TargetDeviceName
}
