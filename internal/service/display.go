package service

import (
	"context"
	"errors"
	"fmt"

	"pixoonair/internal/logger"
	"pixoonair/internal/models"
)

// DeviceClient is the subset of the Pixoo client the orchestrator needs.
type DeviceClient interface {
	DiscoverDevices(ctx context.Context) ([]models.Device, error)
	GetChannel(ctx context.Context, ip string) (models.ChannelID, error)
	SetChannel(ctx context.Context, ip string, ch models.ChannelID) error
	PlayMediaByID(ctx context.Context, ip, fileID string) error
	PlayMediaByURL(ctx context.Context, ip, url string) error
}

// SettingsLoader returns the current user settings.
type SettingsLoader interface {
	LoadSettings(ctx context.Context) (models.AppSettings, error)
}

// ModeRecorder is told about every display action outcome.
type ModeRecorder interface {
	RecordMode(ctx context.Context, mode models.DisplayMode, device string, err error)
}

var (
	ErrUnknownChannel     = errors.New("current channel is unknown")
	ErrInvalidDisplayMode = errors.New("invalid display mode: must be normal or onAir")
)

// ParseDisplayMode validates a requested display mode.
func ParseDisplayMode(s string) (models.DisplayMode, error) {
	switch models.DisplayMode(s) {
	case models.DisplayModeNormal, models.DisplayModeOnAir:
		return models.DisplayMode(s), nil
	default:
		return "", ErrInvalidDisplayMode
	}
}

// DisplayService drives the target device from the persisted settings.
type DisplayService struct {
	settings SettingsLoader
	client   DeviceClient
	recorder ModeRecorder
	log      *logger.Logger
}

// NewDisplayService wires the orchestrator. recorder and log may be nil.
func NewDisplayService(settings SettingsLoader, client DeviceClient, recorder ModeRecorder, log *logger.Logger) *DisplayService {
	if log == nil {
		log = logger.NewNop()
	}
	return &DisplayService{settings: settings, client: client, recorder: recorder, log: log}
}

// ChangeDisplayMode runs the requested action synchronously.
func (s *DisplayService) ChangeDisplayMode(ctx context.Context, mode models.DisplayMode) error {
	switch mode {
	case models.DisplayModeNormal:
		return s.ActivateNormalMode(ctx)
	case models.DisplayModeOnAir:
		return s.ActivateOnAirMode(ctx)
	default:
		return ErrInvalidDisplayMode
	}
}

// ActivateNormalMode re-applies whatever channel the device is already on.
// Rewriting the channel stops a GIF started by ActivateOnAirMode.
func (s *DisplayService) ActivateNormalMode(ctx context.Context) error {
	device, err := s.run(ctx, models.DisplayModeNormal, func(ctx context.Context, _ models.AppSettings, d models.Device) error {
		ch, err := s.client.GetChannel(ctx, d.DevicePrivateIP)
		if err != nil {
			return err
		}
		if !ch.Known() {
			return fmt.Errorf("%w: %s", ErrUnknownChannel, ch)
		}
		return s.client.SetChannel(ctx, d.DevicePrivateIP, ch)
	})
	s.record(ctx, models.DisplayModeNormal, device, err)
	return err
}

// ActivateOnAirMode plays the configured media. Exactly one source is tried,
// chosen by GifFileType; an empty value for that source is a no-op.
func (s *DisplayService) ActivateOnAirMode(ctx context.Context) error {
	device, err := s.run(ctx, models.DisplayModeOnAir, func(ctx context.Context, st models.AppSettings, d models.Device) error {
		switch {
		case st.GifFileType == models.GifFileTypeID && st.GifFileID != "":
			return s.client.PlayMediaByID(ctx, d.DevicePrivateIP, st.GifFileID)
		case st.GifFileType == models.GifFileTypeURL && st.GifFileURL != "":
			return s.client.PlayMediaByURL(ctx, d.DevicePrivateIP, st.GifFileURL)
		default:
			s.log.Infow("display_on_air_no_media", "gif_file_type", st.GifFileType)
			return nil
		}
	})
	s.record(ctx, models.DisplayModeOnAir, device, err)
	return err
}

type deviceAction func(ctx context.Context, st models.AppSettings, d models.Device) error

// run loads settings, resolves the target device and applies action.
// A missing device is success: the action is skipped and "" is returned as
// the device name.
func (s *DisplayService) run(ctx context.Context, mode models.DisplayMode, action deviceAction) (string, error) {
	st, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return "", err
	}

	device, found, err := s.findTargetDevice(ctx, st.TargetDeviceName)
	if err != nil {
		return "", err
	}
	if !found {
		s.log.Warnw("display_target_not_found", "mode", mode, "target_device_name", st.TargetDeviceName)
		return "", nil
	}

	s.log.Infow("display_device_found",
		"mode", mode,
		"device_id", device.DeviceID,
		"device_name", device.DeviceName,
		"ip", device.DevicePrivateIP,
		"mac", device.DeviceMac,
		"hardware", device.Hardware,
	)
	if err := action(ctx, st, device); err != nil {
		return device.DeviceName, fmt.Errorf("%s on %q: %w", mode, device.DeviceName, err)
	}
	return device.DeviceName, nil
}

// findTargetDevice discovers devices and picks the one named exactly name.
func (s *DisplayService) findTargetDevice(ctx context.Context, name string) (models.Device, bool, error) {
	if name == "" {
		return models.Device{}, false, nil
	}
	devices, err := s.client.DiscoverDevices(ctx)
	if err != nil {
		return models.Device{}, false, err
	}
	for _, d := range devices {
		if d.DeviceName == name {
			return d, true, nil
		}
	}
	return models.Device{}, false, nil
}

func (s *DisplayService) record(ctx context.Context, mode models.DisplayMode, device string, err error) {
	if err != nil {
		s.log.Errorw("display_action_failed", "mode", mode, "err", err)
	}
	if s.recorder != nil {
		s.recorder.RecordMode(ctx, mode, device, err)
	}
}
