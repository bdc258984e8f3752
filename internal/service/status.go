package service

import (
	"context"
	"sync"
	"time"

	"pixoonair/internal/logger"
	"pixoonair/internal/models"
	"pixoonair/internal/repository"

	"github.com/google/uuid"
)

// StatusService keeps the latest camera edge and display action in memory
// and mirrors each of them into the activity log.
type StatusService struct {
	eventRepo repository.EventRepo
	log       *logger.Logger

	mu             sync.RWMutex
	st             models.Status
	monitorRunning func() bool

	logMu     sync.RWMutex
	logClosed bool
}

func NewStatusService(eventRepo repository.EventRepo, log *logger.Logger) *StatusService {
	if log == nil {
		log = logger.NewNop()
	}
	return &StatusService{
		eventRepo: eventRepo,
		log:       log,
		st:        models.Status{Camera: models.CameraUnknown},
	}
}

// SetMonitorCheck installs the function reporting whether the camera
// monitor is alive.
func (s *StatusService) SetMonitorCheck(fn func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitorRunning = fn
}

// GetStatus returns a copy of the current snapshot.
func (s *StatusService) GetStatus(ctx context.Context) (models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.st
	if s.monitorRunning != nil {
		out.MonitorRunning = s.monitorRunning()
	}
	return out, nil
}

// RecordCamera updates the in-memory camera state. It does no I/O and is
// safe to call from the monitor's reader goroutine.
func (s *StatusService) RecordCamera(state models.CameraState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Camera = state
	s.st.CameraChangedAt = time.Now().UTC()
}

// LogCamera appends a camera edge to the activity log.
func (s *StatusService) LogCamera(ctx context.Context, state models.CameraState) {
	typ, desc := models.EventCameraOff, "Camera capture stopped"
	if state == models.CameraCapturing {
		typ, desc = models.EventCameraOn, "Camera capture started"
	}
	s.appendEvent(ctx, models.ActivityEvent{Type: typ, Description: desc})
}

// RecordMode implements ModeRecorder.
func (s *StatusService) RecordMode(ctx context.Context, mode models.DisplayMode, device string, err error) {
	now := time.Now().UTC()

	s.mu.Lock()
	s.st.LastMode = mode
	s.st.LastModeAt = now
	s.st.TargetDeviceName = device
	s.st.LastModeError = ""
	if err != nil {
		s.st.LastModeError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.appendEvent(ctx, models.ActivityEvent{
			OccurredAt:  now,
			Type:        models.EventError,
			Description: err.Error(),
			Metadata:    map[string]any{"mode": mode, "device": device},
		})
		return
	}

	typ, desc := models.EventModeNormal, "Display switched to normal"
	if mode == models.DisplayModeOnAir {
		typ, desc = models.EventModeOnAir, "Display switched to on-air"
	}
	meta := map[string]any{"device": device}
	if device == "" {
		desc += " (no matching device)"
		meta["skipped"] = true
	}
	s.appendEvent(ctx, models.ActivityEvent{OccurredAt: now, Type: typ, Description: desc, Metadata: meta})
}

// CloseLog stops mirroring into the activity log and waits for appends
// already in flight. Status keeps updating in memory.
func (s *StatusService) CloseLog() {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	s.logClosed = true
}

func (s *StatusService) appendEvent(ctx context.Context, ev models.ActivityEvent) {
	if s.eventRepo == nil {
		return
	}
	s.logMu.RLock()
	defer s.logMu.RUnlock()
	if s.logClosed {
		s.log.Debugw("activity_log_closed", "type", ev.Type)
		return
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		s.log.Errorw("activity_log_append_failed", "type", ev.Type, "err", err)
	}
}
