package handlers

import (
	"context"
	"net/http"
	"sync"

	"pixoonair/internal/models"
	"pixoonair/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	enabled       bool
	genTokenToken string
	genTokenErr   error
	parseSubject  string
	parseErr      error

	lastPassphrase string
	lastParseToken string
}

func (m *mockAuth) Enabled() bool { return m.enabled }

func (m *mockAuth) GenerateToken(passphrase string) (string, error) {
	m.lastPassphrase = passphrase
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseSubject, m.parseErr
}

type mockSettings struct {
	settings models.AppSettings
	loadErr  error
	saveErr  error
	saved    []models.AppSettings
}

func (m *mockSettings) LoadSettings(ctx context.Context) (models.AppSettings, error) {
	return m.settings, m.loadErr
}

func (m *mockSettings) SaveSettings(ctx context.Context, in models.AppSettings) error {
	m.saved = append(m.saved, in)
	return m.saveErr
}

type mockDisplay struct {
	err   error
	modes []models.DisplayMode
}

func (m *mockDisplay) ChangeDisplayMode(ctx context.Context, mode models.DisplayMode) error {
	m.modes = append(m.modes, mode)
	return m.err
}

func (m *mockDisplay) ActivateNormalMode(ctx context.Context) error {
	return m.ChangeDisplayMode(ctx, models.DisplayModeNormal)
}

func (m *mockDisplay) ActivateOnAirMode(ctx context.Context) error {
	return m.ChangeDisplayMode(ctx, models.DisplayModeOnAir)
}

type mockStatus struct {
	mu    sync.Mutex
	state models.Status
	err   error
}

func (m *mockStatus) GetStatus(ctx context.Context) (models.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.err
}

func (m *mockStatus) set(st models.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
}

func (m *mockStatus) RecordCamera(state models.CameraState)                   {}
func (m *mockStatus) LogCamera(ctx context.Context, state models.CameraState) {}
func (m *mockStatus) SetMonitorCheck(fn func() bool)                          {}
func (m *mockStatus) CloseLog()                                               {}

type mockEventLog struct {
	resp       []models.ActivityEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ActivityEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockLifecycle struct {
	calls int
}

func (m *mockLifecycle) RequestExit() bool {
	m.calls++
	return m.calls == 1
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
