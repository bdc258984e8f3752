package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pixoonair/internal/models"
	"pixoonair/internal/service"
)

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := doRequest(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
}

func TestAPIRequiresTokenWhenEnabled(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{enabled: true},
		Status:        &mockStatus{},
	}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/status", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
}

func TestSettingsHandlers(t *testing.T) {
	settings := &mockSettings{settings: models.AppSettings{
		TargetDeviceName: "Desk",
		GifFileID:        models.DefaultGifFileID,
		GifFileType:      models.GifFileTypeID,
	}}
	r := newTestRouter(&service.Service{Settings: settings})

	w := doRequest(r, http.MethodGet, "/api/v1/settings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d body=%s", w.Code, w.Body.String())
	}
	var got models.AppSettings
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != settings.settings {
		t.Fatalf("got %+v; want %+v", got, settings.settings)
	}

	body := `{"targetDeviceName":"Kitchen","gifFileId":"","gifFileUrl":"http://x/a.gif","gifFileType":"url"}`
	w = doRequest(r, http.MethodPut, "/api/v1/settings", body)
	if w.Code != http.StatusOK {
		t.Fatalf("put status=%d body=%s", w.Code, w.Body.String())
	}
	want := models.AppSettings{TargetDeviceName: "Kitchen", GifFileURL: "http://x/a.gif", GifFileType: models.GifFileTypeURL}
	if len(settings.saved) != 1 || settings.saved[0] != want {
		t.Fatalf("saved = %+v", settings.saved)
	}
}

func TestSettingsHandlers_Errors(t *testing.T) {
	cases := []struct {
		name     string
		settings *mockSettings
		method   string
		body     string
		wantCode int
	}{
		{"load failure", &mockSettings{loadErr: errors.New("db")}, http.MethodGet, "", http.StatusInternalServerError},
		{"bad json", &mockSettings{}, http.MethodPut, `{"gifFileType":`, http.StatusBadRequest},
		{"invalid type", &mockSettings{saveErr: fmt.Errorf("%w %q", models.ErrInvalidGifFileType, "gif")}, http.MethodPut, `{"gifFileType":"gif"}`, http.StatusBadRequest},
		{"save failure", &mockSettings{saveErr: errors.New("disk full")}, http.MethodPut, `{"gifFileType":"id"}`, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Settings: tc.settings})
			w := doRequest(r, tc.method, "/api/v1/settings", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestDisplayModeHandler(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		err       error
		wantCode  int
		wantModes int
	}{
		{"on air", `{"mode":"onAir"}`, nil, http.StatusOK, 1},
		{"normal", `{"mode":"normal"}`, nil, http.StatusOK, 1},
		{"invalid mode", `{"mode":"party"}`, nil, http.StatusBadRequest, 0},
		{"missing mode", `{}`, nil, http.StatusBadRequest, 0},
		{"unknown channel", `{"mode":"normal"}`, fmt.Errorf("normal on %q: %w", "Desk", service.ErrUnknownChannel), http.StatusConflict, 1},
		{"device failure", `{"mode":"onAir"}`, errors.New("dial tcp: timeout"), http.StatusBadGateway, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			display := &mockDisplay{err: tc.err}
			status := &mockStatus{state: models.Status{LastMode: models.DisplayModeOnAir}}
			r := newTestRouter(&service.Service{Display: display, Status: status})

			w := doRequest(r, http.MethodPost, "/api/v1/display/mode", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if len(display.modes) != tc.wantModes {
				t.Fatalf("display called %d times; want %d", len(display.modes), tc.wantModes)
			}
			if tc.wantCode != http.StatusOK {
				return
			}
			var resp struct {
				Status string        `json:"status"`
				Mode   string        `json:"mode"`
				State  models.Status `json:"state"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Status != statusModeSet || resp.Mode != string(display.modes[0]) {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestStatusHandler(t *testing.T) {
	st := models.Status{Camera: models.CameraCapturing, MonitorRunning: true, TargetDeviceName: "Desk"}
	r := newTestRouter(&service.Service{Status: &mockStatus{state: st}})

	w := doRequest(r, http.MethodGet, "/api/v1/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got models.Status
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Camera != models.CameraCapturing || !got.MonitorRunning || got.TargetDeviceName != "Desk" {
		t.Fatalf("unexpected status: %+v", got)
	}

	r = newTestRouter(&service.Service{Status: &mockStatus{err: errors.New("boom")}})
	w = doRequest(r, http.MethodGet, "/api/v1/status", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestEventsHandler_ListAndValidation(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.ActivityEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventCameraOn, Description: "on"},
		{EventID: "e2", OccurredAt: now.Add(time.Second), Type: models.EventModeOnAir, Description: "on air"},
	}
	logs := &mockEventLog{resp: events}
	r := newTestRouter(&service.Service{EventLog: logs})

	w := doRequest(r, http.MethodGet, "/api/v1/events?from=notatime", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	q := "/api/v1/events?from=" + now.Format(time.RFC3339) + "&to=2025-09-10&type=mode_on_air"
	w = doRequest(r, http.MethodGet, q, "")
	if w.Code != http.StatusOK {
		t.Fatalf("events status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                    `json:"count"`
		Events []models.ActivityEvent `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastFilter.Type != models.EventModeOnAir {
		t.Fatalf("expected type MODE_ON_AIR, got %q", logs.lastFilter.Type)
	}
	wantTo := time.Date(2025, time.September, 10, 23, 59, 59, 999999999, time.UTC)
	if !logs.lastFilter.To.Equal(wantTo) {
		t.Fatalf("date-only 'to' should be end of day: got %v", logs.lastFilter.To)
	}
	if !logs.lastFilter.From.Equal(now) {
		t.Fatalf("from = %v; want %v", logs.lastFilter.From, now)
	}
}

func TestEventsHandler_ServiceErrors(t *testing.T) {
	// real service so validation errors come from the filter checks
	r := newTestRouter(&service.Service{EventLog: service.NewEventLogService(nil)})
	w := doRequest(r, http.MethodGet, "/api/v1/events?from=2025-01-02&to=2025-01-01T00:00:00Z", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %d", w.Code)
	}
	w = doRequest(r, http.MethodGet, "/api/v1/events?type=telemetry", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", w.Code)
	}

	r = newTestRouter(&service.Service{EventLog: &mockEventLog{err: errors.New("db down")}})
	w = doRequest(r, http.MethodGet, "/api/v1/events", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestQuitHandler(t *testing.T) {
	lc := &mockLifecycle{}
	r := newTestRouter(&service.Service{Lifecycle: lc})

	for i, want := range []string{statusShuttingDown, statusAlreadyQuit} {
		w := doRequest(r, http.MethodPost, "/api/v1/app/quit", "")
		if w.Code != http.StatusAccepted {
			t.Fatalf("call %d: status=%d", i, w.Code)
		}
		var m map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &m)
		if m["status"] != want {
			t.Fatalf("call %d: status %q; want %q", i, m["status"], want)
		}
	}
	if lc.calls != 2 {
		t.Fatalf("RequestExit calls = %d", lc.calls)
	}
}
