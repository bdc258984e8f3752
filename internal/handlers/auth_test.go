package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pixoonair/internal/service"
)

func postJSON(r http.Handler, path, body string, hdr http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_IssueToken(t *testing.T) {
	cases := []struct {
		name     string
		auth     *mockAuth
		body     string
		wantCode int
		wantTok  string
	}{
		{
			name:     "success",
			auth:     &mockAuth{enabled: true, genTokenToken: "tok123"},
			body:     `{"passphrase":"open sesame"}`,
			wantCode: http.StatusOK,
			wantTok:  "tok123",
		},
		{
			name:     "wrong passphrase",
			auth:     &mockAuth{enabled: true, genTokenErr: service.ErrInvalidPassphrase},
			body:     `{"passphrase":"nope"}`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "auth disabled",
			auth:     &mockAuth{genTokenErr: service.ErrAuthDisabled},
			body:     `{"passphrase":"x"}`,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "bad body",
			auth:     &mockAuth{enabled: true},
			body:     `{"passphrase":1}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing passphrase",
			auth:     &mockAuth{enabled: true, genTokenErr: errors.New("unexpected")},
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: tc.auth})

			w := postJSON(r, "/auth/token", tc.body, nil)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantTok == "" {
				return
			}
			var m map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &m)
			if m["token"] != tc.wantTok {
				t.Fatalf("expected token %s, got %v", tc.wantTok, m["token"])
			}
			if tc.auth.lastPassphrase != "open sesame" {
				t.Fatalf("passphrase not forwarded: %q", tc.auth.lastPassphrase)
			}
		})
	}
}
