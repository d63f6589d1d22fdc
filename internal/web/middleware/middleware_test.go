package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NikaNal/dept-of-excellence-training/internal/config"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func echoRemoteAddr() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.RemoteAddr))
	})
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "no trusted proxies ignores headers",
			remote:  "203.0.113.9:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "203.0.113.9:5000",
		},
		{
			name:    "trusted proxy uses X-Real-IP",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			want:    "198.51.100.7",
		},
		{
			name:    "trusted proxy uses first X-Forwarded-For hop",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.2"},
			want:    "198.51.100.7",
		},
		{
			name:    "single address entry",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:4000",
			headers: map[string]string{"X-Real-IP": "198.51.100.8"},
			want:    "198.51.100.8",
		},
		{
			name:    "untrusted peer keeps RemoteAddr",
			trusted: []string{"10.0.0.0/8"},
			remote:  "192.0.2.1:5000",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			want:    "192.0.2.1:5000",
		},
		{
			name:    "invalid header value ignored",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			want:    "10.1.2.3:5000",
		},
		{
			name:    "invalid trusted entry skipped",
			trusted: []string{"garbage"},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			want:    "10.1.2.3:5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := TrustedRealIP(tt.trusted)(echoRemoteAddr())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		cfg      config.SecurityConfig
		headers  map[string]string
		want     int
		wantCode string
	}{
		{
			name: "disabled passes through",
			cfg:  config.SecurityConfig{RequireAPIKey: false},
			want: http.StatusNoContent,
		},
		{
			name:     "missing key",
			cfg:      config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			want:     http.StatusUnauthorized,
			wantCode: CodeMissingKey,
		},
		{
			name:     "wrong key",
			cfg:      config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			headers:  map[string]string{"X-API-Key": "nope"},
			want:     http.StatusForbidden,
			wantCode: CodeInvalidKey,
		},
		{
			name:    "header key",
			cfg:     config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}},
			headers: map[string]string{"X-API-Key": "k2"},
			want:    http.StatusNoContent,
		},
		{
			name:    "bearer token",
			cfg:     config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			headers: map[string]string{"Authorization": "Bearer k1"},
			want:    http.StatusNoContent,
		},
		{
			name:     "no keys configured rejects everything",
			cfg:      config.SecurityConfig{RequireAPIKey: true},
			headers:  map[string]string{"X-API-Key": "k1"},
			want:     http.StatusForbidden,
			wantCode: CodeInvalidKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			h := APIKeyAuth(&cfg)(ok)

			req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.wantCode == "" {
				return
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code = %q, want %q", body["code"], tt.wantCode)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/schools/X9", nil)
	req.Header.Set("User-Agent", "test-agent")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}

	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Errorf("status = %v, want 404", entry["status"])
	}
	if entry["bytes"] != float64(len("missing")) {
		t.Errorf("bytes = %v, want %d", entry["bytes"], len("missing"))
	}
	if entry["path"] != "/api/schools/X9" {
		t.Errorf("path = %v", entry["path"])
	}
	if id, _ := entry["request_id"].(string); strings.TrimSpace(id) == "" {
		t.Error("request_id missing from log line")
	}
}
