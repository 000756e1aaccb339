package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://rent.campus.edu
  timeout_seconds: 5
session:
  path: /tmp/campusrent-test.db
payment:
  key_id: rzp_test_123
  callback_port: 8765
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://rent.campus.edu", cfg.API.BaseURL)
	assert.Equal(t, "wss://rent.campus.edu/ws/chat", cfg.API.WebSocketURL)
	assert.Equal(t, 5, cfg.API.TimeoutSeconds)
	assert.Equal(t, 3, cfg.API.BreakerFailures)
	assert.Equal(t, "rzp_test_123", cfg.Payment.KeyID)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, "127.0.0.1:8765", cfg.GetCallbackAddress())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 2000, cfg.Booking.RedirectDelayMillis)
	assert.NotEmpty(t, cfg.Scheduler.RefreshBookings)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CAMPUSRENT_SESSION_PATH", filepath.Join(t.TempDir(), "s.db"))

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, "ws://localhost:5000/ws/chat", cfg.API.WebSocketURL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: http://localhost:5000\n")
	t.Setenv("CAMPUSRENT_API_URL", "http://api.internal:8080")
	t.Setenv("CAMPUSRENT_LOG_LEVEL", "error")
	t.Setenv("CAMPUSRENT_SESSION_PATH", "/tmp/override.db")
	t.Setenv("CAMPUSRENT_PAYMENT_KEY_ID", "rzp_env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:8080", cfg.API.BaseURL)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "/tmp/override.db", cfg.Session.Path)
	assert.Equal(t, "rzp_env", cfg.Payment.KeyID)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"Empty base url", Config{}},
		{"Bad scheme", Config{API: APIConfig{BaseURL: "ftp://example.com"}}},
		{"Negative timeout", Config{API: APIConfig{BaseURL: "http://x", TimeoutSeconds: -1}}},
		{"Bad callback port", Config{API: APIConfig{BaseURL: "http://x"}, Payment: PaymentConfig{CallbackPort: 70000}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Session.Path = "/tmp/x.db"
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestGetSecurityLevel(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   SecurityLevel
	}{
		{http.MethodPost, "/api/auth/login", SecurityPublic},
		{http.MethodPost, "/api/auth/register", SecurityPublic},
		{http.MethodGet, "/api/items", SecurityPublic},
		{http.MethodGet, "/api/items/abc123", SecurityPublic},
		{http.MethodGet, "/api/items/abc123/booked-dates", SecurityPublic},
		{http.MethodGet, "/api/items/mine", SecurityAccess},
		{http.MethodPost, "/api/items", SecurityAccess},
		{http.MethodDelete, "/api/items/abc123", SecurityAccess},
		{http.MethodGet, "/api/bookings/my", SecurityAccess},
		{http.MethodPost, "/api/bookings/b1/return/verify", SecurityAccess},
		{http.MethodGet, "/api/unknown", SecurityAccess},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSecurityLevel(tt.method, tt.path))
		})
	}
}
