package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug", "json")

	WithService("bookings").Info("booking confirmed", "booking_id", "b-1", "days", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "booking confirmed", entry["message"])
	assert.Equal(t, "bookings", entry["service"])
	assert.Equal(t, "b-1", entry["booking_id"])
	assert.EqualValues(t, 3, entry["days"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn", "json")

	Debug("hidden")
	Info("hidden too")
	ExternalServiceResult("backend", "GET /api/items", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "boom")
	assert.Contains(t, lines[0], `"level":"warn"`)
}
