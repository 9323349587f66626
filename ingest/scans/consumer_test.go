package scans

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConsumer(t *testing.T, tz string) *Consumer {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	return &Consumer{
		Location:     loc,
		DefaultWidth: DefaultWindowMinutes * time.Minute,
		Source:       "scan-stream",
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestConsumerDecode(t *testing.T) {
	c := testConsumer(t, "UTC")

	window, err := c.decode([]byte(`{
		"ref": "evt-1",
		"employeeId": 7,
		"roleId": 2,
		"items": 12,
		"start": "2026-03-09T08:00:00Z",
		"end": "2026-03-09T08:45:00Z"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "evt-1", window.ExternalRef)
	assert.Equal(t, "scan-stream", window.Source)
	assert.Equal(t, int32(7), window.EmployeeID)
	assert.Equal(t, int32(2), window.RoleID)
	assert.Equal(t, int32(12), window.ItemCount)
	assert.True(t, window.StartAt.Equal(time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)))
	assert.True(t, window.EndAt.Equal(time.Date(2026, 3, 9, 8, 45, 0, 0, time.UTC)))
}

func TestConsumerDecodeDefaultWidth(t *testing.T) {
	c := testConsumer(t, "UTC")

	window, err := c.decode([]byte(`{"ref":"evt-1","employeeId":7,"roleId":2,"items":1,"start":"2026-03-09T08:00:00Z"}`))
	require.NoError(t, err)
	assert.True(t, window.EndAt.Equal(window.StartAt.Add(DefaultWindowMinutes*time.Minute)))
}

func TestConsumerDecodeBareTimestampUsesLocation(t *testing.T) {
	c := testConsumer(t, "Australia/Brisbane")

	window, err := c.decode([]byte(`{"ref":"evt-1","employeeId":7,"roleId":2,"items":1,"start":"2026-03-09 08:00:00"}`))
	require.NoError(t, err)
	assert.True(t, window.StartAt.Equal(time.Date(2026, 3, 8, 22, 0, 0, 0, time.UTC)))
}

func TestConsumerDecodeRejectsMalformedEvents(t *testing.T) {
	c := testConsumer(t, "UTC")

	tests := []struct {
		name  string
		value string
	}{
		{name: "Invalid JSON", value: `{"ref":`},
		{name: "Missing ref", value: `{"employeeId":7,"roleId":2,"items":1,"start":"2026-03-09T08:00:00Z"}`},
		{name: "Negative items", value: `{"ref":"evt-1","employeeId":7,"roleId":2,"items":-1,"start":"2026-03-09T08:00:00Z"}`},
		{name: "Missing start", value: `{"ref":"evt-1","employeeId":7,"roleId":2,"items":1}`},
		{name: "Invalid end", value: `{"ref":"evt-1","employeeId":7,"roleId":2,"items":1,"start":"2026-03-09T08:00:00Z","end":"soon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.decode([]byte(tt.value))
			assert.Error(t, err)
		})
	}
}
