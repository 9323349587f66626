package scans

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScanCSV(t *testing.T) {
	input := strings.Join([]string{
		"Ref,EmployeeID,RoleID,Items,Start,End",
		"scan-1,7,1,30,2026-03-09 08:00:00,2026-03-09 09:00:00",
		"scan-2,7,2,5,2026-03-09 09:15:00,",
	}, "\n")

	windows, err := ParseScanCSV(strings.NewReader(input), time.UTC, 0)
	require.NoError(t, err)
	require.Len(t, windows, 2)

	first := windows[0]
	assert.Equal(t, "scan-1", first.ExternalRef)
	assert.Equal(t, "csv", first.Source)
	assert.Equal(t, int32(7), first.EmployeeID)
	assert.Equal(t, int32(1), first.RoleID)
	assert.Equal(t, int32(30), first.ItemCount)
	assert.True(t, first.StartAt.Equal(time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)))
	assert.True(t, first.EndAt.Equal(time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)))

	// Missing end gets the fixed default width.
	second := windows[1]
	assert.True(t, second.EndAt.Equal(second.StartAt.Add(DefaultWindowMinutes*time.Minute)))
}

func TestParseScanCSVCustomDefaultWidth(t *testing.T) {
	input := "Ref,EmployeeID,RoleID,Items,Start,End\n" +
		"scan-1,7,1,30,2026-03-09 08:00:00,\n"

	windows, err := ParseScanCSV(strings.NewReader(input), time.UTC, 5*time.Minute)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.True(t, windows[0].EndAt.Equal(windows[0].StartAt.Add(5*time.Minute)))
}

func TestParseScanCSVNormalizesTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Brisbane")
	require.NoError(t, err)

	input := "Ref,EmployeeID,RoleID,Items,Start,End\n" +
		"scan-1,7,1,30,2026-03-09 08:00:00,2026-03-09 09:00:00\n"

	windows, err := ParseScanCSV(strings.NewReader(input), loc, 0)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	// 08:00 AEST is 22:00 UTC the previous day.
	assert.True(t, windows[0].StartAt.Equal(time.Date(2026, 3, 8, 22, 0, 0, 0, time.UTC)))
}

func TestParseScanCSVRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{name: "Too few columns", row: "scan-1,7,1"},
		{name: "Bad employee id", row: "scan-1,x,1,30,2026-03-09 08:00:00,"},
		{name: "Bad role id", row: "scan-1,7,x,30,2026-03-09 08:00:00,"},
		{name: "Negative items", row: "scan-1,7,1,-5,2026-03-09 08:00:00,"},
		{name: "Bad start", row: "scan-1,7,1,30,yesterday,"},
		{name: "Bad end", row: "scan-1,7,1,30,2026-03-09 08:00:00,tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "Ref,EmployeeID,RoleID,Items,Start,End\n" + tt.row + "\n"
			_, err := ParseScanCSV(strings.NewReader(input), time.UTC, 0)
			assert.Error(t, err)
		})
	}
}
