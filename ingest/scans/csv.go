// Package scans is the intake edge of the activity-ingestion pipeline.
// Both the CSV importer and the Kafka consumer normalize every instant to
// UTC and apply the fixed default window width here, so downstream code
// never re-derives either.
package scans

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"warepulse.io/warepulse/core/models"
	"warepulse.io/warepulse/utils"
)

// DefaultWindowMinutes is the width applied when the source reports no
// end time for a scan event.
const DefaultWindowMinutes = 10

// ParseScanCSV parses a scanner export with header
// Ref,EmployeeID,RoleID,Items,Start,End. End may be empty; the window then
// gets the fixed default width. Bare timestamps are interpreted in loc and
// converted to UTC.
func ParseScanCSV(r io.Reader, loc *time.Location, defaultWidth time.Duration) ([]models.ActivityWindow, error) {
	rows, err := utils.ParseCSV(r)
	if err != nil {
		return nil, err
	}

	if defaultWidth <= 0 {
		defaultWidth = DefaultWindowMinutes * time.Minute
	}

	var windows []models.ActivityWindow
	for i, row := range rows {
		if i == 0 {
			continue
		}

		if len(row) < 6 {
			return nil, fmt.Errorf("row %d: expected 6 columns, got %d", i, len(row))
		}

		employeeID, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid employee id: %w", i, err)
		}
		roleID, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid role id: %w", i, err)
		}
		items, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid item count: %w", i, err)
		}
		if items < 0 {
			return nil, fmt.Errorf("row %d: item count must be >= 0", i)
		}

		start, err := utils.ParseTimeIn(row[4], loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid start: %w", i, err)
		}

		end := start.Add(defaultWidth)
		if row[5] != "" {
			parsed, err := utils.ParseTimeIn(row[5], loc)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid end: %w", i, err)
			}
			end = *parsed
		}

		windows = append(windows, models.ActivityWindow{
			EmployeeID:  int32(employeeID),
			RoleID:      int32(roleID),
			ItemCount:   int32(items),
			StartAt:     *start,
			EndAt:       end,
			Source:      "csv",
			ExternalRef: row[0],
		})
	}

	return windows, nil
}
