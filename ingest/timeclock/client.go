package timeclock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ShiftDTO is the provider's wire shape for one shift. ClockOut is absent
// while the employee is still clocked in. Timestamps are strings because
// the provider's offset convention is a deployment detail; the Adapter
// owns their interpretation.
type ShiftDTO struct {
	Ref      string  `json:"ref"`
	ClockIn  string  `json:"clockIn"`
	ClockOut *string `json:"clockOut"`
}

// Client is the time-clock provider API client.
type Client struct {
	Transport *Transport
	Shifts    *ShiftEndpoint
}

func NewClient(baseURL, token string) *Client {
	t := NewTransport(baseURL, token)
	return &Client{
		Transport: t,
		Shifts:    &ShiftEndpoint{transport: t},
	}
}

type ShiftEndpoint struct {
	transport *Transport
}

// ForDay fetches the shifts reported for an employee on a calendar day.
func (ep *ShiftEndpoint) ForDay(ctx context.Context, employeeID int32, day time.Time) ([]ShiftDTO, error) {
	body, err := ep.transport.Get(ctx,
		fmt.Sprintf("/api/v1/employees/%d/shifts", employeeID),
		map[string]string{"date": day.Format("2006-01-02")},
	)
	if err != nil {
		return nil, err
	}

	var shifts []ShiftDTO
	if err := json.Unmarshal(body, &shifts); err != nil {
		return nil, fmt.Errorf("failed to decode shifts response: %w", err)
	}
	return shifts, nil
}
