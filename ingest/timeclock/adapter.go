package timeclock

import (
	"context"
	"fmt"
	"time"

	"warepulse.io/warepulse/engine"
	"warepulse.io/warepulse/utils"
)

// Adapter exposes the provider as an engine.ShiftProvider. Whether the
// provider reports UTC or a local zone is configuration of this adapter
// only; every instant leaving it is UTC, and nothing downstream converts
// again.
type Adapter struct {
	Client *Client
	// Location is the zone bare provider timestamps are interpreted in.
	// Timestamps that carry their own offset are honored as-is.
	Location *time.Location
	// Source tags the sessions created from this provider.
	Source string
}

// NewAdapter builds an adapter for a provider whose bare timestamps are in
// the named IANA timezone ("UTC" when the provider already normalizes).
func NewAdapter(client *Client, providerTimezone, source string) (*Adapter, error) {
	loc, err := time.LoadLocation(providerTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid provider timezone %q: %w", providerTimezone, err)
	}
	return &Adapter{Client: client, Location: loc, Source: source}, nil
}

func (a *Adapter) GetShifts(ctx context.Context, employeeID int32, day time.Time) ([]engine.ExternalShift, error) {
	dtos, err := a.Client.Shifts.ForDay(ctx, employeeID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts from provider: %w", err)
	}
	return a.Normalize(dtos)
}

// Normalize converts provider DTOs to UTC ExternalShifts. This is the one
// and only place provider timestamps are interpreted.
func (a *Adapter) Normalize(dtos []ShiftDTO) ([]engine.ExternalShift, error) {
	shifts := make([]engine.ExternalShift, 0, len(dtos))
	for _, dto := range dtos {
		start, err := utils.ParseTimeIn(dto.ClockIn, a.Location)
		if err != nil {
			return nil, fmt.Errorf("shift %s: invalid clock-in: %w", dto.Ref, err)
		}

		shift := engine.ExternalShift{
			ExternalRef: dto.Ref,
			Start:       *start,
			Source:      a.Source,
		}

		if dto.ClockOut != nil && *dto.ClockOut != "" {
			end, err := utils.ParseTimeIn(*dto.ClockOut, a.Location)
			if err != nil {
				return nil, fmt.Errorf("shift %s: invalid clock-out: %w", dto.Ref, err)
			}
			shift.End = end
		}

		shifts = append(shifts, shift)
	}
	return shifts, nil
}
