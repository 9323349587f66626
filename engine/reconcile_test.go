package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"warepulse.io/warepulse/core/models"
	"warepulse.io/warepulse/utils"
)

// fakeLedger is an in-memory AttendanceLedger assigning ids on save, the
// way the store does.
type fakeLedger struct {
	sessions []models.AttendanceSession
	flags    []models.ShiftFlag
	nextID   int32
}

func newFakeLedger(existing ...models.AttendanceSession) *fakeLedger {
	l := &fakeLedger{nextID: 1}
	for _, s := range existing {
		s.ID = l.nextID
		l.nextID++
		l.sessions = append(l.sessions, s)
	}
	return l
}

func (l *fakeLedger) SessionsForDay(ctx context.Context, employeeID int32, day time.Time) ([]models.AttendanceSession, error) {
	out := make([]models.AttendanceSession, len(l.sessions))
	copy(out, l.sessions)
	return out, nil
}

func (l *fakeLedger) SaveSessions(ctx context.Context, sessions []models.AttendanceSession) ([]models.AttendanceSession, error) {
	var saved []models.AttendanceSession
	for _, s := range sessions {
		if s.ID == 0 {
			s.ID = l.nextID
			l.nextID++
			l.sessions = append(l.sessions, s)
		} else {
			for i := range l.sessions {
				if l.sessions[i].ID == s.ID {
					l.sessions[i] = s
				}
			}
		}
		saved = append(saved, s)
	}
	return saved, nil
}

func (l *fakeLedger) FlagShift(ctx context.Context, flag models.ShiftFlag) error {
	l.flags = append(l.flags, flag)
	return nil
}

func (l *fakeLedger) ShiftFlagsForDay(ctx context.Context, employeeID int32, day time.Time) ([]models.ShiftFlag, error) {
	var out []models.ShiftFlag
	for _, f := range l.flags {
		if f.EmployeeID == employeeID && f.Date.Equal(day) {
			out = append(out, f)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReconcileAttendanceCreatesSessions(t *testing.T) {
	ledger := newFakeLedger()
	r := NewReconciler(ledger, DefaultGapPolicy(), testLogger())
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	shifts := []ExternalShift{
		{ExternalRef: "s-2", Start: day(14, 0), End: utils.Ptr(day(18, 0)), Source: "timeclock"},
		{ExternalRef: "s-1", Start: day(6, 0), End: utils.Ptr(day(10, 0)), Source: "timeclock"},
	}

	valid, rejected, err := r.ReconcileAttendance(context.Background(), 7, date, shifts)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, valid, 2)
	// Returned sorted by start regardless of input order.
	assert.Equal(t, "s-1", valid[0].ExternalRef)
	assert.Equal(t, "s-2", valid[1].ExternalRef)
	assert.Len(t, ledger.sessions, 2)
}

func TestReconcileAttendanceIdempotentResync(t *testing.T) {
	ledger := newFakeLedger()
	r := NewReconciler(ledger, DefaultGapPolicy(), testLogger())
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	shifts := []ExternalShift{
		{ExternalRef: "s-1", Start: day(6, 0), End: utils.Ptr(day(14, 0)), Source: "timeclock"},
	}

	first, _, err := r.ReconcileAttendance(context.Background(), 7, date, shifts)
	require.NoError(t, err)
	second, _, err := r.ReconcileAttendance(context.Background(), 7, date, shifts)
	require.NoError(t, err)

	assert.Len(t, ledger.sessions, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestReconcileAttendanceClosesOpenSession(t *testing.T) {
	ledger := newFakeLedger(models.AttendanceSession{
		EmployeeID: 7, StartAt: day(6, 0), ExternalRef: "s-1", Source: "timeclock",
	})
	r := NewReconciler(ledger, DefaultGapPolicy(), testLogger())
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	shifts := []ExternalShift{
		{ExternalRef: "s-1", Start: day(6, 0), End: utils.Ptr(day(14, 0)), Source: "timeclock"},
	}

	valid, rejected, err := r.ReconcileAttendance(context.Background(), 7, date, shifts)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, valid, 1)
	require.NotNil(t, valid[0].EndAt)
	assert.True(t, valid[0].EndAt.Equal(day(14, 0)))
	// Closed in place, never duplicated.
	assert.Len(t, ledger.sessions, 1)
	assert.Equal(t, int32(1), valid[0].ID)
}

func TestReconcileAttendanceMatchesByStartTolerance(t *testing.T) {
	// Provider without shift ids: a start within the tolerance is the same
	// physical shift.
	ledger := newFakeLedger(models.AttendanceSession{
		EmployeeID: 7, StartAt: day(6, 0), Source: "badge",
	})
	r := NewReconciler(ledger, DefaultGapPolicy(), testLogger())
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	shifts := []ExternalShift{
		{Start: day(6, 3), End: utils.Ptr(day(14, 0)), Source: "badge"},
	}

	valid, rejected, err := r.ReconcileAttendance(context.Background(), 7, date, shifts)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Len(t, valid, 1)
	assert.Len(t, ledger.sessions, 1)
}

func TestReconcileAttendanceRejections(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		existing       []models.AttendanceSession
		shift          ExternalShift
		expectedReason string
	}{
		{
			name:           "End not after start",
			shift:          ExternalShift{ExternalRef: "bad", Start: day(10, 0), End: utils.Ptr(day(9, 0))},
			expectedReason: ReasonEndNotAfterStart,
		},
		{
			name:           "Zero-length shift",
			shift:          ExternalShift{ExternalRef: "bad", Start: day(10, 0), End: utils.Ptr(day(10, 0))},
			expectedReason: ReasonEndNotAfterStart,
		},
		{
			name: "Overlapping shift",
			existing: []models.AttendanceSession{
				{EmployeeID: 7, StartAt: day(6, 0), EndAt: utils.Ptr(day(14, 0)), ExternalRef: "s-1"},
			},
			shift:          ExternalShift{ExternalRef: "s-2", Start: day(12, 0), End: utils.Ptr(day(16, 0))},
			expectedReason: ReasonOverlap,
		},
		{
			name: "Second open shift",
			existing: []models.AttendanceSession{
				{EmployeeID: 7, StartAt: day(6, 0), EndAt: utils.Ptr(day(10, 0)), ExternalRef: "s-1"},
			},
			shift:          ExternalShift{ExternalRef: "s-2", Start: day(2, 0)},
			expectedReason: ReasonSecondOpenShift,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := tt.existing
			if tt.expectedReason == ReasonSecondOpenShift {
				existing = append(existing, models.AttendanceSession{
					EmployeeID: 7, StartAt: day(12, 0), ExternalRef: "open-1",
				})
			}
			ledger := newFakeLedger(existing...)
			r := NewReconciler(ledger, DefaultGapPolicy(), testLogger())

			valid, rejected, err := r.ReconcileAttendance(context.Background(), 7, date, []ExternalShift{tt.shift})
			require.NoError(t, err)
			require.Len(t, rejected, 1)
			assert.Equal(t, tt.expectedReason, rejected[0].Reason)
			assert.Len(t, valid, len(existing))

			require.Len(t, ledger.flags, 1)
			assert.Equal(t, tt.expectedReason, ledger.flags[0].Reason)
			assert.NotEmpty(t, ledger.flags[0].ID)
		})
	}
}

func TestReconcileAttendanceDoesNotReflagOnRerun(t *testing.T) {
	ledger := newFakeLedger()
	r := NewReconciler(ledger, DefaultGapPolicy(), testLogger())
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	shifts := []ExternalShift{
		{ExternalRef: "bad", Start: day(10, 0), End: utils.Ptr(day(9, 0))},
	}

	for i := 0; i < 3; i++ {
		_, rejected, err := r.ReconcileAttendance(context.Background(), 7, date, shifts)
		require.NoError(t, err)
		// Still reported to the caller every run.
		assert.Len(t, rejected, 1)
	}

	// But recorded once, not once per recompute.
	assert.Len(t, ledger.flags, 1)
}

func TestReconcileAttendanceBadShiftDoesNotAbortDay(t *testing.T) {
	ledger := newFakeLedger()
	r := NewReconciler(ledger, DefaultGapPolicy(), testLogger())
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	shifts := []ExternalShift{
		{ExternalRef: "bad", Start: day(10, 0), End: utils.Ptr(day(9, 0))},
		{ExternalRef: "good", Start: day(12, 0), End: utils.Ptr(day(16, 0)), Source: "timeclock"},
	}

	valid, rejected, err := r.ReconcileAttendance(context.Background(), 7, date, shifts)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)
	require.Len(t, valid, 1)
	assert.Equal(t, "good", valid[0].ExternalRef)
}
