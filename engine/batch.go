package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"warepulse.io/warepulse/utils"
)

const (
	defaultConcurrency = 4
	defaultUnitTimeout = 30 * time.Second
	retryAttempts      = 3
	retryBase          = 250 * time.Millisecond
)

// RunOptions selects the employee-day pairs a batch run covers. An empty
// Employees slice means all active employees.
type RunOptions struct {
	StartDate time.Time
	EndDate   time.Time
	Employees []int32
}

// UnitError records one failed employee-day without aborting its siblings.
type UnitError struct {
	EmployeeID int32     `json:"employeeId"`
	Date       time.Time `json:"date"`
	Err        string    `json:"error"`
}

// RunResult is the aggregate outcome of a batch run.
type RunResult struct {
	Processed int         `json:"processed"`
	Errored   int         `json:"errored"`
	Errors    []UnitError `json:"errors,omitempty"`
}

// Runner drives reconcile -> aggregate -> calculate -> score for every
// employee-day in a range. Pairs are independent (disjoint storage keys),
// so they run on a bounded worker pool; re-running a range over unchanged
// source data produces identical score records.
type Runner struct {
	Shifts    ShiftProvider
	Activity  ActivitySource
	Directory EmployeeDirectory
	Ledger    AttendanceLedger
	Scores    ScoreLedger
	Policies  PolicyRepository
	Gap       GapPolicy
	Log       *slog.Logger

	// Concurrency bounds the worker pool; UnitTimeout caps one
	// employee-day. Zero values pick the defaults.
	Concurrency int
	UnitTimeout time.Duration

	// Now is injected so open sessions evaluate deterministically in tests.
	Now func() time.Time
}

type unit struct {
	employeeID int32
	day        time.Time
}

// Run processes every (employee, day) pair in opts. A failure or timeout
// in one pair is recorded and never cancels its siblings.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	if opts.EndDate.Before(opts.StartDate) {
		return RunResult{}, fmt.Errorf("end date %s before start date %s",
			opts.EndDate.Format(utils.DateLayout), opts.StartDate.Format(utils.DateLayout))
	}

	employees := opts.Employees
	if len(employees) == 0 {
		var err error
		employees, err = r.Directory.ActiveEmployeeIDs(ctx)
		if err != nil {
			return RunResult{}, fmt.Errorf("failed to list active employees: %w", err)
		}
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	timeout := r.UnitTimeout
	if timeout <= 0 {
		timeout = defaultUnitTimeout
	}

	jobs := make(chan unit)
	var (
		mu     sync.Mutex
		result RunResult
		wg     sync.WaitGroup
	)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				unitCtx, cancel := context.WithTimeout(ctx, timeout)
				err := r.runUnit(unitCtx, u.employeeID, u.day)
				cancel()

				mu.Lock()
				if err != nil {
					result.Errored++
					result.Errors = append(result.Errors, UnitError{
						EmployeeID: u.employeeID,
						Date:       u.day,
						Err:        err.Error(),
					})
					r.Log.Error("employee-day failed",
						slog.Int("employeeId", int(u.employeeID)),
						slog.String("date", u.day.Format(utils.DateLayout)),
						slog.String("error", err.Error()))
				} else {
					result.Processed++
				}
				mu.Unlock()
			}
		}()
	}

	for d := opts.StartDate; !d.After(opts.EndDate); d = d.AddDate(0, 0, 1) {
		for _, employeeID := range employees {
			select {
			case jobs <- unit{employeeID: employeeID, day: d}:
			case <-ctx.Done():
				close(jobs)
				wg.Wait()
				return result, ctx.Err()
			}
		}
	}
	close(jobs)
	wg.Wait()

	r.Log.Info("batch run finished",
		slog.Int("processed", result.Processed),
		slog.Int("errored", result.Errored))
	return result, nil
}

// runUnit computes one employee-day. Reconciliation completes before the
// calculator runs so gap math only ever sees the corrected session list.
func (r *Runner) runUnit(ctx context.Context, employeeID int32, day time.Time) error {
	now := time.Now().UTC()
	if r.Now != nil {
		now = r.Now()
	}

	var shifts []ExternalShift
	if err := utils.Retry(ctx, retryAttempts, retryBase, func() error {
		var err error
		shifts, err = r.Shifts.GetShifts(ctx, employeeID, day)
		return err
	}); err != nil {
		return fmt.Errorf("failed to fetch shifts: %w", err)
	}

	reconciler := NewReconciler(r.Ledger, r.Gap, r.Log)
	sessions, rejected, err := reconciler.ReconcileAttendance(ctx, employeeID, day, shifts)
	if err != nil {
		return err
	}
	if len(rejected) > 0 {
		r.Log.Warn("shifts rejected during reconciliation",
			slog.Int("employeeId", int(employeeID)),
			slog.String("date", day.Format(utils.DateLayout)),
			slog.Int("count", len(rejected)))
	}

	aggregator := NewAggregator(r.Activity, r.Policies, r.Log)
	activity, err := aggregator.DayActivity(ctx, employeeID, day)
	if err != nil {
		return err
	}

	idle, err := ComputeActiveIdle(sessions, activity.Windows, r.Gap, now)
	if err != nil {
		return err
	}

	score, err := ComputeDailyScore(employeeID, day, activity, idle, now)
	if err != nil {
		return err
	}

	if err := utils.Retry(ctx, retryAttempts, retryBase, func() error {
		return r.Scores.UpsertDailyScore(ctx, score)
	}); err != nil {
		return fmt.Errorf("failed to upsert daily score: %w", err)
	}
	return nil
}
