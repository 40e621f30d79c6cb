package availability

import (
	"context"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// Score deductions. A booking clash outweighs every other reason so that a
// free worker always ranks above a booked one.
const (
	MaxScore = 100

	DeductionBooked         = 60
	DeductionDayOff         = 40
	DeductionOutsideShift   = 30
	DeductionPerProficiency = 5

	// MaxProficiency is the top of the proficiency scale
	MaxProficiency = 5
)

// Input describes one worker and the window to check
type Input struct {
	Worker       model.Worker
	TeamID       string
	Date         model.LocalDate
	Start        model.ClockTime
	End          model.ClockTime
	ExcludeJobID string

	// Proficiency is the worker's level for the role being filled (0 when not relevant)
	Proficiency int
}

// Window returns the half-open range being checked
func (in Input) Window() model.TimeRange {
	return model.TimeRange{Start: in.Date.At(in.Start), End: in.Date.At(in.End)}
}

// Result is the outcome of resolving one worker's availability
type Result struct {
	WorkerID  string   `json:"worker_id"`
	Available bool     `json:"available"`
	Score     int      `json:"score"`
	Conflicts []string `json:"conflicts"`

	// OffShift is set when the schedule (or exception) does not cover the window
	OffShift bool `json:"off_shift"`

	// Booked is set when an active job overlaps the window
	Booked       bool     `json:"booked"`
	BookedJobIDs []string `json:"booked_job_ids,omitempty"`

	// Day is the effective schedule entry used for the date
	Day model.DaySchedule `json:"day"`
}

// Resolver decides whether a worker is free for a window. It only reads.
type Resolver struct {
	store  db.AvailabilityStore
	logger *zap.Logger
}

// NewResolver creates a resolver reading from the given store
func NewResolver(store db.AvailabilityStore, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve checks the worker's schedule, exceptions and bookings for the window.
//
// Order of precedence:
//   - the default schedule entry for the weekday of the date
//   - replaced entirely by an exception for that exact date
//   - overridden by any overlapping active job, regardless of schedule
//
// A window that sticks out of the shift on either side is unavailable; shifts are never split.
// Store failures are returned as errors, never reported as "unavailable".
func (r *Resolver) Resolve(ctx context.Context, in Input) (Result, error) {
	result := Result{
		WorkerID:  in.Worker.ID,
		Score:     MaxScore,
		Conflicts: []string{},
	}

	day, err := r.EffectiveDay(ctx, in.Worker, in.Date)
	if err != nil {
		return Result{}, err
	}
	result.Day = day

	switch {
	case !day.Available:
		result.OffShift = true
		result.Score -= DeductionDayOff
		result.Conflicts = append(result.Conflicts,
			fmt.Sprintf("%s is not working on %s", in.Worker.DisplayName(), describeDay(in.Date)))
	case !day.Contains(in.Start, in.End):
		result.OffShift = true
		result.Score -= DeductionOutsideShift
		result.Conflicts = append(result.Conflicts,
			fmt.Sprintf("%s works %s-%s on %s, outside %s-%s",
				in.Worker.DisplayName(), day.Start, day.End, describeDay(in.Date), in.Start, in.End))
	}

	window := in.Window()
	jobs, err := r.store.GetOverlappingJobs(ctx, in.TeamID, in.Worker.ID, window, in.ExcludeJobID)
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to fetch bookings for worker %s", in.Worker.ID)
	}

	for _, job := range jobs {
		// Stores are trusted to filter, but a stale or finished job must never block
		if !job.Status.IsActive() || job.ID == in.ExcludeJobID || !job.Window().Overlaps(window) {
			continue
		}
		result.Booked = true
		result.BookedJobIDs = append(result.BookedJobIDs, job.ID)
		result.Conflicts = append(result.Conflicts,
			fmt.Sprintf("%s is booked on job %s from %s to %s",
				in.Worker.DisplayName(), job.ID, job.Start.Format("15:04"), job.End.Format("15:04")))
	}
	if result.Booked {
		result.Score -= DeductionBooked
	}

	if in.Proficiency > 0 && in.Proficiency < MaxProficiency {
		result.Score -= (MaxProficiency - in.Proficiency) * DeductionPerProficiency
	}
	result.Score = max(result.Score, 0)

	result.Available = !result.OffShift && !result.Booked

	r.logger.Debug("Resolved worker availability",
		zap.String("worker_id", in.Worker.ID),
		zap.String("date", in.Date.String()),
		zap.Bool("available", result.Available),
		zap.Int("score", result.Score),
		zap.Int("conflicts", len(result.Conflicts)))

	return result, nil
}

// EffectiveDay returns the worker's schedule entry for the date after applying
// any exception. A schedule already loaded on the worker is used as-is.
func (r *Resolver) EffectiveDay(ctx context.Context, worker model.Worker, date model.LocalDate) (model.DaySchedule, error) {
	schedule := worker.Schedule
	if schedule == nil {
		var err error
		schedule, err = r.store.GetWorkerSchedule(ctx, worker.ID)
		if err != nil {
			return model.DaySchedule{}, errors.Wrapf(err, "failed to fetch schedule for worker %s", worker.ID)
		}
	}

	exception, err := r.store.GetScheduleException(ctx, worker.ID, date)
	if err != nil {
		return model.DaySchedule{}, errors.Wrapf(err, "failed to fetch schedule exception for worker %s", worker.ID)
	}
	if exception != nil {
		return exception.DaySchedule(), nil
	}

	return schedule.For(date.Weekday()), nil
}

// Rank sorts results by score (highest first), breaking ties by worker ID
func Rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].WorkerID < results[j].WorkerID
	})
}

func describeDay(date model.LocalDate) string {
	return fmt.Sprintf("%s %s", date.Weekday(), date)
}
