package availability

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
	"github.com/Mohamed-004/scheduler/pkg/memstore"
)

// Monday
var testDate = model.NewLocalDate(2026, time.October, 19)

func clock(h, m int) model.ClockTime {
	return model.NewClockTime(h, m)
}

func mondayWorker(id string) model.Worker {
	return model.Worker{
		ID:     id,
		Name:   id,
		TeamID: "team-1",
		Active: true,
		Schedule: model.WeeklySchedule{
			time.Monday: {Available: true, Start: clock(9, 0), End: clock(17, 0)},
		},
	}
}

func input(worker model.Worker, start, end model.ClockTime) Input {
	return Input{Worker: worker, TeamID: "team-1", Date: testDate, Start: start, End: end}
}

func TestResolve_AvailableInsideShift(t *testing.T) {
	store := memstore.New()
	resolver := NewResolver(store, nil)

	result, err := resolver.Resolve(context.Background(), input(mondayWorker("w1"), clock(10, 0), clock(12, 0)))
	require.NoError(t, err)

	assert.True(t, result.Available)
	assert.Equal(t, MaxScore, result.Score)
	assert.Empty(t, result.Conflicts)
}

func TestResolve_ExceptionOverridesDefault(t *testing.T) {
	store := memstore.New()
	store.AddException(model.AvailabilityException{WorkerID: "w1", Date: testDate, Unavailable: true})
	resolver := NewResolver(store, nil)

	result, err := resolver.Resolve(context.Background(), input(mondayWorker("w1"), clock(10, 0), clock(12, 0)))
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.True(t, result.OffShift)
	assert.False(t, result.Booked)
	assert.Equal(t, MaxScore-DeductionDayOff, result.Score)
	require.Len(t, result.Conflicts, 1)
	assert.Contains(t, result.Conflicts[0], "not working")
}

func TestResolve_ExceptionWithModifiedHours(t *testing.T) {
	store := memstore.New()
	store.AddException(model.AvailabilityException{WorkerID: "w1", Date: testDate, Start: clock(13, 0), End: clock(18, 0)})
	resolver := NewResolver(store, nil)
	ctx := context.Background()

	morning, err := resolver.Resolve(ctx, input(mondayWorker("w1"), clock(10, 0), clock(12, 0)))
	require.NoError(t, err)
	assert.False(t, morning.Available, "default hours no longer apply")

	evening, err := resolver.Resolve(ctx, input(mondayWorker("w1"), clock(16, 0), clock(18, 0)))
	require.NoError(t, err)
	assert.True(t, evening.Available)
}

func TestResolve_ExceptionMakesDayOffAvailable(t *testing.T) {
	store := memstore.New()
	tuesday := testDate.AddDays(1)
	store.AddException(model.AvailabilityException{WorkerID: "w1", Date: tuesday, Start: clock(8, 0), End: clock(12, 0)})
	resolver := NewResolver(store, nil)

	in := input(mondayWorker("w1"), clock(9, 0), clock(11, 0))
	in.Date = tuesday
	result, err := resolver.Resolve(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestResolve_NoPartialShift(t *testing.T) {
	store := memstore.New()
	resolver := NewResolver(store, nil)

	result, err := resolver.Resolve(context.Background(), input(mondayWorker("w1"), clock(16, 0), clock(18, 0)))
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.True(t, result.OffShift)
	assert.Equal(t, MaxScore-DeductionOutsideShift, result.Score)
}

func TestResolve_MissingWeekdayIsUnavailable(t *testing.T) {
	store := memstore.New()
	resolver := NewResolver(store, nil)

	in := input(mondayWorker("w1"), clock(10, 0), clock(12, 0))
	in.Date = testDate.AddDays(2)
	result, err := resolver.Resolve(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, result.Available)
}

func TestResolve_OverlappingJobBlocks(t *testing.T) {
	store := memstore.New()
	store.AddJob(model.Job{
		ID:                "job-1",
		TeamID:            "team-1",
		Start:             testDate.At(clock(9, 0)),
		End:               testDate.At(clock(11, 0)),
		Status:            model.JobStatusScheduled,
		AssignedWorkerIDs: []string{"w1"},
	})
	resolver := NewResolver(store, nil)
	ctx := context.Background()

	result, err := resolver.Resolve(ctx, input(mondayWorker("w1"), clock(10, 0), clock(12, 0)))
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.True(t, result.Booked)
	assert.Equal(t, []string{"job-1"}, result.BookedJobIDs)
	assert.Equal(t, MaxScore-DeductionBooked, result.Score)
	assert.Contains(t, result.Conflicts[0], "job-1")

	// Back-to-back is fine
	result, err = resolver.Resolve(ctx, input(mondayWorker("w1"), clock(11, 0), clock(13, 0)))
	require.NoError(t, err)
	assert.True(t, result.Available)

	// Editing the job itself ignores its own booking
	in := input(mondayWorker("w1"), clock(10, 0), clock(12, 0))
	in.ExcludeJobID = "job-1"
	result, err = resolver.Resolve(ctx, in)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestResolve_BookingOutweighsProficiency(t *testing.T) {
	store := memstore.New()
	store.AddJob(model.Job{
		ID: "job-1", TeamID: "team-1", Status: model.JobStatusInProgress,
		Start: testDate.At(clock(9, 0)), End: testDate.At(clock(17, 0)),
		AssignedWorkerIDs: []string{"booked"},
	})
	resolver := NewResolver(store, nil)
	ctx := context.Background()

	lowSkill := input(mondayWorker("novice"), clock(10, 0), clock(12, 0))
	lowSkill.Proficiency = 1
	novice, err := resolver.Resolve(ctx, lowSkill)
	require.NoError(t, err)

	highSkill := input(mondayWorker("booked"), clock(10, 0), clock(12, 0))
	highSkill.Proficiency = 5
	expert, err := resolver.Resolve(ctx, highSkill)
	require.NoError(t, err)

	assert.Equal(t, MaxScore-4*DeductionPerProficiency, novice.Score)
	assert.Greater(t, novice.Score, expert.Score)
}

func TestResolve_ScheduleFromStore(t *testing.T) {
	store := memstore.New()
	worker := mondayWorker("w1")
	store.AddWorker(worker)
	resolver := NewResolver(store, nil)

	worker.Schedule = nil
	result, err := resolver.Resolve(context.Background(), input(worker, clock(10, 0), clock(12, 0)))
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestResolve_StoreFailureIsDistinguishable(t *testing.T) {
	store := memstore.New()
	store.FailOn("GetOverlappingJobs", errors.New("connection reset"))
	resolver := NewResolver(store, nil)

	_, err := resolver.Resolve(context.Background(), input(mondayWorker("w1"), clock(10, 0), clock(12, 0)))
	require.Error(t, err)
	assert.True(t, db.IsUnavailable(err))

	store = memstore.New()
	store.FailOn("GetScheduleException", errors.New("timeout"))
	resolver = NewResolver(store, nil)

	_, err = resolver.Resolve(context.Background(), input(mondayWorker("w1"), clock(10, 0), clock(12, 0)))
	require.Error(t, err)
	assert.True(t, db.IsUnavailable(err))
}

func TestRank_TiesBrokenByWorkerID(t *testing.T) {
	results := []Result{
		{WorkerID: "c", Score: 90},
		{WorkerID: "b", Score: 100},
		{WorkerID: "a", Score: 90},
	}

	Rank(results)

	assert.Equal(t, "b", results[0].WorkerID)
	assert.Equal(t, "a", results[1].WorkerID)
	assert.Equal(t, "c", results[2].WorkerID)
}
