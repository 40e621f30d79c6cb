package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

const fixtureYAML = `
roles:
  - id: window
    teamID: team-1
    name: Window Cleaner
    baseRate: 25
workers:
  - id: alice
    name: Alice
    teamID: team-1
    hourlyRate: 20
    schedule:
      monday: {start: "09:00", end: "17:00"}
      tue: {start: "10:00", end: "14:00"}
    exceptions:
      - date: 2026-10-26
        unavailable: true
        reason: dentist
    capabilities:
      - role: window
        proficiency: 4
  - id: bob
    name: Bob
    teamID: team-2
    schedule:
      monday: {start: "09:00", end: "17:00"}
jobs:
  - id: job-1
    teamID: team-1
    date: 2026-10-19
    start: "09:00"
    end: "17:00"
    workers: [alice]
crews:
  - id: crew-1
    teamID: team-1
    name: Alpha
    members: [alice]
    capabilities:
      - role: window
        capacity: 1
        proficiency: 4
`

func TestLoad_Fixture(t *testing.T) {
	store, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)
	ctx := context.Background()

	workers, err := store.GetActiveWorkers(ctx, "team-1")
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "alice", workers[0].ID)

	schedule, err := store.GetWorkerSchedule(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.NewClockTime(9, 0), schedule[time.Monday].Start)
	assert.Equal(t, model.NewClockTime(14, 0), schedule[time.Tuesday].End)

	exception, err := store.GetScheduleException(ctx, "alice", model.NewLocalDate(2026, time.October, 26))
	require.NoError(t, err)
	require.NotNil(t, exception)
	assert.True(t, exception.Unavailable)

	none, err := store.GetScheduleException(ctx, "alice", model.NewLocalDate(2026, time.October, 19))
	require.NoError(t, err)
	assert.Nil(t, none)

	role, err := store.GetJobRole(ctx, "window")
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, "Window Cleaner", role.Name)

	missing, err := store.GetJobRole(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	crews, err := store.GetCrews(ctx, "team-1")
	require.NoError(t, err)
	require.Len(t, crews, 1)
	assert.Equal(t, 1, crews[0].Capabilities[0].Capacity)
}

func TestLoad_UnknownWeekday(t *testing.T) {
	_, err := Load([]byte(`
workers:
  - id: w
    teamID: t
    schedule:
      funday: {start: "09:00", end: "17:00"}
`))
	assert.Error(t, err)
}

func TestGetOverlappingJobs(t *testing.T) {
	store, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)
	ctx := context.Background()
	day := model.NewLocalDate(2026, time.October, 19)

	window := model.TimeRange{Start: day.At(model.NewClockTime(10, 0)), End: day.At(model.NewClockTime(12, 0))}
	jobs, err := store.GetOverlappingJobs(ctx, "team-1", "alice", window, "")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	jobs, err = store.GetOverlappingJobs(ctx, "team-1", "alice", window, "job-1")
	require.NoError(t, err)
	assert.Empty(t, jobs, "excluded job is skipped")

	after := model.TimeRange{Start: day.At(model.NewClockTime(17, 0)), End: day.At(model.NewClockTime(18, 0))}
	jobs, err = store.GetOverlappingJobs(ctx, "team-1", "alice", after, "")
	require.NoError(t, err)
	assert.Empty(t, jobs, "back-to-back job does not overlap")

	jobs, err = store.GetOverlappingJobs(ctx, "team-2", "", window, "")
	require.NoError(t, err)
	assert.Empty(t, jobs, "other team's jobs are invisible")
}

func TestGetOverlappingJobs_IgnoresFinishedJobs(t *testing.T) {
	store := New()
	day := model.NewLocalDate(2026, time.October, 19)
	store.AddJob(model.Job{ID: "done", TeamID: "t", Start: day.At(model.NewClockTime(9, 0)), End: day.At(model.NewClockTime(12, 0)), Status: model.JobStatusCompleted, AssignedWorkerIDs: []string{"w"}})
	store.AddJob(model.Job{ID: "off", TeamID: "t", Start: day.At(model.NewClockTime(9, 0)), End: day.At(model.NewClockTime(12, 0)), Status: model.JobStatusCancelled, AssignedWorkerIDs: []string{"w"}})

	jobs, err := store.GetOverlappingJobs(context.Background(), "t", "w", model.TimeRange{Start: day.At(model.NewClockTime(10, 0)), End: day.At(model.NewClockTime(11, 0))}, "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestFailOn(t *testing.T) {
	store := New()
	store.FailOn("GetActiveWorkers", errors.New("connection refused"))

	_, err := store.GetActiveWorkers(context.Background(), "team-1")
	require.Error(t, err)
	assert.True(t, db.IsUnavailable(err))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestCreateJob_Atomic(t *testing.T) {
	store, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)
	ctx := context.Background()

	job := model.Job{ID: "job-2", TeamID: "team-1", Status: model.JobStatusScheduled}
	bad := []model.WorkerRoleAssignment{
		{ID: "a1", WorkerID: "alice", JobRoleID: "window"},
		{ID: "a2", WorkerID: "ghost", JobRoleID: "window"},
	}

	err = store.CreateJob(ctx, job, bad)
	require.Error(t, err)
	_, exists := store.Job("job-2")
	assert.False(t, exists, "failed create leaves nothing behind")
	assert.Empty(t, store.Assignments("job-2"))

	err = store.CreateJob(ctx, job, bad[:1])
	require.NoError(t, err)
	stored, exists := store.Job("job-2")
	require.True(t, exists)
	assert.Equal(t, []string{"alice"}, stored.AssignedWorkerIDs)
	assert.Len(t, store.Assignments("job-2"), 1)

	err = store.CreateJob(ctx, job, nil)
	assert.Error(t, err, "duplicate job id")
}

func TestCreateWorkerRoleAssignments(t *testing.T) {
	store, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)
	ctx := context.Background()

	err = store.CreateWorkerRoleAssignments(ctx, "missing", []model.WorkerRoleAssignment{{WorkerID: "alice", JobRoleID: "window"}})
	assert.True(t, errors.Is(err, db.ErrJobNotFound))

	err = store.CreateWorkerRoleAssignments(ctx, "job-1", []model.WorkerRoleAssignment{
		{WorkerID: "alice", JobRoleID: "window"},
		{WorkerID: "alice", JobRoleID: "unknown"},
	})
	require.Error(t, err)
	assert.Empty(t, store.Assignments("job-1"))

	err = store.CreateWorkerRoleAssignments(ctx, "job-1", []model.WorkerRoleAssignment{{WorkerID: "alice", JobRoleID: "window"}})
	require.NoError(t, err)
	assert.Len(t, store.Assignments("job-1"), 1)
}

func TestCreateWorkerRoleAssignments_SchedulesPendingJob(t *testing.T) {
	store, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)
	ctx := context.Background()
	store.AddJob(model.Job{ID: "pending", TeamID: "team-1", Status: model.JobStatusPending})
	store.AddJob(model.Job{ID: "running", TeamID: "team-1", Status: model.JobStatusInProgress})

	require.NoError(t, store.CreateWorkerRoleAssignments(ctx, "pending", nil))
	job, _ := store.Job("pending")
	assert.Equal(t, model.JobStatusPending, job.Status, "no workers, nothing scheduled")

	require.NoError(t, store.CreateWorkerRoleAssignments(ctx, "pending", []model.WorkerRoleAssignment{{WorkerID: "alice", JobRoleID: "window"}}))
	job, _ = store.Job("pending")
	assert.Equal(t, model.JobStatusScheduled, job.Status)

	require.NoError(t, store.CreateWorkerRoleAssignments(ctx, "running", []model.WorkerRoleAssignment{{WorkerID: "alice", JobRoleID: "window"}}))
	job, _ = store.Job("running")
	assert.Equal(t, model.JobStatusInProgress, job.Status, "later states are left alone")
}
