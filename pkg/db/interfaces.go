package db

import (
	"context"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

// WorkerStore reads team rosters
type WorkerStore interface {
	GetActiveWorkers(ctx context.Context, teamID string) ([]model.Worker, error)
}

// ScheduleStore reads a worker's weekly schedule and date exceptions.
// GetScheduleException returns nil when no exception exists for the date.
type ScheduleStore interface {
	GetWorkerSchedule(ctx context.Context, workerID string) (model.WeeklySchedule, error)
	GetScheduleException(ctx context.Context, workerID string, date model.LocalDate) (*model.AvailabilityException, error)
}

// JobReader finds active jobs that overlap a window.
// An empty workerID matches every worker on the team; an empty excludeJobID excludes nothing.
// Jobs that are COMPLETED or CANCELLED are never returned.
type JobReader interface {
	GetOverlappingJobs(ctx context.Context, teamID, workerID string, window model.TimeRange, excludeJobID string) ([]model.Job, error)
}

// RoleStore reads roles and the capabilities attached to them.
// GetJobRole returns nil, nil when the role does not exist.
type RoleStore interface {
	GetJobRole(ctx context.Context, roleID string) (*model.JobRole, error)
	GetWorkerCapabilities(ctx context.Context, jobRoleID string) ([]model.WorkerCapability, error)
}

// CrewStore reads crews with their capabilities and members
type CrewStore interface {
	GetCrews(ctx context.Context, teamID string) ([]model.Crew, error)
}

// JobWriter persists jobs and their assignments. Both operations are atomic:
// either every row is written or none is.
type JobWriter interface {
	CreateJob(ctx context.Context, job model.Job, assignments []model.WorkerRoleAssignment) error
	CreateWorkerRoleAssignments(ctx context.Context, jobID string, assignments []model.WorkerRoleAssignment) error
}

// AvailabilityStore is what the availability resolver reads
type AvailabilityStore interface {
	ScheduleStore
	JobReader
}

// CoverageStore is what the role coverage validator reads
type CoverageStore interface {
	WorkerStore
	AvailabilityStore
	RoleStore
}

// ValidationStore is what the validation orchestrator reads.
// Implementations should return promptly once ctx is done; a call that does
// not is abandoned by the orchestrator but keeps its goroutine until it returns.
type ValidationStore interface {
	CoverageStore
}

// SuggestionStore is what the assignment generator reads
type SuggestionStore interface {
	ValidationStore
	CrewStore
}

// Store defines every database operation the scheduler needs.
// Both memstore.Store and postgres.DB implement this interface.
type Store interface {
	SuggestionStore
	JobWriter
}
