package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/core/coverage"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/core/validation"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// ErrNotBookable is the sentinel for jobs refused by validation or assignment checks
var ErrNotBookable = errors.New("job is not bookable")

// NotBookableError carries the validation result that refused the job
type NotBookableError struct {
	Reason     string
	Validation validation.Result
}

func (e *NotBookableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotBookable, e.Reason)
}

func (e *NotBookableError) Unwrap() error {
	return ErrNotBookable
}

// CreateJobInput is a validated request plus the job details and chosen assignments
type CreateJobInput struct {
	Request     model.SchedulingRequest      `json:"request"`
	ClientID    string                       `json:"client_id,omitempty"`
	Address     string                       `json:"address,omitempty"`
	Assignments []model.WorkerRoleAssignment `json:"assignments"`
}

// CreateJobResult is the persisted job
type CreateJobResult struct {
	Job         model.Job                    `json:"job"`
	Assignments []model.WorkerRoleAssignment `json:"assignments"`
	Validation  validation.Result            `json:"validation"`
}

// CreateJob revalidates the request and, only when every role is covered,
// writes the job and its assignments in one atomic operation.
// A refused job returns a *NotBookableError (matching ErrNotBookable).
func CreateJob(ctx context.Context, database db.Store, opts validation.Options, logger *zap.Logger, input CreateJobInput) (*CreateJobResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	req := input.Request
	logger.Debug("Creating job",
		zap.String("team_id", req.TeamID),
		zap.String("date", req.Date.String()),
		zap.Int("assignments", len(input.Assignments)))

	result := ValidateJob(ctx, database, opts, logger, req)
	if !result.Valid {
		return nil, &NotBookableError{Reason: "validation reported blocking issues", Validation: result}
	}

	jobID := uuid.New().String()
	assignments, err := gateAssignments(jobID, input.Assignments, result)
	if err != nil {
		return nil, &NotBookableError{Reason: err.Error(), Validation: result}
	}

	status := model.JobStatusPending
	if len(assignments) > 0 {
		status = model.JobStatusScheduled
	}
	window := req.Window()
	job := model.Job{
		ID:                jobID,
		TeamID:            req.TeamID,
		ClientID:          input.ClientID,
		Address:           input.Address,
		Requirements:      req.Requirements(),
		Start:             window.Start,
		End:               window.End,
		AssignedWorkerIDs: []string{},
		Status:            status,
	}
	for _, a := range assignments {
		job.AssignedWorkerIDs = append(job.AssignedWorkerIDs, a.WorkerID)
	}

	if err := database.CreateJob(ctx, job, assignments); err != nil {
		return nil, errors.Wrap(err, "failed to save job")
	}

	logger.Info("Job created",
		zap.String("job_id", job.ID),
		zap.String("status", string(job.Status)),
		zap.Int("assignments", len(assignments)))

	return &CreateJobResult{Job: job, Assignments: assignments, Validation: result}, nil
}

// AssignWorkers adds assignments to an existing job. The request is revalidated
// with the job itself excluded so its own booking does not count as a clash.
func AssignWorkers(ctx context.Context, database db.Store, opts validation.Options, logger *zap.Logger, jobID string, req model.SchedulingRequest, assignments []model.WorkerRoleAssignment) ([]model.WorkerRoleAssignment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	req.ExcludeJobID = jobID
	logger.Debug("Assigning workers", zap.String("job_id", jobID), zap.Int("assignments", len(assignments)))

	result := ValidateJob(ctx, database, opts, logger, req)
	if !result.Valid {
		return nil, &NotBookableError{Reason: "validation reported blocking issues", Validation: result}
	}

	gated, err := gateAssignments(jobID, assignments, result)
	if err != nil {
		return nil, &NotBookableError{Reason: err.Error(), Validation: result}
	}
	if len(gated) == 0 {
		return gated, nil
	}

	if err := database.CreateWorkerRoleAssignments(ctx, jobID, gated); err != nil {
		return nil, errors.Wrapf(err, "failed to save assignments for job %s", jobID)
	}

	logger.Info("Workers assigned", zap.String("job_id", jobID), zap.Int("assignments", len(gated)))
	return gated, nil
}

// gateAssignments only lets through assignments for covered, requested roles,
// to workers who are qualified and free, each worker once. Missing IDs and rates are filled in.
func gateAssignments(jobID string, requested []model.WorkerRoleAssignment, result validation.Result) ([]model.WorkerRoleAssignment, error) {
	assignments := make([]model.WorkerRoleAssignment, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	perRole := make(map[string]int)

	for _, a := range requested {
		if a.WorkerID == "" || a.JobRoleID == "" {
			return nil, errors.New("each assignment needs a worker and a role")
		}
		if seen[a.WorkerID] {
			return nil, errors.Newf("worker %s is assigned more than once", a.WorkerID)
		}
		seen[a.WorkerID] = true

		role, ok := result.Role(a.JobRoleID)
		if !ok {
			return nil, errors.Newf("role %s is not required by this job", a.JobRoleID)
		}
		if !role.Covered() {
			return nil, errors.Newf("role %s is not covered", a.JobRoleID)
		}
		perRole[a.JobRoleID]++
		if perRole[a.JobRoleID] > role.Required {
			return nil, errors.Newf("role %s needs only %d workers", a.JobRoleID, role.Required)
		}

		i := slices.IndexFunc(role.Workers, func(w coverage.EvaluatedWorker) bool { return w.Worker.ID == a.WorkerID })
		if i < 0 {
			return nil, errors.Newf("worker %s is not qualified for role %s", a.WorkerID, a.JobRoleID)
		}
		candidate := role.Workers[i]
		if !candidate.Availability.Available {
			return nil, errors.Newf("worker %s is not available: %v", a.WorkerID, candidate.Availability.Conflicts)
		}

		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.HourlyRate <= 0 {
			a.HourlyRate = candidate.Rate
		}
		a.JobID = jobID
		assignments = append(assignments, a)
	}
	return assignments, nil
}
