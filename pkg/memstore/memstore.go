// Package memstore is an in-memory implementation of db.Store.
// It backs the CLI's --fixture mode and the end-to-end tests.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

type exceptionKey struct {
	workerID string
	date     model.LocalDate
}

// Store keeps every record in maps guarded by a single lock
type Store struct {
	mu sync.RWMutex

	workers      map[string]model.Worker
	roles        map[string]model.JobRole
	capabilities []model.WorkerCapability
	exceptions   map[exceptionKey]model.AvailabilityException
	jobs         map[string]model.Job
	crews        map[string]model.Crew
	assignments  map[string][]model.WorkerRoleAssignment

	failures map[string]error
}

// New creates an empty store
func New() *Store {
	return &Store{
		workers:     make(map[string]model.Worker),
		roles:       make(map[string]model.JobRole),
		exceptions:  make(map[exceptionKey]model.AvailabilityException),
		jobs:        make(map[string]model.Job),
		crews:       make(map[string]model.Crew),
		assignments: make(map[string][]model.WorkerRoleAssignment),
		failures:    make(map[string]error),
	}
}

// FailOn makes the named operation (e.g. "GetOverlappingJobs") fail with err.
// The error is marked as a store failure, as a real driver error would be.
func (s *Store) FailOn(operation string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[operation] = err
}

func (s *Store) failure(operation string) error {
	if err, ok := s.failures[operation]; ok && err != nil {
		return db.Unavailable(err, operation)
	}
	return nil
}

// AddWorker inserts or replaces a worker
func (s *Store) AddWorker(worker model.Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers[worker.ID] = worker
}

// AddRole inserts or replaces a job role
func (s *Store) AddRole(role model.JobRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role.ID] = role
}

// AddCapability links a worker to a role
func (s *Store) AddCapability(capability model.WorkerCapability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capabilities = append(s.capabilities, capability)
}

// AddException inserts or replaces the exception for a worker and date
func (s *Store) AddException(exception model.AvailabilityException) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exceptions[exceptionKey{workerID: exception.WorkerID, date: exception.Date}] = exception
}

// AddJob inserts or replaces a job without any checks
func (s *Store) AddJob(job model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// AddCrew inserts or replaces a crew
func (s *Store) AddCrew(crew model.Crew) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crews[crew.ID] = crew
}

// GetActiveWorkers returns active workers of the team ordered by ID
func (s *Store) GetActiveWorkers(ctx context.Context, teamID string) ([]model.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetActiveWorkers"); err != nil {
		return nil, err
	}

	workers := make([]model.Worker, 0)
	for _, worker := range s.workers {
		if worker.TeamID == teamID && worker.Active {
			workers = append(workers, worker)
		}
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i].ID < workers[j].ID })
	return workers, nil
}

// GetWorkerCapabilities returns every capability row for the role, active or not
func (s *Store) GetWorkerCapabilities(ctx context.Context, jobRoleID string) ([]model.WorkerCapability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetWorkerCapabilities"); err != nil {
		return nil, err
	}

	capabilities := make([]model.WorkerCapability, 0)
	for _, capability := range s.capabilities {
		if capability.JobRoleID == jobRoleID {
			capabilities = append(capabilities, capability)
		}
	}
	sort.SliceStable(capabilities, func(i, j int) bool { return capabilities[i].WorkerID < capabilities[j].WorkerID })
	return capabilities, nil
}

// GetWorkerSchedule returns the worker's weekly schedule (empty when unknown)
func (s *Store) GetWorkerSchedule(ctx context.Context, workerID string) (model.WeeklySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetWorkerSchedule"); err != nil {
		return nil, err
	}

	schedule := make(model.WeeklySchedule)
	for day, entry := range s.workers[workerID].Schedule {
		schedule[day] = entry
	}
	return schedule, nil
}

// GetScheduleException returns the exception for the exact date or nil
func (s *Store) GetScheduleException(ctx context.Context, workerID string, date model.LocalDate) (*model.AvailabilityException, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetScheduleException"); err != nil {
		return nil, err
	}

	exception, ok := s.exceptions[exceptionKey{workerID: workerID, date: date}]
	if !ok {
		return nil, nil
	}
	return &exception, nil
}

// GetOverlappingJobs returns active team jobs intersecting the window, ordered by start then ID
func (s *Store) GetOverlappingJobs(ctx context.Context, teamID, workerID string, window model.TimeRange, excludeJobID string) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetOverlappingJobs"); err != nil {
		return nil, err
	}

	jobs := make([]model.Job, 0)
	for _, job := range s.jobs {
		if job.TeamID != teamID || !job.Status.IsActive() {
			continue
		}
		if excludeJobID != "" && job.ID == excludeJobID {
			continue
		}
		if workerID != "" && !slices.Contains(job.AssignedWorkerIDs, workerID) {
			continue
		}
		if !job.Window().Overlaps(window) {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].Start.Equal(jobs[j].Start) {
			return jobs[i].Start.Before(jobs[j].Start)
		}
		return jobs[i].ID < jobs[j].ID
	})
	return jobs, nil
}

// GetJobRole returns the role or nil when it does not exist
func (s *Store) GetJobRole(ctx context.Context, roleID string) (*model.JobRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetJobRole"); err != nil {
		return nil, err
	}

	role, ok := s.roles[roleID]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

// GetCrews returns active team crews ordered by ID
func (s *Store) GetCrews(ctx context.Context, teamID string) ([]model.Crew, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("GetCrews"); err != nil {
		return nil, err
	}

	crews := make([]model.Crew, 0)
	for _, crew := range s.crews {
		if crew.TeamID == teamID && crew.Active {
			crews = append(crews, crew)
		}
	}
	sort.Slice(crews, func(i, j int) bool { return crews[i].ID < crews[j].ID })
	return crews, nil
}

// CreateJob stores the job together with its assignments, all or nothing
func (s *Store) CreateJob(ctx context.Context, job model.Job, assignments []model.WorkerRoleAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateJob"); err != nil {
		return err
	}

	if _, exists := s.jobs[job.ID]; exists {
		return errors.Newf("job %s already exists", job.ID)
	}
	if err := s.checkAssignments(job.ID, assignments); err != nil {
		return err
	}

	for _, a := range assignments {
		if !slices.Contains(job.AssignedWorkerIDs, a.WorkerID) {
			job.AssignedWorkerIDs = append(job.AssignedWorkerIDs, a.WorkerID)
		}
	}
	s.jobs[job.ID] = job
	s.assignments[job.ID] = append(s.assignments[job.ID], assignments...)
	return nil
}

// CreateWorkerRoleAssignments adds assignments to an existing job, all or nothing
func (s *Store) CreateWorkerRoleAssignments(ctx context.Context, jobID string, assignments []model.WorkerRoleAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateWorkerRoleAssignments"); err != nil {
		return err
	}

	job, exists := s.jobs[jobID]
	if !exists {
		return errors.Wrapf(db.ErrJobNotFound, "job %s", jobID)
	}
	if err := s.checkAssignments(jobID, assignments); err != nil {
		return err
	}

	for _, a := range assignments {
		if !slices.Contains(job.AssignedWorkerIDs, a.WorkerID) {
			job.AssignedWorkerIDs = append(job.AssignedWorkerIDs, a.WorkerID)
		}
	}
	// Staffing a pending job schedules it, as the postgres store does
	if len(assignments) > 0 && job.Status.CanTransitionTo(model.JobStatusScheduled) {
		job.Status = model.JobStatusScheduled
	}
	s.jobs[jobID] = job
	s.assignments[jobID] = append(s.assignments[jobID], assignments...)
	return nil
}

// checkAssignments runs before any write so a bad row leaves the store untouched
func (s *Store) checkAssignments(jobID string, assignments []model.WorkerRoleAssignment) error {
	for _, a := range assignments {
		if a.JobID != "" && a.JobID != jobID {
			return errors.Newf("assignment %s belongs to job %s, not %s", a.ID, a.JobID, jobID)
		}
		if _, ok := s.workers[a.WorkerID]; !ok {
			return errors.Newf("assignment references unknown worker %s", a.WorkerID)
		}
		if _, ok := s.roles[a.JobRoleID]; !ok {
			return errors.Newf("assignment references unknown role %s", a.JobRoleID)
		}
	}
	return nil
}

// Job returns a stored job
func (s *Store) Job(jobID string) (model.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	return job, ok
}

// Assignments returns the assignments written for a job
func (s *Store) Assignments(jobID string) []model.WorkerRoleAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assignments[jobID])
}
