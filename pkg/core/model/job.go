package model

import "time"

// JobStatus is the lifecycle state of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusScheduled  JobStatus = "SCHEDULED"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCancelled  JobStatus = "CANCELLED"
)

// IsActive reports whether a job in this status still occupies its workers
func (s JobStatus) IsActive() bool {
	return s != JobStatusCompleted && s != JobStatusCancelled
}

// CanTransitionTo enforces PENDING -> SCHEDULED -> IN_PROGRESS -> COMPLETED,
// with CANCELLED reachable from any state before COMPLETED.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusScheduled || next == JobStatusCancelled
	case JobStatusScheduled:
		return next == JobStatusInProgress || next == JobStatusCancelled
	case JobStatusInProgress:
		return next == JobStatusCompleted || next == JobStatusCancelled
	default:
		return false
	}
}

// RoleRequirement is one role a job needs, with how many workers and at what proficiency
type RoleRequirement struct {
	JobRoleID           string `json:"job_role_id" yaml:"jobRoleID" validate:"required"`
	QuantityRequired    int    `json:"quantity_required" yaml:"quantityRequired" validate:"gte=0"`
	MinProficiencyLevel int    `json:"min_proficiency_level" yaml:"minProficiencyLevel" validate:"gte=0,lte=5"`
}

// Job is a booked piece of work for a client
type Job struct {
	ID                string            `json:"id"`
	TeamID            string            `json:"team_id"`
	ClientID          string            `json:"client_id,omitempty"`
	Address           string            `json:"address,omitempty"`
	Requirements      []RoleRequirement `json:"requirements"`
	Start             time.Time         `json:"start"`
	End               time.Time         `json:"end"`
	AssignedWorkerIDs []string          `json:"assigned_worker_ids"`
	Status            JobStatus         `json:"status"`
}

// Window returns the job's scheduled time range
func (j Job) Window() TimeRange {
	return TimeRange{Start: j.Start, End: j.End}
}

// WorkerRoleAssignment places one worker on a job in a given role
type WorkerRoleAssignment struct {
	ID         string  `json:"id"`
	JobID      string  `json:"job_id"`
	WorkerID   string  `json:"worker_id" validate:"required"`
	JobRoleID  string  `json:"job_role_id" validate:"required"`
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
	IsLead     bool    `json:"is_lead"`
}
