package model

// SchedulingRequest describes a job the caller wants to book.
// It lives for a single validation or suggestion call.
type SchedulingRequest struct {
	TeamID          string            `json:"team_id" validate:"required"`
	Date            LocalDate         `json:"date"`
	Start           ClockTime         `json:"start"`
	End             ClockTime         `json:"end"`
	RequiredWorkers int               `json:"required_workers" validate:"gte=0"`
	Roles           []RoleRequirement `json:"roles" validate:"dive"`

	// ExcludeJobID skips the job being edited when checking for overlaps
	ExcludeJobID string `json:"exclude_job_id,omitempty"`

	// SelectedWorkerIDs are workers the caller already picked; used for the cost estimate
	SelectedWorkerIDs []string `json:"selected_worker_ids,omitempty"`
}

// Window returns the requested half-open time range
func (r SchedulingRequest) Window() TimeRange {
	return TimeRange{Start: r.Date.At(r.Start), End: r.Date.At(r.End)}
}

// DurationHours returns the length of the requested window
func (r SchedulingRequest) DurationHours() float64 {
	return r.Window().Hours()
}

// Requirements returns the role requirements with quantities filled in.
// A role listed without a quantity needs RequiredWorkers workers.
func (r SchedulingRequest) Requirements() []RoleRequirement {
	requirements := make([]RoleRequirement, len(r.Roles))
	for i, role := range r.Roles {
		if role.QuantityRequired == 0 {
			role.QuantityRequired = r.RequiredWorkers
		}
		requirements[i] = role
	}
	return requirements
}

// RoleIDs builds requirements from bare role ids, leaving quantities to default
func RoleIDs(ids ...string) []RoleRequirement {
	requirements := make([]RoleRequirement, len(ids))
	for i, id := range ids {
		requirements[i] = RoleRequirement{JobRoleID: id}
	}
	return requirements
}
