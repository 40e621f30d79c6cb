package model

import "time"

// DaySchedule is a worker's on-shift hours for one day
type DaySchedule struct {
	Available bool      `json:"available"`
	Start     ClockTime `json:"start"`
	End       ClockTime `json:"end"`
}

// Contains reports whether [start, end) fits entirely inside the shift.
// An unavailable day contains nothing.
func (d DaySchedule) Contains(start, end ClockTime) bool {
	return d.Available && start >= d.Start && end <= d.End
}

// WeeklySchedule is a worker's default schedule keyed by weekday
type WeeklySchedule map[time.Weekday]DaySchedule

// For returns the entry for the weekday. Missing entries are unavailable.
func (w WeeklySchedule) For(day time.Weekday) DaySchedule {
	if w == nil {
		return DaySchedule{}
	}
	entry, ok := w[day]
	if !ok {
		return DaySchedule{}
	}
	return entry
}

// AvailabilityException overrides the weekly schedule for one exact date.
// When Unavailable is false, Start/End replace the default hours.
type AvailabilityException struct {
	WorkerID    string    `json:"worker_id"`
	Date        LocalDate `json:"date"`
	Unavailable bool      `json:"unavailable"`
	Start       ClockTime `json:"start"`
	End         ClockTime `json:"end"`
	Reason      string    `json:"reason,omitempty"`
}

// DaySchedule converts the exception into the day entry it substitutes
func (e AvailabilityException) DaySchedule() DaySchedule {
	if e.Unavailable {
		return DaySchedule{}
	}
	return DaySchedule{Available: true, Start: e.Start, End: e.End}
}

// Worker is a team member who can be assigned to jobs
type Worker struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	TeamID     string         `json:"team_id"`
	Active     bool           `json:"active"`
	HourlyRate *float64       `json:"hourly_rate,omitempty"`
	Schedule   WeeklySchedule `json:"-"`
}

// Rate returns the worker's hourly rate and whether it is usable (set and > 0)
func (w Worker) Rate() (float64, bool) {
	if w.HourlyRate == nil || *w.HourlyRate <= 0 {
		return 0, false
	}
	return *w.HourlyRate, true
}

// DisplayName falls back to the ID for unnamed workers
func (w Worker) DisplayName() string {
	if w.Name == "" {
		return w.ID
	}
	return w.Name
}

// WorkerCapability links a worker to a job role they are qualified for
type WorkerCapability struct {
	WorkerID         string `json:"worker_id"`
	JobRoleID        string `json:"job_role_id"`
	ProficiencyLevel int    `json:"proficiency_level"`
	Active           bool   `json:"active"`
}

// JobRole is a team-scoped skill category such as "Window Cleaner"
type JobRole struct {
	ID       string   `json:"id"`
	TeamID   string   `json:"team_id"`
	Name     string   `json:"name"`
	BaseRate *float64 `json:"base_rate,omitempty"`
	Active   bool     `json:"active"`
}

// Rate returns the role's base hourly rate when one is set
func (r JobRole) Rate() (float64, bool) {
	if r.BaseRate == nil || *r.BaseRate <= 0 {
		return 0, false
	}
	return *r.BaseRate, true
}

// Float is a helper for building optional rates
func Float(v float64) *float64 {
	return &v
}
