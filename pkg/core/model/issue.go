package model

// Severity tiers for validation issues
type Severity string

const (
	// SeverityError blocks job creation
	SeverityError Severity = "error"
	// SeverityWarning is shown prominently but never blocks
	SeverityWarning Severity = "warning"
	// SeverityInfo confirms or summarises
	SeverityInfo Severity = "info"
)

// IssueCode identifies the condition an issue reports
type IssueCode string

// Blocking codes
const (
	CodePastDate             IssueCode = "PAST_DATE"
	CodeInvalidTimeRange     IssueCode = "INVALID_TIME_RANGE"
	CodeInvalidRequest       IssueCode = "INVALID_REQUEST"
	CodeNoWorkers            IssueCode = "NO_WORKERS"
	CodeInsufficientWorkers  IssueCode = "INSUFFICIENT_WORKERS"
	CodeRoleNotFound         IssueCode = "ROLE_NOT_FOUND"
	CodeRoleNoWorkers        IssueCode = "ROLE_NO_WORKERS"
	CodeRoleNoTeamWorkers    IssueCode = "ROLE_NO_TEAM_WORKERS"
	CodeRoleProficiencyUnmet IssueCode = "ROLE_PROFICIENCY_UNMET"
	CodeRoleUnavailable      IssueCode = "ROLE_UNAVAILABLE"
	CodeRoleInsufficient     IssueCode = "ROLE_INSUFFICIENT"
	CodeValidationError      IssueCode = "VALIDATION_ERROR"
)

// Warning codes
const (
	CodeUnusualHours         IssueCode = "UNUSUAL_HOURS"
	CodeLongDuration         IssueCode = "LONG_DURATION"
	CodeShortDuration        IssueCode = "SHORT_DURATION"
	CodeClosureDay           IssueCode = "CLOSURE_DAY"
	CodeMissingPayRates      IssueCode = "MISSING_PAY_RATES"
	CodeRolePartialConflicts IssueCode = "ROLE_PARTIAL_CONFLICTS"
	CodeNoRolesSpecified     IssueCode = "NO_ROLES_SPECIFIED"
)

// Info codes
const (
	CodeRoleCovered      IssueCode = "ROLE_COVERED"
	CodeTeamHours        IssueCode = "TEAM_HOURS"
	CodeAlternativeTimes IssueCode = "ALTERNATIVE_TIMES"
)

// ActionType is a machine-actionable follow-up the UI can offer
type ActionType string

const (
	ActionNavigateRoleManagement   ActionType = "navigate_role_management"
	ActionNavigateWorkerManagement ActionType = "navigate_worker_management"
	ActionNavigateAvailability     ActionType = "navigate_availability"
	ActionAdjustTime               ActionType = "adjust_time"
	ActionRetry                    ActionType = "retry"
)

// Action is an optional follow-up attached to an issue
type Action struct {
	Type   ActionType `json:"type"`
	Label  string     `json:"label"`
	Target string     `json:"target,omitempty"`
}

// Issue is a single user-facing diagnostic
type Issue struct {
	Severity    Severity  `json:"severity"`
	Code        IssueCode `json:"code"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Suggestions []string  `json:"suggestions"`
	Actions     []Action  `json:"actions,omitempty"`

	// RoleID is set for issues raised while checking a specific role
	RoleID string `json:"role_id,omitempty"`
}

// IsBlocking reports whether the issue prevents job creation
func (i Issue) IsBlocking() bool {
	return i.Severity == SeverityError
}

// HasErrors reports whether any issue is blocking
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.IsBlocking() {
			return true
		}
	}
	return false
}

// FilterBySeverity returns the issues of one severity, preserving order
func FilterBySeverity(issues []Issue, severity Severity) []Issue {
	filtered := make([]Issue, 0)
	for _, issue := range issues {
		if issue.Severity == severity {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// Codes lists the issue codes in order, handy for assertions and logging
func Codes(issues []Issue) []IssueCode {
	codes := make([]IssueCode, len(issues))
	for i, issue := range issues {
		codes[i] = issue.Code
	}
	return codes
}
