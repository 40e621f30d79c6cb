package validation

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var adjustTime = model.Action{Type: model.ActionAdjustTime, Label: "Change the time"}

// checkRequest reports malformed requests. Nothing else runs when it finds a problem.
func checkRequest(req model.SchedulingRequest) []model.Issue {
	issues := make([]model.Issue, 0)
	invalid := func(message string) {
		issues = append(issues, model.Issue{
			Severity:    model.SeverityError,
			Code:        model.CodeInvalidRequest,
			Title:       "Invalid request",
			Message:     message,
			Suggestions: []string{"Check the job details and try again"},
		})
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				invalid(fmt.Sprintf("%s failed the %q check", fe.Namespace(), fe.Tag()))
			}
		} else {
			invalid(err.Error())
		}
	}
	if req.Date.IsZero() {
		invalid("A date is required.")
	}

	seen := make(map[string]bool, len(req.Roles))
	for _, role := range req.Requirements() {
		if role.JobRoleID == "" {
			continue
		}
		if seen[role.JobRoleID] {
			invalid(fmt.Sprintf("Role %s is listed more than once.", role.JobRoleID))
		}
		seen[role.JobRoleID] = true
		if role.QuantityRequired < 1 {
			invalid(fmt.Sprintf("Role %s needs at least one worker.", role.JobRoleID))
		}
	}
	return issues
}

// checkTime runs the date and time rules. Only PAST_DATE and INVALID_TIME_RANGE block.
func checkTime(req model.SchedulingRequest, opts Options) []model.Issue {
	issues := make([]model.Issue, 0)

	today := model.LocalDateOf(opts.Now())
	if req.Date.Before(today) {
		issues = append(issues, model.Issue{
			Severity:    model.SeverityError,
			Code:        model.CodePastDate,
			Title:       "Date is in the past",
			Message:     fmt.Sprintf("%s has already passed.", req.Date),
			Suggestions: []string{"Pick today or a future date"},
			Actions:     []model.Action{adjustTime},
		})
	}

	if req.End <= req.Start {
		issues = append(issues, model.Issue{
			Severity:    model.SeverityError,
			Code:        model.CodeInvalidTimeRange,
			Title:       "Invalid time range",
			Message:     fmt.Sprintf("The end time %s must be after the start time %s.", req.End, req.Start),
			Suggestions: []string{"Set an end time later than the start time"},
			Actions:     []model.Action{adjustTime},
		})
		// Duration rules are meaningless for an inverted range
		return issues
	}

	if req.Start < opts.BusinessStart || req.End > opts.BusinessEnd {
		issues = append(issues, model.Issue{
			Severity: model.SeverityWarning,
			Code:     model.CodeUnusualHours,
			Title:    "Outside business hours",
			Message: fmt.Sprintf("%s-%s falls outside the usual %s-%s.",
				req.Start, req.End, opts.BusinessStart, opts.BusinessEnd),
			Suggestions: []string{"Confirm the client expects work at this time"},
		})
	}

	hours := req.DurationHours()
	if hours > opts.MaxDurationHours {
		issues = append(issues, model.Issue{
			Severity:    model.SeverityWarning,
			Code:        model.CodeLongDuration,
			Title:       "Very long job",
			Message:     fmt.Sprintf("This job lasts %s, longer than %s.", formatHours(hours), formatHours(opts.MaxDurationHours)),
			Suggestions: []string{"Consider splitting it across several days"},
		})
	}
	if hours < opts.MinDurationHours {
		issues = append(issues, model.Issue{
			Severity:    model.SeverityWarning,
			Code:        model.CodeShortDuration,
			Title:       "Very short job",
			Message:     fmt.Sprintf("This job lasts %s, shorter than %s.", formatHours(hours), formatHours(opts.MinDurationHours)),
			Suggestions: []string{"Check the end time is correct"},
		})
	}

	if closure, closed := opts.closedOn(req.Date); closed {
		issues = append(issues, model.Issue{
			Severity:    model.SeverityWarning,
			Code:        model.CodeClosureDay,
			Title:       "Business closed",
			Message:     fmt.Sprintf("%s is marked as a closure day (%s).", req.Date, closure.Name),
			Suggestions: []string{"Pick another date unless this job is an exception"},
			Actions:     []model.Action{adjustTime},
		})
	}

	return issues
}

func noRolesIssue() model.Issue {
	return model.Issue{
		Severity:    model.SeverityWarning,
		Code:        model.CodeNoRolesSpecified,
		Title:       "No roles specified",
		Message:     "The job does not require any specific role, so any team member can be assigned.",
		Suggestions: []string{"Add the roles this job needs to get precise coverage checks"},
		Actions:     []model.Action{{Type: model.ActionNavigateRoleManagement, Label: "Manage roles", Target: "/roles"}},
	}
}

func formatHours(hours float64) string {
	text := strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", hours), "0"), ".")
	if text == "1" {
		return "1 hour"
	}
	return text + " hours"
}
