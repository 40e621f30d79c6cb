package coverage

import (
	"fmt"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

var (
	roleManagement = model.Action{
		Type:   model.ActionNavigateRoleManagement,
		Label:  "Manage roles",
		Target: "/roles",
	}
	workerManagement = model.Action{
		Type:   model.ActionNavigateWorkerManagement,
		Label:  "Manage workers",
		Target: "/workers",
	}
	availabilityManagement = model.Action{
		Type:   model.ActionNavigateAvailability,
		Label:  "Review availability",
		Target: "/availability",
	}
	adjustTime = model.Action{
		Type:  model.ActionAdjustTime,
		Label: "Pick a different time",
	}
)

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}

func roleNotFoundIssue(roleID string, role *model.JobRole) model.Issue {
	message := fmt.Sprintf("The role %q does not exist for this team.", roleID)
	if role != nil && !role.Active && role.TeamID != "" {
		message = fmt.Sprintf("The role %q is no longer active.", role.Name)
	}
	return model.Issue{
		Severity: model.SeverityError,
		Code:     model.CodeRoleNotFound,
		Title:    "Role not found",
		Message:  message,
		Suggestions: []string{
			"Check the role in role management",
			"Remove the role from this job",
		},
		Actions: []model.Action{roleManagement},
		RoleID:  roleID,
	}
}

func noWorkersIssue(role model.JobRole) model.Issue {
	return model.Issue{
		Severity: model.SeverityError,
		Code:     model.CodeRoleNoWorkers,
		Title:    fmt.Sprintf("No workers for %s", role.Name),
		Message:  fmt.Sprintf("No workers are assigned the %s role. This needs a team change, not a different time.", role.Name),
		Suggestions: []string{
			fmt.Sprintf("Assign the %s role to existing workers", role.Name),
			fmt.Sprintf("Train or hire workers for %s", role.Name),
		},
		Actions: []model.Action{roleManagement, workerManagement},
		RoleID:  role.ID,
	}
}

func noTeamWorkersIssue(role model.JobRole) model.Issue {
	return model.Issue{
		Severity: model.SeverityError,
		Code:     model.CodeRoleNoTeamWorkers,
		Title:    fmt.Sprintf("No team members can work as %s", role.Name),
		Message:  fmt.Sprintf("Nobody active on your team holds the %s role.", role.Name),
		Suggestions: []string{
			fmt.Sprintf("Assign the %s role to one of your workers", role.Name),
			"Reactivate workers who hold this role",
		},
		Actions: []model.Action{workerManagement},
		RoleID:  role.ID,
	}
}

func proficiencyUnmetIssue(role model.JobRole, holders, minimum int) model.Issue {
	return model.Issue{
		Severity: model.SeverityError,
		Code:     model.CodeRoleProficiencyUnmet,
		Title:    fmt.Sprintf("No %s workers at the required level", role.Name),
		Message: fmt.Sprintf("%s the %s role, but none at proficiency %d or above.",
			plural(holders, "worker holds", "workers hold"), role.Name, minimum),
		Suggestions: []string{
			"Lower the minimum proficiency for this job",
			fmt.Sprintf("Train workers in %s", role.Name),
		},
		Actions: []model.Action{workerManagement},
		RoleID:  role.ID,
	}
}

func unavailableIssue(role model.JobRole, req Request, qualified int) model.Issue {
	return model.Issue{
		Severity: model.SeverityError,
		Code:     model.CodeRoleUnavailable,
		Title:    fmt.Sprintf("No %s workers available", role.Name),
		Message: fmt.Sprintf("%s assigned to %s, but none are free %s-%s on %s %s.",
			plural(qualified, "worker is", "workers are"), role.Name, req.Start, req.End, req.Date.Weekday(), req.Date),
		Suggestions: []string{
			"Try a different time or date",
			"Check the suggested times below",
			"Review worker availability and existing bookings",
		},
		Actions: []model.Action{adjustTime, availabilityManagement},
		RoleID:  role.ID,
	}
}

func insufficientIssue(role model.JobRole, available, required int) model.Issue {
	return model.Issue{
		Severity: model.SeverityError,
		Code:     model.CodeRoleInsufficient,
		Title:    fmt.Sprintf("Not enough %s workers", role.Name),
		Message: fmt.Sprintf("Only %d of %d required %s workers are available (%d short).",
			available, required, role.Name, required-available),
		Suggestions: []string{
			fmt.Sprintf("Lower the requirement to %d", available),
			fmt.Sprintf("Assign or train more workers for %s", role.Name),
			"Try a different time when more workers are free",
		},
		Actions: []model.Action{workerManagement, adjustTime},
		RoleID:  role.ID,
	}
}

func partialConflictsIssue(role model.JobRole, busy, available int) model.Issue {
	return model.Issue{
		Severity: model.SeverityWarning,
		Code:     model.CodeRolePartialConflicts,
		Title:    fmt.Sprintf("Some %s workers are busy", role.Name),
		Message: fmt.Sprintf("%s unavailable at this time; %d can still cover it.",
			plural(busy, "qualified worker is", "qualified workers are"), available),
		Suggestions: []string{"Review the conflicts before assigning workers"},
		Actions:     []model.Action{availabilityManagement},
		RoleID:      role.ID,
	}
}

func coveredIssue(role model.JobRole, available int) model.Issue {
	return model.Issue{
		Severity:    model.SeverityInfo,
		Code:        model.CodeRoleCovered,
		Title:       fmt.Sprintf("%s covered", role.Name),
		Message:     fmt.Sprintf("%s available.", plural(available, role.Name+" worker", role.Name+" workers")),
		Suggestions: []string{},
		RoleID:      role.ID,
	}
}
