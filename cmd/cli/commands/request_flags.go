package commands

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

// requestFlags are the flags describing a job to check
type requestFlags struct {
	team     string
	date     string
	start    string
	end      string
	workers  int
	roles    []string
	selected []string
	exclude  string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.team, "team", "", "team ID")
	cmd.Flags().StringVar(&f.date, "date", "", "job date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.start, "start", "", "start time (HH:MM)")
	cmd.Flags().StringVar(&f.end, "end", "", "end time (HH:MM)")
	cmd.Flags().IntVar(&f.workers, "workers", 1, "workers required in total")
	cmd.Flags().StringArrayVar(&f.roles, "role", nil, "required role as role[:quantity[:min_proficiency]], repeatable")
	cmd.Flags().StringSliceVar(&f.selected, "selected", nil, "worker IDs already picked, used for the cost estimate")
	cmd.Flags().StringVar(&f.exclude, "exclude-job", "", "job ID to ignore when checking overlaps")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func (f *requestFlags) request() (model.SchedulingRequest, error) {
	date, err := model.ParseLocalDate(f.date)
	if err != nil {
		return model.SchedulingRequest{}, err
	}
	start, err := model.ParseClockTime(f.start)
	if err != nil {
		return model.SchedulingRequest{}, errors.Wrap(err, "--start")
	}
	end, err := model.ParseClockTime(f.end)
	if err != nil {
		return model.SchedulingRequest{}, errors.Wrap(err, "--end")
	}
	roles, err := parseRoles(f.roles)
	if err != nil {
		return model.SchedulingRequest{}, err
	}

	return model.SchedulingRequest{
		TeamID:            f.team,
		Date:              date,
		Start:             start,
		End:               end,
		RequiredWorkers:   f.workers,
		Roles:             roles,
		ExcludeJobID:      f.exclude,
		SelectedWorkerIDs: f.selected,
	}, nil
}

// parseRoles reads role[:quantity[:min_proficiency]] values.
// A missing quantity is left at zero so it defaults to --workers.
func parseRoles(values []string) ([]model.RoleRequirement, error) {
	roles := make([]model.RoleRequirement, 0, len(values))
	for _, value := range values {
		parts := strings.Split(value, ":")
		if len(parts) > 3 || parts[0] == "" {
			return nil, errors.Newf("invalid --role %q: expected role[:quantity[:min_proficiency]]", value)
		}

		role := model.RoleRequirement{JobRoleID: parts[0]}
		if len(parts) > 1 {
			quantity, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, errors.Newf("invalid quantity in --role %q", value)
			}
			role.QuantityRequired = quantity
		}
		if len(parts) > 2 {
			level, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, errors.Newf("invalid proficiency in --role %q", value)
			}
			role.MinProficiencyLevel = level
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// parseAssignments reads worker:role values
func parseAssignments(values []string, lead string) ([]model.WorkerRoleAssignment, error) {
	assignments := make([]model.WorkerRoleAssignment, 0, len(values))
	for _, value := range values {
		workerID, roleID, ok := strings.Cut(value, ":")
		if !ok || workerID == "" || roleID == "" {
			return nil, errors.Newf("invalid --assign %q: expected worker:role", value)
		}
		assignments = append(assignments, model.WorkerRoleAssignment{
			WorkerID:  workerID,
			JobRoleID: roleID,
			IsLead:    workerID == lead,
		})
	}
	return assignments, nil
}
