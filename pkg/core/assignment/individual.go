package assignment

import (
	"fmt"

	"github.com/Mohamed-004/scheduler/pkg/core/coverage"
)

// suggestIndividual fills each role slot with the best remaining available worker.
// Role workers arrive ranked by availability score, then proficiency, then ID.
// A worker fills at most one slot.
func suggestIndividual(roles []coverage.RoleCoverage, hours float64) (Suggestion, bool) {
	suggestion := Suggestion{
		ID:        string(StrategyIndividual),
		Strategy:  StrategyIndividual,
		Workers:   []Member{},
		Conflicts: []string{},
	}
	used := make(map[string]bool)

	for _, role := range roles {
		picked := 0
		for _, candidate := range role.Workers {
			if picked == role.Required {
				break
			}
			if !candidate.Availability.Available || used[candidate.Worker.ID] {
				continue
			}
			used[candidate.Worker.ID] = true
			picked++
			suggestion.Workers = append(suggestion.Workers, Member{
				WorkerID:  candidate.Worker.ID,
				Name:      candidate.Worker.DisplayName(),
				RoleID:    role.RoleID,
				Rate:      candidate.Rate,
				Score:     float64(candidate.Availability.Score),
				Available: true,
			})
		}

		if picked < role.Required {
			suggestion.MissingRoles = append(suggestion.MissingRoles, MissingRole{
				RoleID:   role.RoleID,
				Required: role.Required,
				Covered:  picked,
			})
			suggestion.Conflicts = append(suggestion.Conflicts,
				fmt.Sprintf("Only %d of %d %s workers are available", picked, role.Required, role.RoleName))
		}
	}

	if len(suggestion.Workers) == 0 {
		return Suggestion{}, false
	}
	finalize(&suggestion, hours)
	return suggestion, true
}
