package assignment

import (
	"fmt"

	"github.com/Mohamed-004/scheduler/pkg/core/coverage"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

// crewFit scores how well the crew's declared capabilities match the requirements.
// A fully covered role earns proficiency x weight plus a spare capacity bonus; a partly
// covered one earns credit in proportion to the share it covers.
func crewFit(crew model.Crew, roles []coverage.RoleCoverage, weights Weights) (float64, []MissingRole) {
	var missing []MissingRole
	total := 0.0

	for _, role := range roles {
		capability, ok := crew.Capability(role.RoleID)
		if !ok || capability.Capacity <= 0 {
			missing = append(missing, MissingRole{RoleID: role.RoleID, Required: role.Required})
			continue
		}

		base := float64(capability.ProficiencyLevel) * weights.Proficiency
		if capability.Capacity >= role.Required {
			spare := float64(capability.Capacity - role.Required)
			total += min(base+min(spare*weights.CapacityBonus, weights.MaxCapacityBonus), maxFit)
			continue
		}

		share := float64(capability.Capacity) / float64(role.Required)
		total += min(base, maxFit) * share
		missing = append(missing, MissingRole{RoleID: role.RoleID, Required: role.Required, Covered: capability.Capacity})
	}

	if len(roles) == 0 {
		return 0, missing
	}
	return total / float64(len(roles)), missing
}

// suggestCrew staffs the requirements from one crew's members.
// Members are taken in the role's ranking order, so the pick is deterministic.
func suggestCrew(crew model.Crew, roles []coverage.RoleCoverage, weights Weights, hours float64) (Suggestion, bool) {
	fit, missing := crewFit(crew, roles, weights)

	suggestion := Suggestion{
		ID:        "crew-" + crew.ID,
		Strategy:  StrategyCrew,
		CrewID:    crew.ID,
		CrewName:  crew.Name,
		Workers:   []Member{},
		Conflicts: []string{},
	}
	declared := make(map[string]bool, len(missing))
	for _, m := range missing {
		declared[m.RoleID] = true
	}
	used := make(map[string]bool)

	for _, role := range roles {
		// A crew never staffs more of a role than it declares
		limit := 0
		if capability, ok := crew.Capability(role.RoleID); ok {
			limit = min(capability.Capacity, role.Required)
		}

		picked := 0
		for _, candidate := range role.Workers {
			if picked == limit {
				break
			}
			if !crew.HasMember(candidate.Worker.ID) || used[candidate.Worker.ID] {
				continue
			}
			used[candidate.Worker.ID] = true
			picked++

			availability := candidate.Availability
			suggestion.Workers = append(suggestion.Workers, Member{
				WorkerID:  candidate.Worker.ID,
				Name:      candidate.Worker.DisplayName(),
				RoleID:    role.RoleID,
				Rate:      candidate.Rate,
				Score:     (float64(availability.Score) + fit) / 2,
				IsLead:    candidate.Worker.ID == crew.LeadWorkerID,
				Available: availability.Available,
			})
			suggestion.Conflicts = append(suggestion.Conflicts, availability.Conflicts...)
		}

		// Declared capacity the members cannot back up is still a gap
		if picked < limit && !declared[role.RoleID] {
			missing = append(missing, MissingRole{RoleID: role.RoleID, Required: role.Required, Covered: picked})
		}
		if picked < role.Required {
			suggestion.Conflicts = append(suggestion.Conflicts,
				fmt.Sprintf("%s can only staff %d of %d %s workers", crew.Name, picked, role.Required, role.RoleName))
		}
	}

	if len(suggestion.Workers) == 0 {
		return Suggestion{}, false
	}
	suggestion.MissingRoles = missing
	finalize(&suggestion, hours)
	return suggestion, true
}
