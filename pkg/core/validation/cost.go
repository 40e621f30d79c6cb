package validation

import (
	"math"
	"slices"

	"github.com/Mohamed-004/scheduler/pkg/core/coverage"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

// WorkerCost is one worker's share of the estimate
type WorkerCost struct {
	WorkerID string  `json:"worker_id"`
	Name     string  `json:"name"`
	RoleID   string  `json:"role_id,omitempty"`
	Rate     float64 `json:"rate"`
	Cost     float64 `json:"cost"`
}

// PayEstimate is the labour cost of the job
type PayEstimate struct {
	Hours   float64      `json:"hours"`
	Total   float64      `json:"total"`
	Workers []WorkerCost `json:"workers"`

	// Selected is true when the estimate uses the caller's chosen workers
	Selected bool `json:"selected"`

	// Unpriced counts workers left out of the total for lack of a rate
	Unpriced int `json:"unpriced"`
}

// estimateCost prices the selected workers, or a representative pick when none are selected:
// the best available workers of each role, or the first team workers when no roles are given.
func estimateCost(req model.SchedulingRequest, team []model.Worker, roles []coverage.RoleCoverage) *PayEstimate {
	estimate := &PayEstimate{Hours: req.DurationHours(), Workers: []WorkerCost{}}

	add := func(worker model.Worker, roleID string, rate float64) {
		if rate <= 0 {
			estimate.Unpriced++
		}
		estimate.Workers = append(estimate.Workers, WorkerCost{
			WorkerID: worker.ID,
			Name:     worker.DisplayName(),
			RoleID:   roleID,
			Rate:     rate,
			Cost:     roundCents(rate * estimate.Hours),
		})
	}

	switch {
	case len(req.SelectedWorkerIDs) > 0:
		estimate.Selected = true
		for _, id := range req.SelectedWorkerIDs {
			if roleID, rate, worker, ok := rateFromCoverage(id, roles); ok {
				add(worker, roleID, rate)
				continue
			}
			for _, worker := range team {
				if worker.ID == id {
					rate, _ := worker.Rate()
					add(worker, "", rate)
				}
			}
		}
	case len(roles) > 0:
		picked := make(map[string]bool)
		for _, role := range roles {
			taken := 0
			for _, candidate := range role.AvailableWorkers() {
				if taken == role.Required {
					break
				}
				if picked[candidate.Worker.ID] {
					continue
				}
				picked[candidate.Worker.ID] = true
				taken++
				add(candidate.Worker, role.RoleID, candidate.Rate)
			}
		}
	default:
		for _, worker := range team[:min(len(team), max(req.RequiredWorkers, 1))] {
			rate, _ := worker.Rate()
			add(worker, "", rate)
		}
	}

	total := 0.0
	for _, w := range estimate.Workers {
		total += w.Rate * estimate.Hours
	}
	estimate.Total = roundCents(total)
	return estimate
}

func rateFromCoverage(workerID string, roles []coverage.RoleCoverage) (string, float64, model.Worker, bool) {
	for _, role := range roles {
		i := slices.IndexFunc(role.Workers, func(w coverage.EvaluatedWorker) bool { return w.Worker.ID == workerID })
		if i >= 0 {
			return role.RoleID, role.Workers[i].Rate, role.Workers[i].Worker, true
		}
	}
	return "", 0, model.Worker{}, false
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
