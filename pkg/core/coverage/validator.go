// Package coverage decides whether each role a job needs can be staffed by
// qualified, available workers from the requesting team.
package coverage

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mohamed-004/scheduler/pkg/core/availability"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// Status is the coverage outcome for one role
type Status string

const (
	StatusCovered      Status = "covered"
	StatusNoWorkers    Status = "no_workers"
	StatusInsufficient Status = "insufficient"
	StatusUnavailable  Status = "unavailable"
)

// maxConcurrentLookups bounds the per-worker store queries in flight for one role
const maxConcurrentLookups = 8

// EvaluatedWorker is a qualified team worker with their availability for the window
type EvaluatedWorker struct {
	Worker       model.Worker        `json:"worker"`
	Proficiency  int                 `json:"proficiency"`
	Availability availability.Result `json:"availability"`

	// Rate is the role's base rate, or the worker's own rate when the role has none (0 when neither is set)
	Rate float64 `json:"rate"`
}

// RoleCoverage is the full result of checking one role
type RoleCoverage struct {
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
	Status   Status `json:"status"`
	Required int    `json:"required"`

	// Available counts the workers in Workers that are free for the window
	Available int `json:"available"`

	// Workers are ordered best first: available, then by score, proficiency and ID
	Workers []EvaluatedWorker `json:"workers"`
	Issues  []model.Issue     `json:"issues"`

	Role *model.JobRole `json:"-"`
}

// Covered reports whether the role can be staffed
func (c RoleCoverage) Covered() bool {
	return c.Status == StatusCovered
}

// AvailableWorkers returns the workers free for the window, best first
func (c RoleCoverage) AvailableWorkers() []EvaluatedWorker {
	available := make([]EvaluatedWorker, 0, c.Available)
	for _, w := range c.Workers {
		if w.Availability.Available {
			available = append(available, w)
		}
	}
	return available
}

// Request is one role to check against a window
type Request struct {
	TeamID       string
	Date         model.LocalDate
	Start        model.ClockTime
	End          model.ClockTime
	ExcludeJobID string
	Requirement  model.RoleRequirement

	// TeamWorkers is the team's active roster. When nil it is fetched from the store.
	TeamWorkers []model.Worker
}

// Validator classifies role coverage. It only reads.
type Validator struct {
	store    db.CoverageStore
	resolver *availability.Resolver
	logger   *zap.Logger
}

// NewValidator creates a validator reading from the given store
func NewValidator(store db.CoverageStore, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		store:    store,
		resolver: availability.NewResolver(store, logger),
		logger:   logger,
	}
}

// Resolver exposes the availability resolver the validator uses
func (v *Validator) Resolver() *availability.Resolver {
	return v.resolver
}

// ValidateRole checks whether the requirement can be met for the window.
// Store failures are returned as errors; every other outcome is a RoleCoverage
// whose Issues explain it.
func (v *Validator) ValidateRole(ctx context.Context, req Request) (RoleCoverage, error) {
	roleID := req.Requirement.JobRoleID
	result := RoleCoverage{
		RoleID:   roleID,
		RoleName: roleID,
		Required: max(req.Requirement.QuantityRequired, 1),
		Workers:  []EvaluatedWorker{},
		Issues:   []model.Issue{},
	}

	logger := v.logger.With(zap.String("team_id", req.TeamID), zap.String("role_id", roleID))
	logger.Debug("Validating role coverage", zap.Int("required", result.Required))

	role, err := v.store.GetJobRole(ctx, roleID)
	if err != nil {
		return RoleCoverage{}, errors.Wrapf(err, "failed to fetch role %s", roleID)
	}
	// A role owned by another team is as good as missing
	if role == nil || role.TeamID != req.TeamID || !role.Active {
		result.Status = StatusNoWorkers
		result.Issues = append(result.Issues, roleNotFoundIssue(roleID, role))
		logger.Debug("Role not found")
		return result, nil
	}
	result.Role = role
	result.RoleName = role.Name

	capabilities, err := v.store.GetWorkerCapabilities(ctx, roleID)
	if err != nil {
		return RoleCoverage{}, errors.Wrapf(err, "failed to fetch capabilities for role %s", roleID)
	}

	teamWorkers := req.TeamWorkers
	if teamWorkers == nil {
		teamWorkers, err = v.store.GetActiveWorkers(ctx, req.TeamID)
		if err != nil {
			return RoleCoverage{}, errors.Wrapf(err, "failed to fetch workers for team %s", req.TeamID)
		}
	}
	roster := make(map[string]model.Worker, len(teamWorkers))
	for _, w := range teamWorkers {
		if w.Active && w.TeamID == req.TeamID {
			roster[w.ID] = w
		}
	}

	active := 0
	var onTeam, qualified []model.WorkerCapability
	for _, capability := range capabilities {
		if !capability.Active || capability.JobRoleID != roleID {
			continue
		}
		active++
		if _, ok := roster[capability.WorkerID]; !ok {
			continue
		}
		onTeam = append(onTeam, capability)
		if capability.ProficiencyLevel >= req.Requirement.MinProficiencyLevel {
			qualified = append(qualified, capability)
		}
	}

	switch {
	case active == 0:
		result.Status = StatusNoWorkers
		result.Issues = append(result.Issues, noWorkersIssue(*role))
	case len(onTeam) == 0:
		result.Status = StatusNoWorkers
		result.Issues = append(result.Issues, noTeamWorkersIssue(*role))
	case len(qualified) == 0:
		result.Status = StatusNoWorkers
		result.Issues = append(result.Issues, proficiencyUnmetIssue(*role, len(onTeam), req.Requirement.MinProficiencyLevel))
	}
	if result.Status != "" {
		logger.Debug("Role has no qualified team workers",
			zap.Int("active_capabilities", active),
			zap.Int("team_capabilities", len(onTeam)))
		return result, nil
	}

	evaluated, err := v.evaluate(ctx, req, *role, roster, qualified)
	if err != nil {
		return RoleCoverage{}, err
	}
	rank(evaluated)
	result.Workers = evaluated

	for _, w := range evaluated {
		if w.Availability.Available {
			result.Available++
		}
	}

	switch {
	case result.Available == 0:
		result.Status = StatusUnavailable
		result.Issues = append(result.Issues, unavailableIssue(*role, req, len(evaluated)))
	case result.Available < result.Required:
		result.Status = StatusInsufficient
		result.Issues = append(result.Issues, insufficientIssue(*role, result.Available, result.Required))
	default:
		result.Status = StatusCovered
		if busy := len(evaluated) - result.Available; busy > 0 {
			result.Issues = append(result.Issues, partialConflictsIssue(*role, busy, result.Available))
		}
		result.Issues = append(result.Issues, coveredIssue(*role, result.Available))
	}

	logger.Debug("Role coverage resolved",
		zap.String("status", string(result.Status)),
		zap.Int("qualified", len(evaluated)),
		zap.Int("available", result.Available))

	return result, nil
}

// evaluate resolves every qualified worker concurrently. Results keep the input order.
func (v *Validator) evaluate(ctx context.Context, req Request, role model.JobRole, roster map[string]model.Worker, qualified []model.WorkerCapability) ([]EvaluatedWorker, error) {
	evaluated := make([]EvaluatedWorker, len(qualified))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, capability := range qualified {
		worker := roster[capability.WorkerID]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Newf("panic while resolving worker %s: %v", worker.ID, r)
				}
			}()
			availabilityResult, err := v.resolver.Resolve(gctx, availability.Input{
				Worker:       worker,
				TeamID:       req.TeamID,
				Date:         req.Date,
				Start:        req.Start,
				End:          req.End,
				ExcludeJobID: req.ExcludeJobID,
				Proficiency:  capability.ProficiencyLevel,
			})
			if err != nil {
				return err
			}
			evaluated[i] = EvaluatedWorker{
				Worker:       worker,
				Proficiency:  capability.ProficiencyLevel,
				Availability: availabilityResult,
				Rate:         SuggestedRate(role, worker),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "failed to resolve availability for role %s", role.ID)
	}
	return evaluated, nil
}

// SuggestedRate is the role's base rate, falling back to the worker's own rate
func SuggestedRate(role model.JobRole, worker model.Worker) float64 {
	if rate, ok := role.Rate(); ok {
		return rate
	}
	if rate, ok := worker.Rate(); ok {
		return rate
	}
	return 0
}

func rank(workers []EvaluatedWorker) {
	sort.SliceStable(workers, func(i, j int) bool {
		a, b := workers[i], workers[j]
		if a.Availability.Available != b.Availability.Available {
			return a.Availability.Available
		}
		if a.Availability.Score != b.Availability.Score {
			return a.Availability.Score > b.Availability.Score
		}
		if a.Proficiency != b.Proficiency {
			return a.Proficiency > b.Proficiency
		}
		return a.Worker.ID < b.Worker.ID
	})
}
