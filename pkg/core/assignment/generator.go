// Package assignment proposes concrete worker-to-role assignments for a job,
// either as individual picks or as whole crews, scored and ranked.
package assignment

import (
	"context"
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mohamed-004/scheduler/pkg/core/coverage"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// Strategy is how a suggestion was built
type Strategy string

const (
	StrategyIndividual Strategy = "individual"
	StrategyCrew       Strategy = "crew"
)

const maxConcurrentRoles = 8

// Member is one worker placed in a role
type Member struct {
	WorkerID  string  `json:"worker_id"`
	Name      string  `json:"name"`
	RoleID    string  `json:"role_id"`
	Rate      float64 `json:"hourly_rate"`
	Score     float64 `json:"score"`
	IsLead    bool    `json:"is_lead"`
	Available bool    `json:"available"`
}

// MissingRole records a requirement a suggestion cannot fully staff
type MissingRole struct {
	RoleID   string `json:"role_id"`
	Required int    `json:"required"`
	Covered  int    `json:"covered"`
}

// Suggestion is one ranked candidate assignment
type Suggestion struct {
	ID            string        `json:"id"`
	Strategy      Strategy      `json:"strategy"`
	CrewID        string        `json:"crew_id,omitempty"`
	CrewName      string        `json:"crew_name,omitempty"`
	Workers       []Member      `json:"workers"`
	TotalScore    float64       `json:"total_score"`
	EstimatedCost float64       `json:"estimated_cost"`
	Conflicts     []string      `json:"conflicts"`
	MissingRoles  []MissingRole `json:"missing_roles,omitempty"`
}

// Complete reports whether the suggestion staffs every requirement
func (s Suggestion) Complete() bool {
	return len(s.MissingRoles) == 0
}

// Assignments converts the suggestion into rows ready to persist for a job
func (s Suggestion) Assignments(jobID string) []model.WorkerRoleAssignment {
	assignments := make([]model.WorkerRoleAssignment, len(s.Workers))
	for i, m := range s.Workers {
		assignments[i] = model.WorkerRoleAssignment{
			JobID:      jobID,
			WorkerID:   m.WorkerID,
			JobRoleID:  m.RoleID,
			HourlyRate: m.Rate,
			IsLead:     m.IsLead,
		}
	}
	return assignments
}

// FullySatisfying filters to suggestions with no missing role, keeping their order
func FullySatisfying(suggestions []Suggestion) []Suggestion {
	complete := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Complete() {
			complete = append(complete, s)
		}
	}
	return complete
}

// Generator builds suggestions. It only reads and holds no per-request state.
type Generator struct {
	store    db.SuggestionStore
	coverage *coverage.Validator
	weights  Weights
	logger   *zap.Logger
}

// NewGenerator creates a generator with the default weights
func NewGenerator(store db.SuggestionStore, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		store:    store,
		coverage: coverage.NewValidator(store, logger),
		weights:  DefaultWeights(),
		logger:   logger,
	}
}

// WithWeights returns a copy of the generator using the given weights
func (g *Generator) WithWeights(weights Weights) *Generator {
	clone := *g
	clone.weights = weights
	return &clone
}

// Suggest returns crew and individual suggestions, best first.
// Ordering is by total score, then lower cost, then ID, so repeated calls
// against unchanged data return identical results.
func (g *Generator) Suggest(ctx context.Context, req model.SchedulingRequest) ([]Suggestion, error) {
	requirements := req.Requirements()
	logger := g.logger.With(zap.String("team_id", req.TeamID), zap.String("date", req.Date.String()))
	logger.Debug("Generating assignment suggestions", zap.Int("requirements", len(requirements)))

	if len(requirements) == 0 {
		return []Suggestion{}, nil
	}

	// Step 1: who is on the team and who can cover each role
	team, err := g.store.GetActiveWorkers(ctx, req.TeamID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch team workers")
	}

	roles, err := g.roleCoverage(ctx, req, requirements, team)
	if err != nil {
		return nil, err
	}

	// Step 2: one individual pick, then one candidate per crew of this team
	crews, err := g.store.GetCrews(ctx, req.TeamID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch crews")
	}

	hours := req.DurationHours()
	suggestions := make([]Suggestion, 0, len(crews)+1)
	if individual, ok := suggestIndividual(roles, hours); ok {
		suggestions = append(suggestions, individual)
	}
	for _, crew := range crews {
		if crew.TeamID != req.TeamID {
			continue
		}
		if suggestion, ok := suggestCrew(crew, roles, g.weights, hours); ok {
			suggestions = append(suggestions, suggestion)
		}
	}

	// Step 3: highest score first, cheaper on ties
	rank(suggestions)

	logger.Debug("Generated suggestions",
		zap.Int("count", len(suggestions)),
		zap.Int("complete", len(FullySatisfying(suggestions))))

	return suggestions, nil
}

func (g *Generator) roleCoverage(ctx context.Context, req model.SchedulingRequest, requirements []model.RoleRequirement, team []model.Worker) ([]coverage.RoleCoverage, error) {
	roles := make([]coverage.RoleCoverage, len(requirements))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentRoles)
	for i, requirement := range requirements {
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Newf("panic while checking role %s: %v", requirement.JobRoleID, r)
				}
			}()
			role, err := g.coverage.ValidateRole(egctx, coverage.Request{
				TeamID:       req.TeamID,
				Date:         req.Date,
				Start:        req.Start,
				End:          req.End,
				ExcludeJobID: req.ExcludeJobID,
				Requirement:  requirement,
				TeamWorkers:  team,
			})
			if err != nil {
				return err
			}
			roles[i] = role
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return roles, nil
}

// finalize fills the aggregate fields from the member list
func finalize(s *Suggestion, hours float64) {
	if len(s.Workers) == 0 {
		return
	}
	lead := 0
	for i, m := range s.Workers {
		if m.IsLead {
			lead = i
			break
		}
	}
	for i := range s.Workers {
		s.Workers[i].IsLead = i == lead
	}

	total, cost := 0.0, 0.0
	for _, m := range s.Workers {
		total += m.Score
		cost += m.Rate * hours
	}
	s.TotalScore = round2(total / float64(len(s.Workers)))
	s.EstimatedCost = round2(cost)
}

func rank(suggestions []Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.EstimatedCost != b.EstimatedCost {
			return a.EstimatedCost < b.EstimatedCost
		}
		return a.ID < b.ID
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
