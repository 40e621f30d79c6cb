// Package validation runs the full scheduling check for a requested job:
// time rules, team capacity, per-role coverage, pay rates, alternative
// slots and a cost estimate.
package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mohamed-004/scheduler/pkg/core/coverage"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// maxConcurrentLookups bounds roles (and team members) resolved at once
const maxConcurrentLookups = 8

// Result is the structured verdict for one request. Valid is true exactly
// when Issues holds no error-severity entry.
type Result struct {
	Valid       bool                    `json:"valid"`
	Issues      []model.Issue           `json:"issues"`
	Suggestions Suggestions             `json:"suggestions"`
	PayEstimate *PayEstimate            `json:"pay_estimate,omitempty"`
	Roles       []coverage.RoleCoverage `json:"roles"`
}

// Role returns the coverage computed for a role, if it was checked
func (r Result) Role(roleID string) (coverage.RoleCoverage, bool) {
	for _, role := range r.Roles {
		if role.RoleID == roleID {
			return role, true
		}
	}
	return coverage.RoleCoverage{}, false
}

// Orchestrator validates scheduling requests against a store.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	store    db.ValidationStore
	coverage *coverage.Validator
	opts     Options
	logger   *zap.Logger
}

// New creates an orchestrator. Zero option fields take their defaults.
func New(store db.ValidationStore, opts Options, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:    store,
		coverage: coverage.NewValidator(store, logger),
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// Options returns the effective options
func (o *Orchestrator) Options() Options {
	return o.opts
}

// Validate never returns an error: lookup failures, panics and timeouts become a
// single VALIDATION_ERROR issue appended to whatever was found before.
//
// The pipeline runs in its own goroutine so the timeout holds even for a store
// that ignores ctx; such a call is abandoned, not interrupted.
func (o *Orchestrator) Validate(ctx context.Context, req model.SchedulingRequest) Result {
	ctx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	logger := o.logger.With(zap.String("team_id", req.TeamID), zap.String("date", req.Date.String()))
	logger.Debug("Validating scheduling request",
		zap.String("start", req.Start.String()),
		zap.String("end", req.End.String()),
		zap.Int("required_workers", req.RequiredWorkers),
		zap.Int("roles", len(req.Roles)))

	done := make(chan Result, 1)
	go func() {
		done <- o.run(ctx, logger, req)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		// Only the pure checks are safe to repeat here; store results are unknown
		result := newResult()
		if issues := checkRequest(req); len(issues) == 0 {
			result.Issues = append(result.Issues, checkTime(req, o.opts)...)
		}
		return o.fail(logger, result, errors.Wrap(ctx.Err(), "validation did not finish"))
	}
}

func newResult() Result {
	return Result{
		Issues:      []model.Issue{},
		Suggestions: Suggestions{AvailableSlots: []Slot{}, BestTimes: []Slot{}},
		Roles:       []coverage.RoleCoverage{},
	}
}

// run is the validation pipeline. A panic anywhere in it is recovered and
// reported like a failed lookup.
func (o *Orchestrator) run(ctx context.Context, logger *zap.Logger, req model.SchedulingRequest) (out Result) {
	result := newResult()
	defer func() {
		if r := recover(); r != nil {
			out = o.fail(logger, result, errors.Newf("panic during validation: %v", r))
		}
	}()

	// Step 0: request shape. Nothing else runs on a malformed request.
	if issues := checkRequest(req); len(issues) > 0 {
		result.Issues = issues
		return o.finish(logger, result)
	}

	// Step 1: time constraints. Blocking problems stop here with their issues kept.
	timeIssues := checkTime(req, o.opts)
	result.Issues = append(result.Issues, timeIssues...)
	if model.HasErrors(timeIssues) {
		logger.Debug("Time constraints failed", zap.Any("codes", model.Codes(timeIssues)))
		return o.finish(logger, result)
	}

	// Step 2: team capacity
	team, err := o.store.GetActiveWorkers(ctx, req.TeamID)
	if err != nil {
		return o.fail(logger, result, errors.Wrap(err, "failed to fetch team workers"))
	}
	if capacityIssue, ok := checkCapacity(team, req.RequiredWorkers); !ok {
		result.Issues = append(result.Issues, capacityIssue)
		return o.finish(logger, result)
	}

	// Step 3: per-role coverage, concurrently, in request order
	requirements := req.Requirements()
	if len(requirements) == 0 {
		result.Issues = append(result.Issues, noRolesIssue())
	} else {
		roles, err := o.checkRoles(ctx, req, requirements, team)
		if err != nil {
			return o.fail(logger, result, err)
		}
		result.Roles = roles
		for _, role := range roles {
			result.Issues = append(result.Issues, role.Issues...)
		}
	}

	// Step 4: pay rates
	if issue, ok := missingPayRates(team, result.Roles); ok {
		result.Issues = append(result.Issues, issue)
	}

	// Step 5: alternative slots. A failure here loses the suggestions, never the verdict.
	shifts, err := teamShifts(ctx, o.coverage.Resolver(), team, req.Date)
	if err != nil {
		logger.Warn("Could not compute alternative slots", zap.Error(err))
	} else {
		// Slots already started today are no use
		notBefore := model.ClockTime(0)
		now := o.opts.Now()
		if req.Date.Equal(model.LocalDateOf(now)) {
			notBefore = model.NewClockTime(now.Hour(), now.Minute())
		}
		result.Suggestions = buildSlots(req.Date, shifts, o.opts, notBefore)
		result.Issues = append(result.Issues, teamHoursIssue(req.Date, shifts))
		if model.HasErrors(result.Issues) && len(result.Suggestions.BestTimes) > 0 {
			result.Issues = append(result.Issues, alternativeTimesIssue(result.Suggestions.BestTimes))
		}
	}

	// Step 6: cost, only for a bookable job
	if !model.HasErrors(result.Issues) {
		result.PayEstimate = estimateCost(req, team, result.Roles)
	}

	return o.finish(logger, result)
}

func (o *Orchestrator) checkRoles(ctx context.Context, req model.SchedulingRequest, requirements []model.RoleRequirement, team []model.Worker) ([]coverage.RoleCoverage, error) {
	roles := make([]coverage.RoleCoverage, len(requirements))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, requirement := range requirements {
		g.Go(recovered(func() error {
			role, err := o.coverage.ValidateRole(gctx, coverage.Request{
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
		}))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return roles, nil
}

// recovered turns a panic in fn into an error so it cannot escape an errgroup goroutine
func recovered(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf("panic: %v", r)
			}
		}()
		return fn()
	}
}

func (o *Orchestrator) finish(logger *zap.Logger, result Result) Result {
	result.Valid = !model.HasErrors(result.Issues)
	logger.Debug("Validation finished",
		zap.Bool("valid", result.Valid),
		zap.Any("codes", model.Codes(result.Issues)))
	return result
}

// fail turns a lookup failure into one blocking issue. The partial role
// results are dropped because they may be incomplete.
func (o *Orchestrator) fail(logger *zap.Logger, result Result, err error) Result {
	logger.Warn("Validation lookup failed", zap.Error(err))

	suggestions := errors.GetAllHints(err)
	suggestions = append(suggestions, "Try again; if the problem persists, contact support")
	message := "The scheduling data could not be checked."
	if errors.Is(err, context.DeadlineExceeded) {
		message = "Checking the schedule took too long."
	}

	result.Issues = append(result.Issues, model.Issue{
		Severity:    model.SeverityError,
		Code:        model.CodeValidationError,
		Title:       "Validation failed",
		Message:     message,
		Suggestions: suggestions,
		Actions:     []model.Action{{Type: model.ActionRetry, Label: "Try again"}},
	})
	result.Roles = []coverage.RoleCoverage{}
	result.PayEstimate = nil
	return o.finish(logger, result)
}

func checkCapacity(team []model.Worker, required int) (model.Issue, bool) {
	manage := model.Action{Type: model.ActionNavigateWorkerManagement, Label: "Manage workers", Target: "/workers"}
	if len(team) == 0 {
		return model.Issue{
			Severity:    model.SeverityError,
			Code:        model.CodeNoWorkers,
			Title:       "No workers on your team",
			Message:     "Your team has no active workers, so nobody can be assigned.",
			Suggestions: []string{"Add workers to your team", "Reactivate existing workers"},
			Actions:     []model.Action{manage},
		}, false
	}
	if len(team) < required {
		return model.Issue{
			Severity: model.SeverityError,
			Code:     model.CodeInsufficientWorkers,
			Title:    "Not enough workers",
			Message: fmt.Sprintf("This job needs %d workers but your team only has %d active.",
				required, len(team)),
			Suggestions: []string{
				fmt.Sprintf("Lower the requirement to %d", len(team)),
				"Add more workers to your team",
			},
			Actions: []model.Action{manage},
		}, false
	}
	return model.Issue{}, true
}

// missingPayRates warns about candidates without a usable hourly rate.
// Candidates are the workers evaluated for the roles, or the whole team when no role was given.
func missingPayRates(team []model.Worker, roles []coverage.RoleCoverage) (model.Issue, bool) {
	seen := make(map[string]bool)
	var names []string
	check := func(worker model.Worker) {
		if seen[worker.ID] {
			return
		}
		seen[worker.ID] = true
		if _, ok := worker.Rate(); !ok {
			names = append(names, worker.DisplayName())
		}
	}

	if len(roles) == 0 {
		for _, worker := range team {
			check(worker)
		}
	}
	for _, role := range roles {
		for _, w := range role.Workers {
			check(w.Worker)
		}
	}
	if len(names) == 0 {
		return model.Issue{}, false
	}

	sort.Strings(names)
	return model.Issue{
		Severity: model.SeverityWarning,
		Code:     model.CodeMissingPayRates,
		Title:    "Missing pay rates",
		Message:  fmt.Sprintf("No hourly rate is set for %s. Cost estimates will be incomplete.", strings.Join(names, ", ")),
		Suggestions: []string{
			"Set hourly rates in worker management",
			"Set a base rate on the role",
		},
		Actions: []model.Action{{Type: model.ActionNavigateWorkerManagement, Label: "Manage workers", Target: "/workers"}},
	}, true
}
