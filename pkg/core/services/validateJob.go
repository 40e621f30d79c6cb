package services

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/core/assignment"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/core/validation"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// ValidateJob runs the full scheduling check for a requested job.
// It always returns a structured result; lookup failures are reported as issues.
func ValidateJob(ctx context.Context, database db.ValidationStore, opts validation.Options, logger *zap.Logger, req model.SchedulingRequest) validation.Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("Validating job", zap.String("team_id", req.TeamID), zap.String("date", req.Date.String()))

	result := validation.New(database, opts, logger).Validate(ctx, req)

	logger.Debug("Job validated",
		zap.Bool("valid", result.Valid),
		zap.Int("errors", len(model.FilterBySeverity(result.Issues, model.SeverityError))),
		zap.Int("warnings", len(model.FilterBySeverity(result.Issues, model.SeverityWarning))))
	return result
}

// SuggestResult pairs the validation verdict with the ranked suggestions
type SuggestResult struct {
	Validation  validation.Result       `json:"validation"`
	Suggestions []assignment.Suggestion `json:"suggestions"`
}

// requestErrors are verdicts for which no assignment makes sense
var requestErrors = []model.IssueCode{
	model.CodeInvalidRequest,
	model.CodeInvalidTimeRange,
	model.CodePastDate,
	model.CodeValidationError,
}

// SuggestAssignments validates the request and proposes assignments.
// Suggestions are still produced for an invalid job (e.g. a role short of workers)
// unless the request itself is unusable.
func SuggestAssignments(ctx context.Context, database db.SuggestionStore, opts validation.Options, logger *zap.Logger, req model.SchedulingRequest) (*SuggestResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &SuggestResult{
		Validation:  ValidateJob(ctx, database, opts, logger, req),
		Suggestions: []assignment.Suggestion{},
	}

	for _, code := range model.Codes(result.Validation.Issues) {
		if slices.Contains(requestErrors, code) {
			logger.Debug("Skipping suggestions for unusable request", zap.String("code", string(code)))
			return result, nil
		}
	}

	suggestions, err := assignment.NewGenerator(database, logger).Suggest(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Suggestions = suggestions

	logger.Debug("Suggestions generated", zap.Int("count", len(suggestions)))
	return result, nil
}
