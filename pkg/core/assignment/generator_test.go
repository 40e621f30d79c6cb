package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamed-004/scheduler/pkg/core/coverage"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
	"github.com/Mohamed-004/scheduler/pkg/memstore"
)

// Monday
var day = model.NewLocalDate(2026, time.October, 19)

func clock(h int) model.ClockTime {
	return model.NewClockTime(h, 0)
}

func addWorker(store *memstore.Store, id string, rate float64, proficiency int, roles ...string) {
	store.AddWorker(model.Worker{
		ID:         id,
		Name:       id,
		TeamID:     "team-1",
		Active:     true,
		HourlyRate: model.Float(rate),
		Schedule: model.WeeklySchedule{
			time.Monday: {Available: true, Start: clock(8), End: clock(18)},
		},
	})
	for _, role := range roles {
		store.AddCapability(model.WorkerCapability{WorkerID: id, JobRoleID: role, ProficiencyLevel: proficiency, Active: true})
	}
}

func newStore() *memstore.Store {
	store := memstore.New()
	store.AddRole(model.JobRole{ID: "window", TeamID: "team-1", Name: "Window Cleaner", Active: true})
	store.AddRole(model.JobRole{ID: "garden", TeamID: "team-1", Name: "Gardener", Active: true})
	return store
}

func request(roles ...model.RoleRequirement) model.SchedulingRequest {
	return model.SchedulingRequest{
		TeamID:          "team-1",
		Date:            day,
		Start:           clock(10),
		End:             clock(12),
		RequiredWorkers: 1,
		Roles:           roles,
	}
}

func TestSuggest_ExactCoverage(t *testing.T) {
	store := newStore()
	addWorker(store, "w1", 20, 3, "window")
	addWorker(store, "w2", 25, 3, "window")
	addWorker(store, "w3", 30, 3, "window")
	generator := NewGenerator(store, nil)

	suggestions, err := generator.Suggest(context.Background(), request(model.RoleRequirement{JobRoleID: "window", QuantityRequired: 3}))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, StrategyIndividual, s.Strategy)
	assert.True(t, s.Complete())
	require.Len(t, s.Workers, 3)
	assert.Equal(t, (20.0+25.0+30.0)*2, s.EstimatedCost)
	assert.True(t, s.Workers[0].IsLead)
	assert.False(t, s.Workers[1].IsLead)
	assert.False(t, s.Workers[2].IsLead)
	assert.Empty(t, s.Conflicts)
}

func TestSuggest_RoleRateOverridesWorkerRate(t *testing.T) {
	store := newStore()
	store.AddRole(model.JobRole{ID: "window", TeamID: "team-1", Name: "Window Cleaner", Active: true, BaseRate: model.Float(35)})
	addWorker(store, "w1", 20, 3, "window")
	generator := NewGenerator(store, nil)

	suggestions, err := generator.Suggest(context.Background(), request(model.RoleRequirement{JobRoleID: "window", QuantityRequired: 1}))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 35.0, suggestions[0].Workers[0].Rate)
	assert.Equal(t, 70.0, suggestions[0].EstimatedCost)
}

func crewStore() *memstore.Store {
	store := newStore()
	for _, id := range []string{"w1", "w2", "w3", "w4"} {
		addWorker(store, id, 20, 3, "window")
	}
	store.AddCrew(model.Crew{
		ID: "alpha", TeamID: "team-1", Name: "Alpha", Active: true,
		LeadWorkerID: "w2",
		MemberIDs:    []string{"w1", "w2"},
		Capabilities: []model.CrewRoleCapability{{JobRoleID: "window", Capacity: 2, ProficiencyLevel: 4}},
	})
	store.AddCrew(model.Crew{
		ID: "bravo", TeamID: "team-1", Name: "Bravo", Active: true,
		MemberIDs:    []string{"w3"},
		Capabilities: []model.CrewRoleCapability{{JobRoleID: "window", Capacity: 1, ProficiencyLevel: 5}},
	})
	return store
}

func TestSuggest_CrewsAndIndividuals(t *testing.T) {
	generator := NewGenerator(crewStore(), nil)

	suggestions, err := generator.Suggest(context.Background(), request(model.RoleRequirement{JobRoleID: "window", QuantityRequired: 2}))
	require.NoError(t, err)
	require.Len(t, suggestions, 3)

	assert.Equal(t, "individual", suggestions[0].ID)
	assert.Equal(t, 90.0, suggestions[0].TotalScore)

	alpha := suggestions[1]
	assert.Equal(t, "crew-alpha", alpha.ID)
	assert.True(t, alpha.Complete())
	assert.Equal(t, 85.0, alpha.TotalScore)
	require.Len(t, alpha.Workers, 2)
	assert.Equal(t, "w1", alpha.Workers[0].WorkerID)
	assert.False(t, alpha.Workers[0].IsLead)
	assert.True(t, alpha.Workers[1].IsLead, "crew lead keeps the lead flag")

	bravo := suggestions[2]
	assert.Equal(t, "crew-bravo", bravo.ID)
	assert.False(t, bravo.Complete())
	assert.Equal(t, []MissingRole{{RoleID: "window", Required: 2, Covered: 1}}, bravo.MissingRoles)
	assert.Len(t, bravo.Workers, 1)
	assert.Equal(t, 70.0, bravo.TotalScore)

	assert.Len(t, FullySatisfying(suggestions), 2)
}

func TestSuggest_BookedCrewMemberConflictsSurface(t *testing.T) {
	store := crewStore()
	store.AddJob(model.Job{
		ID: "job-x", TeamID: "team-1", Status: model.JobStatusScheduled,
		Start: day.At(clock(9)), End: day.At(clock(11)),
		AssignedWorkerIDs: []string{"w1"},
	})
	generator := NewGenerator(store, nil)

	suggestions, err := generator.Suggest(context.Background(), request(model.RoleRequirement{JobRoleID: "window", QuantityRequired: 2}))
	require.NoError(t, err)

	var individual, alpha Suggestion
	for _, s := range suggestions {
		switch s.ID {
		case "individual":
			individual = s
		case "crew-alpha":
			alpha = s
		}
	}

	for _, m := range individual.Workers {
		assert.NotEqual(t, "w1", m.WorkerID, "booked workers are never picked individually")
	}

	require.Len(t, alpha.Workers, 2)
	assert.Equal(t, "w2", alpha.Workers[0].WorkerID)
	assert.False(t, alpha.Workers[1].Available)
	require.Len(t, alpha.Conflicts, 1)
	assert.Contains(t, alpha.Conflicts[0], "job-x")
}

func TestSuggest_WorkerFillsOneRole(t *testing.T) {
	store := newStore()
	addWorker(store, "star", 30, 5, "window", "garden")
	addWorker(store, "w1", 20, 3, "window")
	addWorker(store, "w4", 20, 3, "garden")
	generator := NewGenerator(store, nil)

	suggestions, err := generator.Suggest(context.Background(), request(
		model.RoleRequirement{JobRoleID: "window", QuantityRequired: 1},
		model.RoleRequirement{JobRoleID: "garden", QuantityRequired: 1},
	))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	workers := suggestions[0].Workers
	require.Len(t, workers, 2)
	assert.Equal(t, Member{WorkerID: "star", Name: "star", RoleID: "window", Rate: 30, Score: 100, IsLead: true, Available: true}, workers[0])
	assert.Equal(t, "w4", workers[1].WorkerID)
	assert.Equal(t, "garden", workers[1].RoleID)
}

func TestSuggest_ShortfallIsReported(t *testing.T) {
	store := newStore()
	addWorker(store, "w1", 20, 3, "window")
	generator := NewGenerator(store, nil)

	suggestions, err := generator.Suggest(context.Background(), request(model.RoleRequirement{JobRoleID: "window", QuantityRequired: 2}))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.False(t, suggestions[0].Complete())
	assert.Equal(t, []string{"Only 1 of 2 Window Cleaner workers are available"}, suggestions[0].Conflicts)
}

func TestSuggest_Idempotent(t *testing.T) {
	generator := NewGenerator(crewStore(), nil)
	req := request(model.RoleRequirement{JobRoleID: "window", QuantityRequired: 2})

	first, err := generator.Suggest(context.Background(), req)
	require.NoError(t, err)
	for range 10 {
		again, err := generator.Suggest(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSuggest_NoRequirements(t *testing.T) {
	generator := NewGenerator(crewStore(), nil)

	suggestions, err := generator.Suggest(context.Background(), request())
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggest_StoreFailure(t *testing.T) {
	store := crewStore()
	store.FailOn("GetCrews", errors.New("connection refused"))
	generator := NewGenerator(store, nil)

	_, err := generator.Suggest(context.Background(), request(model.RoleRequirement{JobRoleID: "window", QuantityRequired: 1}))
	require.Error(t, err)
	assert.True(t, db.IsUnavailable(err))
}

func TestRank_TiesPreferCheaper(t *testing.T) {
	suggestions := []Suggestion{
		{ID: "b", TotalScore: 80, EstimatedCost: 100},
		{ID: "a", TotalScore: 80, EstimatedCost: 100},
		{ID: "c", TotalScore: 80, EstimatedCost: 50},
		{ID: "d", TotalScore: 95, EstimatedCost: 500},
	}

	rank(suggestions)

	ids := make([]string, len(suggestions))
	for i, s := range suggestions {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"d", "c", "a", "b"}, ids)
}

func TestCrewFit(t *testing.T) {
	crew := model.Crew{Capabilities: []model.CrewRoleCapability{{JobRoleID: "window", Capacity: 4, ProficiencyLevel: 4}}}

	fit, missing := crewFit(crew, []coverage.RoleCoverage{{RoleID: "window", Required: 2}}, DefaultWeights())
	assert.Equal(t, 90.0, fit, "80 for proficiency plus 10 for two spare places")
	assert.Empty(t, missing)

	fit, missing = crewFit(crew, []coverage.RoleCoverage{{RoleID: "window", Required: 2}, {RoleID: "garden", Required: 1}}, DefaultWeights())
	assert.Equal(t, 45.0, fit)
	assert.Equal(t, []MissingRole{{RoleID: "garden", Required: 1}}, missing)
}

func TestSuggestionAssignments(t *testing.T) {
	s := Suggestion{Workers: []Member{
		{WorkerID: "w1", RoleID: "window", Rate: 20, IsLead: true},
		{WorkerID: "w2", RoleID: "garden", Rate: 25},
	}}

	assignments := s.Assignments("job-1")
	require.Len(t, assignments, 2)
	assert.Equal(t, model.WorkerRoleAssignment{JobID: "job-1", WorkerID: "w1", JobRoleID: "window", HourlyRate: 20, IsLead: true}, assignments[0])
	assert.Equal(t, "garden", assignments[1].JobRoleID)
}
