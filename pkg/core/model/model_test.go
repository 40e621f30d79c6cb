package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeRange_Overlaps_HalfOpen(t *testing.T) {
	day := NewLocalDate(2026, time.October, 19)
	a := TimeRange{Start: day.At(NewClockTime(9, 0)), End: day.At(NewClockTime(12, 0))}
	backToBack := TimeRange{Start: day.At(NewClockTime(12, 0)), End: day.At(NewClockTime(14, 0))}
	inside := TimeRange{Start: day.At(NewClockTime(11, 59)), End: day.At(NewClockTime(14, 0))}

	assert.False(t, a.Overlaps(backToBack), "back-to-back windows must not conflict")
	assert.False(t, backToBack.Overlaps(a))
	assert.True(t, a.Overlaps(inside))
	assert.True(t, inside.Overlaps(a))
	assert.True(t, a.Overlaps(a))
}

func TestTimeRange_Contains(t *testing.T) {
	day := NewLocalDate(2026, time.October, 19)
	shift := TimeRange{Start: day.At(NewClockTime(9, 0)), End: day.At(NewClockTime(17, 0))}

	assert.True(t, shift.Contains(TimeRange{Start: day.At(NewClockTime(9, 0)), End: day.At(NewClockTime(17, 0))}))
	assert.False(t, shift.Contains(TimeRange{Start: day.At(NewClockTime(8, 30)), End: day.At(NewClockTime(10, 0))}))
	assert.InDelta(t, 8.0, shift.Hours(), 0.0001)
}

func TestLocalDate(t *testing.T) {
	d, err := ParseLocalDate("2026-10-19")
	require.NoError(t, err)

	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2026-10-19", d.String())
	assert.Equal(t, NewLocalDate(2026, time.October, 20), d.AddDays(1))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))

	// Month rollover normalises
	assert.Equal(t, NewLocalDate(2026, time.November, 1), NewLocalDate(2026, time.October, 32))

	// Wall-clock date is taken as-is regardless of the location
	loc := time.FixedZone("UTC-8", -8*3600)
	late := time.Date(2026, time.October, 19, 23, 30, 0, 0, loc)
	assert.Equal(t, d, LocalDateOf(late))

	_, err = ParseLocalDate("19/10/2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
	assert.NotNil(t, errors.GetReportableStackTrace(err), "parse errors carry a stack")
}

func TestLocalDate_AtEndOfDay(t *testing.T) {
	d := NewLocalDate(2026, time.October, 19)
	assert.Equal(t, time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC), d.At(EndOfDay))
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input   string
		want    ClockTime
		wantErr bool
	}{
		{"09:00", NewClockTime(9, 0), false},
		{"17:30", NewClockTime(17, 30), false},
		{"08:15:00", NewClockTime(8, 15), false},
		{"24:00", EndOfDay, false},
		{"25:00", 0, true},
		{"9am", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClockTime(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "expected HH:MM")
				assert.NotNil(t, errors.GetReportableStackTrace(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTime_CeilHour(t *testing.T) {
	assert.Equal(t, NewClockTime(9, 0), NewClockTime(9, 0).CeilHour())
	assert.Equal(t, NewClockTime(10, 0), NewClockTime(9, 1).CeilHour())
	assert.Equal(t, "09:05", NewClockTime(9, 5).String())
}

func TestSchedulingRequest_JSON(t *testing.T) {
	body := `{"team_id":"team-1","date":"2026-10-19","start":"10:00","end":"12:00","required_workers":2,"roles":[{"job_role_id":"r1"}]}`

	var req SchedulingRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, NewLocalDate(2026, time.October, 19), req.Date)
	assert.Equal(t, NewClockTime(10, 0), req.Start)
	assert.InDelta(t, 2.0, req.DurationHours(), 0.0001)

	requirements := req.Requirements()
	require.Len(t, requirements, 1)
	assert.Equal(t, 2, requirements[0].QuantityRequired, "unset quantity defaults to required workers")
}

func TestWeeklySchedule_For(t *testing.T) {
	schedule := WeeklySchedule{
		time.Monday: {Available: true, Start: NewClockTime(9, 0), End: NewClockTime(17, 0)},
	}

	assert.True(t, schedule.For(time.Monday).Contains(NewClockTime(10, 0), NewClockTime(12, 0)))
	assert.False(t, schedule.For(time.Monday).Contains(NewClockTime(16, 0), NewClockTime(18, 0)))
	assert.False(t, schedule.For(time.Tuesday).Available, "missing weekday is unavailable")

	var empty WeeklySchedule
	assert.False(t, empty.For(time.Monday).Available)
}

func TestWorkerRate(t *testing.T) {
	_, ok := Worker{}.Rate()
	assert.False(t, ok)

	_, ok = Worker{HourlyRate: Float(0)}.Rate()
	assert.False(t, ok, "non-positive rate is unusable")

	rate, ok := Worker{HourlyRate: Float(22.5)}.Rate()
	assert.True(t, ok)
	assert.Equal(t, 22.5, rate)
}

func TestJobStatus_Transitions(t *testing.T) {
	assert.True(t, JobStatusPending.CanTransitionTo(JobStatusScheduled))
	assert.True(t, JobStatusScheduled.CanTransitionTo(JobStatusInProgress))
	assert.True(t, JobStatusInProgress.CanTransitionTo(JobStatusCompleted))
	assert.True(t, JobStatusInProgress.CanTransitionTo(JobStatusCancelled))

	assert.False(t, JobStatusPending.CanTransitionTo(JobStatusCompleted))
	assert.False(t, JobStatusCompleted.CanTransitionTo(JobStatusCancelled))
	assert.False(t, JobStatusCancelled.CanTransitionTo(JobStatusPending))

	assert.True(t, JobStatusScheduled.IsActive())
	assert.False(t, JobStatusCompleted.IsActive())
	assert.False(t, JobStatusCancelled.IsActive())
}

func TestIssues_HasErrors(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityInfo, Code: CodeRoleCovered},
		{Severity: SeverityWarning, Code: CodeUnusualHours},
	}
	assert.False(t, HasErrors(issues))

	issues = append(issues, Issue{Severity: SeverityError, Code: CodePastDate})
	assert.True(t, HasErrors(issues))
	assert.Equal(t, []IssueCode{CodePastDate}, Codes(FilterBySeverity(issues, SeverityError)))
}

func TestCrew_Capability(t *testing.T) {
	crew := Crew{
		MemberIDs:    []string{"w1", "w2"},
		Capabilities: []CrewRoleCapability{{JobRoleID: "r1", Capacity: 2, ProficiencyLevel: 4}},
	}

	capability, ok := crew.Capability("r1")
	require.True(t, ok)
	assert.Equal(t, 2, capability.Capacity)

	_, ok = crew.Capability("r2")
	assert.False(t, ok)
	assert.True(t, crew.HasMember("w2"))
	assert.False(t, crew.HasMember("w3"))
}
