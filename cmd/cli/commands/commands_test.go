package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/internal/config"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

const teamFixture = `
roles:
  - id: window
    teamID: team-1
    name: Window Cleaner
workers:
  - id: alice
    name: Alice
    teamID: team-1
    hourlyRate: 20
    schedule:
      monday: {start: "08:00", end: "18:00"}
    capabilities:
      - role: window
        proficiency: 4
`

func TestParseRoles(t *testing.T) {
	roles, err := parseRoles([]string{"window", "garden:2", "roof:1:4"})
	require.NoError(t, err)
	assert.Equal(t, []model.RoleRequirement{
		{JobRoleID: "window"},
		{JobRoleID: "garden", QuantityRequired: 2},
		{JobRoleID: "roof", QuantityRequired: 1, MinProficiencyLevel: 4},
	}, roles)

	for _, bad := range []string{"", ":2", "window:two", "window:1:high", "a:1:2:3"} {
		_, err := parseRoles([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestParseAssignments(t *testing.T) {
	assignments, err := parseAssignments([]string{"alice:window", "bob:garden"}, "bob")
	require.NoError(t, err)
	assert.Equal(t, []model.WorkerRoleAssignment{
		{WorkerID: "alice", JobRoleID: "window"},
		{WorkerID: "bob", JobRoleID: "garden", IsLead: true},
	}, assignments)

	_, err = parseAssignments([]string{"alice"}, "")
	assert.Error(t, err)
	_, err = parseAssignments([]string{"alice:"}, "")
	assert.Error(t, err)
}

func TestRequestFlags(t *testing.T) {
	flags := requestFlags{
		team:    "team-1",
		date:    "2026-10-19",
		start:   "10:00",
		end:     "12:30",
		workers: 2,
		roles:   []string{"window"},
	}

	req, err := flags.request()
	require.NoError(t, err)
	assert.Equal(t, model.NewLocalDate(2026, time.October, 19), req.Date)
	assert.Equal(t, model.NewClockTime(12, 30), req.End)
	assert.Equal(t, 2.5, req.DurationHours())
	assert.Equal(t, 2, req.Requirements()[0].QuantityRequired)

	flags.start = "10am"
	_, err = flags.request()
	assert.Error(t, err)
}

func newApp(t *testing.T) *AppContext {
	t.Helper()
	path := filepath.Join(t.TempDir(), "team.yaml")
	require.NoError(t, os.WriteFile(path, []byte(teamFixture), 0644))

	app := &AppContext{Cfg: config.Default(), Logger: zap.NewNop(), Ctx: context.Background()}
	require.NoError(t, app.OpenStore(path))
	return app
}

func TestValidateCmd(t *testing.T) {
	app := newApp(t)
	cmd := ValidateCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--team", "team-1", "--date", "2099-10-19", "--start", "10:00", "--end", "12:00", "--role", "window:1"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Job can be scheduled")
	assert.Contains(t, out.String(), string(model.CodeRoleCovered))
}

func TestSuggestCmd_JSON(t *testing.T) {
	app := newApp(t)
	cmd := SuggestCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--team", "team-1", "--date", "2099-10-19", "--start", "10:00", "--end", "12:00", "--role", "window:1", "--json"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `"suggestions"`)
	assert.Contains(t, out.String(), `"worker_id": "alice"`)
}

func TestCreateJobCmd_FromSuggestion(t *testing.T) {
	app := newApp(t)
	cmd := CreateJobCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--team", "team-1", "--date", "2099-10-19", "--start", "10:00", "--end", "12:00", "--role", "window:1", "--suggestion", "1"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Job created")
	assert.Contains(t, out.String(), "alice as window at 20.00/h (lead)")
}

func TestCreateJobCmd_NotBookable(t *testing.T) {
	app := newApp(t)
	cmd := CreateJobCmd(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--team", "team-1", "--date", "2099-10-19", "--start", "10:00", "--end", "12:00", "--role", "window:2"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, out.String(), "Job cannot be scheduled")
}

func TestMigrateCmd_NeedsPostgres(t *testing.T) {
	app := newApp(t)
	cmd := MigrateCmd(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PostgreSQL")
}

func TestOpenStore_NoSource(t *testing.T) {
	app := &AppContext{Cfg: config.Default(), Logger: zap.NewNop(), Ctx: context.Background()}
	app.Cfg.DatabaseURL = ""

	err := app.OpenStore("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data source")
}
