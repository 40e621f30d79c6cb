package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	pending, err := pendingMigrations(map[string]bool{})
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.Equal(t, "001_init.sql", pending[0])
	assert.IsIncreasing(t, pending)

	pending, err = pendingMigrations(map[string]bool{"001_init.sql": true})
	require.NoError(t, err)
	assert.NotContains(t, pending, "001_init.sql")
}

func TestInitMigrationCreatesTables(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, "migrations/001_init.sql")
	require.NoError(t, err)

	for _, table := range []string{
		"workers",
		"worker_schedules",
		"availability_exceptions",
		"job_roles",
		"worker_capabilities",
		"jobs",
		"job_role_requirements",
		"worker_role_assignments",
		"crews",
		"crew_members",
		"crew_role_capabilities",
	} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}
