package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// GetJobRole returns the role, or nil when it does not exist
func (d *DB) GetJobRole(ctx context.Context, roleID string) (*model.JobRole, error) {
	var role model.JobRole
	err := d.pool.QueryRow(ctx, `
		SELECT id, team_id, name, base_rate::float8, active
		FROM job_roles
		WHERE id = $1
	`, roleID).Scan(&role.ID, &role.TeamID, &role.Name, &role.BaseRate, &role.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.Unavailable(err, "GetJobRole")
	}
	return &role, nil
}

// GetWorkerCapabilities returns every capability row for the role, active or not, ordered by worker
func (d *DB) GetWorkerCapabilities(ctx context.Context, jobRoleID string) ([]model.WorkerCapability, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT worker_id, job_role_id, proficiency_level, active
		FROM worker_capabilities
		WHERE job_role_id = $1
		ORDER BY worker_id
	`, jobRoleID)
	if err != nil {
		return nil, db.Unavailable(err, "GetWorkerCapabilities")
	}
	defer rows.Close()

	capabilities := make([]model.WorkerCapability, 0)
	for rows.Next() {
		var c model.WorkerCapability
		if err := rows.Scan(&c.WorkerID, &c.JobRoleID, &c.ProficiencyLevel, &c.Active); err != nil {
			return nil, db.Unavailable(errors.Wrap(err, "failed to scan capability"), "GetWorkerCapabilities")
		}
		capabilities = append(capabilities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err, "GetWorkerCapabilities")
	}
	return capabilities, nil
}
