package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// GetCrews returns active team crews ordered by ID with their members and capabilities
func (d *DB) GetCrews(ctx context.Context, teamID string) ([]model.Crew, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT c.id, c.team_id, c.name, c.active, COALESCE(c.lead_worker_id, ''),
			COALESCE(
				(SELECT array_agg(m.worker_id ORDER BY m.worker_id) FROM crew_members m WHERE m.crew_id = c.id),
				'{}'
			)
		FROM crews c
		WHERE c.team_id = $1 AND c.active
		ORDER BY c.id
	`, teamID)
	if err != nil {
		return nil, db.Unavailable(err, "GetCrews")
	}
	defer rows.Close()

	crews := make([]model.Crew, 0)
	index := make(map[string]int)
	for rows.Next() {
		var c model.Crew
		if err := rows.Scan(&c.ID, &c.TeamID, &c.Name, &c.Active, &c.LeadWorkerID, &c.MemberIDs); err != nil {
			return nil, db.Unavailable(errors.Wrap(err, "failed to scan crew"), "GetCrews")
		}
		c.Capabilities = []model.CrewRoleCapability{}
		index[c.ID] = len(crews)
		crews = append(crews, c)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err, "GetCrews")
	}
	if len(crews) == 0 {
		return crews, nil
	}

	capRows, err := d.pool.Query(ctx, `
		SELECT r.crew_id, r.job_role_id, r.capacity, r.proficiency_level
		FROM crew_role_capabilities r
		JOIN crews c ON c.id = r.crew_id
		WHERE c.team_id = $1 AND c.active
		ORDER BY r.crew_id, r.job_role_id
	`, teamID)
	if err != nil {
		return nil, db.Unavailable(err, "GetCrews")
	}
	defer capRows.Close()

	for capRows.Next() {
		var crewID string
		var capability model.CrewRoleCapability
		if err := capRows.Scan(&crewID, &capability.JobRoleID, &capability.Capacity, &capability.ProficiencyLevel); err != nil {
			return nil, db.Unavailable(errors.Wrap(err, "failed to scan crew capability"), "GetCrews")
		}
		if i, ok := index[crewID]; ok {
			crews[i].Capabilities = append(crews[i].Capabilities, capability)
		}
	}
	if err := capRows.Err(); err != nil {
		return nil, db.Unavailable(err, "GetCrews")
	}

	d.logger.Debug("Loaded crews", zap.String("team_id", teamID), zap.Int("count", len(crews)))
	return crews, nil
}
