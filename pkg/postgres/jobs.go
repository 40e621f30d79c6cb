package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

var assignmentColumns = []string{"id", "job_id", "worker_id", "job_role_id", "hourly_rate", "is_lead"}

// GetOverlappingJobs returns active team jobs intersecting the half-open window,
// ordered by start then ID. Each job carries the IDs of its assigned workers.
func (d *DB) GetOverlappingJobs(ctx context.Context, teamID, workerID string, window model.TimeRange, excludeJobID string) ([]model.Job, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT j.id, j.team_id, j.client_id, j.address, j.start_time, j.end_time, j.status,
			COALESCE(array_agg(a.worker_id ORDER BY a.worker_id) FILTER (WHERE a.worker_id IS NOT NULL), '{}')
		FROM jobs j
		LEFT JOIN worker_role_assignments a ON a.job_id = j.id
		WHERE j.team_id = $1
			AND j.status NOT IN ('COMPLETED', 'CANCELLED')
			AND j.start_time < $3 AND j.end_time > $2
			AND ($4::text = '' OR j.id <> $4::text)
			AND ($5::text = '' OR EXISTS (
				SELECT 1 FROM worker_role_assignments x WHERE x.job_id = j.id AND x.worker_id = $5::text
			))
		GROUP BY j.id
		ORDER BY j.start_time, j.id
	`, teamID, window.Start, window.End, excludeJobID, workerID)
	if err != nil {
		return nil, db.Unavailable(err, "GetOverlappingJobs")
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		var job model.Job
		var status string
		if err := rows.Scan(&job.ID, &job.TeamID, &job.ClientID, &job.Address,
			&job.Start, &job.End, &status, &job.AssignedWorkerIDs); err != nil {
			return nil, db.Unavailable(errors.Wrap(err, "failed to scan job"), "GetOverlappingJobs")
		}
		job.Status = model.JobStatus(status)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err, "GetOverlappingJobs")
	}
	return jobs, nil
}

// CreateJob writes the job, its role requirements and its assignments in one transaction
func (d *DB) CreateJob(ctx context.Context, job model.Job, assignments []model.WorkerRoleAssignment) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO jobs (id, team_id, client_id, address, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, job.ID, job.TeamID, job.ClientID, job.Address, job.Start, job.End, string(job.Status))
	if err != nil {
		return errors.Wrapf(err, "failed to insert job %s", job.ID)
	}

	if len(job.Requirements) > 0 {
		batch := &pgx.Batch{}
		for _, r := range job.Requirements {
			batch.Queue(`
				INSERT INTO job_role_requirements (job_id, job_role_id, quantity_required, min_proficiency_level)
				VALUES ($1, $2, $3, $4)
			`, job.ID, r.JobRoleID, r.QuantityRequired, r.MinProficiencyLevel)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return errors.Wrapf(err, "failed to insert requirements for job %s", job.ID)
		}
	}

	if err := copyAssignments(ctx, tx, job.ID, assignments); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	d.logger.Debug("Job written", zapJob(job.ID, len(assignments))...)
	return nil
}

// CreateWorkerRoleAssignments adds assignments to an existing job in one transaction.
// The job row is locked so a concurrent cancel cannot slip in between.
func (d *DB) CreateWorkerRoleAssignments(ctx context.Context, jobID string, assignments []model.WorkerRoleAssignment) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var found string
	err = tx.QueryRow(ctx, `SELECT id FROM jobs WHERE id = $1 FOR UPDATE`, jobID).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrapf(db.ErrJobNotFound, "job %s", jobID)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to lock job %s", jobID)
	}

	if err := copyAssignments(ctx, tx, jobID, assignments); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE jobs SET status = $2 WHERE id = $1 AND status = $3`,
		jobID, string(model.JobStatusScheduled), string(model.JobStatusPending))
	if err != nil {
		return errors.Wrapf(err, "failed to update status of job %s", jobID)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	d.logger.Debug("Assignments written", zapJob(jobID, len(assignments))...)
	return nil
}

// copyAssignments inserts every assignment as a single COPY
func copyAssignments(ctx context.Context, tx pgx.Tx, jobID string, assignments []model.WorkerRoleAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	rows := make([][]any, len(assignments))
	for i, a := range assignments {
		if a.JobID != "" && a.JobID != jobID {
			return errors.Newf("assignment %s belongs to job %s, not %s", a.ID, a.JobID, jobID)
		}
		rows[i] = []any{a.ID, jobID, a.WorkerID, a.JobRoleID, a.HourlyRate, a.IsLead}
	}

	_, err := tx.CopyFrom(ctx, pgx.Identifier{"worker_role_assignments"}, assignmentColumns, pgx.CopyFromRows(rows))
	return errors.Wrapf(err, "failed to insert assignments for job %s", jobID)
}

func zapJob(jobID string, assignments int) []zap.Field {
	return []zap.Field{zap.String("job_id", jobID), zap.Int("assignments", assignments)}
}
