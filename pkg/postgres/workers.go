package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// GetActiveWorkers returns active team workers ordered by ID, each with its weekly schedule
func (d *DB) GetActiveWorkers(ctx context.Context, teamID string) ([]model.Worker, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, team_id, name, active, hourly_rate::float8
		FROM workers
		WHERE team_id = $1 AND active
		ORDER BY id
	`, teamID)
	if err != nil {
		return nil, db.Unavailable(err, "GetActiveWorkers")
	}
	defer rows.Close()

	workers := make([]model.Worker, 0)
	index := make(map[string]int)
	for rows.Next() {
		var w model.Worker
		if err := rows.Scan(&w.ID, &w.TeamID, &w.Name, &w.Active, &w.HourlyRate); err != nil {
			return nil, db.Unavailable(errors.Wrap(err, "failed to scan worker"), "GetActiveWorkers")
		}
		w.Schedule = make(model.WeeklySchedule)
		index[w.ID] = len(workers)
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err, "GetActiveWorkers")
	}

	scheduleRows, err := d.pool.Query(ctx, `
		SELECT s.worker_id, s.weekday, s.available, s.start_minute, s.end_minute
		FROM worker_schedules s
		JOIN workers w ON w.id = s.worker_id
		WHERE w.team_id = $1 AND w.active
	`, teamID)
	if err != nil {
		return nil, db.Unavailable(err, "GetActiveWorkers")
	}
	defer scheduleRows.Close()

	for scheduleRows.Next() {
		var workerID string
		weekday, day, err := scanScheduleRow(scheduleRows, &workerID)
		if err != nil {
			return nil, db.Unavailable(err, "GetActiveWorkers")
		}
		if i, ok := index[workerID]; ok {
			workers[i].Schedule[weekday] = day
		}
	}
	if err := scheduleRows.Err(); err != nil {
		return nil, db.Unavailable(err, "GetActiveWorkers")
	}

	return workers, nil
}

// GetWorkerSchedule returns the worker's weekly schedule (empty when none is stored)
func (d *DB) GetWorkerSchedule(ctx context.Context, workerID string) (model.WeeklySchedule, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT worker_id, weekday, available, start_minute, end_minute
		FROM worker_schedules
		WHERE worker_id = $1
	`, workerID)
	if err != nil {
		return nil, db.Unavailable(err, "GetWorkerSchedule")
	}
	defer rows.Close()

	schedule := make(model.WeeklySchedule)
	for rows.Next() {
		var id string
		weekday, day, err := scanScheduleRow(rows, &id)
		if err != nil {
			return nil, db.Unavailable(err, "GetWorkerSchedule")
		}
		schedule[weekday] = day
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err, "GetWorkerSchedule")
	}
	return schedule, nil
}

// GetScheduleException returns the exception for the exact date, or nil when there is none
func (d *DB) GetScheduleException(ctx context.Context, workerID string, date model.LocalDate) (*model.AvailabilityException, error) {
	exception := model.AvailabilityException{WorkerID: workerID, Date: date}
	var start, end int

	err := d.pool.QueryRow(ctx, `
		SELECT unavailable, start_minute, end_minute, reason
		FROM availability_exceptions
		WHERE worker_id = $1 AND exception_date = $2
	`, workerID, date.String()).Scan(&exception.Unavailable, &start, &end, &exception.Reason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.Unavailable(err, "GetScheduleException")
	}

	exception.Start = model.ClockTime(start)
	exception.End = model.ClockTime(end)
	return &exception, nil
}

func scanScheduleRow(rows pgx.Rows, workerID *string) (time.Weekday, model.DaySchedule, error) {
	var weekday, start, end int
	var day model.DaySchedule
	if err := rows.Scan(workerID, &weekday, &day.Available, &start, &end); err != nil {
		return 0, model.DaySchedule{}, errors.Wrap(err, "failed to scan schedule")
	}
	day.Start = model.ClockTime(start)
	day.End = model.ClockTime(end)
	return time.Weekday(weekday), day, nil
}
