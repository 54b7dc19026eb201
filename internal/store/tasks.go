package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const taskColumns = `task_id, user_id, task, date, time, remind_type, datetime_created`

// CreateTask inserts a todo task for the user and returns the stored row.
// A second task with the same text for the same user fails with
// ErrDuplicateTask.
func (s *Store) CreateTask(ctx context.Context, t Task) (Task, error) {
	if err := s.EnsureUser(ctx, t.UserID); err != nil {
		return Task{}, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO todo (user_id, task, date, time, remind_type)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+taskColumns,
		t.UserID, t.Text, dateArg(t.Date), timeArg(t.Time), int(t.Remind))

	task, err := scanTask(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Task{}, fmt.Errorf("task %q for user %d: %w", t.Text, t.UserID, ErrDuplicateTask)
		}
		return Task{}, fmt.Errorf("store: create task: %w", err)
	}
	return task, nil
}

// Task returns the task with the given id, or sql.ErrNoRows wrapped.
func (s *Store) Task(ctx context.Context, taskID int64) (Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM todo WHERE task_id = ?`, taskID)
	t, err := scanTask(row)
	if err != nil {
		return Task{}, fmt.Errorf("store: get task %d: %w", taskID, err)
	}
	return t, nil
}

// UserTasks returns every task owned by the user.
func (s *Store) UserTasks(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM todo WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: user tasks: %w", err)
	}
	return collectTasks(rows)
}

// OverdueTasks returns every task whose due moment lies at least threshold
// in the past relative to now. Tasks with neither date nor time have no due
// moment and are never returned; a date-only task falls due at midnight.
func (s *Store) OverdueTasks(ctx context.Context, now time.Time, threshold time.Duration) ([]Task, error) {
	cutoff := now.Add(-threshold)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM todo
		WHERE NOT (date IS NULL AND time IS NULL)
		AND COALESCE(date, ?) || ' ' || COALESCE(time, '00:00:00') <= ?`,
		cutoff.Format("2006-01-02"), cutoff.Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, fmt.Errorf("store: overdue tasks: %w", err)
	}
	return collectTasks(rows)
}

// UserOverdueTasks returns the user's tasks dated strictly before today.
func (s *Store) UserOverdueTasks(ctx context.Context, userID int64, now time.Time) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM todo
		WHERE user_id = ? AND date IS NOT NULL AND date < ?`,
		userID, now.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("store: user overdue tasks: %w", err)
	}
	return collectTasks(rows)
}

// TrimTasksOlderThan deletes tasks dated further in the past than the
// retention window and returns the removed rows.
func (s *Store) TrimTasksOlderThan(ctx context.Context, now time.Time, retention time.Duration) ([]Task, error) {
	cutoff := now.Add(-retention)
	rows, err := s.db.QueryContext(ctx, `
		DELETE FROM todo
		WHERE date IS NOT NULL AND date < ?
		RETURNING `+taskColumns,
		cutoff.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("store: trim tasks: %w", err)
	}
	return collectTasks(rows)
}

// DeleteTask removes a task by id. Missing ids are a no-op.
func (s *Store) DeleteTask(ctx context.Context, taskID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM todo WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("store: delete task %d: %w", taskID, err)
	}
	return nil
}

// DeleteUserTasks removes every task owned by the user.
func (s *Store) DeleteUserTasks(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM todo WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("store: delete user tasks: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (Task, error) {
	var (
		t       Task
		date    sql.NullTime
		tod     sql.NullString
		created time.Time
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Text, &date, &tod, &t.Remind, &created); err != nil {
		return Task{}, err
	}
	if date.Valid {
		d := date.Time
		t.Date = &d
	}
	if tod.Valid {
		parsed, err := ParseTimeOfDay(tod.String)
		if err != nil {
			return Task{}, err
		}
		t.Time = &parsed
	}
	t.Created = created
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	defer rows.Close()
	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: task rows: %w", err)
	}
	return out, nil
}

func dateArg(d *time.Time) interface{} {
	if d == nil {
		return nil
	}
	return d.Format("2006-01-02")
}

func timeArg(t *TimeOfDay) interface{} {
	if t == nil {
		return nil
	}
	return t.String()
}
