package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestCreateTaskDuplicate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreateTask(ctx, Task{UserID: 1, Text: "buy milk"})
	require.NoError(t, err)

	_, err = s.CreateTask(ctx, Task{UserID: 1, Text: "buy milk"})
	assert.ErrorIs(t, err, ErrDuplicateTask)

	// Same text for a different user is fine.
	_, err = s.CreateTask(ctx, Task{UserID: 2, Text: "buy milk"})
	assert.NoError(t, err)
}

func TestTaskRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	due := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)
	created, err := s.CreateTask(ctx, Task{
		UserID: 1,
		Text:   "water the plants",
		Date:   datePtr(due),
		Time:   &TimeOfDay{Hour: 14, Minute: 30},
		Remind: RemindChannel,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := s.Task(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "water the plants", got.Text)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2026-10-20", got.Date.Format("2006-01-02"))
	require.NotNil(t, got.Time)
	assert.Equal(t, "14:30:00", got.Time.String())
	assert.Equal(t, RemindChannel, got.Remind)
	assert.False(t, got.Created.IsZero())
}

func TestUserTasks(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreateTask(ctx, Task{UserID: 1, Text: "one"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, Task{UserID: 1, Text: "two"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, Task{UserID: 2, Text: "three"})
	require.NoError(t, err)

	tasks, err := s.UserTasks(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestOverdueTasksThreshold(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	mkTask := func(text string, due time.Time) {
		t.Helper()
		_, err := s.CreateTask(ctx, Task{
			UserID: 1,
			Text:   text,
			Date:   datePtr(due),
			Time:   &TimeOfDay{Hour: due.Hour(), Minute: due.Minute(), Second: due.Second()},
		})
		require.NoError(t, err)
	}

	mkTask("ten seconds late", now.Add(-10*time.Second))
	mkTask("exactly on threshold", now.Add(-5*time.Second))
	mkTask("two seconds late", now.Add(-2*time.Second))
	mkTask("tomorrow", now.Add(24*time.Hour))

	// Undated, untimed task has no due moment.
	_, err := s.CreateTask(ctx, Task{UserID: 1, Text: "someday"})
	require.NoError(t, err)

	overdue, err := s.OverdueTasks(ctx, now, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, overdue, 2)

	texts := []string{overdue[0].Text, overdue[1].Text}
	assert.ElementsMatch(t, []string{"ten seconds late", "exactly on threshold"}, texts)
}

func TestOverdueTasksTimeOnly(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	// A time-only task counts against the current day.
	_, err := s.CreateTask(ctx, Task{
		UserID: 1,
		Text:   "late lunch",
		Time:   &TimeOfDay{Hour: 11, Minute: 0},
	})
	require.NoError(t, err)

	overdue, err := s.OverdueTasks(ctx, now, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "late lunch", overdue[0].Text)
}

func TestUserOverdueTasks(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	_, err := s.CreateTask(ctx, Task{UserID: 1, Text: "yesterday", Date: datePtr(now.AddDate(0, 0, -1))})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, Task{UserID: 1, Text: "today", Date: datePtr(now)})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, Task{UserID: 2, Text: "yesterday", Date: datePtr(now.AddDate(0, 0, -1))})
	require.NoError(t, err)

	overdue, err := s.UserOverdueTasks(ctx, 1, now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "yesterday", overdue[0].Text)
}

func TestTrimTasksOlderThan(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	_, err := s.CreateTask(ctx, Task{UserID: 1, Text: "ancient", Date: datePtr(now.AddDate(0, -2, 0))})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, Task{UserID: 1, Text: "recent", Date: datePtr(now.AddDate(0, 0, -1))})
	require.NoError(t, err)

	trimmed, err := s.TrimTasksOlderThan(ctx, now, 30*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, trimmed, 1)
	assert.Equal(t, "ancient", trimmed[0].Text)

	left, err := s.UserTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "recent", left[0].Text)
}

func TestDeleteUserTasksAndCascade(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, Task{UserID: 9, Text: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUserTasks(ctx, 9))
	tasks, err := s.UserTasks(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, s.DeleteTask(ctx, created.ID)) // no-op on missing id
}

func TestDueAt(t *testing.T) {
	ref := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	task := Task{Date: &date, Time: &TimeOfDay{Hour: 9, Minute: 15}}
	due, ok := task.DueAt(ref)
	require.True(t, ok)
	assert.Equal(t, "2026-09-01 09:15:00", due.Format("2006-01-02 15:04:05"))

	timeOnly := Task{Time: &TimeOfDay{Hour: 18}}
	due, ok = timeOnly.DueAt(ref)
	require.True(t, ok)
	assert.Equal(t, "2026-08-29 18:00:00", due.Format("2006-01-02 15:04:05"))

	_, ok = (&Task{}).DueAt(ref)
	assert.False(t, ok)
}
