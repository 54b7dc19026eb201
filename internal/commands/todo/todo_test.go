package todo

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"husky/internal/session"
	"husky/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveDraft(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := saveDraft(ctx, s, 1, session.Draft{
		Text:   "water the plants",
		Date:   "2026-10-20",
		Time:   "14:30:00",
		Remind: session.RemindChannelLabel,
	})
	require.NoError(t, err)

	tasks, err := s.UserTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "water the plants", tasks[0].Text)
	require.NotNil(t, tasks[0].Date)
	assert.Equal(t, "2026-10-20", tasks[0].Date.Format("2006-01-02"))
	require.NotNil(t, tasks[0].Time)
	assert.Equal(t, "14:30:00", tasks[0].Time.String())
	assert.Equal(t, store.RemindChannel, tasks[0].Remind)
}

func TestSaveDraftBare(t *testing.T) {
	s := testStore(t)

	err := saveDraft(context.Background(), s, 1, session.Draft{
		Text:   "someday",
		Remind: session.RemindNoneLabel,
	})
	require.NoError(t, err)

	tasks, err := s.UserTasks(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].Date)
	assert.Nil(t, tasks[0].Time)
	assert.Equal(t, store.RemindNone, tasks[0].Remind)
}

func TestSaveDraftDuplicate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	d := session.Draft{Text: "buy milk", Remind: session.RemindNoneLabel}
	require.NoError(t, saveDraft(ctx, s, 1, d))

	err := saveDraft(ctx, s, 1, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already have")
}

func TestSaveDraftTimeOnlyPast(t *testing.T) {
	s := testStore(t)

	err := saveDraft(context.Background(), s, 1, session.Draft{
		Text:   "too late",
		Time:   "00:00:00",
		Remind: session.RemindNoneLabel,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "past")
}

func TestOwnedTask(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, store.Task{UserID: 1, Text: "mine"})
	require.NoError(t, err)

	got, err := ownedTask(ctx, s, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Text)

	// Missing and foreign ids are indistinguishable to the caller.
	_, err = ownedTask(ctx, s, 1, created.ID+100)
	assert.ErrorIs(t, err, errTaskNotFound)
	_, err = ownedTask(ctx, s, 2, created.ID)
	assert.ErrorIs(t, err, errTaskNotFound)

	// A storage failure is not a not-found and must surface as-is.
	require.NoError(t, s.Close())
	_, err = ownedTask(ctx, s, 1, created.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errTaskNotFound)
}

func TestTaskLine(t *testing.T) {
	date := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.Local)
	tod := store.TimeOfDay{Hour: 14, Minute: 30}

	full := taskLine(store.Task{ID: 3, Text: "water the plants", Date: &date, Time: &tod})
	assert.Contains(t, full, "`3.`")
	assert.Contains(t, full, "**water the plants**")
	assert.Contains(t, full, "October 20, 2026 at 2:30 PM")
	due := tod.On(date)
	assert.Contains(t, full, fmt.Sprintf("<t:%d:R>", due.Unix()))

	dateOnly := taskLine(store.Task{ID: 1, Text: "a", Date: &date})
	assert.Contains(t, dateOnly, "October 20")
	assert.False(t, strings.Contains(dateOnly, "PM"))

	bare := taskLine(store.Task{ID: 2, Text: "b"})
	assert.Contains(t, bare, "no due date")
}
