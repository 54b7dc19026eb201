package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"husky/internal/store"
)

// fakeNotifier records deliveries and lets tests fail sends or forget
// users.
type fakeNotifier struct {
	unknown map[int64]bool
	sendErr error
	channel []int64
	dm      []int64
}

func (f *fakeNotifier) KnownUser(_ context.Context, userID int64) bool {
	return !f.unknown[userID]
}

func (f *fakeNotifier) NotifyChannel(_ context.Context, t store.Task) error {
	f.channel = append(f.channel, t.ID)
	return f.sendErr
}

func (f *fakeNotifier) NotifyDM(_ context.Context, t store.Task) error {
	f.dm = append(f.dm, t.ID)
	return f.sendErr
}

func sweepFixture(t *testing.T) (*store.Store, time.Time) {
	t.Helper()
	s, err := store.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
}

func addTask(t *testing.T, s *store.Store, userID int64, text string, due time.Time, remind store.RemindType) store.Task {
	t.Helper()
	d := due
	created, err := s.CreateTask(context.Background(), store.Task{
		UserID: userID,
		Text:   text,
		Date:   &d,
		Time:   &store.TimeOfDay{Hour: due.Hour(), Minute: due.Minute(), Second: due.Second()},
		Remind: remind,
	})
	require.NoError(t, err)
	return created
}

func newTestSweeper(s *store.Store, n Notifier, now time.Time) *Sweeper {
	sw := New(s, n, zerolog.Nop(), DefaultInterval, DefaultThreshold)
	sw.now = func() time.Time { return now }
	return sw
}

func TestSweepRemindTypes(t *testing.T) {
	s, now := sweepFixture(t)
	n := &fakeNotifier{}
	due := now.Add(-time.Minute)

	channelTask := addTask(t, s, 1, "in channel", due, store.RemindChannel)
	dmTask := addTask(t, s, 1, "by dm", due, store.RemindDM)
	addTask(t, s, 1, "silent", due, store.RemindNone)
	addTask(t, s, 1, "not yet", now.Add(time.Hour), store.RemindChannel)

	sw := newTestSweeper(s, n, now)
	require.NoError(t, sw.Sweep(context.Background()))

	assert.Equal(t, []int64{channelTask.ID}, n.channel)
	assert.Equal(t, []int64{dmTask.ID}, n.dm)

	// The reminded tasks survive and are re-reminded next tick.
	require.NoError(t, sw.Sweep(context.Background()))
	assert.Len(t, n.channel, 2)
	tasks, err := s.UserTasks(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
}

func TestSweepThreshold(t *testing.T) {
	s, now := sweepFixture(t)
	n := &fakeNotifier{}

	addTask(t, s, 1, "ten back", now.Add(-10*time.Second), store.RemindChannel)
	addTask(t, s, 1, "two back", now.Add(-2*time.Second), store.RemindChannel)

	sw := newTestSweeper(s, n, now)
	require.NoError(t, sw.Sweep(context.Background()))
	require.Len(t, n.channel, 1)
}

func TestSweepUnknownUser(t *testing.T) {
	s, now := sweepFixture(t)
	n := &fakeNotifier{unknown: map[int64]bool{7: true}}
	due := now.Add(-time.Minute)

	addTask(t, s, 7, "orphan one", due, store.RemindChannel)
	addTask(t, s, 7, "orphan two", due, store.RemindDM)
	kept := addTask(t, s, 8, "kept", due, store.RemindChannel)

	sw := newTestSweeper(s, n, now)
	require.NoError(t, sw.Sweep(context.Background()))

	assert.Empty(t, n.dm)
	assert.Equal(t, []int64{kept.ID}, n.channel)

	gone, err := s.UserTasks(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestSweepSendFailureSwallowed(t *testing.T) {
	s, now := sweepFixture(t)
	n := &fakeNotifier{sendErr: errors.New("gateway hiccup")}

	addTask(t, s, 1, "flaky", now.Add(-time.Minute), store.RemindChannel)

	sw := newTestSweeper(s, n, now)
	assert.NoError(t, sw.Sweep(context.Background()))

	tasks, err := s.UserTasks(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTrimmer(t *testing.T) {
	s, now := sweepFixture(t)

	addTask(t, s, 1, "ancient", now.AddDate(0, -3, 0), store.RemindNone)
	addTask(t, s, 1, "fresh", now.AddDate(0, 0, -2), store.RemindNone)

	tr := NewTrimmer(s, zerolog.Nop(), time.Hour, 30*24*time.Hour)
	tr.now = func() time.Time { return now }
	require.NoError(t, tr.Trim(context.Background()))

	left, err := s.UserTasks(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].Text)
}
