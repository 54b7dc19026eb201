// Package sweeper watches the todo table for overdue tasks and pushes
// reminders out through a Notifier. It also houses the retention trimmer
// that drops long-dead tasks. Both run as jobmgr jobs.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"husky/internal/store"
)

const (
	// DefaultInterval is the sweep period.
	DefaultInterval = 5 * time.Second
	// DefaultThreshold is how far past due a task must be before it is
	// picked up.
	DefaultThreshold = 5 * time.Second
)

// TaskStore is the slice of the store the sweeper reads and prunes.
type TaskStore interface {
	OverdueTasks(ctx context.Context, now time.Time, threshold time.Duration) ([]store.Task, error)
	DeleteUserTasks(ctx context.Context, userID int64) error
}

// Notifier delivers reminders. KnownUser reports whether the task owner can
// still be resolved; tasks of unknown owners are dropped wholesale.
type Notifier interface {
	KnownUser(ctx context.Context, userID int64) bool
	NotifyChannel(ctx context.Context, t store.Task) error
	NotifyDM(ctx context.Context, t store.Task) error
}

// Sweeper re-reminds about every overdue task on each tick until the user
// deletes the task. Reminded tasks are never deleted here.
type Sweeper struct {
	store     TaskStore
	notifier  Notifier
	log       zerolog.Logger
	interval  time.Duration
	threshold time.Duration
	limiter   *rate.Limiter
	now       func() time.Time
}

func New(ts TaskStore, n Notifier, log zerolog.Logger, interval, threshold time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Sweeper{
		store:     ts,
		notifier:  n,
		log:       log.With().Str("component", "sweeper").Logger(),
		interval:  interval,
		threshold: threshold,
		// Discord tolerates bursts but not sustained spam.
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		now:     time.Now,
	}
}

// Run ticks until ctx is cancelled. Tick failures are logged and the loop
// keeps going.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}

// Sweep runs a single pass.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := s.now()
	tasks, err := s.store.OverdueTasks(ctx, now, s.threshold)
	if err != nil {
		return err
	}
	dropped := map[int64]bool{}
	for _, t := range tasks {
		if dropped[t.UserID] {
			continue
		}
		if !s.notifier.KnownUser(ctx, t.UserID) {
			if err := s.store.DeleteUserTasks(ctx, t.UserID); err != nil {
				s.log.Error().Err(err).Int64("user", t.UserID).Msg("pruning unknown user failed")
				continue
			}
			dropped[t.UserID] = true
			s.log.Info().Int64("user", t.UserID).Msg("pruned tasks of unknown user")
			continue
		}
		if t.Remind == store.RemindNone {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		// Send failures are dropped; the task comes back next tick.
		var sendErr error
		switch t.Remind {
		case store.RemindChannel:
			sendErr = s.notifier.NotifyChannel(ctx, t)
		case store.RemindDM:
			sendErr = s.notifier.NotifyDM(ctx, t)
		}
		if sendErr != nil {
			s.log.Debug().Err(sendErr).Int64("task", t.ID).Msg("reminder send failed")
		}
	}
	return nil
}
