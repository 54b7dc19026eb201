package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"husky/internal/store"
)

// DefaultRetention is how long a dated task may sit past its date before
// the trimmer deletes it.
const DefaultRetention = 30 * 24 * time.Hour

// TrimStore is the slice of the store the trimmer needs.
type TrimStore interface {
	TrimTasksOlderThan(ctx context.Context, now time.Time, retention time.Duration) ([]store.Task, error)
}

// Trimmer periodically deletes tasks whose date fell out of the retention
// window.
type Trimmer struct {
	store     TrimStore
	log       zerolog.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewTrimmer(ts TrimStore, log zerolog.Logger, interval, retention time.Duration) *Trimmer {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Trimmer{
		store:     ts,
		log:       log.With().Str("component", "trimmer").Logger(),
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Run trims once immediately, then on every interval until ctx is
// cancelled.
func (t *Trimmer) Run(ctx context.Context) error {
	if err := t.Trim(ctx); err != nil {
		t.log.Error().Err(err).Msg("trim failed")
	}
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := t.Trim(ctx); err != nil {
				t.log.Error().Err(err).Msg("trim failed")
			}
		}
	}
}

// Trim runs a single pass.
func (t *Trimmer) Trim(ctx context.Context) error {
	trimmed, err := t.store.TrimTasksOlderThan(ctx, t.now(), t.retention)
	if err != nil {
		return err
	}
	if len(trimmed) > 0 {
		t.log.Info().Int("count", len(trimmed)).Msg("trimmed stale tasks")
	}
	return nil
}
