// Package jobmgr runs named background jobs with cancellation. A job is a
// function that works until its context is cancelled; the manager tracks
// running jobs by name, logs their lifecycle, and can stop one or all of
// them. There is no retry logic and no persistence.
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Runner is the body of a job. It should return promptly once ctx is
// cancelled; its error is logged, not retried.
type Runner func(ctx context.Context) error

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager tracks running jobs by name. Safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*job
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Manager {
	return &Manager{
		jobs: make(map[string]*job),
		log:  log.With().Str("component", "jobs").Logger(),
	}
}

// Start launches the runner in its own goroutine under the given name.
// Names are unique among running jobs; finished jobs free their name.
func (m *Manager) Start(name string, r Runner) error {
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("jobmgr: job %q already running", name)
	}
	m.jobs[name] = j
	m.mu.Unlock()

	m.log.Info().Str("job", name).Msg("started")
	go func() {
		defer close(j.done)
		if err := r(ctx); err != nil && ctx.Err() == nil {
			m.log.Error().Err(err).Str("job", name).Msg("job failed")
		} else {
			m.log.Info().Str("job", name).Msg("done")
		}
		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()
	return nil
}

// Stop cancels the named job and waits for it to return.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("jobmgr: job %q not running", name)
	}
	j.cancel()
	<-j.done
	return nil
}

// StopAll cancels every running job and waits for all of them.
func (m *Manager) StopAll() {
	m.mu.Lock()
	open := make([]*job, 0, len(m.jobs))
	for _, j := range m.jobs {
		j.cancel()
		open = append(open, j)
	}
	m.mu.Unlock()
	for _, j := range open {
		<-j.done
	}
}

// Running returns the names of active jobs, sorted.
func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
