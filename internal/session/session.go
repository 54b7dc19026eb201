// Package session implements the stateful interactive surfaces the bot
// attaches to messages: paginated lists, form panels, and the text prompts
// they open. Sessions are transport-agnostic; the discord adapter supplies a
// Surface and translates gateway interactions into Events.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"husky/internal/command"
)

// DefaultTimeout is the idle window before a session expires.
const DefaultTimeout = 360 * time.Second

// State tracks a session through its lifecycle. A session only accepts
// events while Active; Updating marks the window in which a render is in
// flight.
type State int

const (
	Created State = iota
	Started
	Active
	Updating
	Stopped
	Expired
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Started:
		return "started"
	case Active:
		return "active"
	case Updating:
		return "updating"
	case Stopped:
		return "stopped"
	case Expired:
		return "expired"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrAlreadyStarted is returned by Start on a session that already
	// holds a message. Starting twice is a bot fault, never user input,
	// so it carries command.ErrInternal.
	ErrAlreadyStarted = fmt.Errorf("session: already started: %w", command.ErrInternal)
	// ErrNotActive is returned for events sent to a session that is not
	// accepting them.
	ErrNotActive = errors.New("session: not active")
)

// Control is a rendered button. Active marks the highlighted style, Disabled
// a greyed-out one; both are plain view state for the adapter to map onto
// component styles.
type Control struct {
	ID       string
	Label    string
	Emoji    string
	Disabled bool
	Active   bool
}

// SelectOption is one entry of a Select.
type SelectOption struct {
	Label   string
	Value   string
	Default bool
}

// Select is a rendered dropdown.
type Select struct {
	ID          string
	Placeholder string
	Options     []SelectOption
	Disabled    bool
}

// View is everything a session wants shown on its message.
type View struct {
	Title    string
	Body     string
	Footer   string
	Color    int
	Controls []Control
	Selects  []Select
}

// Prompt asks the transport to open a single-field text input and route the
// submitted value back as an Event with the same ID.
type Prompt struct {
	ID          string
	Title       string
	Label       string
	Placeholder string
}

// Event is a user interaction on a session's message: a button press, a
// select choice, or a submitted prompt value.
type Event struct {
	UserID    string
	ControlID string
	Value     string
}

// Reaction is what the transport should do after an event, beyond the edits
// the session already performed through its Surface.
type Reaction struct {
	Prompt *Prompt
}

// Surface is the narrow rendering contract a session needs from the
// transport.
type Surface interface {
	Send(ctx context.Context, channelID string, v View) (messageID string, err error)
	Edit(ctx context.Context, channelID, messageID string, v View) error
	Delete(ctx context.Context, channelID, messageID string) error
}

// Options configure a session's lifetime and access.
type Options struct {
	// Timeout is the idle window before expiry; zero means DefaultTimeout.
	Timeout time.Duration
	// DeleteOnTimeout removes the bound message when the session expires.
	DeleteOnTimeout bool
	// AllowFunc gates events by user id. Nil allows everyone.
	AllowFunc func(userID string) bool
}

// behavior is what a concrete session type plugs into the shared core.
type behavior interface {
	// view renders the current state.
	view() View
	// handle applies an accepted event. rerender requests an edit of the
	// bound message; done moves the session to Stopped after the render.
	handle(ctx context.Context, ev Event) (rc Reaction, rerender, done bool, err error)
}

// core carries the lifecycle shared by every session kind: the bound
// message, the state machine, the idle timer, and per-session serialization.
type core struct {
	mu      sync.Mutex
	surface Surface
	opts    Options
	log     zerolog.Logger
	b       behavior

	state     State
	channelID string
	messageID string
	timer     *time.Timer
	onDone    func(messageID string)
}

func newCore(surface Surface, opts Options, log zerolog.Logger, b behavior) *core {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &core{surface: surface, opts: opts, log: log, b: b, state: Created}
}

// Start renders the initial view into a new message and binds the session to
// it. A session starts exactly once.
func (c *core) Start(ctx context.Context, channelID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Created {
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, c.state)
	}
	c.state = Started
	id, err := c.surface.Send(ctx, channelID, c.b.view())
	if err != nil {
		c.state = Stopped
		return fmt.Errorf("session: start: %w", err)
	}
	c.channelID = channelID
	c.messageID = id
	c.state = Active
	c.timer = time.AfterFunc(c.opts.Timeout, c.expire)
	return nil
}

// MessageID returns the bound message id, empty before Start.
func (c *core) MessageID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messageID
}

// State returns the current lifecycle state.
func (c *core) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch feeds one event through the gate, the concrete handler, and a
// render if the handler asked for one. Events on a non-active session and
// events from disallowed users are dropped silently.
func (c *core) Dispatch(ctx context.Context, ev Event) (Reaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Active {
		return Reaction{}, nil
	}
	if c.opts.AllowFunc != nil && !c.opts.AllowFunc(ev.UserID) {
		return Reaction{}, nil
	}
	c.timer.Reset(c.opts.Timeout)

	rc, rerender, done, err := c.b.handle(ctx, ev)
	if err != nil {
		return rc, err
	}
	if done {
		// Terminal first, so the final render shows disabled controls.
		c.finish(Stopped)
	}
	if rerender {
		if !done {
			c.state = Updating
		}
		if err := c.surface.Edit(ctx, c.channelID, c.messageID, c.b.view()); err != nil {
			if !done {
				c.state = Active
			}
			return rc, fmt.Errorf("session: render: %w", err)
		}
		if !done {
			c.state = Active
		}
	}
	return rc, nil
}

// Stop ends the session, rendering the final (all-disabled) view.
func (c *core) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Active {
		return nil
	}
	c.finish(Stopped)
	if err := c.surface.Edit(ctx, c.channelID, c.messageID, c.b.view()); err != nil {
		return fmt.Errorf("session: stop render: %w", err)
	}
	return nil
}

// expire fires on the idle timer's goroutine.
func (c *core) expire() {
	c.mu.Lock()
	if c.state != Active {
		c.mu.Unlock()
		return
	}
	c.finish(Expired)
	chanID := c.channelID
	msgID := c.messageID
	del := c.opts.DeleteOnTimeout
	final := c.b.view()
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if del {
		if err := c.surface.Delete(ctx, chanID, msgID); err != nil {
			c.log.Warn().Err(err).Str("message", msgID).Msg("delete on expiry failed")
		}
		return
	}
	if err := c.surface.Edit(ctx, chanID, msgID, final); err != nil {
		c.log.Warn().Err(err).Str("message", msgID).Msg("expiry render failed")
	}
}

// finish must be called with c.mu held.
func (c *core) finish(final State) {
	c.state = final
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.onDone != nil {
		go c.onDone(c.messageID)
	}
}

// setOnDone installs the manager's removal hook.
func (c *core) setOnDone(fn func(messageID string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDone = fn
}

// ended reports whether the session reached a terminal state. Concrete views
// use it to disable every control in their final render.
func (c *core) ended() bool {
	return c.state == Stopped || c.state == Expired
}
