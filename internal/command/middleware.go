package command

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Middleware wraps a handler (logging, gating, metrics). The first in the
// list passed to Apply is the outermost.
type Middleware func(*Command, HandlerFunc) HandlerFunc

// Apply applies middlewares in order around the command's handler.
func Apply(cmd *Command, mws ...Middleware) HandlerFunc {
	h := cmd.Run
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](cmd, h)
	}
	return h
}

// WithLogger logs every invocation with its outcome and duration.
func WithLogger(log zerolog.Logger) Middleware {
	return func(cmd *Command, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, inv *Invocation) error {
			start := time.Now()
			err := next(ctx, inv)
			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev.Str("command", cmd.QualifiedName()).
				Str("user", inv.UserID).
				Dur("took", time.Since(start)).
				Msg("command invoked")
			return err
		}
	}
}

// WithCogGate drops invocations of commands whose cog is inactive. The drop
// is silent, matching how unknown text is ignored.
func WithCogGate(registry *Registry) Middleware {
	return func(cmd *Command, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, inv *Invocation) error {
			if cog := registry.CogOf(cmd); cog != nil && !cog.Active {
				return nil
			}
			return next(ctx, inv)
		}
	}
}
