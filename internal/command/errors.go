package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports a missing command, group, or cog.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName reports a registration conflict on a qualified name.
	ErrDuplicateName = errors.New("duplicate command name")

	// ErrInternal reports an invariant violation inside the bot, never a
	// problem with user input.
	ErrInternal = errors.New("internal error")
)

// AmbiguousNameError is returned when a partial command name matches more
// than one registered command. It carries every matched candidate so the
// caller can show them; the resolver never picks one itself.
type AmbiguousNameError struct {
	Input      string
	Candidates []*Command
}

func (e *AmbiguousNameError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.QualifiedName()
	}
	return fmt.Sprintf("ambiguous command name %q: matches %s", e.Input, strings.Join(names, ", "))
}
