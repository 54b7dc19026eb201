// Package command provides the transport-agnostic command core: commands and
// groups held in a registry keyed by qualified name, plus the resolver that
// turns raw prefixed text into a command invocation. How commands are
// delivered and rendered (Discord, CLI) is defined by adapters that wrap this.
package command

import (
	"context"
	"strings"
)

// HandlerFunc executes a resolved command.
type HandlerFunc func(ctx context.Context, inv *Invocation) error

// Param describes a single command parameter for help rendering.
type Param struct {
	Name        string
	Type        string
	Required    bool
	Default     string
	Description string
}

// Command is a single invocable command or a group of subcommands. Groups are
// commands that own ordered children; there is no deeper hierarchy of types.
// The registry holds the only strong references; Parent is a back-reference
// for qualified-name construction only.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Hidden      bool
	Params      []Param
	Run         HandlerFunc

	parent   *Command
	children []*Command
	group    bool
}

// New returns a leaf command.
func New(name string, run HandlerFunc) *Command {
	return &Command{Name: name, Run: run}
}

// NewGroup returns a command group. Its Run handler, if set, acts as the
// fallback when the group is invoked without a known subcommand.
func NewGroup(name string, run HandlerFunc) *Command {
	return &Command{Name: name, Run: run, group: true}
}

// WithAliases sets the command's aliases and returns it.
func (c *Command) WithAliases(aliases ...string) *Command {
	c.Aliases = aliases
	return c
}

// WithDescription sets the command's description and returns it.
func (c *Command) WithDescription(d string) *Command {
	c.Description = d
	return c
}

// WithParams sets the command's parameter list and returns it.
func (c *Command) WithParams(params ...Param) *Command {
	c.Params = params
	return c
}

// WithHidden marks the command hidden from help and returns it.
func (c *Command) WithHidden() *Command {
	c.Hidden = true
	return c
}

// Sub adds children to a group. Children are added exactly once, so the tree
// cannot contain cycles. Calling Sub on a leaf command promotes it to a group.
func (c *Command) Sub(children ...*Command) *Command {
	c.group = true
	for _, child := range children {
		child.parent = c
		c.children = append(c.children, child)
	}
	return c
}

// IsGroup reports whether the command owns subcommands.
func (c *Command) IsGroup() bool { return c.group }

// Parent returns the owning group, or nil for a top-level command.
func (c *Command) Parent() *Command { return c.parent }

// Children returns the group's subcommands in registration order.
func (c *Command) Children() []*Command { return c.children }

// Child returns the direct subcommand matching name or one of its aliases,
// or nil when the name matches no child or more than one.
func (c *Command) Child(name string) *Command {
	if matches := c.childMatches(name); len(matches) == 1 {
		return matches[0]
	}
	return nil
}

// childMatches collects every direct subcommand reachable by name. A child
// whose own name equals it wins outright; otherwise every child carrying it
// as an alias matches, and the caller decides what an alias collision means.
func (c *Command) childMatches(name string) []*Command {
	for _, child := range c.children {
		if child.Name == name {
			return []*Command{child}
		}
	}
	var out []*Command
	for _, child := range c.children {
		if child.hasAlias(name) {
			out = append(out, child)
		}
	}
	return out
}

// QualifiedName is the full spaced path of the command including its parent
// group names, e.g. "todo add".
func (c *Command) QualifiedName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.QualifiedName() + " " + c.Name
}

// hasAlias reports whether name equals one of the command's own aliases.
func (c *Command) hasAlias(name string) bool {
	for _, a := range c.Aliases {
		if a == name {
			return true
		}
	}
	return false
}

// matchesSuffix reports whether the command's qualified name ends with the
// candidate on a token boundary ("todo add" matches "add", not "d").
func (c *Command) matchesSuffix(candidate string) bool {
	qn := c.QualifiedName()
	return qn == candidate || strings.HasSuffix(qn, " "+candidate)
}

// Cog is a named bundle of related commands with display metadata. Commands
// keep no reference back to their cog; the registry resolves ownership.
type Cog struct {
	Name        string
	Description string
	Emoji       string
	Hidden      bool
	Active      bool
	Commands    []*Command
}
