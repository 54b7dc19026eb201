package command

import (
	"fmt"
	"sync"
)

// Registry stores commands and cogs, indexed by qualified name and qualified
// alias. It is populated at startup and effectively immutable afterwards;
// Unregister plus Register is the explicit hot-reload path, and concurrent
// readers during a reload see eventually consistent state.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*Command
	byAlias map[string][]*Command
	cogs    map[string]*Cog
	cogOf   map[*Command]*Cog
	order   []*Cog
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*Command),
		byAlias: make(map[string][]*Command),
		cogs:    make(map[string]*Cog),
		cogOf:   make(map[*Command]*Cog),
	}
}

// Register adds a cog and all of its commands, groups included, to the
// registry. It fails with ErrDuplicateName if any qualified name is already
// present, leaving the registry unchanged.
func (r *Registry) Register(cog *Cog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cogs[cog.Name]; exists {
		return fmt.Errorf("cog %q: %w", cog.Name, ErrDuplicateName)
	}

	var flat []*Command
	for _, cmd := range cog.Commands {
		collect(cmd, &flat)
	}
	seen := make(map[string]struct{}, len(flat))
	for _, cmd := range flat {
		qn := cmd.QualifiedName()
		if _, exists := r.byName[qn]; exists {
			return fmt.Errorf("command %q: %w", qn, ErrDuplicateName)
		}
		if _, dup := seen[qn]; dup {
			return fmt.Errorf("command %q: %w", qn, ErrDuplicateName)
		}
		seen[qn] = struct{}{}
	}

	for _, cmd := range flat {
		r.byName[cmd.QualifiedName()] = cmd
		for _, alias := range cmd.Aliases {
			key := qualifyAlias(cmd, alias)
			r.byAlias[key] = append(r.byAlias[key], cmd)
		}
		r.cogOf[cmd] = cog
	}
	r.cogs[cog.Name] = cog
	r.order = append(r.order, cog)
	return nil
}

// Unregister removes a cog and its whole command subtree. Removing and
// re-registering a cog is the reload operation; there is no in-place swap.
func (r *Registry) Unregister(cogName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cog, ok := r.cogs[cogName]
	if !ok {
		return fmt.Errorf("cog %q: %w", cogName, ErrNotFound)
	}

	var flat []*Command
	for _, cmd := range cog.Commands {
		collect(cmd, &flat)
	}
	for _, cmd := range flat {
		delete(r.byName, cmd.QualifiedName())
		for _, alias := range cmd.Aliases {
			key := qualifyAlias(cmd, alias)
			holders := r.byAlias[key]
			for i, h := range holders {
				if h == cmd {
					holders = append(holders[:i], holders[i+1:]...)
					break
				}
			}
			if len(holders) == 0 {
				delete(r.byAlias, key)
			} else {
				r.byAlias[key] = holders
			}
		}
		delete(r.cogOf, cmd)
	}
	delete(r.cogs, cogName)
	for i, c := range r.order {
		if c == cog {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Lookup returns the command whose qualified name or qualified alias equals
// name, exact match only. An alias carried by more than one command returns
// nil; LookupAll exposes the collision.
func (r *Registry) Lookup(name string) *Command {
	if matches := r.LookupAll(name); len(matches) == 1 {
		return matches[0]
	}
	return nil
}

// LookupAll returns every command reachable by the exact name or alias. A
// qualified-name hit is always a single command; an alias shared by several
// commands returns all of them so the caller can report the ambiguity.
func (r *Registry) LookupAll(name string) []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cmd, ok := r.byName[name]; ok {
		return []*Command{cmd}
	}
	holders := r.byAlias[name]
	out := make([]*Command, len(holders))
	copy(out, holders)
	return out
}

// Cog returns the cog with the given name.
func (r *Registry) Cog(name string) *Cog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cogs[name]
}

// Cogs returns every registered cog in registration order.
func (r *Registry) Cogs() []*Cog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Cog, len(r.order))
	copy(out, r.order)
	return out
}

// CogOf returns the cog owning the command, or nil.
func (r *Registry) CogOf(cmd *Command) *Cog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cogOf[cmd]
}

// Walk calls fn for every registered command, groups included, depth-first in
// registration order. It stops early when fn returns false. Each call
// restarts from the top, so callers may walk as often as they like.
func (r *Registry) Walk(fn func(*Command) bool) {
	r.mu.RLock()
	cogs := make([]*Cog, len(r.order))
	copy(cogs, r.order)
	r.mu.RUnlock()

	for _, cog := range cogs {
		for _, cmd := range cog.Commands {
			if !walk(cmd, fn) {
				return
			}
		}
	}
}

// All returns every registered command, depth-first.
func (r *Registry) All() []*Command {
	var out []*Command
	r.Walk(func(c *Command) bool {
		out = append(out, c)
		return true
	})
	return out
}

func walk(cmd *Command, fn func(*Command) bool) bool {
	if !fn(cmd) {
		return false
	}
	for _, child := range cmd.Children() {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

func collect(cmd *Command, out *[]*Command) {
	*out = append(*out, cmd)
	for _, child := range cmd.Children() {
		collect(child, out)
	}
}

// qualifyAlias builds the lookup key for an alias: the parent path plus the
// alias token, so "todo add" with alias "a" is reachable as "todo a".
func qualifyAlias(cmd *Command, alias string) string {
	if cmd.Parent() == nil {
		return alias
	}
	return cmd.Parent().QualifiedName() + " " + alias
}
