package command

import "strings"

// DefaultMaxNameDepth bounds how many leading tokens the resolver will try as
// a partial command name. Qualified names here are at most two tokens deep
// (group plus subcommand), so deeper candidates can never match.
const DefaultMaxNameDepth = 2

// Resolver maps raw prefixed text to a registered command and the unconsumed
// argument remainder. The boundary between name and arguments is not
// delimited, so resolution first walks exact names and then falls back to
// partial suffix matching.
type Resolver struct {
	registry *Registry
	prefix   string
	maxDepth int
}

// NewResolver returns a resolver for the registry using the given prefix.
func NewResolver(registry *Registry, prefix string) *Resolver {
	return &Resolver{registry: registry, prefix: prefix, maxDepth: DefaultMaxNameDepth}
}

// Resolution is a successfully resolved command call.
type Resolution struct {
	Command *Command
	Args    []string
}

// Resolve determines which command, if any, the raw text invokes.
//
// Text without the prefix, or text whose tokens match nothing, resolves to
// (nil, nil): the message did not want to invoke anything and the caller may
// ignore it silently. Matching proceeds in two phases:
//
//  1. Exact: the first token is looked up by name or alias; while the match
//     is a group and the next token names one of its children, descend.
//  2. Partial: for increasingly long candidates (up to maxDepth leading
//     tokens rejoined with single spaces), collect every command whose
//     qualified name ends with the candidate on a token boundary or whose
//     alias equals it. A single match at the first depth producing any match
//     wins; two or more fail immediately with AmbiguousNameError.
func (r *Resolver) Resolve(raw string) (*Resolution, error) {
	if !strings.HasPrefix(raw, r.prefix) {
		return nil, nil
	}
	tokens := strings.Fields(strings.TrimPrefix(raw, r.prefix))
	if len(tokens) == 0 {
		return nil, nil
	}

	res, err := r.resolveExact(tokens)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return r.resolvePartial(tokens)
}

// resolveExact matches the leading tokens against exact names and aliases.
// An alias carried by more than one command, at the top level or among a
// group's children, fails with AmbiguousNameError rather than picking one.
func (r *Resolver) resolveExact(tokens []string) (*Resolution, error) {
	matches := r.registry.LookupAll(tokens[0])
	switch {
	case len(matches) == 0:
		return nil, nil
	case len(matches) > 1:
		return nil, &AmbiguousNameError{Input: tokens[0], Candidates: matches}
	}
	cmd := matches[0]
	consumed := 1
	for cmd.IsGroup() && consumed < len(tokens) {
		children := cmd.childMatches(tokens[consumed])
		if len(children) == 0 {
			break
		}
		if len(children) > 1 {
			input := strings.Join(tokens[:consumed+1], " ")
			return nil, &AmbiguousNameError{Input: input, Candidates: children}
		}
		cmd = children[0]
		consumed++
	}
	return &Resolution{Command: cmd, Args: tokens[consumed:]}, nil
}

func (r *Resolver) resolvePartial(tokens []string) (*Resolution, error) {
	for depth := 1; depth <= r.maxDepth && depth <= len(tokens); depth++ {
		candidate := strings.Join(tokens[:depth], " ")

		var matches []*Command
		r.registry.Walk(func(cmd *Command) bool {
			if cmd.matchesSuffix(candidate) || cmd.hasAlias(candidate) {
				matches = append(matches, cmd)
			}
			return true
		})

		switch len(matches) {
		case 0:
			continue
		case 1:
			return &Resolution{Command: matches[0], Args: tokens[depth:]}, nil
		default:
			return nil, &AmbiguousNameError{Input: candidate, Candidates: matches}
		}
	}
	return nil, nil
}
