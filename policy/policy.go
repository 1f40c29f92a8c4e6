// Package policy decides whether an authenticated session may run a named
// command. The decision is pure: no execution, no argument inspection —
// an Allow verdict only permits invoking the named program.
package policy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrConflictingPolicy is returned when a command appears in both the
// allow-list and the block-list.
var ErrConflictingPolicy = errors.New("command present in both allow and block lists")

// Policy holds the two disjoint command sets, fixed at process start.
type Policy struct {
	allow map[string]struct{}
	block map[string]struct{}
}

// New builds a Policy from the configured allow and block lists. Lists
// containing the same command are rejected outright rather than silently
// resolved per call; the operator must fix the configuration. Entries are
// bare command names: anything with a path separator or whitespace is
// invalid configuration.
func New(allow, block []string) (*Policy, error) {
	p := &Policy{
		allow: make(map[string]struct{}, len(allow)),
		block: make(map[string]struct{}, len(block)),
	}
	for _, name := range allow {
		if err := validateCommandName(name); err != nil {
			return nil, err
		}
		p.allow[name] = struct{}{}
	}
	for _, name := range block {
		if err := validateCommandName(name); err != nil {
			return nil, err
		}
		if _, ok := p.allow[name]; ok {
			return nil, fmt.Errorf("%q: %w", name, ErrConflictingPolicy)
		}
		p.block[name] = struct{}{}
	}
	return p, nil
}

func validateCommandName(name string) error {
	if name == "" {
		return errors.New("empty command name in policy")
	}
	if strings.ContainsAny(name, "/\\ \t") {
		return fmt.Errorf("command name %q must be a bare name without paths or arguments", name)
	}
	return nil
}

// Allowed reports whether the command is in the allow-list.
func (p *Policy) Allowed(command string) bool {
	_, ok := p.allow[command]
	return ok
}

// Blocked reports whether the command is in the block-list.
func (p *Policy) Blocked(command string) bool {
	_, ok := p.block[command]
	return ok
}

// AllowedCommands returns the sorted allow-list, for the terminal's help output.
func (p *Policy) AllowedCommands() []string {
	names := make([]string, 0, len(p.allow))
	for name := range p.allow {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
