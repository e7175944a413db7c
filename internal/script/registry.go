package script

import (
	"errors"
	"fmt"
	"sync"
)

// ReservedCommandName is the one ex-command name the loop handles
// itself: the rest of the line is compiled and evaluated as a module
// instead of being dispatched to a registered handler. Registering a
// command under this name is always rejected.
const ReservedCommandName = "js"

// ErrReservedName is returned by Register for ReservedCommandName.
var ErrReservedName = errors.New("script: \"js\" is reserved for inline module evaluation")

// ErrDuplicateCommand is returned by Register when name is already
// registered and Options.ForceOverwrite is false.
var ErrDuplicateCommand = errors.New("script: command already registered")

// Arity is the ex-command's argument-count contract, mirroring vim's
// command-arity symbols: 0, 1, "?", "+", "*".
type Arity int

const (
	ArityZero     Arity = iota // exactly 0 arguments
	ArityOne                   // exactly 1 argument
	ArityOptional              // 0 or 1 ("?")
	ArityOneOrMore             // 1 or more ("+")
	ArityAny                   // 0 or more ("*")
)

func (a Arity) String() string {
	switch a {
	case ArityZero:
		return "0"
	case ArityOne:
		return "1"
	case ArityOptional:
		return "?"
	case ArityOneOrMore:
		return "+"
	case ArityAny:
		return "*"
	default:
		return "?"
	}
}

// ParseArity maps a vim-style arity symbol onto an Arity, defaulting to
// ArityAny for anything unrecognized.
func ParseArity(s string) Arity {
	switch s {
	case "0":
		return ArityZero
	case "1":
		return ArityOne
	case "?":
		return ArityOptional
	case "+":
		return ArityOneOrMore
	default:
		return ArityAny
	}
}

// Validate reports whether argc arguments satisfy the arity.
func (a Arity) Validate(argc int) bool {
	switch a {
	case ArityZero:
		return argc == 0
	case ArityOne:
		return argc == 1
	case ArityOptional:
		return argc <= 1
	case ArityOneOrMore:
		return argc >= 1
	default:
		return true
	}
}

// Attributes is an ex-command's declared argument/bang contract.
type Attributes struct {
	Arity       Arity
	BangAllowed bool
}

// Options is an ex-command's registration options: overwrite an
// existing registration, and an optional alias name.
type Options struct {
	ForceOverwrite bool
	Alias          string
}

// Command is one ex-command registered by script.
type Command struct {
	Name       string
	Attributes Attributes
	Options    Options
}

// Registry holds every ex-command registered by the running script,
// keyed by name (and, when set, by alias). The registry itself holds
// only the descriptor; the handler call happens in
// internal/script/engine after an ex-command-request round trip.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	aliases  map[string]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds cmd to the registry. The reserved name "js" is always
// rejected; a duplicate name is rejected unless cmd.Options.ForceOverwrite
// is set.
func (r *Registry) Register(cmd Command) error {
	if cmd.Name == ReservedCommandName {
		return ErrReservedName
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name]; exists && !cmd.Options.ForceOverwrite {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	if cmd.Options.Alias != "" {
		r.aliases[cmd.Options.Alias] = cmd.Name
	}
	return nil
}

// Unregister removes name (and any alias pointing to it) from the
// registry. Reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; !exists {
		return false
	}
	delete(r.commands, name)
	for alias, target := range r.aliases {
		if target == name {
			delete(r.aliases, alias)
		}
	}
	return true
}

// Lookup resolves name (or an alias of it) to its Command descriptor.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.commands[name]; ok {
		return cmd, true
	}
	if target, ok := r.aliases[name]; ok {
		cmd, ok := r.commands[target]
		return cmd, ok
	}
	return Command{}, false
}

// All returns every registered command (not aliases).
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	return out
}
