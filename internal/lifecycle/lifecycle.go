// Package lifecycle dispatches CLI commands through named lifecycle events.
//
// A command owns an ordered list of lifecycle events. Running the command
// fires, for every event in turn, the hooks bound to "before:<cmd>:<event>",
// then "<cmd>:<event>", then "after:<cmd>:<event>". Several providers may
// contribute events and hooks to the same command.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	apperrors "github.com/webship/webship/internal/errors"
	"github.com/webship/webship/internal/logger"
)

// Hook handles one lifecycle event.
type Hook func(ctx context.Context) error

// Command describes a runnable command.
type Command struct {
	Name            string
	Usage           string
	LifecycleEvents []string
}

// Plugin contributes commands and hooks to a registry.
type Plugin interface {
	Commands() []Command
	Hooks() map[string]Hook
}

// Registry holds commands and the hooks bound to their events.
type Registry struct {
	commands map[string]*Command
	order    []string
	hooks    map[string][]Hook
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		commands: make(map[string]*Command),
		hooks:    make(map[string][]Hook),
		logger:   log,
	}
}

// AddCommand registers cmd. Adding a name that already exists appends the
// new lifecycle events it does not have yet and keeps the first non-empty usage.
func (r *Registry) AddCommand(cmd Command) {
	existing, ok := r.commands[cmd.Name]
	if !ok {
		c := Command{
			Name:            cmd.Name,
			Usage:           cmd.Usage,
			LifecycleEvents: slices.Clone(cmd.LifecycleEvents),
		}
		r.commands[cmd.Name] = &c
		r.order = append(r.order, cmd.Name)
		return
	}

	if existing.Usage == "" {
		existing.Usage = cmd.Usage
	}
	for _, event := range cmd.LifecycleEvents {
		if !slices.Contains(existing.LifecycleEvents, event) {
			existing.LifecycleEvents = append(existing.LifecycleEvents, event)
		}
	}
}

// Hook binds fn to event. Hooks on the same event run in binding order.
func (r *Registry) Hook(event string, fn Hook) {
	r.hooks[event] = append(r.hooks[event], fn)
}

// Load registers every command and hook of p.
func (r *Registry) Load(p Plugin) {
	for _, cmd := range p.Commands() {
		r.AddCommand(cmd)
	}

	hooks := p.Hooks()
	events := make([]string, 0, len(hooks))
	for event := range hooks {
		events = append(events, event)
	}
	slices.Sort(events)
	for _, event := range events {
		r.Hook(event, hooks[event])
	}
}

// Command returns the command registered under name.
func (r *Registry) Command(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	if !ok {
		return Command{}, false
	}
	return *cmd, true
}

// Commands returns all commands in registration order.
func (r *Registry) Commands() []Command {
	cmds := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, *r.commands[name])
	}
	return cmds
}

// Events returns the fully qualified hook events fired by command name, in order.
func (r *Registry) Events(name string) ([]string, error) {
	cmd, ok := r.commands[name]
	if !ok {
		return nil, apperrors.ErrNotFound(fmt.Sprintf("unknown command %q", name), nil)
	}

	events := make([]string, 0, len(cmd.LifecycleEvents)*3) //nolint:mnd // before, on, after
	for _, event := range cmd.LifecycleEvents {
		qualified := cmd.Name + ":" + event
		events = append(events, "before:"+qualified, qualified, "after:"+qualified)
	}
	return events, nil
}

// Run fires the lifecycle of command name. It stops at the first hook error.
func (r *Registry) Run(ctx context.Context, name string) error {
	events, err := r.Events(name)
	if err != nil {
		return err
	}

	log := logger.DeriveRunLogger(ctx, r.logger)

	for _, event := range events {
		hooks := r.hooks[event]
		if len(hooks) == 0 {
			continue
		}

		log.Debug("running lifecycle hooks", "context", map[string]any{
			"command": name,
			"event":   event,
			"hooks":   len(hooks),
		})

		for _, hook := range hooks {
			if err = ctx.Err(); err != nil {
				return apperrors.ErrTimeout(fmt.Sprintf("%s interrupted before %s", name,
					strings.TrimPrefix(event, "before:")), err)
			}
			if err = hook(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}
