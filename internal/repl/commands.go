// ABOUTME: REPL command registry: define, give, reload, type, infer, compute, version, help, exit
// ABOUTME: Commands are looked up by name or alias; help lists them in registration order

package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mauromedda/agda-tac-go/internal/display"
	"github.com/mauromedda/agda-tac-go/pkg/agda"
)

// Command is one REPL verb.
type Command struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
	// NeedsLoad commands work on Agda's view of the file, so an edit made
	// outside the REPL triggers a reload first.
	NeedsLoad bool
	Execute   func(ctx context.Context, r *REPL, args string) error
}

// Registry holds the REPL commands.
type Registry struct {
	commands []*Command
	byName   map[string]*Command
}

// NewRegistry returns a registry with every built-in command.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Command)}
	r.registerCoreCommands()
	return r
}

// Register adds c under its name and aliases. A later registration wins.
func (r *Registry) Register(c *Command) {
	r.commands = append(r.commands, c)
	r.byName[c.Name] = c
	for _, a := range c.Aliases {
		r.byName[a] = c
	}
}

// Get returns a command by name or alias.
func (r *Registry) Get(name string) (*Command, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// List returns the commands in registration order.
func (r *Registry) List() []*Command {
	return append([]*Command(nil), r.commands...)
}

// Names returns every name and alias, used for suggestions.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for _, c := range r.commands {
		names = append(names, c.Name)
		names = append(names, c.Aliases...)
	}
	return names
}

func (r *Registry) helpEntries() []display.HelpEntry {
	entries := make([]display.HelpEntry, 0, len(r.commands))
	for _, c := range r.commands {
		entries = append(entries, display.HelpEntry{
			Usage:       c.Usage,
			Aliases:     c.Aliases,
			Description: c.Description,
		})
	}
	return entries
}

func (r *Registry) registerCoreCommands() {
	core := []*Command{
		{
			Name:        "define",
			Aliases:     []string{"def", "d"},
			Usage:       "define <name>",
			Description: "Append `name : ?` and `name = ?` to the file and reload",
			Execute: func(ctx context.Context, repl *REPL, args string) error {
				name, err := parseName(args)
				if err != nil {
					return err
				}
				return repl.define(ctx, name)
			},
		},
		{
			Name:        "give",
			Aliases:     []string{"g"},
			Usage:       "give <i> <expr>",
			Description: "Fill goal i with expr and reload",
			NeedsLoad:   true,
			Execute: func(ctx context.Context, repl *REPL, args string) error {
				id, rest, err := parseGoal(args)
				if err != nil {
					return err
				}
				if rest == "" {
					return usagef("give needs an expression after the goal number")
				}
				return repl.give(ctx, id, rest)
			},
		},
		{
			Name:        "reload",
			Aliases:     []string{"r"},
			Usage:       "reload",
			Description: "Re-check the file and list the goals",
			Execute: func(ctx context.Context, repl *REPL, _ string) error {
				return repl.reload(ctx)
			},
		},
		{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "type <i>",
			Description: "Show the type of goal i",
			NeedsLoad:   true,
			Execute: func(ctx context.Context, repl *REPL, args string) error {
				id, rest, err := parseGoal(args)
				if err != nil {
					return err
				}
				if rest != "" {
					return usagef("type takes only a goal number")
				}
				return repl.goalType(ctx, id)
			},
		},
		{
			Name:        "infer",
			Usage:       "infer <expr>",
			Description: "Infer the type of expr in the loaded module",
			NeedsLoad:   true,
			Execute: func(ctx context.Context, repl *REPL, args string) error {
				if args == "" {
					return usagef("infer needs an expression")
				}
				return repl.query(ctx, agda.InferCmd(args))
			},
		},
		{
			Name:        "compute",
			Usage:       "compute <expr>",
			Description: "Normalise expr in the loaded module",
			NeedsLoad:   true,
			Execute: func(ctx context.Context, repl *REPL, args string) error {
				if args == "" {
					return usagef("compute needs an expression")
				}
				return repl.query(ctx, agda.ComputeCmd(args))
			},
		},
		{
			Name:        "version",
			Usage:       "version",
			Description: "Show the Agda version",
			Execute: func(ctx context.Context, repl *REPL, _ string) error {
				return repl.query(ctx, agda.CmdShowVersion{})
			},
		},
		{
			Name:        "help",
			Aliases:     []string{"h", "?"},
			Usage:       "help",
			Description: "List the commands",
			Execute: func(_ context.Context, repl *REPL, _ string) error {
				repl.printer.Help(r.helpEntries())
				return nil
			},
		},
		{
			Name:        "exit",
			Aliases:     []string{"quit", "q"},
			Usage:       "exit",
			Description: "Stop Agda and leave",
			Execute: func(ctx context.Context, repl *REPL, _ string) error {
				return repl.exit(ctx)
			},
		},
	}
	for _, c := range core {
		r.Register(c)
	}
}

// usageError is a malformed command line. It is reported as "Wait, ...".
type usageError struct {
	reason string
}

func (e *usageError) Error() string { return e.reason }

func usagef(format string, args ...any) error {
	return &usageError{reason: fmt.Sprintf(format, args...)}
}

// parseName checks a definition name: one word, no layout or reserved symbols.
func parseName(args string) (string, error) {
	if args == "" {
		return "", usagef("define needs a name")
	}
	if strings.ContainsFunc(args, unicode.IsSpace) {
		return "", usagef("%q is not a single name", args)
	}
	if strings.ContainsAny(args, "(){};\".@") {
		return "", usagef("%q is not a valid name", args)
	}
	return args, nil
}

// parseGoal reads a goal number (optionally written ?n) and returns the rest.
func parseGoal(args string) (agda.InteractionPoint, string, error) {
	if args == "" {
		return 0, "", usagef("which goal? give a goal number")
	}
	word, rest, _ := strings.Cut(args, " ")
	n, err := strconv.ParseUint(strings.TrimPrefix(word, "?"), 10, 32)
	if err != nil {
		return 0, "", usagef("%q is not a goal number", word)
	}
	return agda.InteractionPoint(n), strings.TrimSpace(rest), nil
}
