// ABOUTME: Read-eval loop mapping user lines onto the goal cycle and the source buffer
// ABOUTME: Agda errors and bad input are reported and the loop continues; session failures end it

package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"

	"github.com/mauromedda/agda-tac-go/internal/buffer"
	"github.com/mauromedda/agda-tac-go/internal/display"
	"github.com/mauromedda/agda-tac-go/internal/log"
	"github.com/mauromedda/agda-tac-go/pkg/agda"
)

// Session is the conversation the REPL drives, including teardown.
type Session interface {
	agda.Conversation
	Abort(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

var _ Session = (*agda.Session)(nil)

// errExit ends Run without an error.
var errExit = errors.New("exit")

// Config wires a REPL.
type Config struct {
	Session Session
	Buffer  *buffer.Buffer
	Printer *display.Printer
	// Out receives the prompt. Nil disables it.
	Out    io.Writer
	Logger *log.Logger
}

// REPL reads commands and runs them one at a time against the session.
type REPL struct {
	session  Session
	tracker  *agda.Tracker
	buf      *buffer.Buffer
	printer  *display.Printer
	out      io.Writer
	log      *log.Logger
	registry *Registry
}

// New returns a REPL with the built-in commands.
func New(cfg Config) *REPL {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &REPL{
		session:  cfg.Session,
		tracker:  agda.NewTracker(cfg.Session),
		buf:      cfg.Buffer,
		printer:  cfg.Printer,
		out:      cfg.Out,
		log:      logger,
		registry: NewRegistry(),
	}
}

// Tracker exposes the goals from the last reload.
func (r *REPL) Tracker() *agda.Tracker { return r.tracker }

// Run loads the file, then reads lines from in until exit, end of input or a
// session failure. End of input exits like the exit command. Canceling ctx
// aborts Agda through the same handshake and returns ctx.Err().
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	if err := r.handle(r.reload(ctx)); err != nil {
		if ctx.Err() != nil {
			return r.interrupted(ctx)
		}
		return err
	}

	done := make(chan struct{})
	defer close(done)
	input := readInput(in, done)

	for {
		r.prompt()
		select {
		case <-ctx.Done():
			return r.interrupted(ctx)
		case line, ok := <-input.lines:
			if !ok {
				if input.err != nil {
					return fmt.Errorf("reading input: %w", input.err)
				}
				if err := r.exit(ctx); !errors.Is(err, errExit) {
					return err
				}
				return nil
			}
			err := r.handle(r.Eval(ctx, line))
			if errors.Is(err, errExit) {
				return nil
			}
			if ctx.Err() != nil {
				return r.interrupted(ctx)
			}
			if err != nil {
				return err
			}
		}
	}
}

// input carries lines read from the user. err is set before lines closes.
type input struct {
	lines chan string
	err   error
}

func readInput(in io.Reader, done <-chan struct{}) *input {
	inp := &input{lines: make(chan string)}
	go func() {
		defer close(inp.lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case inp.lines <- scanner.Text():
			case <-done:
				return
			}
		}
		inp.err = scanner.Err()
	}()
	return inp
}

// interrupted stops Agda after ctx was canceled, waiting for DoneAborting
// rather than killing the process.
func (r *REPL) interrupted(ctx context.Context) error {
	r.log.Debug("interrupted, aborting agda")
	if err := r.exit(context.WithoutCancel(ctx)); !errors.Is(err, errExit) {
		return err
	}
	return ctx.Err()
}

// Eval runs one input line. Blank lines do nothing.
func (r *REPL) Eval(ctx context.Context, line string) error {
	line = strings.TrimSpace(norm.NFC.String(line))
	if line == "" {
		return nil
	}
	name, args, _ := strings.Cut(line, " ")
	cmd, ok := r.registry.Get(name)
	if !ok {
		r.notUnderstood(name)
		return nil
	}
	r.log.Debug("repl: %s %q", cmd.Name, args)
	if cmd.NeedsLoad && r.buf.ChangedSinceLoad() {
		r.log.Info("%s changed on disk, reloading", filepath.Base(r.buf.Path()))
		if err := r.reload(ctx); err != nil {
			return err
		}
	}
	return cmd.Execute(ctx, r, strings.TrimSpace(args))
}

// handle reports recoverable errors and passes the rest through.
func (r *REPL) handle(err error) error {
	if err == nil || errors.Is(err, errExit) {
		return err
	}

	var usage *usageError
	var external *agda.ExternalError
	var decode *agda.DecodeError
	var edit *editError
	switch {
	case errors.As(err, &usage):
		r.printer.Message("Wait, " + usage.reason)
	case errors.As(err, &external):
		r.printer.Errors(external.Message)
	case errors.As(err, &decode):
		r.log.Warn("%v", decode)
		r.printer.Errors(decode.Error())
	case errors.As(err, &edit):
		r.printer.Errors(edit.Error())
	default:
		return err
	}
	return nil
}

func (r *REPL) prompt() {
	if r.out != nil {
		fmt.Fprint(r.out, r.printer.Prompt())
	}
}

func (r *REPL) notUnderstood(word string) {
	r.printer.Message("Sorry, I don't understand.")
	matches := fuzzy.Find(word, r.registry.Names())
	if len(matches) > 0 {
		r.printer.Message(fmt.Sprintf("Did you mean %q?", matches[0].Str))
	}
}

// editError is a failed change to the source file.
type editError struct {
	err error
}

func (e *editError) Error() string { return e.err.Error() }
func (e *editError) Unwrap() error { return e.err }

func (r *REPL) reload(ctx context.Context) error {
	r.buf.MarkLoaded()
	goals, err := r.tracker.Reload(ctx)
	if err != nil {
		return err
	}
	r.printer.Goals(goals)
	if msg := r.tracker.Errors(); msg != "" {
		r.printer.Errors(msg)
	}
	return nil
}

func (r *REPL) define(ctx context.Context, name string) error {
	if err := r.buf.AppendLine(name + " : ?"); err != nil {
		return &editError{err: err}
	}
	if err := r.buf.AppendLine(name + " = ?"); err != nil {
		return &editError{err: err}
	}
	return r.reload(ctx)
}

// give fills the goal in Agda, writes the same text into its hole in the
// file and reloads so the goal list matches the file again. Ids missing from
// the last reload still go to Agda, which reports them.
func (r *REPL) give(ctx context.Context, id agda.InteractionPoint, code string) error {
	ordinal := r.ordinal(id)

	result, err := r.tracker.Give(ctx, id, code)
	if err != nil {
		return err
	}

	if ordinal < 0 {
		if err := r.reload(ctx); err != nil {
			return err
		}
		return &editError{err: fmt.Errorf("goal ?%d was not in the last reload, the file is unchanged", id)}
	}
	if err := r.buf.FillHole(ordinal, givenText(code, result)); err != nil {
		return &editError{err: err}
	}
	return r.reload(ctx)
}

// ordinal is the position of id among the tracked goals, or -1.
func (r *REPL) ordinal(id agda.InteractionPoint) int {
	for i, g := range r.tracker.Goals() {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func givenText(code string, result agda.GiveResult) string {
	switch {
	case result.Str != "":
		return result.Str
	case result.Paren:
		return "(" + code + ")"
	default:
		return code
	}
}

func (r *REPL) goalType(ctx context.Context, id agda.InteractionPoint) error {
	ty, err := r.tracker.GoalType(ctx, id)
	if err != nil {
		return err
	}
	r.printer.Info(agda.InfoGoalSpecific{InteractionPoint: id, GoalInfo: agda.CurrentGoal{Type: agda.Text(ty)}})
	return nil
}

func (r *REPL) query(ctx context.Context, c agda.Cmd) error {
	info, err := agda.Query(ctx, r.session, c)
	if err != nil {
		return err
	}
	r.printer.Info(info)
	return nil
}

// exit runs the abort handshake and stops Agda.
func (r *REPL) exit(ctx context.Context) error {
	if err := r.session.Abort(ctx); err != nil {
		return fmt.Errorf("aborting agda: %w", err)
	}
	if err := r.session.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down agda: %w", err)
	}
	return errExit
}
