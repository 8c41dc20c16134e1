// ABOUTME: Renders goals, errors and query results for the REPL in plain or rich mode
// ABOUTME: Plain output is stable line text for scripts; rich output adds lipgloss styles and wrapping

package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mauromedda/agda-tac-go/pkg/agda"
)

// Mode selects between plain and styled output.
type Mode int

const (
	// ModeAuto styles output only when stdout is a terminal.
	ModeAuto Mode = iota
	ModePlain
	ModeRich
)

const defaultWidth = 80

// Options configures a Printer.
type Options struct {
	Mode Mode
	// Width overrides the detected terminal width.
	Width int
	// Light selects colors for a light terminal background. The background
	// is never queried from the terminal.
	Light bool
}

// Printer writes REPL output. Goal listings go to out, Agda errors to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	rich   bool
	width  int
	light  bool
	styles styles
}

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	typ    lipgloss.Style
	err    lipgloss.Style
	muted  lipgloss.Style
	prompt lipgloss.Style
}

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		typ:    lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		muted:  lipgloss.NewStyle().Faint(true),
		prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
	}
}

// New returns a Printer. In ModeAuto output is rich only when out is a terminal.
func New(out, errOut io.Writer, opts Options) *Printer {
	rich := false
	switch opts.Mode {
	case ModeRich:
		rich = true
	case ModeAuto:
		rich = isTerminal(out)
	}
	w := opts.Width
	if w <= 0 {
		w = terminalWidth(out)
	}
	// Preset so lipgloss never sends an OSC 11 background query.
	lipgloss.SetHasDarkBackground(!opts.Light)
	return &Printer{
		out:    out,
		errOut: errOut,
		rich:   rich,
		width:  w,
		light:  opts.Light,
		styles: newStyles(),
	}
}

// Rich reports whether styled output is enabled.
func (p *Printer) Rich() bool { return p.rich }

// Prompt is printed before each input line.
func (p *Printer) Prompt() string {
	if p.rich {
		return p.styles.prompt.Render("agda>") + " "
	}
	return "> "
}

// Goals prints the goal listing after a reload.
func (p *Printer) Goals(goals []agda.Goal) {
	if !p.rich {
		fmt.Fprintln(p.out, "Goals:")
		if len(goals) == 0 {
			fmt.Fprintln(p.out, "No goals.")
		}
		for _, g := range goals {
			fmt.Fprintf(p.out, "?%d: %s\n", g.ID, g.Type)
		}
		return
	}

	fmt.Fprintln(p.out, p.styles.header.Render("Goals:"))
	if len(goals) == 0 {
		fmt.Fprintln(p.out, p.styles.muted.Render("No goals."))
		return
	}

	labels := make([]string, len(goals))
	labelWidth := 0
	for i, g := range goals {
		labels[i] = fmt.Sprintf("?%d:", g.ID)
		labelWidth = max(labelWidth, labelCells(labels[i]))
	}
	for i, g := range goals {
		pad := strings.Repeat(" ", labelWidth-labelCells(labels[i])+1)
		indent := strings.Repeat(" ", labelWidth+1)
		lines := wrap(g.Type, p.width-labelWidth-1)
		for j, line := range lines {
			prefix := indent
			if j == 0 {
				prefix = p.styles.label.Render(labels[i]) + pad
			}
			fmt.Fprintln(p.out, prefix+p.styles.typ.Render(line))
		}
	}
}

// Errors prints an Agda error report to errOut.
func (p *Printer) Errors(msg string) {
	if !p.rich {
		fmt.Fprintln(p.errOut, "Errors:")
		fmt.Fprintln(p.errOut, msg)
		return
	}
	fmt.Fprintln(p.errOut, p.styles.err.Bold(true).Render("Errors:"))
	fmt.Fprintln(p.errOut, p.styles.err.Render(msg))
}

// Message prints a line of REPL chatter such as "Sorry, I don't understand."
func (p *Printer) Message(msg string) {
	if !p.rich {
		fmt.Fprintln(p.out, msg)
		return
	}
	fmt.Fprintln(p.out, p.styles.muted.Render(msg))
}

// Info prints the answer to a query command.
func (p *Printer) Info(info agda.DisplayInfo) {
	text := Describe(info)
	if !p.rich {
		fmt.Fprintln(p.out, text)
		return
	}
	for _, line := range wrap(text, p.width) {
		fmt.Fprintln(p.out, p.styles.typ.Render(line))
	}
}

// Describe renders a display info payload as text.
func Describe(info agda.DisplayInfo) string {
	switch v := info.(type) {
	case agda.InfoInferredType:
		return string(v.Expr)
	case agda.InfoNormalForm:
		return string(v.Expr)
	case agda.InfoVersion:
		return v.Version
	case agda.InfoError:
		return string(v.Message)
	case agda.InfoAuto:
		return string(v.Info)
	case agda.InfoTime:
		return string(v.Time)
	case agda.InfoCompilationOk:
		return joinNonEmpty("Compilation OK.", string(v.Warnings), string(v.Errors))
	case agda.InfoAllGoalsWarnings:
		return joinNonEmpty(string(v.Warnings), string(v.Errors))
	case agda.InfoGoalSpecific:
		switch g := v.GoalInfo.(type) {
		case agda.CurrentGoal:
			return fmt.Sprintf("?%d: %s", v.InteractionPoint, g.Type)
		case agda.GoalType:
			return fmt.Sprintf("?%d: %s", v.InteractionPoint, g.Type)
		case agda.HelperFunction:
			return string(g.Signature)
		case agda.NormalForm:
			return string(g.Expr)
		case agda.InferredType:
			return string(g.Expr)
		}
	case agda.InfoSearchAbout:
		return string(v.Raw)
	case agda.InfoContext:
		return string(v.Raw)
	case agda.InfoConstraints:
		return string(v.Raw)
	case agda.InfoModuleContents:
		return string(v.Raw)
	case agda.InfoWhyInScope:
		return string(v.Raw)
	case agda.InfoIntroNotFound:
		return "No introduction forms found."
	case agda.InfoIntroConstructorUnknown:
		return string(v.Raw)
	}
	if info == nil {
		return ""
	}
	return info.Kind()
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
