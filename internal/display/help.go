// ABOUTME: REPL help text: a plain command table or glamour-rendered markdown in rich mode
// ABOUTME: Uses glamour's standard dark or light style and falls back to raw markdown on error

package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// HelpEntry documents one REPL command.
type HelpEntry struct {
	Usage       string
	Aliases     []string
	Description string
}

// Help prints the command reference.
func (p *Printer) Help(entries []HelpEntry) {
	if !p.rich {
		fmt.Fprint(p.out, plainHelp(entries))
		return
	}
	style := "dark"
	if p.light {
		style = "light"
	}
	fmt.Fprintln(p.out, renderMarkdown(markdownHelp(entries), style, p.width))
}

func plainHelp(entries []HelpEntry) string {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Usage))
	}
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  %-*s  %s", width, e.Usage, e.Description)
		if len(e.Aliases) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(e.Aliases, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func markdownHelp(entries []HelpEntry) string {
	var b strings.Builder
	b.WriteString("## Commands\n\n")
	b.WriteString("| Command | Aliases | Description |\n")
	b.WriteString("|---|---|---|\n")
	for _, e := range entries {
		aliases := make([]string, len(e.Aliases))
		for i, a := range e.Aliases {
			aliases[i] = "`" + a + "`"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", e.Usage, strings.Join(aliases, " "), e.Description)
	}
	return b.String()
}

func renderMarkdown(md, style string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ")
}
