// ABOUTME: Cell width measurement and word wrapping for goal types
// ABOUTME: Unicode-heavy Agda types (→, ∀, ℕ) are measured by display cells, not bytes

package display

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// labelCells returns the display width of a goal label.
func labelCells(s string) int {
	return uniseg.StringWidth(s)
}

// wrap breaks s into lines of at most maxWidth cells, splitting at spaces.
// Words wider than maxWidth are broken by cell. Existing newlines are kept.
func wrap(s string, maxWidth int) []string {
	if maxWidth < 10 {
		maxWidth = 10
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapLine(para, maxWidth)...)
	}
	return lines
}

func wrapLine(s string, maxWidth int) []string {
	if runewidth.StringWidth(s) <= maxWidth {
		return []string{s}
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, word := range strings.Fields(s) {
		w := runewidth.StringWidth(word)
		if curWidth > 0 && curWidth+1+w > maxWidth {
			flush()
		}
		for w > maxWidth {
			head := runewidth.Truncate(word, maxWidth-curWidth, "")
			if head == "" {
				flush()
				continue
			}
			cur.WriteString(head)
			flush()
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += w
	}
	if cur.Len() > 0 {
		flush()
	}
	return lines
}
