// ABOUTME: Serializes commands into Agda's Haskell-syntax interaction language
// ABOUTME: Handles string quoting, Bool spelling, lists, ranges and the IOTCM envelope

package agda

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Encode renders c as the argument of an IOTCM line.
func Encode(c Cmd) string {
	var w wire
	c.encode(&w)
	return w.String()
}

// wire accumulates space separated Haskell tokens.
type wire struct {
	strings.Builder
}

func (w *wire) token(s string) {
	if w.Len() > 0 {
		w.WriteByte(' ')
	}
	w.WriteString(s)
}

// app writes a parenthesized constructor application: ( Name args... )
func (w *wire) app(name string, args ...func(*wire)) {
	w.token("(")
	w.WriteByte(' ')
	w.WriteString(name)
	for _, arg := range args {
		arg(w)
	}
	w.WriteString(" )")
}

func (w *wire) str(s string) { w.token(quote(s)) }

func (w *wire) boolean(b bool) {
	if b {
		w.token("True")
		return
	}
	w.token("False")
}

func (w *wire) list(items []string) {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = quote(it)
	}
	w.token("[" + strings.Join(quoted, ", ") + "]")
}

func (w *wire) rng(r Range) {
	if r.IsNoRange() {
		w.token("noRange")
		return
	}
	w.token("(intervalsToRange (Just (mkAbsolute " + quote(r.File) + ")) [Interval " +
		pn(r.Start) + " " + pn(r.End) + "])")
}

func (w *wire) goal(in GoalInput) {
	w.token("(" + strconv.FormatUint(uint64(in.ID), 10))
	w.rng(in.Range)
	w.str(in.Code)
	w.WriteByte(')')
}

func pn(p Position) string {
	return "(Pn () " + strconv.FormatUint(uint64(p.Offset), 10) + " " +
		strconv.FormatUint(uint64(p.Line), 10) + " " +
		strconv.FormatUint(uint64(p.Column), 10) + ")"
}

// Argument helpers for app.
func strArg(s string) func(*wire)         { return func(w *wire) { w.str(s) } }
func boolArg(b bool) func(*wire)          { return func(w *wire) { w.boolean(b) } }
func listArg(items []string) func(*wire)  { return func(w *wire) { w.list(items) } }
func goalArg(in GoalInput) func(*wire)    { return func(w *wire) { w.goal(in) } }
func tokenArg(s fmt.Stringer) func(*wire) { return func(w *wire) { w.token(s.String()) } }
func rawArg(s string) func(*wire)         { return func(w *wire) { w.token(s) } }

// quote renders s as a Haskell string literal. Printable non-ASCII runes are
// kept as-is; Agda reads its input as UTF-8.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == utf8.RuneError && size == 1:
			b.WriteRune(utf8.RuneError)
		case r < 0x20 || r == 0x7f:
			// Numeric escapes need \& when a digit follows.
			b.WriteString(`\` + strconv.Itoa(int(r)))
			if i < len(s) && s[i] >= '0' && s[i] <= '9' {
				b.WriteString(`\&`)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
