// ABOUTME: Locates interaction holes ("?" and "{! !}") in Agda source text
// ABOUTME: Agda numbers interaction points in the same source order

package buffer

import (
	"strings"
	"unicode/utf8"
)

// Hole is the byte span of one hole in the source.
type Hole struct {
	Start int
	End   int
}

// Holes lists the holes in src in source order. Holes inside comments,
// pragmas, string and character literals are ignored.
func Holes(src string) []Hole {
	var holes []Hole
	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "{-"):
			i = skipBlockComment(src, i)
		case strings.HasPrefix(src[i:], "--") && boundaryBefore(src, i):
			i = skipLine(src, i)
		case src[i] == '\'' && boundaryBefore(src, i):
			i = skipChar(src, i)
		case src[i] == '"':
			i = skipString(src, i)
		case strings.HasPrefix(src[i:], "{!"):
			end := strings.Index(src[i+2:], "!}")
			if end < 0 {
				return holes
			}
			holes = append(holes, Hole{Start: i, End: i + 2 + end + 2})
			i += 2 + end + 2
		case src[i] == '?' && boundaryBefore(src, i) && boundaryAfter(src, i+1):
			holes = append(holes, Hole{Start: i, End: i + 1})
			i++
		default:
			i++
		}
	}
	return holes
}

// skipBlockComment returns the offset after the comment opened at i.
// Block comments nest.
func skipBlockComment(src string, i int) int {
	depth := 0
	for i < len(src) {
		switch {
		case strings.HasPrefix(src[i:], "{-"):
			depth++
			i += 2
		case strings.HasPrefix(src[i:], "-}"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return i
}

func skipLine(src string, i int) int {
	if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
		return i + nl + 1
	}
	return len(src)
}

func skipString(src string, i int) int {
	for i++; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"', '\n':
			return i + 1
		}
	}
	return i
}

// skipChar returns the offset after the character literal opened at i, or
// i+1 when the quote starts none (primes in names such as x').
func skipChar(src string, i int) int {
	j := i + 1
	if j >= len(src) {
		return j
	}
	if src[j] == '\\' {
		for k := j + 2; k < len(src) && k < j+12; k++ {
			switch src[k] {
			case '\'':
				return k + 1
			case '\n':
				return i + 1
			}
		}
		return i + 1
	}
	_, size := utf8.DecodeRuneInString(src[j:])
	if end := j + size; end < len(src) && src[end] == '\'' && src[j] != '\n' {
		return end + 1
	}
	return i + 1
}

func boundaryBefore(src string, i int) bool {
	return i == 0 || isDelim(src[i-1])
}

func boundaryAfter(src string, i int) bool {
	return i >= len(src) || isDelim(src[i])
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '{', '}', ';', '.':
		return true
	}
	return false
}
