// ABOUTME: Shared protocol vocabulary: interaction points, positions, ranges and command modifiers
// ABOUTME: Modifier values render as the bare Haskell constructor names Agda expects

package agda

import (
	"encoding/json"
	"fmt"
)

// InteractionPoint identifies a hole in the loaded file. Agda assigns them;
// clients only echo ids they have seen in an InteractionPoints response.
type InteractionPoint uint32

// UnmarshalJSON accepts both the bare integer form and the object form
// ({"id": n, "range": [...]}) emitted by newer Agda releases.
func (ip *InteractionPoint) UnmarshalJSON(data []byte) error {
	var n uint32
	if err := json.Unmarshal(data, &n); err == nil {
		*ip = InteractionPoint(n)
		return nil
	}
	var obj struct {
		ID *uint32 `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("interaction point: %w", err)
	}
	if obj.ID == nil {
		return fmt.Errorf("interaction point: missing id in %s", data)
	}
	*ip = InteractionPoint(*obj.ID)
	return nil
}

// Position is a point in a source file, passed to Agda verbatim.
type Position struct {
	Offset uint32
	Line   uint32
	Column uint32
}

// Range is either NoRange (the zero value) or an interval inside File.
type Range struct {
	File  string
	Start Position
	End   Position
	set   bool
}

// NoRange marks text that did not come from the goal's own extent.
var NoRange = Range{}

// Interval builds a range covering start..end in file.
func Interval(file string, start, end Position) Range {
	return Range{File: file, Start: start, End: end, set: true}
}

// IsNoRange reports whether r carries no interval.
func (r Range) IsNoRange() bool { return !r.set }

// Rewrite is the normalization level applied to displayed terms.
type Rewrite int

const (
	AsIs Rewrite = iota
	Instantiated
	HeadNormal
	Simplified
	Normalised
)

func (r Rewrite) String() string {
	switch r {
	case AsIs:
		return "AsIs"
	case Instantiated:
		return "Instantiated"
	case HeadNormal:
		return "HeadNormal"
	case Simplified:
		return "Simplified"
	default:
		return "Normalised"
	}
}

// ComputeMode selects how Cmd_compute evaluates and displays its result.
type ComputeMode int

const (
	DefaultCompute ComputeMode = iota
	IgnoreAbstract
	UseShowInstance
)

func (m ComputeMode) String() string {
	switch m {
	case IgnoreAbstract:
		return "IgnoreAbstract"
	case UseShowInstance:
		return "UseShowInstance"
	default:
		return "DefaultCompute"
	}
}

// UseForce controls whether safety checks (termination, positivity) are skipped.
type UseForce int

const (
	WithoutForce UseForce = iota
	WithForce
)

func (f UseForce) String() string {
	if f == WithForce {
		return "WithForce"
	}
	return "WithoutForce"
}

// Remove selects whether token highlighting files are deleted after loading.
type Remove int

const (
	Keep Remove = iota
	RemoveFile
)

func (r Remove) String() string {
	if r == RemoveFile {
		return "Remove"
	}
	return "Keep"
}

// HighlightingLevel is how much highlighting Agda should send back.
type HighlightingLevel int

const (
	NonInteractive HighlightingLevel = iota
	HighlightNone
	Interactive
)

func (l HighlightingLevel) String() string {
	switch l {
	case HighlightNone:
		return "None"
	case Interactive:
		return "Interactive"
	default:
		return "NonInteractive"
	}
}

// HighlightingMethod is how highlighting is delivered.
type HighlightingMethod int

const (
	// Direct sends highlighting via stdout.
	Direct HighlightingMethod = iota
	// Indirect sends highlighting via files and stdout.
	Indirect
)

func (m HighlightingMethod) String() string {
	if m == Indirect {
		return "Indirect"
	}
	return "Direct"
}
