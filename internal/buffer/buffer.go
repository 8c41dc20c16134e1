// ABOUTME: The Agda source file the REPL edits: module header init, line appends and hole filling
// ABOUTME: Holes are found by a small lexer that skips comments, pragmas and string literals

package buffer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Buffer is the tracked module file. Every edit goes straight to disk so
// the next Cmd_load sees it.
type Buffer struct {
	path   string
	loaded stamp
	marked bool
}

// Open returns the buffer for path, creating the file with a module header
// named after the file when it does not exist yet.
func Open(path string) (*Buffer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if filepath.Ext(abs) != ".agda" {
		return nil, fmt.Errorf("%s: expected a .agda file", path)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(abs, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	switch {
	case err == nil:
		header := "module " + ModuleName(abs) + " where\n"
		_, werr := f.WriteString(header)
		cerr := f.Close()
		if werr != nil {
			return nil, fmt.Errorf("writing file %s: %w", abs, werr)
		}
		if cerr != nil {
			return nil, fmt.Errorf("closing file %s: %w", abs, cerr)
		}
	case os.IsExist(err):
	default:
		return nil, fmt.Errorf("creating file %s: %w", abs, err)
	}
	return &Buffer{path: abs}, nil
}

// ModuleName is the top level module name Agda expects for path.
func ModuleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// Path returns the absolute file path.
func (b *Buffer) Path() string { return b.path }

// Contents reads the current file.
func (b *Buffer) Contents() (string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", b.path, err)
	}
	return string(data), nil
}

// AppendLine adds line at the end of the file, starting a new line first if
// the file does not end with one.
func (b *Buffer) AppendLine(line string) error {
	content, err := b.Contents()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", b.path, err)
	}
	defer f.Close()

	var sb strings.Builder
	if content != "" && !strings.HasSuffix(content, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString(line)
	sb.WriteByte('\n')
	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("writing file %s: %w", b.path, err)
	}
	return nil
}

// FillHole replaces the n-th hole (zero based, in source order) with text.
func (b *Buffer) FillHole(n int, text string) error {
	content, err := b.Contents()
	if err != nil {
		return err
	}
	holes := Holes(content)
	if n < 0 || n >= len(holes) {
		return fmt.Errorf("hole %d not found; %s has %d", n, filepath.Base(b.path), len(holes))
	}
	h := holes[n]
	result := content[:h.Start] + text + content[h.End:]
	if err := os.WriteFile(b.path, []byte(result), 0o644); err != nil {
		return fmt.Errorf("writing file %s: %w", b.path, err)
	}
	return nil
}
