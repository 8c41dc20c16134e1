// ABOUTME: JSONL transcript of an Agda conversation with append-only writes
// ABOUTME: Implements the session Observer hook; reads back line-by-line with bufio.Scanner

package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RecordType identifies the type of JSONL record.
type RecordType string

const (
	RecordSessionStart RecordType = "session_start"
	RecordCommand      RecordType = "command"
	RecordResponse     RecordType = "response"
	RecordDecodeError  RecordType = "decode_error"
	RecordSessionEnd   RecordType = "session_end"
)

// Record is the envelope for all JSONL entries.
type Record struct {
	Version int             `json:"v"`
	Type    RecordType      `json:"type"`
	TS      string          `json:"ts"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SessionStartData holds session_start metadata.
type SessionStartData struct {
	File string   `json:"file"`
	Agda string   `json:"agda"`
	Args []string `json:"args,omitempty"`
	CWD  string   `json:"cwd"`
}

// LineData holds one raw protocol line.
type LineData struct {
	Line  string `json:"line"`
	Error string `json:"error,omitempty"`
}

// Writer appends records to a transcript file. Write failures are kept and
// reported by Err and Close since the Observer hook cannot return them.
type Writer struct {
	mu   sync.Mutex
	out  io.WriteCloser
	now  func() time.Time
	err  error
	done bool
}

// Create opens path for appending, creating parent directories.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating transcript dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	return NewWriter(f), nil
}

// NewWriter writes records to out.
func NewWriter(out io.WriteCloser) *Writer {
	return &Writer{out: out, now: time.Now}
}

// Start records the session metadata.
func (w *Writer) Start(data SessionStartData) error {
	return w.WriteRecord(RecordSessionStart, data)
}

// Command records an IOTCM line sent to Agda.
func (w *Writer) Command(line string) {
	_ = w.WriteRecord(RecordCommand, LineData{Line: line})
}

// Response records a line read from Agda; lines that failed to decode are
// kept as decode_error records.
func (w *Writer) Response(line []byte, err error) {
	if err != nil {
		_ = w.WriteRecord(RecordDecodeError, LineData{Line: string(line), Error: err.Error()})
		return
	}
	_ = w.WriteRecord(RecordResponse, LineData{Line: string(line)})
}

// WriteRecord appends a record to the transcript.
func (w *Writer) WriteRecord(recType RecordType, data any) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling record data: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return os.ErrClosed
	}

	rec := Record{
		Version: 1,
		Type:    recType,
		TS:      w.now().UTC().Format(time.RFC3339Nano),
		Data:    dataBytes,
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	line = append(line, '\n')
	if _, err := w.out.Write(line); err != nil {
		err = fmt.Errorf("writing record: %w", err)
		if w.err == nil {
			w.err = err
		}
		return err
	}
	return nil
}

// Err returns the first write failure.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close writes session_end and closes the file. It returns the first write
// failure seen during the session, if any.
func (w *Writer) Close() error {
	_ = w.WriteRecord(RecordSessionEnd, struct{}{})

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return w.err
	}
	w.done = true
	if err := w.out.Close(); err != nil && w.err == nil {
		w.err = fmt.Errorf("closing transcript: %w", err)
	}
	return w.err
}

// ReadRecords reads all records from a transcript file.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max line

	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue // Skip malformed lines
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scanning transcript %s: %w", path, err)
	}
	return records, nil
}
