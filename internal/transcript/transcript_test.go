// ABOUTME: Tests for the JSONL conversation transcript
// ABOUTME: Uses temp directories for isolated read/write testing

package transcript

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mauromedda/agda-tac-go/pkg/agda"
)

var _ agda.Observer = (*Writer)(nil)

func TestWriter_WriteAndRead(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "run.jsonl")
	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	if err := w.Start(SessionStartData{File: "/tmp/A.agda", Agda: "agda", CWD: "/tmp"}); err != nil {
		t.Fatal(err)
	}
	w.Command(`IOTCM "/tmp/A.agda" NonInteractive Direct Cmd_show_version`)
	w.Response([]byte(`JSON> {"kind":"Status"}`), nil)
	w.Response([]byte("garbage"), errors.New("malformed response"))
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatal(err)
	}
	wantTypes := []RecordType{RecordSessionStart, RecordCommand, RecordResponse, RecordDecodeError, RecordSessionEnd}
	if len(records) != len(wantTypes) {
		t.Fatalf("got %d records, want %d", len(records), len(wantTypes))
	}
	for i, rec := range records {
		if rec.Type != wantTypes[i] {
			t.Errorf("record %d type = %s, want %s", i, rec.Type, wantTypes[i])
		}
		if rec.Version != 1 || rec.TS != "2025-01-01T00:00:00Z" {
			t.Errorf("record %d envelope = v%d %s", i, rec.Version, rec.TS)
		}
	}

	var decodeErr LineData
	if err := json.Unmarshal(records[3].Data, &decodeErr); err != nil {
		t.Fatal(err)
	}
	if decodeErr.Line != "garbage" || decodeErr.Error != "malformed response" {
		t.Errorf("decode error data = %+v", decodeErr)
	}
}

func TestWriter_AppendsAcrossRuns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.jsonl")
	for i := 0; i < 2; i++ {
		w, err := Create(path)
		if err != nil {
			t.Fatal(err)
		}
		w.Command("Cmd_abort")
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
	}

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Errorf("got %d records, want 4", len(records))
	}
}

func TestWriter_WriteAfterClose(t *testing.T) {
	t.Parallel()

	w, err := Create(filepath.Join(t.TempDir(), "run.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRecord(RecordCommand, LineData{Line: "late"}); !errors.Is(err, os.ErrClosed) {
		t.Errorf("WriteRecord after Close = %v, want os.ErrClosed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

type failingFile struct{}

func (failingFile) Write([]byte) (int, error) { return 0, errors.New("disk full") }
func (failingFile) Close() error              { return nil }

func TestWriter_KeepsFirstError(t *testing.T) {
	t.Parallel()

	w := NewWriter(failingFile{})
	w.Command("Cmd_abort")
	if w.Err() == nil {
		t.Fatal("expected write error to be kept")
	}
	if err := w.Close(); err == nil {
		t.Error("Close should report the write failure")
	}
}

func TestReadRecords_SkipsMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.jsonl")
	content := `{"v":1,"type":"command","ts":"2025-01-01T00:00:00Z","data":{"line":"Cmd_abort"}}` + "\n" +
		"not json\n" +
		`{"v":1,"type":"session_end","ts":"2025-01-01T00:00:01Z"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestReadRecords_Missing(t *testing.T) {
	t.Parallel()

	if _, err := ReadRecords(filepath.Join(t.TempDir(), "none.jsonl")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
}
