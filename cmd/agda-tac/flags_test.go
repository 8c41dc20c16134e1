// ABOUTME: Tests for CLI flag parsing and the layering of flags over config
// ABOUTME: Uses a private FlagSet per call so tests stay independent

package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mauromedda/agda-tac-go/internal/config"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	args, err := parseFlags([]string{
		"-agda", "/opt/agda/bin/agda",
		"-plain",
		"-debug-command",
		"-timeout", "30s",
		"-transcript", "run.jsonl",
		"Main.agda",
	}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if args.agda != "/opt/agda/bin/agda" || !args.plain || !args.debugCommands || args.debugResponses {
		t.Errorf("args = %+v", args)
	}
	if args.timeout != 30*time.Second {
		t.Errorf("timeout = %v", args.timeout)
	}
	if args.transcript != "run.jsonl" || args.file != "Main.agda" {
		t.Errorf("transcript/file = %q/%q", args.transcript, args.file)
	}
}

func TestParseFlags_RequiresOneFile(t *testing.T) {
	t.Parallel()

	for _, argv := range [][]string{nil, {"A.agda", "B.agda"}} {
		var stderr bytes.Buffer
		if _, err := parseFlags(argv, &stderr); !errors.Is(err, errUsage) {
			t.Errorf("parseFlags(%q) error = %v, want errUsage", argv, err)
		}
		if stderr.Len() == 0 {
			t.Errorf("parseFlags(%q) printed no usage", argv)
		}
	}
}

func TestParseFlags_VersionNeedsNoFile(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	args, err := parseFlags([]string{"-version"}, &stderr)
	if err != nil || !args.version {
		t.Errorf("parseFlags(-version) = %+v, %v", args, err)
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	if _, err := parseFlags([]string{"-frob", "A.agda"}, &stderr); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	s := &config.Settings{
		Agda:            "agda-2.6",
		Verbose:         true,
		ResponseTimeout: time.Minute,
		Transcript:      "configured.jsonl",
	}
	cliArgs{plain: true, debugResponses: true}.apply(s)

	if s.Agda != "agda-2.6" || s.Transcript != "configured.jsonl" || s.ResponseTimeout != time.Minute {
		t.Errorf("unset flags changed settings: %+v", s)
	}
	if !s.Plain || !s.Verbose || !s.DebugResponses || s.DebugCommands {
		t.Errorf("switches = %+v", s)
	}

	cliArgs{agda: "agda-2.7", timeout: time.Second, transcript: "/tmp/t.jsonl"}.apply(s)
	if s.Agda != "agda-2.7" || s.ResponseTimeout != time.Second || s.Transcript != "/tmp/t.jsonl" {
		t.Errorf("flags did not override: %+v", s)
	}
}

func TestTranscriptPath(t *testing.T) {
	t.Setenv("AGDA_TAC_HOME", "/home/u/.agda-tac")

	if got := transcriptPath("/abs/t.jsonl"); got != "/abs/t.jsonl" {
		t.Errorf("absolute path rewritten: %q", got)
	}
	want := filepath.Join("/home/u/.agda-tac", "transcripts", "run.jsonl")
	if got := transcriptPath("run.jsonl"); got != want {
		t.Errorf("transcriptPath = %q, want %q", got, want)
	}
}
