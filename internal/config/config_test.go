// ABOUTME: Tests for config loading, merging and include expansion
// ABOUTME: Uses temp directories for isolated file-based tests

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	global := &Settings{Agda: "/opt/agda", ResponseTimeout: time.Minute, Include: []string{"lib"}, Theme: "dark"}
	project := &Settings{Agda: "agda-2.6.4", Include: []string{"vendor/*"}, Theme: "light"}

	result := merge(global, project)

	if result.Agda != "agda-2.6.4" {
		t.Errorf("Agda = %q, want %q", result.Agda, "agda-2.6.4")
	}
	if result.ResponseTimeout != time.Minute {
		t.Errorf("ResponseTimeout = %v, want 1m", result.ResponseTimeout)
	}
	if !reflect.DeepEqual(result.Include, []string{"vendor/*"}) {
		t.Errorf("Include = %v, project list should replace global", result.Include)
	}
	if result.Theme != "light" {
		t.Errorf("Theme = %q, want light", result.Theme)
	}
}

func TestMerge_Nil(t *testing.T) {
	t.Parallel()

	result := merge(nil, nil)
	if result == nil {
		t.Fatal("merge(nil, nil) should return non-nil")
	}
}

func TestMerge_EnvMerge(t *testing.T) {
	t.Parallel()

	global := &Settings{Env: map[string]string{"A": "1", "B": "2"}}
	project := &Settings{Env: map[string]string{"B": "override", "C": "3"}}

	result := merge(global, project)

	if result.Env["A"] != "1" {
		t.Error("expected A=1 from global")
	}
	if result.Env["B"] != "override" {
		t.Error("expected B=override from project")
	}
	if result.Env["C"] != "3" {
		t.Error("expected C=3 from project")
	}
	if global.Env["B"] != "2" {
		t.Error("merge must not mutate the global map")
	}
}

func TestLoadFile_NotExist(t *testing.T) {
	t.Parallel()

	s, err := loadFile("/nonexistent/path/config.yaml")
	if !os.IsNotExist(err) {
		t.Errorf("expected not exist error, got %v", err)
	}
	if s == nil {
		t.Error("expected non-nil default settings")
	}
}

func TestLoadFile_ValidYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "agda: /usr/local/bin/agda\n" +
		"args: [--interaction-json, --no-libraries]\n" +
		"debug_commands: true\n" +
		"response_timeout: 30s\n" +
		"include:\n  - libs/**/src\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := loadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Agda != "/usr/local/bin/agda" {
		t.Errorf("Agda = %q", s.Agda)
	}
	if len(s.Args) != 2 || s.Args[1] != "--no-libraries" {
		t.Errorf("Args = %v", s.Args)
	}
	if !s.DebugCommands || s.DebugResponses {
		t.Errorf("debug flags = %v/%v", s.DebugCommands, s.DebugResponses)
	}
	if s.ResponseTimeout != 30*time.Second {
		t.Errorf("ResponseTimeout = %v", s.ResponseTimeout)
	}
	if len(s.Include) != 1 || s.Include[0] != "libs/**/src" {
		t.Errorf("Include = %v", s.Include)
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("agda: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("AGDA_TAC_HOME", home)
	t.Setenv("AGDA_BIN", "/nix/store/agda/bin/agda")

	writeFile(t, filepath.Join(home, "config.yaml"), "agda: ${AGDA_BIN}\nverbose: true\n")
	writeFile(t, filepath.Join(project, ".agda-tac", "config.yaml"), "transcript: session.jsonl\n")

	s, err := Load(project)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Agda != "/nix/store/agda/bin/agda" {
		t.Errorf("Agda = %q, want env expansion", s.Agda)
	}
	if !s.Verbose {
		t.Error("Verbose should come from global config")
	}
	if s.Transcript != "session.jsonl" {
		t.Errorf("Transcript = %q", s.Transcript)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AGDA_TAC_HOME", t.TempDir())

	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Agda != DefaultAgda {
		t.Errorf("Agda = %q, want %q", s.Agda, DefaultAgda)
	}
}

func TestEnviron(t *testing.T) {
	t.Parallel()

	if (&Settings{}).Environ([]string{"PATH=/bin"}) != nil {
		t.Error("no Env should inherit the parent environment")
	}

	s := &Settings{Env: map[string]string{"Z": "1", "A": "2"}}
	got := s.Environ([]string{"PATH=/bin"})
	want := []string{"PATH=/bin", "A=2", "Z=1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Environ = %v, want %v", got, want)
	}
}

func TestIncludeDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, d := range []string{"libs/std/src", "libs/cubical/src", "libs/old/src", "src"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, filepath.Join(root, "libs", "README.src"), "not a directory")

	s := &Settings{
		Include: []string{"libs/**/src", "src", "src"},
		Exclude: []string{"libs/old/**"},
	}
	dirs, err := s.IncludeDirs(root)
	if err != nil {
		t.Fatalf("IncludeDirs: %v", err)
	}
	want := []string{
		filepath.Join(root, "libs", "cubical", "src"),
		filepath.Join(root, "libs", "std", "src"),
		filepath.Join(root, "src"),
	}
	if !reflect.DeepEqual(dirs, want) {
		t.Errorf("dirs = %v\nwant %v", dirs, want)
	}

	flags, err := s.LoadFlags(root)
	if err != nil {
		t.Fatalf("LoadFlags: %v", err)
	}
	if len(flags) != 6 || flags[0] != "-i" || flags[1] != want[0] {
		t.Errorf("flags = %v", flags)
	}
}

func TestIncludeDirs_InvalidPattern(t *testing.T) {
	t.Parallel()

	s := &Settings{Include: []string{"libs/[unclosed"}}
	if _, err := s.IncludeDirs(t.TempDir()); err == nil {
		t.Error("expected invalid pattern error")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
