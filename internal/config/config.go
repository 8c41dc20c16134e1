// ABOUTME: Settings loading with global + project config merge
// ABOUTME: YAML configuration via gopkg.in/yaml.v3; CLI flags are applied on top by the caller

package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the merged configuration.
type Settings struct {
	// Agda is the executable to launch; "agda" on PATH when empty.
	Agda string `yaml:"agda,omitempty"`
	// Args replaces the default --interaction-json arguments.
	Args []string `yaml:"args,omitempty"`
	// Include globs name library directories passed as -i to every load.
	Include []string `yaml:"include,omitempty"`
	// Exclude globs drop directories matched by Include.
	Exclude []string `yaml:"exclude,omitempty"`

	// Theme is "dark" (default) or "light" and picks rich-mode colors.
	Theme string `yaml:"theme,omitempty"`

	Plain          bool `yaml:"plain,omitempty"`
	Verbose        bool `yaml:"verbose,omitempty"`
	DebugCommands  bool `yaml:"debug_commands,omitempty"`
	DebugResponses bool `yaml:"debug_responses,omitempty"`

	ResponseTimeout time.Duration `yaml:"response_timeout,omitempty"`
	AbortTimeout    time.Duration `yaml:"abort_timeout,omitempty"`

	// Transcript is a JSONL file receiving every command and response line.
	Transcript string `yaml:"transcript,omitempty"`
	// Env is added to Agda's environment.
	Env map[string]string `yaml:"env,omitempty"`
}

// DefaultAgda is the executable used when none is configured.
const DefaultAgda = "agda"

// Load reads and merges global and project-local settings.
// Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(global, project)
	ResolveEnvVars(merged)
	if merged.Agda == "" {
		merged.Agda = DefaultAgda
	}
	return merged, nil
}

// loadFile reads a Settings from a YAML file. Returns zero Settings if file
// does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays project settings onto global settings.
// Non-zero project values override global values; list fields are replaced.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global

	if project.Agda != "" {
		result.Agda = project.Agda
	}
	if len(project.Args) > 0 {
		result.Args = project.Args
	}
	if len(project.Include) > 0 {
		result.Include = project.Include
	}
	if len(project.Exclude) > 0 {
		result.Exclude = project.Exclude
	}
	if project.Theme != "" {
		result.Theme = project.Theme
	}
	if project.Plain {
		result.Plain = true
	}
	if project.Verbose {
		result.Verbose = true
	}
	if project.DebugCommands {
		result.DebugCommands = true
	}
	if project.DebugResponses {
		result.DebugResponses = true
	}
	if project.ResponseTimeout != 0 {
		result.ResponseTimeout = project.ResponseTimeout
	}
	if project.AbortTimeout != 0 {
		result.AbortTimeout = project.AbortTimeout
	}
	if project.Transcript != "" {
		result.Transcript = project.Transcript
	}

	// Merge env maps
	if len(project.Env) > 0 {
		env := make(map[string]string, len(result.Env)+len(project.Env))
		for k, v := range result.Env {
			env[k] = v
		}
		for k, v := range project.Env {
			env[k] = v
		}
		result.Env = env
	}

	return &result
}

// Environ returns base extended with the configured Env entries, or nil when
// there are none so the child inherits the parent environment unchanged.
func (s *Settings) Environ(base []string) []string {
	if len(s.Env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := append([]string(nil), base...)
	for _, k := range keys {
		out = append(out, k+"="+s.Env[k])
	}
	return out
}
