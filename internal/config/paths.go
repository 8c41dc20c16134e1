// ABOUTME: Standard filesystem paths for agda-tac configuration
// ABOUTME: Resolves ~/.agda-tac/ for global and .agda-tac/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".agda-tac"
	projectDirName = ".agda-tac"
	configFileName = "config.yaml"
)

// GlobalDir returns the user-global config directory (~/.agda-tac/).
func GlobalDir() string {
	if dir := os.Getenv("AGDA_TAC_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.agda-tac/ in root).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), configFileName)
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), configFileName)
}

// TranscriptsDir is where relative transcript paths are placed.
func TranscriptsDir() string {
	return filepath.Join(GlobalDir(), "transcripts")
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
