// Package appdir provides constants and utilities for the .termtasks directory structure.
package appdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the termtasks state directory.
	Dir = ".termtasks"

	// DefaultTasksFile is the default task file name (inside .termtasks).
	DefaultTasksFile = "tasks.json"

	// DefaultConfigFile is the default config file name (inside .termtasks).
	DefaultConfigFile = "termtasks.toml"

	// DefaultLogFile is the log file name written inside the log directory.
	DefaultLogFile = "termtasks.log"
)

// TasksPath returns the full path to the task file within a base directory.
func TasksPath(baseDir string) string {
	return joinPath(baseDir, DefaultTasksFile)
}

// ConfigPath returns the full path to the config file within a base directory.
func ConfigPath(baseDir string) string {
	return joinPath(baseDir, DefaultConfigFile)
}

// DirPath returns the full path to the .termtasks directory within a base directory.
func DirPath(baseDir string) string {
	if baseDir == "." || baseDir == "" {
		return Dir
	}
	return filepath.Join(baseDir, Dir)
}

// HomeDir returns ~/.termtasks, or .termtasks when the home directory
// cannot be determined.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// LogPath returns the log file path inside logDir.
func LogPath(logDir string) string {
	return filepath.Join(logDir, DefaultLogFile)
}

func joinPath(baseDir, file string) string {
	return filepath.Join(DirPath(baseDir), file)
}
