package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigExists is returned by WriteExample when the target already exists.
var ErrConfigExists = errors.New("config file already exists")

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# termtasks configuration file
# Values can be overridden by TERMTASKS_* environment variables or CLI flags

# Task file (supports ~ expansion and %VAR% on Windows)
tasks_file = "~/.termtasks/tasks.json"

# Log directory; the log is written to termtasks.log inside it
log_dir = "~/.termtasks"

# Logging: level (debug, info, warn, error), format (text, json, logfmt)
log_level = "info"
log_format = "text"
log_timestamps = true
log_caller = false

# Feedback
sound = true        # terminal bell cues
notify = true       # desktop notification for overdue tasks
boot_screen = true
animations = true   # pulse borders of prioritized and overdue tasks

# Initial filter: all, pending, completed, high, overdue
default_filter = "all"

# Command run after every change, with TERMTASKS_EVENT, TERMTASKS_TASK_ID,
# TERMTASKS_TASK_TEXT and TERMTASKS_FILE set
# hook_command = "/path/to/hook.sh"
hook_timeout_seconds = 5

[theme]
accent = "#00FF41"
dim = "#008F11"
border = "#003B00"
card = "#050505"
high = "#FF0F55"
med = "#FFB200"
low = "#00E0FF"
`
}

// WriteExample writes ExampleConfig to path unless a file is already there.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
