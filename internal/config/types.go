package config

import (
	"time"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, user file first.
	Files []string
}

// Default values.
const (
	DefaultTasksFile          = "~/.termtasks/tasks.json"
	DefaultLogDir             = "~/.termtasks"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultFilter             = "all"
	DefaultHookTimeoutSeconds = 5
)

// Config holds the full configuration for termtasks.
type Config struct {
	// Paths
	TasksFile string `toml:"tasks_file"`
	LogDir    string `toml:"log_dir"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Feedback
	Sound      bool `toml:"sound"`
	Notify     bool `toml:"notify"`
	BootScreen bool `toml:"boot_screen"`
	Animations bool `toml:"animations"`

	// Initial filter tab (all, pending, completed, high, overdue)
	DefaultFilter string `toml:"default_filter"`

	// Hooks
	HookCommand        string `toml:"hook_command"`
	HookTimeoutSeconds int    `toml:"hook_timeout_seconds"`

	Theme ThemeConfig `toml:"theme"`
}

// ThemeConfig holds the interface colours as #RRGGBB strings.
type ThemeConfig struct {
	Accent string `toml:"accent"`
	Dim    string `toml:"dim"`
	Border string `toml:"border"`
	Card   string `toml:"card"`
	High   string `toml:"high"`
	Med    string `toml:"med"`
	Low    string `toml:"low"`
}

// DefaultTheme returns the green-on-black palette.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		Accent: "#00FF41",
		Dim:    "#008F11",
		Border: "#003B00",
		Card:   "#050505",
		High:   "#FF0F55",
		Med:    "#FFB200",
		Low:    "#00E0FF",
	}
}

// HookTimeout returns the hook timeout as a duration.
func (c *Config) HookTimeout() time.Duration {
	if c.HookTimeoutSeconds <= 0 {
		return DefaultHookTimeoutSeconds * time.Second
	}
	return time.Duration(c.HookTimeoutSeconds) * time.Second
}
