package config

import (
	"flag"
)

// flagFields maps flag names to config field names.
var flagFields = map[string]string{
	"file":           "tasks_file",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"sound":          "sound",
	"notify":         "notify",
	"boot":           "boot_screen",
	"animations":     "animations",
	"filter":         "default_filter",
	"hook":           "hook_command",
	"hook-timeout":   "hook_timeout_seconds",
}

// parseFlags defines the global flags on fs, parses args and applies the
// flags that were set. If sources is non-nil, it tracks the source of each
// value. Remaining arguments stay available via fs.Args().
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("termtasks", flag.ContinueOnError)
	}

	// Bind to copies so only flags that were set override earlier layers.
	v := *cfg
	fs.StringVar(&v.TasksFile, "file", cfg.TasksFile, "Path to tasks file")
	fs.StringVar(&v.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&v.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&v.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&v.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.BoolVar(&v.Sound, "sound", cfg.Sound, "Play sound cues")
	fs.BoolVar(&v.Notify, "notify", cfg.Notify, "Show desktop notifications")
	fs.BoolVar(&v.BootScreen, "boot", cfg.BootScreen, "Show the boot screen")
	fs.BoolVar(&v.Animations, "animations", cfg.Animations, "Animate priority borders")
	fs.StringVar(&v.DefaultFilter, "filter", cfg.DefaultFilter, "Initial filter (all, pending, completed, high, overdue)")
	fs.StringVar(&v.HookCommand, "hook", cfg.HookCommand, "Hook command to run after each change")
	fs.IntVar(&v.HookTimeoutSeconds, "hook-timeout", cfg.HookTimeoutSeconds, "Hook timeout (seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagFields[f.Name]
		if !ok {
			return
		}
		applyField(cfg, &v, field)
		if sources != nil {
			sources[field] = SourceFlag
		}
	})
	return nil
}

// applyField copies one field from src to dst.
func applyField(dst, src *Config, field string) {
	switch field {
	case "tasks_file":
		dst.TasksFile = src.TasksFile
	case "log_dir":
		dst.LogDir = src.LogDir
	case "log_level":
		dst.LogLevel = src.LogLevel
	case "log_format":
		dst.LogFormat = src.LogFormat
	case "log_timestamps":
		dst.LogTimestamps = src.LogTimestamps
	case "log_caller":
		dst.LogCaller = src.LogCaller
	case "sound":
		dst.Sound = src.Sound
	case "notify":
		dst.Notify = src.Notify
	case "boot_screen":
		dst.BootScreen = src.BootScreen
	case "animations":
		dst.Animations = src.Animations
	case "default_filter":
		dst.DefaultFilter = src.DefaultFilter
	case "hook_command":
		dst.HookCommand = src.HookCommand
	case "hook_timeout_seconds":
		dst.HookTimeoutSeconds = src.HookTimeoutSeconds
	}
}
