package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/termtasks/internal/utils"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "TERMTASKS_"

// loadFromEnv overrides config from environment variables. If sources is
// non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(name, field string, target *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*target = v
			set(field)
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*target = utils.BoolFromString(v)
			set(field)
		}
	}

	str("FILE", "tasks_file", &cfg.TasksFile)
	str("LOG_DIR", "log_dir", &cfg.LogDir)
	str("LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("LOG_CALLER", "log_caller", &cfg.LogCaller)
	boolean("SOUND", "sound", &cfg.Sound)
	boolean("NOTIFY", "notify", &cfg.Notify)
	boolean("BOOT", "boot_screen", &cfg.BootScreen)
	boolean("ANIMATIONS", "animations", &cfg.Animations)
	str("FILTER", "default_filter", &cfg.DefaultFilter)
	str("HOOK", "hook_command", &cfg.HookCommand)

	if v := os.Getenv(EnvPrefix + "HOOK_TIMEOUT"); v != "" {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sHOOK_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.HookTimeoutSeconds = i
		set("hook_timeout_seconds")
	}
	return nil
}
