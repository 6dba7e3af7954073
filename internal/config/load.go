package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/nibzard/termtasks/internal/logging"
	"github.com/nibzard/termtasks/internal/query"
)

// LoadWithSources loads configuration from multiple sources in priority
// order and tracks the source of each value:
// 1. Defaults
// 2. User config file (~/.termtasks/termtasks.toml or OS-specific config dir)
// 3. Project config file (termtasks.toml or .termtasks.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}
	var files []string

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, err
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"tasks_file",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"sound",
		"notify",
		"boot_screen",
		"animations",
		"default_filter",
		"hook_command",
		"hook_timeout_seconds",
		"theme.accent",
		"theme.dim",
		"theme.border",
		"theme.card",
		"theme.high",
		"theme.med",
		"theme.low",
	}
}

// loadConfigFile decodes a TOML file over cfg. Only keys present in the file
// change, and each of them is attributed to source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if sources == nil {
		return nil
	}
	for _, key := range md.Keys() {
		name := key.String()
		if _, ok := sources[name]; ok {
			sources[name] = source
		}
	}
	return nil
}

// finalizeConfig expands paths and validates values.
func finalizeConfig(cfg *Config) error {
	cfg.TasksFile = expandPath(cfg.TasksFile)
	cfg.LogDir = expandPath(cfg.LogDir)

	if cfg.TasksFile == "" {
		return errors.New("tasks_file is empty")
	}
	if !filepath.IsAbs(cfg.TasksFile) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.TasksFile = filepath.Join(wd, cfg.TasksFile)
	}

	return Validate(cfg)
}

// Validate checks values that cannot be repaired silently.
func Validate(cfg *Config) error {
	var errs []error
	if !logging.ValidLevel(cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q: must be one of debug, info, warn, error", cfg.LogLevel))
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format %q: must be one of text, json, logfmt", cfg.LogFormat))
	}
	if _, err := query.ParseKind(cfg.DefaultFilter); err != nil {
		errs = append(errs, fmt.Errorf("default_filter: %w", err))
	}
	if cfg.HookTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("hook_timeout_seconds %d: must not be negative", cfg.HookTimeoutSeconds))
	}
	for _, c := range []struct{ key, value string }{
		{"theme.accent", cfg.Theme.Accent},
		{"theme.dim", cfg.Theme.Dim},
		{"theme.border", cfg.Theme.Border},
		{"theme.card", cfg.Theme.Card},
		{"theme.high", cfg.Theme.High},
		{"theme.med", cfg.Theme.Med},
		{"theme.low", cfg.Theme.Low},
	} {
		if _, err := colorful.Hex(c.value); err != nil {
			errs = append(errs, fmt.Errorf("%s %q: want #RRGGBB", c.key, c.value))
		}
	}
	return errors.Join(errs...)
}
