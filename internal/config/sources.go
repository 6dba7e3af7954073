package config

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// Value returns the effective value of a config field as a string.
func (c *Config) Value(field string) string {
	switch field {
	case "tasks_file":
		return c.TasksFile
	case "log_dir":
		return c.LogDir
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	case "sound":
		return strconv.FormatBool(c.Sound)
	case "notify":
		return strconv.FormatBool(c.Notify)
	case "boot_screen":
		return strconv.FormatBool(c.BootScreen)
	case "animations":
		return strconv.FormatBool(c.Animations)
	case "default_filter":
		return c.DefaultFilter
	case "hook_command":
		return c.HookCommand
	case "hook_timeout_seconds":
		return strconv.Itoa(c.HookTimeoutSeconds)
	case "theme.accent":
		return c.Theme.Accent
	case "theme.dim":
		return c.Theme.Dim
	case "theme.border":
		return c.Theme.Border
	case "theme.card":
		return c.Theme.Card
	case "theme.high":
		return c.Theme.High
	case "theme.med":
		return c.Theme.Med
	case "theme.low":
		return c.Theme.Low
	}
	return ""
}

// Source returns where field got its value, or SourceDefault.
func (cws *ConfigWithSources) Source(field string) ConfigSource {
	if s, ok := cws.Sources[field]; ok {
		return s
	}
	return SourceDefault
}

// GetConfigFile returns the config file with the highest precedence that
// was read, or "" when none was.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// Print writes every field with its effective value and source.
func (cws *ConfigWithSources) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, field := range configFields() {
		value := cws.Config.Value(field)
		if value == "" {
			value = `""`
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t(%s)\n", field, value, cws.Source(field)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
