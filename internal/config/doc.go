// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.termtasks/termtasks.toml or OS-specific config directory)
// 3. Project config file (termtasks.toml or .termtasks.toml in the working directory)
// 4. Environment variables (TERMTASKS_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.termtasks/termtasks.toml (preferred)
// - Windows: %APPDATA%\termtasks\termtasks.toml
// - macOS: ~/Library/Application Support/termtasks/termtasks.toml
// - Linux/BSD: $XDG_CONFIG_HOME/termtasks/termtasks.toml or ~/.config/termtasks/termtasks.toml
//
// Project-level config locations (overrides user config):
// - ./termtasks.toml (preferred)
// - ./.termtasks.toml
package config
