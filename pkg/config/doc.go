// Package config loads trinity configuration with koanf.
//
// Sources are merged in order, later sources winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. user config: $XDG_CONFIG_HOME/trinity/config.toml
//  3. deployment config: <root>/.trinity.toml
//  4. environment: TRINITY_SDK_PATH, TRINITY_UPDATE_ASSUME_YES, ...
//  5. explicit overrides (command-line flags)
package config
