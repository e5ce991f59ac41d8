// Package config resolves kathe's file locations and loads its TOML config.
package config

import (
	"os"
	"path/filepath"
)

const appName = "kathe"

// Environment variables that point kathe at explicit files.
const (
	ConfigEnv    = "KATHE_CONFIG"
	HistoryDBEnv = "KATHE_HISTORY_DB"
)

// DefaultConfigPath returns the TOML config path: $KATHE_CONFIG if set,
// otherwise kathe/config.toml under the XDG config home.
func DefaultConfigPath() string {
	if v := os.Getenv(ConfigEnv); v != "" {
		return v
	}
	return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), appName, "config.toml")
}

// DefaultDBPath returns the run history database path: $KATHE_HISTORY_DB if
// set, otherwise kathe/history.db under the XDG data home.
func DefaultDBPath() string {
	if v := os.Getenv(HistoryDBEnv); v != "" {
		return v
	}
	return filepath.Join(baseDir("XDG_DATA_HOME", ".local", "share"), appName, "history.db")
}

// baseDir reads an XDG base directory variable. Relative values are invalid
// under the XDG rules and fall back to the home-relative default.
func baseDir(env string, fallback ...string) string {
	if v := os.Getenv(env); filepath.IsAbs(v) {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}
