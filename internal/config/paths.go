package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/autochangelog/config.yml
// - macOS: ~/Library/Application Support/autochangelog/config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autochangelog"), nil
}

// ProjectConfigPath returns the project-level config file path, relative to
// the project directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.yml")
}

// ProjectConfigDir returns the project-level config directory name.
func ProjectConfigDir() string {
	return ".autochangelog"
}

// LegacyUserConfigPath returns the path to the legacy user-level JSON config file.
func LegacyUserConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".autochangelog", "config.json"), nil
}

// LegacyProjectConfigPath returns the legacy project-level JSON config file
// path, relative to the project directory.
func LegacyProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.json")
}
