// Package config provides hierarchical configuration management for autochangelog using koanf.
// Configuration is loaded with priority: environment variables > project config
// (.autochangelog/config.yml) > user config (~/.config/autochangelog/config.yml) > defaults.
// Legacy JSON project and user files are still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariel-frischer/autochangelog/internal/notify"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read as configuration.
const EnvPrefix = "AUTOCHANGELOG_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the autochangelog configuration
type Configuration struct {
	// ChangelogPath is the document location, relative to the repository root
	// unless absolute. Default: CHANGELOG.md.
	ChangelogPath string `koanf:"changelog_path" yaml:"changelog_path" json:"changelog_path" validate:"required"`

	// GitCommand is the git invocation, split shell-style into argv.
	// Example: "git -c core.hooksPath=/dev/null"
	GitCommand string `koanf:"git_command" yaml:"git_command" json:"git_command" validate:"required"`

	// CommandTimeout bounds each git step. Zero disables the timeout.
	CommandTimeout time.Duration `koanf:"command_timeout" yaml:"command_timeout" json:"command_timeout" validate:"min=0"`

	AllowEmpty  bool   `koanf:"allow_empty" yaml:"allow_empty" json:"allow_empty"`
	SkipPrompts bool   `koanf:"skip_prompts" yaml:"skip_prompts" json:"skip_prompts"` // Can also be set via AUTOCHANGELOG_YES
	StateDir    string `koanf:"state_dir" yaml:"state_dir" json:"state_dir" validate:"required"`

	// MaxHistoryEntries sets the maximum number of history entries to retain.
	// Oldest entries are pruned when this limit is exceeded.
	MaxHistoryEntries int `koanf:"max_history_entries" yaml:"max_history_entries" json:"max_history_entries" validate:"min=0"`

	// Notifications configures desktop notifications for completed, aborted
	// and failed runs. Environment variable support via AUTOCHANGELOG_NOTIFICATIONS_*.
	Notifications notify.NotificationConfig `koanf:"notifications" yaml:"notifications" json:"notifications"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is the directory holding .autochangelog/ (default: current directory)
	ProjectDir string
	// ProjectConfigPath overrides the project config path
	ProjectConfigPath string
	// UserConfigPath overrides the user config path
	UserConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k, err := loadKoanf(opts)
	if err != nil {
		return nil, err
	}
	return finalizeConfig(k)
}

// LoadSources returns the source of every known key after loading with opts.
func LoadSources(opts LoadOptions) (map[string]ConfigSource, error) {
	opts.SkipWarnings = true
	sources := make(map[string]ConfigSource, len(KnownKeys))
	for key := range KnownKeys {
		sources[key] = SourceDefault
	}

	layers := []struct {
		source ConfigSource
		load   func(k *koanf.Koanf) error
	}{
		{SourceUser, func(k *koanf.Koanf) error { return loadUserConfig(k, opts) }},
		{SourceProject, func(k *koanf.Koanf) error { return loadProjectConfig(k, opts) }},
		{SourceEnv, loadEnvironmentConfig},
	}
	for _, layer := range layers {
		k := koanf.New(".")
		if err := layer.load(k); err != nil {
			return nil, err
		}
		for _, key := range k.Keys() {
			if _, known := sources[key]; known {
				sources[key] = layer.source
			}
		}
	}
	return sources, nil
}

func loadKoanf(opts LoadOptions) (*koanf.Koanf, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadUserConfig(k, opts); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return k, nil
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads user-level config (YAML preferred, legacy JSON supported).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadUserConfig(k *koanf.Koanf, opts LoadOptions) error {
	userYAMLPath := opts.UserConfigPath
	legacyUserPath := ""
	if userYAMLPath == "" {
		userYAMLPath, _ = UserConfigPath()
		legacyUserPath, _ = LegacyUserConfigPath()
	}

	return loadLayer(k, userYAMLPath, legacyUserPath, "user", "--user", opts)
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
// Same priority/warning logic as loadUserConfig.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions) error {
	projectYAMLPath := filepath.Join(opts.ProjectDir, ProjectConfigPath())
	if opts.ProjectConfigPath != "" {
		projectYAMLPath = opts.ProjectConfigPath
	}
	legacyProjectPath := filepath.Join(opts.ProjectDir, LegacyProjectConfigPath())

	return loadLayer(k, projectYAMLPath, legacyProjectPath, "project", "--project", opts)
}

func loadLayer(k *koanf.Koanf, yamlPath, legacyPath, configType, migrateFlag string, opts LoadOptions) error {
	warningWriter := getWarningWriter(opts.WarningWriter)
	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	if yamlExists {
		if err := loadYAMLConfig(k, yamlPath, configType); err != nil {
			return fmt.Errorf("loading %s YAML config: %w", configType, err)
		}
		if legacyExists && !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
			fmt.Fprintf(warningWriter, "  Run 'autochangelog config migrate %s' to remove the legacy file.\n\n", migrateFlag)
		}
		return nil
	}

	if legacyExists {
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy %s config %s: %w", configType, legacyPath, err)
		}
		if !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Run 'autochangelog config migrate %s' to migrate to YAML format.\n\n", migrateFlag)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)

	if os.Getenv(EnvPrefix+"YES") != "" {
		cfg.SkipPrompts = true
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: AUTOCHANGELOG_COMMAND_TIMEOUT -> command_timeout,
// AUTOCHANGELOG_NOTIFICATIONS_ON_ERROR -> notifications.on_error
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "notifications_"); ok {
		return "notifications." + rest
	}
	return key
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
