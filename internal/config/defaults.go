package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# autochangelog configuration
# See 'autochangelog config keys' for all options

changelog_path: CHANGELOG.md          # Changelog document, relative to the repository root
git_command: git                      # git invocation (split shell-style)
command_timeout: 30s                  # Timeout per git step (0 = no timeout)
allow_empty: false                    # Commit and log even when nothing is staged
skip_prompts: false                   # Never prompt for a message or description

# History settings
state_dir: ~/.autochangelog/state     # Directory for history and state files
max_history_entries: 500              # Max history entries to retain

# Notifications (macOS and Linux)
notifications:
  enabled: false                      # Enable notifications (opt-in)
  type: visual                        # sound | visual | both
  sound_file: ""                      # Custom sound file path (empty = system default)
  on_abort: true                      # Notify when a run is aborted
  on_complete: true                   # Notify when the changelog commit lands
  on_error: true                      # Notify on failures
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog_path":      "CHANGELOG.md",
		"git_command":         "git",
		"command_timeout":     (30 * time.Second).String(),
		"allow_empty":         false,
		"skip_prompts":        false,
		"state_dir":           "~/.autochangelog/state",
		"max_history_entries": 500,
		// notifications: disabled by default (opt-in).
		"notifications": map[string]interface{}{
			"enabled":     false,
			"type":        "visual",
			"sound_file":  "",
			"on_abort":    true,
			"on_complete": true,
			"on_error":    true,
		},
	}
}
