// Package notify sends desktop notifications when a commit run completes,
// is aborted or fails.
package notify

// NotificationType represents the type of notification event
type NotificationType string

const (
	// TypeSuccess indicates a successful operation
	TypeSuccess NotificationType = "success"
	// TypeFailure indicates a failed operation
	TypeFailure NotificationType = "failure"
	// TypeInfo indicates an informational notification
	TypeInfo NotificationType = "info"
)

// OutputType represents the notification output type
type OutputType string

const (
	// OutputSound sends only an audible notification
	OutputSound OutputType = "sound"
	// OutputVisual sends only a visual notification
	OutputVisual OutputType = "visual"
	// OutputBoth sends both sound and visual notifications
	OutputBoth OutputType = "both"
)

// ValidOutputType checks if the given string is a valid output type
func ValidOutputType(s string) bool {
	switch OutputType(s) {
	case OutputSound, OutputVisual, OutputBoth:
		return true
	default:
		return false
	}
}

// NotificationConfig holds user preferences for notification behavior.
// Configuration is loaded from the config hierarchy (env > project > user > defaults).
type NotificationConfig struct {
	// Enabled is the master switch for all notifications (default: false, opt-in)
	Enabled bool `koanf:"enabled" yaml:"enabled" json:"enabled"`

	// Type specifies the notification output type: sound, visual, or both (default: visual)
	Type OutputType `koanf:"type" yaml:"type" json:"type" validate:"omitempty,oneof=sound visual both"`

	// SoundFile is an optional custom sound file path
	SoundFile string `koanf:"sound_file" yaml:"sound_file" json:"sound_file"`

	// OnAbort notifies when a run is cancelled before anything is committed (default: true)
	OnAbort bool `koanf:"on_abort" yaml:"on_abort" json:"on_abort"`

	// OnComplete notifies when the changelog commit lands (default: true)
	OnComplete bool `koanf:"on_complete" yaml:"on_complete" json:"on_complete"`

	// OnError notifies when any step fails (default: true)
	OnError bool `koanf:"on_error" yaml:"on_error" json:"on_error"`
}

// DefaultConfig returns a NotificationConfig with default values
func DefaultConfig() NotificationConfig {
	return NotificationConfig{
		Enabled:    false,
		Type:       OutputVisual,
		OnAbort:    true,
		OnComplete: true,
		OnError:    true,
	}
}

// Notification represents a single notification event to dispatch
type Notification struct {
	Title            string
	Message          string
	NotificationType NotificationType
}

// NewNotification creates a new Notification with the given parameters
func NewNotification(title, message string, notificationType NotificationType) Notification {
	return Notification{
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
	}
}
