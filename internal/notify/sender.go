package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

// Sender defines the interface for platform-specific notification senders
type Sender interface {
	// SendVisual sends a visual notification to the OS notification system
	SendVisual(n Notification) error

	// SendSound plays an audio notification
	SendSound(soundFile string) error

	// VisualAvailable returns true if visual notifications are supported
	VisualAvailable() bool

	// SoundAvailable returns true if sound notifications are supported
	SoundAvailable() bool
}

// NewSender creates a platform-specific notification sender based on the current OS.
// For unsupported platforms, it returns a no-op sender.
func NewSender() Sender {
	switch runtime.GOOS {
	case "darwin":
		return &darwinSender{}
	case "linux":
		return &linuxSender{}
	default:
		return &noopSender{}
	}
}

// Platform returns the current operating system name
func Platform() string {
	return runtime.GOOS
}

// toolAvailable checks if a command-line tool is available in PATH
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// linuxSender uses notify-send and paplay.
type linuxSender struct{}

func (s *linuxSender) SendVisual(n Notification) error {
	if !s.VisualAvailable() {
		return fmt.Errorf("notify-send not found in PATH")
	}
	urgency := "normal"
	if n.NotificationType == TypeFailure {
		urgency = "critical"
	}
	return exec.Command("notify-send", "--urgency="+urgency, "--app-name=autochangelog", n.Title, n.Message).Run()
}

func (s *linuxSender) SendSound(soundFile string) error {
	if soundFile == "" {
		soundFile = "/usr/share/sounds/freedesktop/stereo/complete.oga"
	}
	if !s.SoundAvailable() {
		return fmt.Errorf("paplay not found in PATH")
	}
	return exec.Command("paplay", soundFile).Run()
}

func (s *linuxSender) VisualAvailable() bool { return toolAvailable("notify-send") }
func (s *linuxSender) SoundAvailable() bool  { return toolAvailable("paplay") }

// darwinSender uses osascript and afplay.
type darwinSender struct{}

func (s *darwinSender) SendVisual(n Notification) error {
	script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(n.Message), strconv.Quote(n.Title))
	return exec.Command("osascript", "-e", script).Run()
}

func (s *darwinSender) SendSound(soundFile string) error {
	if soundFile == "" {
		soundFile = "/System/Library/Sounds/Glass.aiff"
	}
	return exec.Command("afplay", soundFile).Run()
}

func (s *darwinSender) VisualAvailable() bool { return toolAvailable("osascript") }
func (s *darwinSender) SoundAvailable() bool  { return toolAvailable("afplay") }

// noopSender is a sender that does nothing (for unsupported platforms)
type noopSender struct{}

func (s *noopSender) SendVisual(_ Notification) error { return nil }
func (s *noopSender) SendSound(_ string) error        { return nil }
func (s *noopSender) VisualAvailable() bool           { return false }
func (s *noopSender) SoundAvailable() bool            { return false }
