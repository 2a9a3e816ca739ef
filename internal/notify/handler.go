package notify

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/term"
)

const notificationTitle = "autochangelog"

// Handler manages notification dispatch based on configuration and hooks.
// It wraps a Sender with configuration and provides hook methods for
// completion, abort and error notifications.
type Handler struct {
	config      NotificationConfig
	sender      Sender
	startTime   time.Time
	interactive func() bool
}

// NewHandler creates a new notification handler with the given configuration.
// If notifications are disabled in config, the handler will no-op on all calls.
func NewHandler(config NotificationConfig) *Handler {
	return NewHandlerWithSender(config, NewSender())
}

// NewHandlerWithSender creates a handler with a custom sender (for testing).
func NewHandlerWithSender(config NotificationConfig, sender Sender) *Handler {
	return &Handler{
		config:      config,
		sender:      sender,
		startTime:   time.Now(),
		interactive: isInteractive,
	}
}

// SetStartTime updates the run start time used for duration reporting.
func (h *Handler) SetStartTime(t time.Time) {
	h.startTime = t
}

// Config returns the handler's notification configuration
func (h *Handler) Config() NotificationConfig {
	return h.config
}

// isEnabled checks if notifications should be sent.
// Returns false if notifications are disabled, running in CI, or non-interactive.
func (h *Handler) isEnabled() bool {
	if !h.config.Enabled {
		log.Printf("[notify] debug: notifications skipped - disabled in config")
		return false
	}

	if isCI() {
		log.Printf("[notify] debug: notifications skipped - running in CI environment")
		return false
	}

	if !h.interactive() {
		log.Printf("[notify] debug: notifications skipped - non-interactive session (no TTY)")
		return false
	}

	return true
}

// isCI checks for common CI environment variables.
func isCI() bool {
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
		"TF_BUILD",            // Azure DevOps
		"BITBUCKET_PIPELINES", // Bitbucket
		"CODEBUILD_BUILD_ID",  // AWS CodeBuild
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive checks if the session is interactive (has TTY).
// Checks stdout rather than stdin because the commit prompt may be fed
// through a pipe while output remains connected to the terminal.
func isInteractive() bool {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return true
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return true
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// dispatch sends a notification with a timeout.
// Notification failures are logged but do not fail the run.
func (h *Handler) dispatch(n Notification) {
	log.Printf("[notify] debug: dispatch called - title=%s message=%s notificationType=%v", n.Title, n.Message, n.NotificationType)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.sendNotification(n)
	}()

	select {
	case <-done:
		log.Printf("[notify] debug: dispatch - notification sent")
	case <-ctx.Done():
		log.Printf("[notify] debug: dispatch - timeout after 5s")
	}
}

// sendNotification sends the notification based on configured type
func (h *Handler) sendNotification(n Notification) {
	switch h.config.Type {
	case OutputSound:
		if err := h.sender.SendSound(h.config.SoundFile); err != nil {
			log.Printf("[notify] debug: SendSound error: %v", err)
		}
	case OutputVisual, "":
		if err := h.sender.SendVisual(n); err != nil {
			log.Printf("[notify] debug: SendVisual error: %v", err)
		}
	case OutputBoth:
		if err := h.sender.SendVisual(n); err != nil {
			log.Printf("[notify] debug: SendVisual error: %v", err)
		}
		if err := h.sender.SendSound(h.config.SoundFile); err != nil {
			log.Printf("[notify] debug: SendSound error: %v", err)
		}
	default:
		log.Printf("[notify] debug: unknown notification type: %v", h.config.Type)
	}
}

// OnComplete is called when both commits have been created.
func (h *Handler) OnComplete(message string) {
	if !h.isEnabled() || !h.config.OnComplete {
		return
	}

	n := NewNotification(
		notificationTitle,
		fmt.Sprintf("Changelog updated for %q (%s)", message, formatDuration(time.Since(h.startTime))),
		TypeSuccess,
	)
	h.dispatch(n)
}

// OnAbort is called when a run stops before any git command, for example
// because no commit message was entered.
func (h *Handler) OnAbort(reason string) {
	if !h.isEnabled() || !h.config.OnAbort {
		return
	}

	h.dispatch(NewNotification(notificationTitle, "Aborted: "+reason, TypeInfo))
}

// OnError is called when a step fails.
func (h *Handler) OnError(step string, err error) {
	if !h.isEnabled() || !h.config.OnError {
		return
	}

	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}

	n := NewNotification(
		notificationTitle,
		fmt.Sprintf("Error in '%s': %s", step, errMsg),
		TypeFailure,
	)
	h.dispatch(n)
}

// formatDuration formats a duration for display in notifications
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
