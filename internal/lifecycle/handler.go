// Package lifecycle wraps CLI command execution. It handles timing, history
// recording and notification dispatch so commands only supply their work.
//
// The lifecycle package is intentionally minimal: no event bus, no goroutines.
// Each wrapper captures the start time, runs the function, then records the
// outcome and calls the matching notification method.
package lifecycle

// NotificationHandler defines the interface for notification dispatch.
// This interface is satisfied by *notify.Handler.
type NotificationHandler interface {
	// OnComplete is called when a command finishes without error.
	OnComplete(subject string)

	// OnAbort is called when a command stops before doing any work.
	OnAbort(reason string)

	// OnError is called when a command fails.
	OnError(name string, err error)
}
