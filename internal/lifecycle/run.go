package lifecycle

import (
	"context"
	"time"

	"github.com/ariel-frischer/autochangelog/internal/history"
)

// HistoryLogger is satisfied by *history.Writer.
type HistoryLogger interface {
	LogEntry(entry history.HistoryEntry)
}

// Classifier maps a command error to an exit code and a history status.
type Classifier func(err error) (exitCode int, status string)

// Wrapper runs commands with history and notifications. Nil fields are skipped.
type Wrapper struct {
	Notifier NotificationHandler
	History  HistoryLogger
	Classify Classifier
}

// RunWithHistoryContext runs fn and records the outcome. fn may fill in the
// subject, repository and commit fields of the entry it is handed.
func (w Wrapper) RunWithHistoryContext(ctx context.Context, command string, fn func(ctx context.Context, entry *history.HistoryEntry) error) error {
	start := time.Now()
	entry := history.HistoryEntry{Timestamp: start, Command: command}

	err := fn(ctx, &entry)

	exitCode, status := w.classify(err)
	entry.ExitCode = exitCode
	entry.Status = status
	entry.Duration = time.Since(start).Round(time.Millisecond).String()
	if err != nil {
		entry.Error = err.Error()
	}

	if w.History != nil {
		w.History.LogEntry(entry)
	}
	w.notify(command, entry, err)

	return err
}

func (w Wrapper) classify(err error) (int, string) {
	if w.Classify != nil {
		return w.Classify(err)
	}
	if err != nil {
		return 1, history.StatusFailed
	}
	return 0, history.StatusCompleted
}

func (w Wrapper) notify(command string, entry history.HistoryEntry, err error) {
	if w.Notifier == nil {
		return
	}
	switch entry.Status {
	case history.StatusCompleted:
		w.Notifier.OnComplete(entry.Subject)
	case history.StatusAborted:
		w.Notifier.OnAbort(entry.Error)
	default:
		w.Notifier.OnError(command, err)
	}
}
