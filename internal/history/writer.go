package history

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Writer provides thread-safe history logging with automatic pruning.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain (0 = unlimited).
	MaxEntries int
	// Warnings receives non-fatal logging failures (default: os.Stderr).
	Warnings io.Writer

	mu sync.Mutex
}

// NewWriter creates a new history writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
	}
}

// LogEntry adds a new entry to the history file.
// It loads the existing history, appends the new entry, prunes if needed, and saves.
// Errors are non-fatal: they are written as a warning and don't cause command failures.
func (w *Writer) LogEntry(entry HistoryEntry) {
	if err := w.logEntryInternal(entry); err != nil {
		out := w.Warnings
		if out == nil {
			out = os.Stderr
		}
		fmt.Fprintf(out, "Warning: failed to log history: %v\n", err)
	}
}

// logEntryInternal handles the actual logging logic.
func (w *Writer) logEntryInternal(entry HistoryEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)

	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	return nil
}

// LogCommand is a convenience method to log a command execution.
func (w *Writer) LogCommand(command, subject string, exitCode int, duration time.Duration) {
	status := StatusCompleted
	if exitCode != 0 {
		status = StatusFailed
	}
	w.LogEntry(HistoryEntry{
		Timestamp: time.Now(),
		Command:   command,
		Subject:   subject,
		Status:    status,
		ExitCode:  exitCode,
		Duration:  duration.String(),
	})
}

// Filter returns entries matching command (all when empty), keeping only the
// most recent limit entries when limit > 0. Order is preserved.
func Filter(entries []HistoryEntry, command string, limit int) []HistoryEntry {
	var result []HistoryEntry
	for _, entry := range entries {
		if command == "" || entry.Command == command {
			result = append(result, entry)
		}
	}

	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}
