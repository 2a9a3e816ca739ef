// Package history records every autochangelog invocation in a YAML file under
// the state directory so past runs can be listed with 'autochangelog history'.
package history

import "time"

// Status values stored in HistoryEntry.Status.
const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
	StatusAborted   = "aborted"
)

// HistoryEntry describes one invocation.
type HistoryEntry struct {
	// ID uniquely identifies the entry.
	ID        string    `yaml:"id"`
	Timestamp time.Time `yaml:"timestamp"`
	Command   string    `yaml:"command"`
	// Subject is the commit message for commit runs.
	Subject         string `yaml:"subject,omitempty"`
	Repository      string `yaml:"repository,omitempty"`
	CodeCommit      string `yaml:"code_commit,omitempty"`
	ChangelogCommit string `yaml:"changelog_commit,omitempty"`
	Status          string `yaml:"status"`
	ExitCode        int    `yaml:"exit_code"`
	Duration        string `yaml:"duration"`
	Error           string `yaml:"error,omitempty"`
}

// HistoryFile is the on-disk history document, oldest entry first.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}
