package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariel-frischer/autochangelog/internal/git"
)

var (
	// ErrEmptyMessage is returned when no commit message was supplied.
	// No git command has run when this is returned.
	ErrEmptyMessage = errors.New("commit message is required")

	// ErrNoWorkspace is returned when the working directory cannot be
	// resolved to a git work tree.
	ErrNoWorkspace = errors.New("no workspace: directory is not inside a git repository")

	// ErrNothingStaged is returned when there is nothing to commit and empty
	// commits were not requested.
	ErrNothingStaged = errors.New("nothing to commit: no changes staged")
)

// TimeoutError represents a git step that exceeded the command timeout.
type TimeoutError struct {
	Timeout time.Duration // The timeout duration that was exceeded
	Step    Step          // The step that timed out
	Err     error         // Underlying error (context.DeadlineExceeded)
}

// Error returns a human-readable error message with timeout details
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v (hint: increase command_timeout in config)", e.Step, e.Timeout)
}

// Unwrap returns the underlying error for errors.Is/As compatibility
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a new TimeoutError with the given details
func NewTimeoutError(timeout time.Duration, step Step) *TimeoutError {
	return &TimeoutError{
		Timeout: timeout,
		Step:    step,
		Err:     context.DeadlineExceeded,
	}
}

// StepError reports a failure before the code commit was created. The
// repository holds no new commits and the changelog was not touched, although
// changes may have been staged.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ExitCode returns the git exit code behind the failure, or -1 when the
// failure did not come from a git process.
func (e *StepError) ExitCode() int {
	return exitCodeOf(e.Err)
}

// PartialUpdateError reports a failure after the code commit succeeded. The
// repository contains CodeCommit but the changelog entry was not committed;
// depending on Step the document may or may not have been written.
type PartialUpdateError struct {
	Step          Step
	CodeCommit    string
	ChangelogPath string
	Err           error
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("repository partially updated: changes committed as %s but %s failed: %v",
		git.ShortHash(e.CodeCommit), e.Step, e.Err)
}

func (e *PartialUpdateError) Unwrap() error {
	return e.Err
}

// DocumentWritten reports whether the changelog file already holds the new
// entry even though it was not committed.
func (e *PartialUpdateError) DocumentWritten() bool {
	return e.Step != StepWriteChangelog
}

// ExitCode returns the git exit code behind the failure, or -1 when the
// failure did not come from a git process.
func (e *PartialUpdateError) ExitCode() int {
	return exitCodeOf(e.Err)
}

func exitCodeOf(err error) int {
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return -1
}
