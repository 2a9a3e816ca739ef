package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/ariel-frischer/autochangelog/internal/history"
	"github.com/ariel-frischer/autochangelog/internal/workflow"
)

// Exit codes for the autochangelog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure with nothing committed
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates the git binary or the repository is missing
	ExitMissingDependencies = 4

	// ExitTimeout indicates a git step exceeded command_timeout
	ExitTimeout = 5

	// ExitPartialUpdate indicates the code commit exists but the changelog commit does not
	ExitPartialUpdate = 6
)

// ExitError carries a process exit code through cobra. Its message has
// already been printed when it is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// classifyError maps a command error to an exit code and a history status.
func classifyError(err error) (int, string) {
	var (
		partial *workflow.PartialUpdateError
		timeout *workflow.TimeoutError
		cliErr  *clierrors.CLIError
	)
	switch {
	case err == nil:
		return ExitSuccess, history.StatusCompleted
	case errors.Is(err, workflow.ErrEmptyMessage):
		return ExitInvalidArguments, history.StatusAborted
	case errors.As(err, &partial):
		return ExitPartialUpdate, history.StatusPartial
	case errors.As(err, &timeout):
		return ExitTimeout, history.StatusFailed
	case errors.Is(err, workflow.ErrNoWorkspace):
		return ExitMissingDependencies, history.StatusFailed
	case errors.Is(err, workflow.ErrNothingStaged):
		return ExitInvalidArguments, history.StatusFailed
	case errors.As(err, &cliErr):
		return categoryExitCode(cliErr.Category), history.StatusFailed
	}
	return ExitFailure, history.StatusFailed
}

func categoryExitCode(c clierrors.ErrorCategory) int {
	switch c {
	case clierrors.Argument, clierrors.Configuration:
		return ExitInvalidArguments
	case clierrors.Prerequisite:
		return ExitMissingDependencies
	case clierrors.PartialUpdate:
		return ExitPartialUpdate
	}
	return ExitFailure
}
