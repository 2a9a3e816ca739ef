package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the autochangelog CLI.
// These templates keep wording and remediation consistent across commands.

// MissingCommitMessage creates an error for an absent or blank commit message.
func MissingCommitMessage() *CLIError {
	return NewArgumentErrorWithUsage(
		"commit message is required",
		"autochangelog commit \"<message>\"",
		"Pass the message as an argument or with -m",
		"Or run without arguments to be prompted for it",
	)
}

// NotARepository creates an error when the target directory is outside any git work tree.
func NotARepository(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no workspace: %s is not inside a git repository", dir),
		"Run autochangelog from inside a git work tree",
		"Or point it at one with --dir <path>",
		"Create a repository with: git init",
	)
}

// GitNotFound creates an error when the configured git executable is missing.
func GitNotFound(command []string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("git executable %q not found in PATH", command[0]),
		"Install git: https://git-scm.com/downloads",
		"Or set git_command in .autochangelog/config.yml",
	)
}

// NothingToCommit creates an error when the work tree has no changes.
func NothingToCommit() *CLIError {
	return NewArgumentError(
		"nothing to commit: no changes staged",
		"Make a change before committing",
		"Or pass --allow-empty to record an entry without changes",
	)
}

// StepFailed creates a runtime error for a failed git step before anything was committed.
func StepFailed(step string, err error) *CLIError {
	return WrapWithMessage(err, Runtime, step+" failed",
		"No commit was created; fix the problem above and run the command again",
		"Changes may remain staged; inspect them with: git status",
	)
}

// PartialUpdateFailed creates an error for a run whose code commit succeeded
// but whose changelog commit did not.
func PartialUpdateFailed(err error, codeCommit, changelogPath string, documentWritten bool) *CLIError {
	remediation := []string{
		"Your changes are committed; only the changelog commit is missing",
	}
	if documentWritten {
		remediation = append(remediation,
			fmt.Sprintf("The entry was written to %s; commit it with: git add -A && git commit", changelogPath))
	} else {
		remediation = append(remediation,
			fmt.Sprintf("The entry could not be written; check that %s is writable", changelogPath))
	}
	cliErr := Wrap(err, PartialUpdate, remediation...)
	if cliErr != nil {
		cliErr.Committed = codeCommit
	}
	return cliErr
}

// InvalidConfig creates a configuration error for a file that failed to load.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration, "invalid configuration",
		"Check the file named above for syntax errors",
		"Run 'autochangelog config keys' to list valid keys and types",
	)
}

// InvalidFlagCombination creates an error for mutually exclusive flags.
func InvalidFlagCombination(flags ...string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("flags %s cannot be used together", strings.Join(flags, " and ")),
		"Use only one of these flags",
	)
}

// UnknownConfigKey creates an error for a config key not in the registry.
func UnknownConfigKey(key string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown configuration key: %s", key),
		"Run 'autochangelog config keys' to list valid keys",
	)
}
