package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// DefaultCommand is the git invocation used when none is configured.
const DefaultCommand = "git"

// ErrCommandFailed matches every *CommandError via errors.Is.
var ErrCommandFailed = errors.New("git command failed")

// CommandError describes a git invocation that did not exit cleanly.
// Stdout and Stderr hold whatever the process wrote before it failed.
type CommandError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	op := "git"
	if len(e.Args) > 0 {
		op = "git " + e.Args[0]
	}
	msg := fmt.Sprintf("%s exited with code %d", op, e.ExitCode)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	} else if e.Err != nil && e.ExitCode < 0 {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCommandFailed.
func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

// Runner executes a git subcommand in a working directory and returns stdout.
// Implementations must return a *CommandError when the process fails.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs git through os/exec.
type ExecRunner struct {
	command []string
}

// NewExecRunner builds a runner from a command line such as
// "git -c core.quotepath=off". An empty command selects DefaultCommand.
func NewExecRunner(command string) (*ExecRunner, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}

	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parsing git command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("parsing git command %q: empty command", command)
	}

	return &ExecRunner{command: argv}, nil
}

// Command returns the argv prefix used for every invocation.
func (r *ExecRunner) Command() []string {
	return append([]string(nil), r.command...)
}

// Available reports whether the configured executable can be found.
func (r *ExecRunner) Available() bool {
	_, err := exec.LookPath(r.command[0])
	return err == nil
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	argv := append(r.command[1:len(r.command):len(r.command)], args...)
	cmd := exec.CommandContext(ctx, r.command[0], argv...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logDebug("[git] running %s %s (dir=%s)", r.command[0], strings.Join(argv, " "), dir)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		logDebug("[git] %s: Error <%d>", strings.Join(args, " "), exitCode)
		return stdout.String(), &CommandError{
			Args:     args,
			ExitCode: exitCode,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	return stdout.String(), nil
}
