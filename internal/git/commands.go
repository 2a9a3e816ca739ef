package git

import (
	"context"
	"strings"
)

// StageAll stages every change in the work tree, including deletions and
// untracked files (git add -A).
func StageAll(ctx context.Context, r Runner, dir string) error {
	_, err := r.Run(ctx, dir, "add", "-A")
	return err
}

// StagedDiff returns the unfiltered output of git diff --cached.
func StagedDiff(ctx context.Context, r Runner, dir string) (string, error) {
	return r.Run(ctx, dir, "diff", "--cached", "--no-color")
}

// Commit records the staged changes with message. The message is passed as a
// single argument so no shell quoting is involved.
func Commit(ctx context.Context, r Runner, dir, message string, allowEmpty bool) (string, error) {
	args := []string{"commit", "-m", message}
	if allowEmpty {
		args = append(args, "--allow-empty")
	}
	out, err := r.Run(ctx, dir, args...)
	return strings.TrimSpace(out), err
}

// CommitterEmail returns the configured user.email for dir.
func CommitterEmail(ctx context.Context, r Runner, dir string) (string, error) {
	out, err := r.Run(ctx, dir, "config", "user.email")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
