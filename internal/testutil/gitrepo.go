// Package testutil provides test utilities and helpers for autochangelog tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEmail is the user.email configured in repositories created by InitRepo.
const TestEmail = "test@example.com"

// RequireGit skips the test when no git binary is on PATH.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// InitRepo creates a temporary git repository with a configured committer
// and one initial commit. Returns the repository path.
func InitRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	dir := t.TempDir()
	RunGit(t, dir, "init", "-q")
	RunGit(t, dir, "config", "user.email", TestEmail)
	RunGit(t, dir, "config", "user.name", "Test User")
	RunGit(t, dir, "config", "commit.gpgsign", "false")

	WriteFile(t, dir, "README.md", "# test\n")
	RunGit(t, dir, "add", "-A")
	RunGit(t, dir, "commit", "-q", "-m", "initial")

	return dir
}

// RunGit executes git in dir and fails the test on error. Returns trimmed stdout.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

// WriteFile creates or replaces a file relative to dir, creating parents.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// CommitCount returns the number of commits reachable from HEAD.
func CommitCount(t *testing.T, dir string) int {
	t.Helper()
	n, err := strconv.Atoi(RunGit(t, dir, "rev-list", "--count", "HEAD"))
	require.NoError(t, err)
	return n
}

// CommitSubjects returns commit subjects newest first.
func CommitSubjects(t *testing.T, dir string) []string {
	t.Helper()
	return strings.Split(RunGit(t, dir, "log", "--format=%s"), "\n")
}
