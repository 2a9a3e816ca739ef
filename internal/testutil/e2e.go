package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	// binaryPath caches the built autochangelog binary path.
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// E2EEnv provides an isolated environment for E2E testing: a freshly built
// binary, a private HOME and a git repository with one initial commit.
type E2EEnv struct {
	t       *testing.T
	tempDir string
	binDir  string
	homeDir string
	repoDir string
	extra   []string
}

// CommandResult captures the result of running an autochangelog command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()
	RequireGit(t)

	env := &E2EEnv{t: t, tempDir: t.TempDir()}
	env.setup()
	return env
}

func (e *E2EEnv) setup() {
	e.t.Helper()

	e.binDir = filepath.Join(e.tempDir, "bin")
	e.homeDir = filepath.Join(e.tempDir, "home")
	for _, dir := range []string{e.binDir, e.homeDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			e.t.Fatalf("creating %s: %v", dir, err)
		}
	}

	e.buildBinary()
	e.repoDir = InitRepo(e.t)
}

func (e *E2EEnv) buildBinary() {
	e.t.Helper()

	buildOnce.Do(func() {
		binaryPath, buildErr = doBuild()
	})
	if buildErr != nil {
		e.t.Fatalf("building autochangelog: %v", buildErr)
	}

	content, err := os.ReadFile(binaryPath)
	if err != nil {
		e.t.Fatalf("reading autochangelog binary: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.binDir, "autochangelog"), content, 0o755); err != nil {
		e.t.Fatalf("writing autochangelog binary: %v", err)
	}
}

func doBuild() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "autochangelog-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}
	path := filepath.Join(tmpDir, "autochangelog")

	cmd := exec.Command("go", "build", "-o", path, "./cmd/autochangelog")
	cmd.Dir = repoRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w\nOutput: %s", err, output)
	}
	return path, nil
}

// Run executes autochangelog in the repository with empty stdin.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()
	return e.RunWithInput("", args...)
}

// RunWithInput executes autochangelog in the repository feeding stdin.
func (e *E2EEnv) RunWithInput(stdin string, args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()
	cmd := exec.Command(filepath.Join(e.binDir, "autochangelog"), args...)
	cmd.Dir = e.repoDir
	cmd.Env = e.buildIsolatedEnv()
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}
	return result
}

func (e *E2EEnv) buildIsolatedEnv() []string {
	env := []string{
		"PATH=" + e.binDir + string(os.PathListSeparator) + os.Getenv("PATH"),
		"HOME=" + e.homeDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.homeDir, ".config"),
		"AUTOCHANGELOG_STATE_DIR=" + filepath.Join(e.homeDir, "state"),
		"NO_COLOR=1",
	}

	for _, key := range []string{"LANG", "LC_ALL", "TMPDIR", "TMP", "TEMP"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	return append(env, e.extra...)
}

// Setenv adds a variable to the environment of every later Run.
func (e *E2EEnv) Setenv(key, value string) {
	e.extra = append(e.extra, key+"="+value)
}

// RepoDir returns the git repository the binary runs in.
func (e *E2EEnv) RepoDir() string {
	return e.repoDir
}

// HomeDir returns the isolated HOME directory.
func (e *E2EEnv) HomeDir() string {
	return e.homeDir
}

// WriteFile creates or replaces a file in the repository.
func (e *E2EEnv) WriteFile(name, content string) {
	e.t.Helper()
	WriteFile(e.t, e.repoDir, name, content)
}

// ReadFile returns the content of a repository file, or "" when missing.
func (e *E2EEnv) ReadFile(name string) string {
	data, err := os.ReadFile(filepath.Join(e.repoDir, name))
	if err != nil {
		return ""
	}
	return string(data)
}

// InstallFailingGit installs a git wrapper that rejects the nth "git commit"
// made through it and delegates everything else to the real git. It points
// AUTOCHANGELOG_GIT_COMMAND at the wrapper.
func (e *E2EEnv) InstallFailingGit(nth int) {
	e.t.Helper()

	realGit, err := exec.LookPath("git")
	if err != nil {
		e.t.Fatalf("locating git: %v", err)
	}

	wrapper := filepath.Join(e.binDir, "failing-git")
	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "commit" ]; then
  n=$(cat "$0.count" 2>/dev/null || echo 0)
  n=$((n+1))
  echo "$n" > "$0.count"
  if [ "$n" -eq %d ]; then
    echo "commit rejected by hook" >&2
    exit 1
  fi
fi
exec %q "$@"
`, nth, realGit)
	if err := os.WriteFile(wrapper, []byte(script), 0o755); err != nil {
		e.t.Fatalf("writing git wrapper: %v", err)
	}
	e.Setenv("AUTOCHANGELOG_GIT_COMMAND", wrapper)
}

// CommitSubjects returns the repository's commit subjects, newest first.
func (e *E2EEnv) CommitSubjects() []string {
	e.t.Helper()
	return CommitSubjects(e.t, e.repoDir)
}
