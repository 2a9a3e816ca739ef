//go:build e2e

package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/autochangelog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_CommitWritesChangelog(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	env.WriteFile("main.go", "package main\n")

	result := env.Run("commit", "-m", "fix: typo")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	subjects := env.CommitSubjects()
	require.GreaterOrEqual(t, len(subjects), 3)
	assert.Equal(t, "patch(changelog): update changelog for fix: typo", subjects[0])
	assert.Equal(t, "fix: typo", subjects[1])

	doc := env.ReadFile("CHANGELOG.md")
	assert.True(t, strings.HasPrefix(doc, "# Changelogs\n\n"))
	assert.Equal(t, 1, strings.Count(doc, "<pre>"))
	assert.Contains(t, doc, "\"main.go\"")
	assert.Contains(t, doc, "[BLAME] => "+testutil.TestEmail)
	assert.NotContains(t, doc, "Description:")
}

func TestE2E_PromptedMessage(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	env.WriteFile("a.txt", "a\n")

	result := env.RunWithInput("feat: prompted\nwith context\n", "commit")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	assert.Equal(t, "feat: prompted", env.CommitSubjects()[1])
	assert.Contains(t, env.ReadFile("CHANGELOG.md"), "<strong>Description:</strong><br>with context<br>")
}

func TestE2E_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		setup        func(env *testutil.E2EEnv) []string
		wantExitCode int
		wantStderr   string
		wantCommits  int
	}{
		"empty message is an argument error": {
			setup: func(env *testutil.E2EEnv) []string {
				env.WriteFile("a.txt", "a\n")
				return []string{"commit", "--no-prompt"}
			},
			wantExitCode: 3,
			wantCommits:  1,
		},
		"message given twice is an argument error": {
			setup: func(env *testutil.E2EEnv) []string {
				return []string{"commit", "one", "-m", "two"}
			},
			wantExitCode: 3,
			wantCommits:  1,
		},
		"directory outside a repository is a missing dependency": {
			setup: func(env *testutil.E2EEnv) []string {
				return []string{"commit", "-m", "msg", "--dir", env.HomeDir()}
			},
			wantExitCode: 4,
			wantCommits:  1,
		},
		"absent git binary is a missing dependency": {
			setup: func(env *testutil.E2EEnv) []string {
				env.WriteFile("a.txt", "a\n")
				env.Setenv("AUTOCHANGELOG_GIT_COMMAND", filepath.Join(env.HomeDir(), "no-such-git"))
				return []string{"commit", "-m", "msg"}
			},
			wantExitCode: 4,
			wantCommits:  1,
		},
		"rejected code commit writes nothing": {
			setup: func(env *testutil.E2EEnv) []string {
				env.WriteFile("a.txt", "a\n")
				env.InstallFailingGit(1)
				return []string{"commit", "-m", "msg"}
			},
			wantExitCode: 1,
			wantStderr:   "commit rejected by hook",
			wantCommits:  1,
		},
		"rejected changelog commit is a partial update": {
			setup: func(env *testutil.E2EEnv) []string {
				env.WriteFile("a.txt", "a\n")
				env.InstallFailingGit(2)
				return []string{"commit", "-m", "msg"}
			},
			wantExitCode: 6,
			wantStderr:   "(changelog not committed)",
			wantCommits:  2,
		},
		"invalid last value": {
			setup: func(env *testutil.E2EEnv) []string {
				return []string{"changelog", "--last", "0"}
			},
			wantExitCode: 3,
			wantCommits:  1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			args := tt.setup(env)

			result := env.Run(args...)

			assert.Equal(t, tt.wantExitCode, result.ExitCode, "stdout: %s\nstderr: %s", result.Stdout, result.Stderr)
			if tt.wantStderr != "" {
				assert.Contains(t, result.Stderr, tt.wantStderr)
			}
			assert.Len(t, env.CommitSubjects(), tt.wantCommits)
		})
	}
}

func TestE2E_CommitFromSubdirectory(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	env.WriteFile(filepath.Join("pkg", "deep", "util.go"), "package deep\n")

	result := env.Run("commit", "-m", "feat: nested", "--dir", filepath.Join(env.RepoDir(), "pkg", "deep"))
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	assert.Contains(t, env.ReadFile("CHANGELOG.md"), "\"pkg/deep/util.go\"")
	assert.Empty(t, env.ReadFile(filepath.Join("pkg", "deep", "CHANGELOG.md")))
}

func TestE2E_ChangelogShowsNewestFirst(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	env.WriteFile("one.txt", "1\n")
	require.Equal(t, 0, env.Run("commit", "-m", "first").ExitCode)
	env.WriteFile("two.txt", "2\n")
	require.Equal(t, 0, env.Run("commit", "-m", "second").ExitCode)

	result := env.Run("changelog", "--plain")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	first := strings.Index(result.Stdout, "first")
	second := strings.Index(result.Stdout, "second")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, second, first)
}

func TestE2E_Version(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("version", "--plain")

	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "autochangelog")
}
