package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/ariel-frischer/autochangelog/internal/history"
	"github.com/ariel-frischer/autochangelog/internal/testutil"
	"github.com/ariel-frischer/autochangelog/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readChangelog(t *testing.T, repo string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(repo, "CHANGELOG.md"))
	require.NoError(t, err)
	return string(data)
}

func loadHistory(t *testing.T, home string) []history.HistoryEntry {
	t.Helper()
	h, err := history.LoadHistory(filepath.Join(home, "state"))
	require.NoError(t, err)
	return h.Entries
}

func TestCommitCmd_EndToEnd(t *testing.T) {
	home := isolateEnv(t)
	repo := testutil.InitRepo(t)
	testutil.WriteFile(t, repo, "README.md", "# test\nfixed typo\n")

	stdout, _, err := executeCommand(t, "", "commit", "--dir", repo, "fix: typo")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Committed")
	assert.Contains(t, stdout, "CHANGELOG.md")
	assert.Equal(t, 3, testutil.CommitCount(t, repo))
	subjects := testutil.CommitSubjects(t, repo)
	assert.Equal(t, "patch(changelog): update changelog for fix: typo", subjects[0])
	assert.Equal(t, "fix: typo", subjects[1])

	content := readChangelog(t, repo)
	assert.True(t, strings.HasPrefix(content, "# Changelogs\n\n\n<pre>\n"))
	assert.Contains(t, content, "\"fix: typo\"<br>\n")
	assert.Contains(t, content, "\"README.md\"\n")
	assert.NotContains(t, content, "Description:")
	assert.Equal(t, 1, strings.Count(content, "<pre>"))

	entries := loadHistory(t, home)
	require.Len(t, entries, 1)
	assert.Equal(t, "commit", entries[0].Command)
	assert.Equal(t, "fix: typo", entries[0].Subject)
	assert.Equal(t, history.StatusCompleted, entries[0].Status)
	assert.NotEmpty(t, entries[0].CodeCommit)
	assert.NotEmpty(t, entries[0].ChangelogCommit)
}

func TestCommitCmd_Prompts(t *testing.T) {
	tests := map[string]struct {
		stdin           string
		args            []string
		wantMessage     string
		wantDescription string
	}{
		"message and description prompted": {
			stdin:           "feat: prompted\nSome details\n",
			wantMessage:     "feat: prompted",
			wantDescription: "<strong>Description:</strong><br>Some details<br>",
		},
		"description skipped with enter": {
			stdin:       "feat: prompted\n\n",
			wantMessage: "feat: prompted",
		},
		"description flag is not prompted for": {
			stdin:           "feat: prompted\n",
			args:            []string{"-d", "from flag"},
			wantMessage:     "feat: prompted",
			wantDescription: "<strong>Description:</strong><br>from flag<br>",
		},
		"no prompt when message is an argument": {
			stdin:       "ignored\n",
			args:        []string{"feat: argument"},
			wantMessage: "feat: argument",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolateEnv(t)
			repo := testutil.InitRepo(t)
			testutil.WriteFile(t, repo, "main.go", "package main\n")

			args := append([]string{"commit", "--dir", repo}, tt.args...)
			_, _, err := executeCommand(t, tt.stdin, args...)
			require.NoError(t, err)

			content := readChangelog(t, repo)
			assert.Contains(t, content, "\""+tt.wantMessage+"\"<br>")
			if tt.wantDescription == "" {
				assert.NotContains(t, content, "Description:")
			} else {
				assert.Contains(t, content, tt.wantDescription)
			}
		})
	}
}

func TestCommitCmd_Failures(t *testing.T) {
	tests := map[string]struct {
		stdin      string
		args       []string
		notRepo    bool
		clean      bool
		gitCommand string
		wantCode   int
		wantStderr string
		wantStatus string
	}{
		"empty prompted message aborts": {
			stdin:      "\n",
			wantCode:   ExitInvalidArguments,
			wantStderr: "commit message is required",
			wantStatus: history.StatusAborted,
		},
		"whitespace message aborts": {
			args:       []string{"   "},
			wantCode:   ExitInvalidArguments,
			wantStderr: "commit message is required",
			wantStatus: history.StatusAborted,
		},
		"no-prompt without message": {
			args:       []string{"--no-prompt"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "commit message is required",
			wantStatus: history.StatusAborted,
		},
		"empty message with git missing aborts": {
			stdin:      "\n",
			gitCommand: "/nonexistent/bin/git",
			wantCode:   ExitInvalidArguments,
			wantStderr: "commit message is required",
			wantStatus: history.StatusAborted,
		},
		"git missing": {
			args:       []string{"fix: typo"},
			gitCommand: "/nonexistent/bin/git",
			wantCode:   ExitMissingDependencies,
			wantStderr: "not found in PATH",
			wantStatus: history.StatusFailed,
		},
		"message given twice": {
			args:       []string{"-m", "one", "two"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "both as an argument and with --message",
		},
		"not a repository": {
			args:       []string{"fix: typo"},
			notRepo:    true,
			wantCode:   ExitMissingDependencies,
			wantStderr: "not inside a git repository",
			wantStatus: history.StatusFailed,
		},
		"nothing staged": {
			args:       []string{"fix: nothing"},
			clean:      true,
			wantCode:   ExitInvalidArguments,
			wantStderr: "nothing to commit",
			wantStatus: history.StatusFailed,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			home := isolateEnv(t)
			if tt.gitCommand != "" {
				t.Setenv("AUTOCHANGELOG_GIT_COMMAND", tt.gitCommand)
			}
			dir := t.TempDir()
			if !tt.notRepo {
				dir = testutil.InitRepo(t)
				if !tt.clean {
					testutil.WriteFile(t, dir, "new.txt", "content\n")
				}
			}

			args := append([]string{"commit", "--dir", dir}, tt.args...)
			_, stderr, err := executeCommand(t, tt.stdin, args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Contains(t, stderr, tt.wantStderr)

			if !tt.notRepo {
				assert.Equal(t, 1, testutil.CommitCount(t, dir), "no commit may be created")
			}
			assert.NoFileExists(t, filepath.Join(dir, "CHANGELOG.md"))

			entries := loadHistory(t, home)
			if tt.wantStatus == "" {
				assert.Empty(t, entries)
				return
			}
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantStatus, entries[0].Status)
			assert.Equal(t, tt.wantCode, entries[0].ExitCode)
		})
	}
}

func TestCommitCmd_AllowEmpty(t *testing.T) {
	isolateEnv(t)
	repo := testutil.InitRepo(t)

	_, _, err := executeCommand(t, "", "commit", "--dir", repo, "--allow-empty", "chore: release")
	require.NoError(t, err)

	assert.Equal(t, 3, testutil.CommitCount(t, repo))
	content := readChangelog(t, repo)
	assert.Contains(t, content, "```diff\n(no staged diff)\n```")
	assert.Contains(t, content, "<strong>Affected files: </strong><br>\n\"\"\n")
}

func TestCommitCmd_ChangelogPathFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTOCHANGELOG_CHANGELOG_PATH", filepath.Join("docs", "HISTORY.md"))
	repo := testutil.InitRepo(t)
	testutil.WriteFile(t, repo, "a.txt", "a\n")

	_, _, err := executeCommand(t, "", "commit", "--dir", repo, "feat: a")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(repo, "docs", "HISTORY.md"))
	assert.NoFileExists(t, filepath.Join(repo, "CHANGELOG.md"))
	assert.Equal(t, "", testutil.RunGit(t, repo, "status", "--porcelain"))
}

func TestCommitCmd_NewestEntryFirst(t *testing.T) {
	isolateEnv(t)
	repo := testutil.InitRepo(t)

	testutil.WriteFile(t, repo, "one.txt", "1\n")
	_, _, err := executeCommand(t, "", "commit", "--dir", repo, "M1")
	require.NoError(t, err)
	testutil.WriteFile(t, repo, "two.txt", "2\n")
	_, _, err = executeCommand(t, "", "commit", "--dir", repo, "M2")
	require.NoError(t, err)

	content := readChangelog(t, repo)
	assert.True(t, strings.HasPrefix(content, "# Changelogs\n\n"))
	assert.Equal(t, 1, strings.Count(content, "# Changelogs"))
	assert.Less(t, strings.Index(content, "\"M2\""), strings.Index(content, "\"M1\""))
}

func TestToCLIError(t *testing.T) {
	tests := map[string]struct {
		err          error
		wantCategory clierrors.ErrorCategory
		wantMessage  string
	}{
		"empty message": {
			err:          workflow.ErrEmptyMessage,
			wantCategory: clierrors.Argument,
			wantMessage:  "commit message is required",
		},
		"no workspace": {
			err:          workflow.ErrNoWorkspace,
			wantCategory: clierrors.Prerequisite,
			wantMessage:  "/work",
		},
		"nothing staged": {
			err:          workflow.ErrNothingStaged,
			wantCategory: clierrors.Argument,
			wantMessage:  "nothing to commit",
		},
		"partial update": {
			err: &workflow.PartialUpdateError{
				Step:          workflow.StepCommitChangelog,
				CodeCommit:    "0123456789abcdef",
				ChangelogPath: "/work/CHANGELOG.md",
				Err:           errors.New("hook rejected"),
			},
			wantCategory: clierrors.PartialUpdate,
			wantMessage:  "changes committed as 0123456",
		},
		"step error": {
			err:          &workflow.StepError{Step: workflow.StepEmail, Err: errors.New("exit 1")},
			wantCategory: clierrors.Runtime,
			wantMessage:  "read committer email failed",
		},
		"existing cli error": {
			err:          clierrors.GitNotFound([]string{"git2"}),
			wantCategory: clierrors.Prerequisite,
			wantMessage:  "git2",
		},
		"other error": {
			err:          errors.New("disk full"),
			wantCategory: clierrors.Runtime,
			wantMessage:  "disk full",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := toCLIError(tt.err, "/work")
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Contains(t, got.Message, tt.wantMessage)
		})
	}
}

func TestToCLIError_PartialCarriesCommit(t *testing.T) {
	got := toCLIError(&workflow.PartialUpdateError{
		Step:          workflow.StepCommitChangelog,
		CodeCommit:    "0123456789abcdef",
		ChangelogPath: "/work/CHANGELOG.md",
		Err:           errors.New("hook rejected"),
	}, "/work")

	assert.Equal(t, "0123456789abcdef", got.Committed)
	assert.Contains(t, clierrors.FormatErrorPlain(got), "Committed: 0123456 (changelog not committed)")
}

func TestJoinFiles(t *testing.T) {
	assert.Equal(t, "a, b", joinFiles([]string{"a", "b"}, 5))
	assert.Equal(t, "a, b and 2 more", joinFiles([]string{"a", "b", "c", "d"}, 2))
}
