package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/autochangelog/internal/git"
	"github.com/ariel-frischer/autochangelog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T, command string) *git.ExecRunner {
	t.Helper()
	r, err := git.NewExecRunner(command)
	require.NoError(t, err)
	return r
}

func checksByName(report *HealthReport) map[string]CheckResult {
	out := make(map[string]CheckResult, len(report.Checks))
	for _, c := range report.Checks {
		out[c.Name] = c
	}
	return out
}

func TestRunHealthChecks(t *testing.T) {
	repo := testutil.InitRepo(t)

	tests := map[string]struct {
		command    string
		dir        string
		wantPassed bool
		wantFailed []string
	}{
		"healthy repository": {
			command:    "git",
			dir:        repo,
			wantPassed: true,
		},
		"subdirectory resolves to root": {
			command:    "git",
			dir:        filepath.Join(repo, "sub"),
			wantPassed: true,
		},
		"missing git executable": {
			command:    "git-does-not-exist-xyz",
			dir:        repo,
			wantFailed: []string{NameGitCLI, NameCommitterEmail},
		},
		"not a repository": {
			command:    "git",
			dir:        t.TempDir(),
			wantFailed: []string{NameRepository, NameChangelog},
		},
	}

	require.NoError(t, os.MkdirAll(filepath.Join(repo, "sub"), 0o755))

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			report := RunHealthChecks(context.Background(), Options{
				Runner:        newRunner(t, tt.command),
				Dir:           tt.dir,
				ChangelogPath: "CHANGELOG.md",
			})
			assert.Equal(t, tt.wantPassed, report.Passed)

			checks := checksByName(report)
			for _, name := range tt.wantFailed {
				require.Contains(t, checks, name)
				assert.False(t, checks[name].Passed, "%s should fail", name)
			}
			if tt.wantPassed {
				assert.Len(t, report.Checks, 4)
				assert.Equal(t, testutil.TestEmail, checks[NameCommitterEmail].Message)
			}
		})
	}
}

func TestCheckChangelogWritable(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(existing, []byte("# Changelogs\n\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "isdir"), 0o755))

	tests := map[string]struct {
		path        string
		wantPassed  bool
		wantMessage string
	}{
		"existing file":      {path: existing, wantPassed: true},
		"missing file":       {path: filepath.Join(dir, "docs", "HISTORY.md"), wantPassed: true, wantMessage: "will be created"},
		"directory in place": {path: filepath.Join(dir, "isdir"), wantMessage: "is a directory"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := CheckChangelogWritable(tt.path)
			assert.Equal(t, tt.wantPassed, got.Passed)
			assert.Contains(t, got.Message, tt.wantMessage)
		})
	}

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "# Changelogs\n\n", string(data), "check must not modify the document")
	assert.NoDirExists(t, filepath.Join(dir, "docs"))
}

func TestFormatReport(t *testing.T) {
	tests := map[string]struct {
		report   *HealthReport
		expected []string
	}{
		"All checks pass": {
			report: &HealthReport{
				Checks: []CheckResult{
					{Name: NameGitCLI, Passed: true, Message: `using "git"`},
					{Name: NameRepository, Passed: true, Message: "/work"},
				},
				Passed: true,
			},
			expected: []string{
				`✓ Git CLI: using "git"`,
				"✓ Repository: /work",
			},
		},
		"One check fails": {
			report: &HealthReport{
				Checks: []CheckResult{
					{Name: NameGitCLI, Passed: true, Message: `using "git"`},
					{Name: NameRepository, Passed: false, Message: "/tmp is not inside a git repository"},
				},
			},
			expected: []string{
				`✓ Git CLI: using "git"`,
				"✗ Repository: /tmp is not inside a git repository",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out := FormatReport(tt.report)
			for _, exp := range tt.expected {
				assert.Contains(t, out, exp)
			}
		})
	}
}
