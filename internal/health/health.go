// Package health provides environment health checks for autochangelog. It
// verifies that git is installed, that the target directory is a work tree
// with a committer identity, and that the changelog can be written, returning
// structured reports used by the 'autochangelog doctor' command.
package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/autochangelog/internal/git"
)

// Check names shown in reports.
const (
	NameGitCLI         = "Git CLI"
	NameRepository     = "Repository"
	NameCommitterEmail = "Committer email"
	NameChangelog      = "Changelog"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// GitRunner is a git.Runner that can report on its own executable.
// It is satisfied by *git.ExecRunner.
type GitRunner interface {
	git.Runner
	Available() bool
	Command() []string
}

// Options selects what RunHealthChecks inspects.
type Options struct {
	Runner GitRunner
	// Dir is any directory inside the work tree to check.
	Dir string
	// ChangelogPath is the configured document path, relative to the
	// repository root unless absolute.
	ChangelogPath string
}

// RunHealthChecks runs all health checks and returns a report. Checks that
// depend on an earlier failed check are reported as failed without running.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	report := &HealthReport{Passed: true}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed {
			report.Passed = false
		}
	}

	gitCheck := CheckGitCLI(opts.Runner)
	add(gitCheck)

	root, repoCheck := CheckRepository(opts.Dir)
	add(repoCheck)
	if !repoCheck.Passed {
		add(CheckResult{Name: NameChangelog, Message: "skipped: no repository"})
		return report
	}

	if gitCheck.Passed {
		add(CheckCommitterEmail(ctx, opts.Runner, root))
	} else {
		add(CheckResult{Name: NameCommitterEmail, Message: "skipped: git not available"})
	}

	path := opts.ChangelogPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	add(CheckChangelogWritable(path))

	return report
}

// CheckGitCLI checks if the configured git executable is available
func CheckGitCLI(r GitRunner) CheckResult {
	name := strings.Join(r.Command(), " ")
	if !r.Available() {
		return CheckResult{
			Name:    NameGitCLI,
			Passed:  false,
			Message: fmt.Sprintf("%q not found in PATH", r.Command()[0]),
		}
	}
	return CheckResult{
		Name:    NameGitCLI,
		Passed:  true,
		Message: fmt.Sprintf("using %q", name),
	}
}

// CheckRepository checks that dir is inside a git work tree and returns its root.
func CheckRepository(dir string) (string, CheckResult) {
	root, err := git.RepositoryRoot(dir)
	if err != nil {
		return "", CheckResult{
			Name:    NameRepository,
			Passed:  false,
			Message: fmt.Sprintf("%s is not inside a git repository", dir),
		}
	}
	return root, CheckResult{
		Name:    NameRepository,
		Passed:  true,
		Message: root,
	}
}

// CheckCommitterEmail checks that git config user.email is set for root.
func CheckCommitterEmail(ctx context.Context, r git.Runner, root string) CheckResult {
	email, err := git.CommitterEmail(ctx, r, root)
	if err != nil || email == "" {
		return CheckResult{
			Name:    NameCommitterEmail,
			Passed:  false,
			Message: "user.email is not set - run: git config user.email you@example.com",
		}
	}
	return CheckResult{
		Name:    NameCommitterEmail,
		Passed:  true,
		Message: email,
	}
}

// CheckChangelogWritable checks that path can be created or updated. It never
// modifies an existing document.
func CheckChangelogWritable(path string) CheckResult {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return CheckResult{
			Name:    NameChangelog,
			Passed:  false,
			Message: fmt.Sprintf("%s is a directory", path),
		}
	case err == nil:
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return CheckResult{
				Name:    NameChangelog,
				Passed:  false,
				Message: fmt.Sprintf("%s is not writable: %v", path, err),
			}
		}
		f.Close()
		return CheckResult{Name: NameChangelog, Passed: true, Message: path}
	case !os.IsNotExist(err):
		return CheckResult{
			Name:    NameChangelog,
			Passed:  false,
			Message: fmt.Sprintf("cannot stat %s: %v", path, err),
		}
	}

	dir := nearestExistingDir(filepath.Dir(path))
	probe, err := os.CreateTemp(dir, ".autochangelog-probe-*")
	if err != nil {
		return CheckResult{
			Name:    NameChangelog,
			Passed:  false,
			Message: fmt.Sprintf("cannot create files in %s: %v", dir, err),
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return CheckResult{
		Name:    NameChangelog,
		Passed:  true,
		Message: fmt.Sprintf("%s (will be created)", path),
	}
}

// nearestExistingDir walks up from dir to the first directory that exists.
func nearestExistingDir(dir string) string {
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output string

	for _, check := range report.Checks {
		if check.Passed {
			output += fmt.Sprintf("✓ %s: %s\n", check.Name, check.Message)
		} else {
			output += fmt.Sprintf("✗ %s: %s\n", check.Name, check.Message)
		}
	}

	return output
}
