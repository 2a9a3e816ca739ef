// Package git provides the version-control plumbing for autochangelog. It uses
// the go-git library for repository discovery and HEAD inspection, and shells
// out to the git CLI for index and commit operations so that hooks, signing and
// user configuration behave exactly as they do on the command line.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when a directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the git repository containing dir. DetectDotGit lets the
// caller pass any subdirectory of the work tree.
func openRepo(dir string) (*git.Repository, error) {
	if dir == "" {
		return nil, fmt.Errorf("opening repository: %w", ErrNotRepository)
	}

	logDebug("[git] opening repository at %s", dir)

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("opening repository at %s: %w", dir, ErrNotRepository)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}

	return repo, nil
}

// RepositoryRoot returns the absolute path of the work tree containing dir.
func RepositoryRoot(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] RepositoryRoot: %s", root)
	return root, nil
}

// IsRepository reports whether dir is inside a git work tree.
func IsRepository(dir string) bool {
	_, err := openRepo(dir)
	return err == nil
}

// HeadHash returns the full hash of the commit HEAD points to.
func HeadHash(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	hash := head.Hash().String()
	logDebug("[git] HeadHash: %s", hash)
	return hash, nil
}

// ShortHash abbreviates a commit hash to seven characters.
func ShortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
