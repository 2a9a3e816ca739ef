// Package workflow runs the commit-and-log flow: commit the staged work, then
// prepend a changelog entry describing it and commit that update separately.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariel-frischer/autochangelog/internal/changelog"
	"github.com/ariel-frischer/autochangelog/internal/diff"
	"github.com/ariel-frischer/autochangelog/internal/git"
)

// DefaultTimeout bounds each individual git step.
const DefaultTimeout = 30 * time.Second

// ChangelogCommitPrefix starts the message of every changelog update commit.
const ChangelogCommitPrefix = "patch(changelog): update changelog for "

// Step identifies one stage of the flow.
type Step string

const (
	StepStage           Step = "stage changes"
	StepDiff            Step = "capture staged diff"
	StepEmail           Step = "read committer email"
	StepCommit          Step = "commit changes"
	StepWriteChangelog  Step = "write changelog"
	StepStageChangelog  Step = "stage changelog"
	StepCommitChangelog Step = "commit changelog"
)

// Steps lists every step in execution order.
func Steps() []Step {
	return []Step{StepStage, StepDiff, StepEmail, StepCommit, StepWriteChangelog, StepStageChangelog, StepCommitChangelog}
}

// Observer is notified as each step starts and finishes.
type Observer interface {
	StepStarted(step Step)
	StepFinished(step Step, err error)
}

// Request describes one invocation.
type Request struct {
	// Dir is any directory inside the target work tree.
	Dir string
	// Message is the commit message, stored verbatim in the entry.
	Message string
	// Description is optional free text rendered under the message.
	Description string
	// AllowEmpty permits the code commit when nothing is staged.
	AllowEmpty bool
}

// Result describes a completed invocation.
type Result struct {
	Root            string
	ChangelogPath   string
	CodeCommit      string
	ChangelogCommit string
	Record          changelog.Record
	Entry           string
}

// Committer runs the flow against a git runner.
type Committer struct {
	runner        git.Runner
	changelogPath string
	timeout       time.Duration
	now           func() time.Time
	observer      Observer
}

// Option configures a Committer.
type Option func(*Committer)

// WithChangelogPath sets the document location. Relative paths are resolved
// against the repository root.
func WithChangelogPath(path string) Option {
	return func(c *Committer) {
		c.changelogPath = path
	}
}

// WithTimeout sets the per-step git timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Committer) {
		c.timeout = d
	}
}

// WithClock sets the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Committer) {
		c.now = now
	}
}

// WithObserver registers an observer for step progress.
func WithObserver(o Observer) Option {
	return func(c *Committer) {
		c.observer = o
	}
}

// NewCommitter creates a Committer that runs git through runner.
func NewCommitter(runner git.Runner, opts ...Option) *Committer {
	c := &Committer{
		runner:        runner,
		changelogPath: changelog.DefaultFileName,
		timeout:       DefaultTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveChangelogPath returns the absolute document path for root.
func (c *Committer) ResolveChangelogPath(root string) string {
	if filepath.IsAbs(c.changelogPath) {
		return c.changelogPath
	}
	return filepath.Join(root, c.changelogPath)
}

// Commit runs the full flow. Steps run strictly in order.
//
// Failures before the code commit return ErrEmptyMessage, ErrNoWorkspace,
// ErrNothingStaged or a *StepError and leave no new commit behind. Failures
// after it return a *PartialUpdateError: the code commit exists but the
// changelog commit does not.
func (c *Committer) Commit(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	root, err := git.RepositoryRoot(req.Dir)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return nil, fmt.Errorf("%w: %s", ErrNoWorkspace, req.Dir)
		}
		return nil, fmt.Errorf("resolving workspace: %w", err)
	}

	res := &Result{Root: root, ChangelogPath: c.ResolveChangelogPath(root)}

	if err := c.commitChanges(ctx, root, req, res); err != nil {
		return nil, err
	}

	if err := c.commitChangelog(ctx, root, req, res); err != nil {
		return res, err
	}

	return res, nil
}

// commitChanges is phase one: stage, capture, read identity, commit.
func (c *Committer) commitChanges(ctx context.Context, root string, req Request, res *Result) error {
	var staged diff.Staged
	var email string

	phase := []struct {
		step Step
		fn   func(ctx context.Context) error
	}{
		{StepStage, func(ctx context.Context) error {
			return git.StageAll(ctx, c.runner, root)
		}},
		{StepDiff, func(ctx context.Context) error {
			var err error
			staged, err = diff.Capture(ctx, c.runner, root)
			if err == nil && staged.Empty() && !req.AllowEmpty {
				return ErrNothingStaged
			}
			return err
		}},
		{StepEmail, func(ctx context.Context) error {
			var err error
			email, err = git.CommitterEmail(ctx, c.runner, root)
			return err
		}},
		{StepCommit, func(ctx context.Context) error {
			_, err := git.Commit(ctx, c.runner, root, req.Message, req.AllowEmpty)
			return err
		}},
	}

	for _, p := range phase {
		if err := c.runStep(ctx, p.step, p.fn); err != nil {
			if errors.Is(err, ErrNothingStaged) {
				return err
			}
			return &StepError{Step: p.step, Err: err}
		}
	}

	hash, err := git.HeadHash(root)
	if err != nil {
		return &StepError{Step: StepCommit, Err: err}
	}
	res.CodeCommit = hash

	res.Record = changelog.Record{
		Message:     req.Message,
		Description: req.Description,
		Files:       staged.Files(),
		Diff:        staged.Text(),
		Email:       email,
		Time:        c.now(),
	}
	return nil
}

// commitChangelog is phase two: render, prepend, stage, commit.
func (c *Committer) commitChangelog(ctx context.Context, root string, req Request, res *Result) error {
	res.Entry = changelog.Render(res.Record)
	store := changelog.NewStore(res.ChangelogPath)

	phase := []struct {
		step Step
		fn   func(ctx context.Context) error
	}{
		{StepWriteChangelog, func(context.Context) error {
			return store.Prepend(res.Entry)
		}},
		{StepStageChangelog, func(ctx context.Context) error {
			return git.StageAll(ctx, c.runner, root)
		}},
		{StepCommitChangelog, func(ctx context.Context) error {
			_, err := git.Commit(ctx, c.runner, root, ChangelogCommitPrefix+req.Message, false)
			return err
		}},
	}

	for _, p := range phase {
		if err := c.runStep(ctx, p.step, p.fn); err != nil {
			return &PartialUpdateError{
				Step:          p.step,
				CodeCommit:    res.CodeCommit,
				ChangelogPath: res.ChangelogPath,
				Err:           err,
			}
		}
	}

	hash, err := git.HeadHash(root)
	if err != nil {
		return &PartialUpdateError{
			Step:          StepCommitChangelog,
			CodeCommit:    res.CodeCommit,
			ChangelogPath: res.ChangelogPath,
			Err:           err,
		}
	}
	res.ChangelogCommit = hash
	return nil
}

// runStep runs fn under the step timeout and reports it to the observer.
func (c *Committer) runStep(ctx context.Context, step Step, fn func(context.Context) error) error {
	if c.observer != nil {
		c.observer.StepStarted(step)
	}

	stepCtx := ctx
	cancel := func() {}
	if c.timeout > 0 {
		stepCtx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	err := fn(stepCtx)
	if err != nil && errors.Is(stepCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = NewTimeoutError(c.timeout, step)
	}
	cancel()

	if c.observer != nil {
		c.observer.StepFinished(step, err)
	}
	return err
}
