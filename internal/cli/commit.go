package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariel-frischer/autochangelog/internal/config"
	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/ariel-frischer/autochangelog/internal/git"
	"github.com/ariel-frischer/autochangelog/internal/history"
	"github.com/ariel-frischer/autochangelog/internal/lifecycle"
	"github.com/ariel-frischer/autochangelog/internal/notify"
	"github.com/ariel-frischer/autochangelog/internal/output"
	"github.com/ariel-frischer/autochangelog/internal/progress"
	"github.com/ariel-frischer/autochangelog/internal/workflow"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:     "commit [message]",
	Aliases: []string{"ci"},
	Short:   "Commit all changes and record a changelog entry (ci)",
	Long: `Stage every change, commit it with the given message, then prepend an
entry to the changelog and commit that too.

The entry records the date, your git user.email, the message, an optional
description, the affected files and the staged diff filtered down to file
headers, hunk headers and changed lines.

When no message is given on the command line you are prompted for one, followed
by an optional description. An empty message aborts without committing.`,
	Example: `  # Message as argument
  autochangelog commit "fix: typo in README"

  # Message and description as flags
  autochangelog commit -m "feat: html export" -d "Renders CHANGELOG.md to HTML"

  # Prompt for the message
  autochangelog commit

  # Record an entry even when nothing changed
  autochangelog commit --allow-empty "chore: release"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommit,
}

func init() {
	commitCmd.GroupID = GroupCore
	rootCmd.AddCommand(commitCmd)

	commitCmd.Flags().StringP("message", "m", "", "Commit message")
	commitCmd.Flags().StringP("description", "d", "", "Optional description rendered under the message")
	commitCmd.Flags().Bool("allow-empty", false, "Commit and log even when nothing is staged")
	commitCmd.Flags().Bool("no-prompt", false, "Never prompt; fail when no message is given")
}

// commitInput is the resolved message, description and flags for one run.
type commitInput struct {
	Message     string
	Description string
	AllowEmpty  bool
}

func runCommit(cmd *cobra.Command, args []string) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}

	input, cliErr := resolveCommitInput(cmd, args, cfg)
	if cliErr != nil {
		return reportError(cmd, cliErr)
	}

	runner, err := git.NewExecRunner(cfg.GitCommand)
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}

	notifier := notify.NewHandler(cfg.Notifications)
	notifier.SetStartTime(time.Now())
	hist := history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries)
	hist.Warnings = cmd.ErrOrStderr()

	wrapper := lifecycle.Wrapper{
		Notifier: notifier,
		History:  hist,
		Classify: classifyError,
	}

	display := progress.NewDisplay(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities())
	committer := workflow.NewCommitter(runner,
		workflow.WithChangelogPath(cfg.ChangelogPath),
		workflow.WithTimeout(cfg.CommandTimeout),
		workflow.WithObserver(workflow.NewProgressController(display)),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var result *workflow.Result
	err = wrapper.RunWithHistoryContext(ctx, "commit", func(ctx context.Context, entry *history.HistoryEntry) error {
		entry.Subject = input.Message
		entry.Repository = projectDir(dir)

		if strings.TrimSpace(input.Message) == "" {
			return workflow.ErrEmptyMessage
		}
		if !runner.Available() {
			return clierrors.GitNotFound(runner.Command())
		}

		res, err := committer.Commit(ctx, workflow.Request{
			Dir:         dir,
			Message:     input.Message,
			Description: input.Description,
			AllowEmpty:  input.AllowEmpty,
		})
		if res != nil {
			entry.CodeCommit = res.CodeCommit
			entry.ChangelogCommit = res.ChangelogCommit
		}
		result = res
		return err
	})
	display.StopSpinner()

	if err != nil {
		code, _ := classifyError(err)
		clierrors.FprintError(cmd.ErrOrStderr(), toCLIError(err, dir))
		return NewExitError(code)
	}

	printCommitSummary(cmd.OutOrStdout(), result)
	return nil
}

// resolveCommitInput merges the positional message, flags, configuration and
// interactive answers. The description is only prompted for when the message
// itself was prompted for.
func resolveCommitInput(cmd *cobra.Command, args []string, cfg *config.Configuration) (commitInput, *clierrors.CLIError) {
	flagMessage, _ := cmd.Flags().GetString("message")
	description, _ := cmd.Flags().GetString("description")
	allowEmpty, _ := cmd.Flags().GetBool("allow-empty")
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")

	input := commitInput{
		Message:     flagMessage,
		Description: description,
		AllowEmpty:  allowEmpty || cfg.AllowEmpty,
	}

	if len(args) == 1 {
		if cmd.Flags().Changed("message") {
			return input, clierrors.NewArgumentErrorWithUsage(
				"commit message given both as an argument and with --message",
				"autochangelog commit \"<message>\"",
				"Pass the message only once",
			)
		}
		input.Message = args[0]
	}

	if input.Message != "" || noPrompt || cfg.SkipPrompts {
		return input, nil
	}

	p := newPrompter(cmd)
	msg, err := p.ask("Commit message")
	if err != nil {
		return input, clierrors.Wrap(err, clierrors.Runtime)
	}
	input.Message = msg
	if msg == "" || cmd.Flags().Changed("description") {
		return input, nil
	}

	desc, err := p.ask("Description (optional, press Enter to skip)")
	if err != nil {
		return input, clierrors.Wrap(err, clierrors.Runtime)
	}
	input.Description = desc
	return input, nil
}

// toCLIError converts a workflow failure into a CLIError with remediation.
func toCLIError(err error, dir string) *clierrors.CLIError {
	var (
		cliErr  *clierrors.CLIError
		partial *workflow.PartialUpdateError
		timeout *workflow.TimeoutError
		stepErr *workflow.StepError
	)
	switch {
	case errors.As(err, &cliErr):
		return cliErr
	case errors.Is(err, workflow.ErrEmptyMessage):
		return clierrors.MissingCommitMessage()
	case errors.Is(err, workflow.ErrNoWorkspace):
		return clierrors.NotARepository(dir)
	case errors.Is(err, workflow.ErrNothingStaged):
		return clierrors.NothingToCommit()
	case errors.As(err, &partial):
		return clierrors.PartialUpdateFailed(err, partial.CodeCommit, partial.ChangelogPath, partial.DocumentWritten())
	case errors.As(err, &timeout):
		return clierrors.Wrap(err, clierrors.Runtime,
			"Increase command_timeout in .autochangelog/config.yml",
			"Or set AUTOCHANGELOG_COMMAND_TIMEOUT for this run",
		)
	case errors.As(err, &stepErr):
		return clierrors.StepFailed(string(stepErr.Step), stepErr.Err)
	}
	return clierrors.Wrap(err, clierrors.Runtime)
}

func printCommitSummary(w io.Writer, res *workflow.Result) {
	path := res.ChangelogPath
	if rel, err := filepath.Rel(res.Root, path); err == nil {
		path = rel
	}

	output.PrintSuccess(w, fmt.Sprintf("Committed %s %s", output.Highlight(git.ShortHash(res.CodeCommit)), res.Record.Message))
	output.PrintSuccess(w, fmt.Sprintf("Changelog entry added to %s (%s)", path, output.Highlight(git.ShortHash(res.ChangelogCommit))))
	if n := len(res.Record.Files); n > 0 {
		output.PrintDetail(w, fmt.Sprintf("%d file(s): %s", n, joinFiles(res.Record.Files, 5)))
	}
}

// joinFiles lists up to limit files, summarising the rest.
func joinFiles(files []string, limit int) string {
	if len(files) <= limit {
		return strings.Join(files, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(files[:limit], ", "), len(files)-limit)
}
