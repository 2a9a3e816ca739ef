package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/ariel-frischer/autochangelog/internal/git"
	"github.com/ariel-frischer/autochangelog/internal/history"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View command execution history",
	Long: `View a log of autochangelog runs with timestamp, command, status, exit
code, duration and the commits each run created.`,
	Example: `  autochangelog history            # All recorded runs
  autochangelog history -n 10      # Last 10 runs
  autochangelog history --clear    # Remove all history`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("command", "", "Filter by command name")
	historyCmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	historyCmd.Flags().Bool("clear", false, "Clear all history")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}
	return runHistoryWithStateDir(cmd, cfg.StateDir)
}

// runHistoryWithStateDir runs the history command with a custom state directory.
func runHistoryWithStateDir(cmd *cobra.Command, stateDir string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	commandFilter, _ := cmd.Flags().GetString("command")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return reportError(cmd, clierrors.NewArgumentError(
			fmt.Sprintf("limit must be positive, got %d", limit)))
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := history.Filter(histFile.Entries, commandFilter, limit)
	if len(entries) == 0 {
		if commandFilter != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No matching entries for command '%s'.\n", commandFilter)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
		}
		return nil
	}

	displayEntries(cmd, entries)
	return nil
}

// displayEntries formats and displays history entries.
func displayEntries(cmd *cobra.Command, entries []history.HistoryEntry) {
	out := cmd.OutOrStdout()

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")

		status := fmt.Sprintf("%-9s", entry.Status)
		switch entry.Status {
		case history.StatusCompleted:
			status = green(status)
		case history.StatusPartial, history.StatusAborted:
			status = yellow(status)
		default:
			status = red(status)
		}

		commits := "-"
		if entry.CodeCommit != "" {
			commits = git.ShortHash(entry.CodeCommit)
			if entry.ChangelogCommit != "" {
				commits += "+" + git.ShortHash(entry.ChangelogCommit)
			}
		}

		subject := entry.Subject
		if subject == "" {
			subject = "-"
		}

		fmt.Fprintf(out, "%s  %-8s  %s  exit=%d  %-8s  %-15s  %s\n",
			cyan(timestamp),
			entry.Command,
			status,
			entry.ExitCode,
			entry.Duration,
			commits,
			subject,
		)
	}
}
