package cli

import (
	"fmt"

	"github.com/ariel-frischer/autochangelog/internal/changelog"
	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/spf13/cobra"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "View entries from the repository changelog",
	Long: `View entries parsed from the repository changelog.

By default, shows the 5 most recent entries. Use --last to control the entry
count and --author or --file to narrow the list down.`,
	Example: `  autochangelog changelog                       # Show 5 most recent entries
  autochangelog changelog --last 10             # Show 10 most recent entries
  autochangelog changelog --diff                # Include the filtered diffs
  autochangelog changelog --author me@corp.dev  # Only entries by one author
  autochangelog changelog --file go.mod         # Only entries touching go.mod
  autochangelog changelog --plain               # Plain output (no colors)`,
	Args: cobra.NoArgs,
	RunE: runChangelogView,
}

func init() {
	changelogCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(changelogCmd)

	changelogCmd.Flags().Int("last", 5, "Number of entries to show")
	changelogCmd.Flags().Bool("plain", false, "Plain text output (no colors)")
	changelogCmd.Flags().Bool("diff", false, "Include the filtered diff of each entry")
	changelogCmd.Flags().String("author", "", "Only show entries by this email")
	changelogCmd.Flags().String("file", "", "Only show entries that touched this path")
}

func runChangelogView(cmd *cobra.Command, _ []string) error {
	last, _ := cmd.Flags().GetInt("last")
	if last <= 0 {
		return reportError(cmd, clierrors.NewArgumentError(
			fmt.Sprintf("--last must be positive, got %d", last)))
	}

	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}

	log := changelogStore(cfg, dir).Load()
	if author, _ := cmd.Flags().GetString("author"); author != "" {
		log = log.ByAuthor(author)
	}
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		log = log.TouchingFile(file)
	}

	plain, _ := cmd.Flags().GetBool("plain")
	showDiff, _ := cmd.Flags().GetBool("diff")
	opts := changelog.FormatOptions{
		Plain:    plain,
		ShowDiff: showDiff,
	}

	return showLastEntries(log, last, cmd, opts)
}

func showLastEntries(log *changelog.Changelog, n int, cmd *cobra.Command, opts changelog.FormatOptions) error {
	entries := log.GetLastN(n)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No changelog entries found.")
		return nil
	}

	if err := changelog.FormatTerminal(entries, cmd.OutOrStdout(), opts); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	total := log.GetEntryCount()
	if total > len(entries) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(entries), total, total)
	}

	return nil
}
