package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ariel-frischer/autochangelog/internal/changelog"
	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/spf13/cobra"
)

var changelogWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print new changelog entries as they are written",
	Long: `Watch the changelog file and print every entry that gets prepended to it.

Runs until interrupted with Ctrl+C.`,
	Example: `  autochangelog changelog watch
  autochangelog changelog watch --diff`,
	Args: cobra.NoArgs,
	RunE: runChangelogWatch,
}

func init() {
	changelogCmd.AddCommand(changelogWatchCmd)

	changelogWatchCmd.Flags().Bool("plain", false, "Plain text output (no colors)")
	changelogWatchCmd.Flags().Bool("diff", false, "Include the filtered diff of each entry")
}

func runChangelogWatch(cmd *cobra.Command, _ []string) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}

	plain, _ := cmd.Flags().GetBool("plain")
	showDiff, _ := cmd.Flags().GetBool("diff")
	opts := changelog.FormatOptions{Plain: plain, ShowDiff: showDiff}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	store := changelogStore(cfg, dir)
	return watchChangelog(ctx, cmd, store, opts)
}

// watchChangelog prints entries added to store until ctx is done.
func watchChangelog(ctx context.Context, cmd *cobra.Command, store *changelog.Store, opts changelog.FormatOptions) error {
	out := cmd.OutOrStdout()
	prev := store.Load()
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (%d entries). Press Ctrl+C to stop.\n",
		store.Path, prev.GetEntryCount())

	return store.Watch(ctx, func(next *changelog.Changelog) {
		added := changelog.NewEntries(prev, next)
		prev = next
		if len(added) == 0 {
			return
		}
		if err := changelog.FormatTerminal(added, out, opts); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			return
		}
		fmt.Fprintln(out)
	})
}
