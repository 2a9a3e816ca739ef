package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ariel-frischer/autochangelog/internal/changelog"
	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/ariel-frischer/autochangelog/internal/output"
	"github.com/spf13/cobra"
)

var changelogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the changelog to HTML",
	Long: `Render the changelog Markdown to HTML.

Entries are stored as Markdown mixed with raw HTML, so the output keeps the
boxed headers, the bold labels and the highlighted diff blocks.`,
	Example: `  # Print the HTML fragment
  autochangelog changelog export

  # Write a complete page
  autochangelog changelog export --standalone -o changelog.html`,
	Args: cobra.NoArgs,
	RunE: runChangelogExport,
}

func init() {
	changelogCmd.AddCommand(changelogExportCmd)

	changelogExportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	changelogExportCmd.Flags().Bool("standalone", false, "Wrap the output in a complete HTML page")
	changelogExportCmd.Flags().String("title", "", "Page title for --standalone (default: Changelogs)")
}

func runChangelogExport(cmd *cobra.Command, _ []string) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}

	standalone, _ := cmd.Flags().GetBool("standalone")
	title, _ := cmd.Flags().GetString("title")
	outputPath, _ := cmd.Flags().GetString("output")

	store := changelogStore(cfg, dir)
	content := store.Read()
	if content == "" {
		return reportError(cmd, clierrors.NewPrerequisiteError(
			fmt.Sprintf("changelog %s is empty or missing", store.Path),
			"Create the first entry with: autochangelog commit \"<message>\"",
		))
	}

	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputPath, err)
		}
		defer f.Close()
		w = f
	}

	opts := changelog.ExportOptions{Standalone: standalone, Title: title}
	if err := changelog.ExportHTML(content, w, opts); err != nil {
		return err
	}

	if outputPath != "" {
		output.PrintSuccess(cmd.ErrOrStderr(), "Wrote "+outputPath)
	}
	return nil
}
