// Package cli implements the autochangelog command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/autochangelog/internal/changelog"
	"github.com/ariel-frischer/autochangelog/internal/config"
	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/ariel-frischer/autochangelog/internal/git"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Command group IDs used in help output.
const (
	GroupCore          = "core"
	GroupChangelog     = "changelog"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "autochangelog",
	Short: "Commit changes and keep a changelog entry for every commit",
	Long: `autochangelog stages all changes, commits them with your message and
prepends a boxed entry with the author, the affected files and the filtered
diff to CHANGELOG.md. The changelog update is committed right after as
"patch(changelog): update changelog for <message>".`,
	Example: `  # Commit everything and log it
  autochangelog commit "fix: typo"

  # Commit with a description
  autochangelog commit -m "feat: export" -d "Adds HTML export"

  # Show the newest entries
  autochangelog changelog --last 3`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRoot,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Project config file (default: .autochangelog/config.yml)")
	rootCmd.PersistentFlags().String("dir", "", "Directory inside the target repository (default: current directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// Execute runs the root command. Errors that were not already reported are
// printed to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		clierrors.FprintSimpleError(rootCmd.ErrOrStderr(), err, clierrors.Runtime)
	}
	return err
}

func setupRoot(cmd *cobra.Command, _ []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
	setupLogging(debug, cmd.ErrOrStderr())
	return nil
}

// setupLogging routes package debug loggers to the standard logger when
// debug is enabled and silences it otherwise.
func setupLogging(debug bool, w io.Writer) {
	if !debug {
		log.SetOutput(io.Discard)
		git.SetDebugLogger(nil)
		changelog.SetDebugLogger(nil)
		return
	}
	log.SetOutput(w)
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	git.SetDebugLogger(log.Printf)
	changelog.SetDebugLogger(log.Printf)
	log.Printf("[cli] debug logging enabled")
}

// workDir returns the absolute --dir value or the current directory.
func workDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return abs, nil
}

// projectDir returns the repository root containing dir, or dir itself when
// it is not inside a repository.
func projectDir(dir string) string {
	if root, err := git.RepositoryRoot(dir); err == nil {
		return root
	}
	return dir
}

// loadConfig resolves the working and project directories and loads the
// layered configuration for them.
func loadConfig(cmd *cobra.Command) (*config.Configuration, string, error) {
	dir, err := workDir(cmd)
	if err != nil {
		return nil, "", err
	}
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:        projectDir(dir),
		ProjectConfigPath: configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, dir, err
	}
	return cfg, dir, nil
}

// changelogStore opens the document configured for the repository holding dir.
func changelogStore(cfg *config.Configuration, dir string) *changelog.Store {
	path := cfg.ChangelogPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectDir(dir), path)
	}
	return changelog.NewStore(path)
}

// reportError prints err to the command's stderr and returns the ExitError
// that carries its exit code.
func reportError(cmd *cobra.Command, err *clierrors.CLIError) error {
	clierrors.FprintError(cmd.ErrOrStderr(), err)
	return NewExitError(categoryExitCode(err.Category))
}
