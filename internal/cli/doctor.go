package cli

import (
	"context"
	"fmt"

	"github.com/ariel-frischer/autochangelog/internal/config"
	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/ariel-frischer/autochangelog/internal/git"
	"github.com/ariel-frischer/autochangelog/internal/health"
	"github.com/ariel-frischer/autochangelog/internal/output"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that git, the repository and the changelog are ready",
	Long: `Run health checks without committing anything:
  - the configured git executable is on PATH
  - the directory is inside a git work tree
  - git config user.email is set
  - the changelog file can be written`,
	Example: `  autochangelog doctor
  autochangelog doctor --dir ../other-repo`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}
	output.PrintSuccess(cmd.OutOrStdout(), "Configuration: valid")
	printLegacyConfigHint(cmd, dir)

	runner, err := git.NewExecRunner(cfg.GitCommand)
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report := health.RunHealthChecks(ctx, health.Options{
		Runner:        runner,
		Dir:           dir,
		ChangelogPath: cfg.ChangelogPath,
	})
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

	if !report.Passed {
		return NewExitError(ExitMissingDependencies)
	}
	return nil
}

// printLegacyConfigHint points at JSON config files that still load but
// should be migrated to YAML.
func printLegacyConfigHint(cmd *cobra.Command, dir string) {
	userJSON, projectJSON, err := config.DetectLegacyConfigs(projectDir(dir))
	if err != nil {
		return
	}
	for _, path := range []string{userJSON, projectJSON} {
		if path != "" {
			output.PrintDetail(cmd.OutOrStdout(),
				fmt.Sprintf("legacy JSON config %s: run 'autochangelog config migrate'", path))
		}
	}
}
