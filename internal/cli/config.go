package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/autochangelog/internal/config"
	clierrors "github.com/ariel-frischer/autochangelog/internal/errors"
	"github.com/ariel-frischer/autochangelog/internal/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage autochangelog configuration",
	Long: `Manage autochangelog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (AUTOCHANGELOG_*)
  2. Project config (.autochangelog/config.yml)
  3. User config (~/.config/autochangelog/config.yml)
  4. Built-in defaults`,
	Example: `  # Show current configuration
  autochangelog config show

  # Set a configuration value
  autochangelog config set changelog_path docs/CHANGELOG.md

  # List every key
  autochangelog config keys`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration and where each value comes from",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in the project or user config file",
	Example: `  autochangelog config set command_timeout 1m
  autochangelog config set notifications.enabled true --user`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all configuration keys with their types and defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert legacy JSON configuration to YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigMigrate,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configKeysCmd, configInitCmd, configMigrateCmd)

	configShowCmd.Flags().Bool("json", false, "Output in JSON format")

	configSetCmd.Flags().Bool("user", false, "Write to the user config instead of the project config")
	configInitCmd.Flags().Bool("user", false, "Create the user config instead of the project config")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	configMigrateCmd.Flags().Bool("user", false, "Migrate the user config")
	configMigrateCmd.Flags().Bool("project", false, "Migrate the project config")
	configMigrateCmd.Flags().Bool("dry-run", false, "Report what would change without writing")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}
	configPath, _ := cmd.Flags().GetString("config")
	sources, err := config.LoadSources(config.LoadOptions{
		ProjectDir:        projectDir(dir),
		ProjectConfigPath: configPath,
	})
	if err != nil {
		return reportError(cmd, clierrors.InvalidConfig(err))
	}

	out := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Config  *config.Configuration          `json:"config"`
			Sources map[string]config.ConfigSource `json:"sources"`
		}{cfg, sources})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	fmt.Fprintln(out, string(data))

	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintln(out, "Configuration Sources:")
	for _, key := range config.SortedKeys() {
		fmt.Fprintf(out, "  %-28s %s\n", key, dim(string(sources[key])))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	path, err := targetConfigPath(cmd)
	if err != nil {
		return err
	}

	if err := config.SetConfigValue(path, key, value); err != nil {
		var unknown config.ErrUnknownKey
		if errors.As(err, &unknown) {
			return reportError(cmd, clierrors.UnknownConfigKey(unknown.Key))
		}
		return reportError(cmd, clierrors.WrapWithMessage(err, clierrors.Argument,
			fmt.Sprintf("cannot set %s to %q", key, value),
			"Run 'autochangelog config keys' to see the expected type"))
	}

	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Set %s = %s in %s", key, value, path))
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		fmt.Fprintf(out, "%-28s %-9s default=%v\n", key, schema.Type, schema.Default)
		if len(schema.AllowedValues) > 0 {
			fmt.Fprintf(out, "%-28s allowed: %v\n", "", schema.AllowedValues)
		}
		fmt.Fprintf(out, "%-28s %s\n", "", schema.Description)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := targetConfigPath(cmd)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return reportError(cmd, clierrors.NewArgumentError(
			fmt.Sprintf("config file already exists: %s", path),
			"Use --force to overwrite it",
		))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	output.PrintSuccess(cmd.OutOrStdout(), "Created "+path)
	return nil
}

func runConfigMigrate(cmd *cobra.Command, _ []string) error {
	user, _ := cmd.Flags().GetBool("user")
	project, _ := cmd.Flags().GetBool("project")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if !user && !project {
		user, project = true, true
	}

	dir, err := workDir(cmd)
	if err != nil {
		return err
	}
	root := projectDir(dir)

	var results []*config.MigrationResult
	if user {
		res, err := config.MigrateUserConfig(dryRun)
		if err != nil {
			return reportError(cmd, clierrors.InvalidConfig(err))
		}
		results = append(results, res)
	}
	if project {
		res, err := config.MigrateProjectConfig(root, dryRun)
		if err != nil {
			return reportError(cmd, clierrors.InvalidConfig(err))
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		fmt.Fprintln(out, res.Message)
		if res.Success && !res.DryRun {
			if err := config.RemoveLegacyConfig(res.SourcePath, dryRun); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				continue
			}
			output.PrintDetail(out, fmt.Sprintf("Legacy file kept as %s.bak", res.SourcePath))
		}
	}
	return nil
}

// targetConfigPath returns the user config path with --user, otherwise the
// project config path (or --config when given).
func targetConfigPath(cmd *cobra.Command) (string, error) {
	if user, _ := cmd.Flags().GetBool("user"); user {
		return config.UserConfigPath()
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	dir, err := workDir(cmd)
	if err != nil {
		return "", err
	}
	return filepath.Join(projectDir(dir), config.ProjectConfigPath()), nil
}
