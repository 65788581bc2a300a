package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/raveheart1/relkit/internal/config"
	"github.com/raveheart1/relkit/internal/errors"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Inspect and initialize relkit configuration",
	GroupID: GroupConfiguration,
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Write a starter config with the default settings",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := newPrinter()

		path := configFlag
		if path == "" {
			var err error
			path, err = config.UserConfigPath()
			if err != nil {
				return errors.WrapWithMessage(err, errors.Configuration, "locating the config directory")
			}
		}

		if err := config.WriteStarterConfig(path); err != nil {
			return errors.WrapWithMessage(err, errors.Configuration, "writing starter config",
				"Move the existing file aside if you want a fresh one")
		}
		out.Success("Wrote %s", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the effective configuration",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.BugzillaAPIKey != "" {
			cfg.BugzillaAPIKey = "(set)"
		}
		rendered, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("rendering configuration: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(rendered))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
