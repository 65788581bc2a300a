package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relkit/internal/errors"
	"github.com/raveheart1/relkit/internal/mobile"
	"github.com/raveheart1/relkit/internal/release"
)

var iosPushFlag bool

var iosCmd = &cobra.Command{
	Use:     "ios",
	Short:   "firefox-ios release bookkeeping",
	GroupID: GroupRelease,
}

var iosMergeDayCmd = &cobra.Command{
	Use:   "merge-day",
	Short: "Cut the release branch and roll the version on main",
	Long: `Run the firefox-ios merge day: cut release/v<current> from the tip of
main, then roll the version on main (X.0 -> X.1 -> X.2 -> X.3 -> X+1.0)
and commit the bump.

Nothing is pushed unless --push is set.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := newPrinter()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		o, err := newOrchestrator(cfg, out)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd.Context(), cfg)
		defer cancel()

		var result *release.IOSResult
		err = withSpinner("Running iOS merge day...", func() error {
			result, err = o.IOSMergeDay(ctx, iosPushFlag)
			return err
		})
		if err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "iOS merge day")
		}

		out.Success("Branch %s cut; main now at %s", result.ReleaseBranch, result.Next)
		if !result.Pushed {
			out.Result("Nothing pushed. Re-run with --push, or push %s and main yourself.",
				result.ReleaseBranch)
		}
		return nil
	},
}

var iosSetVersionCmd = &cobra.Command{
	Use:   "set-version <version>",
	Short: "Set the app version in bitrise.yml and the version file",
	Example: `  relkit ios set-version 143.0
  relkit ios set-version 142.1`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := newPrinter()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		o, err := newOrchestrator(cfg, out)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd.Context(), cfg)
		defer cancel()

		bumper := &mobile.Bumper{Repo: o.Repo, FS: o.FS, Cfg: cfg, Out: out}
		result, err := bumper.SetVersion(ctx, args[0])
		if err != nil {
			return errors.WrapWithMessage(err, errors.Runtime,
				fmt.Sprintf("setting version to %s", args[0]))
		}

		out.Success("Version set to %s (%d substitutions)", result.Version, result.Replacements)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(iosCmd)
	iosCmd.AddCommand(iosMergeDayCmd)
	iosCmd.AddCommand(iosSetVersionCmd)

	iosMergeDayCmd.Flags().BoolVar(&iosPushFlag, "push", false, "Push the release branch and main to origin")
}
