package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relkit/internal/config"
	"github.com/raveheart1/relkit/internal/errors"
	"github.com/raveheart1/relkit/internal/release"
)

var mergeDayDateFlag string

var mergeDayCmd = &cobra.Command{
	Use:   "merge-day",
	Short: "Application Services merge-day bookkeeping",
	Long: `Run the Application Services merge-day steps: cut the release branch
for the shipping version, then start the next development cycle on main.

Both subcommands push a work branch to the origin remote and print the
pull request URL to open. Without a version argument the shipping
version is detected from the upstream release-v* branches.`,
	GroupID: GroupRelease,
}

var mergeDayCutCmd = &cobra.Command{
	Use:   "cut [version]",
	Short: "Cut the release branch: strip a1, close out the changelog",
	Example: `  relkit merge-day cut         # detect the version from upstream branches
  relkit merge-day cut 143     # cut release-v143 explicitly`,
	Args:         cobra.MaximumNArgs(1),
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

		major, err := resolveMajor(ctx, o, args)
		if err != nil {
			return err
		}

		var result *release.CutResult
		err = withSpinner(fmt.Sprintf("Cutting release v%d.0...", major), func() error {
			result, err = o.CutRelease(ctx, major, releaseDate(cfg))
			return err
		})
		if err != nil {
			return errors.WrapWithMessage(err, errors.Runtime,
				fmt.Sprintf("cutting release v%d.0", major))
		}

		out.Success("Release v%d.0 cut on %s", major, result.Branch)
		out.Result("Full changelog: %s", result.CompareURL)
		if result.PRURL != "" {
			out.Result("Open a PR: %s", result.PRURL)
		}
		return nil
	},
}

var mergeDayStartCmd = &cobra.Command{
	Use:   "start-next [version]",
	Short: "Start the next cycle: bump to the next a1, open a changelog section",
	Example: `  relkit merge-day start-next       # detect the shipped version
  relkit merge-day start-next 143   # 143 shipped; open 144`,
	Args:         cobra.MaximumNArgs(1),
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

		major, err := resolveMajor(ctx, o, args)
		if err != nil {
			return err
		}

		var result *release.CycleResult
		err = withSpinner(fmt.Sprintf("Starting the v%d.0 cycle...", major+1), func() error {
			result, err = o.StartNextCycle(ctx, major, releaseDate(cfg))
			return err
		})
		if err != nil {
			return errors.WrapWithMessage(err, errors.Runtime,
				fmt.Sprintf("starting the v%d.0 cycle", major+1))
		}

		out.Success("Cycle v%s started on %s", result.Version, result.Branch)
		if result.PRURL != "" {
			out.Result("Open a PR: %s", result.PRURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeDayCmd)
	mergeDayCmd.AddCommand(mergeDayCutCmd)
	mergeDayCmd.AddCommand(mergeDayStartCmd)

	mergeDayCmd.PersistentFlags().StringVar(&mergeDayDateFlag, "date", "",
		"Release date stamp (YYYY-MM-DD, default today in the configured timezone)")
}

// resolveMajor reads the major version from args or detects it from the
// upstream release branches.
func resolveMajor(ctx context.Context, o *release.Orchestrator, args []string) (int, error) {
	if len(args) == 1 {
		major, err := strconv.Atoi(args[0])
		if err != nil || major <= 0 {
			return 0, errors.NewArgumentError(
				fmt.Sprintf("invalid version %q: expected a major version number like 143", args[0]))
		}
		return major, nil
	}

	var major int
	err := withSpinner("Detecting the shipping version...", func() error {
		var err error
		major, err = o.DetectReleaseVersion(ctx)
		return err
	})
	if err != nil {
		return 0, errors.WrapWithMessage(err, errors.Prerequisite,
			"detecting the shipping version",
			"Pass the version explicitly: relkit merge-day cut <version>")
	}
	o.Out.Info("Detected version %d from upstream branches", major)
	return major, nil
}

// releaseDate returns the date stamp for changelog close-outs.
func releaseDate(cfg *config.Configuration) string {
	if mergeDayDateFlag != "" {
		return mergeDayDateFlag
	}
	return cfg.DateStamp(time.Now())
}
