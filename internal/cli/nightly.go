package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relkit/internal/balrog"
	"github.com/raveheart1/relkit/internal/errors"
)

var nightlyCmd = &cobra.Command{
	Use:     "nightly",
	Short:   "Nightly build health checks",
	GroupID: GroupReporting,
}

var nightlyCheckCmd = &cobra.Command{
	Use:   "check <buildid>",
	Short: "Report nightly builds older than a target buildID",
	Long: `Fetch the latest mozilla-central nightly release blob from Balrog and
list every platform/locale build whose buildID is older than the target.
An empty report means the nightly update snapshot is fully current.`,
	Example:      `  relkit nightly check 20250826090000`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.NewArgumentError(
				fmt.Sprintf("invalid buildID %q: expected a numeric stamp like 20250826090000", args[0]))
		}

		out := newPrinter()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		url := cfg.BalrogURL
		if url == "" {
			url = balrog.DefaultReleaseURL
		}

		var stale []balrog.StaleBuild
		err = withSpinner("Fetching the nightly release blob...", func() error {
			stale, err = balrog.New(url).CheckNightly(cmd.Context(), target)
			return err
		})
		if err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "checking nightly builds")
		}

		if len(stale) == 0 {
			out.Success("All nightly builds are at or past %d", target)
			return nil
		}
		for _, b := range stale {
			out.Result("%s\t%s\t%d", b.Platform, b.Locale, b.BuildID)
		}
		out.Warn("%d builds behind %d", len(stale), target)
		return NewExitError(ExitRuntimeFailed)
	},
}

func init() {
	rootCmd.AddCommand(nightlyCmd)
	nightlyCmd.AddCommand(nightlyCheckCmd)
}
