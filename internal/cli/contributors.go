package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relkit/internal/bugzilla"
	"github.com/raveheart1/relkit/internal/errors"
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors <version>",
	Short: "List first-time Desktop Firefox contributors for a release",
	Long: `Search Bugzilla for accounts whose first fixed Desktop Firefox bug
landed in the given major version and print the welcome announcement
published with the release notes.

Assignees with a staff address, members of the employee group, and
accounts with an earlier fix on record are filtered out. The Bugzilla
API key comes from bugzilla_api_key in the config or the
RELKIT_BUGZILLA_API_KEY environment variable.`,
	Example:      `  relkit contributors 143`,
	GroupID:      GroupReporting,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		major, err := strconv.Atoi(args[0])
		if err != nil || major <= 0 {
			return errors.NewArgumentError(
				fmt.Sprintf("invalid version %q: expected a major version like 143", args[0]))
		}

		out := newPrinter()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.BugzillaAPIKey == "" {
			return errors.NewConfigError("no Bugzilla API key configured",
				"Set bugzilla_api_key in ~/.config/relkit/config.yml",
				"Or export RELKIT_BUGZILLA_API_KEY")
		}

		var contributors []bugzilla.Contributor
		err = withSpinner(fmt.Sprintf("Checking Firefox %d contributors...", major), func() error {
			contributors, err = bugzilla.New(cfg.BugzillaAPIKey).
				NewContributors(cmd.Context(), major)
			return err
		})
		if err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "querying Bugzilla")
		}

		if len(contributors) == 0 {
			out.Warn("No new contributors found for Firefox %d", major)
			return nil
		}
		out.Result("%s", bugzilla.Announcement(major, contributors))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contributorsCmd)
}
