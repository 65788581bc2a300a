package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/raveheart1/relkit/internal/errors"
	"github.com/raveheart1/relkit/internal/release"
	"github.com/raveheart1/relkit/internal/version"
)

var dotReleaseCmd = &cobra.Command{
	Use:   "dot-release <channel>",
	Short: "Prepare a desktop dot-release RELBRANCH",
	Long: `Prepare a dot release on a desktop channel branch. The channel is
"release" or an ESR train like "esr140".

The command resolves the tag of the last shipped build, branches the
RELBRANCH from it, bumps the version files, and commits. Pushing goes
through Lando; the command to run is printed at the end.`,
	Example: `  relkit dot-release esr140
  relkit dot-release release`,
	Args:         cobra.ExactArgs(1),
	GroupID:      GroupRelease,
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

		var result *release.DotReleaseResult
		err = withSpinner(fmt.Sprintf("Preparing a %s dot release...", args[0]), func() error {
			result, err = o.CutDotRelease(ctx, args[0])
			return err
		})
		if err != nil {
			return dotReleaseError(err, args[0])
		}

		out.Success("Dot release %s prepared on %s", result.NewVersion, result.RelBranch)
		out.Result("Branched from %s (%s)", result.Tag, result.Commit)
		out.Result("Push with: %s", result.LandoCommand)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dotReleaseCmd)
}

// dotReleaseError maps workflow failures to categorized errors with
// channel-specific remediation.
func dotReleaseError(err error, channel string) error {
	var ambiguous *release.AmbiguousTagError
	if errors.As(err, &ambiguous) {
		return clierrors.WrapWithMessage(err, clierrors.Prerequisite,
			"resolving the last shipped release",
			fmt.Sprintf("Check that the tag %s exists on the remote", ambiguous.Tag),
			"Fetch tags manually: git fetch origin --tags")
	}
	var format *version.FormatError
	if errors.As(err, &format) {
		return clierrors.WrapWithMessage(err, clierrors.Prerequisite,
			"reading the channel version",
			"Check the version files of the checkout; the branch may not be a release channel")
	}
	return clierrors.WrapWithMessage(err, clierrors.Runtime,
		fmt.Sprintf("preparing a %s dot release", channel))
}
