// Package cli wires the relkit commands. Commands register themselves on
// rootCmd in init(); Execute is the single entry point.
package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relkit/internal/errors"
	"github.com/raveheart1/relkit/internal/output"
)

// Command groups shown in help output.
const (
	GroupRelease       = "release"
	GroupReporting     = "reporting"
	GroupConfiguration = "configuration"
)

var (
	configFlag  string
	verboseFlag bool
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "relkit",
	Short: "Release bookkeeping for the Firefox trains",
	Long: `relkit automates the repetitive bookkeeping of Firefox release management:
merge-day version bumps and changelog edits for Application Services,
ESR and Release dot-release branches for desktop, and the rolling
version scheme of firefox-ios.

All commands operate on the git checkout of the current directory.`,
	Example: `  relkit merge-day cut              # cut the next release branch
  relkit merge-day start-next       # open the next development cycle
  relkit dot-release esr140         # prepare an ESR dot release
  relkit ios merge-day --push       # firefox-ios merge day
  relkit nightly check 20250826090000
  relkit metrics
  relkit contributors 143`,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupReporting, Title: "Reporting Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to project config file (default .relkit/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only print results and errors")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// Execute runs the root command and renders any error it returns. The
// returned code is the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func printError(err error) {
	fprintError(os.Stderr, err)
}

func fprintError(w io.Writer, err error) {
	// An ExitError only carries a process exit code; the command has
	// already reported whatever it found.
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return
	}
	if cliErr := errors.AsCLIError(err); cliErr != nil {
		if output.IsTTY() {
			fmt.Fprintln(w, errors.FormatError(cliErr))
		} else {
			fmt.Fprintln(w, errors.FormatErrorPlain(cliErr))
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// verbosity maps the global flags to a printer level.
func verbosity() output.Verbosity {
	switch {
	case quietFlag:
		return output.Quiet
	case verboseFlag:
		return output.Verbose
	default:
		return output.Normal
	}
}

func newPrinter() *output.Printer {
	return output.New(verbosity())
}
