package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relkit/internal/bugzilla"
	"github.com/raveheart1/relkit/internal/errors"
)

var metricsCSVFlag bool

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Run the release-health Bugzilla count queries",
	Long: `Run the fixed set of release-health count queries against Bugzilla and
print the results. The queries run concurrently; results keep the
fixed column order of the report spreadsheet.

The Bugzilla API key comes from bugzilla_api_key in the config or the
RELKIT_BUGZILLA_API_KEY environment variable.`,
	Example: `  relkit metrics
  relkit metrics --csv      # counts only, comma separated`,
	GroupID:      GroupReporting,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		var counts []bugzilla.Count
		err = withSpinner("Running Bugzilla queries...", func() error {
			counts, err = bugzilla.New(cfg.BugzillaAPIKey).
				Counts(cmd.Context(), bugzilla.ReleaseHealthQueries)
			return err
		})
		if err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "querying Bugzilla")
		}

		if metricsCSVFlag {
			cells := make([]string, len(counts))
			for i, c := range counts {
				cells[i] = strconv.Itoa(c.Count)
			}
			out.Result("%s", strings.Join(cells, ","))
			return nil
		}

		for _, c := range counts {
			out.Result("%-45s %d", c.Name, c.Count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.Flags().BoolVar(&metricsCSVFlag, "csv", false, "Print counts only, comma separated")
}
