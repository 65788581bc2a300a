package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relkit/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the relkit version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Summary())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
