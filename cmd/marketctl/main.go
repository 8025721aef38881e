// Command marketctl seeds the marketplace and inspects the listing feed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

var appLogger *logger.Logger

var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "Operate the domain marketplace",
	Long: `marketctl seeds listings into MongoDB and prints feed pages, either from a
locally generated catalog or from a running market service.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if appLogger == nil {
			appLogger = logger.NewLogger()
		}
	},
}

func init() {
	rootCmd.AddCommand(newSeedCmd(), newFeedCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
