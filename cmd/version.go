package cmd

import (
	"fmt"
	"runtime"

	"github.com/findy-network/findy-wallet/agent/utils"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var versionDoc = `Prints the version of the wallet and the Go runtime it's built with.`

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version and build information",
	Long:  versionDoc,
	RunE: func(_ *cobra.Command, _ []string) (err error) {
		defer err2.Handle(&err)

		try.To1(fmt.Println("findy-wallet", utils.Version, runtime.Version()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
