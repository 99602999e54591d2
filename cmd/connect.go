package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/findy-network/findy-wallet/cmds/wallet"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var connectEnvs = map[string]string{
	"cloud-agent-url": "CLOUD_AGENT_URL",
	"api-key":         "API_KEY",
}

var connectCmd = &cobra.Command{
	Use:   "connect [invitation URL|-]",
	Short: "Makes the cloud agent accept an invitation",
	Long: `
Makes the cloud agent accept an out-of-band invitation, e.g. to connect it to
another agent. The invitation is given as an argument or read from standard
input when the argument is -.

Example
	findy-wallet connect \
		--cloud-agent-url http://localhost:8085/cloud-agent \
		'https://my.domain.com/path?_oob=eyJ...'
	`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(connectEnvs, "")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		cCmd.Invitation = args[0]
		if args[0] == "-" {
			cCmd.Invitation = strings.TrimSpace(string(try.To1(io.ReadAll(os.Stdin))))
		}
		cCmd.Timeout = apiCmd.Timeout
		return run(cmd, cCmd)
	},
}

var cCmd = wallet.ConnectCmd{}

func init() {
	flags := connectCmd.Flags()
	flags.StringVar(&cCmd.CloudAgentURL, "cloud-agent-url", "", flagInfo("cloud agent API base URL", "", connectEnvs["cloud-agent-url"]))
	flags.StringVar(&cCmd.APIKey, "api-key", "", flagInfo("cloud agent API key", "", connectEnvs["api-key"]))

	rootCmd.AddCommand(connectCmd)
}
