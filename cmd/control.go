package cmd

import (
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/cmds/wallet"
	"github.com/spf13/cobra"
)

func apiBase() wallet.APICmd {
	return wallet.APICmd{URL: apiCmd.URL, Timeout: apiCmd.Timeout}
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the status of the wallet",
	Long: `
Prints the status of a running wallet daemon.

Example
	findy-wallet status --api-url http://localhost:8088
	`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, wallet.StatusCmd{APICmd: apiBase()})
	},
}

var startEnvs = map[string]string{
	"wait": "WAIT",
}

var startWait bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts and connects the wallet",
	Long: `
Starts the wallet: provisions the identity, connects to the cloud agent,
creates the issuer DID and the schemas when they don't exist yet. The startup
runs in the daemon and the command returns right away unless --wait is given.

Example
	findy-wallet start --wait
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(startEnvs, "START")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, wallet.StartCmd{APICmd: apiBase(), Wait: startWait})
	},
}

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Stops the wallet and deletes its state",
	Long: `
Stops the wallet and deletes its persisted state from the enclave. The next
start provisions a new wallet.
	`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, wallet.TeardownCmd{APICmd: apiBase()})
	},
}

var offerEnvs = map[string]string{
	"type":   "TYPE",
	"claims": "CLAIMS",
}

var offerCmd = wallet.OfferCmd{}

var credOfferCmd = &cobra.Command{
	Use:   "offer",
	Short: "Asks a credential offer from the cloud agent",
	Long: `
Asks the cloud agent to offer a credential of the type with the claims. The
offer arrives to the wallet which requests and stores the credential.

Example
	findy-wallet offer \
		--type passport \
		--claims '{"name":"Alice","passportNumber":"P1234567","dob":"1990-05-01"}'
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(offerEnvs, "OFFER")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		offerCmd.APICmd = apiBase()
		return run(cmd, offerCmd)
	},
}

var proofEnvs = map[string]string{
	"type": "TYPE",
}

var proofCmd = wallet.ProofCmd{}

var proofReqCmd = &cobra.Command{
	Use:   "proof",
	Short: "Asks a proof request from the cloud agent",
	Long: `
Asks the cloud agent to request a presentation of the credential type from
the wallet. The wallet answers with its stored credential.

Example
	findy-wallet proof --type ticket
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(proofEnvs, "PROOF")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		proofCmd.APICmd = apiBase()
		return run(cmd, proofCmd)
	},
}

func credTypeNames() []string {
	names := make([]string, 0, len(pltype.CredTypes()))
	for _, t := range pltype.CredTypes() {
		names = append(names, t.String())
	}
	return names
}

func init() {
	startCmd.Flags().BoolVar(&startWait, "wait", false, flagInfo("wait until the wallet is ready", "START", startEnvs["wait"]))

	f := credOfferCmd.Flags()
	f.StringVar(&offerCmd.Type, "type", "", flagInfo("credential type", "OFFER", offerEnvs["type"]))
	f.StringVar(&offerCmd.Claims, "claims", "", flagInfo("claims as JSON object", "OFFER", offerEnvs["claims"]))
	_ = credOfferCmd.RegisterFlagCompletionFunc("type", typeCompletion)

	proofReqCmd.Flags().StringVar(&proofCmd.Type, "type", "", flagInfo("credential type", "PROOF", proofEnvs["type"]))
	_ = proofReqCmd.RegisterFlagCompletionFunc("type", typeCompletion)

	rootCmd.AddCommand(statusCmd, startCmd, teardownCmd, credOfferCmd, proofReqCmd)
}

func typeCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return credTypeNames(), cobra.ShellCompDirectiveNoFileComp
}
