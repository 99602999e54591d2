package cmd

import (
	"github.com/findy-network/findy-wallet/cmds/wallet"
	"github.com/spf13/cobra"
)

// EnclaveCmd represents the enclave command
var EnclaveCmd = &cobra.Command{
	Use:   "enclave",
	Short: "Parent command for the local enclave",
	Long: `
Parent command for the commands which open the local enclave. The wallet
daemon must not be running, it holds the enclave file.
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(enclaveEnvs, "")
	},
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var enclaveEnvs = map[string]string{
	"enclave-path":   "ENCLAVE_PATH",
	"enclave-key":    "ENCLAVE_KEY",
	"enclave-backup": "ENCLAVE_BACKUP",
}

var eCmd = wallet.EnclaveCmd{}

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint",
	Short: "Prints the fingerprint of the wallet seed",
	Long: `
Prints the base58 fingerprint of the wallet seed's hash. The seed itself is
never shown.
	`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, wallet.FingerprintCmd{EnclaveCmd: eCmd})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Destroys the local enclave",
	Long: `
Destroys the local enclave file. The backups are left as they are. The next
start provisions a new wallet.
	`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, wallet.ResetCmd{EnclaveCmd: eCmd})
	},
}

func init() {
	flags := EnclaveCmd.PersistentFlags()
	flags.StringVar(&eCmd.EnclavePath, "enclave-path", "", flagInfo("Enclave full file name", "", enclaveEnvs["enclave-path"]))
	flags.StringVar(&eCmd.EnclaveKey, "enclave-key", "", flagInfo("SHA-256 32 bytes in hex ascii", "", enclaveEnvs["enclave-key"]))
	flags.StringVar(&eCmd.EnclaveBackupName, "enclave-backup", "", flagInfo("Base name for enclave backup file", "", enclaveEnvs["enclave-backup"]))

	rootCmd.AddCommand(EnclaveCmd)
	EnclaveCmd.AddCommand(fingerprintCmd, resetCmd)
}
