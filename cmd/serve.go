package cmd

import (
	"log"

	"github.com/findy-network/findy-wallet/cmds/wallet"
	"github.com/lainio/err2"
	"github.com/spf13/cobra"
)

var serveEnvs = map[string]string{
	"cloud-agent-url":     "CLOUD_AGENT_URL",
	"api-key":             "API_KEY",
	"schema-base-url":     "SCHEMA_BASE_URL",
	"label":               "LABEL",
	"domain":              "DOMAIN",
	"sidecar-url":         "SIDECAR_URL",
	"enclave-path":        "ENCLAVE_PATH",
	"enclave-key":         "ENCLAVE_KEY",
	"enclave-backup":      "ENCLAVE_BACKUP",
	"enclave-backup-time": "ENCLAVE_BACKUP_TIME",
	"server-port":         "SERVER_PORT",
	"allowed-origins":     "ALLOWED_ORIGINS",
	"auto-start":          "AUTO_START",
	"poll-interval":       "POLL_INTERVAL",
	"publish-timeout":     "PUBLISH_TIMEOUT",
	"shutdown-timeout":    "SHUTDOWN_TIMEOUT",
	"request-timeout":     "REQUEST_TIMEOUT",
	"queue-size":          "QUEUE_SIZE",
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the wallet daemon",
	Long: `
Runs the wallet daemon until it's interrupted. The daemon opens the enclave,
serves the control API, and backs the enclave up daily. With --auto-start it
provisions and connects the wallet right away, otherwise the UI starts it
through the control API.

Example
	findy-wallet serve \
		--cloud-agent-url http://localhost:8085/cloud-agent \
		--sidecar-url ws://localhost:8090/ws \
		--enclave-key 15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(serveEnvs, "")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, &sCmd)
	},
}

var sCmd = wallet.DefaultValues

func init() {
	defer err2.Catch(func(err error) {
		log.Println(err)
	})

	flags := serveCmd.Flags()
	flags.StringVar(&sCmd.CloudAgentURL, "cloud-agent-url", "", flagInfo("cloud agent API base URL", "", serveEnvs["cloud-agent-url"]))
	flags.StringVar(&sCmd.APIKey, "api-key", "", flagInfo("cloud agent API key", "", serveEnvs["api-key"]))
	flags.StringVar(&sCmd.SchemaBaseURL, "schema-base-url", "", flagInfo("base URL of schema ids, cloud agent URL if empty", "", serveEnvs["schema-base-url"]))
	flags.StringVar(&sCmd.Label, "label", sCmd.Label, flagInfo("label of the cloud agent connection", "", serveEnvs["label"]))
	flags.StringVar(&sCmd.Domain, "domain", "", flagInfo("domain of the proof requests, label if empty", "", serveEnvs["domain"]))
	flags.StringVar(&sCmd.SidecarURL, "sidecar-url", sCmd.SidecarURL, flagInfo("Messaging Agent sidecar websocket URL", "", serveEnvs["sidecar-url"]))
	flags.StringVar(&sCmd.EnclavePath, "enclave-path", "", flagInfo("Enclave full file name", "", serveEnvs["enclave-path"]))
	flags.StringVar(&sCmd.EnclaveKey, "enclave-key", "", flagInfo("SHA-256 32 bytes in hex ascii", "", serveEnvs["enclave-key"]))
	flags.StringVar(&sCmd.EnclaveBackupName, "enclave-backup", "", flagInfo("Base name for enclave backup file", "", serveEnvs["enclave-backup"]))
	flags.StringVar(&sCmd.EnclaveBackupTime, "enclave-backup-time", sCmd.EnclaveBackupTime, flagInfo("Time to start enclave backup in HH:MM[:SS], empty disables", "", serveEnvs["enclave-backup-time"]))
	flags.UintVar(&sCmd.ServerPort, "server-port", sCmd.ServerPort, flagInfo("control API port", "", serveEnvs["server-port"]))
	flags.StringSliceVar(&sCmd.AllowedOrigins, "allowed-origins", nil, flagInfo("UI origins allowed by CORS, all if empty", "", serveEnvs["allowed-origins"]))
	flags.BoolVar(&sCmd.AutoStart, "auto-start", false, flagInfo("start and connect the wallet at launch", "", serveEnvs["auto-start"]))
	flags.DurationVar(&sCmd.PollInterval, "poll-interval", sCmd.PollInterval, flagInfo("issuer DID publication poll interval", "", serveEnvs["poll-interval"]))
	flags.DurationVar(&sCmd.PublishTimeout, "publish-timeout", 0, flagInfo("issuer DID publication timeout, zero waits forever", "", serveEnvs["publish-timeout"]))
	flags.DurationVar(&sCmd.ShutdownTimeout, "shutdown-timeout", sCmd.ShutdownTimeout, flagInfo("graceful shutdown timeout", "", serveEnvs["shutdown-timeout"]))
	flags.DurationVar(&sCmd.RequestTimeout, "request-timeout", sCmd.RequestTimeout, flagInfo("cloud agent and sidecar request timeout", "", serveEnvs["request-timeout"]))
	flags.IntVar(&sCmd.QueueSize, "queue-size", sCmd.QueueSize, flagInfo("inbound message queue size", "", serveEnvs["queue-size"]))

	rootCmd.AddCommand(serveCmd)
}
