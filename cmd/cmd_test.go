package cmd

import (
	"os"
	"testing"
)

const enclaveKey = "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c"

func TestExecute(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name string
		args []string
		ok   bool
	}{
		{
			name: "serve",
			args: []string{"cmd",
				"serve", "--dry-run",
				"--cloud-agent-url", "http://localhost:8085/cloud-agent",
				"--sidecar-url", "ws://localhost:8090/ws",
				"--enclave-key", enclaveKey,
				"--allowed-origins", "http://localhost:3000,http://localhost:3001",
			},
			ok: true,
		},
		{
			name: "serve without cloud agent",
			args: []string{"cmd",
				"serve", "--dry-run",
				"--cloud-agent-url", "",
			},
		},
		{
			name: "serve bad backup time",
			args: []string{"cmd",
				"serve", "--dry-run",
				"--cloud-agent-url", "http://localhost:8085",
				"--enclave-backup-time", "3 am",
			},
		},
		{
			name: "status",
			args: []string{"cmd", "status", "--dry-run"},
			ok:   true,
		},
		{
			name: "start",
			args: []string{"cmd", "start", "--dry-run", "--wait"},
			ok:   true,
		},
		{
			name: "teardown",
			args: []string{"cmd", "teardown", "--dry-run", "--api-url", "http://wallet:8088"},
			ok:   true,
		},
		{
			name: "offer",
			args: []string{"cmd",
				"offer", "--dry-run",
				"--type", "passport",
				"--claims", `{"name":"Alice","passportNumber":"P1234567","dob":"1990-05-01"}`,
			},
			ok: true,
		},
		{
			name: "offer unknown type",
			args: []string{"cmd",
				"offer", "--dry-run",
				"--type", "visa",
				"--claims", `{"name":"Alice"}`,
			},
		},
		{
			name: "proof",
			args: []string{"cmd", "proof", "--dry-run", "--type", "ticket"},
			ok:   true,
		},
		{
			name: "connect",
			args: []string{"cmd",
				"connect", "--dry-run",
				"--cloud-agent-url", "http://localhost:8085/cloud-agent",
				"https://my.domain.com/path?_oob=eyJ0eXBlIjoi",
			},
			ok: true,
		},
		{
			name: "enclave fingerprint",
			args: []string{"cmd",
				"enclave", "fingerprint", "--dry-run",
				"--enclave-key", enclaveKey,
			},
			ok: true,
		},
		{
			name: "tree",
			args: []string{"cmd", "tree", "enclave"},
			ok:   true,
		},
		{
			name: "enclave reset bad key",
			args: []string{"cmd",
				"enclave", "reset", "--dry-run",
				"--enclave-key", "1234",
			},
		},
	}

	for _, test := range tests {
		os.Args = test.args
		rootCmd.SilenceUsage = true
		rootCmd.SilenceErrors = true

		t.Run(test.name, func(t *testing.T) {
			err := rootCmd.Execute()
			if test.ok && err != nil {
				t.Errorf("Test error = %v", err)
			}
			if !test.ok && err == nil {
				t.Error("Test error expected")
			}
		})
	}
}
