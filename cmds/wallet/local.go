package wallet

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/findy-network/findy-wallet/agent/holder"
	"github.com/findy-network/findy-wallet/agent/keychain"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/findy-network/findy-wallet/agent/utils"
	"github.com/findy-network/findy-wallet/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ConnectCmd makes the cloud agent accept an out-of-band invitation.
type ConnectCmd struct {
	CloudAgentURL string
	APIKey        string
	Invitation    string
	Timeout       time.Duration
}

func (c ConnectCmd) Validate() error {
	if err := validateURL(c.CloudAgentURL, "http", "https"); err != nil {
		return err
	}
	if c.Invitation == "" {
		return errors.New("invitation cannot be empty")
	}
	return nil
}

func (c ConnectCmd) Exec(_ io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "connect")

	rc := try.To1(remote.New(remote.Config{
		BaseURL: c.CloudAgentURL,
		APIKey:  c.APIKey,
		Timeout: c.Timeout,
	}))
	ctx := context.Background()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	return cmds.JSONResult{Value: try.To1(rc.AcceptInvitation(ctx, c.Invitation))}, nil
}

// EnclaveCmd is the base of the commands which open the local enclave. The
// daemon must not be running, the enclave file is locked by it.
type EnclaveCmd struct {
	EnclavePath       string
	EnclaveKey        string
	EnclaveBackupName string
}

func (c EnclaveCmd) Validate() error {
	return ValidateEnclaveKey(c.EnclaveKey)
}

func (c EnclaveCmd) path() string {
	if c.EnclavePath == "" {
		return utils.DefaultEnclavePath()
	}
	return c.EnclavePath
}

// FingerprintCmd shows the fingerprint of the wallet seed.
type FingerprintCmd struct {
	EnclaveCmd
}

type FingerprintResult struct {
	Fingerprint string `json:"fingerprint,omitempty"`
	Provisioned bool   `json:"provisioned"`
}

func (r FingerprintResult) JSON() ([]byte, error) {
	return cmds.JSONResult{Value: r}.JSON()
}

func (c FingerprintCmd) Exec(_ io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "fingerprint")

	e := try.To1(OpenEnclave(c.path(), c.EnclaveBackupName, c.EnclaveKey))
	defer e.Close()

	seed, found := try.To2(keychain.New(e).Seed())
	if !found {
		return FingerprintResult{}, nil
	}
	return FingerprintResult{Fingerprint: holder.Fingerprint(seed), Provisioned: true}, nil
}

// ResetCmd destroys the local enclave. The next startup provisions a new
// wallet.
type ResetCmd struct {
	EnclaveCmd
}

func (c ResetCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "reset")

	e := try.To1(OpenEnclave(c.path(), c.EnclaveBackupName, c.EnclaveKey))
	try.To(e.Wipe())
	cmds.Fprintln(w, "wallet reset:", c.path())
	return nil, nil
}
