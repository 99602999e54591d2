package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/cmds"
	"github.com/findy-network/findy-wallet/server"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// APICmd is the base of the commands which call a running wallet daemon.
type APICmd struct {
	URL     string
	Timeout time.Duration
}

func (c APICmd) Validate() error {
	if err := validateURL(c.URL, "http", "https"); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	return nil
}

func (c APICmd) client() (*server.Client, error) {
	return server.NewClient(c.URL, c.Timeout)
}

func (c APICmd) context() (context.Context, context.CancelFunc) {
	if c.Timeout == 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

type StatusCmd struct {
	APICmd
}

func (c StatusCmd) Exec(_ io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "status")

	cl := try.To1(c.client())
	ctx, cancel := c.context()
	defer cancel()
	return cmds.JSONResult{Value: try.To1(cl.Status(ctx))}, nil
}

// StartCmd starts the wallet. With Wait it returns after the startup is
// ready.
type StartCmd struct {
	APICmd
	Wait bool
}

func (c StartCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "start")

	cl := try.To1(c.client())
	ctx, cancel := c.context()
	defer cancel()

	var st server.Status
	if c.Wait {
		done := cmds.Progress(w)
		st, err = cl.StartUp(ctx, true)
		close(done)
		cmds.Fprintln(w)
		try.To(err)
	} else {
		st = try.To1(cl.StartUp(ctx, false))
	}
	return cmds.JSONResult{Value: st}, nil
}

type TeardownCmd struct {
	APICmd
}

func (c TeardownCmd) Exec(_ io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "teardown")

	cl := try.To1(c.client())
	ctx, cancel := c.context()
	defer cancel()
	return cmds.JSONResult{Value: try.To1(cl.TearDown(ctx))}, nil
}

// OfferCmd asks an offer of the credential type. Claims is a JSON object.
type OfferCmd struct {
	APICmd
	Type   string
	Claims string
}

func (c OfferCmd) Validate() error {
	if err := c.APICmd.Validate(); err != nil {
		return err
	}
	if _, err := pltype.ParseCredType(c.Type); err != nil {
		return err
	}
	if _, err := c.claims(); err != nil {
		return err
	}
	return nil
}

func (c OfferCmd) claims() (m map[string]any, err error) {
	if c.Claims == "" {
		return nil, errors.New("claims cannot be empty")
	}
	if err := json.Unmarshal([]byte(c.Claims), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c OfferCmd) Exec(_ io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "credential offer")

	t := try.To1(pltype.ParseCredType(c.Type))
	m := try.To1(c.claims())
	cl := try.To1(c.client())
	ctx, cancel := c.context()
	defer cancel()
	return cmds.JSONResult{Value: try.To1(cl.RequestOffer(ctx, t, m))}, nil
}

type ProofCmd struct {
	APICmd
	Type string
}

func (c ProofCmd) Validate() error {
	if err := c.APICmd.Validate(); err != nil {
		return err
	}
	_, err := pltype.ParseCredType(c.Type)
	return err
}

func (c ProofCmd) Exec(_ io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "proof request")

	t := try.To1(pltype.ParseCredType(c.Type))
	cl := try.To1(c.client())
	ctx, cancel := c.context()
	defer cancel()
	return cmds.JSONResult{Value: try.To1(cl.RequestProof(ctx, t))}, nil
}
