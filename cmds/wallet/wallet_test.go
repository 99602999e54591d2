package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/findy-network/findy-wallet/agent/holder"
	"github.com/findy-network/findy-wallet/agent/keychain"
	"github.com/findy-network/findy-wallet/cmds"
	"github.com/lainio/err2/assert"
)

const hexKey = "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c"

func validCmd() Cmd {
	c := DefaultValues
	c.CloudAgentURL = "http://localhost:8085/cloud-agent"
	c.EnclaveKey = hexKey
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Cmd)
		ok   bool
	}{
		{"defaults", func(*Cmd) {}, true},
		{"no cloud agent", func(c *Cmd) { c.CloudAgentURL = "" }, false},
		{"relative cloud agent", func(c *Cmd) { c.CloudAgentURL = "localhost:8085" }, false},
		{"ws cloud agent", func(c *Cmd) { c.CloudAgentURL = "ws://localhost:8085" }, false},
		{"http sidecar", func(c *Cmd) { c.SidecarURL = "http://localhost:8090/ws" }, false},
		{"wss sidecar", func(c *Cmd) { c.SidecarURL = "wss://sidecar.example/ws" }, true},
		{"schema base", func(c *Cmd) { c.SchemaBaseURL = "https://agent.example" }, true},
		{"bad schema base", func(c *Cmd) { c.SchemaBaseURL = "agent.example" }, false},
		{"short key", func(c *Cmd) { c.EnclaveKey = "abcd" }, false},
		{"no key", func(c *Cmd) { c.EnclaveKey = "" }, true},
		{"bad backup time", func(c *Cmd) { c.EnclaveBackupTime = "25:00" }, false},
		{"no backup", func(c *Cmd) { c.EnclaveBackupTime = "" }, true},
		{"no port", func(c *Cmd) { c.ServerPort = 0 }, false},
		{"negative queue", func(c *Cmd) { c.QueueSize = -1 }, false},
		{"negative poll", func(c *Cmd) { c.PollInterval = -time.Second }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			c := validCmd()
			tt.edit(&c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(err)
			} else {
				assert.Error(err)
			}
		})
	}
}

func TestFingerprintAndReset(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	path := filepath.Join(t.TempDir(), "wallet", "enclave.bolt")
	base := EnclaveCmd{EnclavePath: path, EnclaveKey: hexKey}

	r, err := FingerprintCmd{base}.Exec(nil)
	assert.NoError(err)
	assert.Equal(r.(FingerprintResult).Provisioned, false)

	seed := bytes.Repeat([]byte{7}, keychain.SeedLength)
	e, err := OpenEnclave(path, "", hexKey)
	assert.NoError(err)
	assert.NoError(keychain.New(e).SetSeed(seed))
	assert.NoError(e.Close())

	r, err = FingerprintCmd{base}.Exec(nil)
	assert.NoError(err)
	fp := r.(FingerprintResult)
	assert.That(fp.Provisioned)
	assert.Equal(fp.Fingerprint, holder.Fingerprint(seed))

	var out bytes.Buffer
	_, err = ResetCmd{base}.Exec(&out)
	assert.NoError(err)
	assert.That(strings.Contains(out.String(), path))

	r, err = FingerprintCmd{base}.Exec(nil)
	assert.NoError(err)
	assert.Equal(r.(FingerprintResult).Provisioned, false)
}

// daemon answers like the control API of a running wallet.
func daemon(t *testing.T) (*httptest.Server, func() []string) {
	var (
		l     sync.Mutex
		calls []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.Lock()
		calls = append(calls, r.Method+" "+r.URL.RequestURI())
		l.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/status", "/teardown":
			_, _ = io.WriteString(w, `{"phase":"Disconnected","message":"Disconnected"}`)
		case "/startup":
			_, _ = io.WriteString(w, `{"phase":"Ready","message":"Ready"}`)
		case "/credentials/passport/offers":
			var m map[string]any
			_ = json.NewDecoder(r.Body).Decode(&m)
			if m["name"] != "Alice" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"error":"claims"}`)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"recordId":"rec-1","thid":"T1"}`)
		case "/proofs/ticket":
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"error":"wallet isn't started"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		l.Lock()
		defer l.Unlock()
		return append([]string(nil), calls...)
	}
}

func TestAPICommands(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	srv, calls := daemon(t)
	api := APICmd{URL: srv.URL, Timeout: time.Second}

	var b bytes.Buffer
	r, err := StatusCmd{api}.Exec(nil)
	assert.NoError(err)
	assert.NoError(cmds.PrintResult(&b, r))
	assert.That(strings.Contains(b.String(), `"phase": "Disconnected"`))

	r, err = StartCmd{APICmd: api, Wait: true}.Exec(nil)
	assert.NoError(err)
	b.Reset()
	assert.NoError(cmds.PrintResult(&b, r))
	assert.That(strings.Contains(b.String(), `"phase": "Ready"`))

	_, err = TeardownCmd{api}.Exec(nil)
	assert.NoError(err)

	offer := OfferCmd{APICmd: api, Type: "Passport", Claims: `{"name":"Alice"}`}
	assert.NoError(offer.Validate())
	r, err = offer.Exec(nil)
	assert.NoError(err)
	b.Reset()
	assert.NoError(cmds.PrintResult(&b, r))
	assert.That(strings.Contains(b.String(), `"T1"`))

	offer.Claims = `{"name":"Bob"}`
	_, err = offer.Exec(nil)
	assert.Error(err)

	_, err = ProofCmd{APICmd: api, Type: "ticket"}.Exec(nil)
	assert.Error(err)
	assert.That(strings.Contains(err.Error(), "isn't started"))

	assert.DeepEqual(calls(), []string{
		"GET /status",
		"POST /startup?wait=true",
		"POST /teardown",
		"POST /credentials/passport/offers",
		"POST /credentials/passport/offers",
		"POST /proofs/ticket",
	})
}

func TestAPIValidate(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	api := APICmd{URL: "http://localhost:8088"}
	assert.NoError(api.Validate())
	assert.Error(APICmd{URL: "localhost:8088"}.Validate())
	assert.Error(OfferCmd{APICmd: api, Type: "visa", Claims: `{}`}.Validate())
	assert.Error(OfferCmd{APICmd: api, Type: "ticket"}.Validate())
	assert.Error(OfferCmd{APICmd: api, Type: "ticket", Claims: `[1]`}.Validate())
	assert.Error(ProofCmd{APICmd: api, Type: ""}.Validate())
	assert.NoError(ProofCmd{APICmd: api, Type: "passport"}.Validate())
	assert.Error(ConnectCmd{CloudAgentURL: "http://localhost:8085"}.Validate())
}

func TestRunStops(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	c := validCmd()
	c.EnclavePath = filepath.Join(t.TempDir(), "enclave.bolt")
	c.ServerPort = 0
	c.EnclaveBackupTime = ""

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	var out bytes.Buffer
	assert.NoError(c.Run(ctx, &out))
	assert.That(strings.Contains(out.String(), "control API"))
}
