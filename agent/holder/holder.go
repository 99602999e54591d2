/*
Package holder is the wallet's orchestrator. An Agent owns the holder's
persisted state, the Messaging Agent, the inbound dispatcher, and both
credential protocol state machines. The UI drives it with StartUpAndConnect,
TearDown, RequestCredentialOffer, and RequestProof, and observes it through
its status.

StartUpAndConnect is idempotent: every step checks the persisted state first
and is skipped when it was already done by an earlier run. A failing step
stops the startup without rolling the earlier steps back.
*/
package holder

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"

	"github.com/findy-network/findy-wallet/agent/keychain"
	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/agent/prot"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/findy-network/findy-wallet/agent/status"
	"github.com/findy-network/findy-wallet/agent/watcher"
	"github.com/findy-network/findy-wallet/protocol/issuecredential"
	"github.com/findy-network/findy-wallet/protocol/presentproof"
	"github.com/golang/glog"
	"github.com/lainio/err2/assert"
	"github.com/mr-tron/base58"
)

// Defaults of the Config.
const (
	DefaultLabel           = "findy-wallet"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config of the Agent.
type Config struct {
	// Label is the label of our connection to the cloud agent
	Label string

	// SchemaBaseURL is the root of the schema id URLs. Usually it's the cloud
	// agent's base URL.
	SchemaBaseURL string

	// Domain of the proof requests, Label if empty
	Domain string

	PollInterval   time.Duration
	PublishTimeout time.Duration

	ShutdownTimeout time.Duration
	SendTimeout     time.Duration
	QueueSize       int
}

// Deps are the collaborators of the Agent.
type Deps struct {
	Store     keychain.Store
	Remote    remote.Client
	Messaging messaging.Agent

	// Status is optional, the Agent has its own if it's nil
	Status *status.Publisher
}

// Agent is the orchestrator. Use New to create one.
type Agent struct {
	cfg    Config
	keys   *keychain.Keychain
	remote remote.Client
	msgs   messaging.Agent
	status *status.Publisher

	watcher      *watcher.Watcher
	outbox       *prot.Outbox
	issuance     *issuecredential.Machine
	presentation *presentproof.Machine

	// startMu serializes startup and teardown
	startMu sync.Mutex

	l          sync.Mutex
	dispatcher *prot.Processor
	abort      context.CancelFunc
}

// New returns a new Agent. All of deps but Status are required.
func New(cfg Config, deps Deps) *Agent {
	assert.That(deps.Store != nil && deps.Remote != nil && deps.Messaging != nil,
		"holder dependencies missing")

	if cfg.Label == "" {
		cfg.Label = DefaultLabel
	}
	if cfg.Domain == "" {
		cfg.Domain = cfg.Label
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	st := deps.Status
	if st == nil {
		st = new(status.Publisher)
	}
	keys := keychain.New(deps.Store)
	outbox := prot.NewOutbox(deps.Messaging, cfg.SendTimeout)
	return &Agent{
		cfg:    cfg,
		keys:   keys,
		remote: deps.Remote,
		msgs:   deps.Messaging,
		status: st,
		watcher: watcher.New(deps.Remote, watcher.Config{
			Interval: cfg.PollInterval,
			Timeout:  cfg.PublishTimeout,
		}),
		outbox: outbox,
		issuance: issuecredential.New(issuecredential.Config{
			SchemaBaseURL: cfg.SchemaBaseURL,
		}, keys, deps.Remote, deps.Messaging, outbox),
		presentation: presentproof.New(presentproof.Config{
			SchemaBaseURL: cfg.SchemaBaseURL,
			Domain:        cfg.Domain,
		}, keys, deps.Remote, deps.Messaging, outbox),
	}
}

// Status returns the current status.
func (a *Agent) Status() status.Status {
	return a.status.Get()
}

// Subscribe returns a channel of status changes and a function to stop them.
func (a *Agent) Subscribe() (<-chan status.Status, func()) {
	return a.status.Subscribe()
}

// Keychain returns the typed view to the persisted state.
func (a *Agent) Keychain() *keychain.Keychain {
	return a.keys
}

// Issuance returns the issuance state of the credential type.
func (a *Agent) Issuance(t pltype.CredType) (issuecredential.State, string) {
	return a.issuance.State(t)
}

// Started tells if the dispatcher is running.
func (a *Agent) Started() bool {
	a.l.Lock()
	defer a.l.Unlock()
	return a.dispatcher != nil
}

// SeedFingerprint returns a printable fingerprint of the wallet seed. The
// seed itself is never shown.
func (a *Agent) SeedFingerprint() (fp string, found bool, err error) {
	seed, found, err := a.keys.Seed()
	if err != nil || !found {
		return "", found, err
	}
	return Fingerprint(seed), true, nil
}

// Fingerprint returns the base58 of the seed's SHA-256 hash.
func Fingerprint(seed []byte) string {
	sum := sha256.Sum256(seed)
	return base58.Encode(sum[:])
}

// RequestCredentialOffer asks the cloud agent to offer us a credential of
// the type with the claims.
func (a *Agent) RequestCredentialOffer(ctx context.Context, t pltype.CredType, claims map[string]any) (*remote.CredentialRecord, error) {
	a.l.Lock()
	defer a.l.Unlock()

	if a.dispatcher == nil {
		return nil, ErrNotStarted
	}
	return a.issuance.RequestOffer(ctx, t, claims)
}

// RequestProof asks the cloud agent to request a presentation of the type
// from us.
func (a *Agent) RequestProof(ctx context.Context, t pltype.CredType) (*remote.PresentationRecord, error) {
	a.l.Lock()
	defer a.l.Unlock()

	if a.dispatcher == nil {
		return nil, ErrNotStarted
	}
	return a.presentation.RequestProof(ctx, t)
}

// ProofRecord returns the cloud agent's record of a proof request made by
// RequestProof.
func (a *Agent) ProofRecord(ctx context.Context, presentationID string) (*remote.PresentationRecord, error) {
	return a.remote.GetPresentation(ctx, presentationID)
}

func (a *Agent) router() prot.Router {
	routes := make(prot.Router, len(pltype.Kinds()))
	for _, k := range pltype.Kinds() {
		if k.Informational() {
			routes[k] = prot.LogOnly
		}
	}
	routes[pltype.KindCredentialOffer] = a.issuance.HandleOffer
	routes[pltype.KindCredentialIssued] = a.issuance.HandleIssue
	routes[pltype.KindPresentationRequest] = a.presentation.HandleRequest
	return routes
}

// startDispatcher starts a new dispatcher if none is running.
func (a *Agent) startDispatcher(ctx context.Context) error {
	a.l.Lock()
	defer a.l.Unlock()

	if a.dispatcher != nil {
		return nil
	}
	d := prot.New(a.msgs, a.keys, a.router(), prot.Config{
		QueueSize:   a.cfg.QueueSize,
		StopTimeout: a.cfg.ShutdownTimeout,
	})
	// the dispatcher outlives the startup call
	if err := d.Start(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	a.dispatcher = d
	return nil
}

func (a *Agent) setAbort(cancel context.CancelFunc) {
	a.l.Lock()
	defer a.l.Unlock()
	a.abort = cancel
}

func (a *Agent) abortStartup() {
	a.l.Lock()
	cancel := a.abort
	a.l.Unlock()
	if cancel != nil {
		glog.V(1).Infoln("aborting startup")
		cancel()
	}
}
