/*
Package issuecredential is the holder side of the credential issuance. The
holder asks the cloud agent to offer a credential of a type, and remembers the
thread id of the offer. When the offer arrives over DIDComm with the same
thread id, the holder answers with a credential request for a fresh subject
identity. The issued credential is stored by the Messaging Agent.

Every credential type has its own pending thread id, so offers of different
types can be in flight at the same time. A new request of a type overwrites
the pending thread id of the type.
*/
package issuecredential

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/findy-network/findy-wallet/agent/keychain"
	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/agent/prot"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/findy-network/findy-wallet/agent/vc"
	"github.com/findy-network/findy-wallet/std/schema"
	"github.com/golang/glog"
)

// DefaultValidityPeriod is the validity of the offered credentials in
// seconds.
const DefaultValidityPeriod = 3600

// State of the issuance of one credential type.
type State int

const (
	Idle State = iota
	OfferPending
	RequestSent
	Issued
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case OfferPending:
		return "OfferPending"
	case RequestSent:
		return "RequestSent"
	case Issued:
		return "Issued"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type flow struct {
	state State
	thid  string
}

// Config of the Machine.
type Config struct {
	// SchemaBaseURL is the root of schema id URLs, the cloud agent's base URL
	SchemaBaseURL  string
	ValidityPeriod int
}

// Machine is the issuance state machine. It's safe for concurrent use.
type Machine struct {
	cfg    Config
	keys   *keychain.Keychain
	remote remote.Client
	agent  messaging.Agent
	outbox *prot.Outbox

	l     sync.Mutex
	flows map[pltype.CredType]flow
}

// New returns a new Machine. Credential requests are sent with the outbox.
func New(cfg Config, keys *keychain.Keychain, rc remote.Client, agent messaging.Agent, outbox *prot.Outbox) *Machine {
	if cfg.ValidityPeriod <= 0 {
		cfg.ValidityPeriod = DefaultValidityPeriod
	}
	return &Machine{
		cfg:    cfg,
		keys:   keys,
		remote: rc,
		agent:  agent,
		outbox: outbox,
		flows:  make(map[pltype.CredType]flow),
	}
}

// State returns the issuance state and its thid of the type.
func (m *Machine) State(t pltype.CredType) (State, string) {
	m.l.Lock()
	defer m.l.Unlock()
	f := m.flows[t]
	return f.state, f.thid
}

// Reset forgets the in-memory states.
func (m *Machine) Reset() {
	m.l.Lock()
	defer m.l.Unlock()
	m.flows = make(map[pltype.CredType]flow)
}

func (m *Machine) setState(t pltype.CredType, s State, thid string) {
	m.l.Lock()
	defer m.l.Unlock()
	m.flows[t] = flow{state: s, thid: thid}
	glog.V(1).Infof("issuance %s: %s thid:%s", t, s, thid)
}

// advance moves the type to s only if its flow is still in thid.
func (m *Machine) advance(t pltype.CredType, s State, thid string) bool {
	m.l.Lock()
	defer m.l.Unlock()
	if f, ok := m.flows[t]; ok && f.thid != thid {
		return false
	}
	m.flows[t] = flow{state: s, thid: thid}
	glog.V(1).Infof("issuance %s: %s thid:%s", t, s, thid)
	return true
}

// RequestOffer asks the cloud agent to offer a credential of the type with
// the claims to our connection. The thid of the offer is persisted as the
// pending one of the type.
func (m *Machine) RequestOffer(ctx context.Context, t pltype.CredType, claims map[string]any) (rec *remote.CredentialRecord, err error) {
	issuer, found, err := m.keys.IssuerDID()
	if err != nil || !found {
		return nil, newError(KindNoIssuerIdentity, t, "", orNotFound(err))
	}
	d, err := m.remote.GetDIDStatus(ctx, issuer)
	if err != nil {
		return nil, newError(KindIssuerNotPublished, t, "", err)
	}
	if !d.Published() {
		return nil, newError(KindIssuerNotPublished, t, "",
			fmt.Errorf("issuer DID status %s", d.Status))
	}
	shortDID, err := vc.ShortDID(issuer)
	if err != nil {
		return nil, newError(KindNoIssuerIdentity, t, "", err)
	}
	guid, found, err := m.keys.SchemaID(t)
	if err != nil || !found {
		return nil, newError(KindNoSchema, t, "", orNotFound(err))
	}
	connID, found, err := m.keys.ConnectionID()
	if err != nil || !found {
		return nil, newError(KindNoConnection, t, "", orNotFound(err))
	}
	if err := schema.Validate(t, claims); err != nil {
		return nil, newError(KindOffer, t, "", err)
	}

	rec, err = m.remote.CreateCredentialOffer(ctx, remote.OfferRequest{
		ValidityPeriod:    m.cfg.ValidityPeriod,
		SchemaID:          vc.SchemaURL(m.cfg.SchemaBaseURL, guid),
		CredentialFormat:  remote.CredentialFormatJWT,
		Claims:            claims,
		AutomaticIssuance: true,
		IssuingDID:        shortDID,
		ConnectionID:      connID,
	})
	if err != nil {
		return nil, newError(KindOffer, t, "", err)
	}
	if err := m.keys.SetVCThid(t, rec.Thid); err != nil {
		return nil, newError(KindPersist, t, rec.Thid, err)
	}
	m.setState(t, OfferPending, rec.Thid)
	return rec, nil
}

// HandleOffer is the handler of credential offers. An offer which isn't the
// pending one of its type is ignored.
func (m *Machine) HandleOffer(ctx context.Context, msg messaging.Message) error {
	thid := msg.Thid()
	t, ok := m.offerType(msg)
	if !ok {
		glog.Warningln("credential offer of unknown type, ignored:", msg)
		return nil
	}
	pending, found, err := m.keys.VCThid(t)
	if err != nil {
		return newError(KindPersist, t, thid, err)
	}
	if !found || pending != thid {
		glog.Warningf("credential offer %s thid:%s isn't pending (%s), ignored",
			t, thid, pending)
		return nil
	}

	subject, err := m.agent.CreateNewSubjectIdentity(ctx)
	if err != nil {
		return newError(KindSubjectIdentity, t, thid, err)
	}
	if issuer, _, _ := m.keys.IssuerDID(); sameDID(subject, issuer) {
		return newError(KindSubjectIdentity, t, thid,
			errors.New("subject identity is the issuer DID"))
	}
	req, err := m.agent.PrepareCredentialRequest(ctx, subject, msg)
	if err != nil {
		return newError(KindPrepareRequest, t, thid, err)
	}
	if req.Thid() == "" {
		req.Thread.ID = thid
	}
	m.advance(t, OfferPending, thid)

	err = m.outbox.Send(req, func(err error) {
		if err != nil {
			glog.Errorln(newError(KindSend, t, thid, err))
			return
		}
		m.advance(t, RequestSent, thid)
	})
	if err != nil {
		return newError(KindSend, t, thid, err)
	}
	return nil
}

// HandleIssue is the handler of issued credentials. The Messaging Agent
// verifies and stores the credential.
func (m *Machine) HandleIssue(ctx context.Context, msg messaging.Message) error {
	thid := msg.Thid()
	cred, err := m.agent.ProcessIssuedCredential(ctx, msg)
	if err != nil {
		return newError(KindStore, m.typeOfThid(thid), thid, err)
	}
	glog.V(1).Infoln("credential stored:", cred.ID)

	for _, t := range pltype.CredTypes() {
		if pending, found, _ := m.keys.VCThid(t); found && pending == thid {
			m.advance(t, Issued, thid)
			return nil
		}
	}
	glog.Warningln("issued credential of no pending offer:", msg)
	return nil
}

// offerType resolves the credential type of the offer. Schema ids in the
// offer decide first, then the pending thids.
func (m *Machine) offerType(msg messaging.Message) (pltype.CredType, bool) {
	guids := vc.SchemaGUIDsIn(msg.Body, msg.Attachments)
	for _, t := range pltype.CredTypes() {
		id, found, err := m.keys.SchemaID(t)
		if err != nil || !found {
			continue
		}
		for _, guid := range guids {
			if guid == id {
				return t, true
			}
		}
	}
	if t := m.typeOfThid(msg.Thid()); t != pltype.CredTypeUnknown {
		return t, true
	}
	return pltype.CredTypeUnknown, false
}

func (m *Machine) typeOfThid(thid string) pltype.CredType {
	if thid == "" {
		return pltype.CredTypeUnknown
	}
	for _, t := range pltype.CredTypes() {
		if pending, found, _ := m.keys.VCThid(t); found && pending == thid {
			return t
		}
	}
	return pltype.CredTypeUnknown
}

func sameDID(subject, issuer string) bool {
	if subject == "" || issuer == "" {
		return false
	}
	if subject == issuer {
		return true
	}
	short, err := vc.ShortDID(issuer)
	return err == nil && short == subject
}

func orNotFound(err error) error {
	if err != nil {
		return err
	}
	return keychain.ErrNotFound
}
