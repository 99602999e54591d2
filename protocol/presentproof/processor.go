/*
Package presentproof is the prover side of the proof presentation. When a
presentation request arrives, the prover selects a stored credential, lets
the Messaging Agent build the presentation of it, and sends the presentation
back in the background.

The credential is selected by the target type of the request. The target is
the type whose pending proof thid is the request's thid, or the type whose
schema the request names. The first stored credential issued against the
target's schema is presented. Without a target the first stored credential
is presented.
*/
package presentproof

import (
	"context"
	"errors"

	"github.com/findy-network/findy-wallet/agent/keychain"
	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/agent/prot"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/findy-network/findy-wallet/agent/vc"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

// Config of the Machine.
type Config struct {
	SchemaBaseURL string

	// Domain is the domain of the proof requests we make
	Domain string
}

// Machine is the presentation state machine. It's safe for concurrent use.
type Machine struct {
	cfg     Config
	keys    *keychain.Keychain
	remote  remote.Client
	agent   messaging.Agent
	outbox  *prot.Outbox
	decoder *vc.Decoder
}

// New returns a new Machine. Presentations are sent with the outbox.
func New(cfg Config, keys *keychain.Keychain, rc remote.Client, agent messaging.Agent, outbox *prot.Outbox) *Machine {
	return &Machine{
		cfg:     cfg,
		keys:    keys,
		remote:  rc,
		agent:   agent,
		outbox:  outbox,
		decoder: vc.NewDecoder(vc.DefaultCacheSize),
	}
}

// RequestProof asks the cloud agent to request a presentation of the type
// from us. The thid of the request is persisted as the pending proof of the
// type.
func (m *Machine) RequestProof(ctx context.Context, t pltype.CredType) (rec *remote.PresentationRecord, err error) {
	connID, found, err := m.keys.ConnectionID()
	if err != nil || !found {
		return nil, newError(KindNoConnection, t, "", orNotFound(err))
	}
	guid, found, err := m.keys.SchemaID(t)
	if err != nil || !found {
		return nil, newError(KindNoSchema, t, "", orNotFound(err))
	}
	aux := remote.ProofRequestAux{SchemaID: vc.SchemaURL(m.cfg.SchemaBaseURL, guid)}
	if issuer, found, _ := m.keys.IssuerDID(); found {
		if short, err := vc.ShortDID(issuer); err == nil {
			aux.TrustIssuers = []string{short}
		}
	}

	rec, err = m.remote.CreatePresentationRequest(ctx, remote.PresentationRequest{
		ConnectionID: connID,
		Options: remote.ProofOptions{
			Challenge: uuid.NewString(),
			Domain:    m.cfg.Domain,
		},
		Proofs: []remote.ProofRequestAux{aux},
	})
	if err != nil {
		return nil, newError(KindRequest, t, "", err)
	}
	if err := m.keys.SetProofThid(t, rec.Thid); err != nil {
		return nil, newError(KindPersist, t, rec.Thid, err)
	}
	glog.V(1).Infof("proof %s requested thid:%s", t, rec.Thid)
	return rec, nil
}

// HandleRequest is the handler of presentation requests.
func (m *Machine) HandleRequest(ctx context.Context, msg messaging.Message) error {
	thid := msg.Thid()
	target := m.targetType(msg)
	glog.V(3).Infof("presentation request thid:%s target:%s", thid, target)

	cred, err := m.selectCredential(ctx, target)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Thid = thid
		}
		return err
	}
	pres, err := m.agent.CreatePresentation(ctx, msg, cred)
	if err != nil {
		return newError(KindConstruct, target, thid, err)
	}
	if pres.Thid() == "" {
		pres.Thread.ID = thid
	}

	err = m.outbox.Send(pres, func(err error) {
		if err != nil {
			glog.Errorln(newError(KindSend, target, thid, err))
			return
		}
		glog.V(1).Infof("presentation %s sent thid:%s", target, thid)
	})
	if err != nil {
		return newError(KindSend, target, thid, err)
	}
	return nil
}

// targetType resolves the credential type the request asks. It's
// CredTypeUnknown when neither the thid nor the request's schemas match.
func (m *Machine) targetType(msg messaging.Message) pltype.CredType {
	if thid := msg.Thid(); thid != "" {
		for _, t := range pltype.CredTypes() {
			if pending, found, _ := m.keys.ProofThid(t); found && pending == thid {
				return t
			}
		}
	}
	guids := vc.SchemaGUIDsIn(msg.Body, msg.Attachments)
	for _, t := range pltype.CredTypes() {
		id, found, err := m.keys.SchemaID(t)
		if err != nil || !found {
			continue
		}
		for _, guid := range guids {
			if guid == id {
				return t
			}
		}
	}
	return pltype.CredTypeUnknown
}

func (m *Machine) selectCredential(ctx context.Context, target pltype.CredType) (messaging.Credential, error) {
	creds, err := m.agent.ListStoredCredentials(ctx)
	if err != nil {
		return messaging.Credential{}, newError(KindNoCredentials, target, "", err)
	}
	if len(creds) == 0 {
		return messaging.Credential{}, newError(KindNoCredentials, target, "",
			errors.New("wallet has no credentials"))
	}
	if target == pltype.CredTypeUnknown {
		return creds[0], nil
	}

	want, found, err := m.keys.SchemaID(target)
	if err != nil || !found {
		return messaging.Credential{}, newError(KindNoSchema, target, "", orNotFound(err))
	}
	for _, cred := range creds {
		for _, shape := range pltype.CredTypes() {
			if guid, ok := m.decoder.SchemaGUID(cred.Raw, shape); ok && guid == want {
				glog.V(3).Infof("credential %s is %s", cred.ID, shape)
				return cred, nil
			}
		}
	}
	return messaging.Credential{}, newError(KindCredentialNotFound, target, "", nil)
}

func orNotFound(err error) error {
	if err != nil {
		return err
	}
	return keychain.ErrNotFound
}
