package presentproof

import (
	"context"
	"errors"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/findy-network/findy-wallet/agent/keychain"
	"github.com/findy-network/findy-wallet/agent/messaging"
	agentmock "github.com/findy-network/findy-wallet/agent/messaging/mock"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/agent/prot"
	"github.com/findy-network/findy-wallet/agent/remote"
	remotemock "github.com/findy-network/findy-wallet/agent/remote/mock"
	"github.com/findy-network/findy-wallet/agent/vc"
	"github.com/findy-network/findy-wallet/agent/vc/vctest"
	"github.com/golang/mock/gomock"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

const (
	passportGUID = "5e3f2f7a-2a0b-4a51-8c8a-0b1f27d1c1a1"
	ticketGUID   = "9c1d6b52-7e2f-4f4e-9d3c-2b8f8f2d1e0c"
	otherGUID    = "0f0e0d0c-0b0a-4909-8807-060504030201"
	base         = "http://localhost/cloud-agent"
)

func TestMain(m *testing.M) {
	try.To(flag.Set("logtostderr", "true"))
	flag.Parse()
	os.Exit(m.Run())
}

type fixture struct {
	m      *Machine
	keys   *keychain.Keychain
	remote *remotemock.MockClient
	agent  *agentmock.MockAgent
	outbox *prot.Outbox
}

func setUp(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		keys:   keychain.New(keychain.NewMemStore()),
		remote: remotemock.NewMockClient(ctrl),
		agent:  agentmock.NewMockAgent(ctrl),
	}
	f.outbox = prot.NewOutbox(f.agent, time.Second)
	f.m = New(Config{SchemaBaseURL: base, Domain: "wallet"}, f.keys, f.remote, f.agent, f.outbox)

	try.To(f.keys.SetConnectionID("conn-1"))
	try.To(f.keys.SetIssuerDID("did:prism:4a5b6c:Cr4BCrsB"))
	try.To(f.keys.SetSchemaID(pltype.Passport, passportGUID))
	try.To(f.keys.SetSchemaID(pltype.Ticket, ticketGUID))
	return f
}

func (f *fixture) wait(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := f.outbox.Wait(ctx); err != nil {
		t.Fatal(err)
	}
}

func request(thid string) messaging.Message {
	m := messaging.Message{
		ID:          "req-" + thid,
		Direction:   messaging.Received,
		Type:        pltype.PresentProofRequest,
		CreatedTime: time.Now(),
	}
	m.Thread.ID = thid
	return m
}

func credential(t *testing.T, id string, ct pltype.CredType, guid string) messaging.Credential {
	return messaging.Credential{
		ID:     id,
		Format: remote.CredentialFormatJWT,
		Raw:    vctest.JWT(t, ct, vc.SchemaURL(base, guid)),
	}
}

func TestRequestProof(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	f := setUp(t)

	f.remote.EXPECT().CreatePresentationRequest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req remote.PresentationRequest) (*remote.PresentationRecord, error) {
			assert.Equal(req.ConnectionID, "conn-1")
			assert.Equal(req.Options.Domain, "wallet")
			assert.NotEmpty(req.Options.Challenge)
			assert.SLen(req.Proofs, 1)
			assert.Equal(req.Proofs[0].SchemaID, vc.SchemaURL(base, ticketGUID))
			assert.SLen(req.Proofs[0].TrustIssuers, 1)
			assert.Equal(req.Proofs[0].TrustIssuers[0], "did:prism:4a5b6c")
			return &remote.PresentationRecord{PresentationID: "p-1", Thid: "P1"}, nil
		})

	rec, err := f.m.RequestProof(context.Background(), pltype.Ticket)
	assert.NoError(err)
	assert.Equal(rec.Thid, "P1")
	thid, found, _ := f.keys.ProofThid(pltype.Ticket)
	assert.That(found)
	assert.Equal(thid, "P1")
}

func TestRequestProofFailures(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	f := setUp(t)
	ctx := context.Background()

	f.remote.EXPECT().CreatePresentationRequest(gomock.Any(), gomock.Any()).
		Return(nil, &remote.Error{StatusCode: 400})
	_, err := f.m.RequestProof(ctx, pltype.Passport)
	assert.That(errors.Is(err, &Error{Kind: KindRequest}))

	try.To(f.keys.Delete(keychain.SchemaIDKey(pltype.Passport)))
	_, err = f.m.RequestProof(ctx, pltype.Passport)
	assert.That(errors.Is(err, &Error{Kind: KindNoSchema}))

	try.To(f.keys.Delete(keychain.KeyConnectionID))
	_, err = f.m.RequestProof(ctx, pltype.Passport)
	assert.That(errors.Is(err, &Error{Kind: KindNoConnection}))
}

// The ticket credential is selected for the pending ticket proof
// even though a passport is stored first
func TestHandleRequestByPendingProof(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	f := setUp(t)
	try.To(f.keys.SetProofThid(pltype.Ticket, "P1"))

	passport := credential(t, "c-passport", pltype.Passport, passportGUID)
	ticket := credential(t, "c-ticket", pltype.Ticket, ticketGUID)
	msg := request("P1")

	f.agent.EXPECT().ListStoredCredentials(gomock.Any()).
		Return([]messaging.Credential{passport, ticket}, nil)
	f.agent.EXPECT().CreatePresentation(gomock.Any(), msg, ticket).
		Return(messaging.Message{ID: "pres-1"}, nil)
	sent := make(chan messaging.Message, 1)
	f.agent.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m messaging.Message) error {
			sent <- m
			return nil
		})

	assert.NoError(f.m.HandleRequest(context.Background(), msg))
	f.wait(t)
	pres := <-sent
	assert.Equal(pres.ID, "pres-1")
	assert.Equal(pres.Thid(), "P1")
}

func TestHandleRequestBySchema(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	f := setUp(t)

	passport := credential(t, "c-passport", pltype.Passport, passportGUID)
	ticket := credential(t, "c-ticket", pltype.Ticket, ticketGUID)
	msg := request("unknown")
	msg.Attachments = []byte(`[{"data":{"json":{"proofs":[{"schemaId":"` +
		vc.SchemaURL(base, passportGUID) + `"}]}}}]`)

	f.agent.EXPECT().ListStoredCredentials(gomock.Any()).
		Return([]messaging.Credential{ticket, passport}, nil)
	f.agent.EXPECT().CreatePresentation(gomock.Any(), msg, passport).
		Return(messaging.Message{ID: "pres-2"}, nil)
	f.agent.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(f.m.HandleRequest(context.Background(), msg))
	f.wait(t)
}

func TestHandleRequestNoTarget(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	f := setUp(t)

	first := messaging.Credential{ID: "first", Raw: "not a jwt"}
	msg := request("unknown")
	f.agent.EXPECT().ListStoredCredentials(gomock.Any()).
		Return([]messaging.Credential{first}, nil)
	f.agent.EXPECT().CreatePresentation(gomock.Any(), msg, first).
		Return(messaging.Message{ID: "pres-3"}, nil)
	f.agent.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("offline"))

	// the send failure is only logged
	assert.NoError(f.m.HandleRequest(context.Background(), msg))
	f.wait(t)
}

func TestHandleRequestFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("no credentials", func(t *testing.T) {
		assert.PushTester(t)
		defer assert.PopTester()
		f := setUp(t)
		f.agent.EXPECT().ListStoredCredentials(gomock.Any()).Return(nil, nil)

		err := f.m.HandleRequest(ctx, request("P1"))
		assert.That(errors.Is(err, &Error{Kind: KindNoCredentials}))
	})
	t.Run("not found", func(t *testing.T) {
		assert.PushTester(t)
		defer assert.PopTester()
		f := setUp(t)
		try.To(f.keys.SetProofThid(pltype.Passport, "P1"))
		f.agent.EXPECT().ListStoredCredentials(gomock.Any()).Return([]messaging.Credential{
			credential(t, "c-other", pltype.Passport, otherGUID),
			credential(t, "c-ticket", pltype.Ticket, ticketGUID),
		}, nil)

		err := f.m.HandleRequest(ctx, request("P1"))
		assert.That(errors.Is(err, &Error{Kind: KindCredentialNotFound}))
		var e *Error
		assert.That(errors.As(err, &e))
		assert.Equal(e.Thid, "P1")
		assert.Equal(e.Type, pltype.Passport)
	})
	t.Run("construct", func(t *testing.T) {
		assert.PushTester(t)
		defer assert.PopTester()
		f := setUp(t)
		f.agent.EXPECT().ListStoredCredentials(gomock.Any()).
			Return([]messaging.Credential{{ID: "x"}}, nil)
		f.agent.EXPECT().CreatePresentation(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(messaging.Message{}, errors.New("bad request"))

		err := f.m.HandleRequest(ctx, request("P1"))
		assert.That(errors.Is(err, &Error{Kind: KindConstruct}))
	})
}
