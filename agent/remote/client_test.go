package remote

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

func TestMain(m *testing.M) {
	try.To(flag.Set("logtostderr", "true"))
	try.To(flag.Set("v", "5"))
	flag.Parse()
	os.Exit(m.Run())
}

type call struct {
	method, path, body, apiKey string
}

// newServer returns a test cloud agent which answers with the routes and
// records the calls.
func newServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*HTTPClient, *[]call) {
	calls := make([]call, 0)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{
			method: r.Method,
			path:   r.URL.Path,
			body:   string(body),
			apiKey: r.Header.Get(APIKeyHeader),
		})
		route, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":404,"type":"NotFound"}`))
			return
		}
		route(w)
	}))
	t.Cleanup(ts.Close)

	c, err := New(Config{BaseURL: ts.URL + "/cloud-agent/", APIKey: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	return c, &calls
}

func reply(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestNew(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	_, err := New(Config{BaseURL: "cloud-agent"})
	assert.Error(err)
	_, err = New(Config{BaseURL: "http://localhost/cloud-agent"})
	assert.NoError(err)
}

func TestCreateInvitation(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	c, calls := newServer(t, map[string]func(http.ResponseWriter){
		"POST /cloud-agent/connections": reply(http.StatusCreated, `{
			"connectionId":"c-1","label":"wallet","state":"InvitationGenerated",
			"invitation":{"id":"c-1","from":"did:peer:2","invitationUrl":"https://x/?_oob=abc"}}`),
	})

	conn, err := c.CreateInvitation(context.Background(), "wallet")
	assert.NoError(err)
	assert.Equal(conn.ConnectionID, "c-1")
	assert.Equal(conn.Invitation.InvitationURL, "https://x/?_oob=abc")

	assert.SLen(*calls, 1)
	got := (*calls)[0]
	assert.Equal(got.apiKey, "secret")
	var req map[string]string
	dto.FromJSONStr(got.body, &req)
	assert.Equal(req["label"], "wallet")
}

func TestListDIDsAndStatus(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	c, _ := newServer(t, map[string]func(http.ResponseWriter){
		"GET /cloud-agent/did-registrar/dids": reply(http.StatusOK,
			`{"contents":[{"did":"did:prism:aa","status":"PUBLISHED"},null]}`),
		"GET /cloud-agent/did-registrar/dids/did:prism:aa": reply(http.StatusOK,
			`{"did":"did:prism:aa","status":"PUBLISHED"}`),
		"POST /cloud-agent/did-registrar/dids/did:prism:aa/publications": reply(http.StatusAccepted,
			`{"scheduledOperation":{"id":"op","didRef":"did:prism:aa"}}`),
	})

	dids, err := c.ListDIDs(context.Background())
	assert.NoError(err)
	assert.SLen(dids, 1)
	assert.That(dids[0].Published())

	d, err := c.GetDIDStatus(context.Background(), "did:prism:aa")
	assert.NoError(err)
	assert.Equal(d.Status, StatusPublished)

	// 202 isn't success for the cloud agent client
	_, err = c.RequestPublication(context.Background(), "did:prism:aa")
	assert.Error(err)
	var remoteErr *Error
	assert.That(errors.As(err, &remoteErr))
	assert.Equal(remoteErr.StatusCode, http.StatusAccepted)
}

func TestGetSchemaByGUID(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	c, _ := newServer(t, map[string]func(http.ResponseWriter){
		"GET /cloud-agent/schema-registry/schemas/found": reply(http.StatusOK,
			`{"guid":"found","name":"passport","version":"1.0.0"}`),
		"GET /cloud-agent/schema-registry/schemas/broken": reply(http.StatusInternalServerError,
			`internal error`),
	})

	s, found, err := c.GetSchemaByGUID(context.Background(), "found")
	assert.NoError(err)
	assert.That(found)
	assert.Equal(s.GUID, "found")

	_, found, err = c.GetSchemaByGUID(context.Background(), "missing")
	assert.NoError(err)
	assert.That(!found)

	_, _, err = c.GetSchemaByGUID(context.Background(), "broken")
	assert.Error(err)
	assert.Equal(err.Error(), "get schema: http 500: internal error")
}

func TestCreateCredentialOffer(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	c, calls := newServer(t, map[string]func(http.ResponseWriter){
		"POST /cloud-agent/issue-credentials/credential-offers": reply(http.StatusCreated,
			`{"recordId":"r-1","thid":"T","protocolState":"OfferPending"}`),
	})

	r, err := c.CreateCredentialOffer(context.Background(), OfferRequest{
		ValidityPeriod:    3600,
		SchemaID:          "http://localhost/cloud-agent/schema-registry/schemas/g/schema",
		CredentialFormat:  CredentialFormatJWT,
		Claims:            map[string]any{"name": "Jane"},
		AutomaticIssuance: true,
		IssuingDID:        "did:prism:aa",
		ConnectionID:      "c-1",
	})
	assert.NoError(err)
	assert.Equal(r.Thid, "T")

	var req map[string]any
	dto.FromJSONStr((*calls)[0].body, &req)
	assert.Equal(req["credentialFormat"], any("JWT"))
	assert.Equal(req["issuingDID"], any("did:prism:aa"))
	assert.Equal(req["automaticIssuance"], any(true))
}

func TestCreatePresentationRequest(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	c, _ := newServer(t, map[string]func(http.ResponseWriter){
		"POST /cloud-agent/present-proof/presentations": reply(http.StatusCreated,
			`{"presentationId":"p-1","thid":"P","status":"RequestPending"}`),
	})

	r, err := c.CreatePresentationRequest(context.Background(), PresentationRequest{
		ConnectionID: "c-1",
		Options:      ProofOptions{Challenge: "ch", Domain: "wallet"},
		Proofs:       []ProofRequestAux{{SchemaID: "s"}},
	})
	assert.NoError(err)
	assert.Equal(r.Thid, "P")
}

func TestGetPresentation(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	c, calls := newServer(t, map[string]func(http.ResponseWriter){
		"GET /cloud-agent/present-proof/presentations/p-1": reply(http.StatusOK,
			`{"presentationId":"p-1","thid":"P","status":"PresentationVerified","data":["eyJ.a.b"]}`),
	})

	r, err := c.GetPresentation(context.Background(), "p-1")
	assert.NoError(err)
	assert.Equal(r.Status, "PresentationVerified")
	assert.SLen(r.Data, 1)
	assert.Equal((*calls)[0].method, http.MethodGet)

	_, err = c.GetPresentation(context.Background(), "p-2")
	var rerr *Error
	assert.That(errors.As(err, &rerr))
	assert.Equal(rerr.StatusCode, http.StatusNotFound)
}
