/*
Package remote is the REST client of the cloud agent, the counterpart which
issues and verifies credentials. The wallet uses it to manage the connection,
the issuer DID, the schemas, and to ask credential offers and proof requests.
*/
package remote

//go:generate mockgen -package mock -destination mock/client.go github.com/findy-network/findy-wallet/agent/remote Client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Client is the cloud agent API the holder needs.
type Client interface {
	CreateInvitation(ctx context.Context, label string) (*Connection, error)
	AcceptInvitation(ctx context.Context, invitation string) (*Connection, error)
	GetConnections(ctx context.Context) ([]Connection, error)

	CreateIssuerDID(ctx context.Context, tmpl DocumentTemplate) (*CreatedDID, error)
	ListDIDs(ctx context.Context) ([]ManagedDID, error)
	GetDIDStatus(ctx context.Context, ref string) (*ManagedDID, error)
	RequestPublication(ctx context.Context, ref string) (*ScheduledOperation, error)

	CreateSchema(ctx context.Context, s Schema) (*Schema, error)
	GetSchemaByGUID(ctx context.Context, guid string) (s *Schema, found bool, err error)

	CreateCredentialOffer(ctx context.Context, req OfferRequest) (*CredentialRecord, error)
	CreatePresentationRequest(ctx context.Context, req PresentationRequest) (*PresentationRecord, error)
	GetPresentation(ctx context.Context, id string) (*PresentationRecord, error)
}

// Config is the configuration of the HTTPClient.
type Config struct {
	// BaseURL is the cloud agent's API root, e.g. http://localhost/cloud-agent
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient implements Client over the cloud agent's REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
}

// New returns a new HTTPClient.
func New(cfg Config) (c *HTTPClient, err error) {
	defer err2.Handle(&err, "remote client")

	u := try.To1(url.Parse(cfg.BaseURL))
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("base URL must be absolute")
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		http:    &http.Client{},
	}, nil
}

func (c *HTTPClient) CreateInvitation(ctx context.Context, label string) (conn *Connection, err error) {
	conn = new(Connection)
	err = c.call(ctx, "create invitation", http.MethodPost, "/connections",
		createInvitationReq{Label: label}, conn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *HTTPClient) AcceptInvitation(ctx context.Context, invitation string) (conn *Connection, err error) {
	conn = new(Connection)
	err = c.call(ctx, "accept invitation", http.MethodPost, "/connection-invitations",
		acceptInvitationReq{Invitation: invitation}, conn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *HTTPClient) GetConnections(ctx context.Context) (conns []Connection, err error) {
	var page connectionPage
	err = c.call(ctx, "get connections", http.MethodGet, "/connections", nil, &page)
	if err != nil {
		return nil, err
	}
	return page.Contents, nil
}

func (c *HTTPClient) CreateIssuerDID(ctx context.Context, tmpl DocumentTemplate) (d *CreatedDID, err error) {
	d = new(CreatedDID)
	err = c.call(ctx, "create DID", http.MethodPost, "/did-registrar/dids",
		createDIDReq{DocumentTemplate: tmpl}, d)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (c *HTTPClient) ListDIDs(ctx context.Context) (dids []ManagedDID, err error) {
	var page didPage
	err = c.call(ctx, "list DIDs", http.MethodGet, "/did-registrar/dids", nil, &page)
	if err != nil {
		return nil, err
	}
	dids = make([]ManagedDID, 0, len(page.Contents))
	for _, d := range page.Contents {
		if d != nil {
			dids = append(dids, *d)
		}
	}
	return dids, nil
}

func (c *HTTPClient) GetDIDStatus(ctx context.Context, ref string) (d *ManagedDID, err error) {
	d = new(ManagedDID)
	err = c.call(ctx, "get DID status", http.MethodGet,
		"/did-registrar/dids/"+url.PathEscape(ref), nil, d)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (c *HTTPClient) RequestPublication(ctx context.Context, ref string) (op *ScheduledOperation, err error) {
	var resp publicationResp
	err = c.call(ctx, "publish DID", http.MethodPost,
		"/did-registrar/dids/"+url.PathEscape(ref)+"/publications", nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.ScheduledOperation, nil
}

func (c *HTTPClient) CreateSchema(ctx context.Context, s Schema) (created *Schema, err error) {
	created = new(Schema)
	err = c.call(ctx, "create schema", http.MethodPost, "/schema-registry/schemas", s, created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *HTTPClient) GetSchemaByGUID(ctx context.Context, guid string) (s *Schema, found bool, err error) {
	s = new(Schema)
	err = c.call(ctx, "get schema", http.MethodGet,
		"/schema-registry/schemas/"+url.PathEscape(guid), nil, s)
	var remoteErr *Error
	if errors.As(err, &remoteErr) && remoteErr.NotFound() {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (c *HTTPClient) CreateCredentialOffer(ctx context.Context, req OfferRequest) (r *CredentialRecord, err error) {
	r = new(CredentialRecord)
	err = c.call(ctx, "create credential offer", http.MethodPost,
		"/issue-credentials/credential-offers", req, r)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c *HTTPClient) CreatePresentationRequest(ctx context.Context, req PresentationRequest) (r *PresentationRecord, err error) {
	r = new(PresentationRecord)
	err = c.call(ctx, "create presentation request", http.MethodPost,
		"/present-proof/presentations", req, r)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetPresentation returns the verifier's presentation record. Its status
// tells if the proof was verified.
func (c *HTTPClient) GetPresentation(ctx context.Context, id string) (r *PresentationRecord, err error) {
	r = new(PresentationRecord)
	err = c.call(ctx, "get presentation", http.MethodGet,
		"/present-proof/presentations/"+url.PathEscape(id), nil, r)
	if err != nil {
		return nil, err
	}
	return r, nil
}
