package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Client calls a running wallet's control API. The CLI uses it.
type Client struct {
	baseURL string
	http    *http.Client
}

// APIError is an error answered by the control API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("control API %d: %s", e.StatusCode, e.Message)
}

// Status is the status as the control API renders it.
type Status struct {
	Phase   string `json:"phase"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// NewClient returns a Client of the API at baseURL.
func NewClient(baseURL string, timeout time.Duration) (c *Client, err error) {
	defer err2.Handle(&err, "control API client")

	u := try.To1(url.Parse(baseURL))
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Status(ctx context.Context) (st Status, err error) {
	err = c.call(ctx, http.MethodGet, "/status", nil, &st)
	return st, err
}

// StartUp starts the wallet. If wait is true, it returns when the startup
// is ready.
func (c *Client) StartUp(ctx context.Context, wait bool) (st Status, err error) {
	path := "/startup"
	if wait {
		path += "?wait=true"
	}
	err = c.call(ctx, http.MethodPost, path, nil, &st)
	return st, err
}

func (c *Client) TearDown(ctx context.Context) (st Status, err error) {
	err = c.call(ctx, http.MethodPost, "/teardown", nil, &st)
	return st, err
}

func (c *Client) RequestOffer(ctx context.Context, t pltype.CredType, claims map[string]any) (rec *remote.CredentialRecord, err error) {
	rec = new(remote.CredentialRecord)
	err = c.call(ctx, http.MethodPost, "/credentials/"+strings.ToLower(t.String())+"/offers",
		claims, rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) RequestProof(ctx context.Context, t pltype.CredType) (rec *remote.PresentationRecord, err error) {
	rec = new(remote.PresentationRecord)
	err = c.call(ctx, http.MethodPost, "/proofs/"+strings.ToLower(t.String()), nil, rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ProofRecord returns the verifier's record of a proof request.
func (c *Client) ProofRecord(ctx context.Context, presentationID string) (rec *remote.PresentationRecord, err error) {
	rec = new(remote.PresentationRecord)
	err = c.call(ctx, http.MethodGet, "/presentations/"+url.PathEscape(presentationID), nil, rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) (err error) {
	defer err2.Handle(&err, "%s %s", method, path)

	var body io.Reader
	if in != nil {
		body = bytes.NewReader(try.To1(json.Marshal(in)))
	}
	req := try.To1(http.NewRequestWithContext(ctx, method, c.baseURL+path, body))
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp := try.To1(c.http.Do(req))
	defer resp.Body.Close()
	data := try.To1(io.ReadAll(io.LimitReader(resp.Body, maxBodySize)))

	if resp.StatusCode >= http.StatusMultipleChoices {
		var e errorResponse
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out != nil {
		try.To(json.Unmarshal(data, out))
	}
	return nil
}
