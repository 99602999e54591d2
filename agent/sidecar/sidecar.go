/*
Package sidecar implements the Messaging Agent over a websocket to an SDK
sidecar process, which owns the wallet's keys, DIDComm envelopes, and stored
credentials.

Every frame is a JSON object. Requests are {id, method, params} and the
sidecar answers each with {id, result} or {id, error}. The sidecar pushes the
messages it sees as events {event: "message", message}. Requests are
correlated with responses by id, so many requests can be in flight at once.
*/
package sidecar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Methods of the sidecar protocol.
const (
	MethodStart                    = "start"
	MethodStop                     = "stop"
	MethodSend                     = "send"
	MethodParseInvitation          = "parseInvitation"
	MethodAcceptInvitation         = "acceptInvitation"
	MethodCreateSubjectIdentity    = "createSubjectIdentity"
	MethodPrepareCredentialRequest = "prepareCredentialRequest"
	MethodProcessIssuedCredential  = "processIssuedCredential"
	MethodListCredentials          = "listCredentials"
	MethodCreatePresentation       = "createPresentation"

	EventMessage = "message"
)

// Defaults of the Config.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultReadLimit      = 4 << 20
)

// ErrClosed is returned for requests when the link to the sidecar is down.
var ErrClosed = errors.New("sidecar link closed")

// Config of the Client.
type Config struct {
	// URL of the sidecar's websocket endpoint, ws://localhost:8090/ws
	URL            string
	RequestTimeout time.Duration
	ReadLimit      int64
}

// Error is an error answered by the sidecar.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("sidecar error %d: %s", e.Code, e.Message)
}

// Frame is one websocket frame of the protocol.
type Frame struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`

	Event   string             `json:"event,omitempty"`
	Message *messaging.Message `json:"message,omitempty"`
}

// Client is a messaging.Agent which delegates to the sidecar.
type Client struct {
	cfg    Config
	nextID atomic.Uint64

	l         sync.Mutex
	conn      *websocket.Conn
	closed    chan struct{}
	state     messaging.State
	pending   map[string]chan Frame
	listeners map[int]func(messaging.Message)
	nextL     int

	box *mailbox
}

var _ messaging.Agent = (*Client)(nil)

// New returns a Client. It connects on Start.
func New(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = DefaultReadLimit
	}
	c := &Client{
		cfg:       cfg,
		pending:   make(map[string]chan Frame),
		listeners: make(map[int]func(messaging.Message)),
	}
	c.box = newMailbox(c.deliver)
	return c
}

func (c *Client) State() messaging.State {
	c.l.Lock()
	defer c.l.Unlock()
	return c.state
}

func (c *Client) setState(s messaging.State) {
	c.l.Lock()
	defer c.l.Unlock()
	c.state = s
}

type startParams struct {
	Seed string `json:"seed"`
}

// Start connects to the sidecar and starts it with the seed. The seed is
// sent base58 encoded.
func (c *Client) Start(ctx context.Context, seed []byte) (err error) {
	c.l.Lock()
	if c.state == messaging.Running || c.state == messaging.Starting {
		c.l.Unlock()
		return nil
	}
	c.state = messaging.Starting
	c.l.Unlock()

	// registered before the handler: it must see the error err2 sets
	defer func() {
		if err != nil {
			c.disconnect(websocket.StatusInternalError, "start failed")
			c.setState(messaging.Stopped)
		}
	}()
	defer err2.Handle(&err, "sidecar start")

	try.To(c.dial(ctx))
	try.To(c.call(ctx, MethodStart, startParams{Seed: base58.Encode(seed)}, nil))
	c.setState(messaging.Running)
	glog.V(1).Infoln("sidecar started:", c.cfg.URL)
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	c.l.Lock()
	connected := c.conn != nil
	c.l.Unlock()
	if connected {
		return nil
	}

	conn, _, err := websocket.Dial(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	conn.SetReadLimit(c.cfg.ReadLimit)

	closed := make(chan struct{})
	c.l.Lock()
	c.conn = conn
	c.closed = closed
	c.l.Unlock()

	go c.readLoop(conn, closed)
	return nil
}

// Stop stops the sidecar and closes the link.
func (c *Client) Stop(ctx context.Context) error {
	c.l.Lock()
	if c.conn == nil {
		c.state = messaging.Stopped
		c.l.Unlock()
		return nil
	}
	c.state = messaging.Stopping
	c.l.Unlock()

	err := c.call(ctx, MethodStop, nil, nil)
	if err != nil {
		glog.Warningln("sidecar stop:", err)
	}
	c.disconnect(websocket.StatusNormalClosure, "stop")
	c.setState(messaging.Stopped)
	return err
}

func (c *Client) disconnect(code websocket.StatusCode, reason string) {
	c.l.Lock()
	conn, closed := c.conn, c.closed
	c.conn = nil
	c.l.Unlock()
	if conn == nil {
		return
	}
	if err := conn.Close(code, reason); err != nil &&
		websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		glog.V(3).Infoln("sidecar close:", err)
	}
	// the read loop fails the pending calls of this link before it exits
	<-closed
}

// OnMessage registers fn for every message the sidecar pushes. The messages
// are delivered from one goroutine in the order they arrived; fn may block.
func (c *Client) OnMessage(fn func(messaging.Message)) (cancel func()) {
	c.l.Lock()
	defer c.l.Unlock()

	id := c.nextL
	c.nextL++
	c.listeners[id] = fn
	return func() {
		c.l.Lock()
		defer c.l.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) deliver(msg messaging.Message) {
	c.l.Lock()
	fns := make([]func(messaging.Message), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.l.Unlock()

	for _, fn := range fns {
		fn(msg)
	}
}

func (c *Client) readLoop(conn *websocket.Conn, closed chan struct{}) {
	defer func() {
		c.failPending()
		c.l.Lock()
		if c.conn == conn {
			c.conn = nil
			c.state = messaging.Stopped
		}
		c.l.Unlock()
		close(closed)
	}()

	for {
		var f Frame
		if err := wsjson.Read(context.Background(), conn, &f); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				glog.Warningln("sidecar read:", err)
			}
			return
		}
		switch {
		case f.Event == EventMessage && f.Message != nil:
			glog.V(5).Infoln("sidecar event:", f.Message)
			c.box.put(*f.Message)
		case f.ID != "":
			c.resolve(f)
		default:
			glog.Warningln("sidecar sent an unknown frame")
		}
	}
}

func (c *Client) resolve(f Frame) {
	c.l.Lock()
	ch, ok := c.pending[f.ID]
	delete(c.pending, f.ID)
	c.l.Unlock()
	if !ok {
		glog.Warningln("sidecar answered an unknown request:", f.ID)
		return
	}
	ch <- f
}

func (c *Client) failPending() {
	c.l.Lock()
	defer c.l.Unlock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// call makes one request and decodes its result to out, if it's not nil.
func (c *Client) call(ctx context.Context, method string, params, out any) (err error) {
	defer err2.Handle(&err, method)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req := Frame{ID: strconv.FormatUint(c.nextID.Add(1), 10), Method: method}
	if params != nil {
		req.Params = dto.ToJSONBytes(params)
	}
	ch := make(chan Frame, 1)

	c.l.Lock()
	conn, closed := c.conn, c.closed
	if conn == nil {
		c.l.Unlock()
		return ErrClosed
	}
	c.pending[req.ID] = ch
	c.l.Unlock()
	defer func() {
		c.l.Lock()
		delete(c.pending, req.ID)
		c.l.Unlock()
	}()

	try.To(wsjson.Write(ctx, conn, req))

	var resp Frame
	select {
	case r, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		resp = r
	case <-closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	if resp.Error != nil {
		return resp.Error
	}
	if out != nil {
		try.To(json.Unmarshal(resp.Result, out))
	}
	return nil
}

func (c *Client) Send(ctx context.Context, msg messaging.Message) error {
	return c.call(ctx, MethodSend, msg, nil)
}

type parseInvitationParams struct {
	URL string `json:"url"`
}

func (c *Client) ParseInvitation(ctx context.Context, url string) (inv messaging.Invitation, err error) {
	err = c.call(ctx, MethodParseInvitation, parseInvitationParams{URL: url}, &inv)
	return inv, err
}

func (c *Client) AcceptInvitation(ctx context.Context, inv messaging.Invitation) error {
	return c.call(ctx, MethodAcceptInvitation, inv, nil)
}

type subjectIdentity struct {
	DID string `json:"did"`
}

func (c *Client) CreateNewSubjectIdentity(ctx context.Context) (string, error) {
	var s subjectIdentity
	if err := c.call(ctx, MethodCreateSubjectIdentity, nil, &s); err != nil {
		return "", err
	}
	if s.DID == "" {
		return "", errors.New("sidecar returned no DID")
	}
	return s.DID, nil
}

type prepareRequestParams struct {
	SubjectDID string            `json:"subjectDid"`
	Offer      messaging.Message `json:"offer"`
}

func (c *Client) PrepareCredentialRequest(ctx context.Context, subjectDID string, offer messaging.Message) (req messaging.Message, err error) {
	err = c.call(ctx, MethodPrepareCredentialRequest,
		prepareRequestParams{SubjectDID: subjectDID, Offer: offer}, &req)
	return req, err
}

type issuedParams struct {
	Message messaging.Message `json:"message"`
}

func (c *Client) ProcessIssuedCredential(ctx context.Context, msg messaging.Message) (cred messaging.Credential, err error) {
	err = c.call(ctx, MethodProcessIssuedCredential, issuedParams{Message: msg}, &cred)
	return cred, err
}

func (c *Client) ListStoredCredentials(ctx context.Context) (creds []messaging.Credential, err error) {
	err = c.call(ctx, MethodListCredentials, nil, &creds)
	return creds, err
}

type presentationParams struct {
	Request    messaging.Message    `json:"request"`
	Credential messaging.Credential `json:"credential"`
}

func (c *Client) CreatePresentation(ctx context.Context, request messaging.Message, cred messaging.Credential) (pres messaging.Message, err error) {
	err = c.call(ctx, MethodCreatePresentation,
		presentationParams{Request: request, Credential: cred}, &pres)
	return pres, err
}
