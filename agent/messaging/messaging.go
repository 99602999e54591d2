/*
Package messaging defines the Messaging Agent, the wallet's DIDComm side. The
Messaging Agent owns the cryptographic identity of the holder: it derives its
keys from the wallet seed, packs and unpacks the messages, and verifies and
stores the issued credentials. The holder only drives it.

The sidecar package implements the Agent over a websocket to an SDK process.
*/
package messaging

//go:generate mockgen -package mock -destination mock/agent.go github.com/findy-network/findy-wallet/agent/messaging Agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/decorator"
)

// Direction tells if the message was sent or received by us.
type Direction int

const (
	Received Direction = iota
	Sent
)

func (d Direction) String() string {
	switch d {
	case Received:
		return "received"
	case Sent:
		return "sent"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "received", "":
		*d = Received
	case "sent":
		*d = Sent
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

// Message is a DIDComm message of the Messaging Agent. The thread decorator
// is embedded so its thid and pthid are on the message's top level like in
// DIDComm v2.
type Message struct {
	ID        string    `json:"id"`
	Direction Direction `json:"direction"`
	Type      string    `json:"piuri"`
	From      string    `json:"from,omitempty"`
	To        []string  `json:"to,omitempty"`

	decorator.Thread

	CreatedTime time.Time       `json:"createdTime"`
	Body        json.RawMessage `json:"body,omitempty"`
	Attachments json.RawMessage `json:"attachments,omitempty"`
}

// Thid returns the thread id of the message.
func (m Message) Thid() string {
	return m.Thread.ID
}

func (m Message) String() string {
	return fmt.Sprintf("%s %s thid:%s at:%s", m.Direction, m.Type, m.Thread.ID,
		m.CreatedTime.Format(time.RFC3339Nano))
}

// Invitation is a parsed out-of-band invitation.
type Invitation struct {
	ID   string          `json:"id"`
	From string          `json:"from"`
	Type string          `json:"type,omitempty"`
	Body json.RawMessage `json:"body,omitempty"`
}

// Credential is a credential stored by the Messaging Agent. Raw is the
// credential in its transport form, e.g. a JWT.
type Credential struct {
	ID     string `json:"id"`
	Format string `json:"format,omitempty"`
	Raw    string `json:"raw"`
}

// State of the Messaging Agent.
type State int

const (
	Stopped State = iota
	Starting
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Agent is the Messaging Agent.
type Agent interface {
	// Start derives the local identity from the seed and starts the agent.
	Start(ctx context.Context, seed []byte) error
	Stop(ctx context.Context) error
	State() State

	// OnMessage registers the callback for every message the agent sees,
	// sent or received. The returned function unregisters it. The callback
	// is called from the agent's own goroutine and it may block.
	OnMessage(fn func(Message)) (cancel func())

	Send(ctx context.Context, msg Message) error

	ParseInvitation(ctx context.Context, url string) (Invitation, error)
	AcceptInvitation(ctx context.Context, inv Invitation) error

	CreateNewSubjectIdentity(ctx context.Context) (did string, err error)
	PrepareCredentialRequest(ctx context.Context, subjectDID string, offer Message) (Message, error)
	ProcessIssuedCredential(ctx context.Context, msg Message) (Credential, error)
	ListStoredCredentials(ctx context.Context) ([]Credential, error)
	CreatePresentation(ctx context.Context, request Message, cred Credential) (Message, error)
}
