// Package status is the wallet's observable status value. The orchestrator
// sets it on every provisioning phase, and the UI reads it or listens to its
// changes.
package status

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// Phase is the coarse state of the wallet.
type Phase int

const (
	Disconnected Phase = iota
	Starting
	Connecting
	PublishingIssuerDID
	CreatingSchema
	Ready
	Error
)

var phaseNames = [...]string{
	Disconnected:        "Disconnected",
	Starting:            "Starting",
	Connecting:          "Connecting",
	PublishingIssuerDID: "Publishing Issuer DID",
	CreatingSchema:      "Creating Schema",
	Ready:               "Ready",
	Error:               "Error",
}

func (p Phase) String() string {
	if p < Disconnected || p > Error {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Status is a status value. Err is set only when Phase is Error.
type Status struct {
	Phase  Phase
	Detail string
	Err    error
}

// New returns a status of the phase without details.
func New(p Phase) Status {
	return Status{Phase: p}
}

// Failed returns an Error status for the err.
func Failed(err error) Status {
	return Status{Phase: Error, Err: err}
}

func (s Status) String() string {
	switch {
	case s.Phase == Error && s.Err != nil:
		return "Error: " + s.Err.Error()
	case s.Detail != "":
		return s.Phase.String() + ": " + s.Detail
	}
	return s.Phase.String()
}

type statusJSON struct {
	Phase   string `json:"phase"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// MarshalJSON renders the status for the UI.
func (s Status) MarshalJSON() ([]byte, error) {
	js := statusJSON{
		Phase:   s.Phase.String(),
		Detail:  s.Detail,
		Message: s.String(),
	}
	if s.Err != nil {
		js.Error = s.Err.Error()
	}
	return json.Marshal(js)
}

// listenerBufSize is the buffer of each listener channel. A listener that
// doesn't keep up loses the intermediate values, never the newest.
const listenerBufSize = 8

// Publisher holds the current status and notifies listeners about changes.
// The zero value is ready to use and its status is Disconnected.
type Publisher struct {
	l         sync.Mutex
	current   Status
	listeners map[int]chan Status
	nextID    int
}

// Get returns the current status.
func (p *Publisher) Get() Status {
	p.l.Lock()
	defer p.l.Unlock()
	return p.current
}

// Set sets the status and broadcasts it to the listeners.
func (p *Publisher) Set(s Status) {
	p.l.Lock()
	defer p.l.Unlock()

	glog.V(1).Infoln("status:", s)
	p.current = s
	for id, c := range p.listeners {
		select {
		case c <- s:
		default:
			// drop the oldest value to make room for the newest
			select {
			case <-c:
			default:
			}
			select {
			case c <- s:
			default:
				glog.Warningln("status listener", id, "is full")
			}
		}
	}
}

// SetPhase is a shorthand for Set(New(phase)).
func (p *Publisher) SetPhase(phase Phase) {
	p.Set(New(phase))
}

// Subscribe returns a channel which first receives the current status and
// then every change. The returned function removes the listener and closes
// the channel.
func (p *Publisher) Subscribe() (<-chan Status, func()) {
	p.l.Lock()
	defer p.l.Unlock()

	if p.listeners == nil {
		p.listeners = make(map[int]chan Status)
	}
	id := p.nextID
	p.nextID++
	c := make(chan Status, listenerBufSize)
	c <- p.current
	p.listeners[id] = c

	var once sync.Once
	return c, func() {
		once.Do(func() {
			p.l.Lock()
			defer p.l.Unlock()
			delete(p.listeners, id)
			close(c)
		})
	}
}
