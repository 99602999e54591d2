package prot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/golang/glog"
)

// DefaultSendTimeout bounds one background send.
const DefaultSendTimeout = 30 * time.Second

// ErrOutboxClosed is returned by Send after Close.
var ErrOutboxClosed = errors.New("outbox closed")

// Sender is the part of the Messaging Agent the Outbox needs.
type Sender interface {
	Send(ctx context.Context, msg messaging.Message) error
}

// Outbox sends messages in the background. Sends aren't retried. Failures
// are given to the done callback of the send. Send and Wait may be called
// concurrently.
type Outbox struct {
	sender  Sender
	timeout time.Duration

	l        sync.Mutex
	closed   bool
	inflight int
	idle     chan struct{} // closed when inflight drops to zero
}

// NewOutbox returns an Outbox which sends with s.
func NewOutbox(s Sender, timeout time.Duration) *Outbox {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Outbox{sender: s, timeout: timeout}
}

// Send starts sending msg and returns immediately. The send doesn't use the
// caller's context because handlers return before the send is ready. done is
// called with the result, if it's not nil.
func (o *Outbox) Send(msg messaging.Message, done func(err error)) error {
	o.l.Lock()
	defer o.l.Unlock()

	if o.closed {
		return ErrOutboxClosed
	}
	if o.inflight == 0 {
		o.idle = make(chan struct{})
	}
	o.inflight++
	go func() {
		defer o.finish()

		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		defer cancel()

		err := o.sender.Send(ctx, msg)
		if err != nil {
			glog.Errorf("send %s thid:%s: %v", msg.Type, msg.Thid(), err)
		} else {
			glog.V(3).Infoln("sent:", msg.Type, msg.Thid())
		}
		if done != nil {
			done(err)
		}
	}()
	return nil
}

func (o *Outbox) finish() {
	o.l.Lock()
	defer o.l.Unlock()
	o.inflight--
	if o.inflight == 0 {
		close(o.idle)
	}
}

// Wait waits until no send is in flight or ctx is done. Sends started while
// waiting are waited too.
func (o *Outbox) Wait(ctx context.Context) error {
	for {
		o.l.Lock()
		if o.inflight == 0 {
			o.l.Unlock()
			return nil
		}
		idle := o.idle
		o.l.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close refuses new sends and waits the ones in flight until ctx is done.
func (o *Outbox) Close(ctx context.Context) error {
	o.l.Lock()
	o.closed = true
	o.l.Unlock()
	return o.Wait(ctx)
}
