/*
Package prot is the inbound message dispatcher of the wallet. The Messaging
Agent delivers every message it sees through a callback, possibly more than
once and out of order. The callback only enqueues the message; one consumer
goroutine drains the queue and handles the messages strictly one by one.

A message is handled only if it was received by us and its creation time is
strictly after the dispatch cursor, the creation time of the newest handled
message. The cursor advances before the handler runs, so a failing message is
not handled again on redelivery.

Handlers are selected by the message kind from a router table which must have
a handler for every kind. Handler errors and panics are logged and the loop
continues with the next message.
*/
package prot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/golang/glog"
	"github.com/lainio/err2/assert"
)

// Handler handles one inbound message. Handlers run in the dispatcher's
// goroutine and shouldn't block for long; long operations like sends must be
// started in the background.
type Handler func(ctx context.Context, msg messaging.Message) error

// Router maps every message kind to its handler.
type Router map[pltype.Kind]Handler

// Subscriber is the part of the Messaging Agent the dispatcher needs.
type Subscriber interface {
	OnMessage(fn func(messaging.Message)) (cancel func())
}

// CursorStore persists the dispatch cursor over restarts.
type CursorStore interface {
	DispatchCursor() (cursor time.Time, found bool, err error)
	SetDispatchCursor(cursor time.Time) error
}

// Defaults of the Config.
const (
	DefaultQueueSize   = 64
	DefaultStopTimeout = 5 * time.Second
)

// Config of the Processor.
type Config struct {
	QueueSize   int
	StopTimeout time.Duration

	// OnError is called with every *DispatchError, if set.
	OnError func(err *DispatchError)
}

// Processor is the dispatcher. It's started once and stopped once.
type Processor struct {
	cfg     Config
	sub     Subscriber
	cursors CursorStore
	routes  Router

	queue chan messaging.Message
	stop  chan struct{}
	done  chan struct{}

	l           sync.Mutex
	cursor      time.Time
	unsubscribe func()
	cancel      context.CancelFunc
	started     bool
	stopped     bool
}

// New returns a Processor. It panics if the router doesn't cover every
// message kind. cursors can be nil when the cursor is kept only in memory.
func New(sub Subscriber, cursors CursorStore, routes Router, cfg Config) *Processor {
	for _, k := range pltype.Kinds() {
		assert.That(routes[k] != nil, "router has no handler for %s", k)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultStopTimeout
	}
	return &Processor{
		cfg:     cfg,
		sub:     sub,
		cursors: cursors,
		routes:  routes,
		queue:   make(chan messaging.Message, cfg.QueueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// LogOnly is the handler of informational messages.
func LogOnly(_ context.Context, msg messaging.Message) error {
	glog.V(1).Infof("%s message: %s", pltype.KindOf(msg.Type), msg)
	return nil
}

// Start restores the cursor, subscribes to the message stream, and starts
// the consumer goroutine. It returns an error if already started.
func (p *Processor) Start(ctx context.Context) error {
	p.l.Lock()
	defer p.l.Unlock()

	if p.started {
		return errors.New("dispatcher already started")
	}
	p.started = true

	if p.cursors != nil {
		c, found, err := p.cursors.DispatchCursor()
		if err != nil {
			glog.Warningln("dispatch cursor restore:", err)
		} else if found {
			p.cursor = c
			glog.V(1).Infoln("dispatch cursor restored:", c.Format(time.RFC3339Nano))
		}
	}

	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)
	p.unsubscribe = p.sub.OnMessage(p.enqueue)
	glog.V(1).Infoln("dispatcher started")
	return nil
}

// enqueue is the Messaging Agent's callback. It blocks while the queue is
// full, which slows the producer down instead of losing messages.
func (p *Processor) enqueue(msg messaging.Message) {
	select {
	case p.queue <- msg:
	case <-p.stop:
		glog.V(3).Infoln("dispatcher stopped, dropping:", msg)
	}
}

func (p *Processor) loop(ctx context.Context) {
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case msg := <-p.queue:
			p.process(ctx, msg)
		}
	}
}

// process handles one message. It returns true if a handler was called.
func (p *Processor) process(ctx context.Context, msg messaging.Message) (handled bool) {
	if msg.Direction != messaging.Received {
		glog.V(5).Infoln("skip:", msg)
		return false
	}
	if !p.advance(msg.CreatedTime) {
		glog.V(3).Infoln("duplicate or late, skip:", msg)
		return false
	}

	kind := pltype.KindOf(msg.Type)
	handler := p.routes[kind]
	if handler == nil {
		p.report(&DispatchError{Kind: KindRoute, MsgType: msg.Type, Thid: msg.Thid(),
			Err: fmt.Errorf("no handler for %s", kind)})
		return false
	}

	glog.V(3).Infof("dispatch %s: %s", kind, msg)
	if err := p.call(ctx, handler, msg); err != nil {
		p.report(err)
	}
	return true
}

func (p *Processor) call(ctx context.Context, h Handler, msg messaging.Message) (derr *DispatchError) {
	defer func() {
		if r := recover(); r != nil {
			derr = &DispatchError{Kind: KindPanic, MsgType: msg.Type, Thid: msg.Thid(),
				Err: fmt.Errorf("%v", r)}
		}
	}()
	if err := h(ctx, msg); err != nil {
		kind := KindHandler
		if errors.Is(err, ErrDecode) {
			kind = KindDecode
		}
		return &DispatchError{Kind: kind, MsgType: msg.Type, Thid: msg.Thid(), Err: err}
	}
	return nil
}

func (p *Processor) report(err *DispatchError) {
	glog.Errorln(err)
	if p.cfg.OnError != nil {
		p.cfg.OnError(err)
	}
}

// advance moves the cursor to t if t is after it, and persists the cursor.
func (p *Processor) advance(t time.Time) bool {
	p.l.Lock()
	if !t.After(p.cursor) {
		p.l.Unlock()
		return false
	}
	p.cursor = t
	p.l.Unlock()

	if p.cursors != nil {
		if err := p.cursors.SetDispatchCursor(t); err != nil {
			glog.Warningln("dispatch cursor persist:", err)
		}
	}
	return true
}

// Cursor returns the current dispatch cursor.
func (p *Processor) Cursor() time.Time {
	p.l.Lock()
	defer p.l.Unlock()
	return p.cursor
}

// Stop unsubscribes from the message stream and stops the consumer. It waits
// the current message up to the StopTimeout or ctx. Stop can be called many
// times.
func (p *Processor) Stop(ctx context.Context) error {
	p.l.Lock()
	if !p.started || p.stopped {
		p.l.Unlock()
		return nil
	}
	p.stopped = true
	unsubscribe, cancel := p.unsubscribe, p.cancel
	p.l.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	close(p.stop)

	timer := time.NewTimer(p.cfg.StopTimeout)
	defer timer.Stop()
	defer cancel()

	select {
	case <-p.done:
		glog.V(1).Infoln("dispatcher stopped")
		return nil
	case <-timer.C:
		return errors.New("dispatcher stop timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}
