package prot

import (
	"context"
	"errors"
	"flag"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/findy-network/findy-wallet/agent/keychain"
	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

func TestMain(m *testing.M) {
	try.To(flag.Set("logtostderr", "true"))
	try.To(flag.Set("v", "5"))
	flag.Parse()
	os.Exit(m.Run())
}

type stream struct {
	l  sync.Mutex
	fn func(messaging.Message)
}

func (s *stream) OnMessage(fn func(messaging.Message)) func() {
	s.l.Lock()
	defer s.l.Unlock()
	s.fn = fn
	return func() {
		s.l.Lock()
		defer s.l.Unlock()
		s.fn = nil
	}
}

func (s *stream) deliver(msg messaging.Message) bool {
	s.l.Lock()
	fn := s.fn
	s.l.Unlock()
	if fn == nil {
		return false
	}
	fn(msg)
	return true
}

// recorder is a router which records the handled messages.
type recorder struct {
	l       sync.Mutex
	handled []messaging.Message
	fail    map[string]error
	seen    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fail: make(map[string]error), seen: make(chan struct{}, 100)}
}

func (r *recorder) handle(_ context.Context, msg messaging.Message) error {
	r.l.Lock()
	r.handled = append(r.handled, msg)
	err := r.fail[msg.ID]
	r.l.Unlock()
	r.seen <- struct{}{}
	if err != nil && err.Error() == "panic" {
		panic("handler panic")
	}
	return err
}

func (r *recorder) router() Router {
	rt := make(Router)
	for _, k := range pltype.Kinds() {
		rt[k] = r.handle
	}
	return rt
}

func (r *recorder) ids() []string {
	r.l.Lock()
	defer r.l.Unlock()
	ids := make([]string, 0, len(r.handled))
	for _, m := range r.handled {
		ids = append(ids, m.ID)
	}
	return ids
}

var t0 = time.Date(2025, 7, 13, 10, 0, 0, 0, time.UTC)

func msg(id string, dir messaging.Direction, ts int) messaging.Message {
	return messaging.Message{
		ID:          id,
		Direction:   dir,
		Type:        pltype.BasicMessage,
		CreatedTime: t0.Add(time.Duration(ts) * time.Second),
	}
}

func TestNewNeedsCompleteRouter(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("incomplete router must panic")
		}
	}()
	New(&stream{}, nil, Router{pltype.KindCredentialOffer: LogOnly}, Config{})
}

func TestDedupMonotonicity(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	rec := newRecorder()
	p := New(&stream{}, nil, rec.router(), Config{})
	ctx := context.Background()

	assert.That(p.process(ctx, msg("t2", messaging.Received, 2)))
	assert.That(!p.process(ctx, msg("t1", messaging.Received, 1)), "older is dropped")
	assert.That(!p.process(ctx, msg("t2-again", messaging.Received, 2)), "equal is dropped")
	assert.That(!p.process(ctx, msg("sent", messaging.Sent, 5)), "sent is skipped")
	assert.That(p.Cursor().Equal(t0.Add(2*time.Second)), "sent doesn't move cursor")
	assert.That(p.process(ctx, msg("t3", messaging.Received, 3)))

	assert.DeepEqual(rec.ids(), []string{"t2", "t3"})
}

func TestHandlerErrorsAreIsolated(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	rec := newRecorder()
	rec.fail["bad"] = errors.New("handler failed")
	rec.fail["undecodable"] = ErrDecode
	rec.fail["boom"] = errors.New("panic")

	var errs []*DispatchError
	p := New(&stream{}, nil, rec.router(), Config{OnError: func(err *DispatchError) {
		errs = append(errs, err)
	}})
	ctx := context.Background()

	p.process(ctx, msg("bad", messaging.Received, 1))
	p.process(ctx, msg("undecodable", messaging.Received, 2))
	p.process(ctx, msg("boom", messaging.Received, 3))
	p.process(ctx, msg("good", messaging.Received, 4))

	assert.DeepEqual(rec.ids(), []string{"bad", "undecodable", "boom", "good"})
	assert.SLen(errs, 3)
	assert.Equal(errs[0].Kind, KindHandler)
	assert.Equal(errs[1].Kind, KindDecode)
	assert.Equal(errs[2].Kind, KindPanic)
	assert.That(errors.Is(errs[2], &DispatchError{Kind: KindPanic}))

	// failed message is not retried on redelivery
	p.process(ctx, msg("bad", messaging.Received, 1))
	assert.SLen(rec.ids(), 4)
}

func TestLoopAndStop(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	s := &stream{}
	rec := newRecorder()
	kc := keychain.New(keychain.NewMemStore())
	p := New(s, kc, rec.router(), Config{QueueSize: 1})

	assert.NoError(p.Start(context.Background()))
	assert.Error(p.Start(context.Background()))

	for i := 1; i <= 5; i++ {
		assert.That(s.deliver(msg("m", messaging.Received, i)))
	}
	s.deliver(msg("dup", messaging.Received, 3))
	for i := 0; i < 5; i++ {
		<-rec.seen
	}

	assert.NoError(p.Stop(context.Background()))
	assert.NoError(p.Stop(context.Background()))
	assert.That(!s.deliver(msg("late", messaging.Received, 10)), "unsubscribed")

	// cursor is persisted and restored
	c, found, err := kc.DispatchCursor()
	assert.NoError(err)
	assert.That(found)
	assert.That(c.Equal(t0.Add(5 * time.Second)))

	p2 := New(&stream{}, kc, rec.router(), Config{})
	assert.NoError(p2.Start(context.Background()))
	defer func() { _ = p2.Stop(context.Background()) }()
	assert.That(p2.Cursor().Equal(c))
	assert.That(!p2.process(context.Background(), msg("replay", messaging.Received, 4)))
}
