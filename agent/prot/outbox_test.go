package prot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/lainio/err2/assert"
)

type sender struct {
	l    sync.Mutex
	sent []messaging.Message
	err  error
	hold chan struct{}
}

func (s *sender) Send(ctx context.Context, msg messaging.Message) error {
	if s.hold != nil {
		select {
		case <-s.hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.l.Lock()
	defer s.l.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func TestOutboxSend(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	s := &sender{err: errors.New("offline")}
	o := NewOutbox(s, time.Second)

	results := make(chan error, 2)
	assert.NoError(o.Send(messaging.Message{ID: "1"}, func(err error) { results <- err }))
	assert.NoError(o.Send(messaging.Message{ID: "2"}, nil))
	assert.NoError(o.Wait(context.Background()))

	assert.SLen(s.sent, 2)
	assert.Error(<-results)
}

func TestOutboxClose(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	s := &sender{hold: make(chan struct{})}
	o := NewOutbox(s, time.Second)
	assert.NoError(o.Send(messaging.Message{ID: "1"}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.That(errors.Is(o.Close(ctx), context.DeadlineExceeded))
	assert.That(errors.Is(o.Send(messaging.Message{ID: "2"}, nil), ErrOutboxClosed))

	close(s.hold)
	assert.NoError(o.Wait(context.Background()))
	assert.SLen(s.sent, 1)
}

func TestOutboxSendWhileWaiting(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	s := &sender{}
	o := NewOutbox(s, time.Second)
	assert.NoError(o.Wait(context.Background()))

	const senders, perSender = 4, 50
	var callbacks sync.WaitGroup
	callbacks.Add(senders * perSender)
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				err := o.Send(messaging.Message{ID: "m"}, func(error) { callbacks.Done() })
				if err != nil {
					callbacks.Done()
				}
			}
		}()
	}
	stop := make(chan struct{})
	waited := make(chan struct{})
	go func() {
		defer close(waited)
		for {
			select {
			case <-stop:
				return
			default:
				_ = o.Wait(context.Background())
			}
		}
	}()

	wg.Wait()
	assert.NoError(o.Wait(context.Background()))
	close(stop)
	<-waited
	callbacks.Wait()

	s.l.Lock()
	defer s.l.Unlock()
	assert.SLen(s.sent, senders*perSender)
}
