package sidecar

import (
	"sync"

	"github.com/findy-network/findy-wallet/agent/messaging"
)

// mailbox is an unbounded FIFO of pushed messages. A delivering goroutine
// runs only while the mailbox has messages, so the read loop never waits for
// the listeners.
type mailbox struct {
	deliver func(messaging.Message)

	l       sync.Mutex
	items   []messaging.Message
	running bool
}

func newMailbox(deliver func(messaging.Message)) *mailbox {
	return &mailbox{deliver: deliver}
}

func (b *mailbox) put(msg messaging.Message) {
	b.l.Lock()
	defer b.l.Unlock()

	b.items = append(b.items, msg)
	if !b.running {
		b.running = true
		go b.drain()
	}
}

func (b *mailbox) drain() {
	for {
		b.l.Lock()
		if len(b.items) == 0 {
			b.running = false
			b.l.Unlock()
			return
		}
		msg := b.items[0]
		b.items[0] = messaging.Message{}
		b.items = b.items[1:]
		b.l.Unlock()

		b.deliver(msg)
	}
}
