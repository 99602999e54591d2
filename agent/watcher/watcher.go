// Package watcher polls the publication status of a DID until the ledger has
// it. Later provisioning steps need a published issuer DID.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/golang/glog"
)

// DefaultInterval is the poll interval when none is given.
const DefaultInterval = 5 * time.Second

var (
	// ErrDeadline is returned when the DID wasn't published in time.
	ErrDeadline = errors.New("publication deadline exceeded")

	// ErrCancelled is returned when the watcher was cancelled.
	ErrCancelled = errors.New("publication watch cancelled")

	errNotPublished = errors.New("not published")
)

// StatusGetter is the part of remote.Client the watcher needs.
type StatusGetter interface {
	GetDIDStatus(ctx context.Context, ref string) (*remote.ManagedDID, error)
}

// Config of the Watcher. Zero Timeout means no deadline, the watcher polls
// until the DID is published or it's cancelled.
type Config struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Watcher polls one DID's status at a fixed interval.
type Watcher struct {
	cfg    Config
	client StatusGetter

	l      sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
	checks int
}

// New returns a Watcher which uses client for the status checks.
func New(client StatusGetter, cfg Config) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Watcher{cfg: cfg, client: client}
}

// Start starts polling the DID's status in the background. It's an error to
// start a running watcher.
func (w *Watcher) Start(ctx context.Context, ref string) error {
	w.l.Lock()
	defer w.l.Unlock()

	if w.done != nil {
		select {
		case <-w.done:
		default:
			return errors.New("watcher already running")
		}
	}
	if w.cfg.Timeout > 0 {
		ctx, w.cancel = context.WithTimeout(ctx, w.cfg.Timeout)
	} else {
		ctx, w.cancel = context.WithCancel(ctx)
	}
	w.done = make(chan struct{})
	w.err = nil
	w.checks = 0

	go w.loop(ctx, ref, w.done)
	return nil
}

func (w *Watcher) loop(ctx context.Context, ref string, done chan struct{}) {
	defer close(done)

	check := func() error {
		w.l.Lock()
		w.checks++
		n := w.checks
		w.l.Unlock()

		d, err := w.client.GetDIDStatus(ctx, ref)
		if err != nil {
			return err
		}
		glog.V(3).Infof("DID %s status check %d: %s", ref, n, d.Status)
		if !d.Published() {
			return errNotPublished
		}
		return nil
	}
	b := backoff.WithContext(backoff.NewConstantBackOff(w.cfg.Interval), ctx)
	err := backoff.RetryNotify(check, b, func(err error, next time.Duration) {
		if !errors.Is(err, errNotPublished) {
			glog.Warningf("DID status check: %v, next in %v", err, next)
		}
	})
	if err != nil && ctx.Err() == nil {
		if _, ok := ctx.Deadline(); ok {
			// the back-off gives up when the next check would be late
			<-ctx.Done()
		}
	}
	if err != nil {
		err = w.ctxErr(ctx, err)
	}

	w.l.Lock()
	w.err = err
	w.l.Unlock()
	if err == nil {
		glog.V(1).Infoln("DID published:", ref)
	}
}

func (w *Watcher) ctxErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w (%v): %w", ErrDeadline, w.cfg.Timeout, ctx.Err())
	case ctx.Err() != nil:
		return ErrCancelled
	}
	return err
}

// Wait blocks until the DID is published, the watcher is cancelled, or ctx
// is done. It returns nil only when the DID is published.
func (w *Watcher) Wait(ctx context.Context) error {
	w.l.Lock()
	done := w.done
	w.l.Unlock()
	if done == nil {
		return errors.New("watcher not started")
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	w.l.Lock()
	defer w.l.Unlock()
	return w.err
}

// Cancel stops polling. It's safe to call at any time.
func (w *Watcher) Cancel() {
	w.l.Lock()
	cancel := w.cancel
	w.l.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Checks returns the count of status checks of the latest run.
func (w *Watcher) Checks() int {
	w.l.Lock()
	defer w.l.Unlock()
	return w.checks
}

// WaitPublished is Start followed by Wait.
func (w *Watcher) WaitPublished(ctx context.Context, ref string) error {
	if err := w.Start(ctx, ref); err != nil {
		return err
	}
	return w.Wait(ctx)
}
