package holder

import (
	"context"
	"errors"
	"fmt"

	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/findy-network/findy-wallet/agent/status"
	"github.com/golang/glog"
)

// TearDown stops the wallet and deletes its persisted state. A running
// startup is aborted first. Every step is tried even when an earlier one
// fails, and the errors are returned together. The status is Disconnected
// afterwards.
func (a *Agent) TearDown(ctx context.Context) error {
	return a.stop(ctx, true)
}

// Shutdown stops the wallet like TearDown but keeps the persisted state, so
// the next StartUpAndConnect continues where this one left.
func (a *Agent) Shutdown(ctx context.Context) error {
	return a.stop(ctx, false)
}

func (a *Agent) stop(ctx context.Context, clear bool) error {
	a.abortStartup()
	a.watcher.Cancel()

	a.startMu.Lock()
	defer a.startMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	a.l.Lock()
	d := a.dispatcher
	a.dispatcher = nil
	a.l.Unlock()
	if d != nil {
		if err := d.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop dispatcher: %w", err))
		}
	}
	if err := a.outbox.Wait(ctx); err != nil {
		errs = append(errs, fmt.Errorf("wait sends: %w", err))
	}
	if a.msgs.State() != messaging.Stopped {
		if err := a.msgs.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop messaging: %w", err))
		}
	}
	if clear {
		if err := a.keys.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("clear keychain: %w", err))
		}
	}
	a.issuance.Reset()

	a.status.SetPhase(status.Disconnected)
	err := errors.Join(errs...)
	if err != nil {
		glog.Errorln("stop wallet:", err)
	} else {
		glog.V(1).Infoln("wallet stopped, state cleared:", clear)
	}
	return err
}
