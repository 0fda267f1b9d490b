package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Async delivers in the background so callers never wait on or fail because
// of a notification. Failures are logged.
type Async struct {
	next    Notifier
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, timeout time.Duration) *Async {
	return &Async{next: next, timeout: timeout}
}

func (a *Async) NotifyOwnerSignup(ctx context.Context, n OwnerSignup) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		// Detached from the request, which ends before delivery does.
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		if err := a.next.NotifyOwnerSignup(dctx, n); err != nil {
			slog.WarnContext(dctx, "owner signup notification failed", "owner_id", n.OwnerID, "error", err)
			return
		}
		slog.InfoContext(dctx, "owner signup notification sent", "owner_id", n.OwnerID)
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
