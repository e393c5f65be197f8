// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"sync"

	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
)

type watcherKey struct{}

// Watcher counts signals by type and cancels a context on the second one.
type Watcher struct {
	mu   sync.Mutex
	seen map[os.Signal]struct{}
}

// NewWatcher returns a Watcher that has seen no signals.
func NewWatcher() *Watcher {
	return &Watcher{seen: make(map[os.Signal]struct{})}
}

// Watch reads sigCh until it is closed or ctx is done.
// The second signal of a given type since the last Reset unsubscribes and
// closes sigCh, then cancels ctx.
func (w *Watcher) Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if w.observe(sig) {
				ctxlog.Info(ctx, "watchdog", "detail", "second signal of type received, cancelling", "signal", sig.String())
				Stop(sigCh)
				close(sigCh)
				cancel()

				return
			}

			ctxlog.Debug(ctx, "watchdog", "detail", "first signal of type received", "signal", sig.String())
		}
	}
}

// Reset forgets every signal seen so far.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	clear(w.seen)
}

// observe records sig and reports whether it was already seen.
func (w *Watcher) observe(sig os.Signal) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, dup := w.seen[sig]; dup {
		return true
	}

	w.seen[sig] = struct{}{}

	return false
}

// WithWatcher returns a copy of ctx carrying w.
func WithWatcher(ctx context.Context, w *Watcher) context.Context {
	return context.WithValue(ctx, watcherKey{}, w)
}

// Reset resets the Watcher carried by ctx, if any. Long-lived sessions call it
// once a unit of work has finished so that signals sent to separate children
// are not counted together.
func Reset(ctx context.Context) {
	if w, ok := ctx.Value(watcherKey{}).(*Watcher); ok {
		w.Reset()
	}
}
