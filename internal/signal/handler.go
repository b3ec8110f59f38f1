// Package signal cancels the CLI's context on SIGINT or SIGTERM so that an
// interrupted command rolls back its open store transaction instead of
// leaving it half applied.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler owns a context that is canceled on the first interrupt signal.
type Handler struct {
	ctx    context.Context //nolint:containedctx // the handler owns the context lifecycle
	cancel context.CancelFunc

	sigCh       chan os.Signal
	interrupted chan struct{}
	stopped     chan struct{}

	mu       sync.Mutex
	received os.Signal

	interruptOnce sync.Once
	stopOnce      sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := cli.Execute(h.Context(), info)
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		sigCh:       make(chan os.Signal, 1),
		interrupted: make(chan struct{}),
		stopped:     make(chan struct{}),
	}

	signal.Notify(h.sigCh, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled on interrupt or Stop.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted is closed once a signal has been received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Signal returns the first signal received, or nil.
func (h *Handler) Signal() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop stops listening and cancels the context. It is safe to call twice.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigCh)
		close(h.stopped)
		h.cancel()
	})
}

// interrupt records sig and cancels the context. Only the first call counts.
func (h *Handler) interrupt(sig os.Signal) {
	h.interruptOnce.Do(func() {
		h.mu.Lock()
		h.received = sig
		h.mu.Unlock()
		h.cancel()
		close(h.interrupted)
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.stopped:
			return
		case sig := <-h.sigCh:
			h.interrupt(sig)
		}
	}
}
