// File: internal/usecase/gateway.go
package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

type HandleState string

const (
	HandleActive    HandleState = "active"
	HandleCompleted HandleState = "completed"
	HandleCancelled HandleState = "cancelled"
	HandleFailed    HandleState = "failed"
)

// Operation is one cancellable unit of client-visible work. It must honor
// ctx at every suspension point so cancellation stops outbound calls.
type Operation func(ctx context.Context) error

// Handle is the caller-visible reference to one in-flight operation.
// Exactly one terminal transition ever happens; the first signal wins.
type Handle struct {
	slot   string
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	once  sync.Once
	state HandleState
	err   error
}

func (h *Handle) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == HandleActive
}

func (h *Handle) State() HandleState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Wait blocks until the handle is terminal and returns the operation error
// (nil on completion, context.Canceled on cancellation).
func (h *Handle) Wait() error {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Handle) finish(state HandleState, err error) {
	h.once.Do(func() {
		h.mu.Lock()
		h.state = state
		h.err = err
		h.mu.Unlock()
		close(h.done)
	})
}

// RequestGateway binds client-visible operations to cancellation tokens.
// Each logical slot (e.g. one chat conversation) has at most one live
// handle: starting a new operation on a slot first cancels the old one.
type RequestGateway struct {
	mu    sync.Mutex
	slots map[string]*Handle
	log   *zerolog.Logger
}

func NewRequestGateway(log *zerolog.Logger) *RequestGateway {
	return &RequestGateway{slots: make(map[string]*Handle), log: log}
}

// Start launches op under a fresh cancellable context derived from ctx and
// returns its handle immediately.
func (g *RequestGateway) Start(ctx context.Context, slot string, op Operation) *Handle {
	opCtx, cancel := context.WithCancel(ctx)
	h := &Handle{slot: slot, cancel: cancel, done: make(chan struct{}), state: HandleActive}

	g.mu.Lock()
	if prev := g.slots[slot]; prev != nil && prev.Active() {
		g.log.Debug().Str("slot", slot).Msg("superseding active operation")
		prev.cancel()
		prev.finish(HandleCancelled, context.Canceled)
	}
	g.slots[slot] = h
	g.mu.Unlock()

	go func() {
		defer cancel()
		err := op(opCtx)
		switch {
		case err == nil:
			h.finish(HandleCompleted, nil)
		case errors.Is(err, context.Canceled):
			h.finish(HandleCancelled, err)
		default:
			h.finish(HandleFailed, err)
		}
		g.release(h)
	}()
	return h
}

// Cancel signals the handle's token. Safe to call at any time; after a
// terminal state it is a no-op.
func (g *RequestGateway) Cancel(h *Handle) {
	if h == nil {
		return
	}
	h.cancel()
	h.finish(HandleCancelled, context.Canceled)
	g.release(h)
}

// IsActive is a non-blocking liveness query.
func (g *RequestGateway) IsActive(h *Handle) bool {
	return h != nil && h.Active()
}

// release drops the slot entry once its handle is terminal, keeping the
// map from accumulating dead handles.
func (g *RequestGateway) release(h *Handle) {
	g.mu.Lock()
	if g.slots[h.slot] == h {
		delete(g.slots, h.slot)
	}
	g.mu.Unlock()
}
