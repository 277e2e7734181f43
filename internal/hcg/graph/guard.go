package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/c-daly/logos-sub004/internal/types"
)

// sessionGuard bounds the number of concurrently held sessions.
// Acquisition blocks up to the configured timeout, then fails with
// GRAPH_POOL_EXHAUSTED; caller cancellation mid-wait surfaces as
// GRAPH_TRANSIENT instead. The zero value is not usable; use newSessionGuard.
type sessionGuard struct {
	slots   chan struct{}
	timeout time.Duration
}

func newSessionGuard(size int, timeout time.Duration) *sessionGuard {
	return &sessionGuard{
		slots:   make(chan struct{}, size),
		timeout: timeout,
	}
}

// acquire claims a session slot, blocking up to the guard's timeout.
// Callers must release() the slot on all exit paths.
func (g *sessionGuard) acquire(ctx context.Context) error {
	select {
	case g.slots <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case g.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		// The caller gave up, not the pool. Keep GRAPH_POOL_EXHAUSTED for
		// genuine saturation so monitors can tell the two apart.
		return types.WrapError(ErrCodeGraphTransient,
			"session acquisition cancelled", ctx.Err())
	case <-timer.C:
		return types.NewError(ErrCodeGraphPoolExhausted,
			fmt.Sprintf("no session available within %s", g.timeout))
	}
}

// release returns a previously acquired slot.
func (g *sessionGuard) release() {
	select {
	case <-g.slots:
	default:
		// release without acquire is a programming error; keep the guard sane
	}
}

// inUse returns the number of currently held slots.
func (g *sessionGuard) inUse() int {
	return len(g.slots)
}
