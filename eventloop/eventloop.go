// Package eventloop serializes substitution requests. The engine is not
// reentrant and assumes a single logical caller; the loop provides exactly
// that, with a one-slot queue for strict back-pressure.
package eventloop

import (
	"context"
	"log"

	"text-expander/engine"
)

// ResultCallback is invoked on the loop goroutine when a substitution
// completes, with the propagated error if it failed.
type ResultCallback func(err error)

type request struct {
	req engine.Request
	cb  ResultCallback
}

// Loop runs substitutions one at a time, in submission order.
type Loop struct {
	eng  *engine.Engine
	reqs chan request
}

// New creates a loop around the engine.
func New(eng *engine.Engine) *Loop {
	return &Loop{
		eng:  eng,
		reqs: make(chan request, 1),
	}
}

// Submit enqueues a substitution if the single queue slot is free and
// reports whether it was accepted. A rejected request was dropped; the
// caller decides whether to retry.
func (l *Loop) Submit(req engine.Request, cb ResultCallback) bool {
	select {
	case l.reqs <- request{req: req, cb: cb}:
		return true
	default:
		return false
	}
}

// Run processes requests until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-l.reqs:
			err := l.eng.PerformSubstitution(r.req)
			if err != nil {
				log.Printf("Substitution failed: %v", err)
			}
			if r.cb != nil {
				r.cb(err)
			}
		}
	}
}
