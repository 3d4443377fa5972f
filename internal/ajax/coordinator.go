// Package ajax keeps at most one forecast data request current.
package ajax

import "context"

// Coordinator hands out cancellation contexts and request ids. It is meant to
// be used from a single goroutine and holds no locks.
type Coordinator struct {
	base    context.Context
	cancel  context.CancelFunc
	current uint64
}

// NewCoordinator creates a coordinator whose contexts derive from base.
func NewCoordinator(base context.Context) *Coordinator {
	return &Coordinator{base: base}
}

// IssueCancellation cancels the context handed out by the previous call, if
// any, and returns a fresh one for the next request.
func (c *Coordinator) IssueCancellation() context.Context {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	return ctx
}

// NextRequestID advances the counter and returns the new current id.
func (c *Coordinator) NextRequestID() uint64 {
	c.current++
	return c.current
}

// IsCurrent reports whether id is the latest id handed out.
func (c *Coordinator) IsCurrent(id uint64) bool {
	return id == c.current
}

// Stop cancels the outstanding context.
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
