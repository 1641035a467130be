package mdt

import (
	"context"
)

// Run processes controller work until ctx is cancelled. It may be called once.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errAlreadyRunning
	}
	c.runCtx = ctx
	defer close(c.done)
	defer c.shutdown()
	for {
		select {
		case <-ctx.Done():
			return nil
		case task := <-c.tasks:
			task()
		}
	}
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// call runs fn on the loop and waits for it to finish.
func (c *Controller) call(ctx context.Context, fn func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case c.tasks <- task:
	case <-c.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-c.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn without waiting. It is used by timers and background fetches
// and must never be called from the loop itself.
func (c *Controller) post(fn func()) {
	select {
	case c.tasks <- fn:
	case <-c.done:
	}
}

func (c *Controller) shutdown() {
	if c.settleTimer != nil {
		c.settleTimer.Stop()
	}
	if c.watchdog != nil {
		c.watchdog.Stop()
	}
	for _, entry := range c.notifications {
		entry.timer.Stop()
	}
	for anchor, chart := range c.mounted {
		chart.Destroy()
		delete(c.mounted, anchor)
	}
	c.log.Debugw("controller loop stopped")
}
