package deps

import mapset "github.com/deckarep/golang-set/v2"

// A Computation binds a function to the dependencies it read during its most
// recent run. When one of them changes the computation is invalidated and
// queued, and the next Flush runs the function again.
type Computation struct {
	rctx   *ReactiveContext
	id     uint64
	parent *Computation
	fn     func(c *Computation)

	stopped     bool
	invalidated bool
	firstRun    bool

	// Dependencies read during the current run, each one also lists us as a dependent
	deps mapset.Set[*Dependency]
	// Callbacks registered since the last invalidation, fired in registration order
	callbacks []func(c *Computation)
	// Computations created while we were current, stopped before we rerun or go inert
	children []*Computation
}

func newComputation(rctx *ReactiveContext, id uint64, parent *Computation, fn func(c *Computation)) *Computation {
	return &Computation{
		rctx:     rctx,
		id:       id,
		parent:   parent,
		fn:       fn,
		firstRun: true,
		deps:     mapset.NewThreadUnsafeSet[*Dependency](),
	}
}

func (c *Computation) ID() uint64 {
	return c.id
}

// Parent returns the computation that was current when c was created, nil for
// top-level computations.
func (c *Computation) Parent() *Computation {
	return c.parent
}

func (c *Computation) Stopped() bool {
	return c.stopped
}

func (c *Computation) Invalidated() bool {
	return c.invalidated
}

// FirstRun is true only while the function runs for the first time.
func (c *Computation) FirstRun() bool {
	return c.firstRun
}

// OnInvalidate registers cb to be called with c when c is next invalidated or
// stopped. If that already happened cb is called right away.
func (c *Computation) OnInvalidate(cb func(c *Computation)) {
	if c.invalidated || c.stopped {
		cb(c)
		return
	}
	c.callbacks = append(c.callbacks, cb)
}

// Invalidate detaches c from its dependencies, stops its children, fires its
// invalidation callbacks and queues it for the next Flush. It does nothing if
// c is already invalidated or stopped.
func (c *Computation) Invalidate() {
	if c.invalidated || c.stopped {
		return
	}
	c.invalidated = true
	c.rctx.stats.invalidations.Add(1)

	c.teardown()

	// a callback may have stopped us
	if !c.stopped {
		c.rctx.enqueue(c)
	}
}

// Stop permanently deactivates c. Pending invalidation callbacks fire once if
// c was not already invalidated. Stopping twice is a no-op.
func (c *Computation) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	c.rctx.stats.stops.Add(1)

	if c.invalidated {
		return
	}
	c.invalidated = true
	c.teardown()
}

// teardown unlinks dependencies, stops children and drains the callbacks.
func (c *Computation) teardown() {
	for _, d := range c.deps.ToSlice() {
		d.dependents.Remove(c)
	}
	c.deps.Clear()

	children := c.children
	c.children = nil
	for _, child := range children {
		child.Stop()
	}

	callbacks := c.callbacks
	c.callbacks = nil
	for _, cb := range callbacks {
		cb(c)
	}
}

func (c *Computation) run() {
	c.rctx.stats.runs.Add(1)
	c.rctx.withCurrent(c, func() { c.fn(c) })
}

// rerun is only called by Flush. The flag is cleared before the function
// runs so that the function may invalidate or stop its own computation.
func (c *Computation) rerun() {
	c.invalidated = false
	c.rctx.stats.reruns.Add(1)
	c.rctx.withCurrent(c, func() { c.fn(c) })
}
