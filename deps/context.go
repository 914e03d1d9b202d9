package deps

// Option configures a ReactiveContext.
type Option func(*ReactiveContext)

// WithFlushRequester installs a hook that is called when work first becomes
// pending on an idle context: a computation was queued for recompute or an
// after-flush callback was registered. The hook is called at most once until
// the next Flush starts, so a host can use it to schedule that Flush on its
// own event loop.
func WithFlushRequester(fn func(rctx *ReactiveContext)) Option {
	return func(rctx *ReactiveContext) {
		rctx.requestFlush = fn
	}
}

// ReactiveContext is a reactive universe: it owns the current computation
// slot, the recompute queue and the after-flush queue. It is not safe for
// concurrent use, every call must come from the same logical thread.
type ReactiveContext struct {
	// It says what the current computation is, depending on the call stack, if any
	current *Computation

	pending    *recomputeQueue
	afterFlush callbackQueue

	flushing       bool
	flushRequested bool
	requestFlush   func(rctx *ReactiveContext)

	nextID uint64
	stats  counters
}

func NewReactiveContext(opts ...Option) *ReactiveContext {
	rctx := &ReactiveContext{
		pending: newRecomputeQueue(),
	}
	for _, opt := range opts {
		opt(rctx)
	}
	return rctx
}

// Run creates a computation for fn and runs it immediately. If a computation
// is currently running, the new one becomes its child and is stopped when the
// parent is invalidated or stopped.
func (rctx *ReactiveContext) Run(fn func(c *Computation)) *Computation {
	parent := rctx.current

	rctx.nextID++
	c := newComputation(rctx, rctx.nextID, parent, fn)
	defer func() {
		c.firstRun = false

		if parent != nil {
			if parent.invalidated || parent.stopped {
				// the parent already went through its teardown, nothing would stop us later
				c.Stop()
			} else {
				parent.children = append(parent.children, c)
			}
		}
	}()

	c.run()
	return c
}

// Depend registers d as a dependency of the current computation.
func (rctx *ReactiveContext) Depend(d *Dependency) bool {
	return d.Depend()
}

// OnInvalidate registers cb on the current computation.
func (rctx *ReactiveContext) OnInvalidate(cb func(c *Computation)) error {
	if rctx.current == nil {
		return ErrNoCurrentComputation
	}
	rctx.current.OnInvalidate(cb)
	return nil
}

// AfterFlush schedules cb to run once the recompute queue has been drained by
// the next (or current) Flush.
func (rctx *ReactiveContext) AfterFlush(cb func()) {
	rctx.afterFlush.push(cb)
	rctx.stats.afterFlushQueue.Store(int64(rctx.afterFlush.len()))
	rctx.requireFlush()
}

// Flush reruns every invalidated computation, then runs the after-flush
// callbacks, and repeats until both queues are empty. No computation is
// current while callbacks run.
//
// A panic raised by a computation or callback propagates out of Flush and
// leaves the remaining work queued, the flush requester is asked again for it.
func (rctx *ReactiveContext) Flush() error {
	if rctx.flushing {
		return ErrFlushInProgress
	}

	prev := rctx.current
	rctx.current = nil
	rctx.flushing = true
	rctx.flushRequested = false
	defer func() {
		rctx.flushing = false
		rctx.current = prev
		// only after a panic, a completed flush leaves both queues empty
		if rctx.pending.len() > 0 || rctx.afterFlush.len() > 0 {
			rctx.requireFlush()
		}
	}()

	rctx.stats.flushes.Add(1)

	for {
		if c, ok := rctx.pending.pop(); ok {
			rctx.stats.pending.Store(int64(rctx.pending.len()))
			if !c.stopped && c.invalidated {
				c.rerun()
			}
			continue
		}

		if cb, ok := rctx.afterFlush.pop(); ok {
			rctx.stats.afterFlushQueue.Store(int64(rctx.afterFlush.len()))
			rctx.stats.afterFlushCalls.Add(1)
			cb()
			continue
		}

		return nil
	}
}

// Nonreactive runs fn with no current computation, so reads inside fn create
// no dependencies and computations created inside it are top level.
func (rctx *ReactiveContext) Nonreactive(fn func()) {
	rctx.withCurrent(nil, fn)
}

// Active reports whether a computation is currently running.
func (rctx *ReactiveContext) Active() bool {
	return rctx.current != nil
}

// CurrentComputation returns the innermost running computation, or nil.
func (rctx *ReactiveContext) CurrentComputation() *Computation {
	return rctx.current
}

// Flushing reports whether a Flush is draining the queues.
func (rctx *ReactiveContext) Flushing() bool {
	return rctx.flushing
}

func (rctx *ReactiveContext) enqueue(c *Computation) {
	if rctx.pending.push(c) {
		rctx.stats.pending.Store(int64(rctx.pending.len()))
		rctx.requireFlush()
	}
}

func (rctx *ReactiveContext) requireFlush() {
	if rctx.flushing || rctx.flushRequested || rctx.requestFlush == nil {
		return
	}
	rctx.flushRequested = true
	rctx.requestFlush(rctx)
}

// withCurrent runs fn with c as the current computation and restores the
// previous one afterwards, even if fn panics.
func (rctx *ReactiveContext) withCurrent(c *Computation, fn func()) {
	prev := rctx.current
	rctx.current = c
	defer func() { rctx.current = prev }()

	fn()
}
