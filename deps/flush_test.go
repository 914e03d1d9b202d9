package deps_test

import (
	"testing"

	"github.com/delaneyj/deps/deps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushOrdering(t *testing.T) {
	t.Run("after flush callbacks run in registration order once recompute is done", func(t *testing.T) {
		rctx := deps.NewReactiveContext()
		d := deps.NewDependency(rctx)
		log := []string{}
		active := []bool{}

		c := rctx.Run(func(c *deps.Computation) {
			rctx.Depend(d)
			if c.FirstRun() {
				return
			}
			log = append(log, "rerun")
			rctx.AfterFlush(func() {
				log = append(log, "B")
				active = append(active, rctx.Active())
			})
		})

		rctx.AfterFlush(func() {
			log = append(log, "A")
			active = append(active, rctx.Active())
			rctx.AfterFlush(func() {
				log = append(log, "C")
				active = append(active, rctx.Active())
			})
		})
		d.Changed()

		flush(t, rctx)
		assert.Equal(t, []string{"rerun", "A", "B", "C"}, log)
		assert.Equal(t, []bool{false, false, false}, active)
		c.Stop()
	})

	t.Run("recompute queue is fifo", func(t *testing.T) {
		rctx := deps.NewReactiveContext()
		log := []string{}
		names := []string{"x", "y", "z"}
		comps := make([]*deps.Computation, len(names))
		for i, name := range names {
			name := name
			comps[i] = rctx.Run(func(c *deps.Computation) {
				if !c.FirstRun() {
					log = append(log, name)
				}
			})
		}

		comps[2].Invalidate()
		comps[0].Invalidate()
		comps[1].Invalidate()
		comps[2].Invalidate()
		flush(t, rctx)
		assert.Equal(t, []string{"z", "x", "y"}, log)
	})

	t.Run("invalidation from after flush is recomputed before flush returns", func(t *testing.T) {
		rctx := deps.NewReactiveContext()
		v := deps.NewVar(rctx, 0)
		seen := []int{}

		c := rctx.Run(func(*deps.Computation) {
			seen = append(seen, v.Get())
		})

		rctx.AfterFlush(func() {
			v.Set(1)
			rctx.AfterFlush(func() {
				v.Set(2)
			})
		})

		flush(t, rctx)
		assert.Equal(t, []int{0, 1, 2}, seen)
		assert.Equal(t, 0, rctx.Stats().PendingRecomputes)
		c.Stop()
	})

	t.Run("cascading invalidations drain to a fixpoint", func(t *testing.T) {
		/*
			src
			 |
			mid (copies src)
			 |
			leaf
		*/
		rctx := deps.NewReactiveContext()
		src := deps.NewVar(rctx, 1)
		mid := deps.NewVar(rctx, 0)
		leafSeen := []int{}

		rctx.Run(func(*deps.Computation) {
			leafSeen = append(leafSeen, mid.Get())
		})
		rctx.Run(func(*deps.Computation) {
			mid.Set(src.Get() * 10)
		})
		flush(t, rctx)
		assert.Equal(t, []int{0, 10}, leafSeen)

		src.Set(2)
		flush(t, rctx)
		assert.Equal(t, []int{0, 10, 20}, leafSeen)
	})

	t.Run("stopped computations in the queue are skipped", func(t *testing.T) {
		rctx := deps.NewReactiveContext()
		runs := 0
		c := rctx.Run(func(*deps.Computation) { runs++ })
		c.Invalidate()
		c.Stop()
		flush(t, rctx)
		assert.Equal(t, 1, runs)
	})
}

func TestFlushErrors(t *testing.T) {
	t.Run("flush inside flush is rejected", func(t *testing.T) {
		rctx := deps.NewReactiveContext()
		var inner error
		ran := false

		rctx.AfterFlush(func() {
			inner = rctx.Flush()
			assert.True(t, rctx.Flushing())
		})
		rctx.AfterFlush(func() { ran = true })

		flush(t, rctx)
		assert.ErrorIs(t, inner, deps.ErrFlushInProgress)
		assert.True(t, ran)
		assert.False(t, rctx.Flushing())
	})

	t.Run("flush from a computation rerun is rejected", func(t *testing.T) {
		rctx := deps.NewReactiveContext()
		errs := []error{}
		c := rctx.Run(func(c *deps.Computation) {
			if !c.FirstRun() {
				errs = append(errs, rctx.Flush())
			}
		})
		c.Invalidate()
		flush(t, rctx)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], deps.ErrFlushInProgress)
		c.Stop()
	})

	t.Run("on invalidate needs a current computation", func(t *testing.T) {
		rctx := deps.NewReactiveContext()
		err := rctx.OnInvalidate(func(*deps.Computation) {})
		assert.ErrorIs(t, err, deps.ErrNoCurrentComputation)

		rctx.AfterFlush(func() {
			err = rctx.OnInvalidate(func(*deps.Computation) {})
		})
		flush(t, rctx)
		assert.ErrorIs(t, err, deps.ErrNoCurrentComputation)
	})

	t.Run("panics propagate and leave the context usable", func(t *testing.T) {
		rctx := deps.NewReactiveContext()
		d := deps.NewDependency(rctx)
		boom := false
		runs := 0

		assert.PanicsWithValue(t, "first run", func() {
			rctx.Run(func(*deps.Computation) { panic("first run") })
		})
		assert.False(t, rctx.Active())

		c := rctx.Run(func(*deps.Computation) {
			rctx.Depend(d)
			runs++
			if boom {
				panic("rerun")
			}
		})

		boom = true
		d.Changed()
		rctx.AfterFlush(func() {})
		assert.PanicsWithValue(t, "rerun", func() { _ = rctx.Flush() })
		assert.False(t, rctx.Flushing())
		assert.False(t, rctx.Active())
		assert.Equal(t, 1, rctx.Stats().PendingAfterFlush)

		boom = false
		d.Changed()
		flush(t, rctx)
		assert.Equal(t, 3, runs)
		assert.Equal(t, 0, rctx.Stats().PendingAfterFlush)
		c.Stop()
	})
}

func TestFlushRequester(t *testing.T) {
	requests := 0
	rctx := deps.NewReactiveContext(deps.WithFlushRequester(func(*deps.ReactiveContext) {
		requests++
	}))
	d := deps.NewDependency(rctx)

	c := rctx.Run(func(*deps.Computation) { rctx.Depend(d) })
	assert.Equal(t, 0, requests)

	d.Changed()
	rctx.AfterFlush(func() {})
	assert.Equal(t, 1, requests)

	rctx.AfterFlush(func() {
		// work queued while flushing is drained by the same flush
		c.Invalidate()
	})
	flush(t, rctx)
	assert.Equal(t, 1, requests)

	d.Changed()
	assert.Equal(t, 2, requests)
	flush(t, rctx)
	c.Stop()
}

func TestFlushRequesterAfterPanic(t *testing.T) {
	requests := 0
	rctx := deps.NewReactiveContext(deps.WithFlushRequester(func(*deps.ReactiveContext) {
		requests++
	}))
	d := deps.NewDependency(rctx)
	boom := true
	afterFlushRan := false

	c := rctx.Run(func(c *deps.Computation) {
		d.Depend()
		if !c.FirstRun() && boom {
			panic("rerun")
		}
	})
	d.Changed()
	rctx.AfterFlush(func() { afterFlushRan = true })
	assert.Equal(t, 1, requests)

	assert.PanicsWithValue(t, "rerun", func() { _ = rctx.Flush() })
	// the after-flush callback is still queued, so the host is asked again
	assert.Equal(t, 2, requests)
	assert.False(t, afterFlushRan)

	boom = false
	flush(t, rctx)
	assert.True(t, afterFlushRan)
	assert.Equal(t, 2, requests)
	c.Stop()
}

func TestFlushFromInsideRun(t *testing.T) {
	rctx := deps.NewReactiveContext()
	otherRuns := 0
	other := rctx.Run(func(*deps.Computation) { otherRuns++ })
	other.Invalidate()

	var activeInAfterFlush bool
	rctx.AfterFlush(func() { activeInAfterFlush = rctx.Active() })

	outer := rctx.Run(func(c *deps.Computation) {
		if c.FirstRun() {
			require.NoError(t, rctx.Flush())
			assert.Same(t, c, rctx.CurrentComputation())
		}
	})
	assert.False(t, activeInAfterFlush)
	assert.Equal(t, 2, otherRuns)
	outer.Stop()
	other.Stop()
}

func TestStats(t *testing.T) {
	rctx := deps.NewReactiveContext()
	d := deps.NewDependency(rctx)
	c := rctx.Run(func(*deps.Computation) {
		rctx.Depend(d)
		rctx.Run(func(*deps.Computation) {})
	})
	d.Changed()
	rctx.AfterFlush(func() {})
	assert.Equal(t, 1, rctx.Stats().PendingRecomputes)
	assert.Equal(t, 1, rctx.Stats().PendingAfterFlush)

	flush(t, rctx)
	c.Stop()

	assert.Equal(t, deps.Stats{
		Runs:            3,
		Reruns:          1,
		Invalidations:   1,
		Stops:           3,
		Flushes:         1,
		AfterFlushCalls: 1,
	}, rctx.Stats())
}
