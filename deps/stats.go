package deps

import "sync/atomic"

// Stats is a point-in-time snapshot of a context's scheduler activity. The
// counters are updated atomically so a snapshot may be taken from another
// goroutine, e.g. by a metrics collector.
type Stats struct {
	// Runs counts first executions, one per created computation.
	Runs uint64
	// Reruns counts executions triggered by Flush.
	Reruns          uint64
	Invalidations   uint64
	Stops           uint64
	Flushes         uint64
	AfterFlushCalls uint64

	// PendingRecomputes and PendingAfterFlush are the queue depths at snapshot time.
	PendingRecomputes int
	PendingAfterFlush int
}

type counters struct {
	runs            atomic.Uint64
	reruns          atomic.Uint64
	invalidations   atomic.Uint64
	stops           atomic.Uint64
	flushes         atomic.Uint64
	afterFlushCalls atomic.Uint64
	pending         atomic.Int64
	afterFlushQueue atomic.Int64
}

func (rctx *ReactiveContext) Stats() Stats {
	return Stats{
		Runs:              rctx.stats.runs.Load(),
		Reruns:            rctx.stats.reruns.Load(),
		Invalidations:     rctx.stats.invalidations.Load(),
		Stops:             rctx.stats.stops.Load(),
		Flushes:           rctx.stats.flushes.Load(),
		AfterFlushCalls:   rctx.stats.afterFlushCalls.Load(),
		PendingRecomputes: int(rctx.stats.pending.Load()),
		PendingAfterFlush: int(rctx.stats.afterFlushQueue.Load()),
	}
}
