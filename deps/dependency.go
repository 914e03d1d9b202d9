package deps

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// A Dependency is a reactive variable: reading it from inside a computation
// subscribes that computation, calling Changed invalidates every subscriber.
type Dependency struct {
	rctx *ReactiveContext

	// It's a set because a computation reading the same dependency twice must
	// still be invalidated only once
	dependents mapset.Set[*Computation]
}

func NewDependency(rctx *ReactiveContext) *Dependency {
	return &Dependency{
		rctx:       rctx,
		dependents: mapset.NewThreadUnsafeSet[*Computation](),
	}
}

// Depend links the current computation to d. It returns true if a new link
// was made, false when there is no current computation, when the link exists
// already, or when the current computation is invalidated or stopped (it
// would never be notified again).
func (d *Dependency) Depend() bool {
	c := d.rctx.current
	if c == nil || c.invalidated || c.stopped {
		return false
	}
	if d.dependents.Contains(c) {
		return false
	}

	d.dependents.Add(c)
	c.deps.Add(d)
	return true
}

// Changed invalidates every computation that depends on d, oldest first. The
// computations rerun on the next Flush, not here. Each invalidation unlinks
// its computation from d, links made by invalidation callbacks are kept.
func (d *Dependency) Changed() {
	dependents := d.dependents.ToSlice()
	sort.Slice(dependents, func(i, j int) bool {
		return dependents[i].id < dependents[j].id
	})
	for _, c := range dependents {
		c.Invalidate()
	}
}

func (d *Dependency) HasDependents() bool {
	return d.dependents.Cardinality() > 0
}
