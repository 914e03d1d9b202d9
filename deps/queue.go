package deps

import mapset "github.com/deckarep/golang-set/v2"

// recomputeQueue is a FIFO of computations with set semantics, a computation
// that is already queued is not appended twice.
type recomputeQueue struct {
	items   []*Computation
	members mapset.Set[*Computation]
}

func newRecomputeQueue() *recomputeQueue {
	return &recomputeQueue{
		members: mapset.NewThreadUnsafeSet[*Computation](),
	}
}

func (q *recomputeQueue) push(c *Computation) bool {
	if q.members.Contains(c) {
		return false
	}
	q.members.Add(c)
	q.items = append(q.items, c)
	return true
}

func (q *recomputeQueue) pop() (*Computation, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	c := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	q.members.Remove(c)
	return c, true
}

func (q *recomputeQueue) len() int {
	return len(q.items)
}

// callbackQueue is a plain FIFO, registering the same callback twice runs it twice.
type callbackQueue struct {
	items []func()
}

func (q *callbackQueue) push(fn func()) {
	q.items = append(q.items, fn)
}

func (q *callbackQueue) pop() (func(), bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	fn := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return fn, true
}

func (q *callbackQueue) len() int {
	return len(q.items)
}
