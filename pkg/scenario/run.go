package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/delaneyj/deps/deps"
)

type runner struct {
	rctx  *deps.ReactiveContext
	vars  map[string]*deps.Dependency
	comps map[string]*deps.Computation
	runs  map[string]int
	buf   strings.Builder
	trace *Trace
}

// Run builds the scenario's computations on rctx and applies its steps in
// order. Every failed expectation is reported in the returned error, the
// trace is returned either way.
func Run(rctx *deps.ReactiveContext, sc *Scenario) (*Trace, error) {
	r := &runner{
		rctx:  rctx,
		vars:  map[string]*deps.Dependency{},
		comps: map[string]*deps.Computation{},
		runs:  map[string]int{},
		trace: &Trace{Scenario: sc.Name},
	}
	for _, v := range sc.Vars {
		r.vars[v] = deps.NewDependency(rctx)
	}
	for _, n := range sc.Computations {
		r.build(n)
	}

	var errs []error
	for i, st := range sc.Steps {
		if err := r.step(st); err != nil {
			r.trace.Failures = append(r.trace.Failures, err.Error())
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}
	r.trace.Stats = rctx.Stats()

	return r.trace, errors.Join(errs...)
}

func (r *runner) build(n *Node) *deps.Computation {
	return r.rctx.Run(func(c *deps.Computation) {
		r.comps[n.Name] = c
		r.runs[n.Name]++
		if c.FirstRun() {
			r.trace.record(EventRun, n.Name, "")
		} else {
			r.trace.record(EventRerun, n.Name, "")
		}

		for _, v := range n.Reads {
			r.vars[v].Depend()
		}
		r.buf.WriteString(n.Emit)

		for _, child := range n.Children {
			r.build(child)
		}

		c.OnInvalidate(func(c *deps.Computation) {
			r.trace.record(EventInvalidated, n.Name, "")
			switch {
			case n.OnInvalidate == invalidateStop:
				r.stop(n.Name, c)
			case strings.HasPrefix(n.OnInvalidate, invalidateEmit):
				r.buf.WriteString(strings.TrimPrefix(n.OnInvalidate, invalidateEmit))
			}
		})

		if n.AfterFlush != "" {
			r.rctx.AfterFlush(func() {
				r.trace.record(EventAfterFlush, n.Name, n.AfterFlush)
				r.buf.WriteString(n.AfterFlush)
			})
		}

		if n.StopAtRun > 0 && r.runs[n.Name] == n.StopAtRun {
			r.stop(n.Name, c)
		}
	})
}

func (r *runner) stop(name string, c *deps.Computation) {
	if c.Stopped() {
		return
	}
	r.trace.record(EventStop, name, "")
	c.Stop()
}

func (r *runner) step(st Step) error {
	switch {
	case st.Change != "":
		r.trace.record(EventChange, st.Change, "")
		r.vars[st.Change].Changed()

	case st.Flush:
		r.trace.record(EventFlush, "", "")
		if err := r.rctx.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

	case st.Stop != "":
		if c, ok := r.comps[st.Stop]; ok {
			r.stop(st.Stop, c)
		}

	case st.Invalidate != "":
		if c, ok := r.comps[st.Invalidate]; ok {
			c.Invalidate()
		}

	case st.Expect != nil:
		got := r.buf.String()
		r.buf.Reset()
		r.trace.record(EventExpect, "", got)
		if got != *st.Expect {
			return fmt.Errorf("%w: want output %q, got %q", ErrExpectationFailed, *st.Expect, got)
		}

	case len(st.ExpectNoDependents) > 0:
		var still []string
		for _, v := range st.ExpectNoDependents {
			if r.vars[v].HasDependents() {
				still = append(still, v)
			}
		}
		if len(still) > 0 {
			return fmt.Errorf("%w: vars still have dependents: %s", ErrExpectationFailed, strings.Join(still, ", "))
		}
	}

	return nil
}
