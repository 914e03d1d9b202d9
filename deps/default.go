package deps

// The functions below operate on Default(), the calling goroutine's context.

func Run(fn func(c *Computation)) *Computation {
	return Default().Run(fn)
}

// NewDefaultDependency creates a dependency on the calling goroutine's context.
func NewDefaultDependency() *Dependency {
	return NewDependency(Default())
}

func Depend(d *Dependency) bool {
	return d.Depend()
}

func OnInvalidate(cb func(c *Computation)) error {
	return Default().OnInvalidate(cb)
}

func AfterFlush(cb func()) {
	Default().AfterFlush(cb)
}

func Flush() error {
	return Default().Flush()
}

func Nonreactive(fn func()) {
	Default().Nonreactive(fn)
}

func Active() bool {
	return Default().Active()
}

func CurrentComputation() *Computation {
	return Default().CurrentComputation()
}
