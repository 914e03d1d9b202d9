package deps

// Var is a typed value paired with a Dependency. Get subscribes the current
// computation, Set notifies subscribers only when the value actually changes.
type Var[T comparable] struct {
	dep   *Dependency
	value T
}

func NewVar[T comparable](rctx *ReactiveContext, value T) *Var[T] {
	return &Var[T]{
		dep:   NewDependency(rctx),
		value: value,
	}
}

func (v *Var[T]) Get() T {
	v.dep.Depend()
	return v.value
}

// Peek returns the value without subscribing.
func (v *Var[T]) Peek() T {
	return v.value
}

func (v *Var[T]) Set(value T) {
	if v.value == value {
		return
	}
	v.value = value
	v.dep.Changed()
}

func (v *Var[T]) Dependency() *Dependency {
	return v.dep
}
