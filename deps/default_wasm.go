//go:build wasm

package deps

import "sync"

var (
	once          sync.Once
	globalContext *ReactiveContext
)

func Default() *ReactiveContext {
	once.Do(func() {
		globalContext = NewReactiveContext()
	})

	return globalContext
}

func ReleaseDefault() {}
