//go:build !wasm

package deps

import (
	"sync"

	"github.com/petermattis/goid"
)

var contexts sync.Map

// Default returns the context bound to the calling goroutine, creating it on
// first use. A program that drives the engine from one goroutine therefore
// sees a single process-wide context.
func Default() *ReactiveContext {
	gid := goid.Get()

	if rctx, ok := contexts.Load(gid); ok {
		return rctx.(*ReactiveContext)
	}

	rctx := NewReactiveContext()
	contexts.Store(gid, rctx)
	return rctx
}

// ReleaseDefault forgets the calling goroutine's context. Contexts are kept
// until released, so a short-lived goroutine that used the package level API
// should release its context before exiting.
func ReleaseDefault() {
	contexts.Delete(goid.Get())
}
