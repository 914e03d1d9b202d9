package deps_test

import (
	"sync"
	"testing"

	"github.com/delaneyj/deps/deps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContext(t *testing.T) {
	t.Run("package level api shares one context per goroutine", func(t *testing.T) {
		defer deps.ReleaseDefault()

		assert.Same(t, deps.Default(), deps.Default())
		assert.False(t, deps.Active())
		assert.Nil(t, deps.CurrentComputation())
		assert.ErrorIs(t, deps.OnInvalidate(func(*deps.Computation) {}), deps.ErrNoCurrentComputation)

		d := deps.NewDefaultDependency()
		x := 0
		log := []string{}
		handle := deps.Run(func(c *deps.Computation) {
			assert.True(t, deps.Active())
			assert.Same(t, c, deps.CurrentComputation())
			deps.Depend(d)
			x++
			require.NoError(t, deps.OnInvalidate(func(*deps.Computation) {
				log = append(log, "invalidated")
			}))
		})
		deps.AfterFlush(func() { log = append(log, "after flush") })

		assert.Equal(t, 1, x)
		require.NoError(t, deps.Flush())
		assert.Equal(t, 1, x)
		d.Changed()
		require.NoError(t, deps.Flush())
		assert.Equal(t, 2, x)
		handle.Stop()
		d.Changed()
		require.NoError(t, deps.Flush())
		assert.Equal(t, 2, x)
		assert.Equal(t, []string{"after flush", "invalidated", "invalidated"}, log)

		deps.Nonreactive(func() {
			assert.False(t, deps.Active())
		})
	})

	t.Run("goroutines get separate contexts", func(t *testing.T) {
		defer deps.ReleaseDefault()
		mine := deps.Default()

		var (
			wg     sync.WaitGroup
			theirs *deps.ReactiveContext
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer deps.ReleaseDefault()
			theirs = deps.Default()
			deps.Run(func(*deps.Computation) {})
		}()
		wg.Wait()

		assert.NotSame(t, mine, theirs)
		assert.Equal(t, uint64(0), mine.Stats().Runs)
		assert.Equal(t, uint64(1), theirs.Stats().Runs)
	})

	t.Run("release forgets the context", func(t *testing.T) {
		first := deps.Default()
		deps.ReleaseDefault()
		second := deps.Default()
		deps.ReleaseDefault()
		assert.NotSame(t, first, second)
	})
}
