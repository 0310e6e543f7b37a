package scene

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewTriangle()))
	assert.ErrorIs(t, r.Register(NewTriangle()), ErrDuplicateScene)
	assert.ErrorIs(t, r.Register(&Definition{}), ErrInvalidScene)

	s, err := r.Get(TriangleScene)
	require.NoError(t, err)
	assert.Equal(t, TriangleScene, s.Name())

	_, err = r.Get("hexagon")
	assert.ErrorIs(t, err, ErrUnknownScene)

	replacement := NewTriangle()
	replacement.Wrap = 0
	r.Replace(replacement)
	s, _ = r.Get(TriangleScene)
	assert.Same(t, replacement, s)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := Builtins()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = r.Get(QuadScene)
				_ = r.Names()
			}
		}()
	}
	r.Replace(NewQuad())
	wg.Wait()
	assert.Equal(t, 3, r.Len())
}
