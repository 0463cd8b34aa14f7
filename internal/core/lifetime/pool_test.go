package lifetime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAcquireRelease(t *testing.T) {
	p := NewPool()

	a := p.Acquire()
	b := p.Acquire()
	assert.True(t, p.Alive(a))
	assert.True(t, p.Alive(b))
	assert.NotEqual(t, a, b)

	p.Release(a)
	assert.False(t, p.Alive(a), "released token is dead")
	assert.True(t, p.Alive(b))
}

func TestPoolGenerationInvalidatesReusedIndex(t *testing.T) {
	p := NewPool()

	a := p.Acquire()
	p.Release(a)

	c := p.Acquire()
	require.Equal(t, a.Index(), c.Index(), "free list reuses the slot")
	assert.NotEqual(t, a.Generation(), c.Generation())
	assert.False(t, p.Alive(a), "stale token stays dead after reuse")
	assert.True(t, p.Alive(c))
}

func TestPoolDoubleReleaseIsNoop(t *testing.T) {
	p := NewPool()
	a := p.Acquire()
	p.Release(a)
	p.Release(a) // stale; must not corrupt the free list

	b := p.Acquire()
	c := p.Acquire()
	assert.NotEqual(t, b, c)
	assert.True(t, p.Alive(b))
	assert.True(t, p.Alive(c))
}

func TestPoolUnknownTokenNotAlive(t *testing.T) {
	p := NewPool()
	assert.False(t, p.Alive(newToken(42, 0)))
}

func TestGuardLiveness(t *testing.T) {
	p := NewPool()

	g := NewGuard(p)
	assert.True(t, g.Alive())

	g.Release()
	assert.False(t, g.Alive())

	var zero Guard
	assert.False(t, zero.Alive(), "zero guard is never alive")
	assert.NotPanics(t, func() { zero.Release() })
}
