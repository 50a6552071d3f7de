package integrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(PixelHash(3, 4, 42), 1, 16)
	b := NewRNG(PixelHash(3, 4, 42), 1, 16)
	assert.Equal(t, a.Float(dimBsdfU), b.Float(dimBsdfU))
	assert.NotEqual(t, a.Float(dimBsdfU), a.Float(dimBsdfV))

	u := a.Float(dimLightU)
	a.advance()
	assert.NotEqual(t, u, a.Float(dimLightU))

	for dim := 0; dim < 64; dim++ {
		v := b.Float(dim)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
	assert.NotEqual(t, PixelHash(3, 4, 42), PixelHash(4, 3, 42))

	jx, jy := a.Jitter()
	bx, by := b.Jitter()
	assert.Equal(t, jx, bx)
	assert.Equal(t, jy, by)
	assert.NotEqual(t, jx, a.Float(0), "jitter has its own stream")
}
