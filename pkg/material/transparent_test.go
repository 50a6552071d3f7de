package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func TestTransparent_PassThrough(t *testing.T) {
	tint := core.NewVec3(0.5, 1, 0.25)
	glass := NewTransparent(tint)
	si := upFacingHit(glass)
	wo := core.NewVec3(0.3, 0, 1).Normalize()

	sample := glass.Sample(si, wo, 0.1, 0.9)
	require.True(t, sample.Valid())
	assert.True(t, sample.Label.IsTransparent())
	assert.True(t, sample.Label.Transmit)
	assertVecInDelta(t, wo.Negate(), sample.Direction, 1e-12)
	assert.Equal(t, tint, sample.Value.Transmission)
	assert.Equal(t, tint, glass.ShadowTransmittance(si))
}
