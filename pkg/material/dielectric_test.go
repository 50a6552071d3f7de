package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func TestDielectric_ReflectOrRefract(t *testing.T) {
	glass := NewDielectric(1.5)
	si := upFacingHit(glass)
	wo := core.NewVec3(0, 0, 1)

	reflected := glass.Sample(si, wo, 0.0, 0.5)
	assert.Equal(t, Reflect(LobeSingular), reflected.Label)
	assertVecInDelta(t, core.NewVec3(0, 0, 1), reflected.Direction, 1e-12)
	assertVecInDelta(t, core.NewVec3(1, 1, 1), reflected.Value.Glossy, 1e-12)

	refracted := glass.Sample(si, wo, 0.99, 0.5)
	assert.Equal(t, Transmit(LobeSingular), refracted.Label)
	assertVecInDelta(t, core.NewVec3(0, 0, -1), refracted.Direction, 1e-9)
	assertVecInDelta(t, core.NewVec3(1, 1, 1), refracted.Value.Transmission, 1e-12)
	assert.Equal(t, ChannelTransmission, refracted.Label.Channel())
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)
	si := upFacingHit(glass)
	si.FrontFace = false // leaving the glass

	grazing := core.NewVec3(1, 0, 0.2).Normalize()
	for _, u := range []float64{0, 0.5, 0.999} {
		sample := glass.Sample(si, grazing, u, 0.5)
		assert.Equal(t, Reflect(LobeSingular), sample.Label)
	}
}
