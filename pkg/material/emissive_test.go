package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func TestEmissive_FrontFaceOnly(t *testing.T) {
	light := NewEmissive(core.NewVec3(4, 4, 4))
	si := upFacingHit(light)
	assert.Equal(t, core.NewVec3(4, 4, 4), light.Emit(si, core.NewVec3(0, 0, 1)))

	si.FrontFace = false
	assert.True(t, light.Emit(si, core.NewVec3(0, 0, 1)).IsZero())

	light.TwoSided = true
	assert.Equal(t, core.NewVec3(4, 4, 4), light.Emit(si, core.NewVec3(0, 0, 1)))

	assert.False(t, light.Sample(si, core.NewVec3(0, 0, 1), 0.5, 0.5).Valid())
}
