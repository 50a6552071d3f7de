package lights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func TestPointLight_InverseSquare(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 2, 0), core.NewVec3(8, 8, 8))
	ls := light.Sample(core.NewVec3(0, 0, 0), core.NewVec2(0.5, 0.5))
	assert.True(t, ls.Delta)
	assert.Equal(t, 1.0, ls.PDF)
	assert.Equal(t, core.NewVec3(2, 2, 2), ls.Emission)
	assert.Equal(t, 0.0, light.PDF(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)))
}
