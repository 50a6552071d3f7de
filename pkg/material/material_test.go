package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func upFacingHit(m Material) *SurfaceInteraction {
	return &SurfaceInteraction{
		Point:      core.NewVec3(0, 0, 0),
		Normal:     core.NewVec3(0, 0, 1),
		GeomNormal: core.NewVec3(0, 0, 1),
		FrontFace:  true,
		Material:   m,
		LightID:    -1,
	}
}

func assertVecInDelta(t *testing.T, expected, actual core.Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, delta)
	assert.InDelta(t, expected.Y, actual.Y, delta)
	assert.InDelta(t, expected.Z, actual.Z, delta)
}
