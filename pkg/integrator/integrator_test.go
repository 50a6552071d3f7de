package integrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree-raytracer/pkg/config"
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/lights"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// shadowScene answers every shadow query the same way and counts them
type shadowScene struct {
	visibility  Visibility
	shadowCalls int
}

func (s *shadowScene) Intersect(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	return nil, false
}

func (s *shadowScene) TraceShadow(ray core.Ray, tMax float64) Visibility {
	s.shadowCalls++
	return s.visibility
}

func testConfig() config.IntegratorConfig {
	cfg := config.DefaultIntegrator()
	cfg.LightThreshold = 0
	return cfg
}

func floorHit(m material.Material) *material.SurfaceInteraction {
	return &material.SurfaceInteraction{
		Point:      core.NewVec3(0, 0, 0),
		Normal:     core.NewVec3(0, 1, 0),
		GeomNormal: core.NewVec3(0, 1, 0),
		FrontFace:  true,
		Material:   m,
		LightID:    -1,
		RayLength:  2,
	}
}

func ceilingLight(x, z, y float64) *lights.QuadLight {
	return lights.NewQuadLight(
		core.NewVec3(x, y, z),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		material.NewEmissive(core.NewVec3(4, 4, 4)),
	)
}

func lightRow(t *testing.T, n int, useTree bool) *lights.Set {
	t.Helper()
	var all []lights.Light
	for i := 0; i < n; i++ {
		all = append(all, ceilingLight(float64(3*i)-1, -0.5, 3))
	}
	set, err := lights.NewSet(all, lights.SetOptions{UseLightTree: useTree, WorldRadius: 20})
	require.NoError(t, err)
	return set
}

func assertVecInDelta(t *testing.T, expected, actual core.Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, delta)
	assert.InDelta(t, expected.Y, actual.Y, delta)
	assert.InDelta(t, expected.Z, actual.Z, delta)
}

func straightUpSample() lights.LightSample {
	return lights.LightSample{
		Point:     core.NewVec3(0, 3, 0),
		Normal:    core.NewVec3(0, -1, 0),
		Direction: core.NewVec3(0, 1, 0),
		Distance:  3,
		Emission:  core.NewVec3(1, 2, 3),
		PDF:       2,
		Delta:     true,
		Type:      lights.LightTypePoint,
	}
}
