package scene

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree-raytracer/pkg/config"
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/geometry"
	"github.com/df07/go-lighttree-raytracer/pkg/integrator"
	"github.com/df07/go-lighttree-raytracer/pkg/lights"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

func buildScene(t *testing.T, s *Scene) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	require.NoError(t, s.Build(config.DefaultIntegrator(), logger))
}

func TestScene_BuildTagsShapes(t *testing.T) {
	s := NewCornellScene()
	buildScene(t, s)

	require.Len(t, s.Lights, 1)
	assert.Equal(t, 1, s.LightSet.Len())

	// straight up from the floor center into the light
	si, ok := s.Intersect(core.NewRay(core.NewVec3(277.5, 1, 277.5), core.NewVec3(0, 1, 0)), 1e-4, math.Inf(1))
	require.True(t, ok)
	assert.Equal(t, 0, si.LightID)
	assert.Equal(t, 5, si.ObjectID, "the light follows the five walls")
	assert.True(t, si.FrontFace)
	assert.InDelta(t, cornellSize-2, si.T, 1e-9)

	// the back wall
	si, ok = s.Intersect(core.NewRay(core.NewVec3(50, 450, 0), core.NewVec3(0, 0, 1)), 1e-4, math.Inf(1))
	require.True(t, ok)
	assert.Equal(t, -1, si.LightID)
	assert.Equal(t, 2, si.ObjectID)
}

func TestScene_BuildLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	s := NewCornellScene()
	require.NoError(t, s.Build(config.DefaultIntegrator(), logger))

	var messages []string
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "light set ready")
	assert.Contains(t, messages, "scene built")
	assert.Equal(t, "cornell", hook.LastEntry().Data["scene"])
}

func TestScene_KernelRequiresBuild(t *testing.T) {
	s := NewCornellScene()
	_, err := s.Kernel(config.DefaultIntegrator())
	assert.ErrorIs(t, err, ErrNotBuilt)

	buildScene(t, s)
	kernel, err := s.Kernel(config.DefaultIntegrator())
	require.NoError(t, err)
	assert.Same(t, s.LightSet, kernel.Lights)
}

func TestScene_TraceShadow(t *testing.T) {
	tint := core.NewVec3(0.5, 0.8, 1)
	pane := func(y float64, mat material.Material) *geometry.Quad {
		return geometry.NewQuad(core.NewVec3(-1, y, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), mat)
	}

	tests := []struct {
		name     string
		shapes   []geometry.Shape
		tMax     float64
		occluded bool
		expected core.Vec3
	}{
		{"empty", nil, 10, false, core.NewVec3(1, 1, 1)},
		{"opaque", []geometry.Shape{pane(1, material.NewLambertian(core.NewVec3(1, 1, 1)))}, 10, true, core.Vec3{}},
		{"opaque beyond tMax", []geometry.Shape{pane(5, material.NewLambertian(core.NewVec3(1, 1, 1)))}, 4, false, core.NewVec3(1, 1, 1)},
		{"one pane", []geometry.Shape{pane(1, material.NewTransparent(tint))}, 10, false, tint},
		{"two panes", []geometry.Shape{pane(1, material.NewTransparent(tint)), pane(2, material.NewTransparent(tint))}, 10, false, tint.MultiplyVec(tint)},
		{"pane then wall", []geometry.Shape{pane(1, material.NewTransparent(tint)), pane(2, material.NewLambertian(tint))}, 10, true, core.Vec3{}},
		{"black pane", []geometry.Shape{pane(1, material.NewTransparent(core.Vec3{}))}, 10, true, core.Vec3{}},
		{"volume boundary", []geometry.Shape{pane(1, material.NewBoundary())}, 10, false, core.NewVec3(1, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("shadow", CameraConfig{})
			s.Add(tt.shapes...)
			buildScene(t, s)

			vis := s.TraceShadow(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), tt.tMax)
			assert.Equal(t, tt.occluded, vis.Occluded)
			if !tt.occluded {
				assert.InDelta(t, tt.expected.X, vis.Transmittance.X, 1e-12)
				assert.InDelta(t, tt.expected.Y, vis.Transmittance.Y, 1e-12)
				assert.InDelta(t, tt.expected.Z, vis.Transmittance.Z, 1e-12)
			}
		})
	}
}

func TestLightGridScene(t *testing.T) {
	opts := DefaultLightGridOptions()
	opts.GridSize = 4
	s := NewLightGridScene(opts)
	buildScene(t, s)

	assert.Len(t, s.Lights, 16+2)
	assert.Equal(t, 16, s.LightSet.Tree().NumEmitters())
	require.NoError(t, s.LightSet.Tree().Validate())

	opts.WithPoints = true
	opts.WithSun, opts.WithSky = false, false
	mixed := NewLightGridScene(opts)
	buildScene(t, mixed)
	assert.Len(t, mixed.Lights, 16)
	assert.Equal(t, 16, mixed.LightSet.Tree().NumEmitters(), "point and sphere lights live in the tree too")

	var points, spheres int
	for _, light := range mixed.Lights {
		switch light.(type) {
		case *lights.PointLight:
			points++
		case *lights.SphereLight:
			spheres++
		}
	}
	// (i+j)%4 over a 4x4 grid: 4 zeros and 4 twos
	assert.Equal(t, 4, points)
	assert.Equal(t, 4, spheres)

	opts.Catcher = true
	catcher := NewLightGridScene(opts)
	_, ok := catcher.Shapes[0].(*geometry.Quad).Material.(*material.ShadowCatcher)
	assert.True(t, ok, "the ground catches shadows")
}

func TestRegistry(t *testing.T) {
	_, err := Lookup("teapot")
	assert.ErrorIs(t, err, ErrUnknownScene)

	s, err := Lookup("cornell")
	require.NoError(t, err)
	assert.Equal(t, "cornell", s.Name)
	assert.Nil(t, s.BVH, "lookups are unbuilt")

	scenes := ListScenes()
	require.Len(t, scenes, 4)
	assert.Equal(t, "Cornell Box", scenes[0].DisplayName)
	assert.Equal(t, 1, scenes[0].Lights)
	assert.Equal(t, 146, scenes[1].Lights)
	assert.Equal(t, "lightgrid-catcher", scenes[3].ID)
	assert.Equal(t, 145, scenes[3].Lights)
}

func TestCornellScene_Radiance(t *testing.T) {
	s := NewCornellScene()
	buildScene(t, s)

	cfg := config.DefaultIntegrator()
	kernel, err := s.Kernel(cfg)
	require.NoError(t, err)
	tracer := integrator.NewPathTracer(kernel)

	// look at the floor in front of the boxes
	ray := core.NewRay(core.NewVec3(278, 278, -800), core.NewVec3(0, -278, 900))
	const samples = 256
	sum := core.Vec3{}
	for i := 0; i < samples; i++ {
		L := tracer.Li(ray, integrator.NewRNG(integrator.PixelHash(0, 0, 7), i, samples))
		value := L.Sum()
		require.False(t, math.IsNaN(value.X) || math.IsInf(value.X, 0))
		require.GreaterOrEqual(t, min(value.X, value.Y, value.Z), 0.0)
		sum = sum.Add(value)
	}
	mean := sum.Multiply(1.0 / samples)
	assert.Greater(t, mean.Luminance(), 0.0)
}
