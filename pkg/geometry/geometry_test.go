package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

func TestSphere_Hit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1, material.NewLambertian(core.NewVec3(1, 1, 1)))
	sphere.SetTag(Tag{ObjectID: 3, LightID: 7})

	si, ok := sphere.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -2)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 2.0, si.T, 1e-12)
	assert.InDelta(t, 4.0, si.RayLength, 1e-12)
	assert.True(t, si.FrontFace)
	assert.Equal(t, core.NewVec3(0, 0, 1), si.Normal)
	assert.Equal(t, si.Normal, si.GeomNormal)
	assert.Equal(t, 3, si.ObjectID)
	assert.Equal(t, 7, si.LightID)

	// from inside, the normal is flipped toward the ray origin
	si, ok = sphere.Hit(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.False(t, si.FrontFace)
	assert.Equal(t, core.NewVec3(0, 0, -1), si.Normal)

	_, ok = sphere.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), 0.001, math.Inf(1))
	assert.False(t, ok)
}

func TestQuad_Hit(t *testing.T) {
	quad := NewQuad(core.NewVec3(-1, 2, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), nil)
	assert.InDelta(t, 4.0, quad.Area(), 1e-12)
	assert.Equal(t, -1, quad.LightID)

	si, ok := quad.Hit(core.NewRay(core.NewVec3(0.5, 0, 0.5), core.NewVec3(0, 1, 0)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 2.0, si.T, 1e-12)
	assert.Equal(t, 1.0, math.Abs(si.Normal.Y))
	assert.Less(t, si.Normal.Dot(core.NewVec3(0, 1, 0)), 0.0, "normal faces the ray")

	_, ok = quad.Hit(core.NewRay(core.NewVec3(3, 0, 0), core.NewVec3(0, 1, 0)), 0.001, math.Inf(1))
	assert.False(t, ok)

	_, ok = quad.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)), 0.001, math.Inf(1))
	assert.False(t, ok, "parallel rays never hit")

	box := quad.BoundingBox()
	assert.Greater(t, box.Max.Y, box.Min.Y)
}

func TestBVH_ClosestHitMatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	var shapes []Shape
	for i := 0; i < 60; i++ {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		shapes = append(shapes, NewSphere(center, 0.2+random.Float64(), nil))
	}
	bvh := NewBVH(shapes)

	stats := bvh.Stats()
	assert.Equal(t, 60, stats.TotalShapes)
	assert.Greater(t, stats.LeafNodes, 1)

	for i := 0; i < 300; i++ {
		origin := core.NewVec3(random.Float64()*30-15, random.Float64()*30-15, random.Float64()*30-15)
		dir := core.SampleOnUnitSphere(core.NewVec2(random.Float64(), random.Float64()))
		ray := core.NewRay(origin, dir)

		bestT := math.Inf(1)
		for _, s := range shapes {
			if si, ok := s.Hit(ray, 0.001, bestT); ok {
				bestT = si.T
			}
		}

		si, ok := bvh.Hit(ray, 0.001, math.Inf(1))
		if math.IsInf(bestT, 1) {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok)
		assert.InDelta(t, bestT, si.T, 1e-9)
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)
	_, ok := bvh.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), 0, math.Inf(1))
	assert.False(t, ok)
	assert.Equal(t, BVHStats{}, bvh.Stats())
}

func TestBox_Hit(t *testing.T) {
	box := NewAxisAlignedBox(core.Vec3{}, core.NewVec3(1, 1, 1), nil)
	box.SetTag(Tag{ObjectID: 4, LightID: -1})

	tests := []struct {
		name   string
		ray    core.Ray
		hit    bool
		t      float64
		normal core.Vec3
	}{
		{"front face", core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1)), true, 2, core.NewVec3(0, 0, 1)},
		{"left face", core.NewRay(core.NewVec3(-3, 0, 0), core.NewVec3(1, 0, 0)), true, 2, core.NewVec3(-1, 0, 0)},
		{"top face", core.NewRay(core.NewVec3(0.5, 4, 0.5), core.NewVec3(0, -1, 0)), true, 3, core.NewVec3(0, 1, 0)},
		{"miss", core.NewRay(core.NewVec3(0, 3, -3), core.NewVec3(0, 0, 1)), false, 0, core.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			si, ok := box.Hit(tt.ray, 0.001, math.Inf(1))
			require.Equal(t, tt.hit, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.t, si.T, 1e-12)
			assert.True(t, si.FrontFace, "faces point outward")
			assert.InDelta(t, tt.normal.X, si.Normal.X, 1e-12)
			assert.InDelta(t, tt.normal.Y, si.Normal.Y, 1e-12)
			assert.InDelta(t, tt.normal.Z, si.Normal.Z, 1e-12)
			assert.Equal(t, 4, si.ObjectID)
		})
	}

	// from the inside every face is a back face
	si, ok := box.Hit(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 1.0, si.T, 1e-12)
	assert.False(t, si.FrontFace)
}

func TestBox_Rotated(t *testing.T) {
	box := NewBox(core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 1), math.Pi/4, nil)
	bounds := box.BoundingBox()
	assert.InDelta(t, 1-math.Sqrt2, bounds.Min.X, 1e-12)
	assert.InDelta(t, 1+math.Sqrt2, bounds.Max.X, 1e-12)
	assert.InDelta(t, -1.0, bounds.Min.Y, 1e-12)

	// a vertical edge now points along +X, the surface near it is x = 1+sqrt2-|z|
	si, ok := box.Hit(core.NewRay(core.NewVec3(5, 0, -0.1), core.NewVec3(-1, 0, 0)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 4.1-math.Sqrt2, si.T, 1e-9)
	assert.True(t, si.FrontFace)
}
