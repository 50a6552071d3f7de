package material

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func TestMetal_Mirror(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.9, 0.8, 0.7), 0)
	si := upFacingHit(metal)
	wo := core.NewVec3(1, 0, 1).Normalize()

	assert.False(t, metal.HasEval())
	sample := metal.Sample(si, wo, 0.3, 0.3)
	require.True(t, sample.Valid())
	assert.True(t, sample.Label.IsSingular())
	assertVecInDelta(t, core.NewVec3(-1, 0, 1).Normalize(), sample.Direction, 1e-12)

	value, pdf := metal.Evaluate(si, wo, sample.Direction)
	assert.True(t, value.IsZero())
	assert.Equal(t, 0.0, pdf)
}

func TestMetal_FuzzyLobe(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.8, 0.7)
	metal := NewMetal(albedo, 0.3)
	si := upFacingHit(metal)
	wo := core.NewVec3(0, 0, 1)
	random := rand.New(rand.NewSource(7))

	require.True(t, metal.HasEval())
	valid := 0
	for i := 0; i < 200; i++ {
		sample := metal.Sample(si, wo, random.Float64(), random.Float64())
		if !sample.Valid() {
			continue
		}
		valid++
		assert.Equal(t, Reflect(LobeGlossy), sample.Label)
		assert.GreaterOrEqual(t, sample.Direction.Dot(wo), 0.7-1e-9)
		assertVecInDelta(t, albedo, sample.Value.Glossy.Multiply(1/sample.PDF), 1e-9)

		_, pdf := metal.Evaluate(si, wo, sample.Direction)
		assert.InDelta(t, sample.PDF, pdf, 1e-12)
	}
	assert.Equal(t, 200, valid, "a lobe around the normal never dips below the surface")

	// outside the lobe
	value, pdf := metal.Evaluate(si, wo, core.NewVec3(1, 0, 0.2).Normalize())
	assert.True(t, value.IsZero())
	assert.Equal(t, 0.0, pdf)
}
