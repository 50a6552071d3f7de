package lights

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func TestSet_ReachedMaxBounces(t *testing.T) {
	capped := ceilingQuad(0, 0, 1).WithSettings(Settings{Samples: 1, MaxBounces: 1})
	set, err := NewSet([]Light{capped, ceilingQuad(2, 0, 1)}, SetOptions{})
	require.NoError(t, err)

	assert.False(t, set.ReachedMaxBounces(0, 1))
	assert.True(t, set.ReachedMaxBounces(0, 2))
	assert.False(t, set.ReachedMaxBounces(1, 100))

	p := core.NewVec3(0.5, 0, 0.5)
	assert.Greater(t, set.SamplePoint(0.5, 0.5, 0, p, 1, 0).PDF, 0.0)
	assert.Equal(t, 0.0, set.SamplePoint(0.5, 0.5, 0, p, 2, 0).PDF)
}

func TestSet_TreeSamplingMatchesPickProbability(t *testing.T) {
	var all []Light
	for i := 0; i < 6; i++ {
		all = append(all, ceilingQuad(float64(2*i-6), float64(i%3), float64(1+i%4)))
	}
	all = append(all, NewDistantLight(core.NewVec3(1, -1, 0), core.NewVec3(1, 1, 1), 0.2))

	logger, hook := test.NewNullLogger()
	set, err := NewSet(all, SetOptions{UseLightTree: true, WorldRadius: 10, Logger: logger})
	require.NoError(t, err)
	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	assert.Len(t, set.Members(GroupTree), 6)
	assert.Equal(t, []int{6}, set.Members(GroupDistant))
	assert.Equal(t, 6, set.Tree().NumEmitters())

	p := core.NewVec3(0, 0, 0)
	n := core.NewVec3(0, 1, 0)
	const samples = 20000
	counts := make([]float64, len(all))
	for i := 0; i < samples; i++ {
		u := (float64(i) + 0.5) / samples
		ls, _ := set.Sample(u, 0.37, 0, p, n, 0, 0)
		if ls.PDF == 0 {
			continue
		}
		counts[ls.LightID]++

		pick := set.PickProbability(ls.LightID, p, n, 0, false)
		expected := pick * set.Light(ls.LightID).PDF(p, ls.Direction)
		assert.InDelta(t, expected, ls.PDF, 1e-6*expected)
	}

	total := 0.0
	for id := range all {
		pick := set.PickProbability(id, p, n, 0, false)
		total += pick
		assert.InDelta(t, pick, counts[id]/samples, 2e-3, "light %d", id)
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestSet_WithoutTreeWeightsByPower(t *testing.T) {
	dim := ceilingQuad(0, 0, 1)
	bright := ceilingQuad(3, 0, 3)
	set, err := NewSet([]Light{dim, bright}, SetOptions{})
	require.NoError(t, err)
	assert.False(t, set.UseTree())

	p := core.NewVec3(0, 0, 0)
	n := core.NewVec3(0, 1, 0)
	assert.InDelta(t, 0.25, set.PickProbability(0, p, n, 0, false), 1e-12)
	assert.InDelta(t, 0.75, set.PickProbability(1, p, n, 0, false), 1e-12)

	ls, diag := set.Sample(0.9, 0.5, 0, p, n, 0, 0)
	assert.Equal(t, 1, ls.LightID)
	assert.Equal(t, LightTypeArea, ls.Type)
	assert.InDelta(t, 0.75*bright.PDF(p, ls.Direction), ls.PDF, 1e-9)
	assert.Zero(t, diag.LightsSampled)
}

func TestSet_Empty(t *testing.T) {
	set, err := NewSet(nil, SetOptions{UseLightTree: true})
	require.NoError(t, err)
	ls, _ := set.Sample(0.5, 0.5, 0, core.Vec3{}, core.NewVec3(0, 1, 0), 0, 0)
	assert.Equal(t, 0.0, ls.PDF)
	assert.Equal(t, -1, ls.LightID)
	assert.Equal(t, 0.0, set.PickProbability(0, core.Vec3{}, core.Vec3{}, 0, false))
}

func TestSet_SampleInGroup(t *testing.T) {
	skies := []Light{
		NewUniformBackgroundLight(core.NewVec3(1, 1, 1)),
		NewUniformBackgroundLight(core.NewVec3(1, 1, 1)),
	}
	set, err := NewSet(skies, SetOptions{UseLightTree: true})
	require.NoError(t, err)

	id, u, prob := set.SampleInGroup(GroupBackground, 0.75)
	assert.Equal(t, 1, id)
	assert.InDelta(t, 0.5, u, 1e-12)
	assert.InDelta(t, 0.5, prob, 1e-12)

	id, _, _ = set.SampleInGroup(GroupTree, 0.5)
	assert.Equal(t, -1, id)
	assert.InDelta(t, 0.5, set.PickProbability(0, core.Vec3{}, core.Vec3{}, 0, false), 1e-12)
}
