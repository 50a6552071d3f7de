package lights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedSampler_Sample(t *testing.T) {
	ws := NewWeightedSampler([]float64{1, 0, 3})

	idx, prob, u := ws.Sample(0.1)
	assert.Equal(t, 0, idx)
	assert.InDelta(t, 0.25, prob, 1e-12)
	assert.InDelta(t, 0.4, u, 1e-12)

	idx, prob, u = ws.Sample(0.5)
	assert.Equal(t, 2, idx)
	assert.InDelta(t, 0.75, prob, 1e-12)
	assert.InDelta(t, 1.0/3.0, u, 1e-12)

	idx, _, u = ws.Sample(oneMinusEpsilon)
	assert.Equal(t, 2, idx)
	assert.Less(t, u, 1.0)

	assert.Equal(t, 0.0, ws.Probability(1))
	assert.Equal(t, 0.0, ws.Probability(3))
	assert.Equal(t, 3, ws.Len())
}

func TestWeightedSampler_Fallbacks(t *testing.T) {
	uniform := NewWeightedSampler([]float64{0, 0, 0, 0})
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0.25, uniform.Probability(i), 1e-12)
	}

	empty := NewWeightedSampler(nil)
	idx, prob, _ := empty.Sample(0.5)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 0.0, prob)
	assert.Equal(t, "WeightedSampler{empty}", empty.String())

	assert.Panics(t, func() { NewWeightedSampler([]float64{1, -1}) })
}
