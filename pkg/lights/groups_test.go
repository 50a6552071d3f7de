package lights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupDistribution(t *testing.T) {
	dist := NewGroupDistribution(
		[numGroups]float64{3, 1, 0},
		[numGroups]float64{2, 1, 0},
	)
	assert.InDelta(t, 0.75, dist.Probability(GroupTree), 1e-12)
	assert.InDelta(t, 0.25, dist.Probability(GroupDistant), 1e-12)
	assert.Equal(t, 0.0, dist.Probability(GroupBackground))

	g, u, prob := dist.Sample(0.9)
	assert.Equal(t, GroupDistant, g)
	assert.InDelta(t, 0.6, u, 1e-12)
	assert.InDelta(t, 0.25, prob, 1e-12)

	// groups with members but no power are still reachable when nothing has power
	dark := NewGroupDistribution([numGroups]float64{}, [numGroups]float64{1, 0, 1})
	assert.InDelta(t, 0.5, dark.Probability(GroupTree), 1e-12)
	assert.Equal(t, 0.0, dark.Probability(GroupDistant))
}
