package lights

import "math"

var oneMinusEpsilon = math.Nextafter(1, 0)

// Group partitions the lights by how they are sampled
type Group int

const (
	GroupTree       Group = iota // area and point lights, sampled through the light tree
	GroupDistant                 // distant lights
	GroupBackground              // background lights
	numGroups
)

func (g Group) String() string {
	switch g {
	case GroupTree:
		return "tree"
	case GroupDistant:
		return "distant"
	case GroupBackground:
		return "background"
	}
	return "unknown"
}

// GroupFor returns the group a light of type t belongs to
func GroupFor(t LightType) Group {
	switch t {
	case LightTypeDistant:
		return GroupDistant
	case LightTypeBackground:
		return GroupBackground
	}
	return GroupTree
}

// GroupDistribution chooses between the light groups in proportion to their power
type GroupDistribution struct {
	sampler *WeightedSampler
}

// NewGroupDistribution weights each group by power. A group with members but
// zero power still gets a share when every group has zero power.
func NewGroupDistribution(power, members [numGroups]float64) GroupDistribution {
	weights := make([]float64, numGroups)
	total := 0.0
	for g := range weights {
		if members[g] > 0 {
			weights[g] = power[g]
			total += power[g]
		}
	}
	if total == 0 {
		for g := range weights {
			if members[g] > 0 {
				weights[g] = 1
			}
		}
	}
	return GroupDistribution{sampler: NewWeightedSampler(weights)}
}

// Sample picks a group, returning u rescaled for reuse and the group probability
func (d GroupDistribution) Sample(u float64) (Group, float64, float64) {
	i, prob, rescaled := d.sampler.Sample(u)
	return Group(i), rescaled, prob
}

// Probability of choosing group g
func (d GroupDistribution) Probability(g Group) float64 {
	return d.sampler.Probability(int(g))
}
