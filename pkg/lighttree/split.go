package lighttree

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// ShouldSplit decides whether traversal visits both children of the node at
// offset instead of stochastically picking one.
//
// threshold 0 never splits and 1 always splits. A shading point inside the
// node's bounding sphere always splits since the distance interval used by the
// variance estimate is meaningless there. Otherwise the node splits when its
// normalized variance score is below threshold.
func (t *Tree) ShouldSplit(threshold float64, p core.Vec3, offset int) bool {
	if threshold == 0 {
		return false
	} else if threshold == 1 {
		return true
	}

	score, inside := SplitScore(p, t.ReadNode(offset))
	if inside {
		return true
	}
	return score < threshold
}

// SplitScore returns the normalized score (1/(1+sigma))^(1/4) in (0, 1] for the
// node as seen from p, and whether p lies inside the node's bounding sphere (in
// which case the score is 0).
func SplitScore(p core.Vec3, node Node) (float64, bool) {
	variance, inside := clusterVariance(p, node)
	if inside {
		return 0, true
	}
	return math.Sqrt(math.Sqrt(1.0 / (1.0 + math.Sqrt(variance)))), false
}

// clusterVariance estimates the variance of the irradiance a cluster delivers
// at p from its aggregate statistics only.
//
// The contribution of an emitter is modelled as e*g, with e its energy and g
// the inverse squared distance, g uniform in 1/x^2 over x in [a, b] where
// a = dist-radius and b = dist+radius. For independent e and g:
//
//	V[eg] = V[e](V[g] + E[g]^2) + E[e]^2 V[g],  sigma^2 = V[eg] N^2
//
// with E[g] = 1/(ab) and V[g] = (b^3-a^3)/(3(b-a)a^3b^3) - E[g]^2.
//
// All of it runs in float64. V[g] reduces exactly to (b-a)^2/(3a^3b^3), which
// has no subtraction of nearly equal terms and cannot go negative, and
// E[e]^2 N^2 is folded into energy^2 so the N^2 factor only meets V[e].
func clusterVariance(p core.Vec3, node Node) (float64, bool) {
	center, radiusSquared := node.Bounds().BoundingSphere()
	distSquared := center.Subtract(p).LengthSquared()
	if distSquared <= radiusSquared {
		return 0, true
	}

	radius := math.Sqrt(radiusSquared)
	dist := math.Sqrt(distSquared)
	a := dist - radius
	b := dist + radius

	gMean := 1.0 / (a * b)
	gMeanSquared := gMean * gMean
	ab3 := a * a * a * b * b * b
	// moments out of float64 range right at the sphere count as inside
	if ab3 == 0 || math.IsInf(gMeanSquared, 0) {
		return 0, true
	}
	gVariance := ((b - a) * (b - a)) / (3.0 * ab3)

	energy := float64(node.Energy)
	eVariance := math.Max(0, float64(node.EnergyVariance))
	n := float64(node.EmitterCount)

	variance := eVariance*n*n*(gVariance+gMeanSquared) + energy*energy*gVariance
	if math.IsNaN(variance) || variance < 0 {
		return 0, false
	}
	return variance, false
}
