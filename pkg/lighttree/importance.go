package lighttree

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// minDistSquared keeps point emitters evaluated at their own position finite.
const minDistSquared = 1e-8

// ImportanceFunc scores how much the node at offset may contribute at shading
// point p with normal n. It must be non-negative; 0 means the node cannot
// contribute at all.
type ImportanceFunc func(t *Tree, p, n core.Vec3, offset int) float64

// NodeImportance scores the node at offset with the tree's importance function.
func (t *Tree) NodeImportance(p, n core.Vec3, offset int) float64 {
	importance := t.importance(t, p, n, offset)
	if importance < 0 || math.IsNaN(importance) {
		return 0
	}
	return importance
}

// DefaultImportance is energy times a conservative cosine bound over squared
// distance.
//
// The cosine is taken between n and the direction to the bounding sphere
// center, widened by the half-angle the sphere subtends, so a cluster whose
// sphere straddles the tangent plane is never rejected. A zero normal (a point
// in a volume) skips the orientation term. The squared distance is clamped to a
// quarter of the squared radius so nearby clusters don't blow up.
func DefaultImportance(t *Tree, p, n core.Vec3, offset int) float64 {
	node := t.ReadNode(offset)
	energy := float64(node.Energy)
	if energy <= 0 {
		return 0
	}

	center, radiusSquared := node.Bounds().BoundingSphere()
	toCenter := center.Subtract(p)
	distSquared := toCenter.LengthSquared()

	cosBound := 1.0
	if !n.IsZero() && distSquared > radiusSquared {
		dist := math.Sqrt(distSquared)
		cosTheta := math.Max(-1, math.Min(1, n.Dot(toCenter)/dist))
		theta := math.Acos(cosTheta)
		thetaU := math.Asin(math.Min(1, math.Sqrt(radiusSquared)/dist))

		widened := math.Max(0, theta-thetaU)
		if widened >= math.Pi/2 {
			return 0
		}
		cosBound = math.Cos(widened)
	}

	return energy * cosBound / max(distSquared, radiusSquared/4, minDistSquared)
}
