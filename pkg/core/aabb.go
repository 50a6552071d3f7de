package core

import "math"

// AABB is an axis-aligned box. Light tree nodes store one per subtree and the
// scene BVH uses them to cull rays.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates a box from its two corners
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that acts as the identity for Union
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: NewVec3(inf, inf, inf),
		Max: NewVec3(-inf, -inf, -inf),
	}
}

// NewAABBFromPoints returns the tightest box around points, or the zero box
// when there are none.
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := EmptyAABB()
	for _, p := range points {
		box = box.Union(AABB{Min: p, Max: p})
	}
	return box
}

// Hit reports whether ray overlaps the box inside (tMin, tMax), using slabs.
func (b AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		lo, hi := b.Min.Axis(axis), b.Max.Axis(axis)
		origin, dir := ray.Origin.Axis(axis), ray.Direction.Axis(axis)

		if math.Abs(dir) < 1e-8 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		inv := 1 / dir
		t0, t1 := (lo-origin)*inv, (hi-origin)*inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// Union returns the smallest box containing both boxes
func (b AABB) Union(other AABB) AABB {
	return AABB{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Size is the extent along each axis
func (b AABB) Size() Vec3 {
	return b.Max.Subtract(b.Min)
}

// LongestAxis returns 0, 1 or 2 for the axis with the largest extent. Ties
// go to the later axis.
func (b AABB) LongestAxis() int {
	size := b.Size()
	switch {
	case size.X > size.Y && size.X > size.Z:
		return 0
	case size.Y > size.Z:
		return 1
	default:
		return 2
	}
}

// BoundingSphere returns the box center and the squared distance from it to
// the max corner.
func (b AABB) BoundingSphere() (Vec3, float64) {
	center := b.Center()
	return center, b.Max.Subtract(center).LengthSquared()
}
