package geometry

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Tag
	Corner   core.Vec3 // One corner of the quad
	U        core.Vec3 // First edge vector
	V        core.Vec3 // Second edge vector
	Normal   core.Vec3 // Normal vector (computed from U × V)
	Material material.Material
	D        float64   // Plane equation constant: ax + by + cz = d
	W        core.Vec3 // Cached cross product for barycentric coordinates
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Tag:      NewTag(),
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: mat,
		D:        normal.Dot(corner),
		W:        cross.Multiply(1.0 / cross.Dot(cross)),
	}
}

// Area returns |U × V|
func (q *Quad) Area() float64 {
	return q.U.Cross(q.V).Length()
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Ray is parallel to the quad
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)

	// Barycentric coordinates along U and V
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	si := &material.SurfaceInteraction{
		T:         t,
		Point:     hitPoint,
		Material:  q.Material,
		RayLength: t * ray.Direction.Length(),
	}
	q.Tag.stamp(si)
	si.SetFaceNormal(ray, q.Normal)

	return si, true
}

// BoundingBox returns the bounds of the four corners, padded on flat axes
func (q *Quad) BoundingBox() core.AABB {
	box := core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	)
	const pad = 1e-4
	if box.Max.X-box.Min.X < pad {
		box.Min.X -= pad
		box.Max.X += pad
	}
	if box.Max.Y-box.Min.Y < pad {
		box.Min.Y -= pad
		box.Max.Y += pad
	}
	if box.Max.Z-box.Min.Z < pad {
		box.Min.Z -= pad
		box.Max.Z += pad
	}
	return box
}
