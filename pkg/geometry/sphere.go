package geometry

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// Sphere is a solid sphere. Sphere lights embed one for ray queries.
type Sphere struct {
	Tag
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Tag:      NewTag(),
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit returns the nearest intersection inside (tMin, tMax). The direction
// need not be normalized; RayLength is the distance along the ray.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	t, ok := s.nearestRoot(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	si := &material.SurfaceInteraction{
		T:         t,
		Point:     ray.At(t),
		Material:  s.Material,
		RayLength: t * ray.Direction.Length(),
	}
	s.Tag.stamp(si)
	si.SetFaceNormal(ray, si.Point.Subtract(s.Center).Multiply(1/s.Radius))
	return si, true
}

// nearestRoot solves |o + t*d - c|^2 = r^2 and returns the smaller root in
// range, falling back to the larger one for rays starting inside.
func (s *Sphere) nearestRoot(ray core.Ray, tMin, tMax float64) (float64, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, false
	}
	sqrtD := math.Sqrt(disc)
	for _, t := range [2]float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
		if t >= tMin && t <= tMax {
			return t, true
		}
	}
	return 0, false
}

func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}
