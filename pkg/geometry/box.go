package geometry

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// Box is a rectangular box made of six outward-facing quads, rotated about
// the vertical axis through its center
type Box struct {
	Center   core.Vec3 // Center point of the box
	Size     core.Vec3 // Half-extents along each axis
	Angle    float64   // Rotation around +Y in radians
	Material material.Material
	faces    [6]*Quad
	bbox     core.AABB
}

// NewBox creates a box. Size holds half-extents, so (1,1,1) is a 2x2x2 box.
func NewBox(center, size core.Vec3, angle float64, mat material.Material) *Box {
	b := &Box{Center: center, Size: size, Angle: angle, Material: mat}
	b.generateFaces()
	return b
}

// NewAxisAlignedBox creates an unrotated box
func NewAxisAlignedBox(center, size core.Vec3, mat material.Material) *Box {
	return NewBox(center, size, 0, mat)
}

func (b *Box) generateFaces() {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}

	sin, cos := math.Sincos(b.Angle)
	for i, c := range corners {
		x, y, z := c.X*b.Size.X, c.Y*b.Size.Y, c.Z*b.Size.Z
		corners[i] = core.NewVec3(cos*x+sin*z, y, -sin*x+cos*z).Add(b.Center)
	}

	face := func(origin, u, v int) *Quad {
		return NewQuad(corners[origin], corners[u].Subtract(corners[origin]), corners[v].Subtract(corners[origin]), b.Material)
	}
	b.faces = [6]*Quad{
		face(4, 5, 7), // front (+Z)
		face(1, 0, 2), // back (-Z)
		face(5, 1, 6), // right (+X)
		face(0, 4, 3), // left (-X)
		face(3, 7, 2), // top (+Y)
		face(4, 0, 5), // bottom (-Y)
	}

	b.bbox = core.NewAABBFromPoints(corners[:]...)
}

// Hit returns the closest face hit
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	var closest *material.SurfaceInteraction
	closestT := tMax
	for _, face := range b.faces {
		if si, ok := face.Hit(ray, tMin, closestT); ok {
			closestT = si.T
			closest = si
		}
	}
	return closest, closest != nil
}

// BoundingBox returns the bounds of the eight corners
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}

// SetTag implements Tagged, every face carries the box's tag
func (b *Box) SetTag(tag Tag) {
	for _, face := range b.faces {
		face.SetTag(tag)
	}
}
