package scene

import (
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/geometry"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// cornellSize is the edge length of the standard Cornell box
const cornellSize = 555.0

// NewCornellScene creates the classic Cornell box lit by one ceiling quad,
// with a tall and a short box and a mirror sphere on the short box
func NewCornellScene() *Scene {
	s := New("cornell", CameraConfig{
		LookFrom:    core.NewVec3(278, 278, -800), // outside the open side, looking in
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1,
	})

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	addCornellWalls(s, white, red, green)

	// Ceiling light, slightly below the ceiling and facing down
	lightSize := 130.0
	lightOffset := (cornellSize - lightSize) / 2
	s.AddQuadLight(
		core.NewVec3(lightOffset, cornellSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(15, 15, 15),
	)

	tall := geometry.NewBox(core.NewVec3(366, 165, 383), core.NewVec3(82.5, 165, 82.5), 0.2618, white)
	short := geometry.NewBox(core.NewVec3(185, 82.5, 169), core.NewVec3(82.5, 82.5, 82.5), -0.3142, white)
	mirror := geometry.NewSphere(core.NewVec3(185, 215, 169), 50, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0))
	s.Add(tall, short, mirror)

	return s
}

// addCornellWalls adds the floor, ceiling, back, left and right walls
func addCornellWalls(s *Scene, white, red, green material.Material) {
	size := cornellSize
	s.Add(
		// floor, y=0
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size), white),
		// ceiling, y=size
		geometry.NewQuad(core.NewVec3(0, size, 0), core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size), white),
		// back wall, z=size
		geometry.NewQuad(core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0), core.NewVec3(0, size, 0), white),
		// left wall, x=0
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, size), core.NewVec3(0, size, 0), red),
		// right wall, x=size
		geometry.NewQuad(core.NewVec3(size, 0, 0), core.NewVec3(0, size, 0), core.NewVec3(0, 0, size), green),
	)
}
