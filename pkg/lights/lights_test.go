package lights

import (
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

func ceilingQuad(x, z float64, strength float64) *QuadLight {
	return NewQuadLight(
		core.NewVec3(x, 4, z),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		material.NewEmissive(core.NewVec3(strength, strength, strength)),
	)
}
