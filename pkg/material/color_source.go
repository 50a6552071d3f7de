package material

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns the color at a world-space point
	Evaluate(point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of position
func (s *SolidColor) Evaluate(point core.Vec3) core.Vec3 {
	return s.Color
}

// Checker alternates two colors on a 3D grid of cells of the given size
type Checker struct {
	Even, Odd core.Vec3
	Size      float64
}

// NewChecker creates a checker pattern
func NewChecker(even, odd core.Vec3, size float64) *Checker {
	return &Checker{Even: even, Odd: odd, Size: size}
}

// Evaluate picks the color of the cell containing point
func (c *Checker) Evaluate(point core.Vec3) core.Vec3 {
	if c.Size <= 0 {
		return c.Even
	}
	cell := int(math.Floor(point.X/c.Size)) + int(math.Floor(point.Y/c.Size)) + int(math.Floor(point.Z/c.Size))
	if cell%2 == 0 {
		return c.Even
	}
	return c.Odd
}
