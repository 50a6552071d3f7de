package lights

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/geometry"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// QuadLight represents a rectangular area light
type QuadLight struct {
	*geometry.Quad         // Embed quad for hit testing
	Area           float64 // Cached area for PDF calculations
	settings       Settings
}

// NewQuadLight creates a new quad light
func NewQuadLight(corner, u, v core.Vec3, mat material.Material) *QuadLight {
	quad := geometry.NewQuad(corner, u, v, mat)
	return &QuadLight{
		Quad:     quad,
		Area:     quad.Area(),
		settings: DefaultSettings(),
	}
}

func (ql *QuadLight) Type() LightType {
	return LightTypeArea
}

// Sample samples a point uniformly on the quad and converts its density to solid angle
func (ql *QuadLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	samplePoint := ql.Corner.Add(ql.U.Multiply(sample.X)).Add(ql.V.Multiply(sample.Y))

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance == 0 {
		return LightSample{}
	}
	direction := toLight.Multiply(1.0 / distance)

	// PDF_solid_angle = PDF_area * distance² / |cos(θ)|
	cosTheta := math.Abs(ql.Normal.Dot(direction))
	if cosTheta < 1e-8 {
		// Light is edge-on, no contribution
		return LightSample{}
	}

	si := &material.SurfaceInteraction{Point: samplePoint}
	si.SetFaceNormal(core.NewRay(point, direction), ql.Normal)

	return LightSample{
		Point:     samplePoint,
		Normal:    ql.Normal,
		Direction: direction,
		Distance:  distance,
		Emission:  emittedRadiance(ql.Material, si, direction.Negate()),
		PDF:       distance * distance / (cosTheta * ql.Area),
	}
}

// PDF returns the probability density for sampling a given direction
func (ql *QuadLight) PDF(point, direction core.Vec3) float64 {
	si, hit := ql.Quad.Hit(core.NewRay(point, direction), 0.001, math.Inf(1))
	if !hit {
		return 0.0
	}

	cosTheta := math.Abs(ql.Normal.Dot(direction))
	if cosTheta < 1e-8 {
		return 0.0
	}
	return si.T * si.T / (cosTheta * ql.Area)
}

// Power is π·area times the emitted luminance of the front face
func (ql *QuadLight) Power() float64 {
	si := &material.SurfaceInteraction{FrontFace: true}
	return math.Pi * ql.Area * emittedRadiance(ql.Material, si, core.Vec3{}).Luminance()
}

func (ql *QuadLight) Bounds() core.AABB {
	return ql.Quad.BoundingBox()
}

func (ql *QuadLight) Settings() Settings {
	return ql.settings
}

// WithSettings overrides the sampling controls
func (ql *QuadLight) WithSettings(s Settings) *QuadLight {
	ql.settings = s
	return ql
}
