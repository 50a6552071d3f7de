package lights

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

type LightType string

const (
	LightTypeArea       LightType = "area"
	LightTypePoint      LightType = "point"
	LightTypeDistant    LightType = "distant"
	LightTypeBackground LightType = "background"
)

// Light is anything that can be sampled for direct lighting
type Light interface {
	Type() LightType

	// Sample samples light toward a specific point for direct lighting.
	// Direction points FROM the shading point TO the light. A zero PDF marks a
	// sample that cannot contribute.
	Sample(point core.Vec3, sample core.Vec2) LightSample

	// PDF returns the solid angle density of Sample producing direction from point
	PDF(point, direction core.Vec3) float64

	// Power is the emitted energy used to weight this light against others
	Power() float64

	// Bounds encloses the emitting geometry; distant and background lights return an empty box
	Bounds() core.AABB

	Settings() Settings
}

// Environment is implemented by lights that are seen by rays escaping the scene
type Environment interface {
	Emit(direction core.Vec3) core.Vec3
}

// Preprocessor is implemented by lights whose sampling depends on the scene extent
type Preprocessor interface {
	Preprocess(worldCenter core.Vec3, worldRadius float64) error
}

// Settings are the per-light sampling controls
type Settings struct {
	Samples    int // samples taken when all lights are sampled, at least 1
	MaxBounces int // the light is ignored on bounces above this, negative means unlimited
}

// DefaultSettings samples once on every bounce
func DefaultSettings() Settings {
	return Settings{Samples: 1, MaxBounces: -1}
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point     core.Vec3 // Point on the light source
	Normal    core.Vec3 // Normal at the light sample point
	Direction core.Vec3 // Direction from shading point to light
	Distance  float64   // Distance to light, +Inf for distant and background lights
	Emission  core.Vec3 // Emitted light reaching the shading point
	PDF       float64   // Probability density of this sample
	Delta     bool      // Sampled from a delta distribution, BSDF sampling can never hit it
	LightID   int
	Type      LightType
}

// emittedRadiance asks an emissive material for its front-face radiance
func emittedRadiance(mat material.Material, si *material.SurfaceInteraction, wo core.Vec3) core.Vec3 {
	if emitter, ok := mat.(material.Emitter); ok {
		return emitter.Emit(si, wo)
	}
	return core.Vec3{}
}

// uniformConePDF calculates the PDF for uniform sampling within a cone
func uniformConePDF(cosTotalWidth float64) float64 {
	return 1.0 / (2.0 * math.Pi * (1.0 - cosTotalWidth))
}
