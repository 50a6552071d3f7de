package material

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo ColorSource // Base color/reflectance
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with a color source
func NewTexturedLambertian(albedo ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Evaluate returns albedo/π·cos(θ) in the diffuse channel with pdf cos(θ)/π
func (l *Lambertian) Evaluate(si *SurfaceInteraction, wo, wi core.Vec3) (Eval, float64) {
	cosTheta := wi.Dot(si.Normal)
	if cosTheta <= 0 {
		return Eval{}, 0 // Below surface
	}
	albedo := l.Albedo.Evaluate(si.Point)
	return NewEval(ChannelDiffuse, albedo.Multiply(cosTheta/math.Pi)), cosTheta / math.Pi
}

// Sample draws a cosine-weighted direction in the hemisphere around the normal
func (l *Lambertian) Sample(si *SurfaceInteraction, wo core.Vec3, u, v float64) Sample {
	direction := core.SampleCosineHemisphere(si.Normal, core.NewVec2(u, v)).Normalize()
	value, pdf := l.Evaluate(si, wo, direction)
	if pdf == 0 {
		return Sample{}
	}
	return Sample{
		Direction:    direction,
		Differential: si.Differential.Reflect(si.Normal),
		Value:        value,
		PDF:          pdf,
		Label:        Reflect(LobeDiffuse),
	}
}

// HasEval is always true for a diffuse surface
func (l *Lambertian) HasEval() bool {
	return true
}

// Class implements Classifier
func (l *Lambertian) Class() Label {
	return Reflect(LobeDiffuse)
}
