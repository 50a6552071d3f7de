package material

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Evaluate is always zero, both lobes are singular
func (d *Dielectric) Evaluate(si *SurfaceInteraction, wo, wi core.Vec3) (Eval, float64) {
	return Eval{}, 0
}

// Sample picks reflection with the Fresnel probability and refraction otherwise.
// The pick probability equals the Fresnel weight, so the value is white.
func (d *Dielectric) Sample(si *SurfaceInteraction, wo core.Vec3, u, v float64) Sample {
	// Determine if we're entering or exiting the material
	refractionRatio := d.RefractiveIndex
	if si.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	}

	cosTheta := math.Min(wo.Dot(si.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0
	white := core.NewVec3(1, 1, 1)

	if cannotRefract || u < Reflectance(cosTheta, refractionRatio) {
		return Sample{
			Direction:    reflect(wo, si.Normal),
			Differential: si.Differential.Reflect(si.Normal),
			Value:        NewEval(ChannelGlossy, white),
			PDF:          1,
			Label:        Reflect(LobeSingular),
		}
	}

	return Sample{
		Direction: refractVector(wo.Negate(), si.Normal, refractionRatio).Normalize(),
		Differential: core.Differential{
			DX: si.Differential.DX.Multiply(-refractionRatio),
			DY: si.Differential.DY.Multiply(-refractionRatio),
		},
		Value: NewEval(ChannelTransmission, white),
		PDF:   1,
		Label: Transmit(LobeSingular),
	}
}

// HasEval is false, light sampling cannot hit a delta lobe
func (d *Dielectric) HasEval() bool {
	return false
}

// refractVector calculates the refraction of a vector using Snell's law
func refractVector(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// Class implements Classifier
func (d *Dielectric) Class() Label {
	return Transmit(LobeSingular)
}
