package lights

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/geometry"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// SphereLight represents a spherical area light
type SphereLight struct {
	*geometry.Sphere // Embed sphere for hit testing
	settings         Settings
}

// NewSphereLight creates a new spherical light
func NewSphereLight(center core.Vec3, radius float64, mat material.Material) *SphereLight {
	return &SphereLight{
		Sphere:   geometry.NewSphere(center, radius, mat),
		settings: DefaultSettings(),
	}
}

func (sl *SphereLight) Type() LightType {
	return LightTypeArea
}

// Sample picks a point on the sphere as seen from point. From outside, the
// cone of directions subtended by the sphere is sampled uniformly; from inside,
// the whole surface is.
func (sl *SphereLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	if sl.Center.Subtract(point).Length() <= sl.Radius {
		return sl.sampleUniform(point, sample)
	}
	return sl.sampleVisible(point, sample)
}

// sampleUniform samples uniformly on the entire sphere surface
func (sl *SphereLight) sampleUniform(point core.Vec3, sample core.Vec2) LightSample {
	normal := core.SampleOnUnitSphere(sample)
	samplePoint := sl.Center.Add(normal.Multiply(sl.Radius))

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance == 0 {
		return LightSample{}
	}
	direction := toLight.Multiply(1.0 / distance)

	// Convert the area density 1/(4πr²) to solid angle
	cosTheta := math.Abs(normal.Dot(direction))
	if cosTheta < 1e-8 {
		return LightSample{}
	}
	pdf := distance * distance / (cosTheta * 4.0 * math.Pi * sl.Radius * sl.Radius)

	si := &material.SurfaceInteraction{Point: samplePoint}
	si.SetFaceNormal(core.NewRay(point, direction), normal)

	return LightSample{
		Point:     samplePoint,
		Normal:    normal,
		Direction: direction,
		Distance:  distance,
		Emission:  emittedRadiance(sl.Material, si, direction.Negate()),
		PDF:       pdf,
	}
}

// sampleVisible samples only the visible cap of the sphere as seen from point
func (sl *SphereLight) sampleVisible(point core.Vec3, sample core.Vec2) LightSample {
	toCenter := sl.Center.Subtract(point)
	distanceToCenter := toCenter.Length()

	// Half-angle of the cone subtended by the sphere
	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))

	direction := core.SampleCone(toCenter.Multiply(1.0/distanceToCenter), cosThetaMax, sample).Normalize()

	si, hit := sl.Sphere.Hit(core.NewRay(point, direction), 0.001, math.Inf(1))
	if !hit {
		// Grazing directions at the silhouette can miss through rounding
		return LightSample{}
	}

	return LightSample{
		Point:     si.Point,
		Normal:    si.Normal,
		Direction: direction,
		Distance:  si.T,
		Emission:  emittedRadiance(sl.Material, si, direction.Negate()),
		PDF:       uniformConePDF(cosThetaMax),
	}
}

// PDF returns the probability density for sampling a given direction
func (sl *SphereLight) PDF(point, direction core.Vec3) float64 {
	si, hit := sl.Sphere.Hit(core.NewRay(point, direction), 0.001, math.Inf(1))
	if !hit {
		return 0.0
	}

	distanceToCenter := sl.Center.Subtract(point).Length()
	if distanceToCenter <= sl.Radius {
		cosTheta := math.Abs(si.Normal.Dot(direction))
		if cosTheta < 1e-8 {
			return 0
		}
		return si.T * si.T / (cosTheta * 4.0 * math.Pi * sl.Radius * sl.Radius)
	}

	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))
	return uniformConePDF(cosThetaMax)
}

// Power is π·area times the emitted luminance
func (sl *SphereLight) Power() float64 {
	si := &material.SurfaceInteraction{FrontFace: true}
	area := 4 * math.Pi * sl.Radius * sl.Radius
	return math.Pi * area * emittedRadiance(sl.Material, si, core.Vec3{}).Luminance()
}

func (sl *SphereLight) Bounds() core.AABB {
	return sl.Sphere.BoundingBox()
}

func (sl *SphereLight) Settings() Settings {
	return sl.settings
}

// WithSettings overrides the sampling controls
func (sl *SphereLight) WithSettings(s Settings) *SphereLight {
	sl.settings = s
	return sl
}
