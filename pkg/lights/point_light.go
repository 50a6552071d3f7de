package lights

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// PointLight emits Intensity uniformly in all directions from a single position
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3
	settings  Settings
}

// NewPointLight creates a new point light
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity, settings: DefaultSettings()}
}

func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// Sample always returns the light position. The inverse square falloff is
// folded into Emission and the pdf is that of the delta distribution.
func (pl *PointLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	toLight := pl.Position.Subtract(point)
	distSquared := toLight.LengthSquared()
	if distSquared == 0 {
		return LightSample{Point: pl.Position, Delta: true}
	}
	distance := math.Sqrt(distSquared)
	direction := toLight.Multiply(1.0 / distance)

	return LightSample{
		Point:     pl.Position,
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  distance,
		Emission:  pl.Intensity.Multiply(1.0 / distSquared),
		PDF:       1,
		Delta:     true,
	}
}

// PDF is 0, a BSDF-sampled direction never hits a point
func (pl *PointLight) PDF(point, direction core.Vec3) float64 {
	return 0
}

// Power is 4π times the intensity luminance
func (pl *PointLight) Power() float64 {
	return 4 * math.Pi * pl.Intensity.Luminance()
}

func (pl *PointLight) Bounds() core.AABB {
	return core.NewAABB(pl.Position, pl.Position)
}

func (pl *PointLight) Settings() Settings {
	return pl.settings
}

// WithSettings overrides the sampling controls
func (pl *PointLight) WithSettings(s Settings) *PointLight {
	pl.settings = s
	return pl
}
