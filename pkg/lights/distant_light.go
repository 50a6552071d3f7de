package lights

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// DistantLight is a light infinitely far away, like the sun. Strength is the
// irradiance it delivers on a surface facing it. A zero angle makes it a delta
// light; otherwise it subtends a disc of the given angular diameter (radians).
type DistantLight struct {
	toLight     core.Vec3
	strength    core.Vec3
	cosHalf     float64
	worldRadius float64
	settings    Settings
}

// NewDistantLight creates a distant light shining along direction
func NewDistantLight(direction, strength core.Vec3, angle float64) *DistantLight {
	return &DistantLight{
		toLight:     direction.Normalize().Negate(),
		strength:    strength,
		cosHalf:     math.Cos(math.Max(0, angle) / 2),
		worldRadius: 1,
		settings:    DefaultSettings(),
	}
}

func (dl *DistantLight) Type() LightType {
	return LightTypeDistant
}

func (dl *DistantLight) isDelta() bool {
	return dl.cosHalf >= 1
}

// inDisc reports whether direction lies inside the disc, allowing for the
// rounding of directions sampled right at its rim
func (dl *DistantLight) inDisc(direction core.Vec3) bool {
	return direction.Dot(dl.toLight) >= dl.cosHalf-1e-12
}

// Sample picks a direction inside the light's disc
func (dl *DistantLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	if dl.isDelta() {
		return LightSample{
			Point:     point.Add(dl.toLight.Multiply(2 * dl.worldRadius)),
			Normal:    dl.toLight.Negate(),
			Direction: dl.toLight,
			Distance:  math.Inf(1),
			Emission:  dl.strength,
			PDF:       1,
			Delta:     true,
		}
	}

	direction := core.SampleCone(dl.toLight, dl.cosHalf, sample).Normalize()
	pdf := uniformConePDF(dl.cosHalf)
	return LightSample{
		Point:     point.Add(direction.Multiply(2 * dl.worldRadius)),
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  dl.strength.Multiply(pdf),
		PDF:       pdf,
	}
}

// PDF is uniform over the disc, 0 outside and for delta lights
func (dl *DistantLight) PDF(point, direction core.Vec3) float64 {
	if dl.isDelta() || !dl.inDisc(direction) {
		return 0
	}
	return uniformConePDF(dl.cosHalf)
}

// Emit implements Environment: radiance seen by an escaping ray
func (dl *DistantLight) Emit(direction core.Vec3) core.Vec3 {
	if dl.isDelta() || !dl.inDisc(direction.Normalize()) {
		return core.Vec3{}
	}
	return dl.strength.Multiply(uniformConePDF(dl.cosHalf))
}

// Power is the flux through a disc covering the scene
func (dl *DistantLight) Power() float64 {
	return math.Pi * dl.worldRadius * dl.worldRadius * dl.strength.Luminance()
}

// Bounds is empty, a distant light has no position
func (dl *DistantLight) Bounds() core.AABB {
	return core.EmptyAABB()
}

func (dl *DistantLight) Settings() Settings {
	return dl.settings
}

// WithSettings overrides the sampling controls
func (dl *DistantLight) WithSettings(s Settings) *DistantLight {
	dl.settings = s
	return dl
}

// Preprocess implements Preprocessor
func (dl *DistantLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	if worldRadius > 0 {
		dl.worldRadius = worldRadius
	}
	return nil
}
