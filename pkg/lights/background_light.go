package lights

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// BackgroundLight is an infinite environment that blends from Bottom at the
// nadir to Top at the zenith. Equal colors give a uniform sky.
type BackgroundLight struct {
	Top, Bottom core.Vec3
	worldRadius float64
	settings    Settings
}

// NewBackgroundLight creates a gradient background light
func NewBackgroundLight(top, bottom core.Vec3) *BackgroundLight {
	return &BackgroundLight{Top: top, Bottom: bottom, worldRadius: 1, settings: DefaultSettings()}
}

// NewUniformBackgroundLight creates a background with constant emission
func NewUniformBackgroundLight(emission core.Vec3) *BackgroundLight {
	return NewBackgroundLight(emission, emission)
}

func (bl *BackgroundLight) Type() LightType {
	return LightTypeBackground
}

// Sample picks a direction uniformly on the sphere
func (bl *BackgroundLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	direction := core.SampleOnUnitSphere(sample)
	return LightSample{
		Point:     point.Add(direction.Multiply(2 * bl.worldRadius)),
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  bl.Emit(direction),
		PDF:       1.0 / (4.0 * math.Pi),
	}
}

// PDF is uniform over all directions
func (bl *BackgroundLight) PDF(point, direction core.Vec3) float64 {
	return 1.0 / (4.0 * math.Pi)
}

// Emit implements Environment
func (bl *BackgroundLight) Emit(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return bl.Bottom.Multiply(1.0 - t).Add(bl.Top.Multiply(t))
}

// Power is the flux of the average radiance through a sphere around the scene
func (bl *BackgroundLight) Power() float64 {
	average := bl.Top.Add(bl.Bottom).Multiply(0.5)
	return 4 * math.Pi * math.Pi * bl.worldRadius * bl.worldRadius * average.Luminance()
}

// Bounds is empty, the background surrounds everything
func (bl *BackgroundLight) Bounds() core.AABB {
	return core.EmptyAABB()
}

func (bl *BackgroundLight) Settings() Settings {
	return bl.settings
}

// WithSettings overrides the sampling controls
func (bl *BackgroundLight) WithSettings(s Settings) *BackgroundLight {
	bl.settings = s
	return bl
}

// Preprocess implements Preprocessor
func (bl *BackgroundLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	if worldRadius > 0 {
		bl.worldRadius = worldRadius
	}
	return nil
}
