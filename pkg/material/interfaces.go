package material

import (
	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// Material is the BSDF of a surface. Directions follow the usual convention:
// wo points from the surface toward where the path came from and wi toward
// the light or the continuation, both normalized.
//
// Neither method returns an error: an impossible sample or evaluation is
// reported as pdf 0 with a zero value.
type Material interface {
	// Evaluate returns f(wo, wi)*|cos(wi)| split by channel, and the pdf Sample
	// would have produced wi with.
	Evaluate(si *SurfaceInteraction, wo, wi core.Vec3) (Eval, float64)

	// Sample draws a continuation direction from (u, v).
	Sample(si *SurfaceInteraction, wo core.Vec3, u, v float64) Sample

	// HasEval reports whether any lobe can be evaluated for an arbitrary
	// direction. Purely singular materials cannot take direct light samples.
	HasEval() bool
}

// Emitter is implemented by materials that emit light
type Emitter interface {
	// Emit returns the radiance leaving the surface toward wo
	Emit(si *SurfaceInteraction, wo core.Vec3) core.Vec3
}

// ShadowTransmitter is implemented by materials shadow rays may pass through
type ShadowTransmitter interface {
	ShadowTransmittance(si *SurfaceInteraction) core.Vec3
}

// VolumeBoundary is implemented by materials that only delimit a volume. Paths
// cross them without scattering.
type VolumeBoundary interface {
	VolumeOnly() bool
}

// Sample is the result of Material.Sample
type Sample struct {
	Direction    core.Vec3
	Differential core.Differential // derivatives of Direction
	Value        Eval
	PDF          float64
	Label        Label
}

// Valid reports whether the sample can continue a path
func (s Sample) Valid() bool {
	return s.PDF > 0 && !s.Value.IsZero()
}

// SurfaceInteraction contains information about a ray-object intersection
type SurfaceInteraction struct {
	Point        core.Vec3         // Point of intersection
	Normal       core.Vec3         // Shading normal, facing the incoming ray
	GeomNormal   core.Vec3         // Geometric normal, facing the incoming ray
	T            float64           // Parameter t along the ray
	FrontFace    bool              // Whether ray hit the front face
	Material     Material          // Material of the hit object
	Time         float64           // Time of the ray that produced the hit
	RayLength    float64           // Length of the segment that reached this point
	Differential core.Differential // Derivatives of the incoming direction
	ObjectID     int               // Index of the hit shape in its scene
	LightID      int               // Index of the light this surface belongs to, -1 if none
}

// SetFaceNormal sets the normal vector and determines front/back face
func (si *SurfaceInteraction) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	si.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if si.FrontFace {
		si.Normal = outwardNormal
	} else {
		si.Normal = outwardNormal.Negate()
	}
	si.GeomNormal = si.Normal
}

// Classifier is implemented by materials that can name their dominant lobe.
// Branched integration uses it to pick a per-lobe sample count.
type Classifier interface {
	Class() Label
}

// Catcher is implemented by surfaces that only record the shadows cast on them
type Catcher interface {
	CatchesShadows() bool
}

// ShadowCatcher shades like Material but marks camera paths hitting it so that
// its lighting goes to the shadow estimate instead of the image
type ShadowCatcher struct {
	Material
}

// NewShadowCatcher wraps m
func NewShadowCatcher(m Material) *ShadowCatcher {
	return &ShadowCatcher{Material: m}
}

// CatchesShadows implements Catcher
func (s *ShadowCatcher) CatchesShadows() bool { return true }
