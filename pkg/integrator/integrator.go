package integrator

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/config"
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/lights"
	"github.com/df07/go-lighttree-raytracer/pkg/lighttree"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// Visibility is the answer of a shadow query
type Visibility struct {
	Occluded      bool
	Transmittance core.Vec3 // only meaningful when not occluded
}

// Visible returns an unoccluded answer with full transmittance
func Visible() Visibility {
	return Visibility{Transmittance: core.NewVec3(1, 1, 1)}
}

// Scene answers the ray queries of the integrator
type Scene interface {
	// Intersect returns the closest hit along ray within [tMin, tMax]
	Intersect(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool)

	// TraceShadow tests the segment from ray.Origin to ray.At(tMax)
	TraceShadow(ray core.Ray, tMax float64) Visibility
}

// LightSampler selects and samples lights. *lights.Set implements it.
type LightSampler interface {
	Len() int
	Light(id int) lights.Light
	Tree() *lighttree.Tree
	UseTree() bool
	Members(g lights.Group) []int
	Groups() lights.GroupDistribution
	ReachedMaxBounces(id, bounce int) bool
	SamplePoint(u, v, time float64, p core.Vec3, bounce, id int) lights.LightSample
	SampleInGroup(g lights.Group, u float64) (int, float64, float64)
	Sample(u, v, time float64, p, n core.Vec3, bounce int, threshold float64) (lights.LightSample, lighttree.Diagnostics)
	PickProbability(id int, p, n core.Vec3, threshold float64, maySplit bool) float64
}

// Kernel carries the configuration and collaborators every shading operation
// needs. It holds no per-path state and is safe for concurrent use.
type Kernel struct {
	Config config.IntegratorConfig
	Scene  Scene
	Lights LightSampler
}

// NewKernel creates a kernel
func NewKernel(cfg config.IntegratorConfig, scene Scene, lightSampler LightSampler) *Kernel {
	return &Kernel{Config: cfg, Scene: scene, Lights: lightSampler}
}

// useSplitting reports whether branched connections traverse the light tree
// with splitting
func (k *Kernel) useSplitting() bool {
	return k.Config.UseLightTree && k.Lights.UseTree() && k.Config.SplittingThreshold != 0
}

// PathRay is a path segment with the extra state carried between bounces
type PathRay struct {
	core.Ray
	TMax         float64
	Time         float64
	Differential core.Differential
}

// NewPathRay creates an unbounded path ray
func NewPathRay(ray core.Ray) PathRay {
	return PathRay{Ray: ray, TMax: math.Inf(1)}
}
