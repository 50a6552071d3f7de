package integrator

import (
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/lights"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

const rayEpsilon = 1e-4

// PathTracer implements unidirectional path tracing with next event
// estimation through the light sampler
type PathTracer struct {
	*Kernel
	environment []int // ids of distant and background lights
}

// NewPathTracer creates a path tracer over the kernel's scene and lights
func NewPathTracer(kernel *Kernel) *PathTracer {
	pt := &PathTracer{Kernel: kernel}
	for id := 0; id < kernel.Lights.Len(); id++ {
		if _, ok := kernel.Lights.Light(id).(lights.Environment); ok {
			pt.environment = append(pt.environment, id)
		}
	}
	return pt
}

// Li traces the camera ray and returns the radiance it carries back. With
// branched integration enabled the first hit splits into per-lobe samples.
func (pt *PathTracer) Li(cameraRay core.Ray, rng RNG) PathRadiance {
	var L PathRadiance
	state := NewPathState(rng)
	ray := NewPathRay(cameraRay)
	throughput := core.NewVec3(1, 1, 1)

	if pt.Config.Branched {
		pt.branchedIntegrate(&ray, throughput, &state, &L)
	} else {
		pt.integrate(&ray, throughput, &state, &L)
	}
	return L
}

// integrate follows the path until it terminates
func (pt *PathTracer) integrate(ray *PathRay, throughput core.Vec3, state *PathState, L *PathRadiance) {
	for state.Status == StatusActive {
		si, hit := pt.Scene.Intersect(ray.Ray, rayEpsilon, ray.TMax)
		if !hit {
			pt.accumEnvironment(ray, throughput, state, L)
			return
		}
		wo := ray.Direction.Negate()
		state.RayT += si.RayLength
		markShadowCatcher(si, state)

		pt.accumSurfaceEmission(si, wo, throughput, state, L)

		if !pt.continuePath(si, &throughput, state) {
			return
		}

		pt.ConnectLight(si, wo, throughput, state, L)

		if !pt.SurfaceBounce(si, wo, &throughput, state, L, ray) {
			return
		}
	}
}

// branchedIntegrate shades the first non-transparent hit with every light and
// several BSDF samples per lobe, then follows each sample as a regular path
func (pt *PathTracer) branchedIntegrate(ray *PathRay, throughput core.Vec3, state *PathState, L *PathRadiance) {
	for state.Status == StatusActive {
		si, hit := pt.Scene.Intersect(ray.Ray, rayEpsilon, ray.TMax)
		if !hit {
			pt.accumEnvironment(ray, throughput, state, L)
			return
		}
		wo := ray.Direction.Negate()
		state.RayT += si.RayLength
		markShadowCatcher(si, state)

		pt.accumSurfaceEmission(si, wo, throughput, state, L)

		if !pt.continuePath(si, &throughput, state) {
			return
		}

		if passThrough(si.Material) {
			if !pt.SurfaceBounce(si, wo, &throughput, state, L, ray) {
				return
			}
			continue
		}

		if pt.Config.UseDirectLight {
			pt.BranchedConnectLight(si, wo, state, throughput, 1, L, pt.Config.SampleAllLights)
		}

		numSamples := pt.branchSamples(si.Material)
		for j := 0; j < numSamples; j++ {
			branchState := *state
			branchThroughput := throughput
			branchRay := *ray
			if !pt.BranchedSurfaceBounce(si, wo, j, numSamples, &branchThroughput, &branchState, L, &branchRay) {
				continue
			}
			pt.integrate(&branchRay, branchThroughput, &branchState, L)
		}
		return
	}
}

// branchSamples returns the configured sample count for the material's lobe
func (pt *PathTracer) branchSamples(mat material.Material) int {
	class := material.Reflect(material.LobeDiffuse)
	if c, ok := mat.(material.Classifier); ok {
		class = c.Class()
	}
	switch class.Channel() {
	case material.ChannelTransmission:
		return pt.Config.TransmissionSamples
	case material.ChannelGlossy:
		return pt.Config.GlossySamples
	}
	return pt.Config.DiffuseSamples
}

// passThrough reports whether paths cross the material without scattering
func passThrough(mat material.Material) bool {
	if boundary, ok := mat.(material.VolumeBoundary); ok && boundary.VolumeOnly() {
		return true
	}
	if c, ok := mat.(material.Classifier); ok {
		return c.Class().IsTransparent()
	}
	return false
}

// markShadowCatcher flags camera paths whose first hit catches shadows
func markShadowCatcher(si *material.SurfaceInteraction, state *PathState) {
	if state.Bounce != 0 {
		return
	}
	if c, ok := si.Material.(material.Catcher); ok && c.CatchesShadows() {
		state.Flags |= FlagShadowCatcher
	}
}

// continuePath applies the bounce limits and Russian roulette at the current
// vertex, scaling throughput for survivors
func (pt *PathTracer) continuePath(si *material.SurfaceInteraction, throughput *core.Vec3, state *PathState) bool {
	if state.Flags.Has(FlagTerminateAfterTransparent) {
		if _, ok := si.Material.(material.ShadowTransmitter); !ok {
			state.Flags |= FlagTerminateImmediate
		}
	}

	probability := state.ContinuationProbability(*throughput, pt.Config)
	if probability == 0 {
		state.Terminate()
		return false
	}
	if probability < 1 {
		if state.RNG.Float(dimContinuation) >= probability {
			state.Terminate()
			return false
		}
		*throughput = throughput.Multiply(1 / probability)
	}
	return true
}

// accumSurfaceEmission adds the emission of the hit surface, weighted against
// the chance that light sampling at the previous bounce found it too
func (pt *PathTracer) accumSurfaceEmission(si *material.SurfaceInteraction, wo core.Vec3, throughput core.Vec3, state *PathState, L *PathRadiance) {
	emitter, ok := si.Material.(material.Emitter)
	if !ok {
		return
	}
	emission := emitter.Emit(si, wo)
	if emission.IsZero() {
		return
	}

	if si.LightID >= 0 && si.LightID < pt.Lights.Len() {
		if pt.Lights.ReachedMaxBounces(si.LightID, state.Bounce) {
			return
		}
		emission = emission.Multiply(pt.emissionWeight(si.LightID, wo.Negate(), state))
	}
	L.AccumEmission(state, throughput, emission)
}

// accumEnvironment adds the radiance of every environment light seen by an
// escaping ray
func (pt *PathTracer) accumEnvironment(ray *PathRay, throughput core.Vec3, state *PathState, L *PathRadiance) {
	state.Terminate()
	direction := ray.Direction.Normalize()
	for _, id := range pt.environment {
		if pt.Lights.ReachedMaxBounces(id, state.Bounce) {
			continue
		}
		value := pt.Lights.Light(id).(lights.Environment).Emit(direction)
		if value.IsZero() {
			continue
		}
		L.AccumBackground(state, throughput, value.Multiply(pt.emissionWeight(id, direction, state)))
	}
}

// emissionWeight is the MIS weight of reaching light id along direction by
// BSDF sampling
func (pt *PathTracer) emissionWeight(id int, direction core.Vec3, state *PathState) float64 {
	if state.Flags.Has(FlagMISSkip) || !pt.Config.UseDirectLight {
		return 1
	}
	lightPDF := pt.lightPickPDF(state, id, direction)
	return core.PowerHeuristic(1, state.RayPDF, 1, lightPDF)
}
