package integrator

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// SurfaceBounce samples the BSDF at si to continue the path, updating the
// throughput, the MIS state and ray in place. Surfaces that only bound a volume
// are crossed without scattering. It reports false, and terminates the state,
// when the path is absorbed.
func (k *Kernel) SurfaceBounce(si *material.SurfaceInteraction, wo core.Vec3, throughput *core.Vec3, state *PathState, L *PathRadiance, ray *PathRay) bool {
	if si.Material == nil {
		state.Terminate()
		return false
	}

	if boundary, ok := si.Material.(material.VolumeBoundary); ok && boundary.VolumeOnly() {
		return k.crossVolumeBoundary(si, state, ray)
	}

	u, v := state.RNG.Float2(dimBsdfU)
	sample := si.Material.Sample(si, wo, u, v)
	if sample.PDF == 0 || sample.Value.IsZero() {
		state.Terminate()
		return false
	}

	L.BsdfBounce(state, throughput, sample.Value, sample.PDF)

	if !sample.Label.IsTransparent() {
		state.RayPDF = sample.PDF
		state.RayT = 0
		state.MinRayPDF = math.Min(sample.PDF, state.MinRayPDF)
		state.LastP, state.LastN = si.Point, si.Normal
	}

	state.Next(sample.Label, k.Config)

	k.setupBounceRay(si, sample, ray)
	if state.Bounce == 0 {
		// clipping carries through transparent surfaces
		ray.TMax -= si.RayLength
	} else {
		ray.TMax = math.Inf(1)
	}

	if sample.Label.Transmit {
		state.Volumes.EnterExit(si)
	}
	return true
}

// BranchedSurfaceBounce is SurfaceBounce for sub-sample j of numSamples taken
// at si. The throughput is divided by numSamples and the state is branched, so
// each call needs its own copies of throughput, state and ray.
func (k *Kernel) BranchedSurfaceBounce(si *material.SurfaceInteraction, wo core.Vec3, j, numSamples int, throughput *core.Vec3, state *PathState, L *PathRadiance, ray *PathRay) bool {
	if si.Material == nil {
		state.Terminate()
		return false
	}

	u, v := state.RNG.BranchedFloat2(state.RNG.Hash, j, numSamples, dimBsdfU)
	sample := si.Material.Sample(si, wo, u, v)
	if sample.PDF == 0 || sample.Value.IsZero() {
		state.Terminate()
		return false
	}

	L.BsdfBounce(state, throughput, sample.Value, sample.PDF)
	*throughput = throughput.Multiply(1 / float64(numSamples))

	state.Next(sample.Label, k.Config)

	k.setupBounceRay(si, sample, ray)
	ray.TMax = math.Inf(1)

	if sample.Label.Transmit {
		state.Volumes.EnterExit(si)
	}

	state.Branch(j, numSamples)

	state.MinRayPDF = sample.PDF
	state.RayPDF = sample.PDF
	state.RayT = 0
	state.LastP, state.LastN = si.Point, si.Normal
	return true
}

func (k *Kernel) setupBounceRay(si *material.SurfaceInteraction, sample material.Sample, ray *PathRay) {
	ng := si.GeomNormal
	if sample.Label.Transmit {
		ng = ng.Negate()
	}
	ray.Origin = core.OffsetRayOrigin(si.Point, ng)
	ray.Direction = sample.Direction.Normalize()
	ray.Differential = sample.Differential
	ray.Time = si.Time
}

// crossVolumeBoundary continues the ray straight through a volume-only surface
func (k *Kernel) crossVolumeBoundary(si *material.SurfaceInteraction, state *PathState, ray *PathRay) bool {
	if !state.VolumeNext() {
		state.Terminate()
		return false
	}

	if state.Bounce == 0 {
		ray.TMax -= si.RayLength
	} else {
		ray.TMax = math.Inf(1)
	}

	ray.Origin = core.OffsetRayOrigin(si.Point, si.GeomNormal.Negate())
	state.Volumes.EnterExit(si)
	return true
}
