package integrator

import (
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/lighttree"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// PathRadiance accumulates the radiance of one path, split into the passes a
// compositor or denoiser reads. It is owned by the path and read once the path
// has terminated.
type PathRadiance struct {
	Emission   core.Vec3 // emitters seen directly by the camera
	Background core.Vec3 // environment seen directly by the camera

	// Light sampled from the first hit, by BSDF channel
	DirectDiffuse      core.Vec3
	DirectGlossy       core.Vec3
	DirectTransmission core.Vec3

	// Everything after the first bounce; split by the channel of the first
	// bounce with IndirectByChannel
	Indirect core.Vec3

	// Unshadowed and shadowed light estimates of every connection, visible or
	// not. Their ratio is the shadow catcher's shadow.
	TotalLight       core.Vec3
	TotalLightShaded core.Vec3

	// Lamp shadow pass of the first hit: transmittance weighted by sample scale
	LampShadow       core.Vec3
	LampShadowWeight float64

	Diagnostics lighttree.Diagnostics

	firstBounce  material.Eval // throughput split of the first bounce
	bounced      bool
	shadowCaught bool
}

// AccumEmission adds emission found by following the path
func (L *PathRadiance) AccumEmission(state *PathState, throughput, value core.Vec3) {
	contribution := throughput.MultiplyVec(value)
	if state.Bounce == 0 {
		L.Emission = L.Emission.Add(contribution)
	} else {
		L.Indirect = L.Indirect.Add(contribution)
	}
}

// AccumBackground adds radiance from a path that left the scene
func (L *PathRadiance) AccumBackground(state *PathState, throughput, value core.Vec3) {
	contribution := throughput.MultiplyVec(value)
	if state.Bounce == 0 {
		L.Background = L.Background.Add(contribution)
	} else {
		L.Indirect = L.Indirect.Add(contribution)
	}
}

// AccumLight adds an unoccluded light connection. eval is already divided by
// the light pdf; shadow is the transmittance along the shadow ray and scale the
// weight of this sample among the light samples of the vertex.
func (L *PathRadiance) AccumLight(state *PathState, throughput core.Vec3, eval material.Eval, shadow core.Vec3, scale float64, isLamp bool) {
	light := throughput.MultiplyVec(eval.Sum())
	L.TotalLight = L.TotalLight.Add(light)
	L.TotalLightShaded = L.TotalLightShaded.Add(light.MultiplyVec(shadow))

	if state.Flags.Has(FlagShadowCatcher) {
		L.shadowCaught = true
		return
	}

	if state.Bounce == 0 {
		shaded := eval.MultiplyVec(shadow)
		L.DirectDiffuse = L.DirectDiffuse.Add(throughput.MultiplyVec(shaded.Diffuse))
		L.DirectGlossy = L.DirectGlossy.Add(throughput.MultiplyVec(shaded.Glossy))
		L.DirectTransmission = L.DirectTransmission.Add(throughput.MultiplyVec(shaded.Transmission))

		if isLamp {
			L.LampShadow = L.LampShadow.Add(shadow.Multiply(scale))
			L.LampShadowWeight += scale
		}
		return
	}
	L.Indirect = L.Indirect.Add(light.MultiplyVec(shadow))
}

// AccumTotalLight records an occluded light connection: only the unshadowed
// estimate grows, the visible channels are untouched.
func (L *PathRadiance) AccumTotalLight(state *PathState, throughput core.Vec3, eval material.Eval) {
	L.TotalLight = L.TotalLight.Add(throughput.MultiplyVec(eval.Sum()))
}

// BsdfBounce applies a BSDF sample to the throughput. The first bounce also
// fixes how indirect light is split between channels.
func (L *PathRadiance) BsdfBounce(state *PathState, throughput *core.Vec3, eval material.Eval, pdf float64) {
	weighted := eval.Scale(1 / pdf)
	if state.Bounce == 0 && !L.bounced {
		L.firstBounce = weighted
		L.bounced = true
	}
	*throughput = throughput.MultiplyVec(weighted.Sum())
}

// IndirectByChannel splits Indirect by the channel weights of the first bounce
func (L *PathRadiance) IndirectByChannel() (diffuse, glossy, transmission core.Vec3) {
	sum := L.firstBounce.Sum()
	split := func(c core.Vec3) core.Vec3 {
		return core.NewVec3(
			safeRatio(c.X, sum.X)*L.Indirect.X,
			safeRatio(c.Y, sum.Y)*L.Indirect.Y,
			safeRatio(c.Z, sum.Z)*L.Indirect.Z,
		)
	}
	if !L.bounced {
		return L.Indirect, core.Vec3{}, core.Vec3{}
	}
	return split(L.firstBounce.Diffuse), split(L.firstBounce.Glossy), split(L.firstBounce.Transmission)
}

// ShadowCatcher returns the fraction of light that reached a shadow catcher,
// 1 where nothing was occluded
func (L *PathRadiance) ShadowCatcher() core.Vec3 {
	if !L.shadowCaught {
		return core.NewVec3(1, 1, 1)
	}
	return core.NewVec3(
		safeRatio(L.TotalLightShaded.X, L.TotalLight.X),
		safeRatio(L.TotalLightShaded.Y, L.TotalLight.Y),
		safeRatio(L.TotalLightShaded.Z, L.TotalLight.Z),
	)
}

// Sum returns the radiance of the path, all passes combined
func (L *PathRadiance) Sum() core.Vec3 {
	return L.Emission.
		Add(L.Background).
		Add(L.DirectDiffuse).
		Add(L.DirectGlossy).
		Add(L.DirectTransmission).
		Add(L.Indirect)
}

func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
