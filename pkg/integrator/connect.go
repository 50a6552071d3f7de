package integrator

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/lights"
	"github.com/df07/go-lighttree-raytracer/pkg/lighttree"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// AccumLightContribution evaluates light sample ls, traces its shadow ray and
// records the result: unoccluded light goes to the visible channels, occluded
// light only to the total-light estimate.
func (k *Kernel) AccumLightContribution(si *material.SurfaceInteraction, wo core.Vec3, ls lights.LightSample, state *PathState, L *PathRadiance, terminate float64, throughput core.Vec3, scale float64) {
	direct, ok := k.DirectEmission(si, wo, ls, state, terminate)
	if !ok {
		return
	}

	weighted := throughput.Multiply(scale)
	visibility := k.Scene.TraceShadow(direct.ShadowRay, direct.ShadowDist)
	if visibility.Occluded {
		L.AccumTotalLight(state, weighted, direct.Eval)
		return
	}
	L.AccumLight(state, weighted, direct.Eval, visibility.Transmittance, scale, direct.IsLamp)
}

// AccumLightTreeContribution walks the light tree from node offset and connects
// every light it selects. scale is the selection probability accumulated
// before the tree, maySplit whether splitting is allowed from this node down.
func (k *Kernel) AccumLightTreeContribution(u, v float64, offset int, scale float64, maySplit bool, throughput core.Vec3, L *PathRadiance, state *PathState, si *material.SurfaceInteraction, wo core.Vec3) lighttree.Diagnostics {
	req := lighttree.TraversalRequest{
		U: u, V: v,
		P: si.Point, N: si.Normal,
		Threshold: k.Config.SplittingThreshold,
		Scale:     scale,
		MaySplit:  maySplit,
		Offset:    offset,
	}

	diag := k.Lights.Tree().Traverse(req, func(sel lighttree.LeafSelection) {
		ls := k.Lights.SamplePoint(sel.U, sel.V, si.Time, si.Point, state.Bounce, sel.EmitterIndex)
		ls.PDF *= sel.Scale
		if ls.PDF == 0 {
			return
		}
		terminate := state.RNG.LightTermination()
		k.AccumLightContribution(si, wo, ls, state, L, terminate, throughput, 1)
	})
	L.Diagnostics.Merge(diag)
	return diag
}

// ConnectLight adds direct light at si by sampling a single light. Shadow
// catcher paths sample every light instead.
func (k *Kernel) ConnectLight(si *material.SurfaceInteraction, wo core.Vec3, throughput core.Vec3, state *PathState, L *PathRadiance) {
	if !k.Config.UseDirectLight || si.Material == nil || !si.Material.HasEval() {
		return
	}

	if state.Flags.Has(FlagShadowCatcher) {
		k.BranchedConnectLight(si, wo, state, throughput, 1, L, true)
		return
	}

	state.strategy = strategySingle
	if k.Lights.Len() == 0 {
		return
	}

	u, v := state.RNG.Float2(dimLightU)
	ls, diag := k.Lights.Sample(u, v, si.Time, si.Point, si.Normal, state.Bounce, k.Config.SplittingThreshold)
	L.Diagnostics.Merge(diag)
	if ls.PDF == 0 {
		return
	}
	k.AccumLightContribution(si, wo, ls, state, L, state.RNG.LightTermination(), throughput, 1)
}

// BranchedConnectLight adds direct light at si from possibly many light
// samples. numSamplesAdjust scales the per-light sample counts and weights.
//
// With the light tree and a non-zero splitting threshold a light group is
// picked first; the tree group is traversed with splitting, the other groups
// contribute one of their lights. Otherwise every light is sampled when
// sampleAllLights is set, and one random light when it isn't.
func (k *Kernel) BranchedConnectLight(si *material.SurfaceInteraction, wo core.Vec3, state *PathState, throughput core.Vec3, numSamplesAdjust float64, L *PathRadiance, sampleAllLights bool) {
	if si.Material == nil || !si.Material.HasEval() || k.Lights.Len() == 0 {
		return
	}

	switch {
	case k.useSplitting():
		state.strategy = strategySplit
		u, v := state.RNG.Float2(dimLightU)

		group, u, groupProb := k.Lights.Groups().Sample(u)
		if group == lights.GroupTree {
			k.AccumLightTreeContribution(u, v, 0, groupProb, true, throughput, L, state, si, wo)
			return
		}

		id, u, prob := k.Lights.SampleInGroup(group, u)
		if id < 0 {
			return
		}
		ls := k.Lights.SamplePoint(u, v, si.Time, si.Point, state.Bounce, id)
		ls.PDF *= groupProb * prob
		if ls.PDF == 0 {
			return
		}
		k.AccumLightContribution(si, wo, ls, state, L, state.RNG.LightTermination(), throughput, numSamplesAdjust)

	case sampleAllLights:
		state.strategy = strategyAll
		for i := 0; i < k.Lights.Len(); i++ {
			if k.Lights.ReachedMaxBounces(i, state.Bounce) {
				continue
			}

			numSamples := int(math.Ceil(numSamplesAdjust * float64(k.lightSamples(i))))
			numSamples = max(numSamples, 1)
			numSamplesInv := numSamplesAdjust / float64(numSamples)
			hash := combineHash(state.RNG.Hash, uint32(i))

			for j := 0; j < numSamples; j++ {
				u, v := state.RNG.BranchedFloat2(hash, j, numSamples, dimLightU)
				terminate := state.RNG.BranchedFloat(hash, j, numSamples, dimLightTermination)

				ls := k.Lights.SamplePoint(u, v, si.Time, si.Point, state.Bounce, i)
				if ls.PDF == 0 {
					continue
				}
				k.AccumLightContribution(si, wo, ls, state, L, terminate, throughput, numSamplesInv)
			}
		}

	default:
		state.strategy = strategySingle
		u, v := state.RNG.Float2(dimLightU)
		ls, diag := k.Lights.Sample(u, v, si.Time, si.Point, si.Normal, state.Bounce, k.Config.SplittingThreshold)
		L.Diagnostics.Merge(diag)
		if ls.PDF == 0 {
			return
		}
		k.AccumLightContribution(si, wo, ls, state, L, state.RNG.LightTermination(), throughput, numSamplesAdjust)
	}
}

// lightPickPDF is the density with which the light connection made at the last
// bounce would have produced direction from light id, for MIS against BSDF
// sampling
func (k *Kernel) lightPickPDF(state *PathState, id int, direction core.Vec3) float64 {
	light := k.Lights.Light(id)
	pdf := light.PDF(state.LastP, direction)
	if pdf == 0 {
		return 0
	}

	switch state.strategy {
	case strategyAll:
		return pdf
	case strategySplit:
		return pdf * k.Lights.PickProbability(id, state.LastP, state.LastN, k.Config.SplittingThreshold, true)
	}
	return pdf * k.Lights.PickProbability(id, state.LastP, state.LastN, k.Config.SplittingThreshold, false)
}

// lightSamples is the per-light sample count when all lights are sampled. The
// configured count is a floor that individual lights can raise.
func (k *Kernel) lightSamples(i int) int {
	return max(k.Config.LightSamples, k.Lights.Light(i).Settings().Samples, 1)
}
