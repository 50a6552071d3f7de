package integrator

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/lights"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// DirectLight is a light sample evaluated at a shading point, ready for its
// shadow query
type DirectLight struct {
	Eval       material.Eval // BSDF x emission x MIS weight / pdf
	ShadowRay  core.Ray
	ShadowDist float64 // +Inf for lights at infinity
	IsLamp     bool    // sampled from a point, distant or background light
}

// DirectEmission evaluates light sample ls at si, seen along wo. terminate is
// the random number for light-threshold Russian roulette. It reports false when
// the sample can't contribute, which is not an error.
func (k *Kernel) DirectEmission(si *material.SurfaceInteraction, wo core.Vec3, ls lights.LightSample, state *PathState, terminate float64) (DirectLight, bool) {
	if ls.PDF == 0 || ls.Emission.IsZero() {
		return DirectLight{}, false
	}

	eval, bsdfPDF := si.Material.Evaluate(si, wo, ls.Direction)
	if eval.IsZero() {
		return DirectLight{}, false
	}

	weight := 1.0
	if !ls.Delta {
		weight = core.PowerHeuristic(1, ls.PDF, 1, bsdfPDF)
	}
	eval = eval.MultiplyVec(ls.Emission).Scale(weight / ls.PDF)
	if eval.IsZero() {
		return DirectLight{}, false
	}

	if k.Config.LightThreshold > 0 && !state.Flags.Has(FlagShadowCatcher) {
		probability := eval.Sum().MaxComponent() / k.Config.LightThreshold
		if probability < 1 {
			if terminate >= probability {
				return DirectLight{}, false
			}
			eval = eval.Scale(1 / probability)
		}
	}

	return DirectLight{
		Eval:       eval,
		ShadowRay:  shadowRay(si, ls),
		ShadowDist: shadowDistance(si, ls),
		IsLamp:     ls.Type != lights.LightTypeArea,
	}, true
}

// shadowRay starts on the side of the surface facing the light
func shadowRay(si *material.SurfaceInteraction, ls lights.LightSample) core.Ray {
	ng := si.GeomNormal
	if ls.Direction.Dot(ng) < 0 {
		ng = ng.Negate()
	}
	return core.NewRay(core.OffsetRayOrigin(si.Point, ng), ls.Direction)
}

// shadowDistance stops the shadow ray just short of the sampled point so the
// light's own surface doesn't occlude it
func shadowDistance(si *material.SurfaceInteraction, ls lights.LightSample) float64 {
	if math.IsInf(ls.Distance, 1) {
		return math.Inf(1)
	}
	return math.Max(0, ls.Distance-2e-4)
}
