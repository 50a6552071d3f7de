package material

import (
	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// Emissive represents a light-emitting material. It emits from its front face
// only unless TwoSided is set, and never scatters.
type Emissive struct {
	Emission core.Vec3 // Emitted light color/intensity
	TwoSided bool
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// Emit returns the emitted light for this material
func (e *Emissive) Emit(si *SurfaceInteraction, wo core.Vec3) core.Vec3 {
	if si != nil && !si.FrontFace && !e.TwoSided {
		return core.Vec3{}
	}
	return e.Emission
}

// Evaluate is zero, lights don't reflect
func (e *Emissive) Evaluate(si *SurfaceInteraction, wo, wi core.Vec3) (Eval, float64) {
	return Eval{}, 0
}

// Sample absorbs the path
func (e *Emissive) Sample(si *SurfaceInteraction, wo core.Vec3, u, v float64) Sample {
	return Sample{}
}

// HasEval is false
func (e *Emissive) HasEval() bool {
	return false
}
