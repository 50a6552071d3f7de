package material

import (
	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// Transparent lets paths and shadow rays straight through, tinted by
// Transmittance. It counts as a transparent bounce, not a scattering event.
type Transparent struct {
	Transmittance core.Vec3
}

// NewTransparent creates a new transparent material
func NewTransparent(transmittance core.Vec3) *Transparent {
	return &Transparent{Transmittance: transmittance}
}

// Evaluate is zero, the only lobe is a pass-through
func (t *Transparent) Evaluate(si *SurfaceInteraction, wo, wi core.Vec3) (Eval, float64) {
	return Eval{}, 0
}

// Sample continues the path in the incoming direction
func (t *Transparent) Sample(si *SurfaceInteraction, wo core.Vec3, u, v float64) Sample {
	return Sample{
		Direction:    wo.Negate(),
		Differential: core.Differential{DX: si.Differential.DX.Negate(), DY: si.Differential.DY.Negate()},
		Value:        NewEval(ChannelTransmission, t.Transmittance),
		PDF:          1,
		Label:        Transmit(LobeTransparent),
	}
}

// HasEval is false
func (t *Transparent) HasEval() bool {
	return false
}

// ShadowTransmittance implements ShadowTransmitter
func (t *Transparent) ShadowTransmittance(si *SurfaceInteraction) core.Vec3 {
	return t.Transmittance
}

// Boundary marks the surface of a participating medium. Paths cross it
// unchanged and the volume stack records the crossing.
type Boundary struct{}

// NewBoundary creates a volume boundary material
func NewBoundary() *Boundary {
	return &Boundary{}
}

func (b *Boundary) Evaluate(si *SurfaceInteraction, wo, wi core.Vec3) (Eval, float64) {
	return Eval{}, 0
}

func (b *Boundary) Sample(si *SurfaceInteraction, wo core.Vec3, u, v float64) Sample {
	return Sample{}
}

func (b *Boundary) HasEval() bool { return false }

// VolumeOnly implements VolumeBoundary
func (b *Boundary) VolumeOnly() bool { return true }

// ShadowTransmittance implements ShadowTransmitter, boundaries don't block light
func (b *Boundary) ShadowTransmittance(si *SurfaceInteraction) core.Vec3 {
	return core.NewVec3(1, 1, 1)
}

// Class implements Classifier
func (t *Transparent) Class() Label {
	return Transmit(LobeTransparent)
}
