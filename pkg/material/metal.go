package material

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// Metal represents a metallic material. A zero fuzzness is a perfect mirror,
// anything above spreads the reflection uniformly over a cone around the mirror
// direction whose half-angle grows with fuzzness.
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	// Clamp fuzzness to valid range
	fuzzness = math.Max(0.0, math.Min(fuzzness, 1.0))
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}
}

func (m *Metal) cosTotalWidth() float64 {
	return 1.0 - m.Fuzzness
}

// conePDF is the solid angle density of uniform sampling inside the lobe
func (m *Metal) conePDF() float64 {
	return 1.0 / (2.0 * math.Pi * m.Fuzzness)
}

// Evaluate returns the glossy lobe value. A mirror cannot be evaluated.
func (m *Metal) Evaluate(si *SurfaceInteraction, wo, wi core.Vec3) (Eval, float64) {
	if m.Fuzzness == 0 || wi.Dot(si.Normal) <= 0 {
		return Eval{}, 0
	}
	reflected := reflect(wo, si.Normal)
	if wi.Dot(reflected) < m.cosTotalWidth() {
		return Eval{}, 0
	}
	pdf := m.conePDF()
	return NewEval(ChannelGlossy, m.Albedo.Multiply(pdf)), pdf
}

// Sample reflects wo about the normal, perturbed inside the lobe
func (m *Metal) Sample(si *SurfaceInteraction, wo core.Vec3, u, v float64) Sample {
	reflected := reflect(wo, si.Normal)
	differential := si.Differential.Reflect(si.Normal)

	if m.Fuzzness == 0 {
		if reflected.Dot(si.Normal) <= 0 {
			return Sample{}
		}
		return Sample{
			Direction:    reflected,
			Differential: differential,
			Value:        NewEval(ChannelGlossy, m.Albedo),
			PDF:          1,
			Label:        Reflect(LobeSingular),
		}
	}

	direction := core.SampleCone(reflected, m.cosTotalWidth(), core.NewVec2(u, v)).Normalize()
	value, pdf := m.Evaluate(si, wo, direction)
	if pdf == 0 {
		// Perturbed below the surface, absorbed
		return Sample{}
	}
	return Sample{
		Direction:    direction,
		Differential: differential,
		Value:        value,
		PDF:          pdf,
		Label:        Reflect(LobeGlossy),
	}
}

// HasEval is false for a perfect mirror
func (m *Metal) HasEval() bool {
	return m.Fuzzness > 0
}

// reflect mirrors the outgoing direction wo about n
func reflect(wo, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * wo.Dot(n)).Subtract(wo)
}

// Class implements Classifier
func (m *Metal) Class() Label {
	if m.HasEval() {
		return Reflect(LobeGlossy)
	}
	return Reflect(LobeSingular)
}
