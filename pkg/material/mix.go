package material

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// Mix blends two materials: (1-Ratio)*Material1 + Ratio*Material2
type Mix struct {
	Material1 Material
	Material2 Material
	Ratio     float64 // 0.0 = all material1, 1.0 = all material2
}

// NewMix creates a new mix material
func NewMix(material1, material2 Material, ratio float64) *Mix {
	// Clamp ratio to valid range
	ratio = math.Max(0.0, math.Min(ratio, 1.0))

	return &Mix{
		Material1: material1,
		Material2: material2,
		Ratio:     ratio,
	}
}

// Evaluate weights both evaluations and pdfs by the mix ratio
func (m *Mix) Evaluate(si *SurfaceInteraction, wo, wi core.Vec3) (Eval, float64) {
	eval1, pdf1 := m.Material1.Evaluate(si, wo, wi)
	eval2, pdf2 := m.Material2.Evaluate(si, wo, wi)
	eval := eval1.Scale(1 - m.Ratio).Add(eval2.Scale(m.Ratio))
	return eval, (1-m.Ratio)*pdf1 + m.Ratio*pdf2
}

// Sample picks a component with probability equal to its weight, reusing u.
// Evaluable samples are re-evaluated against the whole mix; singular ones keep
// their value/pdf ratio.
func (m *Mix) Sample(si *SurfaceInteraction, wo core.Vec3, u, v float64) Sample {
	var sample Sample
	weight := m.Ratio
	if u < m.Ratio {
		sample = m.Material2.Sample(si, wo, u/m.Ratio, v)
	} else {
		weight = 1 - m.Ratio
		sample = m.Material1.Sample(si, wo, (u-m.Ratio)/(1-m.Ratio), v)
	}

	if !sample.Valid() {
		return Sample{}
	}
	if sample.Label.IsSingular() || sample.Label.IsTransparent() {
		sample.Value = sample.Value.Scale(weight)
		sample.PDF *= weight
		return sample
	}

	sample.Value, sample.PDF = m.Evaluate(si, wo, sample.Direction)
	if sample.PDF == 0 {
		return Sample{}
	}
	return sample
}

// HasEval is true when either component has an evaluable lobe
func (m *Mix) HasEval() bool {
	return m.Material1.HasEval() || m.Material2.HasEval()
}

// Class implements Classifier with the class of the heavier component
func (m *Mix) Class() Label {
	dominant := m.Material1
	if m.Ratio > 0.5 {
		dominant = m.Material2
	}
	if c, ok := dominant.(Classifier); ok {
		return c.Class()
	}
	return Reflect(LobeDiffuse)
}
