package core

import "math"

// OrthonormalBasis returns two unit vectors perpendicular to n and to each other
func OrthonormalBasis(n Vec3) (Vec3, Vec3) {
	helper := NewVec3(1, 0, 0)
	if math.Abs(n.X) > 0.1 {
		helper = NewVec3(0, 1, 0)
	}
	tangent := helper.Cross(n).Normalize()
	return tangent, n.Cross(tangent)
}

// fromLocal maps (x, y, z) in the frame whose z axis is axis to world space
func fromLocal(axis Vec3, x, y, z float64) Vec3 {
	tangent, bitangent := OrthonormalBasis(axis)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(axis.Multiply(z))
}

// SampleCosineHemisphere maps sample to a cosine-weighted direction around
// normal. The pdf is cos(theta)/pi.
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	r := math.Sqrt(sample.Y)
	phi := 2 * math.Pi * sample.X
	return fromLocal(normal, r*math.Cos(phi), r*math.Sin(phi), math.Sqrt(1-sample.Y))
}

// SampleCone maps sample to a direction uniformly inside the cone around
// direction whose half-angle has cosine cosTotalWidth.
func SampleCone(direction Vec3, cosTotalWidth float64, sample Vec2) Vec3 {
	cosTheta := 1 - sample.X*(1-cosTotalWidth)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * sample.Y
	return fromLocal(direction, sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// SampleOnUnitSphere maps sample to a uniform direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1 - 2*sample.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// PowerHeuristic is the beta=2 MIS weight of strategy f against strategy g
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	if f == 0 {
		return 0
	}
	g := float64(ng) * gPdf
	return f * f / (f*f + g*g)
}
