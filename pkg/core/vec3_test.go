package core

import (
	"math"
	"testing"
)

func TestVec3_Basics(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	if got := a.Add(b); got != NewVec3(5, -3, 9) {
		t.Errorf("Add: expected (5,-3,9), got %v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot: expected 12, got %f", got)
	}
	if got := a.Cross(b); got != NewVec3(27, 6, -13) {
		t.Errorf("Cross: expected (27,6,-13), got %v", got)
	}
	if got := a.Min(b); got != NewVec3(1, -5, 3) {
		t.Errorf("Min: expected (1,-5,3), got %v", got)
	}
	if got := a.Max(b); got != NewVec3(4, 2, 6) {
		t.Errorf("Max: expected (4,2,6), got %v", got)
	}
	if got := b.MaxComponent(); got != 6 {
		t.Errorf("MaxComponent: expected 6, got %f", got)
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("Expected zero vector, got %v", got)
	}
	if got := NewVec3(3, 0, 4).Normalize(); math.Abs(got.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", got.Length())
	}
}

func TestOffsetRayOrigin(t *testing.T) {
	p := NewVec3(0, 0, 0)
	n := NewVec3(0, 1, 0)

	above := OffsetRayOrigin(p, n)
	below := OffsetRayOrigin(p, n.Negate())
	if above.Y <= 0 || below.Y >= 0 {
		t.Errorf("Expected offsets on opposite sides, got %v and %v", above, below)
	}
}
