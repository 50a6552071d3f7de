package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func TestClassifier(t *testing.T) {
	tests := []struct {
		name     string
		material Classifier
		expected Label
	}{
		{"lambertian", NewLambertian(core.NewVec3(1, 1, 1)), Reflect(LobeDiffuse)},
		{"mirror", NewMetal(core.NewVec3(1, 1, 1), 0), Reflect(LobeSingular)},
		{"brushed", NewMetal(core.NewVec3(1, 1, 1), 0.2), Reflect(LobeGlossy)},
		{"glass", NewDielectric(1.5), Transmit(LobeSingular)},
		{"mostly mirror", NewMix(NewLambertian(core.NewVec3(1, 1, 1)), NewMetal(core.NewVec3(1, 1, 1), 0), 0.8), Reflect(LobeSingular)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.material.Class())
		})
	}
}
