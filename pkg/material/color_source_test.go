package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func TestChecker_Alternates(t *testing.T) {
	checker := NewChecker(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0), 1)
	assert.Equal(t, core.NewVec3(1, 1, 1), checker.Evaluate(core.NewVec3(0.5, 0.5, 0.5)))
	assert.Equal(t, core.NewVec3(0, 0, 0), checker.Evaluate(core.NewVec3(1.5, 0.5, 0.5)))
	assert.False(t, math.IsNaN(checker.Evaluate(core.NewVec3(-0.5, 0, 0)).X))
}
