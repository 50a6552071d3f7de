package lights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

func TestDistantLight_DeltaAndDisc(t *testing.T) {
	sun := NewDistantLight(core.NewVec3(0, -1, 0), core.NewVec3(3, 3, 3), 0)
	ls := sun.Sample(core.NewVec3(0, 0, 0), core.NewVec2(0.5, 0.5))
	assert.True(t, ls.Delta)
	assert.Equal(t, core.NewVec3(0, 1, 0), ls.Direction)
	assert.True(t, math.IsInf(ls.Distance, 1))
	assert.True(t, sun.Emit(core.NewVec3(0, 1, 0)).IsZero())

	disc := NewDistantLight(core.NewVec3(0, -1, 0), core.NewVec3(3, 3, 3), 0.1)
	ls = disc.Sample(core.NewVec3(0, 0, 0), core.NewVec2(0.2, 0.8))
	assert.False(t, ls.Delta)
	assert.InDelta(t, ls.PDF, disc.PDF(core.Vec3{}, ls.Direction), 1e-9)
	// irradiance from the disc integrates to the strength
	assertVec := ls.Emission.Multiply(1 / ls.PDF)
	assert.InDelta(t, 3.0, assertVec.X, 1e-9)

	require.NoError(t, disc.Preprocess(core.Vec3{}, 10))
	assert.InDelta(t, math.Pi*100*3, disc.Power(), 1e-9)
}
