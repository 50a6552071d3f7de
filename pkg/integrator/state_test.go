package integrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

func TestVolumeStack_EnterExit(t *testing.T) {
	boundary := material.NewBoundary()
	kernel := NewKernel(testConfig(), &shadowScene{}, lightRow(t, 1, false))
	state := NewPathState(NewRNG(1, 0, 1))
	throughput := core.NewVec3(1, 1, 1)
	var L PathRadiance

	enter := floorHit(boundary)
	enter.ObjectID = 7
	ray := NewPathRay(core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0)))
	require.True(t, kernel.SurfaceBounce(enter, core.NewVec3(0, 1, 0), &throughput, &state, &L, &ray))
	assert.Equal(t, []int{7}, state.Volumes.Objects())
	assert.Equal(t, core.NewVec3(0, -1, 0), ray.Direction)
	assert.Equal(t, 1, state.VolumeBoundsBounce)

	copied := state
	exit := floorHit(boundary)
	exit.ObjectID = 7
	exit.FrontFace = false
	require.True(t, kernel.SurfaceBounce(exit, core.NewVec3(0, 1, 0), &throughput, &state, &L, &ray))
	assert.Zero(t, state.Volumes.Len())
	assert.Equal(t, []int{7}, copied.Volumes.Objects(), "copies don't share the stack")
}

func TestPathState_NextAndContinuation(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBounce = 2
	cfg.MinBounceRR = 0
	cfg.MaxTransparentBounce = 1

	state := NewPathState(NewRNG(1, 0, 1))
	assert.Equal(t, 1.0, state.ContinuationProbability(core.NewVec3(0.01, 0.01, 0.01), cfg))

	state.Next(material.Reflect(material.LobeSingular), cfg)
	assert.True(t, state.Flags.Has(FlagSingular|FlagMISSkip))
	assert.InDelta(t, 0.5, state.ContinuationProbability(core.NewVec3(0.25, 0.1, 0), cfg), 1e-12)

	state.Next(material.Reflect(material.LobeGlossy), cfg)
	assert.Equal(t, 2, state.Bounce)
	assert.True(t, state.Flags.Has(FlagTerminateAfterTransparent))
	assert.False(t, state.Flags.Has(FlagMISSkip))

	state.Next(material.Transmit(material.LobeTransparent), cfg)
	assert.True(t, state.Flags.Has(FlagTerminateImmediate))
	assert.Zero(t, state.ContinuationProbability(core.NewVec3(1, 1, 1), cfg))
	assert.Equal(t, "glossy|transparent|terminate|terminate_after_transparent", (state.Flags &^ FlagReflect).String())
}
