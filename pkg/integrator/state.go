package integrator

import (
	"math"
	"strings"

	"github.com/df07/go-lighttree-raytracer/pkg/config"
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// Flags describe the last event of a path
type Flags uint16

const (
	FlagCamera Flags = 1 << iota
	FlagReflect
	FlagTransmit
	FlagDiffuse
	FlagGlossy
	FlagSingular
	FlagTransparent
	FlagMISSkip // emitters hit next are not weighted against light sampling
	FlagShadowCatcher
	FlagTerminateImmediate
	FlagTerminateAfterTransparent
)

var flagNames = []string{
	"camera", "reflect", "transmit", "diffuse", "glossy", "singular",
	"transparent", "mis_skip", "shadow_catcher", "terminate", "terminate_after_transparent",
}

// Has reports whether every bit of mask is set
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

func (f Flags) String() string {
	var names []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Status of a path
type Status uint8

const (
	StatusActive Status = iota
	StatusTerminated
)

func (s Status) String() string {
	if s == StatusTerminated {
		return "terminated"
	}
	return "active"
}

// lightStrategy records how the last light connection picked its lights, so
// that emitters later hit by BSDF sampling get the matching MIS pdf.
type lightStrategy uint8

const (
	strategySingle   lightStrategy = iota // one light, tree traversed without splitting
	strategySplit                         // tree traversed with splitting
	strategyAll                           // every light sampled
)

// PathState is the mutable state of one path. It is owned by that path alone
// and copied by value when a path branches.
type PathState struct {
	Bounce             int
	DiffuseBounce      int
	GlossyBounce       int
	TransmissionBounce int
	TransparentBounce  int
	VolumeBoundsBounce int

	RayPDF    float64 // pdf of the last non-transparent BSDF sample
	MinRayPDF float64 // smallest such pdf along the path
	RayT      float64 // distance travelled since the last non-transparent bounce

	// Position and normal of the last non-transparent bounce, where lights
	// were sampled from.
	LastP, LastN core.Vec3
	strategy     lightStrategy

	BranchFactor float64
	Flags        Flags
	Status       Status
	RNG          RNG
	Volumes      VolumeStack
}

// NewPathState starts a camera path
func NewPathState(rng RNG) PathState {
	return PathState{
		MinRayPDF:    math.Inf(1),
		BranchFactor: 1,
		Flags:        FlagCamera | FlagMISSkip,
		Status:       StatusActive,
		RNG:          rng,
	}
}

// Next records a scattering event with the given label and advances the random
// stream. Transparent events don't count as bounces.
func (s *PathState) Next(label material.Label, cfg config.IntegratorConfig) {
	s.RNG.advance()

	if label.IsTransparent() {
		s.Flags |= FlagTransparent
		s.TransparentBounce++
		if s.TransparentBounce >= cfg.MaxTransparentBounce {
			s.Flags |= FlagTerminateImmediate
		}
		return
	}

	s.Bounce++
	if s.Bounce >= cfg.MaxBounce {
		s.Flags |= FlagTerminateAfterTransparent
	}

	s.Flags &^= FlagCamera | FlagReflect | FlagTransmit | FlagDiffuse | FlagGlossy |
		FlagSingular | FlagTransparent | FlagMISSkip

	if label.Transmit {
		s.Flags |= FlagTransmit
		s.TransmissionBounce++
		if s.TransmissionBounce >= cfg.MaxTransmissionBounce {
			s.Flags |= FlagTerminateAfterTransparent
		}
	} else {
		s.Flags |= FlagReflect
	}

	switch label.Lobe {
	case material.LobeDiffuse:
		s.Flags |= FlagDiffuse
		s.DiffuseBounce++
		if s.DiffuseBounce >= cfg.MaxDiffuseBounce {
			s.Flags |= FlagTerminateAfterTransparent
		}
	case material.LobeGlossy:
		s.Flags |= FlagGlossy
		s.GlossyBounce++
		if s.GlossyBounce >= cfg.MaxGlossyBounce {
			s.Flags |= FlagTerminateAfterTransparent
		}
	case material.LobeSingular:
		s.Flags |= FlagSingular | FlagMISSkip
	}
}

// VolumeNext records crossing a surface that only bounds a volume. It reports
// false once too many boundaries have been crossed.
func (s *PathState) VolumeNext() bool {
	if s.VolumeBoundsBounce > maxVolumeBoundsBounce {
		return false
	}
	s.VolumeBoundsBounce++
	s.RNG.advance()
	return true
}

// Branch turns the state into sub-path j of num
func (s *PathState) Branch(j, num int) {
	s.RNG.branch(j, num)
	s.BranchFactor *= float64(num)
}

// ContinuationProbability is the probability of keeping the path alive at this
// vertex. 0 ends the path and 1 means no Russian roulette.
func (s *PathState) ContinuationProbability(throughput core.Vec3, cfg config.IntegratorConfig) float64 {
	switch {
	case s.Flags.Has(FlagTerminateImmediate):
		return 0
	case s.Flags.Has(FlagTransparent):
		return 1
	case s.Bounce <= cfg.MinBounceRR:
		return 1
	case s.Flags.Has(FlagShadowCatcher):
		return 1
	}
	return math.Min(math.Sqrt(throughput.MaxComponent()*s.BranchFactor), 1)
}

// Terminate marks the path as finished
func (s *PathState) Terminate() {
	s.Status = StatusTerminated
}

const (
	volumeStackSize       = 32
	maxVolumeBoundsBounce = 64
)

// VolumeStack lists the objects whose interior the path is currently inside.
// It has fixed capacity so that copies of a PathState stay independent.
type VolumeStack struct {
	objects [volumeStackSize]int
	n       int
}

// EnterExit updates the stack for a path crossing the surface in si: entering
// through a front face, leaving through a back face. Surfaces that bound no
// volume are ignored.
func (vs *VolumeStack) EnterExit(si *material.SurfaceInteraction) {
	if _, ok := si.Material.(material.VolumeBoundary); !ok {
		return
	}

	if !si.FrontFace {
		for i := 0; i < vs.n; i++ {
			if vs.objects[i] == si.ObjectID {
				copy(vs.objects[i:vs.n], vs.objects[i+1:vs.n])
				vs.n--
				return
			}
		}
		return
	}

	for i := 0; i < vs.n; i++ {
		if vs.objects[i] == si.ObjectID {
			return
		}
	}
	if vs.n < volumeStackSize {
		vs.objects[vs.n] = si.ObjectID
		vs.n++
	}
}

// Objects returns the object ids on the stack, innermost last
func (vs *VolumeStack) Objects() []int {
	return append([]int(nil), vs.objects[:vs.n]...)
}

// Len returns the depth of the stack
func (vs *VolumeStack) Len() int {
	return vs.n
}
