package material

import "fmt"

// Lobe is the kind of scattering event a sample came from
type Lobe uint8

const (
	LobeNone        Lobe = iota // no valid sample
	LobeDiffuse                 // wide, evaluable lobe
	LobeGlossy                  // narrow, evaluable lobe
	LobeSingular                // delta distribution, cannot be evaluated
	LobeTransparent             // straight pass-through
)

func (l Lobe) String() string {
	switch l {
	case LobeNone:
		return "none"
	case LobeDiffuse:
		return "diffuse"
	case LobeGlossy:
		return "glossy"
	case LobeSingular:
		return "singular"
	case LobeTransparent:
		return "transparent"
	}
	return fmt.Sprintf("Lobe(%d)", uint8(l))
}

// Label tags a BSDF sample with its lobe and whether it crossed the surface
type Label struct {
	Lobe     Lobe
	Transmit bool
}

// Reflect and Transmit build labels for the two hemispheres
func Reflect(lobe Lobe) Label  { return Label{Lobe: lobe} }
func Transmit(lobe Lobe) Label { return Label{Lobe: lobe, Transmit: true} }

func (l Label) IsNone() bool        { return l.Lobe == LobeNone }
func (l Label) IsSingular() bool    { return l.Lobe == LobeSingular }
func (l Label) IsTransparent() bool { return l.Lobe == LobeTransparent }

// Channel returns the radiance channel a bounce with this label feeds
func (l Label) Channel() Channel {
	switch {
	case l.Transmit:
		return ChannelTransmission
	case l.Lobe == LobeDiffuse:
		return ChannelDiffuse
	default:
		return ChannelGlossy
	}
}

func (l Label) String() string {
	if l.Transmit {
		return l.Lobe.String() + "|transmit"
	}
	return l.Lobe.String() + "|reflect"
}
