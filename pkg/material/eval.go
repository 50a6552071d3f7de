package material

import "github.com/df07/go-lighttree-raytracer/pkg/core"

// Channel is one of the radiance passes BSDF contributions are sorted into
type Channel uint8

const (
	ChannelDiffuse Channel = iota
	ChannelGlossy
	ChannelTransmission
)

// Eval is a BSDF value split by channel
type Eval struct {
	Diffuse      core.Vec3
	Glossy       core.Vec3
	Transmission core.Vec3
}

// NewEval puts value into a single channel
func NewEval(channel Channel, value core.Vec3) Eval {
	var e Eval
	e.add(channel, value)
	return e
}

func (e *Eval) add(channel Channel, value core.Vec3) {
	switch channel {
	case ChannelDiffuse:
		e.Diffuse = e.Diffuse.Add(value)
	case ChannelGlossy:
		e.Glossy = e.Glossy.Add(value)
	case ChannelTransmission:
		e.Transmission = e.Transmission.Add(value)
	}
}

// Sum collapses the channels
func (e Eval) Sum() core.Vec3 {
	return e.Diffuse.Add(e.Glossy).Add(e.Transmission)
}

// IsZero reports whether every channel is black
func (e Eval) IsZero() bool {
	return e.Diffuse.IsZero() && e.Glossy.IsZero() && e.Transmission.IsZero()
}

// Scale multiplies every channel by s
func (e Eval) Scale(s float64) Eval {
	return Eval{
		Diffuse:      e.Diffuse.Multiply(s),
		Glossy:       e.Glossy.Multiply(s),
		Transmission: e.Transmission.Multiply(s),
	}
}

// MultiplyVec multiplies every channel component-wise by c
func (e Eval) MultiplyVec(c core.Vec3) Eval {
	return Eval{
		Diffuse:      e.Diffuse.MultiplyVec(c),
		Glossy:       e.Glossy.MultiplyVec(c),
		Transmission: e.Transmission.MultiplyVec(c),
	}
}

// Add sums two evaluations channel by channel
func (e Eval) Add(other Eval) Eval {
	return Eval{
		Diffuse:      e.Diffuse.Add(other.Diffuse),
		Glossy:       e.Glossy.Add(other.Glossy),
		Transmission: e.Transmission.Add(other.Transmission),
	}
}
