package scene

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/geometry"
	"github.com/df07/go-lighttree-raytracer/pkg/lights"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH -> OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB -> LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS -> linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// LightGridOptions configures NewLightGridScene
type LightGridOptions struct {
	GridSize   int     // lights per side
	Spacing    float64 // distance between neighbouring lights
	Height     float64 // height of the light plane above the ground
	WithSun    bool    // add a distant light
	WithSky    bool    // add a background light
	WithPoints bool    // replace some quad lights by point and sphere lights
	Catcher    bool    // make the ground a shadow catcher
}

// DefaultLightGridOptions returns a 12x12 grid with sun and sky
func DefaultLightGridOptions() LightGridOptions {
	return LightGridOptions{
		GridSize: 12,
		Spacing:  1.5,
		Height:   2.5,
		WithSun:  true,
		WithSky:  true,
	}
}

// NewLightGridScene creates a ground plane under a grid of small colored quad
// lights of varying strength, with a few objects casting shadows. Most of the
// lights contribute little to any given point, the case the light tree is for.
func NewLightGridScene(opts LightGridOptions) *Scene {
	n := max(opts.GridSize, 1)
	extent := float64(n-1) * opts.Spacing

	s := New("lightgrid", CameraConfig{
		LookFrom:    core.NewVec3(extent/2, extent*0.6+3, extent+6),
		LookAt:      core.NewVec3(extent/2, 0, extent/2),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45,
		AspectRatio: 16.0 / 9.0,
	})

	var groundMat material.Material = material.NewTexturedLambertian(
		material.NewChecker(core.NewVec3(0.55, 0.55, 0.55), core.NewVec3(0.35, 0.35, 0.38), opts.Spacing),
	)
	if opts.Catcher {
		groundMat = material.NewShadowCatcher(groundMat)
	}
	s.Add(NewGroundQuad(core.NewVec3(extent/2, 0, extent/2), extent+10, groundMat))

	lightSize := opts.Spacing * 0.3
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := float64(i) * opts.Spacing
			z := float64(j) * opts.Spacing

			hue := float64(i) / float64(max(n-1, 1)) * 360
			chroma := 0.05 + 0.2*float64(j)/float64(max(n-1, 1))
			strength := 2 + 6*(0.5+0.5*math.Sin(float64(i*n+j)*0.7))
			emission := oklchToRGB(0.75, chroma, hue).Multiply(strength)

			if opts.WithPoints {
				switch (i + j) % 4 {
				case 0:
					s.AddLight(lights.NewPointLight(core.NewVec3(x, opts.Height, z), emission.Multiply(lightSize*lightSize)))
					continue
				case 2:
					s.AddSphereLight(core.NewVec3(x, opts.Height, z), lightSize/2, emission)
					continue
				}
			}
			// u x v points down
			s.AddQuadLight(
				core.NewVec3(x-lightSize/2, opts.Height, z-lightSize/2),
				core.NewVec3(lightSize, 0, 0),
				core.NewVec3(0, 0, lightSize),
				emission,
			)
		}
	}

	// shadow casters
	center := core.NewVec3(extent/2, 0, extent/2)
	boxMat := material.NewMix(material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7)), material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.3), 0.3)
	s.Add(
		geometry.NewBox(center.Add(core.NewVec3(-2, 0.5, 0)), core.NewVec3(0.5, 0.5, 0.5), 0.4, boxMat),
		geometry.NewSphere(center.Add(core.NewVec3(0, 0.6, 0)), 0.6, material.NewMetal(core.NewVec3(0.9, 0.85, 0.8), 0.15)),
		geometry.NewSphere(center.Add(core.NewVec3(2, 0.6, 0)), 0.6, material.NewDielectric(1.5)),
		geometry.NewQuad(center.Add(core.NewVec3(-1, 0, 2)), core.NewVec3(2, 0, 0), core.NewVec3(0, 1.2, 0), material.NewTransparent(core.NewVec3(0.8, 0.4, 0.4))),
	)

	if opts.WithSun {
		s.AddLight(lights.NewDistantLight(core.NewVec3(-0.3, -1, -0.4), core.NewVec3(0.6, 0.55, 0.5), 0.05))
	}
	if opts.WithSky {
		s.AddLight(lights.NewBackgroundLight(core.NewVec3(0.05, 0.07, 0.12), core.NewVec3(0.01, 0.01, 0.01)))
	}
	return s
}
