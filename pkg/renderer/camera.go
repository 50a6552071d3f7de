package renderer

import (
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/scene"
)

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a pinhole camera looking from cfg.LookFrom to cfg.LookAt.
// A zero aspect ratio or field of view falls back to 1 and 40 degrees.
func NewCamera(cfg scene.CameraConfig) *Camera {
	aspectRatio := cfg.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = 1
	}
	vfov := cfg.VFov
	if vfov <= 0 {
		vfov = 40
	}
	up := cfg.Up
	if up.IsZero() {
		up = core.NewVec3(0, 1, 0)
	}

	theta := vfov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2)
	viewportWidth := aspectRatio * viewportHeight

	// Orthonormal camera basis
	w := cfg.LookFrom.Subtract(cfg.LookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := cfg.LookFrom
	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
// and t grows upwards
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction.Normalize())
}

// PixelRay returns the ray through pixel (x, y) of a width x height image,
// offset by (dx, dy) in [0,1)^2 within the pixel. Row 0 is the top of the image.
func (c *Camera) PixelRay(x, y, width, height int, dx, dy float64) core.Ray {
	s := (float64(x) + dx) / float64(width)
	t := 1 - (float64(y)+dy)/float64(height)
	return c.GetRay(s, t)
}
