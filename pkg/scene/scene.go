package scene

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/df07/go-lighttree-raytracer/pkg/config"
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/geometry"
	"github.com/df07/go-lighttree-raytracer/pkg/integrator"
	"github.com/df07/go-lighttree-raytracer/pkg/lights"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// ErrNotBuilt is returned when a scene is queried before Build
var ErrNotBuilt = errors.New("scene: not built")

// maxShadowHits bounds the surfaces a shadow ray may pass through
const maxShadowHits = 64

// shadowEpsilon is the minimum distance of a shadow hit from the ray origin
const shadowEpsilon = 1e-4

// CameraConfig places the camera of a scene
type CameraConfig struct {
	LookFrom    core.Vec3
	LookAt      core.Vec3
	Up          core.Vec3
	VFov        float64 // vertical field of view in degrees
	AspectRatio float64 // width / height
}

// Scene contains all the elements needed for rendering. Shapes and lights are
// added first; Build then assigns ids, builds the BVH and the light set.
// A built scene is read-only and safe for concurrent queries.
type Scene struct {
	Name   string
	Camera CameraConfig
	Shapes []geometry.Shape // Objects in the scene, light surfaces included
	Lights []lights.Light   // Lights in the scene, indexed by light id

	BVH      *geometry.BVH // Acceleration structure for ray-object intersection
	LightSet *lights.Set
}

// New creates an empty scene
func New(name string, camera CameraConfig) *Scene {
	return &Scene{Name: name, Camera: camera}
}

// Add adds shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// AddLight adds a light. Lights with a surface are added as shapes too.
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
	if shape, ok := light.(geometry.Shape); ok {
		s.Shapes = append(s.Shapes, shape)
	}
}

// AddQuadLight adds a rectangular area light emitting from the side u x v points to
func (s *Scene) AddQuadLight(corner, u, v, emission core.Vec3) *lights.QuadLight {
	light := lights.NewQuadLight(corner, u, v, material.NewEmissive(emission))
	s.AddLight(light)
	return light
}

// AddSphereLight adds a spherical area light
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) *lights.SphereLight {
	light := lights.NewSphereLight(center, radius, material.NewEmissive(emission))
	s.AddLight(light)
	return light
}

// NewGroundQuad creates a horizontal quad centered at center, facing up
func NewGroundQuad(center core.Vec3, size float64, mat material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u x v = (0,0,size) x (size,0,0) points up
	return geometry.NewQuad(corner, core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0), mat)
}

// Build tags every shape with its object id, and light surfaces with their
// light id, then builds the BVH and the light set.
func (s *Scene) Build(cfg config.IntegratorConfig, logger logrus.FieldLogger) error {
	lightIDs := make(map[geometry.Shape]int, len(s.Lights))
	for id, light := range s.Lights {
		if shape, ok := light.(geometry.Shape); ok {
			lightIDs[shape] = id
		}
	}

	for i, shape := range s.Shapes {
		tagged, ok := shape.(geometry.Tagged)
		if !ok {
			continue
		}
		lightID, isLight := lightIDs[shape]
		if !isLight {
			lightID = -1
		}
		tagged.SetTag(geometry.Tag{ObjectID: i, LightID: lightID})
	}

	s.BVH = geometry.NewBVH(s.Shapes)

	set, err := lights.NewSet(s.Lights, lights.SetOptions{
		UseLightTree: cfg.UseLightTree,
		WorldCenter:  s.BVH.Center,
		WorldRadius:  s.BVH.Radius,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	s.LightSet = set

	if logger != nil {
		stats := s.BVH.Stats()
		logger.WithFields(logrus.Fields{
			"scene":      s.Name,
			"shapes":     len(s.Shapes),
			"lights":     len(s.Lights),
			"bvh_leaves": stats.LeafNodes,
			"bvh_depth":  stats.MaxDepth,
		}).Debug("scene built")
	}
	return nil
}

// Kernel returns the shading kernel over this scene. The scene must be built.
func (s *Scene) Kernel(cfg config.IntegratorConfig) (*integrator.Kernel, error) {
	if s.BVH == nil || s.LightSet == nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, ErrNotBuilt)
	}
	return integrator.NewKernel(cfg, s, s.LightSet), nil
}

// Intersect implements integrator.Scene
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	return s.BVH.Hit(ray, tMin, tMax)
}

// TraceShadow implements integrator.Scene. Shadow rays pass through surfaces
// whose material is a ShadowTransmitter, picking up its transmittance.
func (s *Scene) TraceShadow(ray core.Ray, tMax float64) integrator.Visibility {
	transmittance := core.NewVec3(1, 1, 1)
	remaining := tMax

	for i := 0; i < maxShadowHits; i++ {
		si, hit := s.BVH.Hit(ray, shadowEpsilon, remaining)
		if !hit {
			return integrator.Visibility{Transmittance: transmittance}
		}

		transmitter, ok := si.Material.(material.ShadowTransmitter)
		if !ok {
			return integrator.Visibility{Occluded: true}
		}
		transmittance = transmittance.MultiplyVec(transmitter.ShadowTransmittance(si))
		if transmittance.IsZero() {
			return integrator.Visibility{Occluded: true}
		}

		// continue from the far side of the surface
		ray = core.NewRay(core.OffsetRayOrigin(si.Point, si.GeomNormal.Negate()), ray.Direction)
		remaining -= si.T
	}
	return integrator.Visibility{Occluded: true}
}

// PrimitiveCount returns the number of shapes in the scene
func (s *Scene) PrimitiveCount() int {
	return len(s.Shapes)
}
