package geometry

import (
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool)
	BoundingBox() core.AABB
}

// Tagged shapes carry scene identifiers into their hit records
type Tagged interface {
	SetTag(tag Tag)
}

// Tag identifies a shape in its scene. LightID is -1 for shapes that are not
// the surface of a light.
type Tag struct {
	ObjectID int
	LightID  int
}

// NewTag returns the tag of an untracked, non-emitting shape
func NewTag() Tag {
	return Tag{ObjectID: -1, LightID: -1}
}

// SetTag implements Tagged
func (t *Tag) SetTag(tag Tag) {
	*t = tag
}

func (t Tag) stamp(si *material.SurfaceInteraction) {
	si.ObjectID = t.ObjectID
	si.LightID = t.LightID
}
