package geometry

import (
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Multiple shapes for leaf nodes (nil for internal nodes)
}

// BVH is a bounding volume hierarchy over scene shapes for closest-hit queries
type BVH struct {
	Root   *BVHNode
	Center core.Vec3 // Scene center, used to place distant and background lights
	Radius float64   // Scene bounding radius
}

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}

	// Copy so partitioning never reorders the caller's slice
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	root := buildBVH(shapesCopy)
	center := root.BoundingBox.Center()

	return &BVH{
		Root:   root,
		Center: center,
		Radius: root.BoundingBox.Max.Subtract(center).Length(),
	}
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 4

// buildBVH recursively builds the BVH using midpoint splits along the longest axis
func buildBVH(shapes []Shape) *BVHNode {
	boundingBox := core.EmptyAABB()
	for _, shape := range shapes {
		boundingBox = boundingBox.Union(shape.BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	axis := boundingBox.LongestAxis()
	minVal, maxVal := boundingBox.Min.Axis(axis), boundingBox.Max.Axis(axis)
	if maxVal <= minVal {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	leftShapes, rightShapes := partitionShapes(shapes, axis, (minVal+maxVal)*0.5)

	// Ensure we don't create empty partitions
	if len(leftShapes) == 0 || len(rightShapes) == 0 {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(leftShapes),
		Right:       buildBVH(rightShapes),
	}
}

// partitionShapes partitions shapes by bounding box center along axis
func partitionShapes(shapes []Shape, axis int, splitPos float64) ([]Shape, []Shape) {
	var leftShapes, rightShapes []Shape
	for _, shape := range shapes {
		if shape.BoundingBox().Center().Axis(axis) < splitPos {
			leftShapes = append(leftShapes, shape)
		} else {
			rightShapes = append(rightShapes, shape)
		}
	}
	return leftShapes, rightShapes
}

// Hit returns the closest intersection in [tMin, tMax]
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	var closest *material.SurfaceInteraction
	closestSoFar := tMax

	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if si, ok := shape.Hit(ray, tMin, closestSoFar); ok {
				closest = si
				closestSoFar = si.T
			}
		}
		return closest, closest != nil
	}

	for _, child := range []*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if si, ok := bvh.hitNode(child, ray, tMin, closestSoFar); ok {
			closest = si
			closestSoFar = si.T
		}
	}
	return closest, closest != nil
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// BVHStats summarizes the hierarchy shape for logging
type BVHStats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	TotalShapes int
}

// Stats walks the hierarchy and collects its statistics
func (bvh *BVH) Stats() BVHStats {
	var stats BVHStats
	if bvh.Root != nil {
		collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.Shapes != nil {
		stats.LeafNodes++
		stats.TotalShapes += len(node.Shapes)
		return
	}
	if node.Left != nil {
		collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		collectStats(node.Right, depth+1, stats)
	}
}
