package lighttree

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// Emitter is the build-time description of one light: where it is and how much
// it emits. Index is the light id handed back to the light sampler when the
// leaf is selected.
type Emitter struct {
	Bounds core.AABB
	Energy float64
	Index  int
}

// BuildOptions configures Build.
type BuildOptions struct {
	Logger     logrus.FieldLogger // optional
	Importance ImportanceFunc     // optional, defaults to DefaultImportance
}

type buildStats struct {
	nodes    int
	leaves   int
	maxDepth int
}

type builder struct {
	nodes []Node
	stats buildStats
}

// Build constructs a light tree with one emitter per leaf. Interior nodes are
// split at the median centroid along the longest axis of their bounds, and
// aggregate the energy sum and the population energy variance of their subtree.
func Build(emitters []Emitter, opts BuildOptions) *Tree {
	tree := &Tree{importance: opts.Importance}
	if tree.importance == nil {
		tree.importance = DefaultImportance
	}
	if len(emitters) == 0 {
		return tree
	}

	work := make([]Emitter, len(emitters))
	copy(work, emitters)

	b := &builder{nodes: make([]Node, 0, 2*len(emitters)-1)}
	start := time.Now()
	b.partition(work, 0)

	tree.nodes = b.nodes
	tree.indexLeaves()

	if opts.Logger != nil {
		opts.Logger.WithFields(logrus.Fields{
			"emitters":  len(emitters),
			"nodes":     b.stats.nodes,
			"leaves":    b.stats.leaves,
			"max_depth": b.stats.maxDepth,
			"elapsed":   time.Since(start),
		}).Debug("light tree built")
	}
	return tree
}

// partition appends the subtree for work and returns its root offset along with
// the sum and sum of squares of its energies.
func (b *builder) partition(work []Emitter, depth int) (int, float64, float64) {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	bounds := core.EmptyAABB()
	for _, e := range work {
		bounds = bounds.Union(e.Bounds)
	}

	offset := len(b.nodes)
	b.nodes = append(b.nodes, Node{})
	b.stats.nodes++

	if len(work) == 1 {
		e := work[0]
		b.nodes[offset] = newNode(bounds, e.Energy, 0, 1)
		b.nodes[offset].RightOffset = leafMarker
		b.nodes[offset].EmitterIndex = int32(e.Index)
		b.stats.leaves++
		return offset, e.Energy, e.Energy * e.Energy
	}

	sortByCentroid(work, centroidBounds(work).LongestAxis())
	mid := len(work) / 2

	_, leftSum, leftSq := b.partition(work[:mid], depth+1)
	rightOffset, rightSum, rightSq := b.partition(work[mid:], depth+1)

	sum := leftSum + rightSum
	sumSq := leftSq + rightSq
	n := float64(len(work))
	mean := sum / n
	variance := math.Max(0, sumSq/n-mean*mean)

	b.nodes[offset] = newNode(bounds, sum, variance, len(work))
	b.nodes[offset].RightOffset = int32(rightOffset)
	b.nodes[offset].EmitterIndex = -1
	return offset, sum, sumSq
}

func newNode(bounds core.AABB, energy, variance float64, count int) Node {
	return Node{
		BBoxMin:        [3]float32{float32(bounds.Min.X), float32(bounds.Min.Y), float32(bounds.Min.Z)},
		BBoxMax:        [3]float32{float32(bounds.Max.X), float32(bounds.Max.Y), float32(bounds.Max.Z)},
		Energy:         float32(energy),
		EnergyVariance: float32(variance),
		EmitterCount:   int32(count),
	}
}

func centroidBounds(work []Emitter) core.AABB {
	bounds := core.EmptyAABB()
	for _, e := range work {
		c := e.Bounds.Center()
		bounds = bounds.Union(core.NewAABB(c, c))
	}
	return bounds
}

// sortByCentroid orders emitters along axis; ties keep the input order so the
// build is deterministic.
func sortByCentroid(work []Emitter, axis int) {
	sort.SliceStable(work, func(i, j int) bool {
		return work[i].Bounds.Center().Axis(axis) < work[j].Bounds.Center().Axis(axis)
	})
}
