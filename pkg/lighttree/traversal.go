package lighttree

import (
	"fmt"
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

// oneMinusEpsilon is the largest float64 below 1.
var oneMinusEpsilon = math.Nextafter(1, 0)

// TraversalRequest describes one light selection at a shading point.
type TraversalRequest struct {
	U, V      float64   // uniform random numbers in [0, 1)
	P, N      core.Vec3 // shading position and normal
	Threshold float64   // splitting threshold in [0, 1]
	Scale     float64   // pdf factor accumulated before entering the tree
	MaySplit  bool
	Offset    int // start node, 0 for the root
}

// LeafSelection is handed to the visitor for every emitter reached. Scale is the
// product of the stochastic choice probabilities along the way, to be multiplied
// into the emitter's own sampling pdf.
type LeafSelection struct {
	Offset       int
	EmitterIndex int
	U, V         float64
	Scale        float64
}

// LeafVisitor consumes leaf selections in traversal order.
type LeafVisitor func(LeafSelection)

// Diagnostics are advisory counters; they never influence sampling.
type Diagnostics struct {
	LightsSampled     int // leaves reached
	TraversalFailures int // branches abandoned because both children had zero importance
}

// Merge adds other into d
func (d *Diagnostics) Merge(other Diagnostics) {
	d.LightsSampled += other.LightsSampled
	d.TraversalFailures += other.TraversalFailures
}

type frame struct {
	offset   int
	u        float64
	scale    float64
	maySplit bool
}

// Traverse walks the tree from req.Offset and calls visit for every emitter
// selected.
//
// At an interior node that may split and whose split estimate says so, both
// children are visited with the same random numbers and scale, left first. At
// any other interior node one child is chosen with probability proportional to
// its importance, u is rescaled to stay uniform, the scale is multiplied by the
// choice probability, and splitting is disabled for the rest of that branch.
// When both children have zero importance the branch is dropped and counted as a
// failure.
//
// The product of the scales along any accepted path equals the probability of
// reaching that leaf, so dividing by scale times the emitter pdf is unbiased.
func (t *Tree) Traverse(req TraversalRequest, visit LeafVisitor) Diagnostics {
	var diag Diagnostics
	if t.Empty() {
		return diag
	}

	stack := make([]frame, 0, 32)
	stack = append(stack, frame{offset: req.Offset, u: req.U, scale: req.Scale, maySplit: req.MaySplit})

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.ReadNode(f.offset)
		if node.IsLeaf() {
			if node.EmitterCount != 1 {
				panic(fmt.Sprintf("lighttree: leaf %d holds %d emitters", f.offset, node.EmitterCount))
			}
			diag.LightsSampled++
			visit(LeafSelection{
				Offset:       f.offset,
				EmitterIndex: int(node.EmitterIndex),
				U:            f.u,
				V:            req.V,
				Scale:        f.scale,
			})
			continue
		}

		left, right := f.offset+1, int(node.RightOffset)

		if f.maySplit && t.ShouldSplit(req.Threshold, req.P, f.offset) {
			// pushed in reverse so the left subtree is fully visited first
			stack = append(stack,
				frame{offset: right, u: f.u, scale: f.scale, maySplit: true},
				frame{offset: left, u: f.u, scale: f.scale, maySplit: true},
			)
			continue
		}

		choice, ok := t.choose(req.P, req.N, left, right, f.u)
		if !ok {
			diag.TraversalFailures++
			continue
		}
		stack = append(stack, frame{
			offset:   choice.offset,
			u:        choice.u,
			scale:    f.scale * choice.prob,
			maySplit: false,
		})
	}
	return diag
}

type childChoice struct {
	offset int
	u      float64
	prob   float64
}

// choose picks one child proportionally to importance and rescales u. It fails
// when neither child can contribute.
func (t *Tree) choose(p, n core.Vec3, left, right int, u float64) (childChoice, bool) {
	iL := t.NodeImportance(p, n, left)
	iR := t.NodeImportance(p, n, right)
	if iL == 0 && iR == 0 {
		return childChoice{}, false
	}
	return chooseChild(iL, iR, left, right, u), true
}

func chooseChild(iL, iR float64, left, right int, u float64) childChoice {
	pL := iL / (iL + iR)
	if pL > 0 && u <= pL {
		return childChoice{offset: left, u: clampUnit(u / pL), prob: pL}
	}
	return childChoice{offset: right, u: clampUnit((u*(iL+iR) - iL) / iR), prob: 1 - pL}
}

func clampUnit(u float64) float64 {
	return math.Max(0, math.Min(u, oneMinusEpsilon))
}

// EmitterProbability returns the probability that a traversal from the root at
// (p, n) reaches the leaf of emitterIndex: the product of the stochastic choice
// probabilities on the root-to-leaf path, with split nodes contributing 1.
// It is 0 for emitters not in the tree or behind a zero-importance choice.
func (t *Tree) EmitterProbability(p, n core.Vec3, threshold float64, maySplit bool, emitterIndex int) float64 {
	target := t.LeafOffset(emitterIndex)
	if target < 0 {
		return 0
	}

	prob := 1.0
	offset := 0
	for {
		node := t.ReadNode(offset)
		if node.IsLeaf() {
			return prob
		}

		left, right := offset+1, int(node.RightOffset)
		goLeft := target < right

		if !(maySplit && t.ShouldSplit(threshold, p, offset)) {
			iL := t.NodeImportance(p, n, left)
			iR := t.NodeImportance(p, n, right)
			if iL == 0 && iR == 0 {
				return 0
			}
			pL := iL / (iL + iR)
			if goLeft {
				prob *= pL
			} else {
				prob *= 1 - pL
			}
			maySplit = false
		}

		if goLeft {
			offset = left
		} else {
			offset = right
		}
	}
}
