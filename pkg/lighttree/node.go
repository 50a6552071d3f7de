// Package lighttree implements a flattened binary BVH over emitters together with
// the split estimator and the stochastic traversal used to pick lights for a
// shading point.
//
// Nodes are stored in a single slice. An interior node's left child lives in the
// next slot and its right child at RightOffset; a leaf has RightOffset == -1 and
// references exactly one emitter. The tree is immutable once built and is read
// concurrently by every render worker without locking.
package lighttree

import (
	"errors"
	"fmt"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
)

var (
	ErrEmptyTree       = errors.New("lighttree: tree has no nodes")
	ErrMalformedLeaf   = errors.New("lighttree: leaf must reference exactly one emitter")
	ErrBadChildOffset  = errors.New("lighttree: interior node has an invalid right child offset")
	ErrUnreachableNode = errors.New("lighttree: node is not reachable from the root")
	ErrSharedNode      = errors.New("lighttree: node is reachable from more than one parent")
	ErrCountMismatch   = errors.New("lighttree: interior emitter count differs from its children")
	ErrDuplicateLeaf   = errors.New("lighttree: emitter is referenced by more than one leaf")
)

// leafMarker is stored in RightOffset for leaves.
const leafMarker = -1

// Node is one entry of the flattened tree. Storage is float32; every estimator
// widens to float64 before doing arithmetic.
type Node struct {
	BBoxMin        [3]float32
	BBoxMax        [3]float32
	Energy         float32 // sum of emitter energies below this node
	EnergyVariance float32 // population variance of those energies
	EmitterCount   int32
	RightOffset    int32 // leafMarker for leaves
	EmitterIndex   int32 // only meaningful for leaves
}

// IsLeaf reports whether the node is a leaf
func (n Node) IsLeaf() bool {
	return n.RightOffset == leafMarker
}

// Bounds returns the node bounding box in float64
func (n Node) Bounds() core.AABB {
	return core.NewAABB(
		core.NewVec3(float64(n.BBoxMin[0]), float64(n.BBoxMin[1]), float64(n.BBoxMin[2])),
		core.NewVec3(float64(n.BBoxMax[0]), float64(n.BBoxMax[1]), float64(n.BBoxMax[2])),
	)
}

// Tree is a read-only light BVH.
type Tree struct {
	nodes      []Node
	leafOf     []int32 // emitter index -> leaf offset
	importance ImportanceFunc
}

// Option configures a Tree.
type Option func(*Tree)

// WithImportance replaces the node importance heuristic.
func WithImportance(fn ImportanceFunc) Option {
	return func(t *Tree) {
		t.importance = fn
	}
}

// NewTree wraps an already flattened node slice, for example one produced by an
// external builder, and validates it.
func NewTree(nodes []Node, opts ...Option) (*Tree, error) {
	t := &Tree{nodes: nodes, importance: DefaultImportance}
	for _, opt := range opts {
		opt(t)
	}
	if len(nodes) == 0 {
		return t, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.indexLeaves()
	return t, nil
}

// ReadNode returns the node at offset. An out-of-range offset is a caller bug and panics.
func (t *Tree) ReadNode(offset int) Node {
	if offset < 0 || offset >= len(t.nodes) {
		panic(fmt.Sprintf("lighttree: node offset %d out of range [0, %d)", offset, len(t.nodes)))
	}
	return t.nodes[offset]
}

// Children returns the left and right child offsets of an interior node.
func (t *Tree) Children(offset int) (int, int) {
	node := t.ReadNode(offset)
	if node.IsLeaf() {
		panic(fmt.Sprintf("lighttree: node %d is a leaf", offset))
	}
	return offset + 1, int(node.RightOffset)
}

// NumNodes returns the number of nodes in the tree
func (t *Tree) NumNodes() int {
	return len(t.nodes)
}

// NumEmitters returns the number of emitters referenced by the tree
func (t *Tree) NumEmitters() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return int(t.nodes[0].EmitterCount)
}

// Empty reports whether the tree holds no emitters
func (t *Tree) Empty() bool {
	return len(t.nodes) == 0
}

// LeafOffset returns the offset of the leaf holding emitterIndex, or -1.
func (t *Tree) LeafOffset(emitterIndex int) int {
	if emitterIndex < 0 || emitterIndex >= len(t.leafOf) {
		return -1
	}
	return int(t.leafOf[emitterIndex])
}

// Validate checks the structural invariants: every leaf references exactly one
// emitter and no emitter has two leaves, every interior node has a right child
// after its left subtree and counts the emitters of both children, and every
// node is reachable from the root along exactly one path.
func (t *Tree) Validate() error {
	if len(t.nodes) == 0 {
		return ErrEmptyTree
	}

	seen := make([]bool, len(t.nodes))
	leaves := make(map[int32]int)
	stack := []int{0}
	for len(stack) > 0 {
		offset := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[offset] {
			return fmt.Errorf("%w: %d", ErrSharedNode, offset)
		}
		seen[offset] = true

		node := t.nodes[offset]
		if node.IsLeaf() {
			if node.EmitterCount != 1 || node.EmitterIndex < 0 {
				return fmt.Errorf("%w: node %d has %d emitters", ErrMalformedLeaf, offset, node.EmitterCount)
			}
			if other, ok := leaves[node.EmitterIndex]; ok {
				return fmt.Errorf("%w: emitter %d in nodes %d and %d", ErrDuplicateLeaf, node.EmitterIndex, other, offset)
			}
			leaves[node.EmitterIndex] = offset
			continue
		}

		right := int(node.RightOffset)
		if right <= offset+1 || right >= len(t.nodes) || offset+1 >= len(t.nodes) {
			return fmt.Errorf("%w: node %d points at %d", ErrBadChildOffset, offset, right)
		}
		stack = append(stack, right, offset+1)
	}

	for offset, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnreachableNode, offset)
		}
	}

	for offset, node := range t.nodes {
		if node.IsLeaf() {
			continue
		}
		left, right := t.nodes[offset+1], t.nodes[node.RightOffset]
		if node.EmitterCount != left.EmitterCount+right.EmitterCount {
			return fmt.Errorf("%w: node %d has %d, children %d + %d",
				ErrCountMismatch, offset, node.EmitterCount, left.EmitterCount, right.EmitterCount)
		}
	}
	return nil
}

func (t *Tree) indexLeaves() {
	maxIndex := int32(-1)
	for _, node := range t.nodes {
		if node.IsLeaf() && node.EmitterIndex > maxIndex {
			maxIndex = node.EmitterIndex
		}
	}

	t.leafOf = make([]int32, maxIndex+1)
	for i := range t.leafOf {
		t.leafOf[i] = -1
	}
	for offset, node := range t.nodes {
		if node.IsLeaf() {
			t.leafOf[node.EmitterIndex] = int32(offset)
		}
	}
}
