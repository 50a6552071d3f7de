package lighttree

import "github.com/df07/go-lighttree-raytracer/pkg/core"

func pointEmitter(x, y, z, energy float64, index int) Emitter {
	p := core.NewVec3(x, y, z)
	return Emitter{Bounds: core.NewAABB(p, p), Energy: energy, Index: index}
}

func boxEmitter(center core.Vec3, halfSize, energy float64, index int) Emitter {
	h := core.NewVec3(halfSize, halfSize, halfSize)
	return Emitter{Bounds: core.NewAABB(center.Subtract(h), center.Add(h)), Energy: energy, Index: index}
}

// gridEmitters lays out n emitters along a line with varying energy.
func gridEmitters(n int) []Emitter {
	emitters := make([]Emitter, n)
	for i := range emitters {
		emitters[i] = boxEmitter(core.NewVec3(float64(i)*2, 4, float64(i%3)), 0.25, float64(1+i%4), i)
	}
	return emitters
}

func collect(tree *Tree, req TraversalRequest) ([]LeafSelection, Diagnostics) {
	var got []LeafSelection
	diag := tree.Traverse(req, func(sel LeafSelection) {
		got = append(got, sel)
	})
	return got, diag
}
