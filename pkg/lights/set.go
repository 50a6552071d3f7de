package lights

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/lighttree"
)

// SetOptions configures NewSet
type SetOptions struct {
	UseLightTree bool
	WorldCenter  core.Vec3
	WorldRadius  float64
	Importance   lighttree.ImportanceFunc // optional, defaults to lighttree.DefaultImportance
	Logger       logrus.FieldLogger       // optional
}

// Set is the light sampler of a scene. A light's id is its index in the slice
// given to NewSet; tree leaves reference lights by that id.
//
// With the light tree enabled a group (tree, distant or background) is chosen
// first and the light within it second. Without it every light is picked from
// one power-weighted distribution.
type Set struct {
	lights  []Light
	tree    *lighttree.Tree
	useTree bool
	groups  GroupDistribution
	members [numGroups][]int
	all     *WeightedSampler
}

// NewSet preprocesses the lights against the scene extent and builds the
// sampling structures.
func NewSet(lights []Light, opts SetOptions) (*Set, error) {
	s := &Set{lights: lights, useTree: opts.UseLightTree}

	var emitters []lighttree.Emitter
	var power, members [numGroups]float64
	weights := make([]float64, len(lights))

	for id, light := range lights {
		if p, ok := light.(Preprocessor); ok {
			if err := p.Preprocess(opts.WorldCenter, opts.WorldRadius); err != nil {
				return nil, fmt.Errorf("preprocess light %d: %w", id, err)
			}
		}

		g := GroupFor(light.Type())
		s.members[g] = append(s.members[g], id)
		members[g]++
		power[g] += light.Power()
		weights[id] = light.Power()

		if g == GroupTree {
			emitters = append(emitters, lighttree.Emitter{
				Bounds: light.Bounds(),
				Energy: light.Power(),
				Index:  id,
			})
		}
	}

	s.tree = lighttree.Build(emitters, lighttree.BuildOptions{Logger: opts.Logger, Importance: opts.Importance})
	s.groups = NewGroupDistribution(power, members)
	s.all = NewWeightedSampler(weights)

	if opts.Logger != nil {
		opts.Logger.WithFields(logrus.Fields{
			"lights":      len(lights),
			"tree":        len(s.members[GroupTree]),
			"distant":     len(s.members[GroupDistant]),
			"background":  len(s.members[GroupBackground]),
			"light_tree":  s.useTree,
			"tree_prob":   s.groups.Probability(GroupTree),
			"tree_nodes":  s.tree.NumNodes(),
			"weighted_by": "power",
		}).Info("light set ready")
	}
	return s, nil
}

// Len returns the number of lights
func (s *Set) Len() int {
	return len(s.lights)
}

// Light returns the light with the given id
func (s *Set) Light(id int) Light {
	return s.lights[id]
}

// Lights returns every light, indexed by id
func (s *Set) Lights() []Light {
	return s.lights
}

// Tree returns the light tree over the tree group
func (s *Set) Tree() *lighttree.Tree {
	return s.tree
}

// UseTree reports whether light selection goes through the tree
func (s *Set) UseTree() bool {
	return s.useTree
}

// Groups returns the group distribution
func (s *Set) Groups() GroupDistribution {
	return s.groups
}

// Members returns the ids of the lights in group g
func (s *Set) Members(g Group) []int {
	return s.members[g]
}

// ReachedMaxBounces reports whether light id is disabled at this bounce
func (s *Set) ReachedMaxBounces(id, bounce int) bool {
	maxBounces := s.lights[id].Settings().MaxBounces
	return maxBounces >= 0 && bounce > maxBounces
}

// SamplePoint samples a point on light id as seen from p. time is accepted for
// moving lights; every light type here is static. A zero PDF means the sample
// is degenerate or the light is disabled at this bounce.
func (s *Set) SamplePoint(u, v, time float64, p core.Vec3, bounce, id int) LightSample {
	if id < 0 || id >= len(s.lights) || s.ReachedMaxBounces(id, bounce) {
		return LightSample{LightID: id}
	}
	light := s.lights[id]
	ls := light.Sample(p, core.NewVec2(u, v))
	ls.LightID = id
	ls.Type = light.Type()
	return ls
}

// SampleInGroup picks one light of group g uniformly, returning its id, u
// rescaled for reuse and the pick probability. The id is -1 for an empty group.
func (s *Set) SampleInGroup(g Group, u float64) (int, float64, float64) {
	ids := s.members[g]
	if len(ids) == 0 {
		return -1, u, 0
	}
	n := float64(len(ids))
	i := min(int(u*n), len(ids)-1)
	return ids[i], rescale(u, float64(i)/n, 1/n), 1 / n
}

// Sample selects a single light and samples it, folding the selection
// probability into the returned pdf. With the tree enabled the tree group is
// traversed without splitting, so exactly one leaf can be reached.
func (s *Set) Sample(u, v, time float64, p, n core.Vec3, bounce int, threshold float64) (LightSample, lighttree.Diagnostics) {
	var diag lighttree.Diagnostics
	if len(s.lights) == 0 {
		return LightSample{LightID: -1}, diag
	}

	if !s.useTree {
		id, prob, ru := s.all.Sample(u)
		ls := s.SamplePoint(ru, v, time, p, bounce, id)
		ls.PDF *= prob
		return ls, diag
	}

	g, ru, groupProb := s.groups.Sample(u)
	if g != GroupTree {
		id, ru, prob := s.SampleInGroup(g, ru)
		ls := s.SamplePoint(ru, v, time, p, bounce, id)
		ls.PDF *= groupProb * prob
		return ls, diag
	}

	var (
		picked lighttree.LeafSelection
		found  bool
	)
	diag = s.tree.Traverse(lighttree.TraversalRequest{
		U: ru, V: v, P: p, N: n,
		Threshold: threshold,
		Scale:     groupProb,
	}, func(sel lighttree.LeafSelection) {
		picked, found = sel, true
	})
	if !found {
		return LightSample{LightID: -1}, diag
	}

	ls := s.SamplePoint(picked.U, picked.V, time, p, bounce, picked.EmitterIndex)
	ls.PDF *= picked.Scale
	return ls, diag
}

// PickProbability returns the probability that light selection at (p, n)
// reaches light id, matching Sample when maySplit is false and the splitting
// traversal otherwise. It is used to weight emitters found by BSDF sampling.
func (s *Set) PickProbability(id int, p, n core.Vec3, threshold float64, maySplit bool) float64 {
	if id < 0 || id >= len(s.lights) {
		return 0
	}
	if !s.useTree {
		return s.all.Probability(id)
	}

	g := GroupFor(s.lights[id].Type())
	groupProb := s.groups.Probability(g)
	if g == GroupTree {
		return groupProb * s.tree.EmitterProbability(p, n, threshold, maySplit, id)
	}
	return groupProb / float64(len(s.members[g]))
}
