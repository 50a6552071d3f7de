package lights

import (
	"fmt"
	"strings"
)

// WeightedSampler picks an index with probability proportional to a fixed weight.
// Weights are normalized on construction; all-zero weights fall back to uniform.
type WeightedSampler struct {
	weights []float64
}

// NewWeightedSampler creates a sampler over len(weights) entries.
// Negative weights are a caller bug and panic.
func NewWeightedSampler(weights []float64) *WeightedSampler {
	normalized := make([]float64, len(weights))
	total := 0.0
	for _, weight := range weights {
		if weight < 0 {
			panic(fmt.Sprintf("lights: negative sampling weight %f", weight))
		}
		total += weight
	}

	for i, weight := range weights {
		if total == 0 {
			normalized[i] = 1.0 / float64(len(weights))
		} else {
			normalized[i] = weight / total
		}
	}
	return &WeightedSampler{weights: normalized}
}

// Sample selects an index with the cumulative distribution and returns it with
// its probability and u rescaled to [0, 1) within the chosen entry. Entries of
// zero probability are never returned. Returns -1 when empty.
func (ws *WeightedSampler) Sample(u float64) (int, float64, float64) {
	last := -1
	cumulative := 0.0
	for i, weight := range ws.weights {
		if weight == 0 {
			continue
		}
		last = i
		if u < cumulative+weight {
			return i, weight, rescale(u, cumulative, weight)
		}
		cumulative += weight
	}

	// u landed past the accumulated sum through rounding
	if last < 0 {
		return -1, 0, u
	}
	return last, ws.weights[last], rescale(u, cumulative-ws.weights[last], ws.weights[last])
}

// Probability returns the normalized weight of index i
func (ws *WeightedSampler) Probability(i int) float64 {
	if i < 0 || i >= len(ws.weights) {
		return 0.0
	}
	return ws.weights[i]
}

// Len returns the number of entries
func (ws *WeightedSampler) Len() int {
	return len(ws.weights)
}

// String returns a string representation for debugging
func (ws *WeightedSampler) String() string {
	if len(ws.weights) == 0 {
		return "WeightedSampler{empty}"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "WeightedSampler{%d entries:", len(ws.weights))
	for i, w := range ws.weights {
		fmt.Fprintf(&b, " [%d] %.1f%%", i, w*100)
	}
	b.WriteString("}")
	return b.String()
}

// rescale maps u from [start, start+width) back onto [0, 1)
func rescale(u, start, width float64) float64 {
	r := (u - start) / width
	if r < 0 {
		return 0
	}
	if r >= 1 {
		return oneMinusEpsilon
	}
	return r
}
