package integrator

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
)

// Dimensions consumed at every bounce. Each bounce advances the stream by
// dimsPerBounce so the draws of different bounces never overlap.
const (
	dimLightU = iota
	dimLightV
	dimLightTermination
	dimBsdfU
	dimBsdfV
	dimContinuation
	dimsPerBounce
)

const jitterSalt = 0x9e3779b9

// RNG is a position in a deterministic random stream. A draw is a pure
// function of (Hash, Sample, Offset+dim), so paths can be replayed exactly and
// copies of the state never share anything.
type RNG struct {
	Hash       uint32 // per pixel
	Sample     int    // sample index within the pixel
	NumSamples int
	Offset     int // first dimension of the current bounce
}

// NewRNG starts the stream of one pixel sample
func NewRNG(hash uint32, sample, numSamples int) RNG {
	return RNG{Hash: hash, Sample: sample, NumSamples: max(numSamples, 1)}
}

// PixelHash derives a stream hash from pixel coordinates and a seed
func PixelHash(x, y int, seed int64) uint32 {
	return combineHash(combineHash(uint32(seed), uint32(x)), uint32(y))
}

// Float returns the value of dimension dim at the current bounce
func (r RNG) Float(dim int) float64 {
	return draw(r.Hash, r.Sample, r.Offset+dim)
}

// Float2 returns dimensions dim and dim+1
func (r RNG) Float2(dim int) (float64, float64) {
	return r.Float(dim), r.Float(dim + 1)
}

// BranchedFloat2 draws dimensions dim and dim+1 for sub-sample j of num taken
// at this bounce, using hash in place of the path hash.
func (r RNG) BranchedFloat2(hash uint32, j, num, dim int) (float64, float64) {
	sample := r.Sample*num + j
	return draw(hash, sample, r.Offset+dim), draw(hash, sample, r.Offset+dim+1)
}

// BranchedFloat is the one-dimensional BranchedFloat2
func (r RNG) BranchedFloat(hash uint32, j, num, dim int) float64 {
	return draw(hash, r.Sample*num+j, r.Offset+dim)
}

// Jitter returns the sub-pixel offset of the camera ray in [0,1)^2. It is
// drawn from its own stream so it never correlates with the path dimensions.
func (r RNG) Jitter() (float64, float64) {
	hash := combineHash(r.Hash, jitterSalt)
	return draw(hash, r.Sample, 0), draw(hash, r.Sample, 1)
}

// LightTermination returns the random number used for light-threshold
// Russian roulette at this bounce
func (r RNG) LightTermination() float64 {
	return r.Float(dimLightTermination)
}

// advance moves the stream to the next bounce
func (r *RNG) advance() {
	r.Offset += dimsPerBounce
}

// branch turns the stream into sub-stream j of num
func (r *RNG) branch(j, num int) {
	r.Offset += dimsPerBounce
	r.Sample = r.Sample*num + j
	r.NumSamples *= num
}

func draw(hash uint32, sample, dim int) float64 {
	src := rand.NewPCG(uint64(hash)<<32|uint64(uint32(dim)), uint64(sample))
	return rand.New(src).Float64()
}

// combineHash mixes value into hash, used to give each light its own stream
func combineHash(hash, value uint32) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], hash)
	binary.LittleEndian.PutUint32(buf[4:], value)
	h := fnv.New32a()
	h.Write(buf[:])
	return h.Sum32()
}
