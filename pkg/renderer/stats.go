package renderer

import (
	"image"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/lighttree"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	RunID          uuid.UUID
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	Tiles          int           // Number of tiles rendered
	Duration       time.Duration // Wall time of the render
	Diagnostics    lighttree.Diagnostics
	InvalidSamples int // samples dropped for NaN or infinite radiance
}

// merge adds the counters of a tile into s
func (s *RenderStats) merge(tile RenderStats) {
	s.TotalPixels += tile.TotalPixels
	s.TotalSamples += tile.TotalSamples
	s.Tiles += tile.Tiles
	s.InvalidSamples += tile.InvalidSamples
	s.Diagnostics.Merge(tile.Diagnostics)
}

// SamplesPerSecond returns the sample throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the sample variance of the pixel luminance
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	return math.Max(0, (ps.LuminanceSqAccum/n-mean*mean)*n/(n-1))
}

// CalculateAverageLuminance returns the mean luminance of an 8-bit image,
// with channels read as values in [0,1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255).Luminance()
		}
	}
	return total / float64(pixels)
}
