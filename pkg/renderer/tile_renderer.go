package renderer

import (
	"image"
	"math"

	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/integrator"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []Tile {
	tileSize = max(tileSize, 1)
	var tiles []Tile

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, Tile{ID: len(tiles), Bounds: image.Rect(x0, y0, x1, y1)})
		}
	}

	return tiles
}

// TileRenderer renders the pixels of a tile with a path tracer. It holds no
// mutable state, so one renderer serves every worker.
type TileRenderer struct {
	tracer        *integrator.PathTracer
	camera        *Camera
	width, height int
	samples       int
	seed          int64
}

// NewTileRenderer creates a tile renderer for a width x height image
func NewTileRenderer(tracer *integrator.PathTracer, camera *Camera, width, height, samples int, seed int64) *TileRenderer {
	return &TileRenderer{
		tracer:  tracer,
		camera:  camera,
		width:   width,
		height:  height,
		samples: max(samples, 1),
		seed:    seed,
	}
}

// RenderTileBounds renders pixels within bounds into pixelStats, indexed by
// global image coordinates. Callers must give concurrent calls disjoint bounds.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy(), Tiles: 1}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			tr.samplePixel(i, j, &pixelStats[j][i], &stats)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// samplePixel traces every sample of one pixel. The random stream of a sample
// depends only on the pixel, the sample index and the seed, so images are
// reproducible regardless of tile order or worker count.
func (tr *TileRenderer) samplePixel(i, j int, ps *PixelStats, stats *RenderStats) {
	hash := integrator.PixelHash(i, j, tr.seed)
	for sample := 0; sample < tr.samples; sample++ {
		rng := integrator.NewRNG(hash, sample, tr.samples)
		dx, dy := rng.Jitter()
		ray := tr.camera.PixelRay(i, j, tr.width, tr.height, dx, dy)

		L := tr.tracer.Li(ray, rng)
		stats.Diagnostics.Merge(L.Diagnostics)
		stats.TotalSamples++

		color := L.Sum()
		if !finite(color) {
			stats.InvalidSamples++
			color = core.Vec3{}
		}
		ps.AddSample(color)
	}
}

func finite(v core.Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
