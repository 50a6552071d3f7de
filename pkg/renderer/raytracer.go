package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-lighttree-raytracer/pkg/config"
	"github.com/df07/go-lighttree-raytracer/pkg/core"
	"github.com/df07/go-lighttree-raytracer/pkg/integrator"
	"github.com/df07/go-lighttree-raytracer/pkg/scene"
)

// Raytracer renders a built scene into an image. Tiles are rendered in
// parallel; every pixel owns its random stream, so the result does not depend
// on the number of workers.
type Raytracer struct {
	scene   *scene.Scene
	config  config.RenderConfig
	tiles   *TileRenderer
	logger  logrus.FieldLogger
	metrics *Metrics
	runID   uuid.UUID
}

// NewRaytracer creates a raytracer for a built scene. metrics may be nil.
func NewRaytracer(s *scene.Scene, cfg config.Config, logger logrus.FieldLogger, metrics *Metrics) (*Raytracer, error) {
	kernel, err := s.Kernel(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	camera := s.Camera
	if camera.AspectRatio <= 0 {
		camera.AspectRatio = float64(cfg.Render.Width) / float64(cfg.Render.Height)
	}

	runID := uuid.New()
	if logger == nil {
		logger = logrus.New()
	}

	return &Raytracer{
		scene:   s,
		config:  cfg.Render,
		tiles:   NewTileRenderer(integrator.NewPathTracer(kernel), NewCamera(camera), cfg.Render.Width, cfg.Render.Height, cfg.Render.SamplesPerPixel, cfg.Render.Seed),
		logger:  logger.WithFields(logrus.Fields{"run_id": runID.String(), "scene": s.Name}),
		metrics: metrics,
		runID:   runID,
	}, nil
}

// RunID identifies this raytracer's renders in logs and stats
func (rt *Raytracer) RunID() uuid.UUID {
	return rt.runID
}

// Render renders the whole image. It returns early with the context's error
// when ctx is cancelled.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	width, height := rt.config.Width, rt.config.Height

	workers := rt.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Shared pixel statistics, indexed by global image coordinates. Tiles are
	// disjoint so workers never write the same pixel.
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	tiles := NewTileGrid(width, height, rt.config.TileSize)
	rt.logger.WithFields(logrus.Fields{
		"width":   width,
		"height":  height,
		"spp":     rt.config.SamplesPerPixel,
		"tiles":   len(tiles),
		"workers": workers,
	}).Info("render started")

	stats := RenderStats{RunID: rt.runID}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tileStats := rt.tiles.RenderTileBounds(tile.Bounds, pixelStats)
			rt.metrics.observeTile(tileStats)

			mu.Lock()
			stats.merge(tileStats)
			mu.Unlock()

			rt.logger.WithFields(logrus.Fields{
				"tile":    tile.ID,
				"samples": tileStats.TotalSamples,
			}).Debug("tile done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, fmt.Errorf("render %s: %w", rt.runID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("render %s: %w", rt.runID, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}

	stats.Duration = time.Since(start)
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	rt.metrics.observeRender(stats)

	entry := rt.logger.WithFields(logrus.Fields{
		"duration":           stats.Duration.Round(time.Millisecond).String(),
		"samples":            stats.TotalSamples,
		"lights_sampled":     stats.Diagnostics.LightsSampled,
		"traversal_failures": stats.Diagnostics.TraversalFailures,
	})
	if stats.InvalidSamples > 0 {
		entry.WithField("invalid_samples", stats.InvalidSamples).Warn("render finished with invalid samples")
	} else {
		entry.Info("render finished")
	}
	return img, stats, nil
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.Max(core.Vec3{}).GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
