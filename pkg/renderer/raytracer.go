package renderer

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/integrator"
	"github.com/pathforge/raygo/pkg/scene"
)

// Raytracer drives a TileRenderer over a shared pixel-statistics buffer for
// one scene, letting each render pass override the scene's base sampling
// config (typically just SamplesPerPixel) without mutating it permanently.
type Raytracer struct {
	scene        *scene.Scene
	tileRenderer *TileRenderer
	baseConfig   scene.SamplingConfig
	config       scene.SamplingConfig
}

// NewRaytracer creates a raytracer for the given scene and integrator.
func NewRaytracer(sc *scene.Scene, integratorInst integrator.Integrator) *Raytracer {
	return &Raytracer{
		scene:        sc,
		tileRenderer: NewTileRenderer(sc, integratorInst),
		baseConfig:   sc.SamplingConfig,
		config:       sc.SamplingConfig,
	}
}

// MergeSamplingConfig overlays non-zero fields of overrides onto the
// raytracer's base sampling config, used by progressive passes to bump
// SamplesPerPixel without touching the rest of the scene's configuration.
func (rt *Raytracer) MergeSamplingConfig(overrides scene.SamplingConfig) {
	merged := rt.baseConfig
	if overrides.SamplesPerPixel != 0 {
		merged.SamplesPerPixel = overrides.SamplesPerPixel
	}
	if overrides.MaxDepth != 0 {
		merged.MaxDepth = overrides.MaxDepth
	}
	if overrides.RussianRouletteMinBounces != 0 {
		merged.RussianRouletteMinBounces = overrides.RussianRouletteMinBounces
	}
	if overrides.AdaptiveMinSamples != 0 {
		merged.AdaptiveMinSamples = overrides.AdaptiveMinSamples
	}
	if overrides.AdaptiveThreshold != 0 {
		merged.AdaptiveThreshold = overrides.AdaptiveThreshold
	}
	rt.config = merged
	rt.scene.SamplingConfig = merged
}

// RenderBounds renders the given pixel bounds into the shared pixel stats
// buffer, targeting the raytracer's current SamplesPerPixel.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand) RenderStats {
	return rt.tileRenderer.RenderTileBounds(bounds, pixelStats, random, rt.config.SamplesPerPixel)
}

// vec3ToColor converts a linear Vec3 color to a gamma-corrected, clamped RGBA pixel.
func (rt *Raytracer) vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0)
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
