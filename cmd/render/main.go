// Command render drives the library end to end: build a scene, pick an
// integrator, run progressive passes to completion, and write a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/pathforge/raygo/pkg/integrator"
	"github.com/pathforge/raygo/pkg/renderer"
	"github.com/pathforge/raygo/pkg/scene"
)

func main() {
	sceneName := flag.String("scene", "cornell", "Scene: 'default', 'cornell', 'cornell-empty', 'cornell-smoke', 'caustic-glass', 'spheregrid', 'cones', 'cylinders', 'textures'")
	integratorName := flag.String("integrator", "path", "Integrator: 'path' or 'photon'")
	maxSamples := flag.Int("samples", 0, "Override max samples per pixel (0 keeps the scene's default)")
	maxPasses := flag.Int("passes", 7, "Number of progressive passes")
	numPhotons := flag.Int("photons", 2_000_000, "Total photon budget for the photon integrator")
	causticRadius := flag.Float64("caustic-radius", 1.0, "Caustic map gather radius for the photon integrator")
	globalRadius := flag.Float64("global-radius", 4.0, "Global map gather radius for the photon integrator")
	kNearest := flag.Int("knearest", 200, "Photon density-estimate neighbor count")
	finalGatherBound := flag.Int("final-gather-bound", 5, "Bounce depth below which the photon integrator still final-gathers")
	out := flag.String("out", "", "Output PNG path (default: output/<scene>/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("raygo render")
		flag.PrintDefaults()
		return
	}

	sc := selectScene(*sceneName)
	if *maxSamples > 0 {
		sc.SamplingConfig.SamplesPerPixel = *maxSamples
	}

	if err := sc.Preprocess(); err != nil {
		fmt.Printf("Error preprocessing scene: %v\n", err)
		os.Exit(1)
	}

	integratorInst := selectIntegrator(*integratorName, sc, integrator.PhotonMappingConfig{
		NumPhotons:       *numPhotons,
		CausticFraction:  0.5,
		CausticRadius:    *causticRadius,
		GlobalRadius:     *globalRadius,
		KNearest:         *kNearest,
		FinalGatherBound: *finalGatherBound,
	})

	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height
	if width == 0 || height == 0 {
		width = sc.CameraConfig.Width
		height = int(float64(width) / sc.CameraConfig.AspectRatio)
		sc.SamplingConfig.Width = width
		sc.SamplingConfig.Height = height
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = sc.SamplingConfig.SamplesPerPixel
	config.MaxPasses = *maxPasses

	logger := renderer.NewDefaultLogger()
	progressive := renderer.NewProgressiveRaytracer(sc, integratorInst, width, height, config, logger)

	startTime := time.Now()
	passChan, _, errChan := progressive.RenderProgressive(context.Background(), renderer.RenderOptions{TileUpdates: false})

	var lastResult renderer.PassResult
	for result := range passChan {
		lastResult = result
	}
	if err := <-errChan; err != nil {
		fmt.Printf("Render failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		lastResult.Stats.AverageSamples, lastResult.Stats.MinSamples, lastResult.Stats.MaxSamplesUsed)

	outPath := *out
	if outPath == "" {
		outputDir := filepath.Join("output", *sceneName)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		timestamp := time.Now().Format("20060102_150405")
		outPath = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}

	file, err := os.Create(outPath)
	if err != nil {
		fmt.Printf("Error creating file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	if err := png.Encode(file, lastResult.Image); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", outPath)
}

func selectScene(name string) *scene.Scene {
	switch name {
	case "default":
		return scene.NewDefaultScene()
	case "cornell":
		return scene.NewCornellScene(scene.CornellSpheres)
	case "cornell-empty":
		return scene.NewCornellScene(scene.CornellEmpty)
	case "cornell-smoke":
		return scene.NewCornellScene(scene.CornellSmoke)
	case "caustic-glass":
		return scene.NewCausticGlassScene()
	case "spheregrid":
		return scene.NewSphereGridScene()
	case "cones":
		return scene.NewConeTestScene()
	case "cylinders":
		return scene.NewCylinderTestScene()
	case "textures":
		return scene.NewTextureTestScene()
	default:
		fmt.Printf("Unknown scene %q, using cornell.\n", name)
		return scene.NewCornellScene(scene.CornellSpheres)
	}
}

func selectIntegrator(name string, sc *scene.Scene, photonConfig integrator.PhotonMappingConfig) integrator.Integrator {
	switch name {
	case "photon":
		return integrator.NewPhotonIntegrator(sc.SamplingConfig, photonConfig, sc)
	case "path":
		return integrator.NewPathTracingIntegrator(sc.SamplingConfig)
	default:
		fmt.Printf("Unknown integrator %q, using path.\n", name)
		return integrator.NewPathTracingIntegrator(sc.SamplingConfig)
	}
}
