package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/geometry"
	"github.com/pathforge/raygo/pkg/lights"
	"github.com/pathforge/raygo/pkg/material"
	"github.com/pathforge/raygo/pkg/scene"
)

func testCamera() *geometry.Camera {
	return geometry.NewCamera(geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		Width:  100, AspectRatio: 1.0, VFov: 45.0,
	})
}

// createSceneWithInfiniteLight creates a test scene lit entirely by a
// gradient infinite light, with no background color field to fall back on.
func createSceneWithInfiniteLight() *scene.Scene {
	lambertian := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertian)

	infiniteLight := lights.NewGradientInfiniteLight(
		core.NewVec3(0.5, 0.7, 1.0), // topColor (blue sky)
		core.NewVec3(1.0, 0.8, 0.6), // bottomColor (warm ground)
	)

	sc := &scene.Scene{
		Shapes: []geometry.Shape{sphere},
		Lights: []lights.Light{infiniteLight},
		Camera: testCamera(),
		SamplingConfig: scene.SamplingConfig{
			MaxDepth:                  10,
			RussianRouletteMinBounces: 5,
		},
	}
	sc.Preprocess()
	return sc
}

func TestPathTracingInfiniteLight(t *testing.T) {
	sc := createSceneWithInfiniteLight()
	integrator := NewPathTracingIntegrator(sc.SamplingConfig)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	color, _ := integrator.RayColor(ray, sc, sampler)

	if color == (core.Vec3{}) {
		t.Error("Expected color from infinite light, got black")
	}
	if color.Z <= color.X || color.Z <= color.Y {
		t.Errorf("Expected blue-dominant color for upward ray, got %v", color)
	}
	if color.X > 2 || color.Y > 2 || color.Z > 2 {
		t.Errorf("Expected reasonable color values, got %v", color)
	}
}

func TestPathTracingInfiniteLight_GradientVariation(t *testing.T) {
	sc := createSceneWithInfiniteLight()
	integrator := NewPathTracingIntegrator(sc.SamplingConfig)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	upRay := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	downRay := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))

	upColor, _ := integrator.RayColor(upRay, sc, sampler)
	downColor, _ := integrator.RayColor(downRay, sc, sampler)

	if upColor == downColor {
		t.Error("Expected different colors for up and down rays hitting infinite light")
	}
	if upColor.Z <= downColor.Z {
		t.Errorf("Expected upward ray to be more blue than downward ray. Up: %v, Down: %v", upColor, downColor)
	}
	if upColor == (core.Vec3{}) || downColor == (core.Vec3{}) {
		t.Error("Expected both rays to get color from infinite light")
	}
}

func TestUniformInfiniteLight_PathTracing(t *testing.T) {
	lambertian := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertian)

	uniformLight := lights.NewUniformInfiniteLight(core.NewVec3(0.8, 0.6, 0.4))

	sc := &scene.Scene{
		Shapes: []geometry.Shape{sphere},
		Lights: []lights.Light{uniformLight},
		Camera: testCamera(),
		SamplingConfig: scene.SamplingConfig{
			MaxDepth:                  10,
			RussianRouletteMinBounces: 5,
		},
	}
	sc.Preprocess()

	integrator := NewPathTracingIntegrator(sc.SamplingConfig)

	directions := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 0, 1),
	}

	colors := make([]core.Vec3, len(directions))
	for i, dir := range directions {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(int64(42 + i))))
		ray := core.NewRay(core.NewVec3(0, 0, 0), dir)
		colors[i], _ = integrator.RayColor(ray, sc, sampler)

		if colors[i] == (core.Vec3{}) {
			t.Errorf("Direction %v: expected non-black color from uniform infinite light", dir)
		}
	}

	baseColor := colors[0]
	tolerance := 0.1
	for i, color := range colors[1:] {
		if math.Abs(color.X-baseColor.X) > tolerance ||
			math.Abs(color.Y-baseColor.Y) > tolerance ||
			math.Abs(color.Z-baseColor.Z) > tolerance {
			t.Errorf("Direction %d: expected similar color to base %v, got %v", i+1, baseColor, color)
		}
	}
}

// TestPathTracingMultipleInfiniteLights verifies background emission sums
// across every infinite light in the scene rather than only the first.
func TestPathTracingMultipleInfiniteLights(t *testing.T) {
	lambertian := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertian)

	lightA := lights.NewUniformInfiniteLight(core.NewVec3(0.1, 0.0, 0.0))
	lightB := lights.NewUniformInfiniteLight(core.NewVec3(0.0, 0.1, 0.0))

	sc := &scene.Scene{
		Shapes:         []geometry.Shape{sphere},
		Lights:         []lights.Light{lightA, lightB},
		Camera:         testCamera(),
		SamplingConfig: scene.SamplingConfig{MaxDepth: 10, RussianRouletteMinBounces: 5},
	}
	sc.Preprocess()

	integrator := NewPathTracingIntegrator(sc.SamplingConfig)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	color, _ := integrator.RayColor(ray, sc, sampler)

	tolerance := 1e-9
	if math.Abs(color.X-0.1) > tolerance || math.Abs(color.Y-0.1) > tolerance {
		t.Errorf("Expected summed infinite light emission (0.1, 0.1, 0), got %v", color)
	}
}
