package renderer

import (
	"testing"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/geometry"
	"github.com/pathforge/raygo/pkg/integrator"
	"github.com/pathforge/raygo/pkg/lights"
	"github.com/pathforge/raygo/pkg/material"
	"github.com/pathforge/raygo/pkg/scene"
)

// testLogger implements core.Logger for testing by discarding all output
type testLogger struct{}

var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {
	// Discard log output during tests
}

// TestProgressivePathTracingLuminance renders a handful of representative
// scenes end to end through ProgressiveRaytracer and checks that lit scenes
// actually produce non-black images.
func TestProgressivePathTracingLuminance(t *testing.T) {
	tests := []struct {
		name        string
		createScene func() *scene.Scene
		expectLight bool
	}{
		{
			name: "Infinite Light (Uniform)",
			createScene: func() *scene.Scene {
				ls := []lights.Light{
					lights.NewUniformInfiniteLight(core.NewVec3(1.0, 1.0, 1.0)),
				}
				camera := geometry.NewCamera(geometry.CameraConfig{
					Center: core.NewVec3(0, 0, 0),
					LookAt: core.NewVec3(0, 0, -1),
					Up:     core.NewVec3(0, 1, 0),
					Width:  32, AspectRatio: 1.0, VFov: 45.0,
				})
				s := &scene.Scene{
					Shapes:       []geometry.Shape{},
					Lights:       ls,
					LightSampler: lights.NewUniformLightSampler(ls, 10),
					Camera:       camera,
					SamplingConfig: scene.SamplingConfig{
						Width: 32, Height: 32,
						MaxDepth: 5, SamplesPerPixel: 4,
					},
				}
				s.Preprocess()
				return s
			},
			expectLight: true,
		},
		{
			name: "Single Sphere with Area Light",
			createScene: func() *scene.Scene {
				white := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
				sphere := geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, white)

				lightMat := material.NewEmissive(core.NewVec3(10.0, 10.0, 10.0))
				light := lights.NewSphereLight(core.NewVec3(0, 2, -1), 0.2, lightMat)
				ls := []lights.Light{light}

				camera := geometry.NewCamera(geometry.CameraConfig{
					Center: core.NewVec3(0, 0, 0),
					LookAt: core.NewVec3(0, 0, -2),
					Up:     core.NewVec3(0, 1, 0),
					Width:  32, AspectRatio: 1.0, VFov: 45.0,
				})

				s := &scene.Scene{
					Shapes:       []geometry.Shape{sphere, light.Sphere},
					Lights:       ls,
					LightSampler: lights.NewUniformLightSampler(ls, 10),
					Camera:       camera,
					SamplingConfig: scene.SamplingConfig{
						Width: 32, Height: 32,
						MaxDepth: 5, SamplesPerPixel: 4,
					},
				}
				s.Preprocess()
				return s
			},
			expectLight: true,
		},
		{
			name: "Occluded Light Scene",
			createScene: func() *scene.Scene {
				white := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
				floor := geometry.NewQuad(
					core.NewVec3(-5, -1, -5),
					core.NewVec3(10, 0, 0),
					core.NewVec3(0, 0, 10),
					white,
				)
				wall := geometry.NewQuad(
					core.NewVec3(-1, -1, -3),
					core.NewVec3(2, 0, 0),
					core.NewVec3(0, 2, 0),
					white,
				)
				lightMat := material.NewEmissive(core.NewVec3(10.0, 10.0, 10.0))
				light := lights.NewSphereLight(core.NewVec3(0, 0, -4), 0.2, lightMat)
				ls := []lights.Light{light}

				camera := geometry.NewCamera(geometry.CameraConfig{
					Center: core.NewVec3(0, 0, 0),
					LookAt: core.NewVec3(0, 0, -3),
					Up:     core.NewVec3(0, 1, 0),
					Width:  32, AspectRatio: 1.0, VFov: 45.0,
				})

				s := &scene.Scene{
					Shapes:       []geometry.Shape{floor, wall, light.Sphere},
					Lights:       ls,
					LightSampler: lights.NewUniformLightSampler(ls, 10),
					Camera:       camera,
					SamplingConfig: scene.SamplingConfig{
						Width: 32, Height: 32,
						MaxDepth: 5, SamplesPerPixel: 4,
					},
				}
				s.Preprocess()
				return s
			},
			expectLight: true,
		},
		{
			name: "Cornell Box (Empty)",
			createScene: func() *scene.Scene {
				s := scene.NewCornellScene(scene.CornellEmpty)
				s.SamplingConfig.Width = 32
				s.SamplingConfig.Height = 32
				s.SamplingConfig.SamplesPerPixel = 4
				return s
			},
			expectLight: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := tt.createScene()

			config := DefaultProgressiveConfig()
			config.InitialSamples = 1
			config.MaxSamplesPerPixel = sc.SamplingConfig.SamplesPerPixel
			config.MaxPasses = 1
			config.TileSize = 32

			logger := &testLogger{}
			pathIntegrator := integrator.NewPathTracingIntegrator(sc.SamplingConfig)
			pathRenderer := NewProgressiveRaytracer(sc, pathIntegrator, sc.SamplingConfig.Width, sc.SamplingConfig.Height, config, logger)

			img, _, err := pathRenderer.RenderPass(1, nil)
			if err != nil {
				t.Fatalf("Path tracing render failed: %v", err)
			}

			luminance := CalculateAverageLuminance(img)
			t.Logf("Average luminance: %.6f", luminance)

			if tt.expectLight && luminance <= 0 {
				t.Errorf("Expected non-zero luminance for a lit scene, got %.6f", luminance)
			}
		})
	}
}
