package scene

import (
	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/geometry"
	"github.com/pathforge/raygo/pkg/lights"
	"github.com/pathforge/raygo/pkg/material"
)

// NewCausticGlassScene creates a scene built to exercise glass caustics: a
// spotlit cluster of dielectric spheres above a diffuse floor, modeled on
// the lighting setup of a classic PBRT glass caustic scene.
func NewCausticGlassScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := setupCausticGlassCamera(cameraOverrides...)
	camera := geometry.NewCamera(cameraConfig)

	s := &Scene{
		Camera:         camera,
		Shapes:         make([]geometry.Shape, 0),
		Lights:         make([]lights.Light, 0),
		SamplingConfig: createCausticGlassSamplingConfig(),
		CameraConfig:   cameraConfig,
	}

	addCausticGlassLighting(s)
	addCausticGlassFloor(s)
	addCausticGlassSpheres(s)

	return s
}

// setupCausticGlassCamera configures the camera based on a PBRT glass scene:
// LookAt -5.5 7 -5.5, -4.75 2.25 0, 0 1 0; fov 30, scale 1.5 (zoomed out)
func setupCausticGlassCamera(cameraOverrides ...geometry.CameraConfig) geometry.CameraConfig {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(-5.5, 7, -5.5),  // PBRT camera position
		LookAt:        core.NewVec3(-4.75, 2.25, 0), // PBRT look at point
		Up:            core.NewVec3(0, 1, 0),        // Y-up coordinate system
		Width:         525,
		AspectRatio:   525.0 / 750.0,
		VFov:          30.0 * 1.5, // PBRT fov * scale (zoom out)
		Aperture:      0.0,        // No depth of field
		FocusDistance: 0.0,        // Auto-calculate focus distance
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	return cameraConfig
}

// createCausticGlassSamplingConfig creates sampling configuration optimized for glass caustics
func createCausticGlassSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel:           2048,
		MaxDepth:                  20,
		RussianRouletteMinBounces: 10,    // Conservative for caustics
		AdaptiveMinSamples:        0.2,   // 20% minimum samples for complex caustics
		AdaptiveThreshold:         0.005, // Tighter threshold for caustic quality
	}
}

// addCausticGlassLighting adds a spot light and dim uniform fill, based on
// LightSource "spot" "point from" [0 5 9] "point to" [-5 2.75 0]
// "rgb I" [139.81 118.64 105.39]; LightSource "infinite" "rgb L" [0.1 0.1 0.1]
func addCausticGlassLighting(s *Scene) {
	spotFrom := core.NewVec3(0, 5, 9)
	spotTo := core.NewVec3(-5, 2.75, 0)
	spotIntensity := core.NewVec3(139.8113403320, 118.6366500854, 105.3887557983)
	s.AddSpotLight(spotFrom, spotTo, spotIntensity, 30.0, 5.0, 0.7)

	s.AddUniformInfiniteLight(core.NewVec3(0.1, 0.1, 0.1))
}

// addCausticGlassFloor adds the diffuse receiving surface for the caustics
func addCausticGlassFloor(s *Scene) {
	floorMaterial := material.NewLambertian(core.NewVec3(0.64, 0.64, 0.64))
	floor := geometry.NewPlane(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		floorMaterial,
	)
	s.Shapes = append(s.Shapes, floor)
}

// addCausticGlassSpheres adds the refractive geometry the spot light casts caustics through
func addCausticGlassSpheres(s *Scene) {
	glass := material.NewDielectric(1.25)

	centers := []core.Vec3{
		core.NewVec3(-5, 1.2, 0),
		core.NewVec3(-4, 1.0, -1.5),
		core.NewVec3(-6, 0.9, -0.8),
	}
	radii := []float64{1.2, 1.0, 0.9}

	for i, center := range centers {
		s.Shapes = append(s.Shapes, geometry.NewSphere(center, radii[i], glass))
	}
}
