package scene

import (
	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/geometry"
	"github.com/pathforge/raygo/pkg/lights"
	"github.com/pathforge/raygo/pkg/material"
)

// CornellVariant selects which objects populate the interior of the box,
// so the same walls/lighting can be reused for quick empty-box sanity
// checks as well as the classic two-sphere scene.
type CornellVariant int

const (
	CornellEmpty  CornellVariant = iota // bare box, no interior objects
	CornellSpheres                      // classic metal + glass sphere pair
	CornellSmoke                        // glass sphere for caustics plus two constant-density media
)

// NewCornellScene creates a classic Cornell box scene with quad walls and area lighting
func NewCornellScene(variant CornellVariant) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:        core.NewVec3(278, 278, 0),     // Look at the center of the box
		Up:            core.NewVec3(0, 1, 0),         // Standard up direction
		Width:         400,
		AspectRatio:   1.0,  // Square aspect ratio for Cornell box
		VFov:          40.0, // Field of view
		Aperture:      0.0,  // No depth of field for Cornell box
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}

	samplingConfig := SamplingConfig{
		SamplesPerPixel:           150,
		MaxDepth:                  40,
		RussianRouletteMinBounces: 4, // More aggressive - fewer complex caustics
		AdaptiveMinSamples:        0.1,
		AdaptiveThreshold:         0.02,
	}

	camera := geometry.NewCamera(cameraConfig)

	s := &Scene{
		Camera:         camera,
		Shapes:         make([]geometry.Shape, 0),
		Lights:         make([]lights.Light, 0),
		SamplingConfig: samplingConfig,
		CameraConfig:   cameraConfig,
	}

	// Create materials
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	// Floor (white) - XZ plane at y=0
	floor := geometry.NewQuad(
		core.NewVec3(0, 0, 0),       // corner
		core.NewVec3(boxSize, 0, 0), // u vector (X direction)
		core.NewVec3(0, 0, boxSize), // v vector (Z direction)
		white,
	)

	// Ceiling (white) - XZ plane at y=boxSize
	ceiling := geometry.NewQuad(
		core.NewVec3(0, boxSize, 0), // corner
		core.NewVec3(boxSize, 0, 0), // u vector (X direction)
		core.NewVec3(0, 0, boxSize), // v vector (Z direction)
		white,
	)

	// Back wall (white) - XY plane at z=boxSize
	backWall := geometry.NewQuad(
		core.NewVec3(0, 0, boxSize), // corner
		core.NewVec3(boxSize, 0, 0), // u vector (X direction)
		core.NewVec3(0, boxSize, 0), // v vector (Y direction)
		white,
	)

	// Left wall (red) - YZ plane at x=0
	leftWall := geometry.NewQuad(
		core.NewVec3(0, 0, 0),       // corner
		core.NewVec3(0, 0, boxSize), // u vector (Z direction)
		core.NewVec3(0, boxSize, 0), // v vector (Y direction)
		red,
	)

	// Right wall (green) - YZ plane at x=boxSize
	rightWall := geometry.NewQuad(
		core.NewVec3(boxSize, 0, 0), // corner
		core.NewVec3(0, boxSize, 0), // u vector (Y direction)
		core.NewVec3(0, 0, boxSize), // v vector (Z direction)
		green,
	)

	s.Shapes = append(s.Shapes, floor, ceiling, backWall, leftWall, rightWall)

	// Ceiling light (smaller quad in the center of the ceiling)
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.AddQuadLight(
		core.NewVec3(lightOffset, boxSize-1, lightOffset), // corner (slightly below ceiling)
		core.NewVec3(lightSize, 0, 0),                     // u vector (X direction)
		core.NewVec3(0, 0, lightSize),                      // v vector (Z direction)
		core.NewVec3(15.0, 15.0, 15.0),                     // bright white emission
	)

	if variant == CornellSpheres {
		leftSphere := geometry.NewSphere(
			core.NewVec3(185, 82.5, 169), // position
			82.5,                         // radius
			material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0), // shiny metal
		)

		rightSphere := geometry.NewSphere(
			core.NewVec3(370, 90, 351),  // position
			90,                          // radius
			material.NewDielectric(1.5), // glass
		)

		s.Shapes = append(s.Shapes, leftSphere, rightSphere)
	}

	if variant == CornellSmoke {
		// Glass sphere for photon-mapped caustics, as in the spheres
		// variant's right sphere.
		glassSphere := geometry.NewSphere(
			core.NewVec3(190, 90, 190),
			90,
			material.NewDielectric(1.5),
		)

		// White smoke block: a constant-density medium bounded by
		// a box, scattering isotropically.
		smokeBoundary := geometry.NewAxisAlignedBox(
			core.NewVec3(370, 150, 370),
			core.NewVec3(90, 150, 90),
			material.NewIsotropic(core.NewVec3(1, 1, 1)),
		)
		smoke := geometry.NewConstantMedium(smokeBoundary, 0.008, core.NewVec3(1, 1, 1))

		// A denser, warmer fog pocket drifting near the ceiling light.
		fogBoundary := geometry.NewSphere(
			core.NewVec3(150, 450, 200),
			70,
			material.NewIsotropic(core.NewVec3(1, 1, 1)),
		)
		fog := geometry.NewConstantMedium(fogBoundary, 0.02, core.NewVec3(1.0, 0.7, 0.4))

		s.Shapes = append(s.Shapes, glassSphere, smoke, fog)
	}

	return s
}
