package geometry

import (
	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// DummyMaterial is a minimal material.Material implementation used across
// this package's tests where only shape intersection behavior is exercised.
type DummyMaterial struct{}

func (d DummyMaterial) Scatter(rayIn core.Ray, hit material.SurfaceInteraction, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

func (d DummyMaterial) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *material.SurfaceInteraction, mode material.TransportMode) core.Vec3 {
	return core.Vec3{X: 0, Y: 0, Z: 0}
}

func (d DummyMaterial) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, false
}

// MockTriangleMaterial is DummyMaterial's counterpart for triangle mesh tests.
type MockTriangleMaterial struct{}

func (m MockTriangleMaterial) Scatter(rayIn core.Ray, hit material.SurfaceInteraction, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

func (m MockTriangleMaterial) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *material.SurfaceInteraction, mode material.TransportMode) core.Vec3 {
	return core.Vec3{X: 0, Y: 0, Z: 0}
}

func (m MockTriangleMaterial) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, false
}
