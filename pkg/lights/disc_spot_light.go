package lights

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/geometry"
	"github.com/pathforge/raygo/pkg/material"
)

// discSpotLightMaterial implements directional emission for disc spot lights
type discSpotLightMaterial struct {
	baseEmission    core.Vec3
	spotDirection   core.Vec3 // Direction the spot light points
	cosTotalWidth   float64   // Cosine of total cone angle (outer edge)
	cosFalloffStart float64   // Cosine of falloff start angle (inner cone)
}

// Scatter implements the Material interface (spot lights don't scatter, only emit)
func (dslm *discSpotLightMaterial) Scatter(rayIn core.Ray, hit material.SurfaceInteraction, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

// Emit implements the Emitter interface with directional spot light falloff
func (dslm *discSpotLightMaterial) Emit(rayIn core.Ray, hit *material.SurfaceInteraction) core.Vec3 {
	// Only emit from the front face of the disc
	if hit != nil && !hit.FrontFace {
		return core.NewVec3(0, 0, 0)
	}

	// The ray should be traveling roughly opposite to the spot direction for
	// this to be a ray leaving the emitting side, not hitting the back.
	cosAngleToSpot := rayIn.Direction.Dot(dslm.spotDirection)
	if cosAngleToSpot > -0.3 {
		return core.NewVec3(0, 0, 0)
	}

	// Directional control is applied in direct light sampling; indirect
	// (caustic) rays get full intensity so they remain visible.
	return dslm.baseEmission
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (dslm *discSpotLightMaterial) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *material.SurfaceInteraction, mode material.TransportMode) core.Vec3 {
	return core.Vec3{X: 0, Y: 0, Z: 0}
}

// PDF calculates the probability density function for specific incoming/outgoing directions
func (dslm *discSpotLightMaterial) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, false
}

// DiscSpotLight represents a directional spot light implemented as a disc area light
type DiscSpotLight struct {
	position        core.Vec3
	direction       core.Vec3
	emission        core.Vec3
	cosTotalWidth   float64
	cosFalloffStart float64
	discLight       *DiscLight
}

// NewDiscSpotLight creates a new disc spot light.
// from: light position. to: point the light is aimed at. coneAngleDegrees:
// total cone angle. coneDeltaAngleDegrees: falloff transition angle. radius:
// radius of the disc light in world units.
func NewDiscSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees, radius float64) *DiscSpotLight {
	direction := to.Subtract(from).Normalize()

	totalWidthRadians := coneAngleDegrees * math.Pi / 180.0
	falloffStartRadians := (coneAngleDegrees - coneDeltaAngleDegrees) * math.Pi / 180.0

	mat := &discSpotLightMaterial{
		baseEmission:    emission,
		spotDirection:   direction,
		cosTotalWidth:   math.Cos(totalWidthRadians),
		cosFalloffStart: math.Cos(falloffStartRadians),
	}

	discLight := NewDiscLight(from, direction, radius, mat)

	return &DiscSpotLight{
		position:        from,
		direction:       direction,
		emission:        emission,
		cosTotalWidth:   math.Cos(totalWidthRadians),
		cosFalloffStart: math.Cos(falloffStartRadians),
		discLight:       discLight,
	}
}

func (dsl *DiscSpotLight) Type() LightType {
	return LightTypeArea
}

// Sample implements the Light interface - samples a point on the disc for direct lighting
func (dsl *DiscSpotLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	lightSample := dsl.discLight.Sample(point, normal, sample)

	lightToPoint := point.Subtract(lightSample.Point).Normalize()
	cosAngle := dsl.direction.Dot(lightToPoint)
	spotAttenuation := dsl.falloff(cosAngle)

	lightSample.Emission = lightSample.Emission.Multiply(spotAttenuation)

	return lightSample
}

// PDF implements the Light interface - returns the probability density for sampling a given direction
func (dsl *DiscSpotLight) PDF(point, normal, direction core.Vec3) float64 {
	return dsl.discLight.PDF(point, normal, direction)
}

// falloff computes the spot attenuation for the angle between the spot
// direction and the direction to the shading point.
func (dsl *DiscSpotLight) falloff(cosAngle float64) float64 {
	if cosAngle < dsl.cosTotalWidth {
		return 0.0
	}
	if cosAngle >= dsl.cosFalloffStart {
		return 1.0
	}
	delta := (cosAngle - dsl.cosTotalWidth) / (dsl.cosFalloffStart - dsl.cosTotalWidth)
	return delta * delta * delta * delta
}

// GetIntensityAt returns the light intensity at a given point, useful for
// debugging and visualization.
func (dsl *DiscSpotLight) GetIntensityAt(point core.Vec3) core.Vec3 {
	toLightVec := dsl.position.Subtract(point)
	distance := toLightVec.Length()
	if distance == 0 {
		return core.NewVec3(0, 0, 0)
	}

	toLight := toLightVec.Normalize()
	lightToPoint := toLight.Multiply(-1)

	cosAngle := dsl.direction.Dot(lightToPoint)
	spotAttenuation := dsl.falloff(cosAngle)

	return dsl.emission.Multiply(spotAttenuation / (distance * distance))
}

// Hit implements the Shape interface for caustic ray intersection
func (dsl *DiscSpotLight) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	return dsl.discLight.Hit(ray, tMin, tMax)
}

// BoundingBox implements the Shape interface
func (dsl *DiscSpotLight) BoundingBox() geometry.AABB {
	return dsl.discLight.BoundingBox()
}

// GetDisc returns the underlying disc for scene integration
func (dsl *DiscSpotLight) GetDisc() *geometry.Disc {
	return dsl.discLight.Disc
}

// SampleEmission implements the Light interface - samples emission from the disc spot light surface
func (dsl *DiscSpotLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	point, normal := dsl.discLight.Disc.SampleUniform(samplePoint)

	emissionDir := core.SampleCone(dsl.direction, dsl.cosTotalWidth, sampleDirection)

	cosTheta := emissionDir.Dot(dsl.direction)
	spotAttenuation := dsl.falloff(cosTheta)

	conePDF := UniformConePDF(dsl.cosTotalWidth)
	areaPDF := 1.0 / (math.Pi * dsl.discLight.Radius * dsl.discLight.Radius)

	emission := dsl.emission.Multiply(spotAttenuation)

	return EmissionSample{
		Point:        point,
		Normal:       normal,
		Direction:    emissionDir,
		Emission:     emission,
		AreaPDF:      areaPDF,
		DirectionPDF: conePDF,
	}
}

// EmissionPDF implements the Light interface - calculates PDF for emission sampling
func (dsl *DiscSpotLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	basePDF := dsl.discLight.EmissionPDF(point, direction)
	if basePDF == 0.0 {
		return 0.0
	}

	cosAngleToSpot := direction.Dot(dsl.direction)
	if cosAngleToSpot < dsl.cosTotalWidth {
		return 0.0
	}

	areaPDF := 1.0 / (math.Pi * dsl.discLight.Radius * dsl.discLight.Radius)
	return areaPDF
}

// Power implements PowerReporter - the disc's full-hemisphere power
// scaled by the cone's fraction of the full sphere of directions,
// (1 - cos(totalWidth)) / 2.
func (dsl *DiscSpotLight) Power() float64 {
	area := math.Pi * dsl.discLight.Radius * dsl.discLight.Radius
	coneFraction := (1 - dsl.cosTotalWidth) / 2
	return dsl.emission.Luminance() * area * math.Pi * coneFraction
}

// Emit implements the Light interface - returns material emission
func (dsl *DiscSpotLight) Emit(ray core.Ray, hit *material.SurfaceInteraction) core.Vec3 {
	if emitter, isEmissive := dsl.discLight.Material.(material.Emitter); isEmissive {
		return emitter.Emit(ray, hit)
	}
	return core.Vec3{X: 0, Y: 0, Z: 0}
}
