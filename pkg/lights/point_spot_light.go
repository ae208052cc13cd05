package lights

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// PointSpotLight represents a directional point spot light with cone angle
// and falloff. Unlike DiscSpotLight it has no surface area: it cannot be hit
// by a ray and only participates in direct light sampling.
type PointSpotLight struct {
	position        core.Vec3
	direction       core.Vec3
	emission        core.Vec3
	cosTotalWidth   float64
	cosFalloffStart float64
}

// NewPointSpotLight creates a new point spot light.
// from: light position. to: point the light is aimed at. coneAngleDegrees:
// total cone angle. coneDeltaAngleDegrees: falloff transition angle.
func NewPointSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees float64) *PointSpotLight {
	direction := to.Subtract(from).Normalize()

	totalWidthRadians := coneAngleDegrees * math.Pi / 180.0
	falloffStartRadians := (coneAngleDegrees - coneDeltaAngleDegrees) * math.Pi / 180.0

	return &PointSpotLight{
		position:        from,
		direction:       direction,
		emission:        emission,
		cosTotalWidth:   math.Cos(totalWidthRadians),
		cosFalloffStart: math.Cos(falloffStartRadians),
	}
}

func (sl *PointSpotLight) Type() LightType {
	return LightTypePoint
}

// Sample implements the Light interface - the sample point is always the
// light's fixed position, with a delta PDF of 1.0.
func (sl *PointSpotLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	toLightVec := sl.position.Subtract(point)
	distance := toLightVec.Length()

	if distance == 0 {
		return LightSample{
			Point:     sl.position,
			Normal:    core.NewVec3(0, 1, 0),
			Direction: core.NewVec3(0, 1, 0),
			Distance:  0,
			Emission:  core.NewVec3(0, 0, 0),
			PDF:       1.0,
		}
	}

	toLight := toLightVec.Normalize()
	lightToPoint := toLight.Multiply(-1)
	cosAngle := sl.direction.Dot(lightToPoint)
	spotAttenuation := sl.falloff(cosAngle)

	emission := sl.emission.Multiply(spotAttenuation / (distance * distance))

	return LightSample{
		Point:     sl.position,
		Normal:    toLight,
		Direction: toLight,
		Distance:  distance,
		Emission:  emission,
		PDF:       1.0,
	}
}

// PDF implements the Light interface - a point light is a delta distribution:
// PDF is 1.0 for the exact direction toward the light, 0 otherwise.
func (sl *PointSpotLight) PDF(point, normal, direction core.Vec3) float64 {
	toLightVec := sl.position.Subtract(point)
	if toLightVec.Length() == 0 {
		return 0.0
	}
	toLight := toLightVec.Normalize()
	if direction.Dot(toLight) > 0.999 {
		return 1.0
	}
	return 0.0
}

// SampleEmission implements the Light interface - samples emission within the spot cone.
func (sl *PointSpotLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	emissionDir := core.SampleCone(sl.direction, sl.cosTotalWidth, sampleDirection)
	cosTheta := emissionDir.Dot(sl.direction)
	spotAttenuation := sl.falloff(cosTheta)

	conePDF := UniformConePDF(sl.cosTotalWidth)
	emission := sl.emission.Multiply(spotAttenuation)

	return EmissionSample{
		Point:        sl.position,
		Normal:       sl.direction,
		Direction:    emissionDir,
		Emission:     emission,
		AreaPDF:      1.0, // delta position distribution
		DirectionPDF: conePDF,
	}
}

// EmissionPDF implements the Light interface.
func (sl *PointSpotLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	offset := point.Subtract(sl.position)
	if offset.Length() > 1e-6 {
		return 0.0
	}
	if direction.Dot(sl.direction) < sl.cosTotalWidth {
		return 0.0
	}
	return 1.0
}

// Emit implements the Light interface. A point light has no surface to be
// hit, so it never contributes emission from a BVH intersection.
func (sl *PointSpotLight) Emit(ray core.Ray, hit *material.SurfaceInteraction) core.Vec3 {
	return core.Vec3{X: 0, Y: 0, Z: 0}
}

// falloff computes the spot attenuation for the angle between the spot
// direction and the direction to the shading point.
func (sl *PointSpotLight) falloff(cosAngle float64) float64 {
	if cosAngle < sl.cosTotalWidth {
		return 0.0
	}
	if cosAngle >= sl.cosFalloffStart {
		return 1.0
	}
	delta := (cosAngle - sl.cosTotalWidth) / (sl.cosFalloffStart - sl.cosTotalWidth)
	return delta * delta * delta * delta
}

// Power implements PowerReporter - intensity integrated over the solid
// angle the cone actually subtends, rather than the full 4*pi a point
// light would otherwise radiate into.
func (sl *PointSpotLight) Power() float64 {
	solidAngle := 2 * math.Pi * (1 - sl.cosTotalWidth)
	return sl.emission.Luminance() * solidAngle
}

// GetIntensityAt returns the light intensity at a given point, useful for
// debugging and visualization.
func (sl *PointSpotLight) GetIntensityAt(point core.Vec3) core.Vec3 {
	toLightVec := sl.position.Subtract(point)
	distance := toLightVec.Length()
	if distance == 0 {
		return core.NewVec3(0, 0, 0)
	}

	toLight := toLightVec.Normalize()
	lightToPoint := toLight.Multiply(-1)

	cosAngle := sl.direction.Dot(lightToPoint)
	spotAttenuation := sl.falloff(cosAngle)

	return sl.emission.Multiply(spotAttenuation / (distance * distance))
}
