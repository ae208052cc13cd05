package material

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
)

// Lambertian represents a perfectly diffuse material. When NormalMap is
// set, the shading normal used for both sampling and BRDF evaluation is
// perturbed by a tangent-space normal map before any of the cosine-weighted
// math runs, so bump detail shows up in both direct and indirect light.
type Lambertian struct {
	Albedo    ColorSource // Base color/reflectance (can be solid or textured)
	NormalMap ColorSource // Optional tangent-space normal map; nil disables perturbation
}

// NewLambertian creates a new lambertian material with solid color (backward compatibility)
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedoTexture ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedoTexture}
}

// NewNormalMappedLambertian creates a lambertian material whose shading
// normal is perturbed by normalMap, a texture whose RGB channels encode a
// tangent-space direction as 2*color-1 (the standard normal-map
// convention: (0.5, 0.5, 1.0) is "no perturbation").
func NewNormalMappedLambertian(albedoTexture, normalMap ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedoTexture, NormalMap: normalMap}
}

// shadingNormal returns the geometric normal perturbed by the normal map,
// or the geometric normal unchanged when there's no map. The TBN frame is
// built from the hit's geometric tangent, falling back to an arbitrary
// perpendicular when the shape never bothered to compute one.
func (l *Lambertian) shadingNormal(hit SurfaceInteraction) core.Vec3 {
	if l.NormalMap == nil {
		return hit.Normal
	}

	sample := l.NormalMap.Evaluate(hit.UV, hit.Point)
	tangentSpace := sample.Multiply(2.0).Subtract(core.NewVec3(1, 1, 1))

	tangent, bitangent := core.BuildTangentFrame(hit.Normal, hit.Tangent)
	perturbed := tangent.Multiply(tangentSpace.X).
		Add(bitangent.Multiply(tangentSpace.Y)).
		Add(hit.Normal.Multiply(tangentSpace.Z))

	if perturbed.LengthSquared() < 1e-12 {
		return hit.Normal
	}
	return perturbed.Normalize()
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	shadingNormal := l.shadingNormal(hit)

	// Generate cosine-weighted random direction in hemisphere around the
	// (possibly bump-perturbed) shading normal
	scatterDirection := core.SampleCosineHemisphere(shadingNormal, sampler.Get2D())
	scattered := core.Ray{Origin: hit.Point, Direction: scatterDirection, Time: rayIn.Time, Wavelength: rayIn.Wavelength}

	// Calculate PDF: cos(θ) / π where θ is angle from the shading normal
	cosTheta := scatterDirection.Normalize().Dot(shadingNormal)
	if cosTheta < 0 {
		cosTheta = 0 // Clamp to avoid negative values
	}
	pdf := cosTheta / math.Pi

	// Sample texture at UV coordinates to get albedo
	albedo := l.Albedo.Evaluate(hit.UV, hit.Point)

	// BRDF: albedo / π (proper energy conservation)
	attenuation := albedo.Multiply(1.0 / math.Pi)

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   scattered,
		Attenuation: attenuation,
		PDF:         pdf,
	}, true
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions
func (l *Lambertian) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction, mode TransportMode) core.Vec3 {
	// Lambertian BRDF is constant: albedo / π
	normal := l.shadingNormal(*hit)
	cosTheta := outgoingDir.Dot(normal)
	if cosTheta <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Below surface
	}

	// Sample texture at UV coordinates to get albedo
	albedo := l.Albedo.Evaluate(hit.UV, hit.Point)
	return albedo.Multiply(1.0 / math.Pi)
}

// PDF calculates the probability density function for specific incoming/outgoing directions.
// normal is whatever the caller has in hand (usually the geometric
// normal); callers that already hold the hit record and want the
// bump-perturbed density should go through EvaluateBRDF/Scatter instead.
func (l *Lambertian) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	// Cosine-weighted hemisphere sampling: cos(θ) / π
	cosTheta := outgoingDir.Dot(normal)
	if cosTheta <= 0 {
		return 0.0, false
	}
	return cosTheta / math.Pi, false // Not a delta function
}
