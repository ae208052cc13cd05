package material

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// IsSpecular reports that dielectrics always scatter via a delta BSDF.
func (d *Dielectric) IsSpecular() bool { return true }

// IsTransparent reports that shadow rays should walk through a dielectric
// rather than treat it as an opaque occluder.
func (d *Dielectric) IsTransparent() bool { return true }

// EvaluateTransmission returns how much a shadow ray arriving along
// rayDir is attenuated passing through hit: the Fresnel transmittance
// (1 - reflectance) at the boundary, tinted grey since clear glass
// absorbs nothing. This lets a shadow walk cast a dim, untinted shadow
// under a glass object rather than a fully opaque one.
func (d *Dielectric) EvaluateTransmission(rayDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	unitDirection := rayDir.Normalize()

	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	} else {
		refractionRatio = d.RefractiveIndex
	}

	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	fresnel := Reflectance(cosTheta, refractionRatio)
	transmittance := 1.0 - fresnel
	return core.NewVec3(transmittance, transmittance, transmittance)
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	// Dielectrics always attenuate by 1.0 (no color absorption for clear glass)
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	// Determine if we're entering or exiting the material
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex // Ray is entering the material (from air to glass)
	} else {
		refractionRatio = d.RefractiveIndex // Ray is exiting the material (from glass to air)
	}

	// Normalize the incoming ray direction
	unitDirection := rayIn.Direction.Normalize()

	// Calculate the cosine of the angle between ray and normal
	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		// Reflect
		direction = reflectVector(unitDirection, hit.Normal)
	} else {
		// Refract
		direction = refractVector(unitDirection, hit.Normal, refractionRatio)
	}

	scattered := core.Ray{Origin: hit.Point, Direction: direction}

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   scattered,
		Attenuation: attenuation,
		PDF:         0, // Specular materials have no PDF
	}, true
}

// EvaluateBRDF evaluates the BRDF for specific incoming/outgoing directions.
// Dielectrics are delta materials: the result is non-zero only when
// outgoingDir matches the perfect reflection or refraction direction for
// incomingDir, in which case it returns the Fresnel-weighted reflectance or
// transmittance. Refraction additionally needs the radiance/importance
// correction since transmission through an index boundary isn't reciprocal:
// radiance compresses by 1/RefractiveIndex^2 relative to importance.
func (d *Dielectric) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction, mode TransportMode) core.Vec3 {
	unitDirection := incomingDir.Normalize()
	outgoing := outgoingDir.Normalize()

	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	} else {
		refractionRatio = d.RefractiveIndex
	}

	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	cannotRefract := refractionRatio*sinTheta > 1.0
	fresnel := Reflectance(cosTheta, refractionRatio)

	if directionsMatch(outgoing, reflectVector(unitDirection, hit.Normal)) {
		return core.NewVec3(fresnel, fresnel, fresnel)
	}

	if !cannotRefract && directionsMatch(outgoing, refractVector(unitDirection, hit.Normal, refractionRatio)) {
		transmittance := 1.0 - fresnel
		if mode == Radiance {
			transmittance /= d.RefractiveIndex * d.RefractiveIndex
		}
		return core.NewVec3(transmittance, transmittance, transmittance)
	}

	return core.Vec3{X: 0, Y: 0, Z: 0}
}

// directionsMatch reports whether two unit vectors point the same way,
// within the tolerance floating-point refraction/reflection math needs.
func directionsMatch(a, b core.Vec3) bool {
	return a.Dot(b) > 1.0-1e-6
}

// PDF calculates the probability density function for specific incoming/outgoing directions
func (d *Dielectric) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	// For specular materials: always return (0.0, true) indicating delta function
	// This is consistent with scatter.PDF = 0 and matches PBRT approach
	return 0.0, true
}

// reflectVector calculates the reflection of a vector v off a surface with normal n
func reflectVector(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refractVector calculates the refraction of a vector using Snell's law
func refractVector(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	// Use Schlick's approximation for reflectance
	// Calculate R0 for normal incidence
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
