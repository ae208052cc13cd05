package material

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
)

// dispersionSamplingCompensation offsets the fact that a single sampled
// wavelength only carries 1/N of the spectrum's energy; scaling by 3
// keeps the integrated image as bright as a non-dispersive white
// reference. Empirical, preserved from the reference renderer rather
// than re-derived.
const dispersionSamplingCompensation = 3.0

// DispersiveGlass is a dielectric whose refractive index depends on
// wavelength via Cauchy's two-term equation n(λ) = A + B/λ_μm². Incoming
// white rays (Wavelength == 0) are assigned a random wavelength in the
// visible spectrum on first hit; the scattered ray then carries that
// wavelength through any further bounces so a dispersed ray stays a
// single color.
type DispersiveGlass struct {
	Albedo  core.Vec3
	CauchyA float64
	CauchyB float64
}

// NewDispersiveGlass creates a dispersive dielectric. cauchyA is
// approximately the base refractive index, cauchyB the dispersion
// strength in µm² (e.g. A≈1.458, B≈0.00354 for fused silica/prism demos).
func NewDispersiveGlass(albedo core.Vec3, cauchyA, cauchyB float64) *DispersiveGlass {
	return &DispersiveGlass{Albedo: albedo, CauchyA: cauchyA, CauchyB: cauchyB}
}

// IsSpecular reports that dispersive glass always scatters via a delta BSDF.
func (d *DispersiveGlass) IsSpecular() bool { return true }

// IsTransparent reports that shadow rays should walk through dispersive
// glass rather than treat it as an opaque occluder.
func (d *DispersiveGlass) IsTransparent() bool { return true }

// EvaluateTransmission returns the Fresnel transmittance for a shadow ray
// passing through hit, tinted by Albedo. Shadow rays don't carry a traced
// wavelength the way a scattered ray does, so this uses the base Cauchy
// index CauchyA rather than dispersing per-wavelength; a tinted shadow
// under colored dispersive glass is still a reasonable approximation
// without a full spectral shadow walk.
func (d *DispersiveGlass) EvaluateTransmission(rayDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	unitDirection := rayDir.Normalize()

	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.CauchyA
	} else {
		refractionRatio = d.CauchyA
	}

	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	fresnel := Reflectance(cosTheta, refractionRatio)
	transmittance := 1.0 - fresnel
	return d.Albedo.Multiply(transmittance)
}

// Scatter implements the Material interface for dispersive dielectric scattering.
func (d *DispersiveGlass) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	var wavelength float64
	var colorFilter core.Vec3

	if rayIn.Wavelength <= 0 {
		wavelength = 380.0 + sampler.Get1D()*(780.0-380.0)
		colorFilter = core.WavelengthToRGB(wavelength).MultiplyVec(d.Albedo).Multiply(dispersionSamplingCompensation)
	} else {
		wavelength = rayIn.Wavelength
		colorFilter = core.NewVec3(1, 1, 1)
	}

	wavelengthUm := wavelength / 1000.0
	refractiveIndex := d.CauchyA + d.CauchyB/(wavelengthUm*wavelengthUm)

	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / refractiveIndex
	} else {
		refractionRatio = refractiveIndex
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = reflectVector(unitDirection, hit.Normal)
	} else {
		direction = refractVector(unitDirection, hit.Normal, refractionRatio)
	}

	scattered := core.Ray{Origin: hit.Point, Direction: direction, Time: rayIn.Time, Wavelength: wavelength}

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   scattered,
		Attenuation: colorFilter,
		PDF:         0,
	}, true
}

// EvaluateBRDF mirrors Dielectric's delta-distribution evaluation using
// the base Cauchy index CauchyA; no wavelength reaches this method, so it
// does not disperse per wavelength.
func (d *DispersiveGlass) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction, mode TransportMode) core.Vec3 {
	refractiveIndex := d.CauchyA
	unitDirection := incomingDir.Normalize()
	outgoing := outgoingDir.Normalize()

	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / refractiveIndex
	} else {
		refractionRatio = refractiveIndex
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
			transmittance /= refractiveIndex * refractiveIndex
		}
		return core.NewVec3(transmittance, transmittance, transmittance)
	}
	return core.Vec3{}
}

// PDF reports a delta distribution, same as Dielectric.
func (d *DispersiveGlass) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, true
}
