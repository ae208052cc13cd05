package material

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
)

// Isotropic is the phase function a ConstantMedium scatters by: it
// redirects a ray uniformly over the sphere regardless of the incoming
// direction, giving fog/smoke their direction-independent look.
type Isotropic struct {
	Albedo   core.Vec3
	Emission core.Vec3 // optional self-glow, e.g. a luminous fog
}

// NewIsotropic creates a non-emissive isotropic phase function material.
func NewIsotropic(albedo core.Vec3) *Isotropic {
	return &Isotropic{Albedo: albedo}
}

// NewEmissiveIsotropic creates an isotropic medium that also glows.
func NewEmissiveIsotropic(albedo, emission core.Vec3) *Isotropic {
	return &Isotropic{Albedo: albedo, Emission: emission}
}

// Scatter samples a uniform direction on the unit sphere.
func (i *Isotropic) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	direction := core.SampleOnUnitSphere(sampler.Get2D())
	scattered := core.Ray{Origin: hit.Point, Direction: direction, Time: rayIn.Time, Wavelength: rayIn.Wavelength}

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   scattered,
		Attenuation: i.Albedo,
		PDF:         1.0 / (4.0 * math.Pi),
	}, true
}

// EvaluateBRDF is constant over the sphere: albedo / 4π.
func (i *Isotropic) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction, mode TransportMode) core.Vec3 {
	return i.Albedo.Multiply(1.0 / (4.0 * math.Pi))
}

// PDF is uniform over the sphere: 1/4π, not a delta function.
func (i *Isotropic) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 1.0 / (4.0 * math.Pi), false
}

// Emit returns the medium's self-glow, if any.
func (i *Isotropic) Emit(rayIn core.Ray, hit *SurfaceInteraction) core.Vec3 {
	return i.Emission
}
