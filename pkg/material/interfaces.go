package material

import "github.com/pathforge/raygo/pkg/core"

// TransportMode distinguishes tracing light forward from a source
// (Radiance) from tracing importance backward from the camera
// (Importance). Refractive BSDFs are not reciprocal under this distinction:
// evaluating one through a boundary with index ratio eta needs a 1/eta^2
// correction that only applies in one of the two directions, so every
// BSDF evaluation carries the mode it's being evaluated for.
type TransportMode int

const (
	Radiance TransportMode = iota
	Importance
)

// Material is the capability every surface hit exposes to the
// integrators: sample a scattered direction, evaluate the BSDF for an
// arbitrary direction pair (used by next-event estimation and MIS), and
// report the PDF for a direction pair along with whether the lobe is a
// delta function.
type Material interface {
	Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool)
	EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction, mode TransportMode) core.Vec3
	PDF(incomingDir, outgoingDir, normal core.Vec3) (pdf float64, isDelta bool)
}

// Emitter is implemented by materials that emit light. hit is nil when
// emission is sampled directly from a light (no surface hit in hand yet).
type Emitter interface {
	Emit(rayIn core.Ray, hit *SurfaceInteraction) core.Vec3
}

// SpecularReporter is implemented by materials whose scattering is always
// a delta distribution. The photon preprocess pass scans the scene for
// specular materials to aim caustic photons at them; materials that don't
// implement this are treated as non-specular.
type SpecularReporter interface {
	IsSpecular() bool
}

// IsSpecularMaterial reports whether m is a delta-BSDF material, for
// callers (such as the caustic photon emitter) that need a static
// specular/diffuse classification rather than a per-scatter one.
func IsSpecularMaterial(m Material) bool {
	if sr, ok := m.(SpecularReporter); ok {
		return sr.IsSpecular()
	}
	return false
}

// TransparencyReporter is implemented by materials that can pass a
// shadow ray through rather than fully occluding it (dielectrics).
// Scene.Transmittance consults this before trying to evaluate a
// transmittance factor, the same way the caustic photon emitter consults
// SpecularReporter before trying to classify a material as specular.
type TransparencyReporter interface {
	IsTransparent() bool
}

// IsTransparentMaterial reports whether m lets shadow rays pass through
// it with an attenuation factor instead of fully blocking them.
func IsTransparentMaterial(m Material) bool {
	if tr, ok := m.(TransparencyReporter); ok {
		return tr.IsTransparent()
	}
	return false
}

// TransmissionEvaluator is implemented by transparent materials to report
// how much a shadow ray arriving along rayDir is attenuated passing
// through hit, so next-event estimation can cast tinted shadows through
// glass instead of a flat binary block.
type TransmissionEvaluator interface {
	EvaluateTransmission(rayDir core.Vec3, hit *SurfaceInteraction) core.Vec3
}

// EvaluateMaterialTransmission returns m's shadow-ray attenuation at hit,
// or zero if m doesn't implement TransmissionEvaluator.
func EvaluateMaterialTransmission(m Material, rayDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	if te, ok := m.(TransmissionEvaluator); ok {
		return te.EvaluateTransmission(rayDir, hit)
	}
	return core.Vec3{}
}

// ScatterResult carries a single sampled scattering event back to the
// integrator that drove it.
type ScatterResult struct {
	Incoming    core.Ray
	Scattered   core.Ray
	Attenuation core.Vec3
	PDF         float64
}

// IsSpecular reports whether this event came from a delta BSDF, which
// integrators must follow without dividing by a PDF.
func (s ScatterResult) IsSpecular() bool { return s.PDF <= 0 }

// SurfaceInteraction records what a shape intersection hands back to
// shading: the hit point, the oriented shading normal, the geometric
// tangent (aligned with increasing U, used as the TBN frame's x-axis for
// normal-mapped materials), the surface's parametric UV (for textured
// materials), the ray parameter, which side of the surface was hit, and
// the material to evaluate there.
type SurfaceInteraction struct {
	Point     core.Vec3
	Normal    core.Vec3
	Tangent   core.Vec3
	UV        core.Vec2
	T         float64
	FrontFace bool
	Material  Material
}

// SetFaceNormal orients Normal against the incoming ray and records which
// side of the surface it struck.
func (h *SurfaceInteraction) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}
