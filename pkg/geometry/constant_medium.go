package geometry

import (
	"math"
	"math/rand"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// ConstantMedium is a participating medium of constant density σ bounded
// by an arbitrary closed shape. Rays entering the boundary sample a
// free-flight distance via Beer-Lambert; if that distance lands inside
// the boundary, the medium reports a scattering event with an arbitrary
// normal and its isotropic phase function material.
type ConstantMedium struct {
	Boundary      Shape
	NegInvDensity float64 // -1/σ, precomputed for the free-flight sample
	PhaseFunction material.Material
}

// NewConstantMedium creates a medium of the given boundary shape and
// extinction coefficient density, scattering via an isotropic phase
// function with the given albedo.
func NewConstantMedium(boundary Shape, density float64, albedo core.Vec3) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		NegInvDensity: -1.0 / density,
		PhaseFunction: material.NewIsotropic(albedo),
	}
}

// Hit implements free-flight sampling through the medium: find the two
// boundary intersections, sample a scattering distance, and report a hit
// if that distance falls inside the segment.
func (cm *ConstantMedium) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	hit1, ok1 := cm.Boundary.Hit(ray, math.Inf(-1), math.Inf(1))
	if !ok1 {
		return nil, false
	}

	hit2, ok2 := cm.Boundary.Hit(ray, hit1.T+0.0001, math.Inf(1))
	if !ok2 {
		return nil, false
	}

	t1 := math.Max(hit1.T, tMin)
	t2 := math.Min(hit2.T, tMax)
	if t1 >= t2 {
		return nil, false
	}
	if t1 < 0 {
		t1 = 0
	}

	rayLength := ray.Direction.Length()
	distanceInsideBoundary := (t2 - t1) * rayLength

	xi := cm.freeFlightSample(ray)
	hitDistance := cm.NegInvDensity * math.Log(xi)
	if hitDistance > distanceInsideBoundary {
		return nil, false
	}

	t := t1 + hitDistance/rayLength
	point := ray.At(t)

	return &material.SurfaceInteraction{
		T:         t,
		Point:     point,
		Normal:    core.NewVec3(1, 0, 0), // arbitrary: isotropic scattering doesn't use it
		FrontFace: true,
		Material:  cm.PhaseFunction,
	}, true
}

// BoundingBox delegates to the boundary shape; the medium occupies
// exactly the boundary's volume.
func (cm *ConstantMedium) BoundingBox() AABB {
	return cm.Boundary.BoundingBox()
}

// freeFlightSample draws ξ for the Beer-Lambert free-flight distance from
// ray's thread-local sampler. Every render path sets Ray.Sampler before a
// ray reaches the BVH, so the fallback below only guards call sites (light
// PDF geometry checks against unrelated shapes, tests) that never actually
// intersect a medium; it still has to be safe rather than nil-panic if one
// someday does.
func (cm *ConstantMedium) freeFlightSample(ray core.Ray) float64 {
	if ray.Sampler != nil {
		return ray.Sampler.Get1D()
	}
	return rand.Float64()
}
