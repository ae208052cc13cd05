package geometry

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// Discriminant
	discriminant := halfB*halfB - a*c

	// No intersection if discriminant is negative
	if discriminant < 0 {
		return nil, false
	}

	// Find the nearest intersection point within the valid range
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		// Try the farther intersection point
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			// Both intersections are outside valid range
			return nil, false
		}
	}

	// Create hit record with material
	hitRecord := &material.SurfaceInteraction{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Calculate outward normal (from center to hit point)
	outwardNormal := hitRecord.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)
	hitRecord.UV = sphereUV(outwardNormal)
	hitRecord.Tangent = sphereTangent(outwardNormal)

	return hitRecord, true
}

// sphereTangent returns the tangent aligned with increasing U (the φ
// direction of the sphere's (u,v) parameterization), generated
// orthogonally to the world up vector; at the poles, where up and the
// outward normal are parallel, it falls back to the world X axis.
func sphereTangent(outwardNormal core.Vec3) core.Vec3 {
	up := core.NewVec3(0, 1, 0)
	tangent := up.Cross(outwardNormal)
	if tangent.LengthSquared() < 1e-12 {
		return core.NewVec3(1, 0, 0)
	}
	return tangent.Normalize()
}

// sphereUV maps a point on the unit sphere (an outward normal) to texture
// coordinates using the standard spherical parameterization.
func sphereUV(p core.Vec3) core.Vec2 {
	theta := math.Acos(-p.Y)
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// BoundingSphere returns the sphere itself: exact, unlike the AABB's
// circumscribed-cube-corner radius.
func (s *Sphere) BoundingSphere() (core.Vec3, float64) {
	return s.Center, s.Radius
}
