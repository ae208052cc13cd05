package geometry

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3         // A point on the plane
	Normal   core.Vec3         // Normal vector (should be normalized)
	Material material.Material // Material of the plane
	Right    core.Vec3         // Orthonormal basis vector spanning the plane, U axis
	Up       core.Vec3         // Orthonormal basis vector spanning the plane, V axis
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	normal = normal.Normalize()
	right, up := orthonormalBasis(normal)
	return &Plane{
		Point:    point,
		Normal:   normal,
		Material: mat,
		Right:    right,
		Up:       up,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	// Calculate denominator: dot product of ray direction and plane normal
	denominator := ray.Direction.Dot(p.Normal)

	// If denominator is close to zero, ray is parallel to plane (no intersection)
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	// Calculate t parameter: t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator

	// Check if intersection is within valid range
	if t < tMin || t > tMax {
		return nil, false
	}

	// Calculate intersection point
	hitPoint := ray.At(t)

	// Create hit record
	hitRecord := &material.SurfaceInteraction{
		T:        t,
		Point:    hitPoint,
		Material: p.Material,
		UV:       p.uv(hitPoint),
		Tangent:  p.Right,
	}

	// Set face normal (plane normal always points in the same direction)
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}

// planeTextureScale is the world-unit size of one UV tile, so a checker
// or image texture repeats at a reasonable frequency across an otherwise
// infinite plane instead of being sampled at a single (0,0) point.
const planeTextureScale = 4.0

// uv maps a world point on the plane to tiling texture coordinates over
// the plane's own Right/Up basis, wrapping into [0,1)x[0,1) the way a
// repeating texture would.
func (p *Plane) uv(point core.Vec3) core.Vec2 {
	toPoint := point.Subtract(p.Point)
	u := toPoint.Dot(p.Right) / planeTextureScale
	v := toPoint.Dot(p.Up) / planeTextureScale
	return core.NewVec2(wrapUnit(u), wrapUnit(v))
}

// wrapUnit wraps x into [0,1), matching how a tiled texture repeats.
func wrapUnit(x float64) float64 {
	x -= math.Floor(x)
	return x
}

// BoundingBox returns a bounding box for this plane
func (p *Plane) BoundingBox() AABB {
	const largeValue = 1e6
	const epsilon = 0.001 // Small thickness to avoid zero-width bounding box

	// Check if the plane is axis-aligned for better BVH performance
	alignment := getAxisAlignment(p.Normal)

	switch alignment {
	case XAxisAligned:
		// Plane is perpendicular to X axis (e.g., wall at x = constant)
		x := p.Point.X
		return NewAABB(
			core.NewVec3(x-epsilon, -largeValue, -largeValue),
			core.NewVec3(x+epsilon, largeValue, largeValue),
		)
	case YAxisAligned:
		// Plane is perpendicular to Y axis (e.g., ground plane at y = constant)
		y := p.Point.Y
		return NewAABB(
			core.NewVec3(-largeValue, y-epsilon, -largeValue),
			core.NewVec3(largeValue, y+epsilon, largeValue),
		)
	case ZAxisAligned:
		// Plane is perpendicular to Z axis (e.g., back wall at z = constant)
		z := p.Point.Z
		return NewAABB(
			core.NewVec3(-largeValue, -largeValue, z-epsilon),
			core.NewVec3(largeValue, largeValue, z+epsilon),
		)
	default:
		// Not axis-aligned - use large bounding box (less optimal but correct)
		return NewAABB(
			core.NewVec3(-largeValue, -largeValue, -largeValue),
			core.NewVec3(largeValue, largeValue, largeValue),
		)
	}
}
