package geometry

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// MovingSphere is a sphere whose center translates linearly between two
// shutter times. Motion is translation-only; the bounding box is the
// union of the sphere's position at both endpoints.
type MovingSphere struct {
	Center0, Center1 core.Vec3
	Time0, Time1     float64
	Radius           float64
	Material         material.Material
}

// NewMovingSphere creates a sphere moving linearly from center0 at time0
// to center1 at time1.
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, mat material.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: mat,
	}
}

// CenterAt interpolates the sphere's center for the given ray time.
func (s *MovingSphere) CenterAt(time float64) core.Vec3 {
	if s.Time1 == s.Time0 {
		return s.Center0
	}
	frac := (time - s.Time0) / (s.Time1 - s.Time0)
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply(frac))
}

// Hit tests intersection against the sphere's position at the ray's time.
func (s *MovingSphere) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	center := s.CenterAt(ray.Time)

	oc := ray.Origin.Subtract(center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hitRecord := &material.SurfaceInteraction{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	outwardNormal := hitRecord.Point.Subtract(center).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)
	hitRecord.UV = sphereUV(outwardNormal)
	hitRecord.Tangent = sphereTangent(outwardNormal)

	return hitRecord, true
}

// BoundingBox returns the union of the sphere's bounding box at both
// shutter endpoints, so a single static BVH node can contain the motion.
func (s *MovingSphere) BoundingBox() AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	box0 := NewAABB(s.Center0.Subtract(radius), s.Center0.Add(radius))
	box1 := NewAABB(s.Center1.Subtract(radius), s.Center1.Add(radius))
	return box0.Union(box1)
}
