package geometry

import (
	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// MovingMesh wraps a static TriangleMesh with a linear translation over
// the shutter interval. Rather than rebuilding the mesh's BVH per time
// sample, the incoming ray is translated into the mesh's rest frame
// before delegating, and the resulting hit point is translated back.
type MovingMesh struct {
	Mesh         *TriangleMesh
	Translation0 core.Vec3
	Translation1 core.Vec3
	Time0, Time1 float64
}

// NewMovingMesh creates a mesh that translates linearly from offset0 at
// time0 to offset1 at time1, relative to the mesh's given vertex positions.
func NewMovingMesh(mesh *TriangleMesh, offset0, offset1 core.Vec3, time0, time1 float64) *MovingMesh {
	return &MovingMesh{
		Mesh:         mesh,
		Translation0: offset0,
		Translation1: offset1,
		Time0:        time0,
		Time1:        time1,
	}
}

// translationAt interpolates the mesh's world-space offset at the given
// ray time.
func (m *MovingMesh) translationAt(time float64) core.Vec3 {
	if m.Time1 == m.Time0 {
		return m.Translation0
	}
	frac := (time - m.Time0) / (m.Time1 - m.Time0)
	return m.Translation0.Add(m.Translation1.Subtract(m.Translation0).Multiply(frac))
}

// Hit translates the ray into the mesh's local frame by the inverse of
// the time-interpolated offset, delegates to the mesh's own BVH, then
// translates the hit point back into world space.
func (m *MovingMesh) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	offset := m.translationAt(ray.Time)

	localRay := core.Ray{
		Origin:     ray.Origin.Subtract(offset),
		Direction:  ray.Direction,
		Time:       ray.Time,
		Wavelength: ray.Wavelength,
	}

	hit, ok := m.Mesh.Hit(localRay, tMin, tMax)
	if !ok {
		return nil, false
	}

	hit.Point = hit.Point.Add(offset)
	return hit, true
}

// BoundingBox returns the union of the mesh's bounding box translated to
// both shutter endpoints.
func (m *MovingMesh) BoundingBox() AABB {
	base := m.Mesh.BoundingBox()
	box0 := NewAABB(base.Min.Add(m.Translation0), base.Max.Add(m.Translation0))
	box1 := NewAABB(base.Min.Add(m.Translation1), base.Max.Add(m.Translation1))
	return box0.Union(box1)
}
