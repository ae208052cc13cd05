package geometry

import "github.com/pathforge/raygo/pkg/core"

// AABB aliases the shared axis-aligned bounding box type so shapes in this
// package can refer to it unqualified, the same way the teacher's geometry
// code does within a single flat package.
type AABB = core.AABB

// NewAABB constructs an AABB from two corner points.
func NewAABB(min, max core.Vec3) AABB {
	return core.NewAABB(min, max)
}

// NewAABBFromPoints constructs the smallest AABB containing all given points.
func NewAABBFromPoints(points ...core.Vec3) AABB {
	return core.NewAABBFromPoints(points...)
}
