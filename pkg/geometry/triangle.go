package geometry

import (
	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2     core.Vec3         // The three vertices
	Material       material.Material // Material of the triangle
	normal         core.Vec3         // Cached geometric normal vector
	tangent        core.Vec3         // Cached geometric tangent, aligned with increasing U
	bbox           AABB              // Cached bounding box
	vertexNormals  *[3]core.Vec3     // Per-corner normals for Phong interpolation, nil for flat shading
}

// triangleBoundsPadding keeps an axis-degenerate triangle (lying flat
// along one axis) from vanishing to zero extent along that axis in the
// BVH slab test.
const triangleBoundsPadding = 1e-4

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
	}

	// Precompute normal, tangent, and bounding box for efficiency
	t.computeNormal()
	t.computeTangent()
	t.computeBoundingBox()

	return t
}

// NewTriangleWithNormal creates a new triangle from three vertices with a custom normal
func NewTriangleWithNormal(v0, v1, v2 core.Vec3, normal core.Vec3, material material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
		normal:   normal.Normalize(), // Ensure the normal is normalized
	}

	// Tangent still needs computing even when the normal is provided
	t.computeTangent()
	t.computeBoundingBox()

	return t
}

// NewTriangleWithVertexNormals creates a triangle that Phong-interpolates
// its shading normal from n0/n1/n2 across the hit's barycentric
// coordinates, rather than presenting one flat normal for the whole
// face. n0/n1/n2 must correspond to V0/V1/V2 respectively (the .obj
// loader pairs them via each face corner's v//vn index).
func NewTriangleWithVertexNormals(v0, v1, v2, n0, n1, n2 core.Vec3, material material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
	}
	t.computeNormal()
	t.computeTangent()
	t.computeBoundingBox()

	normals := [3]core.Vec3{n0.Normalize(), n1.Normalize(), n2.Normalize()}
	t.vertexNormals = &normals

	return t
}

// computeNormal calculates and caches the triangle's normal vector
func (t *Triangle) computeNormal() {
	// Calculate two edge vectors
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	// Normal is the cross product of the two edges
	t.normal = edge1.Cross(edge2).Normalize()
}

// computeTangent derives the geometric tangent from the first edge,
// orthogonalized against the normal via Gram-Schmidt so it stays
// perpendicular to the shading normal even on a non-planar-parameterized
// triangle (no per-vertex UVs to derive true UV-delta tangents from).
func (t *Triangle) computeTangent() {
	edge1 := t.V1.Subtract(t.V0)
	projected := edge1.Subtract(t.normal.Multiply(edge1.Dot(t.normal)))
	if projected.LengthSquared() < 1e-12 {
		t.tangent = core.Vec3{}
		return
	}
	t.tangent = projected.Normalize()
}

// computeBoundingBox calculates and caches the triangle's bounding box,
// padded by a small epsilon on every axis so a triangle lying flat along
// one axis still has positive volume for the BVH's slab test.
func (t *Triangle) computeBoundingBox() {
	t.bbox = NewAABBFromPoints(t.V0, t.V1, t.V2).Expand(triangleBoundsPadding)
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	const epsilon = 1e-8

	// Calculate two edge vectors
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	// Calculate determinant
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if a > -epsilon && a < epsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)

	// Check if intersection is outside triangle
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)

	// Check if intersection is outside triangle
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	// Calculate t parameter
	t_param := f * edge2.Dot(q)

	// Check if intersection is within valid range
	if t_param < tMin || t_param > tMax {
		return nil, false
	}

	// Calculate intersection point
	hitPoint := ray.At(t_param)

	hitRecord := &material.SurfaceInteraction{
		T:        t_param,
		Point:    hitPoint,
		Material: t.Material,
		UV:       core.NewVec2(u, v),
	}

	// Set face normal and tangent. A mesh built with per-vertex normals
	// interpolates the shading normal across the barycentric weights
	// (w0, u, v) instead of presenting the flat face normal everywhere,
	// so adjacent triangles sharing a smoothing group blend seamlessly.
	shadingNormal := t.normal
	if t.vertexNormals != nil {
		vn := t.vertexNormals
		w0 := 1.0 - u - v
		shadingNormal = vn[0].Multiply(w0).Add(vn[1].Multiply(u)).Add(vn[2].Multiply(v)).Normalize()
	}
	hitRecord.SetFaceNormal(ray, shadingNormal)
	hitRecord.Tangent = t.tangent

	return hitRecord, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() AABB {
	return t.bbox
}

// GetNormal returns the triangle's normal vector
func (t *Triangle) GetNormal() core.Vec3 {
	return t.normal
}
