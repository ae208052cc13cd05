package geometry

import (
	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool)
	BoundingBox() AABB
}

// Preprocessor interface for objects that need scene preprocessing
type Preprocessor interface {
	Preprocess(worldCenter core.Vec3, worldRadius float64) error
}

// boundingSphereShape is implemented by shapes whose own parameters (a
// center and radius, or two circular rims) give a tighter bounding sphere
// than deriving one from the AABB's corner-to-corner distance.
type boundingSphereShape interface {
	BoundingSphere() (core.Vec3, float64)
}

// BoundingSphere returns a sphere enclosing shape, for callers (the
// caustic photon emitter's cone sampling) that need to aim at an object
// without knowing its concrete type. Shapes with an exact or tighter
// BoundingSphere method (Sphere, Cone, Box) are preferred over the
// generic fallback, which circumscribes the AABB.
func BoundingSphere(shape Shape) (core.Vec3, float64) {
	if bs, ok := shape.(boundingSphereShape); ok {
		return bs.BoundingSphere()
	}
	box := shape.BoundingBox()
	center := box.Min.Add(box.Max).Multiply(0.5)
	radius := box.Max.Subtract(box.Min).Length() * 0.5
	return center, radius
}
