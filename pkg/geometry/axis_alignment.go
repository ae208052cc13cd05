package geometry

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
)

// AxisAlignment describes which world axis a normal vector is aligned with.
type AxisAlignment int

const (
	NotAxisAligned AxisAlignment = iota
	XAxisAligned
	YAxisAligned
	ZAxisAligned
)

// getAxisAlignment reports whether n is (anti-)parallel to one of the world axes.
func getAxisAlignment(n core.Vec3) AxisAlignment {
	const epsilon = 1e-6

	switch {
	case math.Abs(math.Abs(n.X)-1) < epsilon && math.Abs(n.Y) < epsilon && math.Abs(n.Z) < epsilon:
		return XAxisAligned
	case math.Abs(math.Abs(n.Y)-1) < epsilon && math.Abs(n.X) < epsilon && math.Abs(n.Z) < epsilon:
		return YAxisAligned
	case math.Abs(math.Abs(n.Z)-1) < epsilon && math.Abs(n.X) < epsilon && math.Abs(n.Y) < epsilon:
		return ZAxisAligned
	default:
		return NotAxisAligned
	}
}
