package core

// Vec2 represents a 2D vector, used for UV texture coordinates and
// 2D sample values drawn from a Sampler.
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two Vec2 values
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Subtract returns the difference of two Vec2 values
func (v Vec2) Subtract(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Multiply returns the Vec2 scaled by a scalar
func (v Vec2) Multiply(scalar float64) Vec2 {
	return Vec2{v.X * scalar, v.Y * scalar}
}

// Equals reports whether two Vec2 values are exactly equal component-wise.
func (v Vec2) Equals(other Vec2) bool {
	return v.X == other.X && v.Y == other.Y
}
