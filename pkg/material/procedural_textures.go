package material

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
)

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Determine which check we're in
			checkX := x / checkSize
			checkY := y / checkSize

			// Alternate colors based on check position
			var color core.Vec3
			if (checkX+checkY)%2 == 0 {
				color = color1
			} else {
				color = color2
			}

			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewUVDebugTexture creates a texture showing UV coordinates as colors
// U maps to red channel, V maps to green channel
func NewUVDebugTexture(width, height int) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := float64(x) / float64(width-1)
			v := 1.0 - float64(y)/float64(height-1) // row 0 is the top, V=1
			pixels[y*width+x] = core.NewVec3(u, v, 0.0)
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewBumpGridTexture procedurally bakes a tangent-space normal map showing
// a grid of raised round bumps, one per cellSize×cellSize cell, each
// bump's cross-section a hemisphere of radius cellSize/2 whose slopes are
// scaled by strength. Encoded in the
// standard convention a Lambertian NormalMap expects: flat is (0.5, 0.5,
// 1.0), i.e. color = 0.5*(n+1).
func NewBumpGridTexture(width, height, cellSize int, strength float64) *ImageTexture {
	bumpHeight := func(x, y int) float64 {
		r := float64(cellSize) / 2
		cx := float64(x%cellSize) - r
		cy := float64(y%cellSize) - r
		d2 := cx*cx + cy*cy
		if d2 >= r*r {
			return 0
		}
		return math.Sqrt(r*r - d2)
	}
	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			left := bumpHeight(clamp(x-1, 0, width-1), y)
			right := bumpHeight(clamp(x+1, 0, width-1), y)
			down := bumpHeight(x, clamp(y-1, 0, height-1))
			up := bumpHeight(x, clamp(y+1, 0, height-1))

			dx := (right - left) * strength
			dy := (up - down) * strength
			n := core.NewVec3(-dx, -dy, 1.0).Normalize()
			pixels[y*width+x] = n.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
		}
	}
	return NewImageTexture(width, height, pixels)
}

// NewGradientTexture creates a vertical gradient from color1 (top) to color2 (bottom)
func NewGradientTexture(width, height int, color1, color2 core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		// Interpolate from top to bottom
		t := float64(y) / float64(height-1)
		color := color1.Multiply(1.0 - t).Add(color2.Multiply(t))

		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}
