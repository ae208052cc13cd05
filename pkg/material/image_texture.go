package material

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/pathforge/raygo/pkg/core"
)

// imageUpsampleFactor controls how much NewImageTextureFromImage
// pre-filters a source image with draw.BiLinear before storing it as a
// flat Vec3 grid; Evaluate then does a cheap nearest lookup against an
// already-smooth buffer instead of doing the interpolation per sample.
const imageUpsampleFactor = 2

// ImageTexture provides color from a 2D image, LDR or HDR.
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a texture directly from a decoded Vec3 pixel
// grid (used for HDR images, which never go through image.Image).
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// NewImageTextureFromImage builds a texture from a decoded LDR
// image.Image, bilinearly pre-filtering it up to imageUpsampleFactor
// times its source resolution with golang.org/x/image/draw so Evaluate's
// per-sample lookup stays a cheap nearest fetch against a smoothed grid.
func NewImageTextureFromImage(img image.Image) *ImageTexture {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	dstW, dstH := srcW*imageUpsampleFactor, srcH*imageUpsampleFactor

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	pixels := make([]core.Vec3, dstW*dstH)
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			r, g, b, _ := dst.At(x, y).RGBA()
			pixels[y*dstW+x] = core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
		}
	}

	return &ImageTexture{Width: dstW, Height: dstH, Pixels: pixels}
}

// Evaluate samples the texture at given UV coordinates.
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	// Wrap UV coordinates to [0, 1]
	u := uv.X - float64(int(uv.X))
	v := uv.Y - float64(int(uv.Y))
	if u < 0 {
		u += 1.0
	}
	if v < 0 {
		v += 1.0
	}

	// Convert to pixel coordinates
	// V=0 is bottom, V=1 is top (flip V for image coordinates where origin is top-left)
	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))

	// Clamp to image bounds
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	return t.Pixels[y*t.Width+x]
}
