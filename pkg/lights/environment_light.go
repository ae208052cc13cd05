package lights

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/material"
)

// EnvironmentImage is the pixel data an EnvironmentLight samples from,
// satisfied by loaders.ImageData without importing the loaders package
// (which would create an import cycle through scene construction).
type EnvironmentImage struct {
	Width, Height int
	Pixels        []core.Vec3 // row-major, Pixels[y*Width+x]
}

func (img *EnvironmentImage) at(x, y int) core.Vec3 {
	if x < 0 {
		x = 0
	}
	if x >= img.Width {
		x = img.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= img.Height {
		y = img.Height - 1
	}
	return img.Pixels[y*img.Width+x]
}

// bilinear samples img at continuous (u,v), v=0 at the top row.
func (img *EnvironmentImage) bilinear(u, v float64) core.Vec3 {
	fx := u*float64(img.Width) - 0.5
	fy := v*float64(img.Height) - 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	c00 := img.at(x0, y0)
	c10 := img.at(x0+1, y0)
	c01 := img.at(x0, y0+1)
	c11 := img.at(x0+1, y0+1)

	top := c00.Multiply(1 - tx).Add(c10.Multiply(tx))
	bottom := c01.Multiply(1 - tx).Add(c11.Multiply(tx))
	return top.Multiply(1 - ty).Add(bottom.Multiply(ty))
}

// environmentLightMaterial implements emission lookup for EnvironmentLight.
type environmentLightMaterial struct {
	light *EnvironmentLight
}

func (m *environmentLightMaterial) Scatter(rayIn core.Ray, hit material.SurfaceInteraction, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

func (m *environmentLightMaterial) Emit(rayIn core.Ray, hit *material.SurfaceInteraction) core.Vec3 {
	return m.light.emissionForDirection(rayIn.Direction.Normalize())
}

func (m *environmentLightMaterial) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *material.SurfaceInteraction, mode material.TransportMode) core.Vec3 {
	return core.Vec3{}
}

func (m *environmentLightMaterial) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, true
}

// EnvironmentLight is an infinite light backed by an equirectangular
// HDRI, importance-sampled by luminance via a Distribution2D built
// lazily on first use (mirrors the reference renderer's envirlight,
// which only pays for the importance-sampling table when an image is
// actually attached rather than a flat color).
type EnvironmentLight struct {
	image       *EnvironmentImage
	rotationY   float64
	worldCenter core.Vec3
	worldRadius float64
	material    material.Material

	distribution *core.Distribution2D
}

// NewEnvironmentLight creates an infinite light sampling img, rotated
// rotationYDegrees about the world Y axis.
func NewEnvironmentLight(img *EnvironmentImage, rotationYDegrees float64) *EnvironmentLight {
	el := &EnvironmentLight{
		image:     img,
		rotationY: rotationYDegrees * math.Pi / 180.0,
	}
	el.material = &environmentLightMaterial{light: el}
	return el
}

func (el *EnvironmentLight) Type() LightType { return LightTypeInfinite }

func (el *EnvironmentLight) GetMaterial() material.Material { return el.material }

// distributionTable lazily builds the luminance importance table on
// first sample and caches it; callers never see the nil state.
func (el *EnvironmentLight) distributionTable() *core.Distribution2D {
	if el.distribution == nil {
		lum := make([]float64, el.image.Width*el.image.Height)
		for y := 0; y < el.image.Height; y++ {
			// Weight rows by sinθ so the importance table accounts for the
			// equirectangular projection's area distortion near the poles.
			theta := math.Pi * (float64(y) + 0.5) / float64(el.image.Height)
			sinTheta := math.Sin(theta)
			for x := 0; x < el.image.Width; x++ {
				c := el.image.at(x, y)
				luminance := 0.2126*c.X + 0.7152*c.Y + 0.0722*c.Z
				lum[y*el.image.Width+x] = luminance * sinTheta
			}
		}
		el.distribution = core.NewDistribution2D(lum, el.image.Width, el.image.Height)
	}
	return el.distribution
}

// directionToUV maps a world direction to equirectangular (u,v), v=0 at
// the north pole (+Y), matching the bilinear lookup's row convention.
func (el *EnvironmentLight) directionToUV(dir core.Vec3) core.Vec2 {
	d := rotateY(dir, -el.rotationY)
	theta := math.Acos(clamp(d.Y, -1, 1))
	phi := math.Atan2(d.Z, d.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// uvToDirection is the inverse of directionToUV.
func (el *EnvironmentLight) uvToDirection(uv core.Vec2) core.Vec3 {
	phi := uv.X * 2 * math.Pi
	theta := uv.Y * math.Pi
	sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
	d := core.NewVec3(sinTheta*math.Cos(phi), cosTheta, sinTheta*math.Sin(phi))
	return rotateY(d, el.rotationY)
}

func (el *EnvironmentLight) emissionForDirection(dir core.Vec3) core.Vec3 {
	uv := el.directionToUV(dir)
	return el.image.bilinear(uv.X, uv.Y)
}

// uvPDFToSolidAngle converts the Distribution2D's density over (u,v) to
// a density over directions on the sphere, per the standard
// equirectangular Jacobian 1/(2*pi^2*sinTheta).
func uvPDFToSolidAngle(pdfUV, theta float64) float64 {
	sinTheta := math.Sin(theta)
	if sinTheta <= 0 {
		return 0
	}
	return pdfUV / (2 * math.Pi * math.Pi * sinTheta)
}

// Sample implements the Light interface, importance-sampling the HDRI by
// luminance rather than a plain cosine hemisphere.
func (el *EnvironmentLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	uv, pdfUV := el.distributionTable().SampleContinuous(sample)
	direction := el.uvToDirection(uv)
	theta := uv.Y * math.Pi
	pdf := uvPDFToSolidAngle(pdfUV, theta)

	return LightSample{
		Point:     point.Add(direction.Multiply(1e10)),
		Normal:    direction.Multiply(-1),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  el.image.bilinear(uv.X, uv.Y),
		PDF:       pdf,
	}
}

// PDF implements the Light interface for MIS weighting against BSDF sampling.
func (el *EnvironmentLight) PDF(point, normal, direction core.Vec3) float64 {
	uv := el.directionToUV(direction)
	pdfUV := el.distributionTable().PDF(uv)
	return uvPDFToSolidAngle(pdfUV, uv.Y*math.Pi)
}

// SampleEmission implements the Light interface for photon emission,
// importance-sampling direction by luminance and the emission point via
// the shared infinite-light disk sampling.
func (el *EnvironmentLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	uv, pdfUV := el.distributionTable().SampleContinuous(sampleDirection)
	direction := el.uvToDirection(uv)
	theta := uv.Y * math.Pi
	directionPDF := uvPDFToSolidAngle(pdfUV, theta)

	emissionRay, areaPDF, _ := SampleInfiniteLight(el.worldCenter, el.worldRadius, samplePoint, sampleDirection)
	originOnDirection := emissionRay.Origin.Add(direction.Multiply(-emissionRay.Direction.Dot(direction)))

	return EmissionSample{
		Point:        originOnDirection,
		Normal:       direction.Multiply(-1),
		Direction:    direction,
		Emission:     el.image.bilinear(uv.X, uv.Y),
		AreaPDF:      areaPDF,
		DirectionPDF: directionPDF,
	}
}

// EmissionPDF implements the Light interface.
func (el *EnvironmentLight) EmissionPDF(point core.Vec3, direction core.Vec3) float64 {
	if el.worldRadius <= 0 {
		return 0.0
	}
	return 1.0 / (math.Pi * el.worldRadius * el.worldRadius)
}

// Emit implements the Light interface - evaluates emission in ray direction.
func (el *EnvironmentLight) Emit(ray core.Ray, hit *material.SurfaceInteraction) core.Vec3 {
	return el.emissionForDirection(ray.Direction.Normalize())
}

// Power implements PowerReporter - the luminance table's total integral
// (averaged over the equirectangular grid, sinTheta-weighted) converted to
// flux via the sphere's solid-angle Jacobian, 2*pi^2.
func (el *EnvironmentLight) Power() float64 {
	return el.distributionTable().Integral() * 2 * math.Pi * math.Pi
}

// Preprocess implements the Preprocessor interface - sets world bounds from scene.
func (el *EnvironmentLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	el.worldCenter = worldCenter
	el.worldRadius = worldRadius
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func rotateY(v core.Vec3, angle float64) core.Vec3 {
	if angle == 0 {
		return v
	}
	s, c := math.Sin(angle), math.Cos(angle)
	return core.NewVec3(c*v.X+s*v.Z, v.Y, -s*v.X+c*v.Z)
}
