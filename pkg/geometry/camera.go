package geometry

import (
	"math"
	"math/rand"

	"github.com/pathforge/raygo/pkg/core"
)

// CameraConfig describes a thin-lens perspective camera: position and
// framing (Center/LookAt/Up/Width/AspectRatio/VFov), depth-of-field
// (Aperture/FocusDistance), and the shutter interval for motion blur
// (Time0/Time1).
type CameraConfig struct {
	Center        core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	Width         int
	AspectRatio   float64
	VFov          float64 // vertical field of view, in degrees
	Aperture      float64 // lens diameter; 0 disables depth of field
	FocusDistance float64 // 0 means auto-focus on LookAt
	Time0         float64 // shutter open time
	Time1         float64 // shutter close time
}

// Camera generates thin-lens rays for a pixel grid, matching the
// orthonormal (u,v,w) basis and lower_left_corner/horizontal/vertical
// construction used throughout the renderer.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
	time0, time1    float64
	width           int
	height          int
}

// NewCamera builds a camera from a CameraConfig, resolving FocusDistance
// automatically from Center/LookAt when left at zero.
func NewCamera(config CameraConfig) *Camera {
	aspectRatio := config.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = 16.0 / 9.0
	}
	width := config.Width
	if width <= 0 {
		width = 400
	}
	height := int(float64(width) / aspectRatio)
	if height < 1 {
		height = 1
	}

	vfov := config.VFov
	if vfov <= 0 {
		vfov = 40.0
	}
	theta := vfov * math.Pi / 180.0
	halfHeight := math.Tan(theta / 2.0)
	halfWidth := aspectRatio * halfHeight

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
		if focusDistance <= 0 {
			focusDistance = 1.0
		}
	}

	w := config.Center.Subtract(config.LookAt).Normalize()
	up := config.Up
	if up.Length() == 0 {
		up = core.NewVec3(0, 1, 0)
	}
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.Center
	horizontal := u.Multiply(2 * halfWidth * focusDistance)
	vertical := v.Multiply(2 * halfHeight * focusDistance)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	time1 := config.Time1
	if time1 < config.Time0 {
		time1 = config.Time0
	}

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2.0,
		time0:           config.Time0,
		time1:           time1,
		width:           width,
		height:          height,
	}
}

// Width returns the image width in pixels this camera was configured for.
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels this camera was configured for.
func (c *Camera) Height() int { return c.height }

// GetRay generates a thin-lens ray through pixel (i,j), jittering within
// the pixel for antialiasing and across the lens aperture for depth of
// field, both drawn from random. Ray time is sampled uniformly over the
// shutter interval for motion blur.
func (c *Camera) GetRay(i, j int, random *rand.Rand) core.Ray {
	s := (float64(i) + random.Float64()) / float64(c.width)
	t := 1.0 - (float64(j)+random.Float64())/float64(c.height)

	var origin core.Vec3
	if c.lensRadius > 0 {
		lensSample := core.SamplePointInUnitDisk(core.NewVec2(random.Float64(), random.Float64()))
		lensOffset := c.u.Multiply(lensSample.X * c.lensRadius).Add(c.v.Multiply(lensSample.Y * c.lensRadius))
		origin = c.origin.Add(lensOffset)
	} else {
		origin = c.origin
	}

	target := c.lowerLeftCorner.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	direction := target.Subtract(origin)

	ray := core.NewRay(origin, direction)
	if c.time1 > c.time0 {
		ray.Time = c.time0 + random.Float64()*(c.time1-c.time0)
	} else {
		ray.Time = c.time0
	}
	return ray
}

// MergeCameraConfig overrides fields of base with any non-zero fields set
// on override, leaving base's values where override left the zero value.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Center != (core.Vec3{}) {
		merged.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		merged.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		merged.Up = override.Up
	}
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio != 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		merged.VFov = override.VFov
	}
	if override.Aperture != 0 {
		merged.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		merged.FocusDistance = override.FocusDistance
	}
	if override.Time0 != 0 {
		merged.Time0 = override.Time0
	}
	if override.Time1 != 0 {
		merged.Time1 = override.Time1
	}
	return merged
}
