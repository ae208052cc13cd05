package scene

import (
	"fmt"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/geometry"
	"github.com/pathforge/raygo/pkg/lights"
	"github.com/pathforge/raygo/pkg/loaders"
	"github.com/pathforge/raygo/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	Shapes         []geometry.Shape    // Objects in the scene
	Lights         []lights.Light      // Lights in the scene
	LightSampler   lights.LightSampler // Light sampler
	SamplingConfig SamplingConfig
	CameraConfig   geometry.CameraConfig
	BVH            *geometry.BVH // Acceleration structure for ray-object intersection
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width                     int     // Image width
	Height                    int     // Image height
	SamplesPerPixel           int     // Number of rays per pixel
	MaxDepth                  int     // Maximum ray bounce depth
	RussianRouletteMinBounces int     // Minimum bounces before Russian Roulette can activate
	AdaptiveMinSamples        float64 // Minimum samples as percentage of max samples (0.0-1.0)
	AdaptiveThreshold         float64 // Relative error threshold for adaptive convergence (0.01 = 1%)
}

// MaxShadowTransmissionBounces bounds how many transparent occluders a
// single Transmittance walk will pass through before giving up and
// treating the shadow ray as blocked (a safe default rather than an
// unbounded loop through a stack of glass panes).
const MaxShadowTransmissionBounces = 8

// Transmittance walks ray from its origin towards maxDistance, passing
// through any material that reports itself transparent (dielectrics) and
// accumulating its per-hit attenuation via EvaluateTransmission. It
// returns the accumulated transmittance — (1,1,1) for an unoccluded ray —
// or a zero vector the moment it strikes an opaque occluder or exceeds
// MaxShadowTransmissionBounces, so next-event estimation can cast tinted
// shadows through glass instead of doing a flat binary occlusion test.
//
// treatBackgroundAsCaustic relaxes the MaxShadowTransmissionBounces safe
// default for a shadow ray aimed at an infinite light. A finite light's
// distance is an exact physical target, so running out of bounces still
// mid-chain through transparent occluders is treated conservatively as
// occluded. An infinite light's "surface" is the background itself —
// any direction eventually reaches it past however many transparent
// panes sit in the way — so a caller that knows it's walking toward one
// can choose to keep that walk's accumulated transmittance instead of
// discarding it once the bounce budget runs out.
func (s *Scene) Transmittance(ray core.Ray, maxDistance float64, treatBackgroundAsCaustic bool, sampler core.Sampler) core.Vec3 {
	transmittance := core.NewVec3(1, 1, 1)
	origin := ray.Origin
	direction := ray.Direction
	remaining := maxDistance

	for bounce := 0; bounce < MaxShadowTransmissionBounces; bounce++ {
		currentRay := core.Ray{Origin: origin, Direction: direction, Time: ray.Time, Wavelength: ray.Wavelength, Sampler: sampler}
		hit, ok := s.BVH.Hit(currentRay, 0.001, remaining-0.001)
		if !ok {
			// Nothing left between here and the target: unoccluded.
			return transmittance
		}

		if !material.IsTransparentMaterial(hit.Material) {
			return core.Vec3{}
		}

		transmittance = transmittance.MultiplyVec(material.EvaluateMaterialTransmission(hit.Material, currentRay.Direction, hit))
		if transmittance.Luminance() <= 0 {
			return core.Vec3{}
		}

		remaining -= hit.T
		if remaining <= 0.001 {
			return transmittance
		}
		origin = hit.Point
	}

	if treatBackgroundAsCaustic {
		return transmittance
	}
	return core.Vec3{}
}

// NewGroundQuad creates a large quad to replace infinite ground planes
// Creates a horizontal quad centered at the given point with normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, material material.Material) *geometry.Quad {
	// Create corner at bottom-left of the quad
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// Edge vectors: u along Z axis, v along X axis
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0) which normalizes to (0,1,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, material)
}

// Preprocess prepares the scene for rendering by preprocessing all objects that need it
func (s *Scene) Preprocess() error {
	// Create the BVH
	s.BVH = geometry.NewBVH(s.Shapes)

	// Preprocess all lights that implement the Preprocessor interface
	for _, light := range s.Lights {
		if preprocessor, ok := light.(geometry.Preprocessor); ok {
			if err := preprocessor.Preprocess(s.BVH.Center, s.BVH.Radius); err != nil {
				return err
			}
		}
	}

	// Create the light sampler after lights are preprocessed. Selection
	// is weighted by each light's estimated radiant power so a bright
	// sun gets sampled far more often than a dim fill light, matching
	// the probability MIS assumes when it weights NEE against BSDF
	// sampling.
	sceneRadius := s.BVH.Radius
	if s.LightSampler == nil {
		s.LightSampler = lights.NewPowerLightSampler(s.Lights, sceneRadius)
	}

	// Preprocess all shapes that implement the Preprocessor interface
	for _, shape := range s.Shapes {
		if preprocessor, ok := shape.(geometry.Preprocessor); ok {
			if err := preprocessor.Preprocess(s.BVH.Center, s.BVH.Radius); err != nil {
				return err
			}
		}
	}

	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += s.countPrimitivesInShape(shape)
	}
	return count
}

// countPrimitivesInShape counts primitives in a single shape, handling complex objects
func (s *Scene) countPrimitivesInShape(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.TriangleMesh:
		// Triangle meshes contain multiple triangles
		return obj.GetTriangleCount()
	default:
		// Regular shapes count as 1 primitive each
		return 1
	}
}

// AddSphereLight adds a spherical light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	emissiveMat := material.NewEmissive(emission)
	sphereLight := lights.NewSphereLight(center, radius, emissiveMat)
	s.Lights = append(s.Lights, sphereLight)
	s.Shapes = append(s.Shapes, sphereLight.Sphere)
}

// AddQuadLight adds a rectangular area light to the scene
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	emissiveMat := material.NewEmissive(emission)
	quadLight := lights.NewQuadLight(corner, u, v, emissiveMat)
	s.Lights = append(s.Lights, quadLight)
	s.Shapes = append(s.Shapes, quadLight.Quad)
}

// AddSpotLight adds a disc spot light with custom cone angle and falloff
func (s *Scene) AddSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees, radius float64) {
	spotLight := lights.NewDiscSpotLight(from, to, emission, coneAngleDegrees, coneDeltaAngleDegrees, radius)
	s.Lights = append(s.Lights, spotLight)
	// Add the underlying disc to shapes for caustic ray intersection
	s.Shapes = append(s.Shapes, spotLight.GetDisc())
}

// AddPointSpotLight adds a point spot light to the scene
func (s *Scene) AddPointSpotLight(from, to, emission core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees, radius float64) {
	spotLight := lights.NewPointSpotLight(from, to, emission, coneAngleDegrees, coneDeltaAngleDegrees)
	s.Lights = append(s.Lights, spotLight)
}

// AddUniformInfiniteLight adds a uniform infinite light to the scene
func (s *Scene) AddUniformInfiniteLight(emission core.Vec3) {
	infiniteLight := lights.NewUniformInfiniteLight(emission)
	s.Lights = append(s.Lights, infiniteLight)
}

// AddGradientInfiniteLight adds a gradient infinite light to the scene
func (s *Scene) AddGradientInfiniteLight(topColor, bottomColor core.Vec3) {
	infiniteLight := lights.NewGradientInfiniteLight(topColor, bottomColor)
	s.Lights = append(s.Lights, infiniteLight)
}

// AddImageInfiniteLight adds an HDRI environment light, importance-sampled
// by luminance, rotated rotationYDegrees about the world Y axis.
func (s *Scene) AddImageInfiniteLight(width, height int, pixels []core.Vec3, rotationYDegrees float64) {
	img := &lights.EnvironmentImage{Width: width, Height: height, Pixels: pixels}
	infiniteLight := lights.NewEnvironmentLight(img, rotationYDegrees)
	s.Lights = append(s.Lights, infiniteLight)
}

// kMinLightPower is the estimated-power threshold below which an
// emissive object isn't worth promoting to a sampled light: below this,
// its contribution via next-event estimation is negligible next to the
// noise cost of adding another light to the selection distribution.
const kMinLightPower = 1e-4

// materialOf returns shape's material, for shape kinds whose material
// is reachable without already knowing which light or geometry
// constructor built them. Mirrors the photon integrator's
// specularMaterialOf dispatch over the same shape kinds.
func materialOf(shape geometry.Shape) (material.Material, bool) {
	switch s := shape.(type) {
	case *geometry.Sphere:
		return s.Material, true
	case *geometry.MovingSphere:
		return s.Material, true
	case *geometry.Quad:
		return s.Material, true
	case *geometry.Box:
		return s.Material, true
	case *geometry.Disc:
		return s.Material, true
	case *geometry.Plane:
		return s.Material, true
	case *geometry.Cone:
		return s.Material, true
	case *geometry.TriangleMesh:
		return s.Material(), true
	default:
		return nil, false
	}
}

// Add appends shape to the scene's shape list, auto-promoting it to a
// sampled light if its material emits and its estimated radiant power
// clears kMinLightPower. Shapes without a sampling-capable Light
// wrapper (meshes, boxes, cones, planes) are still added and still
// render their own emission when a path hits them directly - they just
// aren't reachable by next-event estimation, the same limitation
// AddOBJMesh documented before every shape went through this path.
func (s *Scene) Add(shape geometry.Shape) {
	s.Shapes = append(s.Shapes, shape)

	mat, ok := materialOf(shape)
	if !ok {
		return
	}
	if _, emissive := mat.(material.Emitter); !emissive {
		return
	}

	light, ok := lights.NewDiffuseAreaLight(shape)
	if !ok {
		return
	}
	if reporter, ok := light.(lights.PowerReporter); ok && reporter.Power() < kMinLightPower {
		return
	}

	s.Lights = append(s.Lights, light)
}

// AddOBJMesh adds a loaded OBJ file's groups as one TriangleMesh per
// group, mapping each group's MTL material to the closest Material
// implementation. Triangle meshes have no sampling-capable Light
// wrapper (area sampling over arbitrary triangle soup is a different
// feature from the analytic lights this scene supports), so an
// emissive group still renders correctly when hit directly but is
// never promoted by Add; it just isn't reachable by next-event
// estimation.
func (s *Scene) AddOBJMesh(data *loaders.OBJData, fallback material.Material) {
	for _, group := range data.Groups {
		if len(group.Faces) == 0 {
			continue
		}
		mat := fallback
		if objMat, ok := data.Materials[group.MaterialName]; ok {
			mat = objMaterialToMaterial(objMat, fallback)
		}
		mesh := geometry.NewTriangleMesh(data.Vertices, group.Faces, mat, vertexNormalOptions(data, group))
		s.Add(mesh)
	}
}

// vertexNormalOptions builds the per-corner normal triplets NewTriangleMesh
// needs for Phong shading, from the parallel NormalFaces index array the
// loader produced. Returns nil when the group has no vn references, so
// NewTriangleMesh falls back to flat per-triangle normals.
func vertexNormalOptions(data *loaders.OBJData, group loaders.OBJGroup) *geometry.TriangleMeshOptions {
	if len(group.NormalFaces) != len(group.Faces) {
		return nil
	}
	triangleCount := len(group.Faces) / 3
	vertexNormals := make([][3]core.Vec3, triangleCount)
	for i := 0; i < triangleCount; i++ {
		vertexNormals[i] = [3]core.Vec3{
			data.Normals[group.NormalFaces[i*3]],
			data.Normals[group.NormalFaces[i*3+1]],
			data.Normals[group.NormalFaces[i*3+2]],
		}
	}
	return &geometry.TriangleMeshOptions{VertexNormals: vertexNormals}
}

// objMaterialToMaterial maps an MTL material's properties to the closest
// Material implementation: emissive groups (nonzero Ke) become Emissive,
// highly reflective/low-roughness groups (high Ns, strong Ks) become
// Metal, otherwise Lambertian over Kd - textured via map_Kd and map_Bump
// when the MTL referenced them, falling back to the flat Kd color or
// solid fallback when it didn't, or when the referenced image fails to
// load.
func objMaterialToMaterial(m loaders.OBJMaterial, fallback material.Material) material.Material {
	if m.EmissiveColor.LengthSquared() > 0 {
		return material.NewEmissive(m.EmissiveColor)
	}
	if m.SpecularColor.LengthSquared() > 0.5 && m.Shininess > 200 {
		fuzz := 1.0 - m.Shininess/1000.0
		if fuzz < 0 {
			fuzz = 0
		}
		return material.NewMetal(m.SpecularColor, fuzz)
	}

	albedo := loadObjTexture(m.DiffuseTexture)
	normalMap := loadObjTexture(m.NormalTexture)

	switch {
	case albedo != nil && normalMap != nil:
		return material.NewNormalMappedLambertian(albedo, normalMap)
	case albedo != nil:
		return material.NewTexturedLambertian(albedo)
	case m.DiffuseColor.LengthSquared() > 0:
		return material.NewLambertian(m.DiffuseColor)
	}
	return fallback
}

// loadObjTexture decodes path into a material.ColorSource, or returns nil
// if path is empty or the image can't be loaded - a missing or corrupt
// texture file falls back to the material's flat color rather than
// failing the whole scene build.
func loadObjTexture(path string) material.ColorSource {
	if path == "" {
		return nil
	}
	img, err := loaders.DecodeImage(path)
	if err != nil {
		fmt.Printf("warning: failed to load OBJ texture %q: %v\n", path, err)
		return nil
	}
	return material.NewImageTextureFromImage(img)
}
