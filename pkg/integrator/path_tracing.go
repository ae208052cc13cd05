package integrator

import (
	"math"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/lights"
	"github.com/pathforge/raygo/pkg/material"
	"github.com/pathforge/raygo/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with next
// event estimation, multiple importance sampling between light and BSDF
// sampling, and Russian roulette termination.
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{config: config}
}

// RayColor computes the color for a camera ray by walking the path to
// PathTracingIntegrator's configured maximum depth.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, sc *scene.Scene, sampler core.Sampler) (core.Vec3, []SplatRay) {
	color := pt.rayColor(ray, sc, sampler, pt.config.MaxDepth, core.Vec3{X: 1, Y: 1, Z: 1}, 1.0)
	return color, nil
}

// rayColor recursively traces a single path. depth counts remaining
// bounces; throughput is the accumulated path weight used for Russian
// roulette. emissionWeight is the MIS weight to apply to whatever
// emission this vertex turns out to carry: 1.0 for the camera ray and
// for specular bounces (there's no light-sampling PDF competing with
// those directions), or the power-heuristic weight computed by the
// light-sampling vertex that BSDF-sampled its way here. It applies only
// to this vertex's own emission — the indirect/NEE contributions
// computed further down this same call are independent estimators that
// carry their own weighting at their own vertex.
func (pt *PathTracingIntegrator) rayColor(ray core.Ray, sc *scene.Scene, sampler core.Sampler, depth int, throughput core.Vec3, emissionWeight float64) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	shouldTerminate, rrCompensation := pt.ApplyRussianRoulette(depth, throughput, sampler.Get1D())
	if shouldTerminate {
		return core.Vec3{}
	}

	ray.Sampler = sampler
	hit, isHit := sc.BVH.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		return pt.backgroundEmission(ray, sc).Multiply(emissionWeight * rrCompensation)
	}

	emitted := pt.getEmittedLight(ray, hit).Multiply(emissionWeight)

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return emitted.Multiply(rrCompensation)
	}

	var scattered core.Vec3
	if scatter.IsSpecular() {
		scattered = pt.specularContribution(scatter, sc, sampler, depth, throughput)
	} else {
		scattered = pt.diffuseContribution(scatter, hit, sc, sampler, depth, throughput)
	}

	return emitted.Add(scattered).Multiply(rrCompensation)
}

// specularContribution follows a delta BSDF bounce without next event
// estimation, since there's no continuous set of directions to sample a
// light against. The next vertex's emission is taken at full weight: a
// delta BSDF direction can never have been reached by light sampling, so
// there's nothing to balance it against.
func (pt *PathTracingIntegrator) specularContribution(scatter material.ScatterResult, sc *scene.Scene, sampler core.Sampler, depth int, throughput core.Vec3) core.Vec3 {
	newThroughput := throughput.MultiplyVec(scatter.Attenuation)
	incoming := pt.rayColor(scatter.Scattered, sc, sampler, depth-1, newThroughput, 1.0)
	return scatter.Attenuation.MultiplyVec(incoming)
}

// diffuseContribution combines next event estimation (direct light
// sampling) with BSDF-sampled indirect lighting, weighting each by the
// power heuristic so neither double counts the other's well-sampled
// directions.
func (pt *PathTracingIntegrator) diffuseContribution(scatter material.ScatterResult, hit *material.SurfaceInteraction, sc *scene.Scene, sampler core.Sampler, depth int, throughput core.Vec3) core.Vec3 {
	direct := pt.sampleDirectLighting(sc, scatter, hit, sampler)
	indirect := pt.sampleIndirectLighting(sc, scatter, hit, sampler, depth, throughput)
	return direct.Add(indirect)
}

// getEmittedLight returns the light a ray picks up on striking an
// emissive material.
func (pt *PathTracingIntegrator) getEmittedLight(ray core.Ray, hit *material.SurfaceInteraction) core.Vec3 {
	if emitter, isEmissive := hit.Material.(material.Emitter); isEmissive {
		return emitter.Emit(ray, hit)
	}
	return core.Vec3{}
}

// sampleDirectLighting samples a light for next event estimation and
// weights the contribution by the power heuristic against the BSDF's PDF
// for the same direction. The shadow ray is walked with Scene.Transmittance
// rather than a binary occlusion test, so a dielectric sitting between the
// shading point and the light attenuates and tints the contribution
// instead of fully blocking it.
func (pt *PathTracingIntegrator) sampleDirectLighting(sc *scene.Scene, scatter material.ScatterResult, hit *material.SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	if len(sc.Lights) == 0 || sc.LightSampler == nil {
		return core.Vec3{}
	}

	lightSample, light, _, found := lights.SampleLight(sc.Lights, sc.LightSampler, hit.Point, hit.Normal, sampler)
	if !found || lightSample.PDF <= 0 {
		return core.Vec3{}
	}

	cosine := lightSample.Direction.Dot(hit.Normal)
	if cosine <= 0 {
		return core.Vec3{}
	}

	shadowRay := core.NewRay(hit.Point, lightSample.Direction)
	shadowRay.Time = scatter.Scattered.Time

	// Infinite lights are reached by a shadow ray that escapes the scene
	// entirely; a finite light is reached by one that terminates at the
	// light's own surface within lightSample.Distance. Either way the walk
	// below treats that as unoccluded, so this only matters for how an
	// infinite-light shadow ray that's still inside a transparent occluder
	// when it runs past the scene bounds should be judged.
	treatBackgroundAsCaustic := light.Type() == lights.LightTypeInfinite
	transmittance := sc.Transmittance(shadowRay, lightSample.Distance, treatBackgroundAsCaustic, sampler)
	if transmittance.Luminance() <= 0 {
		return core.Vec3{}
	}

	brdf := hit.Material.EvaluateBRDF(scatter.Incoming.Direction.Multiply(-1), lightSample.Direction, hit, material.Radiance)
	materialPDF, isDelta := hit.Material.PDF(scatter.Incoming.Direction.Multiply(-1), lightSample.Direction, hit.Normal)
	if isDelta {
		materialPDF = 0
	}

	misWeight := core.PowerHeuristic(1, lightSample.PDF, 1, materialPDF)
	return brdf.MultiplyVec(lightSample.Emission).MultiplyVec(transmittance).Multiply(cosine * misWeight / lightSample.PDF)
}

// sampleIndirectLighting follows the BSDF-sampled scattered ray and
// weights the eventual light it finds by the power heuristic against the
// probability a light sampler would have picked that same direction.
func (pt *PathTracingIntegrator) sampleIndirectLighting(sc *scene.Scene, scatter material.ScatterResult, hit *material.SurfaceInteraction, sampler core.Sampler, depth int, throughput core.Vec3) core.Vec3 {
	if scatter.PDF <= 0 {
		return core.Vec3{}
	}

	scatterDirection := scatter.Scattered.Direction.Normalize()
	cosine := scatterDirection.Dot(hit.Normal)
	if cosine <= 0 {
		return core.Vec3{}
	}

	var lightPDF float64
	if sc.LightSampler != nil {
		lightPDF = lights.CalculateLightPDF(sc.Lights, sc.LightSampler, hit.Point, hit.Normal, scatterDirection)
	}
	misWeight := core.PowerHeuristic(1, scatter.PDF, 1, lightPDF)

	// misWeight is passed through as the *next* vertex's emissionWeight
	// rather than applied to the whole of incoming: incoming also carries
	// that vertex's own NEE and further-indirect terms, which are separate
	// estimators already correctly weighted at their own vertex and must
	// not be scaled down by this vertex's light-sampling competition.
	newThroughput := throughput.MultiplyVec(scatter.Attenuation).Multiply(cosine / scatter.PDF)
	incoming := pt.rayColor(scatter.Scattered, sc, sampler, depth-1, newThroughput, misWeight)

	return scatter.Attenuation.Multiply(cosine / scatter.PDF).MultiplyVec(incoming)
}

// ApplyRussianRoulette decides whether to terminate a path once it has
// run past RussianRouletteMinBounces, and returns the compensation factor
// that keeps the estimator unbiased for paths that survive.
func (pt *PathTracingIntegrator) ApplyRussianRoulette(depth int, throughput core.Vec3, u float64) (bool, float64) {
	currentBounce := pt.config.MaxDepth - depth
	if currentBounce < pt.config.RussianRouletteMinBounces {
		return false, 1.0
	}

	luminance := throughput.Luminance()
	survivalProb := math.Min(0.95, math.Max(0.05, luminance))

	if u > survivalProb {
		return true, 0.0
	}
	return false, 1.0 / survivalProb
}

// backgroundEmission sums emission from every infinite light in the
// scene for a ray that escaped without hitting any geometry.
func (pt *PathTracingIntegrator) backgroundEmission(ray core.Ray, sc *scene.Scene) core.Vec3 {
	total := core.Vec3{}
	for _, light := range sc.Lights {
		if light.Type() == lights.LightTypeInfinite {
			total = total.Add(light.Emit(ray, nil))
		}
	}
	return total
}
