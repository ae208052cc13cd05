package integrator

import (
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/pathforge/raygo/pkg/core"
	"github.com/pathforge/raygo/pkg/geometry"
	"github.com/pathforge/raygo/pkg/lights"
	"github.com/pathforge/raygo/pkg/material"
	"github.com/pathforge/raygo/pkg/photon"
	"github.com/pathforge/raygo/pkg/scene"
)

// PhotonMappingConfig holds the parameters of the two-pass photon mapper
// that don't belong in the shared sampling config: photon budgets,
// density-estimation radii, neighbor count, and the final-gather depth.
type PhotonMappingConfig struct {
	NumPhotons        int     // total photon budget, split between global and caustic maps
	CausticFraction   float64 // share of NumPhotons reserved for targeted caustic emission
	CausticRadius     float64
	GlobalRadius      float64
	KNearest          int
	FinalGatherBound  int // bounce depth below which a first diffuse hit still final-gathers
}

// PhotonIntegrator implements photon mapping with a sticky caustic-path
// flag: direct light and the caustic map are only queried at the first
// diffuse vertex of a path, and the global map only past the final-gather
// bound, so no transport path is counted by more than one of (NEE,
// caustic map, global map, BSDF-sampled emission, environment MIS).
type PhotonIntegrator struct {
	config       scene.SamplingConfig
	photonConfig PhotonMappingConfig
	globalMap    *photon.PhotonMap
	causticMap   *photon.PhotonMap
}

// NewPhotonIntegrator builds the integrator's photon maps from sc eagerly,
// mirroring the reference renderer's constructor, which runs the full
// photon preprocess before the first pixel is ever rendered.
func NewPhotonIntegrator(config scene.SamplingConfig, photonConfig PhotonMappingConfig, sc *scene.Scene) *PhotonIntegrator {
	pi := &PhotonIntegrator{config: config, photonConfig: photonConfig}
	pi.buildPhotonMap(sc)
	return pi
}

// specularMaterialOf extracts the material of shapes whose specularity
// the caustic photon emitter can check statically. Shapes without a
// directly inspectable material (meshes, BVH nodes, constant media) are
// never picked as caustic targets.
func specularMaterialOf(shape geometry.Shape) (material.Material, bool) {
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
	default:
		return nil, false
	}
}

// findSpecularTargets linearly scans the scene for shapes whose material
// reports itself as specular, for caustic photons to be aimed at.
func findSpecularTargets(sc *scene.Scene) []geometry.Shape {
	var targets []geometry.Shape
	for _, shape := range sc.Shapes {
		mat, ok := specularMaterialOf(shape)
		if !ok {
			continue
		}
		if material.IsSpecularMaterial(mat) {
			targets = append(targets, shape)
		}
	}
	return targets
}

// photonEmissionJob is one light's share of the preprocess emission work,
// handed to a worker goroutine.
type photonEmissionJob struct {
	light          lights.Light
	lightIdx       int
	lightSelectPDF float64
	count          int
	caustic        bool
}

// buildPhotonMap runs the full preprocess pass: emit photons from every
// light proportional to its selection probability, trace each through the
// scene, and bucket the results into the caustic and global maps.
func (pi *PhotonIntegrator) buildPhotonMap(sc *scene.Scene) {
	if len(sc.Lights) == 0 || sc.LightSampler == nil {
		pi.globalMap = photon.NewPhotonMap(nil)
		pi.causticMap = photon.NewPhotonMap(nil)
		return
	}

	causticBudget := int(float64(pi.photonConfig.NumPhotons) * pi.photonConfig.CausticFraction)
	globalBudget := pi.photonConfig.NumPhotons - causticBudget

	specularTargets := findSpecularTargets(sc)
	if len(specularTargets) == 0 {
		// No specular geometry to aim caustic photons at; fold the
		// caustic budget into the global pass instead of wasting it.
		globalBudget += causticBudget
		causticBudget = 0
	}

	jobs := pi.buildJobs(sc, globalBudget, false)
	jobs = append(jobs, pi.buildJobs(sc, causticBudget, true)...)

	var mu sync.Mutex
	var globalPhotons, causticPhotons []photon.Photon

	numWorkers := runtime.NumCPU()
	jobCh := make(chan photonEmissionJob, len(jobs))
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			sampler := core.NewRandomSampler(rng)

			var localGlobal, localCaustic []photon.Photon
			for job := range jobCh {
				for k := 0; k < job.count; k++ {
					pi.emitAndTrace(sc, job, sampler, specularTargets, &localGlobal, &localCaustic)
				}
			}

			mu.Lock()
			globalPhotons = append(globalPhotons, localGlobal...)
			causticPhotons = append(causticPhotons, localCaustic...)
			mu.Unlock()
		}(int64(w) + 1)
	}
	wg.Wait()

	pi.globalMap = photon.NewPhotonMap(globalPhotons)
	pi.causticMap = photon.NewPhotonMap(causticPhotons)
}

// buildJobs splits budget photons across lights proportional to each
// light's emission-selection probability.
func (pi *PhotonIntegrator) buildJobs(sc *scene.Scene, budget int, caustic bool) []photonEmissionJob {
	if budget <= 0 {
		return nil
	}
	var jobs []photonEmissionJob
	for i, light := range sc.Lights {
		pdf := sc.LightSampler.GetLightProbability(i, sc.BVH.Center, core.Vec3{})
		if pdf <= 0 {
			pdf = 1.0 / float64(len(sc.Lights))
		}
		count := int(pdf * float64(budget))
		if count <= 0 {
			continue
		}
		jobs = append(jobs, photonEmissionJob{light: light, lightIdx: i, lightSelectPDF: pdf, count: count, caustic: caustic})
	}
	return jobs
}

// emitAndTrace samples one photon's emission from job.light (aimed at a
// random specular target when job.caustic), traces it through the scene,
// and stores it into whichever local list its landing bounce belongs to.
func (pi *PhotonIntegrator) emitAndTrace(sc *scene.Scene, job photonEmissionJob, sampler core.Sampler, specularTargets []geometry.Shape, localGlobal, localCaustic *[]photon.Photon) {
	var emission lights.EmissionSample
	if job.caustic && len(specularTargets) > 0 {
		target := specularTargets[int(sampler.Get1D()*float64(len(specularTargets)))%len(specularTargets)]
		emission = emitTargeted(job.light, target, sampler)
	} else {
		emission = job.light.SampleEmission(sampler.Get2D(), sampler.Get2D())
	}

	if emission.AreaPDF <= 0 || emission.DirectionPDF <= 0 {
		return
	}

	cosTheta := emission.Direction.Dot(emission.Normal)
	if cosTheta <= 0 {
		return
	}

	totalPDF := job.lightSelectPDF * emission.AreaPDF * emission.DirectionPDF
	if totalPDF <= 0 {
		return
	}
	power := emission.Emission.Multiply(cosTheta / (totalPDF * float64(pi.photonConfig.NumPhotons)))
	if power.Luminance() <= 0 {
		return
	}

	ray := core.NewRay(emission.Point.Add(emission.Direction.Multiply(1e-4)), emission.Direction)
	pi.tracePhoton(sc, ray, power, sampler, localGlobal, localCaustic)
}

// emitTargeted samples an emission point on light's surface as usual but
// replaces the cosine-weighted direction with one aimed into the cone
// subtending target's bounding sphere, re-weighting by the cone's solid
// angle so the photon's power stays unbiased. If the aimed direction
// falls below the light's own surface normal it carries zero weight.
func emitTargeted(light lights.Light, target geometry.Shape, sampler core.Sampler) lights.EmissionSample {
	base := light.SampleEmission(sampler.Get2D(), core.NewVec2(0.5, 0.5))

	center, radius := geometry.BoundingSphere(target)

	toTarget := center.Subtract(base.Point)
	distance := toTarget.Length()
	if distance < radius || distance == 0 {
		return lights.EmissionSample{}
	}
	dirToTarget := toTarget.Multiply(1.0 / distance)

	sinMax := radius / distance
	cosTotalWidth := math.Sqrt(math.Max(0, 1.0-sinMax*sinMax))

	direction := core.SampleCone(dirToTarget, cosTotalWidth, sampler.Get2D())
	directionPDF := lights.UniformConePDF(cosTotalWidth)

	return lights.EmissionSample{
		Point:        base.Point,
		Normal:       base.Normal,
		Direction:    direction,
		Emission:     base.Emission,
		AreaPDF:      base.AreaPDF,
		DirectionPDF: directionPDF,
	}
}

// tracePhoton walks a single photon through the scene, storing it in the
// caustic map if its last bounce before landing was specular, or in the
// global map if it landed after at least one diffuse bounce (the direct,
// zero-bounce hit is excluded since NEE already accounts for it).
func (pi *PhotonIntegrator) tracePhoton(sc *scene.Scene, ray core.Ray, power core.Vec3, sampler core.Sampler, localGlobal, localCaustic *[]photon.Photon) {
	depth := 0
	prevBounceSpecular := false

	for depth < pi.config.MaxDepth {
		ray.Sampler = sampler
		hit, ok := sc.BVH.Hit(ray, 0.001, math.Inf(1))
		if !ok {
			return
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			return
		}

		if scatter.IsSpecular() {
			power = power.MultiplyVec(scatter.Attenuation)
			ray = scatter.Scattered
			depth++
			prevBounceSpecular = true
			continue
		}

		incoming := ray.Direction.Normalize().Multiply(-1)
		p := photon.Photon{Position: hit.Point, Power: power, Incoming: incoming}

		if prevBounceSpecular {
			*localCaustic = append(*localCaustic, p)
			return
		} else if depth > 0 {
			*localGlobal = append(*localGlobal, p)
		}

		maxAlbedo := math.Max(scatter.Attenuation.X, math.Max(scatter.Attenuation.Y, scatter.Attenuation.Z))
		q := math.Min(0.95, math.Max(0.05, maxAlbedo))
		if sampler.Get1D() > q {
			return
		}

		power = power.MultiplyVec(scatter.Attenuation).Multiply(1.0 / q)
		ray = scatter.Scattered
		depth++
		prevBounceSpecular = false
	}
}

// RayColor renders a camera ray with photon-mapped indirect and caustic
// lighting. On the in_caustic_path branch a diffuse vertex does no NEE and
// no photon-map lookup and only continues the path by BSDF sampling;
// environment hits are weighted as in the path tracer.
func (pi *PhotonIntegrator) RayColor(ray core.Ray, sc *scene.Scene, sampler core.Sampler) (core.Vec3, []SplatRay) {
	return pi.rayColor(ray, sc, sampler, pi.config.MaxDepth, core.Vec3{X: 1, Y: 1, Z: 1}, false, true, 1.0), nil
}

// rayColor is the recursive walk. inCausticPath is the sticky flag set by
// a specular bounce taken right after a diffuse vertex; lastBounceSpecular
// tracks whether the immediately preceding vertex was specular, which is
// what a new specular bounce needs to decide whether to set the flag.
// emissionWeight is the MIS weight for this vertex's own emission only
// (see PathTracingIntegrator.rayColor) — 1.0 everywhere except the
// final-gather continuation below, which BSDF-samples in direct
// competition with light sampling at the vertex that spawned it.
func (pi *PhotonIntegrator) rayColor(ray core.Ray, sc *scene.Scene, sampler core.Sampler, depth int, throughput core.Vec3, inCausticPath, lastBounceSpecular bool, emissionWeight float64) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	pt := PathTracingIntegrator{config: pi.config}
	shouldTerminate, rrCompensation := pt.ApplyRussianRoulette(depth, throughput, sampler.Get1D())
	if shouldTerminate {
		return core.Vec3{}
	}

	ray.Sampler = sampler
	hit, isHit := sc.BVH.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		return pt.backgroundEmission(ray, sc).Multiply(emissionWeight * rrCompensation)
	}

	if emitter, isEmissive := hit.Material.(material.Emitter); isEmissive {
		if inCausticPath {
			// Already accounted for at the caustic-origin diffuse vertex.
			return core.Vec3{}
		}
		return emitter.Emit(ray, hit).Multiply(emissionWeight * rrCompensation)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	if scatter.IsSpecular() {
		newInCaustic := inCausticPath || !lastBounceSpecular
		newThroughput := throughput.MultiplyVec(scatter.Attenuation)
		incoming := pi.rayColor(scatter.Scattered, sc, sampler, depth-1, newThroughput, newInCaustic, true, 1.0)
		return scatter.Attenuation.MultiplyVec(incoming).Multiply(rrCompensation)
	}

	if inCausticPath {
		cosine := scatter.Scattered.Direction.Normalize().Dot(hit.Normal)
		if cosine <= 0 || scatter.PDF <= 0 {
			return core.Vec3{}
		}
		newThroughput := throughput.MultiplyVec(scatter.Attenuation).Multiply(cosine / scatter.PDF)
		incoming := pi.rayColor(scatter.Scattered, sc, sampler, depth-1, newThroughput, true, false, 1.0)
		return scatter.Attenuation.Multiply(cosine / scatter.PDF).MultiplyVec(incoming).Multiply(rrCompensation)
	}

	direct := pt.sampleDirectLighting(sc, scatter, hit, sampler)
	causticRadiance := pi.estimateRadianceFromMap(hit, scatter.Attenuation, pi.causticMap, pi.photonConfig.CausticRadius)
	contribution := direct.Add(causticRadiance)

	bounceIdx := pi.config.MaxDepth - depth
	if bounceIdx < pi.photonConfig.FinalGatherBound {
		cosine := scatter.Scattered.Direction.Normalize().Dot(hit.Normal)
		if cosine <= 0 || scatter.PDF <= 0 {
			return contribution.Multiply(rrCompensation)
		}

		var lightPDF float64
		if sc.LightSampler != nil {
			lightPDF = lights.CalculateLightPDF(sc.Lights, sc.LightSampler, hit.Point, hit.Normal, scatter.Scattered.Direction.Normalize())
		}
		misWeight := core.PowerHeuristic(1, scatter.PDF, 1, lightPDF)

		// misWeight travels as the next vertex's emissionWeight, not as a
		// multiplier on the whole of indirect: indirect also carries that
		// vertex's own NEE/caustic/global-map estimate, which must reach
		// this contribution at full weight.
		newThroughput := throughput.MultiplyVec(scatter.Attenuation).Multiply(cosine / scatter.PDF)
		indirect := pi.rayColor(scatter.Scattered, sc, sampler, depth-1, newThroughput, false, false, misWeight)
		contribution = contribution.Add(scatter.Attenuation.Multiply(cosine/scatter.PDF).MultiplyVec(indirect))
	} else {
		contribution = contribution.Add(pi.estimateRadianceFromMap(hit, scatter.Attenuation, pi.globalMap, pi.photonConfig.GlobalRadius))
	}

	return contribution.Multiply(rrCompensation)
}

// estimateRadianceFromMap performs a k-nearest density estimate at hit
// using Jensen's cone filter: photons whose incoming direction is on the
// positive side of the surface normal (leak prevention) contribute
// power·(1 − |p−q|/r), normalized by (1 − 2/(3K))·π·r² and weighted by the
// surface's Lambertian albedo/π.
func (pi *PhotonIntegrator) estimateRadianceFromMap(hit *material.SurfaceInteraction, albedo core.Vec3, m *photon.PhotonMap, initialRadius float64) core.Vec3 {
	if m == nil || m.Size() == 0 {
		return core.Vec3{}
	}

	k := pi.photonConfig.KNearest
	neighbors, r2 := m.KNearest(hit.Point, k, initialRadius)
	if len(neighbors) == 0 || r2 <= 0 {
		return core.Vec3{}
	}
	r := math.Sqrt(r2)

	flux := core.Vec3{}
	for _, np := range neighbors {
		if np.Photon.Incoming.Dot(hit.Normal) <= 0 {
			continue
		}
		dist := math.Sqrt(np.DistSq)
		if dist >= r {
			continue
		}
		flux = flux.Add(np.Photon.Power.Multiply(1.0 - dist/r))
	}

	denom := (1.0 - 2.0/(3.0*float64(k))) * math.Pi * r2
	if denom <= 0 {
		return core.Vec3{}
	}

	return flux.Multiply(1.0 / denom).MultiplyVec(albedo).Multiply(1.0 / math.Pi)
}
