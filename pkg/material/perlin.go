package material

import (
	"math"
	"math/rand"

	"github.com/pathforge/raygo/pkg/core"
)

// perlinPointCount is the size of the gradient/permutation tables the
// classic Perlin noise construction uses.
const perlinPointCount = 256

// PerlinNoise holds the gradient vectors and permutation tables behind
// classic (Ken Perlin-style) 3D gradient noise: each lattice point gets a
// fixed random unit gradient, looked up through three independently
// shuffled permutation tables XORed together so the lookup stays cheap
// and collision-free in practice.
type PerlinNoise struct {
	ranVec []core.Vec3
	permX  []int
	permY  []int
	permZ  []int
}

// NewPerlinNoise builds a noise field from rng, so callers that need
// reproducible renders can seed it the same way renderer.NewTile seeds
// per-tile samplers.
func NewPerlinNoise(rng *rand.Rand) *PerlinNoise {
	n := &PerlinNoise{ranVec: make([]core.Vec3, perlinPointCount)}
	for i := range n.ranVec {
		v := core.NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		n.ranVec[i] = v.Normalize()
	}
	n.permX = generatePerlinPermutation(rng)
	n.permY = generatePerlinPermutation(rng)
	n.permZ = generatePerlinPermutation(rng)
	return n
}

// generatePerlinPermutation returns a Fisher-Yates shuffle of [0, perlinPointCount).
func generatePerlinPermutation(rng *rand.Rand) []int {
	p := make([]int, perlinPointCount)
	for i := range p {
		p[i] = i
	}
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// Noise samples single-frequency gradient noise at p: the eight lattice
// gradients surrounding p are dotted against the vector from each corner
// to p, then blended by a Hermite-smoothed trilinear interpolation.
func (n *PerlinNoise) Noise(p core.Vec3) float64 {
	u := p.X - math.Floor(p.X)
	v := p.Y - math.Floor(p.Y)
	w := p.Z - math.Floor(p.Z)

	i := int(math.Floor(p.X))
	j := int(math.Floor(p.Y))
	k := int(math.Floor(p.Z))

	var c [2][2][2]core.Vec3
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				idx := n.permX[(i+di)&255] ^ n.permY[(j+dj)&255] ^ n.permZ[(k+dk)&255]
				c[di][dj][dk] = n.ranVec[idx]
			}
		}
	}

	return perlinInterp(c, u, v, w)
}

// perlinInterp performs Hermite-smoothed trilinear interpolation between
// the eight corner gradients of the lattice cell containing (u, v, w).
func perlinInterp(c [2][2][2]core.Vec3, u, v, w float64) float64 {
	uu := u * u * (3 - 2*u)
	vv := v * v * (3 - 2*v)
	ww := w * w * (3 - 2*w)

	accum := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				weight := core.NewVec3(u-float64(i), v-float64(j), w-float64(k))
				fi, fj, fk := float64(i), float64(j), float64(k)
				accum += (fi*uu + (1-fi)*(1-uu)) *
					(fj*vv + (1-fj)*(1-vv)) *
					(fk*ww + (1-fk)*(1-ww)) *
					c[i][j][k].Dot(weight)
			}
		}
	}
	return accum
}

// Turbulence sums depth octaves of noise at halving amplitude and
// doubling frequency, producing the fractal look marble/cloud patterns
// need. Always non-negative.
func (n *PerlinNoise) Turbulence(p core.Vec3, depth int) float64 {
	accum := 0.0
	temp := p
	weight := 1.0
	for i := 0; i < depth; i++ {
		accum += weight * n.Noise(temp)
		weight *= 0.5
		temp = temp.Multiply(2)
	}
	return math.Abs(accum)
}

// PerlinTurbulence is a marble-like procedural ColorSource: a sinusoidal
// stripe pattern along Z, perturbed by Perlin turbulence and blended
// between two colors.
type PerlinTurbulence struct {
	noise  *PerlinNoise
	Scale  float64
	Depth  int
	ColorA core.Vec3
	ColorB core.Vec3
}

// NewPerlinTurbulence builds a marble-pattern texture seeded by rng, at
// the given spatial frequency scale, blending between colorA (low) and
// colorB (high).
func NewPerlinTurbulence(rng *rand.Rand, scale float64, colorA, colorB core.Vec3) *PerlinTurbulence {
	return &PerlinTurbulence{
		noise:  NewPerlinNoise(rng),
		Scale:  scale,
		Depth:  7,
		ColorA: colorA,
		ColorB: colorB,
	}
}

// Evaluate implements ColorSource.
func (p *PerlinTurbulence) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	t := 0.5 * (1.0 + math.Sin(p.Scale*point.Z+10.0*p.noise.Turbulence(point, p.Depth)))
	return p.ColorA.Multiply(1 - t).Add(p.ColorB.Multiply(t))
}
