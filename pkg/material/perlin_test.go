package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pathforge/raygo/pkg/core"
)

func TestPerlinNoise_Deterministic(t *testing.T) {
	noiseA := NewPerlinNoise(rand.New(rand.NewSource(7)))
	noiseB := NewPerlinNoise(rand.New(rand.NewSource(7)))

	p := core.NewVec3(1.3, -4.7, 9.1)
	a := noiseA.Noise(p)
	b := noiseB.Noise(p)
	if a != b {
		t.Errorf("expected identical noise for identically-seeded fields, got %v and %v", a, b)
	}
}

func TestPerlinNoise_VariesAcrossSpace(t *testing.T) {
	noise := NewPerlinNoise(rand.New(rand.NewSource(1)))

	samples := make(map[float64]bool)
	for i := 0; i < 20; i++ {
		p := core.NewVec3(float64(i)*0.37, float64(i)*0.91, float64(i)*1.23)
		samples[noise.Noise(p)] = true
	}
	if len(samples) < 15 {
		t.Errorf("expected noise to vary across distinct points, got only %d distinct values of 20", len(samples))
	}
}

func TestPerlinNoise_TurbulenceNonNegative(t *testing.T) {
	noise := NewPerlinNoise(rand.New(rand.NewSource(3)))
	for i := 0; i < 50; i++ {
		p := core.NewVec3(float64(i)*0.5, float64(i)*-0.3, float64(i)*0.9)
		if v := noise.Turbulence(p, 7); v < 0 {
			t.Errorf("expected non-negative turbulence, got %v at %v", v, p)
		}
	}
}

func TestPerlinTurbulence_EvaluateStaysInColorRange(t *testing.T) {
	colorA := core.NewVec3(0.1, 0.1, 0.15)
	colorB := core.NewVec3(0.9, 0.9, 0.85)
	marble := NewPerlinTurbulence(rand.New(rand.NewSource(1)), 4.0, colorA, colorB)

	for i := 0; i < 30; i++ {
		point := core.NewVec3(float64(i)*0.2, float64(i)*0.1, float64(i)*0.3)
		c := marble.Evaluate(core.Vec2{}, point)

		lo := math.Min(colorA.X, colorB.X)
		hi := math.Max(colorA.X, colorB.X)
		if c.X < lo-1e-9 || c.X > hi+1e-9 {
			t.Errorf("marble color component %v outside [%v,%v] blend range", c.X, lo, hi)
		}
	}
}

func TestPerlinTurbulence_DeterministicAcrossSameSeed(t *testing.T) {
	colorA := core.NewVec3(0, 0, 0)
	colorB := core.NewVec3(1, 1, 1)
	marbleA := NewPerlinTurbulence(rand.New(rand.NewSource(42)), 2.0, colorA, colorB)
	marbleB := NewPerlinTurbulence(rand.New(rand.NewSource(42)), 2.0, colorA, colorB)

	point := core.NewVec3(2.5, -1.1, 3.3)
	a := marbleA.Evaluate(core.Vec2{}, point)
	b := marbleB.Evaluate(core.Vec2{}, point)
	if !a.Equals(b) {
		t.Errorf("expected identically-seeded PerlinTurbulence to agree, got %v and %v", a, b)
	}
}
