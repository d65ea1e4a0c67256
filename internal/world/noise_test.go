package world

import (
	"math"
	"math/rand"
	"testing"
)

// TestHash2Deterministic verifies hash2 produces identical results for same inputs
func TestHash2Deterministic(t *testing.T) {
	var results [100]uint64
	for i := range results {
		results[i] = hash2(10, 20, 42)
	}

	first := results[0]
	for i := 1; i < len(results); i++ {
		if results[i] != first {
			t.Errorf("hash2 not deterministic: results[0]=%d, results[%d]=%d", first, i, results[i])
		}
	}
}

// TestHash2DifferentInputs verifies hash2 produces different values for different inputs
func TestHash2DifferentInputs(t *testing.T) {
	seed := int64(42)

	h1 := hash2(1, 0, seed)
	h2 := hash2(2, 0, seed)
	if h1 == h2 {
		t.Errorf("hash2 should differ for different X: hash2(1,0,seed)=%d == hash2(2,0,seed)=%d", h1, h2)
	}

	h1 = hash2(0, 1, seed)
	h2 = hash2(0, 2, seed)
	if h1 == h2 {
		t.Errorf("hash2 should differ for different Z: hash2(0,1,seed)=%d == hash2(0,2,seed)=%d", h1, h2)
	}

	h1 = hash2(1, 1, 100)
	h2 = hash2(1, 1, 200)
	if h1 == h2 {
		t.Errorf("hash2 should differ for different seed: hash2(1,1,100)=%d == hash2(1,1,200)=%d", h1, h2)
	}
}

// TestValueNoise2DRange verifies valueNoise2D outputs are in [0,1]
func TestValueNoise2DRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345)) // deterministic test RNG
	seed := int64(42)

	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100 // [-100, 100]
		z := rng.Float64()*200 - 100

		v := valueNoise2D(x, z, seed)

		if v < 0.0 || v > 1.0 {
			t.Errorf("valueNoise2D(%f, %f, %d) = %f, expected in [0,1]", x, z, seed, v)
		}
	}
}

// TestValueNoise2DDeterministic verifies valueNoise2D produces identical results
func TestValueNoise2DDeterministic(t *testing.T) {
	var results [100]float64
	for i := range results {
		results[i] = valueNoise2D(1.5, 2.7, 42)
	}

	first := results[0]
	for i := 1; i < len(results); i++ {
		if results[i] != first {
			t.Errorf("valueNoise2D not deterministic: results[0]=%f, results[%d]=%f", first, i, results[i])
		}
	}
}

// TestValueNoise2DContinuity verifies smooth interpolation (no random jumps)
func TestValueNoise2DContinuity(t *testing.T) {
	seed := int64(42)

	v1 := valueNoise2D(1.0, 1.0, seed)
	v2 := valueNoise2D(1.01, 1.0, seed)

	diff := math.Abs(v1 - v2)
	if diff >= 0.1 {
		t.Errorf("valueNoise2D not continuous: valueNoise2D(1.0,1.0)=%f, valueNoise2D(1.01,1.0)=%f, diff=%f >= 0.1",
			v1, v2, diff)
	}
}

// TestOctaveNoise2DRange verifies octaveNoise2D outputs are in [0,1]
func TestOctaveNoise2DRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	seed := int64(42)
	octaves := 4

	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		z := rng.Float64()*200 - 100

		v := octaveNoise2D(x, z, seed, octaves, 0.5, 2.0)

		if v < 0.0 || v > 1.0 {
			t.Errorf("octaveNoise2D(%f, %f, %d, %d, 0.5, 2.0) = %f, expected in [0,1]",
				x, z, seed, octaves, v)
		}
	}
}

// TestOctaveNoise2DDeterministic verifies octaveNoise2D produces identical results
func TestOctaveNoise2DDeterministic(t *testing.T) {
	var results [100]float64
	for i := range results {
		results[i] = octaveNoise2D(1.5, 2.7, 42, 4, 0.5, 2.0)
	}

	first := results[0]
	for i := 1; i < len(results); i++ {
		if results[i] != first {
			t.Errorf("octaveNoise2D not deterministic: results[0]=%f, results[%d]=%f", first, i, results[i])
		}
	}
}
