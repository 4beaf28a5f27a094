package testutil

import (
	"math/rand/v2"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// UniformPoints generates random points with coordinates in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformPoints(num int, dim int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)

	for i := range num {
		pt := data[i*dim : (i+1)*dim]
		for j := range pt {
			pt[j] = r.rand.Float64()
		}
		points[i] = pt
	}

	return points
}

// UniformRangePoints generates random points with coordinates in range
// [minVal, maxVal).
func (r *RNG) UniformRangePoints(num int, dim int, minVal, maxVal float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	data := make([]float64, num*dim)
	points := make([][]float64, num)

	for i := range num {
		pt := data[i*dim : (i+1)*dim]
		for j := range pt {
			pt[j] = minVal + r.rand.Float64()*span
		}
		points[i] = pt
	}

	return points
}

// GaussianPoints generates random points with coordinates from a standard
// normal distribution.
func (r *RNG) GaussianPoints(num int, dim int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)

	for i := range num {
		pt := data[i*dim : (i+1)*dim]
		for j := range pt {
			pt[j] = r.rand.NormFloat64()
		}
		points[i] = pt
	}

	return points
}

// ClusteredPoints generates points grouped around random centroids.
// Centroids are placed uniformly in [-sep, sep] per coordinate and each
// point adds Gaussian noise with the given spread. Useful for exercising
// the clusterer and multi-ellipsoid decomposition on multi-modal data.
func (r *RNG) ClusteredPoints(num, dim, clusters int, sep, spread float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	centroids := make([][]float64, clusters)
	for c := range centroids {
		centroids[c] = make([]float64, dim)
		for j := range centroids[c] {
			centroids[c][j] = (r.rand.Float64()*2 - 1) * sep
		}
	}

	data := make([]float64, num*dim)
	points := make([][]float64, num)

	for i := range num {
		centroid := centroids[i%clusters]
		pt := data[i*dim : (i+1)*dim]

		for j := range pt {
			pt[j] = centroid[j] + r.rand.NormFloat64()*spread
		}
		points[i] = pt
	}

	return points
}

// EffectiveSampleSize returns the Kish effective sample size of a set of
// posterior weights, (sum w)^2 / sum w^2. Equal weights give the sample
// count, a single dominating weight gives one.
func EffectiveSampleSize(weights []float64) float64 {
	var sum, sumSq float64
	for _, w := range weights {
		sum += w
		sumSq += w * w
	}

	if sumSq == 0 {
		return 0
	}

	return sum * sum / sumSq
}
