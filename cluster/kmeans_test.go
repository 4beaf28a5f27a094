package cluster

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/hupe1980/nestgo/metric"
	"github.com/hupe1980/nestgo/projection"
)

func newTestRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1))
}

func gaussianBlob(t *testing.T, rng *rand.Rand, center []float64, sigma float64, n int) [][]float64 {
	t.Helper()

	cov := mat.NewSymDense(len(center), nil)
	for i := range center {
		cov.SetSym(i, i, sigma*sigma)
	}

	dist, ok := distmv.NewNormal(center, cov, rng)
	require.True(t, ok)

	points := make([][]float64, n)
	for i := range points {
		points[i] = dist.Rand(nil)
	}

	return points
}

func TestKMeansSingleBlob(t *testing.T) {
	rng := newTestRNG()
	points := gaussianBlob(t, rng, []float64{0, 0}, 1, 120)

	km, err := New()
	require.NoError(t, err)

	p, err := km.Cluster(rng, points, 1, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, p.K)
	assert.Equal(t, 120, p.Sizes[0])
}

func TestKMeansThreeBlobs(t *testing.T) {
	rng := newTestRNG()

	centers := [][]float64{{0, 0}, {20, 0}, {0, 20}}
	var points [][]float64
	for _, c := range centers {
		points = append(points, gaussianBlob(t, rng, c, 0.5, 60)...)
	}

	km, err := New()
	require.NoError(t, err)

	p, err := km.Cluster(rng, points, 1, 6)
	require.NoError(t, err)

	require.Equal(t, 3, p.K)
	require.Len(t, p.Assignments, 180)

	// Each blob maps to exactly one cluster, and distinct blobs to
	// distinct clusters.
	blobLabel := make([]int, 3)
	for b := 0; b < 3; b++ {
		blobLabel[b] = p.Assignments[b*60]
		for i := 1; i < 60; i++ {
			require.Equal(t, blobLabel[b], p.Assignments[b*60+i], "blob %d split across clusters", b)
		}
	}

	assert.NotEqual(t, blobLabel[0], blobLabel[1])
	assert.NotEqual(t, blobLabel[0], blobLabel[2])
	assert.NotEqual(t, blobLabel[1], blobLabel[2])

	// Fitted centers land close to the generating centers.
	for b, c := range centers {
		got := p.Centers[blobLabel[b]]
		assert.InDelta(t, c[0], got[0], 0.5)
		assert.InDelta(t, c[1], got[1], 0.5)
	}

	total := 0
	for _, s := range p.Sizes {
		total += s
	}
	assert.Equal(t, 180, total)
}

func TestKMeansDuplicatePoints(t *testing.T) {
	points := make([][]float64, 50)
	for i := range points {
		points[i] = []float64{1.5, -2.5}
	}

	km, err := New()
	require.NoError(t, err)

	p, err := km.Cluster(newTestRNG(), points, 1, 3)
	require.NoError(t, err)

	// Identical points carry no structure; the parameter penalty picks
	// the smallest count.
	assert.Equal(t, 1, p.K)
}

func TestKMeansInfeasible(t *testing.T) {
	km, err := New()
	require.NoError(t, err)

	t.Run("TooFewPoints", func(t *testing.T) {
		_, err := km.Cluster(newTestRNG(), [][]float64{{0, 0}, {1, 1}}, 5, 8)
		assert.ErrorIs(t, err, ErrNoPartition)
	})

	t.Run("NoPoints", func(t *testing.T) {
		_, err := km.Cluster(newTestRNG(), nil, 1, 3)
		assert.ErrorIs(t, err, ErrNoPartition)
	})

	t.Run("InvalidRange", func(t *testing.T) {
		_, err := km.Cluster(newTestRNG(), [][]float64{{0, 0}}, 3, 2)
		assert.Error(t, err)

		_, err = km.Cluster(newTestRNG(), [][]float64{{0, 0}}, 0, 2)
		assert.Error(t, err)
	})
}

func TestKMeansWithProjector(t *testing.T) {
	rng := newTestRNG()

	// Two lobes separated along the direction (1, 1, 1); a 1D principal
	// component projection preserves the separation.
	var points [][]float64
	points = append(points, gaussianBlob(t, rng, []float64{0, 0, 0}, 0.3, 50)...)
	points = append(points, gaussianBlob(t, rng, []float64{10, 10, 10}, 0.3, 50)...)

	km, err := New(func(o *Options) {
		o.Projector = projection.NewPrincipalComponent(1)
	})
	require.NoError(t, err)

	p, err := km.Cluster(rng, points, 1, 4)
	require.NoError(t, err)

	assert.Equal(t, 2, p.K)
	// Centers live in the projected space.
	assert.Len(t, p.Centers[0], 1)
}

func TestKMeansMetricOption(t *testing.T) {
	_, err := New(func(o *Options) {
		o.Metric = metric.Metric(99)
	})
	assert.Error(t, err)

	km, err := New(func(o *Options) {
		o.Metric = metric.MetricManhattan
		o.NTrials = 3
	})
	require.NoError(t, err)

	rng := newTestRNG()
	var points [][]float64
	points = append(points, gaussianBlob(t, rng, []float64{0, 0}, 0.5, 40)...)
	points = append(points, gaussianBlob(t, rng, []float64{15, 15}, 0.5, 40)...)

	p, err := km.Cluster(rng, points, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, p.K)
}

func TestKMeansDeterminism(t *testing.T) {
	buildPoints := func() [][]float64 {
		rng := rand.New(rand.NewPCG(5, 5))
		var points [][]float64
		points = append(points, gaussianBlob(t, rng, []float64{0, 0}, 1, 40)...)
		points = append(points, gaussianBlob(t, rng, []float64{12, 0}, 1, 40)...)
		return points
	}

	km, err := New()
	require.NoError(t, err)

	p1, err := km.Cluster(rand.New(rand.NewPCG(9, 9)), buildPoints(), 1, 4)
	require.NoError(t, err)

	p2, err := km.Cluster(rand.New(rand.NewPCG(9, 9)), buildPoints(), 1, 4)
	require.NoError(t, err)

	assert.Equal(t, p1.K, p2.K)
	assert.Equal(t, p1.Assignments, p2.Assignments)
}
