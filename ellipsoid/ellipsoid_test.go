package ellipsoid

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func newTestRNG() *rand.Rand {
	return rand.New(rand.NewPCG(3, 17))
}

// crossCloud spans a 2D cross around (3, 5) with sample covariance
// diag(0.5, 2).
func crossCloud() [][]float64 {
	return [][]float64{
		{4, 5},
		{2, 5},
		{3, 7},
		{3, 3},
	}
}

func TestLogUnitBallVolume(t *testing.T) {
	tests := []struct {
		name string
		dim  int
		want float64
	}{
		{name: "Line", dim: 1, want: math.Log(2)},
		{name: "Disk", dim: 2, want: math.Log(math.Pi)},
		{name: "Ball", dim: 3, want: math.Log(4 * math.Pi / 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, logUnitBallVolume(tt.dim), 1e-12)
		})
	}
}

func TestFromPoints(t *testing.T) {
	t.Run("NoPoints", func(t *testing.T) {
		_, err := FromPoints(nil)
		require.Error(t, err)
	})

	t.Run("CenterAndVolume", func(t *testing.T) {
		e, err := FromPoints(crossCloud())
		require.NoError(t, err)

		assert.Equal(t, 2, e.Dimension())
		assert.InDelta(t, 3, e.Center()[0], 1e-12)
		assert.InDelta(t, 5, e.Center()[1], 1e-12)

		// Eigenvalues 0.5 and 2 multiply to 1, so the covariance
		// ellipse has exactly the unit-disk volume.
		assert.InDelta(t, math.Log(math.Pi), e.LogVolume(), 1e-12)
	})

	t.Run("DuplicatePointsClamped", func(t *testing.T) {
		points := make([][]float64, 10)
		for i := range points {
			points[i] = []float64{1, 2, 3}
		}

		e, err := FromPoints(points)
		require.NoError(t, err)

		assert.True(t, e.Contains([]float64{1, 2, 3}))
		assert.False(t, math.IsInf(e.LogVolume(), -1))
		assert.False(t, e.Contains([]float64{2, 2, 3}))
	})
}

func TestContains(t *testing.T) {
	e, err := FromPoints(crossCloud())
	require.NoError(t, err)

	// At enlargement 1 the generating points sit outside the
	// covariance ellipse.
	assert.True(t, e.Contains([]float64{3, 5}))
	assert.False(t, e.Contains([]float64{4, 5}))

	e.Enlarge(4)

	assert.True(t, e.Contains([]float64{4, 5}))
	assert.True(t, e.Contains([]float64{3, 7}))
	assert.False(t, e.Contains([]float64{3, 5 + 2*2.1}))
}

func TestEnlarge(t *testing.T) {
	t.Run("VolumeScaling", func(t *testing.T) {
		e, err := FromPoints(crossCloud())
		require.NoError(t, err)

		before := e.LogVolume()
		e.Enlarge(4)

		// In 2D the volume grows with the enlargement factor itself.
		assert.InDelta(t, before+math.Log(4), e.LogVolume(), 1e-12)
	})

	t.Run("NonPositiveClamped", func(t *testing.T) {
		e, err := FromPoints(crossCloud())
		require.NoError(t, err)

		e.Enlarge(0)
		assert.Greater(t, e.Enlargement(), 0.0)

		e.Enlarge(-2)
		assert.Greater(t, e.Enlargement(), 0.0)
	})
}

func TestDrawUniform(t *testing.T) {
	rng := newTestRNG()

	points := make([][]float64, 200)
	for i := range points {
		points[i] = []float64{
			3 + 0.7*rng.NormFloat64(),
			5 + 1.4*rng.NormFloat64(),
		}
	}

	e, err := FromPoints(points)
	require.NoError(t, err)

	e.Enlarge(1.5)

	const nDraws = 4000

	draws := make([][]float64, nDraws)
	for i := range draws {
		out := make([]float64, 2)
		e.DrawUniform(rng, out)

		require.True(t, e.Contains(out), "draw %d left the ellipsoid", i)

		draws[i] = out
	}

	xs := make([]float64, nDraws)
	ys := make([]float64, nDraws)
	for i, d := range draws {
		xs[i] = d[0]
		ys[i] = d[1]
	}

	assert.InDelta(t, 3, stat.Mean(xs, nil), 0.1)
	assert.InDelta(t, 5, stat.Mean(ys, nil), 0.1)

	// The cloud is twice as wide along y, so the draw variance ratio
	// should track the squared axis ratio.
	ratio := stat.Variance(ys, nil) / stat.Variance(xs, nil)
	assert.Greater(t, ratio, 2.5)
	assert.Less(t, ratio, 6.5)
}
