package nestgo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivePointsWorst(t *testing.T) {
	lp := newLivePoints(4, 2)
	copy(lp.logLs, []float64{-1, -5, -3, -5})

	// Ties resolve to the lowest slot.
	slot, logL := lp.worst()
	assert.Equal(t, 1, slot)
	assert.Equal(t, -5.0, logL)

	lp.retire(1)

	slot, logL = lp.worst()
	assert.Equal(t, 3, slot)
	assert.Equal(t, -5.0, logL)
	assert.Equal(t, 3, lp.count())
}

func TestLivePointsReplaceCopies(t *testing.T) {
	lp := newLivePoints(2, 2)

	theta := []float64{1, 2}
	lp.replace(0, theta, -0.5)

	theta[0] = 99
	assert.Equal(t, []float64{1, 2}, lp.thetas[0])
	assert.Equal(t, -0.5, lp.logLs[0])
}

func TestLivePointsMaxLogL(t *testing.T) {
	lp := newLivePoints(3, 1)
	copy(lp.logLs, []float64{-1, 4, 2})

	assert.Equal(t, 4.0, lp.maxLogL())

	lp.retire(1)
	assert.Equal(t, 2.0, lp.maxLogL())
}

func TestLivePointsPointsAndSlots(t *testing.T) {
	lp := newLivePoints(3, 2)
	for i := range lp.thetas {
		lp.thetas[i][0] = float64(i)
	}

	lp.retire(1)

	assert.Equal(t, []uint32{0, 2}, lp.slots())

	pts := lp.points()
	require.Len(t, pts, 2)
	assert.Equal(t, 0.0, pts[0][0])
	assert.Equal(t, 2.0, pts[1][0])
}

func TestLivePointsNegInfWorst(t *testing.T) {
	lp := newLivePoints(3, 1)
	copy(lp.logLs, []float64{0, math.Inf(-1), -2})

	slot, logL := lp.worst()
	assert.Equal(t, 1, slot)
	assert.True(t, math.IsInf(logL, -1))
}
