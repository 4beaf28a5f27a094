package reducer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerlaw(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		_, err := NewPowerlaw(0, 0.4)
		assert.Error(t, err)

		_, err = NewPowerlaw(-1, 0.4)
		assert.Error(t, err)

		_, err = NewPowerlaw(100, -0.1)
		assert.Error(t, err)
	})

	t.Run("InactiveWhileRemainderDominates", func(t *testing.T) {
		r, err := NewPowerlaw(100, 0.4)
		require.NoError(t, err)

		state := State{
			NLive:             500,
			NLiveInitial:      500,
			NLiveMin:          50,
			Iteration:         3000,
			LogRemainderRatio: math.Log(10),
			TerminationFactor: 0.05,
		}

		assert.Equal(t, 500, r.NextNLive(state))
	})

	t.Run("ActiveRemoval", func(t *testing.T) {
		r, err := NewPowerlaw(100, 0.4)
		require.NoError(t, err)

		state := State{
			NLive:             500,
			NLiveInitial:      500,
			NLiveMin:          50,
			Iteration:         3000,
			LogRemainderRatio: math.Log(0.5),
			TerminationFactor: 0.05,
		}

		// floor((3000/100)^0.4) = floor(30^0.4) = 3
		assert.Equal(t, 497, r.NextNLive(state))
	})

	t.Run("FloorHonored", func(t *testing.T) {
		r, err := NewPowerlaw(1, 2)
		require.NoError(t, err)

		state := State{
			NLive:             60,
			NLiveInitial:      500,
			NLiveMin:          50,
			Iteration:         1000,
			LogRemainderRatio: math.Log(1e-6),
			TerminationFactor: 0.05,
		}

		assert.Equal(t, 50, r.NextNLive(state))
	})

	t.Run("MonotoneSequence", func(t *testing.T) {
		r, err := NewPowerlaw(100, 0.4)
		require.NoError(t, err)

		state := State{
			NLive:             500,
			NLiveInitial:      500,
			NLiveMin:          50,
			TerminationFactor: 0.05,
		}

		// The ratio decays through the activation threshold mid-run.
		prev := state.NLive
		for n := 0; n < 5000; n += 100 {
			state.Iteration = n
			state.LogRemainderRatio = math.Log(2) - float64(n)/1000

			next := r.NextNLive(state)
			assert.LessOrEqual(t, next, prev)
			assert.GreaterOrEqual(t, next, state.NLiveMin)

			state.NLive = next
			prev = next
		}
	})
}

func TestFeroz(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		_, err := NewFeroz(0)
		assert.Error(t, err)
	})

	t.Run("FullCountAboveTolerance", func(t *testing.T) {
		r, err := NewFeroz(0.1)
		require.NoError(t, err)

		state := State{
			NLive:             500,
			NLiveInitial:      500,
			NLiveMin:          50,
			LogRemainderRatio: math.Log(10),
		}

		assert.Equal(t, 500, r.NextNLive(state))
	})

	t.Run("FloorAtZeroRemainder", func(t *testing.T) {
		r, err := NewFeroz(0.1)
		require.NoError(t, err)

		state := State{
			NLive:             500,
			NLiveInitial:      500,
			NLiveMin:          50,
			LogRemainderRatio: math.Inf(-1),
		}

		assert.Equal(t, 50, r.NextNLive(state))
	})

	t.Run("LinearDecay", func(t *testing.T) {
		r, err := NewFeroz(0.1)
		require.NoError(t, err)

		state := State{
			NLive:             500,
			NLiveInitial:      500,
			NLiveMin:          100,
			LogRemainderRatio: math.Log(0.05), // half of tolerance
		}

		// 100 + ceil(400 * 0.5) = 300
		assert.Equal(t, 300, r.NextNLive(state))
	})

	t.Run("NeverGrows", func(t *testing.T) {
		r, err := NewFeroz(0.1)
		require.NoError(t, err)

		// The remainder ratio can fluctuate upward; the count must not.
		state := State{
			NLive:             200,
			NLiveInitial:      500,
			NLiveMin:          50,
			LogRemainderRatio: math.Log(0.09),
		}

		assert.LessOrEqual(t, r.NextNLive(state), 200)
	})
}
