package reducer

import (
	"fmt"
	"math"
)

// Powerlaw removes points at a rate growing with the iteration count,
// scaled by tolerance and shaped by exponent. Removal starts once the
// log remainder-to-evidence ratio falls below the termination factor,
// which is well before the ratio itself reaches it.
type Powerlaw struct {
	tolerance float64
	exponent  float64
}

// NewPowerlaw creates a power-law reduction schedule. tolerance must be
// positive; exponent must be non-negative.
func NewPowerlaw(tolerance, exponent float64) (*Powerlaw, error) {
	if err := validateTolerance(tolerance); err != nil {
		return nil, err
	}

	if exponent < 0 {
		return nil, fmt.Errorf("reducer: exponent %g must be non-negative", exponent)
	}

	return &Powerlaw{tolerance: tolerance, exponent: exponent}, nil
}

// NextNLive implements the Reducer interface.
func (r *Powerlaw) NextNLive(state State) int {
	if state.LogRemainderRatio >= state.TerminationFactor {
		return state.NLive
	}

	removed := int(math.Pow(float64(state.Iteration)/r.tolerance, r.exponent))

	next := state.NLive - removed
	if next < state.NLiveMin {
		next = state.NLiveMin
	}

	return next
}
