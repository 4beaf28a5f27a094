package reducer

import "math"

// Feroz keeps the live-point count proportional to the expected remaining
// evidence, after Feroz & Hobson (2008). While the remainder-to-evidence
// ratio exceeds the tolerance the full count is kept; below it the count
// decays linearly towards the floor.
type Feroz struct {
	tolerance float64
}

// NewFeroz creates a Feroz reduction schedule. tolerance must be positive.
func NewFeroz(tolerance float64) (*Feroz, error) {
	if err := validateTolerance(tolerance); err != nil {
		return nil, err
	}

	return &Feroz{tolerance: tolerance}, nil
}

// NextNLive implements the Reducer interface.
func (r *Feroz) NextNLive(state State) int {
	frac := math.Exp(state.LogRemainderRatio) / r.tolerance
	if frac > 1 {
		frac = 1
	}

	next := state.NLiveMin + int(math.Ceil(float64(state.NLiveInitial-state.NLiveMin)*frac))

	if next > state.NLive {
		next = state.NLive
	}

	if next < state.NLiveMin {
		next = state.NLiveMin
	}

	return next
}
