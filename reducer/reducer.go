// Package reducer provides schedules for shrinking the live-point count
// as a nested sampling run approaches termination. Fewer live points late
// in the run save likelihood evaluations where the remaining prior mass
// contributes little evidence.
package reducer

import "fmt"

// State is the run snapshot handed to a reducer each iteration.
type State struct {
	// NLive is the current number of live points.
	NLive int

	// NLiveInitial is the live-point count at initialization.
	NLiveInitial int

	// NLiveMin is the floor enforced by the sampler.
	NLiveMin int

	// Iteration is the number of completed nesting iterations.
	Iteration int

	// LogZ is the accumulated log-evidence.
	LogZ float64

	// LogWidth is the current log prior-mass width.
	LogWidth float64

	// LogRemainderRatio is log(max(L_live) * X_remaining / Z), the
	// remainder-to-evidence termination diagnostic.
	LogRemainderRatio float64

	// TerminationFactor is the configured termination threshold on the
	// remainder-to-evidence ratio.
	TerminationFactor float64
}

// Reducer decides the live-point count for the next iteration. The
// sampler clamps the returned value to [NLiveMin, NLive]; the count never
// grows.
type Reducer interface {
	NextNLive(state State) int
}

func validateTolerance(tolerance float64) error {
	if tolerance <= 0 {
		return fmt.Errorf("reducer: tolerance %g must be positive", tolerance)
	}

	return nil
}
