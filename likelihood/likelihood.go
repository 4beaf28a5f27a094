// Package likelihood provides log-likelihood functions evaluated by the
// sampler at candidate parameter points.
//
// Implementations must be safe for concurrent use; the sampler may
// evaluate several candidates in parallel during initialization.
package likelihood

// Likelihood evaluates the log-likelihood of a parameter point.
type Likelihood interface {
	// LogValue returns the natural log of the likelihood at theta.
	// A return of -Inf marks a point of zero likelihood; NaN and +Inf
	// abort the run.
	LogValue(theta []float64) float64
}

// Func adapts a plain function to the Likelihood interface.
type Func func(theta []float64) float64

// LogValue implements the Likelihood interface.
func (f Func) LogValue(theta []float64) float64 {
	return f(theta)
}
