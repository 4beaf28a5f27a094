package nestgo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sample is one entry of the weighted posterior sample: the retired live
// point of an iteration, or a surviving live point folded in after the
// loop.
type Sample struct {
	// Theta is the parameter point.
	Theta []float64

	// LogLikelihood is the log-likelihood at Theta.
	LogLikelihood float64

	// LogWeight is the unnormalized log posterior weight,
	// log(width) + log-likelihood.
	LogWeight float64
}

// Result holds the outputs of a completed run.
type Result struct {
	// LogZ is the accumulated log-evidence.
	LogZ float64

	// LogZError is the statistical uncertainty of LogZ,
	// sqrt(H / initial live points).
	LogZError float64

	// H is the information gain in nats.
	H float64

	// Iterations is the number of nesting iterations performed.
	Iterations int

	// NLiveInitial and NLiveFinal are the live-point counts at the start
	// and the end of the run.
	NLiveInitial int
	NLiveFinal   int

	// LikelihoodEvaluations counts every likelihood call of the run,
	// including rejected draw candidates.
	LikelihoodEvaluations int64

	// Seed is the RNG seed the run used. Replaying with WithSeed(Seed)
	// and the same configuration reproduces the run.
	Seed uint64

	// Samples is the posterior sample in retirement order, the surviving
	// live points appended last.
	Samples []Sample

	// Config echoes the sampler configuration of the run.
	Config RunConfig
}

// RunConfig is the configuration snapshot echoed into a Result and the
// persisted result files.
type RunConfig struct {
	InitialNObjects                    int
	MinNObjects                        int
	MaxNDrawAttempts                   int
	InitialIterationsWithoutClustering int
	IterationsWithSameClustering       int
	InitialEnlargementFraction         float64
	ShrinkingRate                      float64
	TerminationFactor                  float64
	MinNClusters                       int
	MaxNClusters                       int
}

// Dimension returns the parameter-space dimension of the posterior sample.
func (r *Result) Dimension() int {
	if len(r.Samples) == 0 {
		return 0
	}
	return len(r.Samples[0].Theta)
}

// PosteriorWeights returns the normalized posterior weight of each sample.
// The weights sum to one unless every sample has zero likelihood.
func (r *Result) PosteriorWeights() []float64 {
	if len(r.Samples) == 0 {
		return nil
	}

	logWeights := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		logWeights[i] = s.LogWeight
	}

	weights := make([]float64, len(logWeights))

	total := floats.LogSumExp(logWeights)
	if math.IsInf(total, -1) {
		return weights
	}

	for i, lw := range logWeights {
		weights[i] = math.Exp(lw - total)
	}
	return weights
}
