package results

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/nestgo"
)

// ParameterSummary holds the marginal posterior estimates of a single
// parameter.
type ParameterSummary struct {
	// Mean is the posterior-weighted mean.
	Mean float64

	// Median is the posterior-weighted median.
	Median float64

	// Mode is the center of the highest-mass bin of the weighted
	// marginal histogram.
	Mode float64

	// Variance is the posterior-weighted population variance.
	Variance float64

	// CredibleLower and CredibleUpper bound the shortest interval
	// containing the requested fraction of the posterior mass.
	CredibleLower float64
	CredibleUpper float64
}

// Summarize computes per-parameter marginal estimates from the weighted
// posterior sample. The credible level is a percentage, e.g. 68.3.
func Summarize(result *nestgo.Result, credibleLevel float64) ([]ParameterSummary, error) {
	if result == nil || len(result.Samples) == 0 {
		return nil, fmt.Errorf("results: empty posterior sample")
	}

	if credibleLevel <= 0 || credibleLevel >= 100 {
		return nil, fmt.Errorf("results: credible level %g%% outside (0, 100)", credibleLevel)
	}

	weights := result.PosteriorWeights()
	if floats.Sum(weights) == 0 {
		return nil, fmt.Errorf("results: posterior has zero total weight")
	}

	dim := result.Dimension()
	summaries := make([]ParameterSummary, dim)

	values := make([]float64, len(result.Samples))
	w := make([]float64, len(result.Samples))

	for d := 0; d < dim; d++ {
		for i, s := range result.Samples {
			values[i] = s.Theta[d]
		}
		copy(w, weights)

		mean := stat.Mean(values, w)

		// Population form: gonum's stat.Variance divides by sum(w)-1,
		// which is zero for normalized weights.
		variance := 0.0
		for i, v := range values {
			variance += w[i] * (v - mean) * (v - mean)
		}

		stat.SortWeighted(values, w)

		lower, upper := shortestCredibleInterval(values, w, credibleLevel/100)

		summaries[d] = ParameterSummary{
			Mean:          mean,
			Median:        stat.Quantile(0.5, stat.Empirical, values, w),
			Mode:          weightedMode(values, w),
			Variance:      variance,
			CredibleLower: lower,
			CredibleUpper: upper,
		}
	}

	return summaries, nil
}

// shortestCredibleInterval returns the bounds of the shortest window of
// the sorted sample holding at least the given posterior mass fraction.
func shortestCredibleInterval(sorted, weights []float64, mass float64) (lower, upper float64) {
	n := len(sorted)

	cum := make([]float64, n+1)
	for i, w := range weights {
		cum[i+1] = cum[i] + w
	}

	target := mass * cum[n]

	lower = sorted[0]
	upper = sorted[n-1]
	width := upper - lower

	j := 0
	for i := 0; i < n; i++ {
		if j < i {
			j = i
		}

		for j < n && cum[j+1]-cum[i] < target {
			j++
		}

		if j == n {
			break
		}

		if w := sorted[j] - sorted[i]; w < width {
			width = w
			lower = sorted[i]
			upper = sorted[j]
		}
	}

	return lower, upper
}

// weightedMode estimates the marginal mode as the center of the
// highest-mass histogram bin of the sorted sample.
func weightedMode(sorted, weights []float64) float64 {
	n := len(sorted)

	span := sorted[n-1] - sorted[0]
	if span == 0 {
		return sorted[0]
	}

	nBins := int(math.Ceil(math.Sqrt(float64(n))))
	if nBins < 10 {
		nBins = 10
	}

	binMass := make([]float64, nBins)
	for i, v := range sorted {
		bin := int(float64(nBins) * (v - sorted[0]) / span)
		if bin == nBins {
			bin = nBins - 1
		}

		binMass[bin] += weights[i]
	}

	best := floats.MaxIdx(binMass)
	binWidth := span / float64(nBins)

	return sorted[0] + (float64(best)+0.5)*binWidth
}
