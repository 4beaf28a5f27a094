package prior

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Normal is an independent Gaussian density per dimension. Its support is
// all of parameter space, so LogPdf never returns -Inf.
type Normal struct {
	dists     []distuv.Normal
	logPdfMax float64
}

// NewNormal creates a normal prior with the given per-dimension means and
// standard deviations. Standard deviations must be strictly positive.
func NewNormal(means, stddevs []float64) (*Normal, error) {
	if len(means) == 0 || len(means) != len(stddevs) {
		return nil, fmt.Errorf("%w: got %d means and %d standard deviations", ErrInvalidBounds, len(means), len(stddevs))
	}

	dists := make([]distuv.Normal, len(means))
	logPdfMax := 0.0

	for i := range means {
		if stddevs[i] <= 0 {
			return nil, fmt.Errorf("%w: standard deviation %g at dimension %d", ErrInvalidBounds, stddevs[i], i)
		}

		dists[i] = distuv.Normal{Mu: means[i], Sigma: stddevs[i]}
		logPdfMax += dists[i].LogProb(means[i])
	}

	return &Normal{dists: dists, logPdfMax: logPdfMax}, nil
}

// Dimension implements the Prior interface.
func (p *Normal) Dimension() int {
	return len(p.dists)
}

// LogPdf implements the Prior interface.
func (p *Normal) LogPdf(theta []float64) float64 {
	sum := 0.0
	for i, d := range p.dists {
		sum += d.LogProb(theta[i])
	}

	return sum
}

// LogPdfMax implements the Prior interface. The density peaks at the mean
// of every dimension.
func (p *Normal) LogPdfMax() float64 {
	return p.logPdfMax
}

// Draw implements the Prior interface.
func (p *Normal) Draw(rng *rand.Rand, out []float64) {
	for i, d := range p.dists {
		d.Src = rng
		out[i] = d.Rand()
	}
}

// MapFromUnitCube implements the UnitCubeMapper interface via the inverse
// CDF per dimension.
func (p *Normal) MapFromUnitCube(u, out []float64) {
	for i, d := range p.dists {
		out[i] = d.Quantile(u[i])
	}
}
