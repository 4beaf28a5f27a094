package prior

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform is a constant density over an axis-aligned box.
type Uniform struct {
	dists      []distuv.Uniform
	logDensity float64
}

// NewUniform creates a uniform prior on the box spanned by minima and
// maxima. Both slices must be non-empty, of equal length, and strictly
// ordered per dimension.
func NewUniform(minima, maxima []float64) (*Uniform, error) {
	if len(minima) == 0 || len(minima) != len(maxima) {
		return nil, fmt.Errorf("%w: got %d minima and %d maxima", ErrInvalidBounds, len(minima), len(maxima))
	}

	dists := make([]distuv.Uniform, len(minima))
	logDensity := 0.0

	for i := range minima {
		if minima[i] >= maxima[i] {
			return nil, fmt.Errorf("%w: minimum %g >= maximum %g at dimension %d", ErrInvalidBounds, minima[i], maxima[i], i)
		}

		dists[i] = distuv.Uniform{Min: minima[i], Max: maxima[i]}
		logDensity -= math.Log(maxima[i] - minima[i])
	}

	return &Uniform{dists: dists, logDensity: logDensity}, nil
}

// Dimension implements the Prior interface.
func (p *Uniform) Dimension() int {
	return len(p.dists)
}

// LogPdf implements the Prior interface.
func (p *Uniform) LogPdf(theta []float64) float64 {
	for i, d := range p.dists {
		if theta[i] < d.Min || theta[i] > d.Max {
			return math.Inf(-1)
		}
	}

	return p.logDensity
}

// LogPdfMax implements the Prior interface.
func (p *Uniform) LogPdfMax() float64 {
	return p.logDensity
}

// Draw implements the Prior interface.
func (p *Uniform) Draw(rng *rand.Rand, out []float64) {
	for i, d := range p.dists {
		d.Src = rng
		out[i] = d.Rand()
	}
}

// MapFromUnitCube implements the UnitCubeMapper interface.
func (p *Uniform) MapFromUnitCube(u, out []float64) {
	for i, d := range p.dists {
		out[i] = d.Quantile(u[i])
	}
}

// Minima returns the lower bounds of the box.
func (p *Uniform) Minima() []float64 {
	out := make([]float64, len(p.dists))
	for i, d := range p.dists {
		out[i] = d.Min
	}

	return out
}

// Maxima returns the upper bounds of the box.
func (p *Uniform) Maxima() []float64 {
	out := make([]float64, len(p.dists))
	for i, d := range p.dists {
		out[i] = d.Max
	}

	return out
}
