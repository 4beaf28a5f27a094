package prior

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// GridUniform is uniform over narrow windows centered on a regular grid of
// nodes, per dimension. Node i of dimension d sits at
// origins[d] + i*separations[d]; each window spans a fraction tolerance of
// the node separation. Useful for parameters known to lie near an evenly
// spaced comb, such as frequencies in an oscillation spectrum.
type GridUniform struct {
	origins     []float64
	separations []float64
	nNodes      int
	tolerance   float64
	logDensity  float64
}

// NewGridUniform creates a grid-uniform prior with nNodes nodes per
// dimension and windows of width tolerance*separation centered on each
// node. tolerance must lie in (0, 1] so windows never overlap.
func NewGridUniform(origins, separations []float64, nNodes int, tolerance float64) (*GridUniform, error) {
	if len(origins) == 0 || len(origins) != len(separations) {
		return nil, fmt.Errorf("%w: got %d origins and %d separations", ErrInvalidBounds, len(origins), len(separations))
	}

	if nNodes < 1 {
		return nil, fmt.Errorf("%w: nNodes %d < 1", ErrInvalidBounds, nNodes)
	}

	if tolerance <= 0 || tolerance > 1 {
		return nil, fmt.Errorf("%w: tolerance %g outside (0, 1]", ErrInvalidBounds, tolerance)
	}

	logDensity := 0.0

	for i, sep := range separations {
		if sep <= 0 {
			return nil, fmt.Errorf("%w: separation %g at dimension %d", ErrInvalidBounds, sep, i)
		}

		logDensity -= math.Log(float64(nNodes) * tolerance * sep)
	}

	return &GridUniform{
		origins:     origins,
		separations: separations,
		nNodes:      nNodes,
		tolerance:   tolerance,
		logDensity:  logDensity,
	}, nil
}

// Dimension implements the Prior interface.
func (p *GridUniform) Dimension() int {
	return len(p.origins)
}

// LogPdf implements the Prior interface.
func (p *GridUniform) LogPdf(theta []float64) float64 {
	for d, v := range theta {
		t := (v - p.origins[d]) / p.separations[d]
		node := math.Round(t)

		if node < 0 || node >= float64(p.nNodes) {
			return math.Inf(-1)
		}

		if math.Abs(t-node) > p.tolerance/2 {
			return math.Inf(-1)
		}
	}

	return p.logDensity
}

// LogPdfMax implements the Prior interface.
func (p *GridUniform) LogPdfMax() float64 {
	return p.logDensity
}

// Draw implements the Prior interface.
func (p *GridUniform) Draw(rng *rand.Rand, out []float64) {
	for d := range p.origins {
		node := float64(rng.IntN(p.nNodes))
		offset := (rng.Float64() - 0.5) * p.tolerance * p.separations[d]
		out[d] = p.origins[d] + node*p.separations[d] + offset
	}
}

// MapFromUnitCube implements the UnitCubeMapper interface. The unit
// interval is split evenly across nodes; the fraction within a slot
// positions the point inside the node's window.
func (p *GridUniform) MapFromUnitCube(u, out []float64) {
	for d := range p.origins {
		scaled := u[d] * float64(p.nNodes)
		node := math.Floor(scaled)

		if node >= float64(p.nNodes) {
			node = float64(p.nNodes) - 1
		}

		frac := scaled - node
		out[d] = p.origins[d] + node*p.separations[d] + (frac-0.5)*p.tolerance*p.separations[d]
	}
}
