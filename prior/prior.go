package prior

import (
	"errors"
	"math/rand/v2"
)

// ErrInvalidBounds is returned when prior parameters are empty, mismatched
// in length, or not strictly ordered.
var ErrInvalidBounds = errors.New("invalid prior bounds")

// Prior describes a prior probability density over a block of parameters.
type Prior interface {
	// Dimension returns the number of parameters the prior covers.
	Dimension() int

	// LogPdf returns the log prior density at theta, or math.Inf(-1)
	// outside the support. len(theta) must equal Dimension().
	LogPdf(theta []float64) float64

	// LogPdfMax returns the supremum of LogPdf over the support.
	LogPdfMax() float64

	// Draw fills out with one sample distributed according to the prior.
	// len(out) must equal Dimension().
	Draw(rng *rand.Rand, out []float64)
}

// UnitCubeMapper maps uniform unit-cube coordinates into parameter space.
// Priors implementing it permit stratified (e.g. Latin hypercube)
// initialization of the live points.
type UnitCubeMapper interface {
	// MapFromUnitCube writes the parameter-space image of u into out.
	// A uniform u yields a prior-distributed output.
	MapFromUnitCube(u, out []float64)
}

// AsUnitCubeMapper returns a unit-cube view of p. For a Joint prior the
// view exists only when every component supports the mapping.
func AsUnitCubeMapper(p Prior) (UnitCubeMapper, bool) {
	if j, ok := p.(*Joint); ok {
		mappers := make([]UnitCubeMapper, len(j.priors))

		for i, sub := range j.priors {
			m, ok := AsUnitCubeMapper(sub)
			if !ok {
				return nil, false
			}

			mappers[i] = m
		}

		return &jointMapper{joint: j, mappers: mappers}, true
	}

	if m, ok := p.(UnitCubeMapper); ok {
		return m, true
	}

	return nil, false
}
