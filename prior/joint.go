package prior

import (
	"errors"
	"math"
	"math/rand/v2"
)

// Joint concatenates priors over disjoint parameter blocks into one prior
// over the combined space. The joint density is the product of the block
// densities.
type Joint struct {
	priors    []Prior
	dim       int
	logPdfMax float64
}

// NewJoint creates a joint prior from the given blocks, in order.
func NewJoint(priors ...Prior) (*Joint, error) {
	if len(priors) == 0 {
		return nil, errors.New("prior: joint prior needs at least one block")
	}

	dim := 0
	logPdfMax := 0.0

	for _, p := range priors {
		dim += p.Dimension()
		logPdfMax += p.LogPdfMax()
	}

	return &Joint{priors: priors, dim: dim, logPdfMax: logPdfMax}, nil
}

// Dimension implements the Prior interface.
func (p *Joint) Dimension() int {
	return p.dim
}

// LogPdf implements the Prior interface.
func (p *Joint) LogPdf(theta []float64) float64 {
	sum := 0.0
	off := 0

	for _, sub := range p.priors {
		d := sub.Dimension()

		lp := sub.LogPdf(theta[off : off+d])
		if math.IsInf(lp, -1) {
			return lp
		}

		sum += lp
		off += d
	}

	return sum
}

// LogPdfMax implements the Prior interface.
func (p *Joint) LogPdfMax() float64 {
	return p.logPdfMax
}

// Draw implements the Prior interface.
func (p *Joint) Draw(rng *rand.Rand, out []float64) {
	off := 0
	for _, sub := range p.priors {
		d := sub.Dimension()
		sub.Draw(rng, out[off:off+d])
		off += d
	}
}

type jointMapper struct {
	joint   *Joint
	mappers []UnitCubeMapper
}

func (m *jointMapper) MapFromUnitCube(u, out []float64) {
	off := 0
	for i, sub := range m.joint.priors {
		d := sub.Dimension()
		m.mappers[i].MapFromUnitCube(u[off:off+d], out[off:off+d])
		off += d
	}
}
