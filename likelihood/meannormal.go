package likelihood

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/nestgo/model"
)

// MeanNormal is a Gaussian likelihood with a single noise level, taken as
// the mean of the per-point uncertainties. Cheaper than Normal when the
// uncertainties are nearly homogeneous.
type MeanNormal struct {
	observations []float64
	model        model.Model
	weight       float64
	lambda0      float64
}

// NewMeanNormal creates a mean-normal likelihood. The uncertainties must
// be non-empty with a strictly positive mean.
func NewMeanNormal(observations, uncertainties []float64, m model.Model) (*MeanNormal, error) {
	if len(observations) == 0 || len(observations) != len(uncertainties) {
		return nil, fmt.Errorf("likelihood: got %d observations and %d uncertainties", len(observations), len(uncertainties))
	}

	if m.NPoints() != len(observations) {
		return nil, fmt.Errorf("likelihood: model predicts %d points for %d observations", m.NPoints(), len(observations))
	}

	sigma := stat.Mean(uncertainties, nil)
	if sigma <= 0 {
		return nil, fmt.Errorf("likelihood: mean uncertainty %g", sigma)
	}

	n := float64(len(observations))
	lambda0 := -0.5*n*math.Log(2*math.Pi) - n*math.Log(sigma)

	return &MeanNormal{
		observations: observations,
		model:        m,
		weight:       1 / (sigma * sigma),
		lambda0:      lambda0,
	}, nil
}

// LogValue implements the Likelihood interface.
func (l *MeanNormal) LogValue(theta []float64) float64 {
	predictions := make([]float64, len(l.observations))
	l.model.Predict(predictions, theta)

	ss := 0.0
	for i, obs := range l.observations {
		r := obs - predictions[i]
		ss += r * r
	}

	return l.lambda0 - 0.5*l.weight*ss
}
