package likelihood

import (
	"fmt"
	"math"

	"github.com/hupe1980/nestgo/model"
)

// Normal is a Gaussian likelihood with known per-point uncertainties:
//
//	log L = lambda0 - 0.5 * sum_i ((obs_i - pred_i) / sigma_i)^2
//
// where lambda0 collects the normalization terms.
type Normal struct {
	observations  []float64
	uncertainties []float64
	model         model.Model
	lambda0       float64
}

// NewNormal creates a normal likelihood from observations with strictly
// positive uncertainties and a forward model predicting over the same
// points.
func NewNormal(observations, uncertainties []float64, m model.Model) (*Normal, error) {
	if len(observations) == 0 || len(observations) != len(uncertainties) {
		return nil, fmt.Errorf("likelihood: got %d observations and %d uncertainties", len(observations), len(uncertainties))
	}

	if m.NPoints() != len(observations) {
		return nil, fmt.Errorf("likelihood: model predicts %d points for %d observations", m.NPoints(), len(observations))
	}

	lambda0 := -0.5 * float64(len(observations)) * math.Log(2*math.Pi)

	for i, sigma := range uncertainties {
		if sigma <= 0 {
			return nil, fmt.Errorf("likelihood: uncertainty %g at point %d", sigma, i)
		}

		lambda0 -= math.Log(sigma)
	}

	return &Normal{
		observations:  observations,
		uncertainties: uncertainties,
		model:         m,
		lambda0:       lambda0,
	}, nil
}

// LogValue implements the Likelihood interface.
func (l *Normal) LogValue(theta []float64) float64 {
	predictions := make([]float64, len(l.observations))
	l.model.Predict(predictions, theta)

	chi2 := 0.0
	for i, obs := range l.observations {
		r := (obs - predictions[i]) / l.uncertainties[i]
		chi2 += r * r
	}

	return l.lambda0 - 0.5*chi2
}
