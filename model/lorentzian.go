package model

// Lorentzian predicts a single Lorentzian profile over its covariates.
// Parameters are centroid, amplitude and width (FWHM), in that order:
//
//	prediction(x) = amplitude / (1 + (2*(x-centroid)/width)^2)
//
// The profile peaks at the centroid with value amplitude and falls to half
// that value one half-width away on either side.
type Lorentzian struct {
	covariates []float64
}

// NewLorentzian creates a Lorentzian model over the given covariates.
func NewLorentzian(covariates []float64) *Lorentzian {
	return &Lorentzian{covariates: covariates}
}

// NParameters implements the Model interface.
func (m *Lorentzian) NParameters() int {
	return 3
}

// NPoints implements the Model interface.
func (m *Lorentzian) NPoints() int {
	return len(m.covariates)
}

// Predict implements the Model interface.
func (m *Lorentzian) Predict(predictions, theta []float64) {
	centroid, amplitude, width := theta[0], theta[1], theta[2]

	for i, x := range m.covariates {
		u := 2 * (x - centroid) / width
		predictions[i] = amplitude / (1 + u*u)
	}
}
