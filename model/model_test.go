package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLorentzian(t *testing.T) {
	covariates := []float64{8, 9, 10, 11, 12}
	m := NewLorentzian(covariates)

	assert.Equal(t, 3, m.NParameters())
	assert.Equal(t, 5, m.NPoints())

	predictions := make([]float64, m.NPoints())
	theta := []float64{10, 2, 2} // centroid 10, amplitude 2, FWHM 2

	m.Predict(predictions, theta)

	// Peak value at the centroid.
	assert.InDelta(t, 2, predictions[2], 1e-12)
	// Half maximum one half-width away.
	assert.InDelta(t, 1, predictions[1], 1e-12)
	assert.InDelta(t, 1, predictions[3], 1e-12)
	// Symmetry about the centroid.
	assert.InDelta(t, predictions[0], predictions[4], 1e-12)
	// Monotone falloff away from the peak.
	assert.Greater(t, predictions[2], predictions[1])
	assert.Greater(t, predictions[1], predictions[0])
}

func TestConstant(t *testing.T) {
	m := NewConstant(4)

	assert.Equal(t, 1, m.NParameters())
	assert.Equal(t, 4, m.NPoints())

	predictions := make([]float64, 4)
	m.Predict(predictions, []float64{3.5})

	for _, p := range predictions {
		assert.Equal(t, 3.5, p)
	}
}
