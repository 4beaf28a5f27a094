package model

// Constant predicts a flat level across all covariate points. Its single
// parameter is the level itself. Useful as a background term and in tests
// where the forward model should not get in the way.
type Constant struct {
	nPoints int
}

// NewConstant creates a constant model over nPoints covariate points.
func NewConstant(nPoints int) *Constant {
	return &Constant{nPoints: nPoints}
}

// NParameters implements the Model interface.
func (m *Constant) NParameters() int {
	return 1
}

// NPoints implements the Model interface.
func (m *Constant) NPoints() int {
	return m.nPoints
}

// Predict implements the Model interface.
func (m *Constant) Predict(predictions, theta []float64) {
	for i := range predictions {
		predictions[i] = theta[0]
	}
}
