// Package model provides forward models mapping free parameters to
// predictions over a fixed set of covariates. Likelihoods compare those
// predictions against observed data.
package model

// Model is a deterministic forward model evaluated on its covariates.
type Model interface {
	// Predict fills predictions with the model evaluated at theta.
	// len(predictions) must equal NPoints(), len(theta) NParameters().
	Predict(predictions, theta []float64)

	// NParameters returns the number of free parameters.
	NParameters() int

	// NPoints returns the number of covariate points predicted per call.
	NPoints() int
}
