// Package prior provides prior probability densities over blocks of
// parameters, composable into a joint prior across all dimensions of a
// sampling run.
//
// # Available Priors
//
//   - Uniform: constant density inside an axis-aligned box
//   - Normal: independent Gaussian per dimension
//   - GridUniform: uniform over narrow windows centered on a regular grid
//   - Joint: concatenation of priors over disjoint parameter blocks
//
// All built-in priors additionally support mapping points from the unit
// hypercube into parameter space, which the sampler uses for stratified
// initialization. Use AsUnitCubeMapper to obtain that view of a prior.
package prior
