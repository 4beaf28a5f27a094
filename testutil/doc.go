// Package testutil provides testing utilities for nestgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random parameter-space point
// clouds and for checking posterior-sample quality.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformPoints(500, 2)         // uniform [0, 1)
//	cloud := rng.GaussianPoints(500, 2)         // standard normal
//	blobs := rng.ClusteredPoints(500, 2, 4, 10, 0.5)
//
// # Posterior Diagnostics
//
//	ess := testutil.EffectiveSampleSize(result.PosteriorWeights())
package testutil
