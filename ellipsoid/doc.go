// Package ellipsoid provides the covariance ellipsoids that bound the
// live-point clusters during a run, and their sampling union.
//
// # Single Ellipsoid
//
// An Ellipsoid is fitted to a cluster of points: center at the mean, axes
// from the eigen-decomposition of the sample covariance, scaled by an
// enlargement factor so the ellipsoid over-covers the iso-likelihood
// region its cluster traces.
//
// # Set
//
// A Set wraps the ellipsoids of all clusters. Clusters too small to
// support a covariance fit are merged into their nearest neighbor first.
// The Set samples uniformly from the union of its (generally
// overlapping) ellipsoids by volume-weighted selection with multiplicity
// compensation, and tracks per-ellipsoid overlap statistics.
package ellipsoid
