// Package cluster partitions live points into groups that the sampler
// wraps in enlarged ellipsoids. The cluster count is chosen per rebuild
// from a caller-supplied range; consecutive rebuilds are independent.
package cluster

import (
	"errors"
	"math/rand/v2"
)

// ErrNoPartition is returned when no feasible clustering exists for the
// requested range, e.g. fewer points than the minimum cluster count. The
// sampler falls back to a single cluster.
var ErrNoPartition = errors.New("no feasible partition")

// Partition describes one clustering of the live points.
type Partition struct {
	// K is the chosen number of clusters.
	K int

	// Assignments maps each input point to its cluster index in [0, K).
	Assignments []int

	// Sizes is the per-cluster point count.
	Sizes []int

	// Centers holds the per-cluster centers in the space the clusterer
	// operated in, which is the projected space when a projector is
	// configured.
	Centers [][]float64
}

// Clusterer partitions points, choosing a cluster count in [kMin, kMax].
// Implementations must tolerate duplicate points and may return clusters
// of any size; the caller deals with clusters too small to wrap.
type Clusterer interface {
	Cluster(rng *rand.Rand, points [][]float64, kMin, kMax int) (*Partition, error)
}
