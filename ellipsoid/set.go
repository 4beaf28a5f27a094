package ellipsoid

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// ErrNoEllipsoids is returned when no cluster yields a usable ellipsoid.
var ErrNoEllipsoids = errors.New("no usable ellipsoids")

// Enlargement controls how much cluster ellipsoids are inflated beyond
// their sample covariance. The fraction decays with the remaining prior
// mass and grows for clusters holding few of the live points.
type Enlargement struct {
	// InitialFraction is the base enlargement applied at the start of
	// the run. Must be positive.
	InitialFraction float64

	// ShrinkingRate is the exponent applied to the remaining prior
	// mass. Must lie in [0, 1]; 0 disables shrinking.
	ShrinkingRate float64

	// XRemaining is the current estimate of the remaining prior mass.
	// Must lie in (0, 1].
	XRemaining float64
}

// Validate reports whether the enlargement parameters are usable.
func (e Enlargement) Validate() error {
	if e.InitialFraction <= 0 {
		return fmt.Errorf("initial fraction must be positive, got %g", e.InitialFraction)
	}

	if e.ShrinkingRate < 0 || e.ShrinkingRate > 1 {
		return fmt.Errorf("shrinking rate must lie in [0, 1], got %g", e.ShrinkingRate)
	}

	if e.XRemaining <= 0 || e.XRemaining > 1 {
		return fmt.Errorf("remaining prior mass must lie in (0, 1], got %g", e.XRemaining)
	}

	return nil
}

// Fraction returns the enlargement factor for a cluster of m points out
// of nLive live points.
func (e Enlargement) Fraction(m, nLive int) float64 {
	return e.InitialFraction * math.Pow(e.XRemaining, e.ShrinkingRate) * math.Sqrt(float64(nLive)/float64(m))
}

// Set is a union of enlarged cluster ellipsoids that supports uniform
// sampling over the union region.
type Set struct {
	ellipsoids  []*Ellipsoid
	overlaps    []float64
	cumWeights  []float64
	totalWeight float64
	logVolume   float64
}

// NewSet builds the sampling union for a clustered point set. Clusters
// with fewer than dim+1 members cannot support a full-rank covariance
// and are merged into the nearest surviving cluster by centroid
// distance; if no cluster survives, all points form a single cluster.
// Clusters whose covariance cannot be factorized are excluded from the
// union.
func NewSet(points [][]float64, assignments []int, k int, enl Enlargement) (*Set, error) {
	if err := enl.Validate(); err != nil {
		return nil, err
	}

	if len(points) == 0 {
		return nil, ErrNoEllipsoids
	}

	if len(assignments) != len(points) {
		return nil, fmt.Errorf("got %d assignments for %d points", len(assignments), len(points))
	}

	members := make([][]int, k)
	for i, a := range assignments {
		if a < 0 || a >= k {
			return nil, fmt.Errorf("assignment %d out of range [0, %d)", a, k)
		}

		members[a] = append(members[a], i)
	}

	dim := len(points[0])
	groups := regroup(points, members, dim+1)

	nLive := len(points)

	var (
		ellipsoids  []*Ellipsoid
		groupPoints [][][]float64
	)

	for _, g := range groups {
		pts := make([][]float64, len(g))
		for i, idx := range g {
			pts[i] = points[idx]
		}

		e, err := FromPoints(pts)
		if err != nil {
			if errors.Is(err, ErrDegenerate) {
				continue
			}

			return nil, err
		}

		e.Enlarge(enl.Fraction(len(pts), nLive))

		ellipsoids = append(ellipsoids, e)
		groupPoints = append(groupPoints, pts)
	}

	if len(ellipsoids) == 0 {
		return nil, ErrNoEllipsoids
	}

	s := &Set{ellipsoids: ellipsoids}
	s.computeOverlaps(groupPoints)
	s.computeWeights()

	return s, nil
}

// regroup merges clusters smaller than minPoints into the nearest
// surviving cluster and returns the member index lists of the survivors.
func regroup(points [][]float64, members [][]int, minPoints int) [][]int {
	dim := len(points[0])

	centroids := make([][]float64, len(members))
	for c, idxs := range members {
		if len(idxs) == 0 {
			continue
		}

		centroid := make([]float64, dim)
		for _, idx := range idxs {
			for j, v := range points[idx] {
				centroid[j] += v
			}
		}
		for j := range centroid {
			centroid[j] /= float64(len(idxs))
		}

		centroids[c] = centroid
	}

	var large, small []int
	for c, idxs := range members {
		switch {
		case len(idxs) == 0:
		case len(idxs) >= minPoints:
			large = append(large, c)
		default:
			small = append(small, c)
		}
	}

	if len(large) == 0 {
		all := make([]int, len(points))
		for i := range all {
			all[i] = i
		}

		return [][]int{all}
	}

	for _, c := range small {
		best, bestDist := large[0], math.Inf(1)
		for _, l := range large {
			d := 0.0
			for j := range centroids[c] {
				diff := centroids[c][j] - centroids[l][j]
				d += diff * diff
			}

			if d < bestDist {
				best, bestDist = l, d
			}
		}

		members[best] = append(members[best], members[c]...)
	}

	groups := make([][]int, 0, len(large))
	for _, c := range large {
		groups = append(groups, members[c])
	}

	return groups
}

// computeOverlaps estimates, for each ellipsoid, the average number of
// other ellipsoids that also contain its member points.
func (s *Set) computeOverlaps(groupPoints [][][]float64) {
	s.overlaps = make([]float64, len(s.ellipsoids))

	for k, pts := range groupPoints {
		total := 0
		for _, p := range pts {
			for j, other := range s.ellipsoids {
				if j == k {
					continue
				}

				if other.Contains(p) {
					total++
				}
			}
		}

		s.overlaps[k] = float64(total) / float64(len(pts))
	}
}

func (s *Set) computeWeights() {
	logVols := make([]float64, len(s.ellipsoids))

	maxLog := math.Inf(-1)
	for i, e := range s.ellipsoids {
		logVols[i] = e.LogVolume()
		if logVols[i] > maxLog {
			maxLog = logVols[i]
		}
	}

	s.cumWeights = make([]float64, len(s.ellipsoids))

	cum := 0.0
	for i, lv := range logVols {
		cum += math.Exp(lv - maxLog)
		s.cumWeights[i] = cum
	}

	s.totalWeight = cum
	s.logVolume = floats.LogSumExp(logVols)
}

// K returns the number of ellipsoids in the union.
func (s *Set) K() int {
	return len(s.ellipsoids)
}

// LogVolume returns the log of the summed ellipsoid volumes, an upper
// bound on the union volume.
func (s *Set) LogVolume() float64 {
	return s.logVolume
}

// Overlaps returns, per ellipsoid, the average number of other
// ellipsoids containing its member points.
func (s *Set) Overlaps() []float64 {
	return append([]float64(nil), s.overlaps...)
}

// Ellipsoids returns the ellipsoids of the union.
func (s *Set) Ellipsoids() []*Ellipsoid {
	return append([]*Ellipsoid(nil), s.ellipsoids...)
}

// DrawUniform fills out with a point drawn uniformly from the union.
// An ellipsoid is picked proportionally to its volume and a draw inside
// q overlapping ellipsoids is accepted with probability 1/q, which
// cancels the multiple counting of overlap regions.
func (s *Set) DrawUniform(rng *rand.Rand, out []float64) {
	for {
		target := rng.Float64() * s.totalWeight

		k := 0
		for k < len(s.cumWeights)-1 && s.cumWeights[k] <= target {
			k++
		}

		s.ellipsoids[k].DrawUniform(rng, out)

		q := 0
		for _, e := range s.ellipsoids {
			if e.Contains(out) {
				q++
			}
		}

		if q <= 1 || rng.Float64() < 1/float64(q) {
			return
		}
	}
}
