package cluster

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hupe1980/nestgo/metric"
	"github.com/hupe1980/nestgo/projection"
)

const (
	// DefaultNTrials is the default number of restarts per cluster count.
	DefaultNTrials = 10

	// DefaultMaxIterations is the default Lloyd iteration cap per trial.
	DefaultMaxIterations = 100

	// DefaultRelTolerance is the default relative scatter change below
	// which a trial counts as converged.
	DefaultRelTolerance = 0.01
)

// Options for the k-means clusterer.
type Options struct {
	// NTrials is the number of independently seeded runs per candidate
	// cluster count; the best-scatter run represents that count.
	NTrials int

	// MaxIterations caps the Lloyd iterations of a single run.
	MaxIterations int

	// RelTolerance stops a run when the relative change in total scatter
	// between iterations falls below it.
	RelTolerance float64

	// Metric is the distance used for assignment and scatter.
	Metric metric.Metric

	// Projector optionally reduces the points before clustering.
	Projector projection.Projector
}

var DefaultOptions = Options{
	NTrials:       DefaultNTrials,
	MaxIterations: DefaultMaxIterations,
	RelTolerance:  DefaultRelTolerance,
	Metric:        metric.MetricEuclidean,
}

// KMeans is a Lloyd's-algorithm clusterer that picks the cluster count by
// the Bayesian information criterion, X-means style: every count in the
// requested range is fitted and the count with the highest BIC wins, the
// smallest on ties.
type KMeans struct {
	opts     Options
	distFunc metric.Func
}

// New creates a new k-means clusterer.
func New(optFns ...func(o *Options)) (*KMeans, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.NTrials < 1 {
		opts.NTrials = DefaultNTrials
	}

	if opts.MaxIterations < 1 {
		opts.MaxIterations = DefaultMaxIterations
	}

	if opts.RelTolerance <= 0 {
		opts.RelTolerance = DefaultRelTolerance
	}

	distFunc, err := metric.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	return &KMeans{opts: opts, distFunc: distFunc}, nil
}

// Cluster implements the Clusterer interface.
func (km *KMeans) Cluster(rng *rand.Rand, points [][]float64, kMin, kMax int) (*Partition, error) {
	if kMin < 1 || kMax < kMin {
		return nil, fmt.Errorf("cluster: invalid range [%d, %d]", kMin, kMax)
	}

	n := len(points)
	if n == 0 || kMin > n {
		return nil, fmt.Errorf("%w: %d points for kMin %d", ErrNoPartition, n, kMin)
	}

	work := points

	if km.opts.Projector != nil {
		projected, err := km.opts.Projector.Project(points)
		if err != nil {
			return nil, fmt.Errorf("cluster: projection: %w", err)
		}

		work = projected
	}

	if kMax > n {
		kMax = n
	}

	var (
		best    *Partition
		bestBIC = math.Inf(-1)
	)

	for k := kMin; k <= kMax; k++ {
		trial := km.bestTrial(rng, work, k)
		if trial == nil {
			continue
		}

		bic := bicScore(work, trial)
		if bic > bestBIC {
			bestBIC = bic
			best = trial
		}
	}

	if best == nil {
		return nil, ErrNoPartition
	}

	return best, nil
}

// bestTrial runs NTrials independently initialized Lloyd's runs for a
// fixed k and returns the run with the lowest total scatter.
func (km *KMeans) bestTrial(rng *rand.Rand, points [][]float64, k int) *Partition {
	var (
		best        *Partition
		bestScatter = math.Inf(1)
	)

	for trial := 0; trial < km.opts.NTrials; trial++ {
		p, scatter := km.lloyd(rng, points, k)
		if p != nil && scatter < bestScatter {
			bestScatter = scatter
			best = p
		}
	}

	return best
}

// lloyd runs one k-means fit from a fresh random initialization and
// returns the partition with its total scatter under the metric.
func (km *KMeans) lloyd(rng *rand.Rand, points [][]float64, k int) (*Partition, float64) {
	n := len(points)
	dim := len(points[0])

	// Initialize centers on k distinct points.
	centers := make([][]float64, k)
	perm := rng.Perm(n)

	for j := 0; j < k; j++ {
		centers[j] = append([]float64(nil), points[perm[j]]...)
	}

	assignments := make([]int, n)
	sizes := make([]int, k)
	sums := make([][]float64, k)

	for j := range sums {
		sums[j] = make([]float64, dim)
	}

	prevScatter := math.Inf(1)
	scatter := math.Inf(1)

	for iter := 0; iter < km.opts.MaxIterations; iter++ {
		// Assignment step.
		changed := false
		scatter = 0

		for i, pt := range points {
			bestCluster := 0
			minDist := math.Inf(1)

			for j, center := range centers {
				if d := km.distFunc(pt, center); d < minDist {
					minDist = d
					bestCluster = j
				}
			}

			scatter += minDist

			if assignments[i] != bestCluster {
				assignments[i] = bestCluster
				changed = true
			}
		}

		converged := !changed ||
			(!math.IsInf(prevScatter, 1) && math.Abs(prevScatter-scatter) <= km.opts.RelTolerance*prevScatter)
		prevScatter = scatter

		// Update step.
		for j := range sums {
			sizes[j] = 0
			for d := range sums[j] {
				sums[j][d] = 0
			}
		}

		for i, pt := range points {
			j := assignments[i]
			sizes[j]++

			for d, v := range pt {
				sums[j][d] += v
			}
		}

		for j := range centers {
			if sizes[j] > 0 {
				for d := range centers[j] {
					centers[j][d] = sums[j][d] / float64(sizes[j])
				}

				continue
			}

			// Reseed an empty cluster on a random point.
			copy(centers[j], points[rng.IntN(n)])
			converged = false
		}

		if converged {
			break
		}
	}

	return &Partition{
		K:           k,
		Assignments: assignments,
		Sizes:       sizes,
		Centers:     centers,
	}, scatter
}

// bicScore evaluates a partition under a spherical Gaussian model with a
// shared variance (Pelleg & Moore). Residuals are measured in squared
// Euclidean distance regardless of the assignment metric.
func bicScore(points [][]float64, p *Partition) float64 {
	n := len(points)
	dim := len(points[0])
	k := p.K

	rss := 0.0
	for i, pt := range points {
		rss += metric.SquaredEuclidean(pt, p.Centers[p.Assignments[i]])
	}

	dof := n - k
	if dof < 1 {
		dof = 1
	}

	sigma2 := rss / float64(dof)
	if sigma2 < 1e-30 {
		sigma2 = 1e-30
	}

	fn := float64(n)
	loglik := 0.0

	for _, size := range p.Sizes {
		if size > 0 {
			loglik += float64(size) * math.Log(float64(size)/fn)
		}
	}

	loglik -= fn * float64(dim) / 2 * math.Log(2*math.Pi*sigma2)
	loglik -= float64(n-k) / 2

	nParams := float64(k-1) + float64(k*dim) + 1

	return loglik - nParams/2*math.Log(fn)
}
