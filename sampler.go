package nestgo

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/nestgo/cluster"
	"github.com/hupe1980/nestgo/codec"
	"github.com/hupe1980/nestgo/ellipsoid"
	"github.com/hupe1980/nestgo/internal/logmath"
	"github.com/hupe1980/nestgo/likelihood"
	"github.com/hupe1980/nestgo/prior"
)

// Sampler runs the multi-ellipsoidal nested sampling loop for one prior
// and likelihood. A Sampler performs a single run: construct, Run,
// inspect the Result. Accessors other than State are meant for use after
// Run returns; monitoring a live run goes through the Logger and
// MetricsCollector.
type Sampler struct {
	prior prior.Prior
	like  likelihood.Likelihood
	opts  options
	dim   int
	seed  uint64

	src *rand.PCG
	rng *rand.Rand

	state atomic.Int32

	live            *livePoints
	nLiveInitial    int
	logZ            float64
	h               float64
	logWidth        float64
	logLStar        float64
	logXRemaining   float64
	iteration       int
	lastClusterIter int
	lastCheckpoint  int
	likeEvals       int64
	set             *ellipsoid.Set
	posterior       []Sample
	resumed         bool

	logTermination float64
	limiter        *rate.Limiter

	metrics MetricsCollector
	logger  *Logger

	result *Result
}

// New creates a Sampler for the given prior and likelihood. The prior
// fixes the parameter-space dimension. Invalid configuration is rejected
// here, before any likelihood evaluation.
func New(p prior.Prior, l likelihood.Likelihood, optFns ...Option) (*Sampler, error) {
	if p == nil {
		return nil, fmt.Errorf("nestgo: prior must not be nil")
	}
	if l == nil {
		return nil, fmt.Errorf("nestgo: likelihood must not be nil")
	}

	dim := p.Dimension()
	if dim < 1 {
		return nil, fmt.Errorf("nestgo: prior dimension %d must be positive", dim)
	}

	opts := applyOptions(optFns)

	if opts.initialNObjects < dim+1 {
		return nil, fmt.Errorf("nestgo: %d live points cannot span %d dimensions, need at least %d", opts.initialNObjects, dim, dim+1)
	}
	if opts.minNObjects > opts.initialNObjects {
		return nil, fmt.Errorf("nestgo: reduction floor %d exceeds initial live points %d", opts.minNObjects, opts.initialNObjects)
	}
	// The decomposition needs dim+1 points for a full-rank covariance.
	if opts.minNObjects < dim+1 {
		opts.minNObjects = dim + 1
	}
	if opts.maxNDrawAttempts < 1 {
		return nil, fmt.Errorf("nestgo: draw attempt budget %d must be positive", opts.maxNDrawAttempts)
	}
	if opts.initialIterationsWithoutClustering < 0 || opts.iterationsWithSameClustering < 1 {
		return nil, fmt.Errorf("nestgo: invalid clustering cadence (%d, %d)", opts.initialIterationsWithoutClustering, opts.iterationsWithSameClustering)
	}
	if opts.initialEnlargementFraction == 0 {
		opts.initialEnlargementFraction = float64(dim + 2)
	}
	enl := ellipsoid.Enlargement{
		InitialFraction: opts.initialEnlargementFraction,
		ShrinkingRate:   opts.shrinkingRate,
		XRemaining:      1,
	}
	if err := enl.Validate(); err != nil {
		return nil, fmt.Errorf("nestgo: enlargement: %w", err)
	}
	if opts.terminationFactor <= 0 {
		return nil, fmt.Errorf("nestgo: termination factor %g must be positive", opts.terminationFactor)
	}
	if opts.minNClusters < 1 || opts.maxNClusters < opts.minNClusters {
		return nil, fmt.Errorf("nestgo: invalid cluster range [%d, %d]", opts.minNClusters, opts.maxNClusters)
	}
	if opts.maxIterations < 0 {
		return nil, fmt.Errorf("nestgo: iteration cap %d must not be negative", opts.maxIterations)
	}
	if opts.parallelism <= 0 {
		opts.parallelism = runtime.GOMAXPROCS(0)
	}
	if opts.latinHypercube {
		if _, ok := prior.AsUnitCubeMapper(p); !ok {
			return nil, fmt.Errorf("nestgo: latin hypercube initialization needs a prior with a unit-cube mapping")
		}
	}
	if opts.clusterer == nil {
		km, err := cluster.New()
		if err != nil {
			return nil, err
		}
		opts.clusterer = km
	}
	if opts.codec == nil {
		opts.codec = codec.Default
	}

	seed := uint64(time.Now().UnixNano())
	if opts.seed != nil {
		seed = *opts.seed
	}
	src := rand.NewPCG(seed, seed)

	s := &Sampler{
		prior:          p,
		like:           l,
		opts:           opts,
		dim:            dim,
		seed:           seed,
		src:            src,
		rng:            rand.New(src),
		logTermination: math.Log(opts.terminationFactor),
		limiter:        rate.NewLimiter(rate.Every(time.Second), 1),
		metrics:        opts.metricsCollector,
		logger:         opts.logger.WithDimension(dim),
	}
	s.state.Store(int32(StateUninitialized))
	return s, nil
}

// State returns the current lifecycle phase. Safe to call while Run is
// in progress.
func (s *Sampler) State() State {
	return State(s.state.Load())
}

// Dimension returns the parameter-space dimension.
func (s *Sampler) Dimension() int {
	return s.dim
}

// NLive returns the current live-point count.
func (s *Sampler) NLive() int {
	if s.live == nil {
		return 0
	}
	return s.live.count()
}

// Iteration returns the number of completed nesting iterations.
func (s *Sampler) Iteration() int {
	return s.iteration
}

// Seed returns the RNG seed of this run.
func (s *Sampler) Seed() uint64 {
	return s.seed
}

// Result returns the outputs of the completed run, or ErrNotRun.
func (s *Sampler) Result() (*Result, error) {
	if s.result == nil {
		return nil, ErrNotRun
	}
	return s.result, nil
}

func (s *Sampler) runConfig() RunConfig {
	return RunConfig{
		InitialNObjects:                    s.opts.initialNObjects,
		MinNObjects:                        s.opts.minNObjects,
		MaxNDrawAttempts:                   s.opts.maxNDrawAttempts,
		InitialIterationsWithoutClustering: s.opts.initialIterationsWithoutClustering,
		IterationsWithSameClustering:       s.opts.iterationsWithSameClustering,
		InitialEnlargementFraction:         s.opts.initialEnlargementFraction,
		ShrinkingRate:                      s.opts.shrinkingRate,
		TerminationFactor:                  s.opts.terminationFactor,
		MinNClusters:                       s.opts.minNClusters,
		MaxNClusters:                       s.opts.maxNClusters,
	}
}

// clusteringDue reports whether iteration n rebuilds the decomposition:
// never inside the initial single-cluster window, afterwards on the
// rebuild cadence.
func (s *Sampler) clusteringDue(n int) bool {
	if n < s.opts.initialIterationsWithoutClustering {
		return false
	}
	return n-s.lastClusterIter >= s.opts.iterationsWithSameClustering
}

// decompose rebuilds the ellipsoidal decomposition from the current live
// points. Inside the initial window a single cluster is forced; later a
// clusterer failure falls back to one cluster rather than aborting.
func (s *Sampler) decompose(ctx context.Context) error {
	start := time.Now()
	points := s.live.points()

	var (
		part       *cluster.Partition
		clusterErr error
	)
	if s.iteration >= s.opts.initialIterationsWithoutClustering {
		part, clusterErr = s.opts.clusterer.Cluster(s.rng, points, s.opts.minNClusters, s.opts.maxNClusters)
		if clusterErr != nil {
			part = nil
		}
	}
	if part == nil {
		part = &cluster.Partition{
			K:           1,
			Assignments: make([]int, len(points)),
			Sizes:       []int{len(points)},
		}
	}

	enl := ellipsoid.Enlargement{
		InitialFraction: s.opts.initialEnlargementFraction,
		ShrinkingRate:   s.opts.shrinkingRate,
		XRemaining:      math.Exp(-float64(s.iteration) / float64(s.nLiveInitial)),
	}

	set, err := ellipsoid.NewSet(points, part.Assignments, part.K, enl)
	if err != nil {
		return translateError(err)
	}

	s.set = set
	s.lastClusterIter = s.iteration
	s.metrics.RecordClustering(part.K, set.K(), time.Since(start))
	s.logger.LogClustering(ctx, s.iteration, part.K, set.K(), time.Since(start), clusterErr)
	return nil
}

// drawConstrained samples a replacement point: uniform over the
// ellipsoid union, thinned to the prior density, accepted above the
// likelihood floor.
func (s *Sampler) drawConstrained(floor float64) ([]float64, float64, int, error) {
	start := time.Now()
	theta := make([]float64, s.dim)
	logPdfMax := s.prior.LogPdfMax()

	for attempt := 1; attempt <= s.opts.maxNDrawAttempts; attempt++ {
		s.set.DrawUniform(s.rng, theta)

		logPdf := s.prior.LogPdf(theta)
		if math.IsInf(logPdf, -1) {
			continue
		}
		if s.rng.Float64() >= math.Exp(logPdf-logPdfMax) {
			continue
		}

		s.likeEvals++
		logL := s.like.LogValue(theta)
		if math.IsNaN(logL) || math.IsInf(logL, 1) {
			err := &ErrNonFiniteLikelihood{Value: logL, Theta: slices.Clone(theta)}
			s.metrics.RecordDraw(attempt, time.Since(start), err)
			return nil, 0, attempt, err
		}
		if logL > floor {
			s.metrics.RecordDraw(attempt, time.Since(start), nil)
			return theta, logL, attempt, nil
		}
	}

	s.metrics.RecordDraw(s.opts.maxNDrawAttempts, time.Since(start), ErrDrawAttemptsExhausted)
	return nil, 0, s.opts.maxNDrawAttempts, ErrDrawAttemptsExhausted
}

// advanceEvidence folds one weighted sample into the evidence and
// information accumulators.
func advanceEvidence(logZ, h, logW, logL float64) (logZNew, hNew float64) {
	logZNew = logmath.Add(logZ, logW)
	if math.IsInf(logZNew, -1) {
		return logZNew, h
	}

	hNew = -logZNew
	if !math.IsInf(logW, -1) {
		hNew += math.Exp(logW-logZNew) * logL
	}
	if !math.IsInf(logZ, -1) {
		hNew += math.Exp(logZ-logZNew) * (h + logZ)
	}
	// Underflow can push H a hair below zero.
	if hNew < 0 {
		hNew = 0
	}
	return logZNew, hNew
}
