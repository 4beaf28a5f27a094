package nestgo

import (
	"log/slog"

	"github.com/hupe1980/nestgo/blobstore"
	"github.com/hupe1980/nestgo/cluster"
	"github.com/hupe1980/nestgo/codec"
	"github.com/hupe1980/nestgo/reducer"
)

// Defaults for the sampler configuration. The enlargement fraction has no
// constant default: when left at zero it resolves to Dimension+2, the
// covariance-to-bounding factor for points uniform inside an ellipsoid.
const (
	DefaultInitialNObjects                    = 500
	DefaultMinNObjects                        = 100
	DefaultMaxNDrawAttempts                   = 5000
	DefaultInitialIterationsWithoutClustering = 1000
	DefaultIterationsWithSameClustering       = 50
	DefaultShrinkingRate                      = 0.02
	DefaultTerminationFactor                  = 0.01
	DefaultMinNClusters                       = 1
	DefaultMaxNClusters                       = 10
	DefaultCheckpointEvery                    = 1000
)

type options struct {
	initialNObjects                    int
	minNObjects                        int
	maxNDrawAttempts                   int
	initialIterationsWithoutClustering int
	iterationsWithSameClustering       int
	initialEnlargementFraction         float64
	shrinkingRate                      float64
	terminationFactor                  float64
	minNClusters                       int
	maxNClusters                       int
	maxIterations                      int
	seed                               *uint64
	parallelism                        int
	latinHypercube                     bool
	clusterer                          cluster.Clusterer
	reducer                            reducer.Reducer
	checkpointStore                    blobstore.Store
	checkpointEvery                    int
	codec                              codec.Codec
	compression                        codec.Compression
	metricsCollector                   MetricsCollector
	logger                             *Logger
}

// Option configures Sampler construction.
//
// Every knob has a default usable for well-conditioned low-dimensional
// problems; multi-modal or high-dimensional posteriors usually need
// explicit enlargement and cluster-range settings.
type Option func(*options)

// WithInitialNObjects sets the starting live-point count. More points
// resolve finer likelihood structure at proportionally higher cost.
func WithInitialNObjects(n int) Option {
	return func(o *options) {
		o.initialNObjects = n
	}
}

// WithMinNObjects sets the floor the reduction schedule may not cross.
func WithMinNObjects(n int) Option {
	return func(o *options) {
		o.minNObjects = n
	}
}

// WithMaxNDrawAttempts sets the rejection budget of a single constrained
// draw. When the budget is exhausted the sampler retires one live point
// instead; at the floor the run finalizes with partial results.
func WithMaxNDrawAttempts(n int) Option {
	return func(o *options) {
		o.maxNDrawAttempts = n
	}
}

// WithClusteringCadence controls when the ellipsoidal decomposition is
// rebuilt: a single cluster is forced for the first initial iterations,
// afterwards the live points are re-clustered every same iterations.
func WithClusteringCadence(initial, same int) Option {
	return func(o *options) {
		o.initialIterationsWithoutClustering = initial
		o.iterationsWithSameClustering = same
	}
}

// WithEnlargement sets the initial enlargement fraction applied to the
// cluster covariance eigenvalues and the rate at which it shrinks with
// the remaining prior mass. The fraction is the problem-dependent knob of
// the sampler: too small under-covers the likelihood constraint and
// biases the evidence, too large wastes draws.
//
// Pass initialFraction 0 to keep the Dimension+2 default.
func WithEnlargement(initialFraction, shrinkingRate float64) Option {
	return func(o *options) {
		o.initialEnlargementFraction = initialFraction
		o.shrinkingRate = shrinkingRate
	}
}

// WithTerminationFactor sets the stopping threshold on the ratio of the
// estimated remaining evidence to the accumulated evidence.
func WithTerminationFactor(tf float64) Option {
	return func(o *options) {
		o.terminationFactor = tf
	}
}

// WithClusterRange sets the cluster-count search range handed to the
// clusterer on each rebuild.
func WithClusterRange(minK, maxK int) Option {
	return func(o *options) {
		o.minNClusters = minK
		o.maxNClusters = maxK
	}
}

// WithMaxIterations caps the number of nesting iterations. Zero means no
// cap; the run then ends via the termination condition or the
// exhaustion/reduction path.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithSeed fixes the RNG seed. Identical seed and configuration yield an
// identical run: same evidence, same posterior sample. Without it the
// seed is taken from the wall clock.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithParallelism sets the number of goroutines evaluating the likelihood
// during initialization. Zero or less means GOMAXPROCS. The nesting loop
// itself is sequential; parallelism never changes the sampled values.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithLatinHypercubeInit stratifies the initial live points through the
// prior's unit-cube mapping instead of drawing them independently.
// Requires a prior that implements prior.UnitCubeMapper.
func WithLatinHypercubeInit() Option {
	return func(o *options) {
		o.latinHypercube = true
	}
}

// WithClusterer replaces the default k-means/BIC clusterer.
func WithClusterer(c cluster.Clusterer) Option {
	return func(o *options) {
		o.clusterer = c
	}
}

// WithReducer enables a live-point reduction schedule. Without one the
// live-point count stays constant until termination.
func WithReducer(r reducer.Reducer) Option {
	return func(o *options) {
		o.reducer = r
	}
}

// WithCheckpoint enables periodic checkpoints to the store, roughly every
// given number of iterations. Saves snap to the next decomposition
// rebuild so that a resumed run replays bit-identically. The store's
// latest-pointer blob is updated after each successful save.
//
// Example:
//
//	store := blobstore.NewLocalStore("./runs/gaussian2d")
//	s, _ := nestgo.New(p, l, nestgo.WithCheckpoint(store, 500))
func WithCheckpoint(store blobstore.Store, every int) Option {
	return func(o *options) {
		o.checkpointStore = store
		if every <= 0 {
			every = DefaultCheckpointEvery
		}
		o.checkpointEvery = every
	}
}

// WithCodec configures the codec used for the checkpoint metadata section.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the block compression of checkpoint sections.
func WithCompression(c codec.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring the run.
//
// Example with BasicMetricsCollector:
//
//	metrics := &nestgo.BasicMetricsCollector{}
//	s, _ := nestgo.New(p, l, nestgo.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Draws: %d, Avg attempts: %.1f\n", stats.DrawCount, stats.DrawAvgAttempts)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for the run.
//
// Example with JSON logging:
//
//	logger := nestgo.NewJSONLogger(slog.LevelInfo)
//	s, _ := nestgo.New(p, l, nestgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		initialNObjects:                    DefaultInitialNObjects,
		minNObjects:                        DefaultMinNObjects,
		maxNDrawAttempts:                   DefaultMaxNDrawAttempts,
		initialIterationsWithoutClustering: DefaultInitialIterationsWithoutClustering,
		iterationsWithSameClustering:       DefaultIterationsWithSameClustering,
		shrinkingRate:                      DefaultShrinkingRate,
		terminationFactor:                  DefaultTerminationFactor,
		minNClusters:                       DefaultMinNClusters,
		maxNClusters:                       DefaultMaxNClusters,
		compression:                        codec.DefaultCompression,
		metricsCollector:                   NoopMetricsCollector{},
		logger:                             NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
