package nestgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    iterationCounter prometheus.Counter
//	    drawHistogram    prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordIteration(duration time.Duration) {
//	    p.iterationCounter.Inc()
//	    // ... record duration, etc.
//	}
type MetricsCollector interface {
	// RecordInit is called once after live-point initialization.
	// nLive is the number of points drawn, err is nil if successful.
	RecordInit(nLive int, duration time.Duration, err error)

	// RecordIteration is called after each nesting iteration.
	RecordIteration(duration time.Duration)

	// RecordDraw is called after each constrained draw.
	// attempts is the number of rejection-sampling attempts consumed,
	// err is non-nil when the budget was exhausted.
	RecordDraw(attempts int, duration time.Duration, err error)

	// RecordClustering is called after each decomposition rebuild.
	// k is the cluster count chosen, nEllipsoids the usable ellipsoids.
	RecordClustering(k, nEllipsoids int, duration time.Duration)

	// RecordReduction is called when live points are retired without
	// replacement.
	RecordReduction(removed int)

	// RecordCheckpoint is called after each checkpoint save.
	RecordCheckpoint(size int, duration time.Duration, err error)

	// RecordTermination is called once when the run ends. err is nil on
	// convergence and non-nil when the run finalized through the draw
	// exhaustion path.
	RecordTermination(iterations int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInit(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordIteration(time.Duration)               {}
func (NoopMetricsCollector) RecordDraw(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordClustering(int, int, time.Duration)    {}
func (NoopMetricsCollector) RecordReduction(int)                         {}
func (NoopMetricsCollector) RecordCheckpoint(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordTermination(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InitCount            atomic.Int64
	InitErrors           atomic.Int64
	IterationCount       atomic.Int64
	IterationTotalNanos  atomic.Int64
	DrawCount            atomic.Int64
	DrawErrors           atomic.Int64
	DrawAttempts         atomic.Int64
	DrawTotalNanos       atomic.Int64
	ClusteringCount      atomic.Int64
	EllipsoidsBuilt      atomic.Int64
	ReductionCount       atomic.Int64
	PointsRemoved        atomic.Int64
	CheckpointCount      atomic.Int64
	CheckpointErrors     atomic.Int64
	CheckpointTotalBytes atomic.Int64
	RunCount             atomic.Int64
	RunFailures          atomic.Int64
	RunTotalNanos        atomic.Int64
}

// RecordInit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInit(nLive int, duration time.Duration, err error) {
	b.InitCount.Add(1)
	if err != nil {
		b.InitErrors.Add(1)
	}
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(duration time.Duration) {
	b.IterationCount.Add(1)
	b.IterationTotalNanos.Add(duration.Nanoseconds())
}

// RecordDraw implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDraw(attempts int, duration time.Duration, err error) {
	b.DrawCount.Add(1)
	b.DrawAttempts.Add(int64(attempts))
	b.DrawTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DrawErrors.Add(1)
	}
}

// RecordClustering implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClustering(k, nEllipsoids int, duration time.Duration) {
	b.ClusteringCount.Add(1)
	b.EllipsoidsBuilt.Add(int64(nEllipsoids))
}

// RecordReduction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReduction(removed int) {
	b.ReductionCount.Add(1)
	b.PointsRemoved.Add(int64(removed))
}

// RecordCheckpoint implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCheckpoint(size int, duration time.Duration, err error) {
	b.CheckpointCount.Add(1)
	b.CheckpointTotalBytes.Add(int64(size))
	if err != nil {
		b.CheckpointErrors.Add(1)
	}
}

// RecordTermination implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTermination(iterations int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunFailures.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InitCount:            b.InitCount.Load(),
		InitErrors:           b.InitErrors.Load(),
		IterationCount:       b.IterationCount.Load(),
		IterationAvgNanos:    b.getAvgIterationNanos(),
		DrawCount:            b.DrawCount.Load(),
		DrawErrors:           b.DrawErrors.Load(),
		DrawAvgAttempts:      b.getAvgDrawAttempts(),
		DrawAvgNanos:         b.getAvgDrawNanos(),
		ClusteringCount:      b.ClusteringCount.Load(),
		EllipsoidsBuilt:      b.EllipsoidsBuilt.Load(),
		ReductionCount:       b.ReductionCount.Load(),
		PointsRemoved:        b.PointsRemoved.Load(),
		CheckpointCount:      b.CheckpointCount.Load(),
		CheckpointErrors:     b.CheckpointErrors.Load(),
		CheckpointTotalBytes: b.CheckpointTotalBytes.Load(),
		RunCount:             b.RunCount.Load(),
		RunFailures:          b.RunFailures.Load(),
		RunTotalNanos:        b.RunTotalNanos.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgIterationNanos() int64 {
	count := b.IterationCount.Load()
	if count == 0 {
		return 0
	}
	return b.IterationTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgDrawAttempts() float64 {
	count := b.DrawCount.Load()
	if count == 0 {
		return 0
	}
	return float64(b.DrawAttempts.Load()) / float64(count)
}

func (b *BasicMetricsCollector) getAvgDrawNanos() int64 {
	count := b.DrawCount.Load()
	if count == 0 {
		return 0
	}
	return b.DrawTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InitCount            int64
	InitErrors           int64
	IterationCount       int64
	IterationAvgNanos    int64
	DrawCount            int64
	DrawErrors           int64
	DrawAvgAttempts      float64
	DrawAvgNanos         int64
	ClusteringCount      int64
	EllipsoidsBuilt      int64
	ReductionCount       int64
	PointsRemoved        int64
	CheckpointCount      int64
	CheckpointErrors     int64
	CheckpointTotalBytes int64
	RunCount             int64
	RunFailures          int64
	RunTotalNanos        int64
}
