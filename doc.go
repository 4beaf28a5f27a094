// Package nestgo provides nested sampling Monte Carlo for Bayesian
// inference in Go.
//
// Nestgo integrates the Bayesian evidence and draws weighted posterior
// samples in one run. The likelihood-constrained prior is sampled
// through a multi-ellipsoidal decomposition of the live points, so
// multi-modal and strongly correlated posteriors stay efficient
// without gradients or tuning runs.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	pri, _ := prior.NewUniform([]float64{-5, -5}, []float64{5, 5})
//	like := likelihood.Func(func(theta []float64) float64 {
//	    r2 := theta[0]*theta[0] + theta[1]*theta[1]
//	    return -0.5 * r2 / (0.1 * 0.1)
//	})
//
//	sampler, _ := nestgo.New(pri, like, nestgo.WithSeed(42))
//	result, _ := sampler.Run(ctx)
//
//	fmt.Println(result.LogZ, result.LogZError, result.H)
//
// The Result holds the evidence estimate, its statistical error, the
// information H, and the weighted posterior sample. Use
// Result.PosteriorWeights to turn the log-weights into normalized
// posterior weights for moment estimates and marginals.
//
// # Plugging In
//
// The sampling strategy is assembled from small interfaces, each with
// ready implementations:
//
//	sampler, _ := nestgo.New(pri, like,
//	    nestgo.WithClusterer(km),                          // cluster.Clusterer
//	    nestgo.WithReducer(reducer.NewPowerlaw(100, 0.4)), // reducer.Reducer
//	    nestgo.WithClusterRange(1, 10),
//	    nestgo.WithEnlargement(4, 0.02),
//	)
//
// cluster.KMeans partitions the live points with BIC model selection,
// reducer.Powerlaw and reducer.Feroz shrink the live-point count as
// the run converges, and metric/projection plug custom geometry into
// the clustering.
//
// # Checkpointing
//
// Long runs snapshot their full state to a blobstore.Store and resume
// bit-identically:
//
//	store := blobstore.NewLocalStore("./checkpoints")
//	sampler, _ := nestgo.New(pri, like, nestgo.WithCheckpoint(store, 1000))
//	result, err := sampler.Run(ctx)
//
//	// Later, or on another machine:
//	sampler, _ = nestgo.Resume(ctx, store, "", pri, like, nestgo.WithCheckpoint(store, 1000))
//	result, err = sampler.Run(ctx)
//
// Stores exist for the local filesystem, memory, S3 (with an optional
// DynamoDB-committed latest pointer), and MinIO.
//
// # Key Features
//
//   - Evidence, information, and posterior from a single run
//   - Multi-ellipsoidal decomposition for multi-modal posteriors
//   - X-means style clustering with BIC model selection
//   - Live-point reduction schedules (powerlaw, Feroz)
//   - Deterministic runs under WithSeed, parallel likelihood evaluation
//   - Checkpoint/resume with CRC-checked, compressed snapshots
package nestgo
