package integration_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/nestgo"
	"github.com/hupe1980/nestgo/blobstore"
	"github.com/hupe1980/nestgo/codec"
	"github.com/hupe1980/nestgo/likelihood"
	"github.com/hupe1980/nestgo/prior"
	"github.com/hupe1980/nestgo/results"
)

// TestResumeFromDisk interrupts a run, resumes it from an on-disk
// checkpoint and checks that the continuation reproduces the
// uninterrupted run exactly. Results then land in the same store.
func TestResumeFromDisk(t *testing.T) {
	skipShort(t)

	ctx := context.Background()

	p, err := prior.NewUniform([]float64{-6, -6}, []float64{6, 6})
	require.NoError(t, err)

	like := likelihood.Func(func(theta []float64) float64 {
		return -0.5 * (theta[0]*theta[0] + theta[1]*theta[1])
	})

	makeOpts := func(store blobstore.Store) []nestgo.Option {
		return []nestgo.Option{
			nestgo.WithSeed(271),
			nestgo.WithInitialNObjects(200),
			nestgo.WithMinNObjects(80),
			nestgo.WithClusteringCadence(100, 50),
			nestgo.WithCheckpoint(store, 100),
			nestgo.WithCompression(codec.CompressionZSTD),
		}
	}

	// Uninterrupted reference run.
	refStore := blobstore.NewLocalStore(t.TempDir())

	refSampler, err := nestgo.New(p, like, makeOpts(refStore)...)
	require.NoError(t, err)

	reference, err := refSampler.Run(ctx)
	require.NoError(t, err)
	require.Greater(t, reference.Iterations, 400)

	// Interrupted run against a fresh store.
	store := blobstore.NewLocalStore(t.TempDir())

	interrupted, err := nestgo.New(p, like, append(makeOpts(store), nestgo.WithMaxIterations(400))...)
	require.NoError(t, err)

	_, err = interrupted.Run(ctx)
	require.NoError(t, err)

	names, err := store.List(ctx, "checkpoint-")
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, name := range names {
		assert.True(t, strings.HasSuffix(name, ".nsc"), name)
	}

	latest, err := store.Get(ctx, blobstore.Latest)
	require.NoError(t, err)
	assert.Equal(t, names[len(names)-1], strings.TrimSpace(string(latest)))

	// Resume from the latest checkpoint and run to completion.
	resumed, err := nestgo.Resume(ctx, store, "", p, like, makeOpts(store)...)
	require.NoError(t, err)

	continuation, err := resumed.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, reference.LogZ, continuation.LogZ)
	assert.Equal(t, reference.H, continuation.H)
	assert.Equal(t, reference.Iterations, continuation.Iterations)
	assert.Equal(t, reference.LikelihoodEvaluations, continuation.LikelihoodEvaluations)
	assert.Equal(t, len(reference.Samples), len(continuation.Samples))

	exact := -math.Log(144) + math.Log(2*math.Pi)
	assert.InDelta(t, exact, continuation.LogZ, 3*continuation.LogZError+0.2)

	// The artifact store holds checkpoints and result files side by side.
	writer, err := results.NewWriter(store, func(o *results.Options) {
		o.Prefix = "gaussian_"
	})
	require.NoError(t, err)
	require.NoError(t, writer.Write(ctx, continuation))

	files, err := store.List(ctx, "gaussian_")
	require.NoError(t, err)
	assert.Contains(t, files, "gaussian_"+results.FileEvidenceInformation)
	assert.Contains(t, files, "gaussian_"+results.FileParameterSummary)
}
