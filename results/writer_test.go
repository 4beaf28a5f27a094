package results

import (
	"context"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/nestgo"
	"github.com/hupe1980/nestgo/blobstore"
)

func testResult() *nestgo.Result {
	samples := []nestgo.Sample{
		{Theta: []float64{0.1, -1.0}, LogLikelihood: -2.0, LogWeight: math.Log(0.1)},
		{Theta: []float64{0.2, -0.5}, LogLikelihood: -1.5, LogWeight: math.Log(0.2)},
		{Theta: []float64{0.3, 0.5}, LogLikelihood: -1.0, LogWeight: math.Log(0.3)},
		{Theta: []float64{0.4, 1.0}, LogLikelihood: -0.5, LogWeight: math.Log(0.4)},
	}

	return &nestgo.Result{
		LogZ:         -4.6,
		LogZError:    0.1,
		H:            2.3,
		Iterations:   4,
		NLiveInitial: 100,
		NLiveFinal:   100,
		Samples:      samples,
		Config: nestgo.RunConfig{
			InitialNObjects:                    100,
			MinNObjects:                        40,
			MaxNDrawAttempts:                   5000,
			InitialIterationsWithoutClustering: 1000,
			IterationsWithSameClustering:       50,
			InitialEnlargementFraction:         4.0,
			ShrinkingRate:                      0.02,
			TerminationFactor:                  0.01,
			MinNClusters:                       1,
			MaxNClusters:                       10,
		},
	}
}

func parseColumn(t *testing.T, data []byte) []float64 {
	t.Helper()

	var values []float64
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		require.NoError(t, err)
		values = append(values, v)
	}

	return values
}

func TestWriterWritesAllFiles(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := NewWriter(store, func(o *Options) {
		o.Prefix = "demo_"
	})
	require.NoError(t, err)

	require.NoError(t, w.Write(ctx, testResult()))

	names, err := store.List(ctx, "demo_")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"demo_computationParameters.txt",
		"demo_evidenceInformation.txt",
		"demo_logLikelihood.txt",
		"demo_parameter000.txt",
		"demo_parameter001.txt",
		"demo_parameterSummary.txt",
		"demo_posteriorDistribution.txt",
	}, names)
}

func TestWriterPosteriorNormalized(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := NewWriter(store)
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, testResult()))

	data, err := store.Get(ctx, FilePosteriorDistribution)
	require.NoError(t, err)

	probs := parseColumn(t, data)
	require.Len(t, probs, 4)

	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestWriterParameterColumns(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := NewWriter(store)
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, testResult()))

	data, err := store.Get(ctx, ParameterFileName(1))
	require.NoError(t, err)

	values := parseColumn(t, data)
	assert.InDeltaSlice(t, []float64{-1.0, -0.5, 0.5, 1.0}, values, 1e-12)
}

func TestWriterEvidenceFile(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := NewWriter(store)
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, testResult()))

	data, err := store.Get(ctx, FileEvidenceInformation)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "# Row #1: log(Evidence)")
	assert.Contains(t, text, "# Row #4: Number of nesting iterations")
	assert.Contains(t, text, "# Row #4: Shrinking Rate")

	values := parseColumn(t, data)
	require.Len(t, values, 8)
	assert.InDelta(t, -4.6, values[0], 1e-12)
	assert.InDelta(t, 0.1, values[1], 1e-12)
	assert.InDelta(t, 2.3, values[2], 1e-12)
	assert.Equal(t, 4.0, values[3])

	// Trailing configuration block
	assert.Equal(t, 1.0, values[4])
	assert.Equal(t, 10.0, values[5])
	assert.InDelta(t, 4.0, values[6], 1e-12)
	assert.InDelta(t, 0.02, values[7], 1e-12)
}

func TestWriterSummaryFile(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := NewWriter(store, func(o *Options) {
		o.CredibleLevel = 90
	})
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, testResult()))

	data, err := store.Get(ctx, FileParameterSummary)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "90.0% credible interval")

	var rows int
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}

		assert.Len(t, strings.Fields(line), 6)
		rows++
	}
	assert.Equal(t, 2, rows)
}

func TestWriterComputationParameters(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := NewWriter(store)
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, testResult()))

	data, err := store.Get(ctx, FileComputationParameters)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "initialNObjects 100")
	assert.Contains(t, text, "terminationFactor 0.01")
	assert.Contains(t, text, "maxNClusters 10")
}

func TestWriterValidation(t *testing.T) {
	t.Run("NilStore", func(t *testing.T) {
		_, err := NewWriter(nil)
		require.Error(t, err)
	})

	t.Run("BadCredibleLevel", func(t *testing.T) {
		_, err := NewWriter(blobstore.NewMemoryStore(), func(o *Options) {
			o.CredibleLevel = 120
		})
		require.Error(t, err)
	})

	t.Run("EmptyResult", func(t *testing.T) {
		w, err := NewWriter(blobstore.NewMemoryStore())
		require.NoError(t, err)

		require.Error(t, w.Write(context.Background(), &nestgo.Result{}))
	})
}
