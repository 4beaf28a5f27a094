// Package results writes the output artifacts of a completed nested
// sampling run: per-parameter posterior columns, the log-likelihood and
// posterior-probability columns, the evidence summary with the sampler
// configuration, and per-parameter marginal estimates.
//
// Files go through a blobstore.Store, so results land on the local
// filesystem, in memory, or in an object store with the same code.
package results

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/nestgo"
	"github.com/hupe1980/nestgo/blobstore"
)

// DefaultCredibleLevel is the credible-interval mass written to the
// parameter summary, in percent.
const DefaultCredibleLevel = 68.3

// Output file names, appended to the configured prefix.
const (
	FileLogLikelihood         = "logLikelihood.txt"
	FilePosteriorDistribution = "posteriorDistribution.txt"
	FileEvidenceInformation   = "evidenceInformation.txt"
	FileParameterSummary      = "parameterSummary.txt"
	FileComputationParameters = "computationParameters.txt"
)

// ParameterFileName returns the posterior column file name of the given
// parameter, e.g. "parameter000.txt".
func ParameterFileName(d int) string {
	return fmt.Sprintf("parameter%03d.txt", d)
}

// Options for the results writer.
type Options struct {
	// Prefix is prepended to every file name, e.g. "eggbox_".
	Prefix string

	// CredibleLevel is the credible-interval mass of the parameter
	// summary, in percent.
	CredibleLevel float64
}

var DefaultOptions = Options{
	CredibleLevel: DefaultCredibleLevel,
}

// Writer persists the artifacts of a run to a blob store.
type Writer struct {
	store blobstore.Store
	opts  Options
}

// NewWriter creates a results writer on the given store.
func NewWriter(store blobstore.Store, optFns ...func(o *Options)) (*Writer, error) {
	if store == nil {
		return nil, fmt.Errorf("results: nil store")
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.CredibleLevel <= 0 || opts.CredibleLevel >= 100 {
		return nil, fmt.Errorf("results: credible level %g%% outside (0, 100)", opts.CredibleLevel)
	}

	return &Writer{store: store, opts: opts}, nil
}

// Write persists all output files of the run.
func (w *Writer) Write(ctx context.Context, result *nestgo.Result) error {
	summaries, err := Summarize(result, w.opts.CredibleLevel)
	if err != nil {
		return err
	}

	files := map[string][]byte{
		FileLogLikelihood:         w.logLikelihoodFile(result),
		FilePosteriorDistribution: w.posteriorFile(result),
		FileEvidenceInformation:   w.evidenceFile(result),
		FileParameterSummary:      w.summaryFile(summaries),
		FileComputationParameters: w.computationFile(result.Config),
	}

	for d := 0; d < result.Dimension(); d++ {
		files[ParameterFileName(d)] = w.parameterFile(result, d)
	}

	g, gctx := errgroup.WithContext(ctx)

	for name, data := range files {
		g.Go(func() error {
			if err := w.store.Put(gctx, w.opts.Prefix+name, data); err != nil {
				return fmt.Errorf("results: write %s: %w", name, err)
			}

			return nil
		})
	}

	return g.Wait()
}

func (w *Writer) parameterFile(result *nestgo.Result, d int) []byte {
	var buf bytes.Buffer
	for _, s := range result.Samples {
		fmt.Fprintf(&buf, "%.12e\n", s.Theta[d])
	}

	return buf.Bytes()
}

func (w *Writer) logLikelihoodFile(result *nestgo.Result) []byte {
	var buf bytes.Buffer
	for _, s := range result.Samples {
		fmt.Fprintf(&buf, "%.12e\n", s.LogLikelihood)
	}

	return buf.Bytes()
}

func (w *Writer) posteriorFile(result *nestgo.Result) []byte {
	var buf bytes.Buffer
	for _, p := range result.PosteriorWeights() {
		fmt.Fprintf(&buf, "%.12e\n", p)
	}

	return buf.Bytes()
}

// evidenceFile lists the evidence numbers and appends the configuring
// parameters of the ellipsoidal sampler and the clustering, row by row.
func (w *Writer) evidenceFile(result *nestgo.Result) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Evidence results\n")
	buf.WriteString("# Row #1: log(Evidence)\n")
	buf.WriteString("# Row #2: Error on log(Evidence)\n")
	buf.WriteString("# Row #3: Information gain\n")
	buf.WriteString("# Row #4: Number of nesting iterations\n")
	fmt.Fprintf(&buf, "%.12e\n", result.LogZ)
	fmt.Fprintf(&buf, "%.12e\n", result.LogZError)
	fmt.Fprintf(&buf, "%.12e\n", result.H)
	fmt.Fprintf(&buf, "%d\n", result.Iterations)

	buf.WriteString("# List of configuring parameters used for the ellipsoidal sampler and clustering\n")
	buf.WriteString("# Row #1: Minimum Nclusters\n")
	buf.WriteString("# Row #2: Maximum Nclusters\n")
	buf.WriteString("# Row #3: Initial Enlargement Fraction\n")
	buf.WriteString("# Row #4: Shrinking Rate\n")
	fmt.Fprintf(&buf, "%d\n", result.Config.MinNClusters)
	fmt.Fprintf(&buf, "%d\n", result.Config.MaxNClusters)
	fmt.Fprintf(&buf, "%g\n", result.Config.InitialEnlargementFraction)
	fmt.Fprintf(&buf, "%g\n", result.Config.ShrinkingRate)

	return buf.Bytes()
}

func (w *Writer) summaryFile(summaries []ParameterSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Marginal posterior estimates, one row per parameter\n")
	buf.WriteString("# Column #1: Mean\n")
	buf.WriteString("# Column #2: Median\n")
	buf.WriteString("# Column #3: Mode\n")
	buf.WriteString("# Column #4: Variance\n")
	fmt.Fprintf(&buf, "# Column #5: Lower bound of the shortest %.1f%% credible interval\n", w.opts.CredibleLevel)
	fmt.Fprintf(&buf, "# Column #6: Upper bound of the shortest %.1f%% credible interval\n", w.opts.CredibleLevel)

	for _, s := range summaries {
		fmt.Fprintf(&buf, "%.12e  %.12e  %.12e  %.12e  %.12e  %.12e\n",
			s.Mean, s.Median, s.Mode, s.Variance, s.CredibleLower, s.CredibleUpper)
	}

	return buf.Bytes()
}

// computationFile records the full sampler configuration as name value
// rows, one knob per line.
func (w *Writer) computationFile(cfg nestgo.RunConfig) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "initialNObjects %d\n", cfg.InitialNObjects)
	fmt.Fprintf(&buf, "minNObjects %d\n", cfg.MinNObjects)
	fmt.Fprintf(&buf, "maxNDrawAttempts %d\n", cfg.MaxNDrawAttempts)
	fmt.Fprintf(&buf, "initialIterationsWithoutClustering %d\n", cfg.InitialIterationsWithoutClustering)
	fmt.Fprintf(&buf, "iterationsWithSameClustering %d\n", cfg.IterationsWithSameClustering)
	fmt.Fprintf(&buf, "initialEnlargementFraction %g\n", cfg.InitialEnlargementFraction)
	fmt.Fprintf(&buf, "shrinkingRate %g\n", cfg.ShrinkingRate)
	fmt.Fprintf(&buf, "terminationFactor %g\n", cfg.TerminationFactor)
	fmt.Fprintf(&buf, "minNClusters %d\n", cfg.MinNClusters)
	fmt.Fprintf(&buf, "maxNClusters %d\n", cfg.MaxNClusters)

	return buf.Bytes()
}
