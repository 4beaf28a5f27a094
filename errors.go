package nestgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/nestgo/blobstore"
	"github.com/hupe1980/nestgo/ellipsoid"
)

var (
	// ErrDrawAttemptsExhausted is returned when no replacement point above
	// the likelihood constraint was found within the rejection budget and
	// the live-point count is already at its floor.
	ErrDrawAttemptsExhausted = errors.New("constrained draw attempts exhausted")

	// ErrDecompositionFailed is returned when no usable ellipsoid could be
	// built from the live points, not even as a single cluster.
	ErrDecompositionFailed = errors.New("ellipsoidal decomposition failed")

	// ErrNotRun is returned when results are requested before a run completed.
	ErrNotRun = errors.New("sampler has not completed a run")

	// ErrCheckpointNotFound is returned when the named checkpoint (or the
	// latest-pointer) does not exist in the store.
	ErrCheckpointNotFound = errors.New("checkpoint not found")
)

// ErrNonFiniteLikelihood indicates that the likelihood returned NaN or +Inf.
// A return of -Inf marks zero likelihood and is not an error.
type ErrNonFiniteLikelihood struct {
	Value float64
	Theta []float64
}

func (e *ErrNonFiniteLikelihood) Error() string {
	return fmt.Sprintf("non-finite log-likelihood %v at %v", e.Value, e.Theta)
}

// ErrInvalidState indicates an operation attempted in the wrong lifecycle
// phase, e.g. Run on an already-terminated sampler.
type ErrInvalidState struct {
	Op    string
	State State
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Op, e.State)
}

// ErrDimensionMismatch indicates a dimensionality mismatch, e.g. a
// checkpoint recorded for a different parameter space.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Checkpoint lookup unification.
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrCheckpointNotFound, err)
	}

	// Decomposition normalization.
	if errors.Is(err, ellipsoid.ErrNoEllipsoids) {
		return fmt.Errorf("%w: %w", ErrDecompositionFailed, err)
	}
	if errors.Is(err, ellipsoid.ErrDegenerate) {
		return fmt.Errorf("%w: %w", ErrDecompositionFailed, err)
	}

	return err
}
