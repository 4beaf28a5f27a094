package nestgo

import "fmt"

// State describes the lifecycle phase of a Sampler.
type State int32

const (
	// StateUninitialized is the state of a freshly constructed Sampler.
	StateUninitialized State = iota

	// StateInitialized means live points exist but the loop has not started.
	StateInitialized

	// StateRunning means the nesting loop is advancing iterations.
	StateRunning

	// StateClustering means the loop is rebuilding the ellipsoidal
	// decomposition of the live points.
	StateClustering

	// StateTerminated means the run completed via the termination
	// condition or the iteration cap.
	StateTerminated

	// StateFailed means the run aborted: non-finite likelihood, draw
	// exhaustion at the reduction floor, or a failed decomposition.
	StateFailed
)

// String implements the Stringer interface.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateClustering:
		return "clustering"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(s))
	}
}
