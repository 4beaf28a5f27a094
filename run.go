package nestgo

import (
	"context"
	"errors"
	"math"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/nestgo/internal/logmath"
	"github.com/hupe1980/nestgo/prior"
	"github.com/hupe1980/nestgo/reducer"
)

// Run executes the nested sampling loop to termination and returns the
// run outputs. It may be called once per Sampler, either on a fresh
// instance or on one restored by Resume.
//
// When the constrained draw budget is exhausted with the live-point
// count at its floor, Run finalizes the accumulators anyway and returns
// the partial Result together with ErrDrawAttemptsExhausted.
func (s *Sampler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	switch cur := s.State(); {
	case cur == StateUninitialized:
		if err := s.initialize(ctx); err != nil {
			s.state.Store(int32(StateFailed))
			return nil, err
		}
	case cur == StateInitialized && s.resumed:
		// Live points and accumulators were restored from a checkpoint.
	default:
		return nil, &ErrInvalidState{Op: "run", State: cur}
	}

	s.state.Store(int32(StateRunning))

	for {
		if err := ctx.Err(); err != nil {
			s.state.Store(int32(StateFailed))
			return nil, err
		}

		done, err := s.iterate(ctx)
		if err != nil {
			if errors.Is(err, ErrDrawAttemptsExhausted) {
				s.finalize()
				s.state.Store(int32(StateFailed))
				s.metrics.RecordTermination(s.iteration, time.Since(start), err)
				s.logger.LogTermination(ctx, s.iteration, s.result.LogZ, s.result.LogZError, time.Since(start))
				return s.result, err
			}
			s.state.Store(int32(StateFailed))
			return nil, err
		}
		if done {
			break
		}
	}

	s.finalize()
	s.state.Store(int32(StateTerminated))
	s.metrics.RecordTermination(s.iteration, time.Since(start), nil)
	s.logger.LogTermination(ctx, s.iteration, s.result.LogZ, s.result.LogZError, time.Since(start))
	return s.result, nil
}

// initialize draws the starting live points from the prior and evaluates
// their likelihoods. Prior draws stay sequential on the run's RNG
// stream; only the likelihood evaluations fan out across goroutines, so
// parallelism never changes the sampled values.
func (s *Sampler) initialize(ctx context.Context) error {
	start := time.Now()
	n0 := s.opts.initialNObjects

	s.live = newLivePoints(n0, s.dim)
	s.nLiveInitial = n0

	if s.opts.latinHypercube {
		s.latinHypercubeFill()
	} else {
		for i := 0; i < n0; i++ {
			s.prior.Draw(s.rng, s.live.thetas[i])
		}
	}

	var g errgroup.Group
	g.SetLimit(s.opts.parallelism)
	for i := 0; i < n0; i++ {
		g.Go(func() error {
			logL := s.like.LogValue(s.live.thetas[i])
			if math.IsNaN(logL) || math.IsInf(logL, 1) {
				return &ErrNonFiniteLikelihood{Value: logL, Theta: slices.Clone(s.live.thetas[i])}
			}
			s.live.logLs[i] = logL
			return nil
		})
	}
	err := g.Wait()

	s.likeEvals += int64(n0)
	s.metrics.RecordInit(n0, time.Since(start), err)
	s.logger.LogInit(ctx, n0, s.dim, time.Since(start), err)
	if err != nil {
		return err
	}

	s.logZ = math.Inf(-1)
	s.h = 0
	s.logWidth = logmath.Sub(0, -1.0/float64(n0))
	s.logLStar = math.Inf(-1)
	s.logXRemaining = 0
	s.state.Store(int32(StateInitialized))
	return nil
}

// latinHypercubeFill stratifies the initial points: each dimension is
// divided into one stratum per live point, and a random permutation per
// dimension pairs the strata into unit-cube coordinates that the prior
// maps into parameter space.
func (s *Sampler) latinHypercubeFill() {
	n := s.opts.initialNObjects
	mapper, _ := prior.AsUnitCubeMapper(s.prior)

	perms := make([][]int, s.dim)
	for d := range perms {
		perms[d] = s.rng.Perm(n)
	}

	u := make([]float64, s.dim)
	for i := 0; i < n; i++ {
		for d := 0; d < s.dim; d++ {
			u[d] = (float64(perms[d][i]) + s.rng.Float64()) / float64(n)
		}
		mapper.MapFromUnitCube(u, s.live.thetas[i])
	}
}

// iterate performs one nesting iteration. The accumulators only commit
// once the worst point was actually retired or replaced; an exhausted
// draw at the reduction floor leaves the live set intact for finalize.
func (s *Sampler) iterate(ctx context.Context) (bool, error) {
	iterStart := time.Now()

	if s.set == nil || s.clusteringDue(s.iteration) {
		s.state.Store(int32(StateClustering))
		if err := s.decompose(ctx); err != nil {
			return false, err
		}
		s.state.Store(int32(StateRunning))
	}

	worstSlot, logLw := s.live.worst()
	worstTheta := slices.Clone(s.live.thetas[worstSlot])
	logWn := s.logWidth + logLw
	logZNew, hNew := advanceEvidence(s.logZ, s.h, logWn, logLw)

	// The reducer is consulted before drawing, so reduction iterations
	// cost no likelihood evaluations.
	nCur := s.live.count()
	reduced := false
	if s.opts.reducer != nil {
		target := s.opts.reducer.NextNLive(s.reducerState())
		if target < s.opts.minNObjects {
			target = s.opts.minNObjects
		}
		if target < nCur {
			s.live.retire(worstSlot)
			reduced = true
			s.metrics.RecordReduction(1)
			s.logger.LogReduction(ctx, s.iteration, nCur, nCur-1)
		}
	}

	if !reduced {
		theta, logL, attempts, err := s.drawConstrained(logLw)
		switch {
		case err == nil:
			s.live.replace(worstSlot, theta, logL)
		case errors.Is(err, ErrDrawAttemptsExhausted):
			s.logger.LogDrawFailure(ctx, s.iteration, attempts)
			if nCur-1 < s.opts.minNObjects {
				return false, err
			}
			// Retiring the worst point relaxes the constraint for the
			// next iteration.
			s.live.retire(worstSlot)
			s.metrics.RecordReduction(1)
			s.logger.LogReduction(ctx, s.iteration, nCur, nCur-1)
		default:
			return false, err
		}
	}

	s.posterior = append(s.posterior, Sample{
		Theta:         worstTheta,
		LogLikelihood: logLw,
		LogWeight:     logWn,
	})
	s.logLStar = logLw

	nNow := float64(s.live.count())
	s.logWidth -= 1 / nNow
	s.logXRemaining -= 1 / nNow
	s.logZ = logZNew
	s.h = hNew
	s.iteration++

	// Saves snap to decomposition rebuild boundaries so a resumed run
	// rebuilds at the same iteration an uninterrupted one would.
	// A failed save is retried at the next boundary.
	if s.opts.checkpointStore != nil &&
		s.iteration-s.lastCheckpoint >= s.opts.checkpointEvery &&
		s.clusteringDue(s.iteration) {
		if _, err := s.saveCheckpoint(ctx); err == nil {
			s.lastCheckpoint = s.iteration
		}
	}

	logRemainder := s.logRemainderRatio()
	if s.limiter.Allow() {
		s.logger.LogProgress(ctx, s.iteration, s.live.count(), s.logZ, logRemainder)
	}
	s.metrics.RecordIteration(time.Since(iterStart))

	if logRemainder <= s.logTermination {
		return true, nil
	}
	if s.opts.maxIterations > 0 && s.iteration >= s.opts.maxIterations {
		return true, nil
	}
	return false, nil
}

// logRemainderRatio is the termination diagnostic: the log of the
// estimated remaining evidence over the accumulated evidence.
func (s *Sampler) logRemainderRatio() float64 {
	if math.IsInf(s.logZ, -1) {
		return math.Inf(1)
	}
	return s.live.maxLogL() + s.logXRemaining - s.logZ
}

func (s *Sampler) reducerState() reducer.State {
	return reducer.State{
		NLive:             s.live.count(),
		NLiveInitial:      s.nLiveInitial,
		NLiveMin:          s.opts.minNObjects,
		Iteration:         s.iteration,
		LogZ:              s.logZ,
		LogWidth:          s.logWidth,
		LogRemainderRatio: s.logRemainderRatio(),
		TerminationFactor: s.opts.terminationFactor,
	}
}

// finalize folds the surviving live points into the evidence and the
// posterior sample with equal prior-mass shares, then freezes the
// Result. The loop accumulators stay untouched so a checkpoint taken
// after the run snapshots the resumable pre-fold state.
func (s *Sampler) finalize() {
	logZ, h := s.logZ, s.h
	slots := s.live.slots()

	samples := make([]Sample, len(s.posterior), len(s.posterior)+len(slots))
	copy(samples, s.posterior)

	if len(slots) > 0 {
		logMeanWidth := s.logXRemaining - math.Log(float64(len(slots)))
		for _, slot := range slots {
			logL := s.live.logLs[slot]
			logW := logMeanWidth + logL
			logZ, h = advanceEvidence(logZ, h, logW, logL)
			samples = append(samples, Sample{
				Theta:         slices.Clone(s.live.thetas[slot]),
				LogLikelihood: logL,
				LogWeight:     logW,
			})
		}
	}

	s.result = &Result{
		LogZ:                  logZ,
		LogZError:             math.Sqrt(h / float64(s.nLiveInitial)),
		H:                     h,
		Iterations:            s.iteration,
		NLiveInitial:          s.nLiveInitial,
		NLiveFinal:            len(slots),
		LikelihoodEvaluations: s.likeEvals,
		Seed:                  s.seed,
		Samples:               samples,
		Config:                s.runConfig(),
	}
}
