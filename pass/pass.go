// Package pass implements a two-stage (coarse, then 1-second refine)
// AOS/LOS pass-prediction state machine over an observer's elevation
// function of time, with always/never-visible handling and a minimum
// elevation filter.
package pass

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// CoarseStep is the coarse sampling step (240 s, in days) used to
	// bracket a rise or set transition before refinement.
	CoarseStep = 240.0 / 86400.0

	// RefineStep is the second-level refinement step (1 s, in days) used
	// to pin down the exact AOS/LOS second within a coarse bracket.
	RefineStep = 1.0 / 86400.0
)

// ErrInvalidWindow is returned when Options.WindowDays is not positive.
var ErrInvalidWindow = errors.New("pass: WindowDays must be positive")

// ElevationFunc returns the elevation (radians) of a satellite above an
// observer's horizon at the given UTC Julian date. A typical implementation
// composes sgp4.Propagate, frames.TEMEToITRF and coords.HorizontalFromITRF.
type ElevationFunc func(jdUTC float64) (float64, error)

// Options configures a pass search.
type Options struct {
	// MinElevationRad is the visibility threshold; passes that never
	// exceed it are reported as never-visible.
	MinElevationRad float64

	// WindowDays bounds how far forward the search looks before giving up.
	WindowDays float64
}

// Result is the outcome of a pass search. Either both AOS and LOS are set,
// or one may be absent at a window boundary (HasAOS/HasLOS false).
type Result struct {
	IsNeverVisible  bool
	IsAlwaysVisible bool

	HasAOS bool
	AOS    float64 // UTC Julian date

	HasLOS bool
	LOS    float64 // UTC Julian date

	MaxElevationRad float64
}

// bracket is a coarse [lo, hi] pair straddling a horizon crossing, with lo
// on the side confirmed at the previous sample and hi at the new one.
type bracket struct {
	lo, hi float64
	found  bool
}

// PredictCurrentOrNextPass finds the pass that is either already in
// progress at start, or the first one to begin after it, within
// opts.WindowDays. Candidates below opts.MinElevationRad are skipped.
func PredictCurrentOrNextPass(opts Options, e ElevationFunc, start float64) (Result, error) {
	if opts.WindowDays <= 0 {
		return Result{}, ErrInvalidWindow
	}

	end := start + opts.WindowDays
	t := start

	for t < end {
		br, alwaysVisible, err := findApproximateAOS(e, t, end-t)
		if err != nil {
			return Result{}, err
		}

		if alwaysVisible {
			maxEl, err := coarseMaxElevation(e, t, end)
			if err != nil {
				return Result{}, err
			}
			if maxEl < opts.MinElevationRad {
				return Result{IsNeverVisible: true}, nil
			}
			return Result{IsAlwaysVisible: true, MaxElevationRad: maxEl}, nil
		}
		if !br.found {
			return Result{IsNeverVisible: true}, nil
		}

		aos, err := refineAOS(e, br.lo, br.hi)
		if err != nil {
			return Result{}, err
		}

		losBr, err := findApproximateLOS(e, aos, end-aos)
		if err != nil {
			return Result{}, err
		}

		result := Result{HasAOS: true, AOS: aos}
		losEnd := end
		if losBr.found {
			los, err := refineLOS(e, losBr.lo, losBr.hi)
			if err != nil {
				return Result{}, err
			}
			result.HasLOS = true
			result.LOS = los
			losEnd = los
		}

		maxEl, err := passMaxElevation(e, aos, result.HasLOS, losEnd)
		if err != nil {
			return Result{}, err
		}
		result.MaxElevationRad = maxEl

		if maxEl >= opts.MinElevationRad {
			return result, nil
		}
		if !result.HasLOS {
			// Ran out of window without a qualifying pass; it will not
			// rise further within the horizon we searched.
			return Result{IsNeverVisible: true}, nil
		}

		t = result.LOS + CoarseStep
	}

	return Result{IsNeverVisible: true}, nil
}

// PredictNextPass is PredictCurrentOrNextPass, except that a pass already
// in progress at start is skipped: the search begins after its LOS.
func PredictNextPass(opts Options, e ElevationFunc, start float64) (Result, error) {
	if opts.WindowDays <= 0 {
		return Result{}, ErrInvalidWindow
	}

	e0, err := e(start)
	if err != nil {
		return Result{}, errors.Wrapf(err, "pass: elevation at %v", start)
	}
	if e0 <= 0 {
		return PredictCurrentOrNextPass(opts, e, start)
	}

	end := start + opts.WindowDays
	losBr, err := findApproximateLOS(e, start, end-start)
	if err != nil {
		return Result{}, err
	}
	if !losBr.found {
		maxEl, err := coarseMaxElevation(e, start, end)
		if err != nil {
			return Result{}, err
		}
		if maxEl < opts.MinElevationRad {
			return Result{IsNeverVisible: true}, nil
		}
		return Result{IsAlwaysVisible: true, MaxElevationRad: maxEl}, nil
	}

	los, err := refineLOS(e, losBr.lo, losBr.hi)
	if err != nil {
		return Result{}, err
	}

	remaining := opts
	remaining.WindowDays = end - (los + CoarseStep)
	if remaining.WindowDays <= 0 {
		return Result{IsNeverVisible: true}, nil
	}
	return PredictCurrentOrNextPass(remaining, e, los+CoarseStep)
}

// findApproximateAOS implements find_approximate_aos: step forward from
// start until elevation turns positive, within windowDays. If start is
// already above the horizon, it instead walks backward looking for a
// below-horizon sample; finding none within windowDays reports
// alwaysVisible.
func findApproximateAOS(e ElevationFunc, start, windowDays float64) (br bracket, alwaysVisible bool, err error) {
	e0, err := e(start)
	if err != nil {
		return bracket{}, false, errors.Wrapf(err, "pass: elevation at %v", start)
	}

	if e0 > 0 {
		t := start
		limit := start - windowDays
		prev := start
		for t > limit {
			prev = t
			t -= CoarseStep
			v, err := e(t)
			if err != nil {
				return bracket{}, false, errors.Wrapf(err, "pass: elevation at %v", t)
			}
			if v <= 0 {
				return bracket{lo: t, hi: prev, found: true}, false, nil
			}
		}
		return bracket{}, true, nil
	}

	t := start
	limit := start + windowDays
	prev := start
	for t < limit {
		prev = t
		t += CoarseStep
		v, err := e(t)
		if err != nil {
			return bracket{}, false, errors.Wrapf(err, "pass: elevation at %v", t)
		}
		if v > 0 {
			return bracket{lo: prev, hi: t, found: true}, false, nil
		}
	}
	return bracket{}, false, nil
}

// findApproximateLOS implements approximate_los: step forward from the
// start of a pass until elevation turns non-positive, within windowDays.
func findApproximateLOS(e ElevationFunc, start, windowDays float64) (bracket, error) {
	t := start
	limit := start + windowDays
	prev := start
	for t < limit {
		prev = t
		t += CoarseStep
		v, err := e(t)
		if err != nil {
			return bracket{}, errors.Wrapf(err, "pass: elevation at %v", t)
		}
		if v <= 0 {
			return bracket{lo: prev, hi: t, found: true}, nil
		}
	}
	return bracket{}, nil
}

// refineAOS implements refine_aos: walk backward in RefineStep steps from
// the coarse bracket's above-horizon side until the first below-horizon
// sample, and return the last above-horizon second.
func refineAOS(e ElevationFunc, lo, hi float64) (float64, error) {
	t := hi
	for t > lo {
		v, err := e(t - RefineStep)
		if err != nil {
			return 0, errors.Wrapf(err, "pass: elevation at %v", t-RefineStep)
		}
		if v <= 0 {
			return t, nil
		}
		t -= RefineStep
	}
	return t, nil
}

// refineLOS implements refine_los, symmetric to refineAOS: walk forward
// from the coarse bracket's above-horizon side until the first
// below-horizon sample, and return the last above-horizon second.
func refineLOS(e ElevationFunc, lo, hi float64) (float64, error) {
	t := lo
	for t < hi {
		v, err := e(t + RefineStep)
		if err != nil {
			return 0, errors.Wrapf(err, "pass: elevation at %v", t+RefineStep)
		}
		if v <= 0 {
			return t, nil
		}
		t += RefineStep
	}
	return t, nil
}

// passMaxElevation computes a pass's max_elevation: the elevation at the
// median of AOS and LOS when both exist, otherwise the max of coarse
// samples between the defined endpoints.
func passMaxElevation(e ElevationFunc, aos float64, hasLOS bool, los float64) (float64, error) {
	if hasLOS {
		mid := (aos + los) / 2
		v, err := e(mid)
		if err != nil {
			return 0, errors.Wrapf(err, "pass: elevation at %v", mid)
		}
		return v, nil
	}
	return coarseMaxElevation(e, aos, los)
}

// coarseMaxElevation samples e at CoarseStep intervals across [lo, hi] and
// returns the largest value seen.
func coarseMaxElevation(e ElevationFunc, lo, hi float64) (float64, error) {
	if hi <= lo {
		v, err := e(lo)
		if err != nil {
			return 0, errors.Wrapf(err, "pass: elevation at %v", lo)
		}
		return v, nil
	}

	max := math.Inf(-1)
	for t := lo; t <= hi; t += CoarseStep {
		v, err := e(t)
		if err != nil {
			return 0, errors.Wrapf(err, "pass: elevation at %v", t)
		}
		if v > max {
			max = v
		}
	}
	return max, nil
}
