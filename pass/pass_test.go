package pass

import (
	"math"
	"testing"
)

// sinusoidalElevation models a satellite whose elevation oscillates with
// period periodDays between -amplitude and +amplitude, offset by a bias.
// It crosses the horizon (e=0) twice per period whenever |bias| < amplitude.
func sinusoidalElevation(periodDays, amplitude, bias, phase float64) ElevationFunc {
	return func(jdUTC float64) (float64, error) {
		return bias + amplitude*math.Sin(2*math.Pi*(jdUTC-phase)/periodDays), nil
	}
}

func TestPredictCurrentOrNextPassTypical(t *testing.T) {
	// Period 100 minutes, rises above horizon for part of each orbit.
	period := 100.0 / 1440.0
	e := sinusoidalElevation(period, 0.5, -0.2, 0)

	opts := Options{MinElevationRad: 0, WindowDays: 1.0}
	res, err := PredictCurrentOrNextPass(opts, e, 0.001)
	if err != nil {
		t.Fatalf("PredictCurrentOrNextPass: %v", err)
	}
	if res.IsNeverVisible || res.IsAlwaysVisible {
		t.Fatalf("result = %+v, want a concrete pass", res)
	}
	if !res.HasAOS || !res.HasLOS {
		t.Fatalf("result = %+v, want both AOS and LOS set", res)
	}
	if res.AOS >= res.LOS {
		t.Errorf("AOS %v >= LOS %v", res.AOS, res.LOS)
	}
	if res.MaxElevationRad <= 0 {
		t.Errorf("MaxElevationRad = %v, want > 0 for a pass that crosses the horizon", res.MaxElevationRad)
	}

	// Elevation must actually be non-negative throughout [AOS, LOS], and
	// negative just outside it (refinement correctness / monotonic bracket).
	mid, _ := e((res.AOS + res.LOS) / 2)
	if mid <= 0 {
		t.Errorf("elevation at pass midpoint = %v, want > 0", mid)
	}
	before, _ := e(res.AOS - RefineStep)
	if before > 0 {
		t.Errorf("elevation just before AOS = %v, want <= 0", before)
	}
	after, _ := e(res.LOS + RefineStep)
	if after > 0 {
		t.Errorf("elevation just after LOS = %v, want <= 0", after)
	}
}

func TestPredictCurrentOrNextPassAlwaysVisible(t *testing.T) {
	e := func(jdUTC float64) (float64, error) { return 0.3, nil }
	opts := Options{MinElevationRad: 0, WindowDays: 1.0}

	res, err := PredictCurrentOrNextPass(opts, e, 0)
	if err != nil {
		t.Fatalf("PredictCurrentOrNextPass: %v", err)
	}
	if !res.IsAlwaysVisible {
		t.Errorf("result = %+v, want IsAlwaysVisible", res)
	}
	if math.Abs(res.MaxElevationRad-0.3) > 1e-9 {
		t.Errorf("MaxElevationRad = %v, want 0.3", res.MaxElevationRad)
	}
}

func TestPredictCurrentOrNextPassNeverVisible(t *testing.T) {
	e := func(jdUTC float64) (float64, error) { return -0.1, nil }
	opts := Options{MinElevationRad: 0, WindowDays: 1.0}

	res, err := PredictCurrentOrNextPass(opts, e, 0)
	if err != nil {
		t.Fatalf("PredictCurrentOrNextPass: %v", err)
	}
	if !res.IsNeverVisible {
		t.Errorf("result = %+v, want IsNeverVisible", res)
	}
}

func TestPredictCurrentOrNextPassBelowThreshold(t *testing.T) {
	// Crosses the horizon (e=0) but never reaches the 0.4 rad threshold.
	period := 100.0 / 1440.0
	e := sinusoidalElevation(period, 0.2, -0.05, 0)
	opts := Options{MinElevationRad: 0.4, WindowDays: 1.0}

	res, err := PredictCurrentOrNextPass(opts, e, 0.001)
	if err != nil {
		t.Fatalf("PredictCurrentOrNextPass: %v", err)
	}
	if !res.IsNeverVisible {
		t.Errorf("result = %+v, want IsNeverVisible (every pass below threshold)", res)
	}
}

func TestPredictNextPassSkipsCurrentPass(t *testing.T) {
	period := 100.0 / 1440.0
	e := sinusoidalElevation(period, 0.5, -0.2, 0)
	opts := Options{MinElevationRad: 0, WindowDays: 1.0}

	// Start right at the peak of a pass (phase=0 puts the peak at t=period/4).
	start := period / 4
	if v, _ := e(start); v <= 0 {
		t.Fatalf("test setup: elevation at start = %v, want > 0", v)
	}

	current, err := PredictCurrentOrNextPass(opts, e, start)
	if err != nil {
		t.Fatalf("PredictCurrentOrNextPass: %v", err)
	}
	next, err := PredictNextPass(opts, e, start)
	if err != nil {
		t.Fatalf("PredictNextPass: %v", err)
	}

	if !current.HasAOS || !next.HasAOS {
		t.Fatalf("current = %+v, next = %+v, want both to have AOS", current, next)
	}
	if next.AOS <= current.LOS {
		t.Errorf("next.AOS = %v, want strictly after current.LOS = %v", next.AOS, current.LOS)
	}
}

func TestInvalidWindow(t *testing.T) {
	e := sinusoidalElevation(0.1, 0.5, 0, 0)
	_, err := PredictCurrentOrNextPass(Options{WindowDays: 0}, e, 0)
	if err != ErrInvalidWindow {
		t.Errorf("err = %v, want ErrInvalidWindow", err)
	}
	_, err = PredictNextPass(Options{WindowDays: -1}, e, 0)
	if err != ErrInvalidWindow {
		t.Errorf("err = %v, want ErrInvalidWindow", err)
	}
}
