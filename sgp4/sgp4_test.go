package sgp4

import (
	"errors"
	"math"
	"testing"

	"github.com/rfernholz/skyframe/dd"
)

// noaa15TLE is a representative LEO mean-element set (NOAA-15-like orbit:
// ~807 km altitude, 98.6 deg sun-synchronous inclination), used as the
// valid-input baseline for the tests below.
func noaa15TLE() TLE {
	return TLE{
		EpochDays:           26000.5,
		BStar:               0.35143e-3,
		Eccentricity:        0.0011418,
		ArgPerigeeRad:       118.1014 * math.Pi / 180,
		InclinationRad:      98.6662 * math.Pi / 180,
		MeanAnomalyRad:      242.0426 * math.Pi / 180,
		MeanMotionRadPerMin: 14.25920411 * 2 * math.Pi / 1440.0,
		RAANRad:             226.5103 * math.Pi / 180,
	}
}

func TestInitValid(t *testing.T) {
	sr, err := Init(noaa15TLE())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if sr.a <= 0 {
		t.Errorf("semi-major axis = %v, want positive", sr.a)
	}
	if sr.isimp {
		t.Errorf("isimp = true for a ~807km perigee orbit, want false")
	}
}

func TestInitEccentricityOutOfRange(t *testing.T) {
	tle := noaa15TLE()
	tle.Eccentricity = 1.2
	_, err := Init(tle)
	if !errors.Is(err, ErrMeanElementsRange) {
		t.Errorf("Init with e=1.2: err = %v, want ErrMeanElementsRange", err)
	}

	tle.Eccentricity = -0.1
	_, err = Init(tle)
	if !errors.Is(err, ErrMeanElementsRange) {
		t.Errorf("Init with e=-0.1: err = %v, want ErrMeanElementsRange", err)
	}
}

func TestInitMeanMotionOutOfRange(t *testing.T) {
	tle := noaa15TLE()
	tle.MeanMotionRadPerMin = 0
	_, err := Init(tle)
	if !errors.Is(err, ErrMeanMotionRange) {
		t.Errorf("Init with n=0: err = %v, want ErrMeanMotionRange", err)
	}

	tle.MeanMotionRadPerMin = -0.01
	_, err = Init(tle)
	if !errors.Is(err, ErrMeanMotionRange) {
		t.Errorf("Init with n<0: err = %v, want ErrMeanMotionRange", err)
	}
}

func TestInitSuborbitalEpoch(t *testing.T) {
	tle := noaa15TLE()
	// A mean motion far too fast for any bound orbit above the Earth's
	// surface collapses the recovered perigee radius below 1 earth radius.
	tle.MeanMotionRadPerMin = 100 * 2 * math.Pi / 1440.0
	_, err := Init(tle)
	if err == nil {
		t.Fatalf("Init with absurd mean motion: want an error, got nil")
	}
	if !errors.Is(err, ErrSuborbitalEpoch) && !errors.Is(err, ErrSemiLatusRectum) {
		t.Errorf("Init with absurd mean motion: err = %v, want ErrSuborbitalEpoch or ErrSemiLatusRectum", err)
	}
}

func TestPropagateAtEpoch(t *testing.T) {
	tle := noaa15TLE()
	sr, err := Init(tle)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	jdEpoch := dd.From(2453371.0)
	out, err := sr.Propagate(jdEpoch, jdEpoch)
	if err != nil {
		t.Fatalf("Propagate at epoch: %v", err)
	}

	rMag := math.Sqrt(out.R[0]*out.R[0] + out.R[1]*out.R[1] + out.R[2]*out.R[2])
	// Altitude ~807km above a ~6378km earth radius, in meters.
	const earthRadiusM = earthRadiusKm * 1000
	wantMin := earthRadiusM + 700_000.0
	wantMax := earthRadiusM + 900_000.0
	if rMag < wantMin || rMag > wantMax {
		t.Errorf("|R| at epoch = %v m, want in [%v, %v]", rMag, wantMin, wantMax)
	}

	vMag := math.Sqrt(out.V[0]*out.V[0] + out.V[1]*out.V[1] + out.V[2]*out.V[2])
	// Circular LEO orbital speed is roughly 7.4-7.6 km/s.
	if vMag < 7000 || vMag > 8000 {
		t.Errorf("|V| at epoch = %v m/s, want in [7000, 8000]", vMag)
	}
}

func TestPropagateAdvancesSmoothly(t *testing.T) {
	sr, err := Init(noaa15TLE())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	jdEpoch := dd.From(2453371.0)
	jdLater := dd.From(2453371.0 + 1.0/1440.0) // one minute later

	a, err := sr.Propagate(jdEpoch, jdEpoch)
	if err != nil {
		t.Fatalf("Propagate at epoch: %v", err)
	}
	b, err := sr.Propagate(jdLater, jdEpoch)
	if err != nil {
		t.Fatalf("Propagate one minute later: %v", err)
	}

	dist := math.Sqrt(
		(b.R[0]-a.R[0])*(b.R[0]-a.R[0]) +
			(b.R[1]-a.R[1])*(b.R[1]-a.R[1]) +
			(b.R[2]-a.R[2])*(b.R[2]-a.R[2]),
	)
	// At ~7.5km/s, one minute of travel is roughly 450km; loose bounds
	// only guard against a propagation that stands still or blows up.
	if dist < 100_000 || dist > 600_000 {
		t.Errorf("displacement over one minute = %v m, want in [100000, 600000]", dist)
	}
}

func TestPropagateIsConcurrencySafe(t *testing.T) {
	sr, err := Init(noaa15TLE())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	jdEpoch := dd.From(2453371.0)

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func(offsetMin float64) {
			defer func() { done <- struct{}{} }()
			jd := dd.From(2453371.0 + offsetMin/1440.0)
			if _, err := sr.Propagate(jd, jdEpoch); err != nil {
				t.Errorf("concurrent Propagate: %v", err)
			}
		}(float64(i) * 10)
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
