package timescale

import (
	"math"
	"testing"
	"time"
)

func TestTimeToJDUTC(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	jd := TimeToJDUTC(j2000)
	if math.Abs(jd-2451545.0) > 1e-9 {
		t.Errorf("J2000 JD = %.10f, want 2451545.0", jd)
	}

	unix0 := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	jd = TimeToJDUTC(unix0)
	if math.Abs(jd-2440587.5) > 1e-9 {
		t.Errorf("Unix epoch JD = %.10f, want 2440587.5", jd)
	}
}

func TestTimeToJDUTC_Nanoseconds(t *testing.T) {
	t0 := time.Date(2024, 6, 15, 12, 0, 0, 500000000, time.UTC)
	t1 := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	jd0 := TimeToJDUTC(t0)
	jd1 := TimeToJDUTC(t1)
	diffSec := (jd0 - jd1) * SecPerDay
	if math.Abs(diffSec-0.5) > 1e-3 {
		t.Errorf("nanosecond diff: got %.9f s, want 0.5 s", diffSec)
	}
}

func TestUTCToTT(t *testing.T) {
	jdUTC := 2458849.5
	jdTT := UTCToTT(jdUTC)
	expectedOffset := (currentLeapSeconds + ttMinusTAI) / SecPerDay
	diff := jdTT - jdUTC - expectedOffset
	if math.Abs(diff) > 1e-9 {
		t.Errorf("UTCToTT offset error: %.15e days", diff)
	}
}

func TestDeltaTContinuousAtBranchBoundary(t *testing.T) {
	// The 1986-2005 and 2005-2050 branches should agree closely at their
	// shared boundary (year 2005); a large jump would indicate a
	// transcription error in one of the polynomials.
	before := DeltaT(2004.999)
	after := DeltaT(2005.0)
	if math.Abs(before-after) > 0.1 {
		t.Errorf("DeltaT discontinuous at 2005 boundary: %v vs %v", before, after)
	}
}

func TestDeltaTIncreasesOverTime(t *testing.T) {
	// Delta T has grown roughly monotonically over the last few centuries
	// due to tidal deceleration of Earth's rotation.
	d1900 := DeltaT(1900)
	d2000 := DeltaT(2000)
	d2040 := DeltaT(2040)
	if !(d1900 < d2000 && d2000 < d2040) {
		t.Errorf("DeltaT not increasing: 1900=%v 2000=%v 2040=%v", d1900, d2000, d2040)
	}
}

func TestTTToUT1(t *testing.T) {
	jdTT := 2451545.0
	jdUT1 := TTToUT1(jdTT)
	year := 2000.0 + (jdTT-2451545.0)/365.25
	dt := DeltaT(year)
	expected := jdTT - dt/SecPerDay
	if math.Abs(jdUT1-expected) > 1e-15 {
		t.Errorf("TTToUT1: got %.15f want %.15f", jdUT1, expected)
	}
}
