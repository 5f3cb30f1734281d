// Package timescale provides simple, table-free Delta-T (TT-UT1)
// approximation and UTC<->TT conversion helpers for the degree-level
// altitude/azimuth code in coord/almanac/eclipse, which need a UT1 estimate
// to feed frames.NewCIOTransform but don't carry their own EOP table. The
// core time-scale chain (leap-second table, EOP table, double-double
// precision) lives in timecore/leapsec/eop instead; this package trades
// that precision for a dependency-free approximation good enough for
// degree-level output.
package timescale

import (
	"time"

	"github.com/rfernholz/skyframe/timefmt"
)

// SecPerDay is the number of SI seconds in a day.
const SecPerDay = timefmt.SecPerDay

// currentLeapSeconds is the TAI-UTC offset (s) this package's UTCToTT
// assumes; see leapsec.Table for the table-driven value the core
// time-scale chain actually uses.
const currentLeapSeconds = 37.0

// ttMinusTAI is the fixed TT-TAI offset (s).
const ttMinusTAI = 32.184

// TimeToJDUTC converts a UTC time.Time to a Julian date.
func TimeToJDUTC(t time.Time) float64 {
	return timefmt.SystemClock{T: t.UTC()}.ToJD().Float64()
}

// UTCToTT converts a UTC Julian date to TT, assuming currentLeapSeconds.
func UTCToTT(jdUTC float64) float64 {
	return jdUTC + (currentLeapSeconds+ttMinusTAI)/SecPerDay
}

// DeltaT approximates Delta T = TT - UT1 in seconds for a decimal year,
// using the Espenak & Meeus (2006) polynomial fit for 1986-2050 and a
// long-term parabola (NASA's "long term" fit, Espenak & Meeus eq. outside
// the tabulated range) elsewhere.
func DeltaT(year float64) float64 {
	switch {
	case year >= 1986 && year < 2005:
		t := year - 2000
		return 63.86 + t*(0.3345+t*(-0.060374+t*(0.0017275+t*(0.000651814+t*0.00002373599))))
	case year >= 2005 && year < 2050:
		t := year - 2000
		return 62.92 + t*(0.32217+t*0.005589)
	default:
		u := (year - 1820) / 100.0
		return -20 + 32*u*u
	}
}

// TTToUT1 converts a TT Julian date to UT1 using DeltaT.
func TTToUT1(jdTT float64) float64 {
	year := 2000.0 + (jdTT-2451545.0)/365.25
	dt := DeltaT(year)
	return jdTT - dt/SecPerDay
}
