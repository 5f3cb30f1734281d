// Package timefmt provides the Julian Date, Modified Julian Date, DateTime,
// UnixTime, and SystemClock representations used to construct a
// timecore.Time, all round-tripping through a canonical double-double
// Julian Date.
package timefmt

import (
	"math"
	"time"

	"github.com/rfernholz/skyframe/dd"
)

// MJDOffset is JD - MJD (spec.md §6).
const MJDOffset = 2400000.5

// UnixEpochJD is the Julian Date of the Unix epoch, 1970-01-01 00:00 UTC.
const UnixEpochJD = 2440587.5

// SecPerDay is the number of seconds in a day.
const SecPerDay = 86400.0

// Format is implemented by every time representation in this package: it
// knows how to produce and consume a canonical double-double Julian Date.
type Format interface {
	ToJD() dd.DoubleDouble
}

// JulianDate is a Julian Date split into two float64 parts (jd1, jd2); the
// canonical value is their double-double sum, which preserves sub-second
// precision that a single float64 JD would lose on modern dates.
type JulianDate struct {
	JD1, JD2 float64
}

// ToJD returns the canonical double-double Julian Date.
func (j JulianDate) ToJD() dd.DoubleDouble {
	return dd.FromPair(j.JD1, j.JD2)
}

// JulianDateFromJD builds a JulianDate from a canonical double-double JD.
func JulianDateFromJD(jd dd.DoubleDouble) JulianDate {
	return JulianDate{JD1: jd.Hi(), JD2: jd.Lo()}
}

// ModifiedJulianDate is a Modified Julian Date split into two float64 parts.
// JD = MJD + MJDOffset.
type ModifiedJulianDate struct {
	MJD1, MJD2 float64
}

// ToJD returns the canonical double-double Julian Date.
func (m ModifiedJulianDate) ToJD() dd.DoubleDouble {
	return dd.FromPair(m.MJD1, m.MJD2).AddFloat64(MJDOffset)
}

// ModifiedJulianDateFromJD builds a ModifiedJulianDate from a canonical JD.
func ModifiedJulianDateFromJD(jd dd.DoubleDouble) ModifiedJulianDate {
	mjd := jd.SubFloat64(MJDOffset)
	return ModifiedJulianDate{MJD1: mjd.Hi(), MJD2: mjd.Lo()}
}

// DateTime is a Gregorian calendar date and time of day.
type DateTime struct {
	Year, Month, Day int
	Hour, Minute     int
	Second           int
	Microsecond      int
}

// ToJD converts a Gregorian DateTime to a Julian Date using the Meeus
// chapter 7 algorithm (also Vallado §3.5): months are remapped so Jan/Feb
// count as months 13/14 of the previous year, giving the standard
// A = floor(yr/100), B = 2-A+floor(A/4) Gregorian correction.
func (d DateTime) ToJD() dd.DoubleDouble {
	year, month := d.Year, d.Month
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100.0)
	b := 2 - a + math.Floor(a/4.0)

	dayFrac := float64(d.Hour)/24.0 + float64(d.Minute)/1440.0 +
		(float64(d.Second)+float64(d.Microsecond)/1e6)/SecPerDay

	jdInt := math.Floor(365.25*(float64(year)+4716.0)) +
		math.Floor(30.6001*(float64(month)+1.0)) +
		float64(d.Day) + b - 1524.5

	return dd.FromPair(jdInt, 0).AddFloat64(dayFrac)
}

// DateTimeFromJD converts a canonical Julian Date to a Gregorian DateTime
// (Meeus p. 63), with round-half-to-even rounding on microsecond extraction
// and a carry into the next second when 1e6 microseconds rounds up.
func DateTimeFromJD(jd dd.DoubleDouble) DateTime {
	shifted := jd.AddFloat64(0.5)
	z := math.Floor(shifted.Hi())
	// Keep the sub-day fraction in double-double to avoid losing the
	// microsecond-level precision carried in jd's lo component.
	f := shifted.SubFloat64(z)

	var a float64
	if z < 2299161 {
		a = z
	} else {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}

	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	dd1 := math.Floor(365.25 * c)
	e := math.Floor((b - dd1) / 30.6001)

	dayFrac := f.Float64()
	dayWithFrac := b - dd1 - math.Floor(30.6001*e) + dayFrac
	day := int(math.Floor(dayWithFrac))
	fracOfDay := dayWithFrac - float64(day)

	var month, year int
	if e < 14 {
		month = int(e) - 1
	} else {
		month = int(e) - 13
	}
	if month > 2 {
		year = int(c) - 4716
	} else {
		year = int(c) - 4715
	}

	totalMicros := roundHalfEven(fracOfDay * SecPerDay * 1e6)
	hour := int(totalMicros / (3600 * 1e6))
	totalMicros -= int64(hour) * 3600 * 1e6
	minute := int(totalMicros / (60 * 1e6))
	totalMicros -= int64(minute) * 60 * 1e6
	second := int(totalMicros / 1e6)
	micros := int(totalMicros % 1e6)

	if second >= 60 {
		second -= 60
		minute++
	}
	if minute >= 60 {
		minute -= 60
		hour++
	}
	if hour >= 24 {
		hour -= 24
		day++
	}

	return DateTime{Year: year, Month: month, Day: day, Hour: hour, Minute: minute, Second: second, Microsecond: micros}
}

// roundHalfEven rounds x to the nearest integer, breaking exact .5 ties to
// the nearest even integer (IEEE-754 default rounding), matching the
// microsecond-extraction rule spec.md §4.6 requires.
func roundHalfEven(x float64) int64 {
	floor := math.Floor(x)
	diff := x - floor
	switch {
	case diff < 0.5:
		return int64(floor)
	case diff > 0.5:
		return int64(floor) + 1
	default:
		if math.Mod(floor, 2) == 0 {
			return int64(floor)
		}
		return int64(floor) + 1
	}
}

// UnixTime is seconds since 1970-01-01 00:00 UTC.
type UnixTime float64

// ToJD converts Unix seconds to a canonical Julian Date.
func (u UnixTime) ToJD() dd.DoubleDouble {
	return dd.From(UnixEpochJD).AddFloat64(float64(u) / SecPerDay)
}

// UnixTimeFromJD converts a canonical Julian Date to Unix seconds.
func UnixTimeFromJD(jd dd.DoubleDouble) UnixTime {
	days := jd.SubFloat64(UnixEpochJD)
	return UnixTime(days.Float64() * SecPerDay)
}

// SystemClock bridges a host time.Time (any monotonic-safe wall-clock
// reading; epoch is the Unix epoch) to a canonical Julian Date.
type SystemClock struct {
	T time.Time
}

// ToJD converts the wrapped time.Time (assumed UTC) to a canonical JD.
func (s SystemClock) ToJD() dd.DoubleDouble {
	sec := float64(s.T.Unix()) + float64(s.T.Nanosecond())/1e9
	return UnixTime(sec).ToJD()
}

// Now returns a SystemClock for the current instant.
func Now() SystemClock {
	return SystemClock{T: time.Now().UTC()}
}
