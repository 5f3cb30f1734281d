// Package timecore implements Time, a time instant tagged with a scale, and
// the scale conversions routed through TAI (spec.md §3, §4.5): TAI<->UTC via
// the leap-second table, TAI<->TT by the fixed 32.184 s offset, and
// UT1<->TAI via a three-step fixed-point iteration that resolves the
// leap-second day correctly.
package timecore

import (
	"github.com/rfernholz/skyframe/dd"
	"github.com/rfernholz/skyframe/eop"
	"github.com/rfernholz/skyframe/leapsec"
	"github.com/rfernholz/skyframe/timefmt"
)

// Scale identifies a time scale.
type Scale int

const (
	TAI Scale = iota
	UTC
	UT1
	TT
)

func (s Scale) String() string {
	switch s {
	case TAI:
		return "TAI"
	case UTC:
		return "UTC"
	case UT1:
		return "UT1"
	case TT:
		return "TT"
	default:
		return "unknown"
	}
}

// ttMinusTAI is the fixed TT-TAI offset in days (32.184 s).
const ttMinusTAI = 32.184 / timefmt.SecPerDay

// Time is an instant in a given time scale, carried as a double-double
// Julian Date for sub-microsecond precision across the whole JD range.
type Time struct {
	Scale Scale
	JD    dd.DoubleDouble
}

// NewTime builds a Time from any timefmt.Format in the given scale.
func NewTime(scale Scale, f timefmt.Format) Time {
	return Time{Scale: scale, JD: f.ToJD()}
}

// ToDateTime returns the Gregorian calendar representation of t, in t's scale.
func (t Time) ToDateTime() timefmt.DateTime {
	return timefmt.DateTimeFromJD(t.JD)
}

// MJD returns the Modified Julian Date of t, in t's scale.
func (t Time) MJD() float64 {
	return t.JD.SubFloat64(timefmt.MJDOffset).Float64()
}

// TimeDifference returns a-b in days, computed by first converting both to
// TAI (the one scale that is a uniform, continuous time axis) so that the
// subtraction is never contaminated by a leap-second discontinuity or the
// UT1-UTC wobble.
func TimeDifference(a, b Time) dd.DoubleDouble {
	aTAI := a.InScale(TAI, nil, nil)
	bTAI := b.InScale(TAI, nil, nil)
	return aTAI.JD.Sub(bTAI.JD)
}

// InScale converts t to the requested scale. leapTable and eopTable supply
// the leap-second and EOP lookups; either may be nil, in which case the
// process-wide default registry (leapsec.Default / eop.Default) is used.
// Non-nil tables are used directly, letting callers avoid contending on the
// shared registry or use a table other than the process default.
func (t Time) InScale(to Scale, leapTable *leapsec.Table, eopTable *eop.Table) Time {
	if t.Scale == to {
		return t
	}
	tai := t.toTAI(leapTable, eopTable)
	if to == TAI {
		return tai
	}
	return tai.fromTAI(to, leapTable, eopTable)
}

func taiMinusUTCInUTC(mjdUTC float64, leapTable *leapsec.Table) float64 {
	if leapTable != nil {
		return leapTable.TAIMinusUTCInUTC(mjdUTC)
	}
	return leapsec.TAIMinusUTCInUTC(mjdUTC)
}

func taiMinusUTCInTAI(mjdTAI float64, leapTable *leapsec.Table) float64 {
	if leapTable != nil {
		return leapTable.TAIMinusUTCInTAI(mjdTAI)
	}
	return leapsec.TAIMinusUTCInTAI(mjdTAI)
}

func ut1MinusUTCInUTC(mjdUTC float64, eopTable *eop.Table) float64 {
	if eopTable != nil {
		return eopTable.UT1MinusUTCInUTC(mjdUTC)
	}
	return eop.UT1MinusUTCInUTC(mjdUTC)
}

// toTAI converts t (in any scale) to TAI.
func (t Time) toTAI(leapTable *leapsec.Table, eopTable *eop.Table) Time {
	switch t.Scale {
	case TAI:
		return t
	case TT:
		return Time{Scale: TAI, JD: t.JD.SubFloat64(ttMinusTAI)}
	case UTC:
		mjdUTC := t.MJD()
		offsetDays := taiMinusUTCInUTC(mjdUTC, leapTable) / timefmt.SecPerDay
		return Time{Scale: TAI, JD: t.JD.AddFloat64(offsetDays)}
	case UT1:
		// Three-step fixed point on the UTC estimate (spec.md §4.5): a
		// single step misclassifies instants inside a leap-second day,
		// since UT1-UTC is looked up in UTC MJD but we only have UT1.
		utcEstimate := t.JD
		var delta float64
		for i := 0; i < 3; i++ {
			mjdUTCEstimate := utcEstimate.SubFloat64(timefmt.MJDOffset).Float64()
			delta = ut1MinusUTCInUTC(mjdUTCEstimate, eopTable)
			utcEstimate = t.JD.SubFloat64(delta / timefmt.SecPerDay)
		}
		utc := Time{Scale: UTC, JD: utcEstimate}
		return utc.toTAI(leapTable, eopTable)
	default:
		return t
	}
}

// fromTAI converts a TAI-scale Time to the requested scale.
func (tai Time) fromTAI(to Scale, leapTable *leapsec.Table, eopTable *eop.Table) Time {
	switch to {
	case TAI:
		return tai
	case TT:
		return Time{Scale: TT, JD: tai.JD.AddFloat64(ttMinusTAI)}
	case UTC:
		mjdTAI := tai.MJD()
		offsetDays := taiMinusUTCInTAI(mjdTAI, leapTable) / timefmt.SecPerDay
		return Time{Scale: UTC, JD: tai.JD.SubFloat64(offsetDays)}
	case UT1:
		utc := tai.fromTAI(UTC, leapTable, eopTable)
		ut1MinusUTC := ut1MinusUTCInUTC(utc.MJD(), eopTable)
		taiMinusUTC := tai.JD.Sub(utc.JD).Float64() * timefmt.SecPerDay
		deltaDays := (ut1MinusUTC - taiMinusUTC) / timefmt.SecPerDay
		return Time{Scale: UT1, JD: tai.JD.AddFloat64(deltaDays)}
	default:
		return tai
	}
}
