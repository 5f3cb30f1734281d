// Package almanac provides astronomical event-finding functions built on the
// search package. It finds times of seasons, moon phases, sunrise/sunset,
// twilight, body risings/settings, and meridian transits for the Sun and
// Moon, using the native ephem Sun/Moon formulas rather than a binary
// ephemeris reader.
package almanac

import (
	"math"

	"github.com/rfernholz/skyframe/coord"
	"github.com/rfernholz/skyframe/ephem"
	"github.com/rfernholz/skyframe/search"
)

// Body selects which of the two natively computed bodies an almanac
// function tracks.
type Body int

const (
	Sun Body = iota
	Moon
)

// positionKm returns the body's GCRF position in km at jdTT. ephem works in
// meters; almanac and coord work in km throughout.
func (b Body) positionKm(jdTT float64) [3]float64 {
	var v [3]float64
	switch b {
	case Moon:
		v = ephem.MoonPosition(jdTT)
	default:
		v = ephem.SunPosition(jdTT)
	}
	return [3]float64{v[0] / 1000.0, v[1] / 1000.0, v[2] / 1000.0}
}

// Season values returned in DiscreteEvent.NewValue by Seasons.
const (
	SpringEquinox  = 0 // Sun ecliptic longitude crosses 0°
	SummerSolstice = 1 // Sun ecliptic longitude crosses 90°
	AutumnEquinox  = 2 // Sun ecliptic longitude crosses 180°
	WinterSolstice = 3 // Sun ecliptic longitude crosses 270°
)

// Moon phase values returned in DiscreteEvent.NewValue by MoonPhases.
const (
	NewMoon      = 0 // Moon-Sun elongation crosses 0°
	FirstQuarter = 1 // Moon-Sun elongation crosses 90°
	FullMoon     = 2 // Moon-Sun elongation crosses 180°
	LastQuarter  = 3 // Moon-Sun elongation crosses 270°
)

// Twilight level values returned in DiscreteEvent.NewValue by Twilight.
const (
	Night                = 0 // Sun altitude < -18°
	AstronomicalTwilight = 1 // -18° ≤ alt < -12°
	NauticalTwilight     = 2 // -12° ≤ alt < -6°
	CivilTwilight        = 3 // -6° ≤ alt < -0.8333°
	Daylight             = 4 // alt ≥ -0.8333°
)

// sunAltitudeThreshold is the standard altitude for sunrise/sunset:
// -50 arcminutes = -0.8333° (16' solar radius + 34' refraction).
const sunAltitudeThreshold = -0.8333

// refractionThreshold is the standard altitude adjustment for atmospheric
// refraction alone (-34 arcminutes), used by Risings and Settings for any
// body, the Sun included.
const refractionThreshold = -34.0 / 60.0

// Seasons finds equinoxes and solstices in the given TT Julian date range.
//
// Returns events with NewValue: SpringEquinox=0, SummerSolstice=1,
// AutumnEquinox=2, WinterSolstice=3 (Northern Hemisphere conventions).
func Seasons(startJD, endJD float64) ([]search.DiscreteEvent, error) {
	f := func(jdTT float64) int {
		pos := Sun.positionKm(jdTT)
		_, lonDeg := coord.ICRFToEcliptic(pos[0], pos[1], pos[2])
		if lonDeg < 0 {
			lonDeg += 360.0
		}
		return int(math.Floor(lonDeg/90.0)) % 4
	}
	return search.FindDiscrete(startJD, endJD, 90.0, f, 0)
}

// MoonPhases finds new moons, first quarters, full moons, and last quarters
// in the given TT Julian date range.
//
// Returns events with NewValue: NewMoon=0, FirstQuarter=1, FullMoon=2,
// LastQuarter=3.
func MoonPhases(startJD, endJD float64) ([]search.DiscreteEvent, error) {
	f := func(jdTT float64) int {
		moonPos := Moon.positionKm(jdTT)
		sunPos := Sun.positionKm(jdTT)
		_, moonLon := coord.ICRFToEcliptic(moonPos[0], moonPos[1], moonPos[2])
		_, sunLon := coord.ICRFToEcliptic(sunPos[0], sunPos[1], sunPos[2])
		diff := moonLon - sunLon
		if diff < 0 {
			diff += 360.0
		}
		return int(math.Floor(diff/90.0)) % 4
	}
	return search.FindDiscrete(startJD, endJD, 5.0, f, 0)
}

// bodyAltitude returns a body's altitude in degrees as seen from a ground observer.
func bodyAltitude(body Body, latDeg, lonDeg, jdTT float64) float64 {
	pos := body.positionKm(jdTT)
	alt, _, _ := coord.Altaz(pos, latDeg, lonDeg, jdTT)
	return alt
}

// SunriseSunset finds sunrise and sunset times for a ground observer in the
// given TT Julian date range.
//
// latDeg, lonDeg: observer geodetic latitude and longitude in degrees.
// Returns events with NewValue=1 (sunrise) and NewValue=0 (sunset).
func SunriseSunset(latDeg, lonDeg, startJD, endJD float64) ([]search.DiscreteEvent, error) {
	f := func(jdTT float64) int {
		if bodyAltitude(Sun, latDeg, lonDeg, jdTT) >= sunAltitudeThreshold {
			return 1
		}
		return 0
	}
	return search.FindDiscrete(startJD, endJD, 0.04, f, 0)
}

// Twilight finds transitions between darkness, twilight levels, and daylight
// for a ground observer in the given TT Julian date range.
//
// Returns events with NewValue: Night=0, AstronomicalTwilight=1,
// NauticalTwilight=2, CivilTwilight=3, Daylight=4.
func Twilight(latDeg, lonDeg, startJD, endJD float64) ([]search.DiscreteEvent, error) {
	f := func(jdTT float64) int {
		alt := bodyAltitude(Sun, latDeg, lonDeg, jdTT)
		switch {
		case alt >= sunAltitudeThreshold:
			return Daylight
		case alt >= -6.0:
			return CivilTwilight
		case alt >= -12.0:
			return NauticalTwilight
		case alt >= -18.0:
			return AstronomicalTwilight
		default:
			return Night
		}
	}
	return search.FindDiscrete(startJD, endJD, 0.01, f, 0)
}

// Risings finds times when a body rises above the horizon for a ground observer
// in the given TT Julian date range.
//
// The horizon is at -34 arcminutes (atmospheric refraction). Returns events
// with NewValue=1 (body rose).
func Risings(body Body, latDeg, lonDeg, startJD, endJD float64) ([]search.DiscreteEvent, error) {
	f := func(jdTT float64) int {
		if bodyAltitude(body, latDeg, lonDeg, jdTT) >= refractionThreshold {
			return 1
		}
		return 0
	}
	events, err := search.FindDiscrete(startJD, endJD, 0.25, f, 0)
	if err != nil {
		return nil, err
	}
	return search.FilterByValue(events, 1), nil
}

// Settings finds times when a body sets below the horizon for a ground observer
// in the given TT Julian date range.
//
// The horizon is at -34 arcminutes (atmospheric refraction). Returns events
// with NewValue=0 (body set).
func Settings(body Body, latDeg, lonDeg, startJD, endJD float64) ([]search.DiscreteEvent, error) {
	f := func(jdTT float64) int {
		if bodyAltitude(body, latDeg, lonDeg, jdTT) >= refractionThreshold {
			return 1
		}
		return 0
	}
	events, err := search.FindDiscrete(startJD, endJD, 0.25, f, 0)
	if err != nil {
		return nil, err
	}
	return search.FilterByValue(events, 0), nil
}

// Transits finds times when a body crosses the observer's meridian (upper
// culmination) in the given TT Julian date range.
//
// Returns events with NewValue=1 (body crossed from east to west of meridian).
func Transits(body Body, lonDeg, startJD, endJD float64) ([]search.DiscreteEvent, error) {
	f := func(jdTT float64) int {
		pos := body.positionKm(jdTT)
		haDeg, _ := coord.HourAngleDec(pos, lonDeg, jdTT)
		// HA > 180° means east of meridian (approaching transit).
		if haDeg > 180.0 {
			return 0 // east, approaching meridian
		}
		return 1 // west, past meridian
	}
	events, err := search.FindDiscrete(startJD, endJD, 0.4, f, 0)
	if err != nil {
		return nil, err
	}
	return search.FilterByValue(events, 1), nil
}
