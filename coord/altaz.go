package coord

import (
	"math"

	"github.com/rfernholz/skyframe/coords"
	"github.com/rfernholz/skyframe/dd"
	"github.com/rfernholz/skyframe/frames"
	"github.com/rfernholz/skyframe/linalg"
	"github.com/rfernholz/skyframe/timescale"
)

// Altaz converts a geocentric GCRF position vector to altitude and azimuth
// for a ground observer at the given geodetic latitude and longitude.
// jdTT is the TT Julian date.
//
// The position should be a geocentric or topocentric vector in km (typically
// from ephem.SunPosition/ephem.MoonPosition, converted to km). For distant
// bodies (Sun, planets), geocentric and topocentric directions agree to
// <0.01°. For the Moon, topocentric positions are needed for arcsecond-level
// accuracy (parallax ~1°).
//
// Returns altitude (degrees, positive above horizon, geometric — no
// refraction), azimuth (degrees, 0=North, 90=East), and distance (km).
//
// The rotation chain is GCRF → CIRS (bias+precession+nutation via the CIP
// X/Y series) → TIRS (Earth rotation angle) → ITRF (polar motion, taken as
// zero) → local horizon, via frames.CIOTransform.
func Altaz(posGCRF [3]float64, latDeg, lonDeg, jdTT float64) (altDeg, azDeg, distKm float64) {
	jdUT1 := timescale.TTToUT1(jdTT)
	ct := frames.NewCIOTransform(dd.From(jdUT1), jdTT, 0, 0)
	targetITRF := ct.GCRFToITRF(linalg.Vec3(posGCRF))

	site := coords.Geodetic{Lat: latDeg * deg2rad, Lon: lonDeg * deg2rad}
	sx, sy, sz := site.ToGeocentric()

	h := coords.HorizontalFromITRF([3]float64(targetITRF), [3]float64{sx, sy, sz}, site)
	return h.ElRad * rad2deg, h.AzRad * rad2deg, h.RangeKm
}

// HourAngleDec computes the hour angle and declination of a geocentric GCRF
// position vector for an observer at the given longitude. jdTT is the TT
// Julian date.
//
// Hour angle is measured westward from the local meridian (0° = on meridian,
// positive = west of meridian). Declination is measured from the true
// equator of date.
//
// Returns hour angle (degrees, 0–360) and declination (degrees, -90 to +90).
func HourAngleDec(posGCRF [3]float64, lonDeg, jdTT float64) (haDeg, decDeg float64) {
	jdUT1 := timescale.TTToUT1(jdTT)
	ct := frames.NewCIOTransform(dd.From(jdUT1), jdTT, 0, 0)
	itrf := ct.GCRFToITRF(linalg.Vec3(posGCRF))

	sph := coords.CartesianToSpherical(itrf[0], itrf[1], itrf[2])
	decDeg = sph.Lat * rad2deg
	lonITRFDeg := sph.Lon * rad2deg

	haDeg = math.Mod(lonDeg-lonITRFDeg+720.0, 360.0)
	return
}
