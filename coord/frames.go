package coord

import (
	"math"

	"github.com/rfernholz/skyframe/dd"
	"github.com/rfernholz/skyframe/frames"
	"github.com/rfernholz/skyframe/linalg"
	"github.com/rfernholz/skyframe/timescale"
)

// GalacticMatrix is the rotation matrix from ICRF (J2000) to Galactic
// System II (IAU 1958). Apply as v_gal = GalacticMatrix * v_icrf.
// Source: SPICE Toolkit / Skyfield.
var GalacticMatrix = [3][3]float64{
	{-0.054875539395742523, -0.87343710472759606, -0.48383499177002515},
	{0.49410945362774389, -0.44482959429757496, 0.74698224869989183},
	{-0.86766613568337381, -0.19807638961301985, 0.45598379452141991},
}

// B1950Matrix is the rotation matrix from ICRF (J2000) to the mean equator
// and equinox of B1950 (FK4). Apply as v_B1950 = B1950Matrix * v_icrf.
// Source: SPICE Toolkit / Skyfield.
var B1950Matrix = [3][3]float64{
	{0.99992570795236291, 0.011178938126427691, 0.0048590038414544293},
	{-0.011178938137770135, 0.9999375133499887, -2.715792625851078e-05},
	{-0.0048590038153592712, -2.7162594714247048e-05, 0.9999881946023742},
}

// ICRFToGalactic converts an ICRF Cartesian vector to Galactic latitude and
// longitude in degrees. Longitude is in [0, 360).
func ICRFToGalactic(x, y, z float64) (latDeg, lonDeg float64) {
	gx := GalacticMatrix[0][0]*x + GalacticMatrix[0][1]*y + GalacticMatrix[0][2]*z
	gy := GalacticMatrix[1][0]*x + GalacticMatrix[1][1]*y + GalacticMatrix[1][2]*z
	gz := GalacticMatrix[2][0]*x + GalacticMatrix[2][1]*y + GalacticMatrix[2][2]*z

	r := math.Sqrt(gx*gx + gy*gy + gz*gz)
	if r == 0 {
		return 0, 0
	}

	latDeg = math.Asin(gz/r) * rad2deg
	lonDeg = math.Atan2(gy, gx) * rad2deg
	lonDeg = math.Mod(lonDeg+360.0, 360.0)
	return latDeg, lonDeg
}

// InertialFrame is a fixed-axis rotation away from ICRF: Galactic, B1950, or
// the J2000 mean ecliptic. Unlike TimeBasedFrame it takes no date.
type InertialFrame struct {
	Name   string
	Matrix [3][3]float64
}

// XYZ rotates a Cartesian ICRF vector into the frame.
func (f InertialFrame) XYZ(posICRF [3]float64) [3]float64 {
	m := f.Matrix
	return [3]float64{
		m[0][0]*posICRF[0] + m[0][1]*posICRF[1] + m[0][2]*posICRF[2],
		m[1][0]*posICRF[0] + m[1][1]*posICRF[1] + m[1][2]*posICRF[2],
		m[2][0]*posICRF[0] + m[2][1]*posICRF[1] + m[2][2]*posICRF[2],
	}
}

// LatLon rotates posICRF into the frame and returns its latitude/longitude
// in degrees, longitude wrapped to [0, 360).
func (f InertialFrame) LatLon(posICRF [3]float64) (latDeg, lonDeg float64) {
	v := f.XYZ(posICRF)
	r := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if r == 0 {
		return 0, 0
	}
	latDeg = math.Asin(v[2]/r) * rad2deg
	lonDeg = math.Mod(math.Atan2(v[1], v[0])*rad2deg+360.0, 360.0)
	return
}

// Galactic rotates ICRF vectors to Galactic System II (IAU 1958).
var Galactic = InertialFrame{Name: "Galactic", Matrix: GalacticMatrix}

// B1950 rotates ICRF vectors to the mean equator and equinox of B1950 (FK4).
var B1950 = InertialFrame{Name: "B1950", Matrix: B1950Matrix}

// Ecliptic rotates ICRF vectors to the J2000 mean ecliptic (a rotation about
// the X-axis by the J2000 mean obliquity). Matches ICRFToEcliptic.
var Ecliptic = InertialFrame{
	Name: "Ecliptic",
	Matrix: [3][3]float64{
		{1, 0, 0},
		{0, obliquityCos, obliquitySin},
		{0, -obliquitySin, obliquityCos},
	},
}

// TimeBasedFrame is a rotation away from GCRF/ICRF that depends on date, such
// as the Earth-fixed ITRF.
type TimeBasedFrame struct {
	Name    string
	xyzFunc func(posGCRF [3]float64, jdTT float64) [3]float64
}

// XYZ rotates a Cartesian GCRF vector (km) into the frame at jdTT.
func (f TimeBasedFrame) XYZ(posGCRF [3]float64, jdTT float64) [3]float64 {
	return f.xyzFunc(posGCRF, jdTT)
}

// ITRFFrame returns the Earth-fixed ITRF frame, built on the IERS 2010
// CIO-based GCRF→ITRF transform (frames.CIOTransform) with polar motion
// taken as zero, since the pack carries no EOP polar-motion series.
func ITRFFrame() TimeBasedFrame {
	return TimeBasedFrame{
		Name: "ITRF",
		xyzFunc: func(posGCRF [3]float64, jdTT float64) [3]float64 {
			jdUT1 := timescale.TTToUT1(jdTT)
			ct := frames.NewCIOTransform(dd.From(jdUT1), jdTT, 0, 0)
			v := ct.GCRFToITRF(linalg.Vec3(posGCRF))
			return [3]float64(v)
		},
	}
}
