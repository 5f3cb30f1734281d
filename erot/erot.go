// Package erot implements the Earth-rotation primitives of the IERS 2010
// CIO-based celestial-to-terrestrial transform: the celestial intermediate
// pole (CIP) X,Y coordinates, the CIO locator s, the Earth Rotation Angle,
// the TIO locator s', and the GMST82 sidereal angle used by the older
// equinox-based TEME/PEF path.
package erot

import (
	"math"

	"github.com/rfernholz/skyframe/dd"
	"github.com/rfernholz/skyframe/linalg"
)

const (
	deg2rad    = math.Pi / 180.0
	arcsec2rad = deg2rad / 3600.0
	j2000JD    = 2451545.0
	twoPi      = 2 * math.Pi
)

// nutationTerm is one row of the reduced IAU 2000A luni-solar nutation
// series: the 30 largest terms by |s| amplitude, in 0.1 microarcseconds.
type nutationTerm struct {
	nl, nlp, nf, nd, nom int
	s, sdot, cp          float64
	c, cdot, sp          float64
}

// Reduced IAU 2000A luni-solar series (~1 mas precision), same truncation
// used throughout the corpus for the equinox-based nutation angles.
var nutationTerms = []nutationTerm{
	{0, 0, 0, 0, 1, -172064161, -174666, 33386, 92052331, 9086, 15377},
	{0, 0, 2, -2, 2, -13170906, -1675, -13696, 5730336, -3015, -4587},
	{0, 0, 2, 0, 2, -2276413, -234, 2796, 978459, -485, 1374},
	{0, 0, 0, 0, 2, 2074554, 207, -698, -897492, 470, -291},
	{0, 1, 0, 0, 0, 1475877, -3633, 11817, 73871, -184, -1924},
	{1, 0, 0, 0, 0, 711159, 73, -872, -6750, 0, 358},
	{0, 1, 2, -2, 2, -516821, 1226, -524, 224386, -677, -174},
	{0, 0, 2, 0, 1, -387298, -367, 380, 200728, 18, 318},
	{1, 0, 2, 0, 2, -301461, -36, 816, 129025, -63, 367},
	{0, -1, 2, -2, 2, 215829, -494, 111, -95929, 299, 132},
	{-1, 0, 0, 2, 0, 156994, 10, -168, -1235, 0, 82},
	{0, 0, 2, -2, 1, 128227, 137, 181, -68982, -9, 39},
	{-1, 0, 2, 0, 2, 123457, 11, 19, -53311, 32, -4},
	{0, 0, 0, 2, 0, 63384, 11, -150, -1220, 0, 29},
	{1, 0, 0, 0, 1, 63110, 63, 27, -33228, 0, -9},
	{-1, 0, 2, 2, 2, -59641, -11, 149, 25543, -11, 66},
	{-1, 0, 0, 0, 1, -57976, -63, -189, 31429, 0, -75},
	{1, 0, 2, 0, 1, -51613, -42, 129, 26366, 0, 78},
	{-2, 0, 0, 2, 0, -47722, 0, -18, 477, 0, -25},
	{-2, 0, 2, 0, 1, 45893, 50, 31, -24236, -10, 20},
	{0, 0, 2, 2, 2, -38571, -1, 158, 16452, -11, 68},
	{0, -2, 2, -2, 2, 32481, 0, 0, -13870, 0, 0},
	{2, 0, 2, 0, 2, -31046, -1, 131, 13238, -11, 59},
	{2, 0, 0, 0, 0, 29243, 0, -74, -609, 0, 13},
	{1, 0, 2, -2, 2, 28593, 0, -1, -12338, 10, -3},
	{0, 0, 2, 0, 0, 25887, 0, -66, -550, 0, 11},
	{0, 0, -2, 2, 0, 21783, 0, 13, -167, 0, 13},
	{-1, 0, 2, 0, 1, 20441, 21, 10, -10758, 0, -3},
	{0, 2, 0, 0, 0, 16707, -85, -10, 168, -1, 10},
	{0, 2, 2, -2, 2, -15794, 72, -16, 6850, -42, -5},
}

const tenthUas2Rad = arcsec2rad / 1e7

// fundamentalArgs returns the Delaunay arguments (l, l', F, D, Omega) in
// radians, T in Julian centuries TT since J2000 (IERS Conventions 2003
// eq. 5.43, Simon et al. 1994).
func fundamentalArgs(T float64) (l, lp, F, D, om float64) {
	l = (485868.249036 + T*(1717915923.2178+T*(31.8792+T*(0.051635-T*0.00024470)))) * arcsec2rad
	lp = (1287104.79305 + T*(129596581.0481+T*(-0.5532+T*(0.000136+T*0.00001149)))) * arcsec2rad
	F = (335779.526232 + T*(1739527262.8478+T*(-12.7512+T*(-0.001037+T*0.00000417)))) * arcsec2rad
	D = (1072260.70369 + T*(1602961601.2090+T*(-6.3706+T*(0.006593-T*0.00003169)))) * arcsec2rad
	om = (450160.398036 + T*(-6962890.5431+T*(7.4722+T*(0.007702-T*0.00005939)))) * arcsec2rad
	return
}

// MeanObliquity returns the IAU 1980 mean obliquity of the ecliptic at date
// (Lieske 1979), radians, T in Julian centuries TT since J2000.
func MeanObliquity(T float64) float64 {
	return (84381.448 + T*(-46.8150+T*(-0.00059+T*0.001813))) * arcsec2rad
}

// NutationAngles returns nutation in longitude and obliquity (radians), T in
// Julian centuries TT since J2000, using the reduced 30-term series.
func NutationAngles(T float64) (dpsiRad, depsRad float64) {
	l, lp, F, D, om := fundamentalArgs(T)
	var dpsi, deps float64
	for i := range nutationTerms {
		t := &nutationTerms[i]
		arg := float64(t.nl)*l + float64(t.nlp)*lp + float64(t.nf)*F +
			float64(t.nd)*D + float64(t.nom)*om
		sinArg, cosArg := math.Sincos(arg)
		dpsi += (t.s + t.sdot*T) * sinArg
		dpsi += t.cp * cosArg
		deps += (t.c + t.cdot*T) * cosArg
		deps += t.sp * sinArg
	}
	return dpsi * tenthUas2Rad, deps * tenthUas2Rad
}

// frameBias is the ICRS-to-J2000 bias matrix B (IERS Conventions 2003,
// ch.5): r_J2000 = B . r_ICRS.
var frameBias = func() linalg.Mat3 {
	xi0 := -0.0166170 * arcsec2rad
	eta0 := -0.0068192 * arcsec2rad
	da0 := -0.01460 * arcsec2rad

	yx, zx := -da0, xi0
	xy, zy := da0, eta0
	xz, yz := -xi0, -eta0

	xx := 1.0 - 0.5*(yx*yx+zx*zx)
	yy := 1.0 - 0.5*(yx*yx+zy*zy)
	zz := 1.0 - 0.5*(zy*zy+zx*zx)

	return linalg.Mat3{
		{xx, xy, xz},
		{yx, yy, yz},
		{zx, zy, zz},
	}
}()

// precessionMatrix returns the IAU 2006 precession matrix P (J2000 mean
// equator/equinox to mean equator/equinox of date), T in Julian centuries
// TT since J2000. P = Rz(-zA) . Ry(thetaA) . Rz(-zetaA).
func precessionMatrix(T float64) linalg.Mat3 {
	zetaA := (2.650545 + 2306.083227*T + 0.2988499*T*T +
		0.01801828*T*T*T - 0.000005971*T*T*T*T) * arcsec2rad
	zA := (-2.650545 + 2306.077181*T + 1.0927348*T*T +
		0.01826837*T*T*T - 0.000028596*T*T*T*T) * arcsec2rad
	thetaA := (2004.191903*T - 0.4294934*T*T -
		0.04182264*T*T*T - 0.000007089*T*T*T*T) * arcsec2rad

	return linalg.ROT3(-zA).Mul(linalg.ROT2(thetaA)).Mul(linalg.ROT3(-zetaA))
}

// nutationMatrix returns N, the nutation matrix (mean equator/equinox of
// date to true equator/equinox of date): N = R1(-epsT) . R3(dpsi) . R1(epsM).
func nutationMatrix(dpsiRad, depsRad, epsMRad float64) linalg.Mat3 {
	epsTRad := epsMRad + depsRad
	return linalg.ROT1(-epsTRad).Mul(linalg.ROT3(dpsiRad)).Mul(linalg.ROT1(epsMRad))
}

// npbMatrix returns Q = N(T) . P(T) . B, the full bias-precession-nutation
// matrix transforming a GCRS vector to the true equator and equinox of
// date, T in Julian centuries TT since J2000.
func npbMatrix(T float64) linalg.Mat3 {
	dpsi, deps := NutationAngles(T)
	epsM := MeanObliquity(T)
	N := nutationMatrix(dpsi, deps, epsM)
	P := precessionMatrix(T)
	return N.Mul(P).Mul(frameBias)
}

// NPBMatrix returns Q, the bias-precession-nutation matrix (GCRS to true
// equator and equinox of date) at jdTT. Exported for callers that need the
// full rotation rather than just the CIP coordinates CIPXY reads off it —
// the Sun's TETE-to-GCRF conversion (spec.md §4.13) is one such caller.
func NPBMatrix(jdTT float64) linalg.Mat3 {
	T := (jdTT - j2000JD) / 36525.0
	return npbMatrix(T)
}

// CIPXY returns the celestial intermediate pole coordinates X, Y (radians)
// at jdTT. These are read off the third row of the bias-precession-nutation
// matrix (ERFA's bpn2xy convention): the CIP is the GCRS direction cosine
// of the true-of-date pole, Q's bottom row transformed back into GCRS.
//
// This is the classical route rather than summing the IERS table 5.2a/b
// series directly (those ~1400-term tables are not reproduced here); the
// two routes agree by construction since X,Y are defined as the GCRS
// coordinates of the true celestial pole.
func CIPXY(jdTT float64) (x, y float64) {
	T := (jdTT - j2000JD) / 36525.0
	Q := npbMatrix(T)
	return Q[2][0], Q[2][1]
}

// CIOLocatorS returns the CIO locator s (radians), the quantity that
// locates the celestial intermediate origin on the equator of the CIP, given
// jdTT and the CIP coordinates x, y (as returned by CIPXY). Approximated by
// its leading polynomial term plus the closure term -x*y/2 (IERS
// Conventions 2010 eq. 5.13); the oscillating table-5.2d contribution is
// sub-microarcsecond and omitted.
func CIOLocatorS(jdTT, x, y float64) float64 {
	T := (jdTT - j2000JD) / 36525.0
	sPoly := (94.0 + T*(3808.65+T*(-122.68+T*(-72574.11+T*(27.98+T*15.62))))) * 1e-6 * arcsec2rad
	return sPoly - x*y/2.0
}

// CelestialToCIRSMatrix builds the GCRS-to-CIRS matrix from the CIP
// coordinates x, y and the CIO locator s (spec.md §4.7):
// ROT3(-(E+s)) . ROT2(d) . ROT3(E), E = atan2(y,x) (0 if x=y=0), d =
// atan(sqrt(a^2/(1-a^2))), a^2 = x^2+y^2.
func CelestialToCIRSMatrix(x, y, s float64) linalg.Mat3 {
	a2 := x*x + y*y
	var e float64
	if a2 > 0 {
		e = math.Atan2(y, x)
	}
	d := math.Atan(math.Sqrt(a2 / (1 - a2)))
	return linalg.ROT3(-(e + s)).Mul(linalg.ROT2(d)).Mul(linalg.ROT3(e))
}

// ERA2000 returns the Earth Rotation Angle (radians, normalized to [0, 2pi))
// for a UT1 Julian date carried as a double-double. The fractional part of
// Tu is split and re-summed separately from the integer part to avoid the
// catastrophic cancellation that a plain float64 Tu would suffer on modern
// dates (spec.md §4.8).
func ERA2000(jdUT1 dd.DoubleDouble) float64 {
	Tu := jdUT1.SubFloat64(j2000JD)
	_, fracHi := splitIntFrac(Tu.Hi())
	_, fracLo := splitIntFrac(Tu.Lo())
	f := fracHi + fracLo

	era := twoPi * normalizeFrac(f+0.7790572732640+0.00273781191135448*Tu.Float64())
	return era
}

func splitIntFrac(x float64) (intPart, frac float64) {
	intPart = math.Trunc(x)
	frac = x - intPart
	return
}

// normalizeFrac reduces x to [0,1).
func normalizeFrac(x float64) float64 {
	f := math.Mod(x, 1.0)
	if f < 0 {
		f += 1.0
	}
	return f
}

// SPrime returns the TIO locator s' (radians): arcsec2rad(-4.7e-5 * T), T in
// Julian centuries TT since J2000.
func SPrime(jdTT float64) float64 {
	T := (jdTT - j2000JD) / 36525.0
	return -4.7e-5 * T * arcsec2rad
}

// GMST82 returns Greenwich Mean Sidereal Time in radians for a UT1 Julian
// date, using the IAU 1982 formula (used by the equinox-based TEME/PEF
// transform).
func GMST82(jdUT1 float64) float64 {
	du := jdUT1 - j2000JD
	T := du / 36525.0
	gmstDeg := 280.46061837 + 360.98564736629*du +
		0.000387933*T*T - T*T*T/38710000.0
	gmstDeg = math.Mod(gmstDeg, 360.0)
	if gmstDeg < 0 {
		gmstDeg += 360.0
	}
	return gmstDeg * deg2rad
}
