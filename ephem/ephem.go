// Package ephem implements low-precision Sun and Moon position formulas:
// the Sun via the USNO approximate algorithm, the Moon via Meeus chapter 47.
// Both return GCRF Cartesian vectors in meters.
package ephem

import (
	"math"

	"github.com/rfernholz/skyframe/erot"
	"github.com/rfernholz/skyframe/linalg"
)

const (
	deg2rad    = math.Pi / 180.0
	arcsec2rad = deg2rad / 3600.0
	auMeters   = 149597870700.0
	j2000JD    = 2451545.0
)

// SunPosition returns the Sun's GCRF position (meters) at jdTT, using the
// USNO low-precision formula (good to about 0.01 degree through 2100). The
// apparent ecliptic longitude is first turned into a true-equator-of-date
// (TETE) direction using this formula's own simple linear obliquity, then
// rotated into GCRF via the IAU 2006/2000A bias-precession-nutation matrix.
func SunPosition(jdTT float64) linalg.Vec3 {
	d := jdTT - j2000JD

	g := deg2rad * math.Mod(357.529+0.98560028*d, 360.0)
	q := math.Mod(280.459+0.98564736*d, 360.0)
	lambdaDeg := q + 1.915*math.Sin(g) + 0.02*math.Sin(2*g)
	lambda := lambdaDeg * deg2rad
	r := 1.00014 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g) // AU
	eps := (23.439 - 3.6e-7*d) * deg2rad

	sinLam, cosLam := math.Sincos(lambda)
	sinEps, cosEps := math.Sincos(eps)

	ra := math.Atan2(cosEps*sinLam, cosLam)
	dec := math.Asin(sinEps * sinLam)

	sinDec, cosDec := math.Sincos(dec)
	sinRA, cosRA := math.Sincos(ra)
	rMeters := r * auMeters

	tete := linalg.Vec3{
		rMeters * cosDec * cosRA,
		rMeters * cosDec * sinRA,
		rMeters * sinDec,
	}

	Q := erot.NPBMatrix(jdTT)
	return Q.Transpose().MulVec(tete)
}

// lrTerm is one row of Meeus table 47.A: the periodic terms for the Moon's
// longitude (l, units of 1e-6 degree) and distance (r, meters — the raw
// table unit of 0.001 km is exactly 1 m).
type lrTerm struct {
	d, m, mp, f int
	l, r        float64
}

// bTerm is one row of Meeus table 47.B: the periodic terms for the Moon's
// ecliptic latitude (b, units of 1e-6 degree).
type bTerm struct {
	d, m, mp, f int
	b           float64
}

var tableLR = []lrTerm{
	{0, 0, 1, 0, 6288774, -20905355},
	{2, 0, -1, 0, 1274027, -3699111},
	{2, 0, 0, 0, 658314, -2955968},
	{0, 0, 2, 0, 213618, -569925},
	{0, 1, 0, 0, -185116, 48888},
	{0, 0, 0, 2, -114332, -3149},
	{2, 0, -2, 0, 58793, 246158},
	{2, -1, -1, 0, 57066, -152138},
	{2, 0, 1, 0, 53322, -170733},
	{2, -1, 0, 0, 45758, -204586},
	{0, 1, -1, 0, -40923, -129620},
	{1, 0, 0, 0, -34720, 108743},
	{0, 1, 1, 0, -30383, 104755},
	{2, 0, 0, -2, 15327, 10321},
	{0, 0, 1, 2, -12528, 0},
	{0, 0, 1, -2, 10980, 79661},
	{4, 0, -1, 0, 10675, -34782},
	{0, 0, 3, 0, 10034, -23210},
	{4, 0, -2, 0, 8548, -21636},
	{2, 1, -1, 0, -7888, 24208},
	{2, 1, 0, 0, -6766, 30824},
	{1, 0, -1, 0, -5163, -8379},
	{1, 1, 0, 0, 4987, -16675},
	{2, -1, 1, 0, 4036, -12831},
	{2, 0, 2, 0, 3994, -10445},
	{4, 0, 0, 0, 3861, -11650},
	{2, 0, -3, 0, 3665, 14403},
	{0, 1, -2, 0, -2689, -7003},
	{2, 0, -1, 2, -2602, 0},
	{2, -1, -2, 0, 2390, 10056},
	{1, 0, 1, 0, -2348, 6322},
	{2, -2, 0, 0, 2236, -9884},
	{0, 1, 2, 0, -2120, 5751},
	{0, 2, 0, 0, -2069, 0},
	{2, -2, -1, 0, 2048, -4950},
	{2, 0, 1, -2, -1773, 4130},
	{2, 0, 0, 2, -1595, 0},
	{4, -1, -1, 0, 1215, -3958},
	{0, 0, 2, 2, -1110, 0},
	{3, 0, -1, 0, -892, 3258},
	{2, 1, 1, 0, -810, 2616},
	{4, -1, -2, 0, 759, -1897},
	{0, 2, -1, 0, -713, -2117},
	{2, 2, -1, 0, -700, 2354},
	{2, 1, -2, 0, 691, 0},
	{2, -1, 0, -2, 596, 0},
	{4, 0, 1, 0, 549, -1423},
	{0, 0, 4, 0, 537, -1117},
	{4, -1, 0, 0, 520, -1571},
	{1, 0, -2, 0, -487, -1739},
	{2, 1, 0, -2, -399, 0},
	{0, 0, 2, -2, -381, -4421},
	{1, 1, 1, 0, 351, 0},
	{3, 0, -2, 0, -340, 0},
	{4, 0, -3, 0, 330, 0},
	{2, -1, 2, 0, 327, 0},
	{0, 2, 1, 0, -323, 1165},
	{1, 1, -1, 0, 299, 0},
	{2, 0, 3, 0, 294, 0},
	{2, 0, -1, -2, 0, 8752},
}

var tableB = []bTerm{
	{0, 0, 0, 1, 5128122},
	{0, 0, 1, 1, 280602},
	{0, 0, 1, -1, 277693},
	{2, 0, 0, -1, 173237},
	{2, 0, -1, 1, 55413},
	{2, 0, -1, -1, 46271},
	{2, 0, 0, 1, 32573},
	{0, 0, 2, 1, 17198},
	{2, 0, 1, -1, 9266},
	{0, 0, 2, -1, 8822},
	{2, -1, 0, -1, 8216},
	{2, 0, -2, -1, 4324},
	{2, 0, 1, 1, 4200},
	{2, 1, 0, -1, -3359},
	{2, -1, -1, 1, 2463},
	{2, -1, 0, 1, 2211},
	{2, -1, -1, -1, 2065},
	{0, 1, -1, -1, -1870},
	{4, 0, -1, -1, 1828},
	{0, 1, 0, 1, -1794},
	{0, 0, 0, 3, -1749},
	{0, 1, -1, 1, -1565},
	{1, 0, 0, 1, -1491},
	{0, 1, 1, 1, -1475},
	{0, 1, 1, -1, -1410},
	{0, 1, 0, -1, -1344},
	{1, 0, 0, -1, -1335},
	{0, 0, 3, 1, 1107},
	{4, 0, 0, -1, 1021},
	{4, 0, -1, 1, 833},
	{0, 0, 1, -3, 777},
	{4, 0, -2, 1, 671},
	{2, 0, 0, -3, 607},
	{2, 0, 2, -1, 596},
	{2, -1, 1, -1, 491},
	{2, 0, -2, 1, -451},
	{0, 0, 3, -1, 439},
	{2, 0, 2, 1, 422},
	{2, 0, -3, -1, 421},
	{2, 1, -1, 1, -366},
	{2, 1, 0, 1, -351},
	{4, 0, 0, 1, 331},
	{2, -1, 1, 1, 315},
	{2, -2, 0, -1, 302},
	{0, 0, 1, 3, -283},
	{2, 1, 1, -1, -229},
	{1, 1, 0, -1, 223},
	{1, 1, 0, 1, 223},
	{0, 1, -2, -1, -220},
	{2, 1, -1, -1, -220},
	{1, 0, 1, 1, -185},
	{2, -1, -2, -1, 181},
	{0, 1, 2, 1, -177},
	{4, 0, -2, -1, 176},
	{4, -1, -1, -1, 166},
	{1, 0, 1, -1, -164},
	{4, 0, 1, -1, 132},
	{1, 0, -1, -1, -119},
	{4, -1, 0, -1, 115},
	{2, -2, 0, 1, 107},
}

// eFactor applies the eccentricity correction E (or E^2) that every term
// whose argument involves the Sun's mean anomaly once (or twice) needs,
// per Meeus's table 47.A/B note.
func eFactor(mCoeff int, E float64) float64 {
	switch mCoeff {
	case 1, -1:
		return E
	case 2, -2:
		return E * E
	default:
		return 1.0
	}
}

// MoonPosition returns the Moon's GCRF position (meters) at jdTT, using the
// Meeus chapter 47 series (tables 47.A/B) for ecliptic-of-date longitude,
// latitude and distance, converted to GCRF via the IAU 2006 Fukushima-
// Williams precession angles (Vallado eq. 3-74).
func MoonPosition(jdTT float64) linalg.Vec3 {
	T := (jdTT - j2000JD) / 36525.0

	lp := math.Mod(218.3164477+T*(481267.88123421+T*(-0.0015786+T*(1.0/538841.0+T*(-1.0/65194000.0)))), 360.0)
	d := math.Mod(297.8501921+T*(445267.1114034+T*(-0.0018819+T*(1.0/545868.0+T*(-1.0/113065000.0)))), 360.0)
	m := math.Mod(357.5291092+T*(35999.0502909+T*(-0.0001536+T*(1.0/24490000.0))), 360.0)
	mp := math.Mod(134.9633964+T*(477198.8675055+T*(0.0087414+T*(1.0/69699.0+T*(-1.0/14712000.0)))), 360.0)
	f := math.Mod(93.2720950+T*(483202.0175233+T*(-0.0036539+T*(-1.0/3526000.0+T*(1.0/863310000.0)))), 360.0)

	a1 := math.Mod(119.75+131.849*T, 360.0)
	a2 := math.Mod(53.09+479264.290*T, 360.0)
	a3 := math.Mod(313.45+481266.484*T, 360.0)

	E := 1 - 0.002516*T - 0.0000074*T*T

	dRad, mRad, mpRad, fRad := d*deg2rad, m*deg2rad, mp*deg2rad, f*deg2rad
	lpRad := lp * deg2rad
	a1Rad, a2Rad, a3Rad := a1*deg2rad, a2*deg2rad, a3*deg2rad

	var sigmaL, sigmaR float64
	for _, term := range tableLR {
		arg := float64(term.d)*dRad + float64(term.m)*mRad + float64(term.mp)*mpRad + float64(term.f)*fRad
		e := eFactor(term.m, E)
		sigmaL += term.l * e * math.Sin(arg)
		sigmaR += term.r * e * math.Cos(arg)
	}

	var sigmaB float64
	for _, term := range tableB {
		arg := float64(term.d)*dRad + float64(term.m)*mRad + float64(term.mp)*mpRad + float64(term.f)*fRad
		e := eFactor(term.m, E)
		sigmaB += term.b * e * math.Sin(arg)
	}

	sigmaL += 3958*math.Sin(a1Rad) + 1962*math.Sin(lpRad-fRad) + 318*math.Sin(a2Rad)
	sigmaB += -2235*math.Sin(lpRad) + 382*math.Sin(a3Rad) + 175*math.Sin(a1Rad-fRad) +
		175*math.Sin(a1Rad+fRad) + 127*math.Sin(lpRad-mpRad) - 115*math.Sin(lpRad+mpRad)

	lambda := (lp + sigmaL*1e-6) * deg2rad
	beta := (sigmaB * 1e-6) * deg2rad
	distMeters := 385000560.0 + sigmaR

	sinLam, cosLam := math.Sincos(lambda)
	sinBeta, cosBeta := math.Sincos(beta)

	eclOfDate := linalg.Vec3{
		distMeters * cosBeta * cosLam,
		distMeters * cosBeta * sinLam,
		distMeters * sinBeta,
	}

	return fukushimaWilliamsMatrix(T).MulVec(eclOfDate)
}

// fukushimaWilliamsMatrix returns ROT3(-gammaBar).ROT1(-phiBar).ROT3(psiBar),
// the IAU 2006 Fukushima-Williams rotation from the mean ecliptic and
// equinox of date to GCRF (Vallado eq. 3-74), T in Julian centuries TT
// since J2000.
func fukushimaWilliamsMatrix(T float64) linalg.Mat3 {
	gammaBar := (-0.052928 + T*(10.556378+T*(0.4932044+T*(-0.00031238+T*(-0.000002788+T*0.0000000260))))) * arcsec2rad
	phiBar := (84381.412819 + T*(-46.811016+T*(0.0511268+T*(0.00053289+T*(-0.000000440+T*(-0.0000000176)))))) * arcsec2rad
	psiBar := (-0.041775 + T*(5038.481484+T*(1.5584175+T*(-0.00018522+T*(-0.000026452+T*(-0.0000000148)))))) * arcsec2rad

	return linalg.ROT3(-gammaBar).Mul(linalg.ROT1(-phiBar)).Mul(linalg.ROT3(psiBar))
}
