// Package sgp4 implements the SGP4 near-Earth orbit propagator (Hoots &
// Roehrich 1980, as refined by Vallado et al. 2006) over a pre-parsed set
// of mean orbital elements. TLE text parsing is out of scope; callers
// supply a TLE struct already decoded from whatever source they use.
package sgp4

import (
	"errors"
	"math"

	"github.com/rfernholz/skyframe/dd"
	"github.com/rfernholz/skyframe/linalg"
)

// Errors returned by Propagate, matching the taxonomy spec.md §4.11 names.
var (
	ErrMeanElementsRange      = errors.New("sgp4: mean elements out of range")
	ErrMeanMotionRange        = errors.New("sgp4: mean motion out of range")
	ErrPerturbedElementsRange = errors.New("sgp4: perturbed elements out of range")
	ErrSemiLatusRectum        = errors.New("sgp4: semi-latus rectum is negative")
	ErrSuborbitalEpoch        = errors.New("sgp4: epoch elements describe a suborbital orbit")
	ErrSatelliteDecayed       = errors.New("sgp4: satellite has decayed")
)

// WGS84 gravitational constants used by this propagator (km^3/s^2, km).
const (
	muKm3S2       = 398600.5
	earthRadiusKm = 6378.137
	j2            = 1.082616e-3
	j3            = -2.53881e-6
	j4            = -1.65597e-6
	j3oj2         = j3 / j2

	minutesPerDay = 1440.0
	twoPi         = 2 * math.Pi
)

// xke is the reciprocal of the time unit in minutes such that mu=1,
// er=1 (Earth radii): xke = 60 / sqrt(er^3/mu) in the canonical unit
// system this propagator (like all SGP4 implementations) works in.
var xke = 60.0 / math.Sqrt(earthRadiusKm*earthRadiusKm*earthRadiusKm/muKm3S2)

// TLE carries the mean orbital elements SGP4 needs, already decoded from
// whatever TLE source text the caller has (spec.md explicitly excludes TLE
// parsing from this library's scope).
type TLE struct {
	EpochDays float64 // days since 1949-12-31 00:00 UTC (TLE epoch convention)
	BStar     float64 // drag term, 1/earth radii
	NDot      float64 // first derivative of mean motion, rad/min^2
	NDotDot   float64 // second derivative of mean motion, rad/min^3

	Eccentricity        float64
	ArgPerigeeRad       float64
	InclinationRad      float64
	MeanAnomalyRad      float64
	MeanMotionRadPerMin float64
	RAANRad             float64
}

// satrec holds the initialized state used by Propagate; separate from TLE
// so that re-deriving it per call (Init) is explicit and the derived state
// can be copied cheaply for thread-safe concurrent propagation.
type satrec struct {
	epochDays float64
	bstar     float64

	// Initial mean elements (radians, rad/min).
	inclo, nodeo, ecco, argpo, mo, no float64

	// Derived secular-rate and geometry constants, populated by Init.
	aycof, xlcof                 float64
	con41, x1mth2, x7thm1        float64
	cc1, cc4, cc5                float64
	d2, d3, d4                   float64
	delmo, sinmao                float64
	eta                          float64
	omgcof, xmcof                float64
	t2cof, t3cof, t4cof, t5cof   float64
	xnodcf                       float64
	isimp                        bool

	xnodot, omgdot, xmdot float64
	a                     float64 // semi-major axis, earth radii
}

// Init builds the secular-rate state from a TLE's mean elements (Vallado's
// sgp4init), returning an error matching the taxonomy if the initial
// elements are already out of the propagator's valid range.
func Init(t TLE) (*satrec, error) {
	sr := &satrec{
		epochDays: t.EpochDays,
		bstar:     t.BStar,
		inclo:     t.InclinationRad,
		nodeo:     t.RAANRad,
		ecco:      t.Eccentricity,
		argpo:     t.ArgPerigeeRad,
		mo:        t.MeanAnomalyRad,
		no:        t.MeanMotionRadPerMin,
	}

	if sr.ecco < 0 || sr.ecco >= 1.0 {
		return nil, ErrMeanElementsRange
	}
	if sr.no <= 0 {
		return nil, ErrMeanMotionRange
	}

	cosio := math.Cos(sr.inclo)
	x2o3 := 2.0 / 3.0

	// Un-Kozai the mean motion and semi-major axis from the TLE's
	// mean-motion convention (Brouwer mean element recovery).
	ak := math.Pow(xke/sr.no, x2o3)
	d1 := 0.75 * j2 * (3*cosio*cosio - 1) / math.Pow(1-sr.ecco*sr.ecco, 1.5)
	delPrime := d1 / (ak * ak)
	adel := ak * (1 - delPrime*delPrime - delPrime*(1.0/3.0+134.0*delPrime*delPrime/81.0))
	delPrime = d1 / (adel * adel)
	sr.no = sr.no / (1 + delPrime)
	ao := math.Pow(xke/sr.no, x2o3)

	sinio := math.Sin(sr.inclo)
	posq := ao * ao * (1 - sr.ecco*sr.ecco) * (1 - sr.ecco*sr.ecco)
	if posq <= 0 {
		return nil, ErrSemiLatusRectum
	}

	rp := ao * (1 - sr.ecco)
	if rp < 1.0 {
		return nil, ErrSuborbitalEpoch
	}

	sr.a = ao
	sr.con41 = 3*cosio*cosio - 1
	sr.x1mth2 = 1 - cosio*cosio
	sr.x7thm1 = 7*cosio*cosio - 1

	theta2 := cosio * cosio
	betao2 := 1 - sr.ecco*sr.ecco
	betao := math.Sqrt(betao2)

	pinvsq := 1.0 / posq
	temp1 := 1.5 * j2 * pinvsq * sr.no
	temp2 := 0.5 * temp1 * j2 * pinvsq
	temp3 := -0.46875 * j2 * j2 * pinvsq * pinvsq * sr.no

	sr.omgdot = temp1*(0.5*(5*theta2-1)) + temp2*(7-114*theta2+395*theta2*theta2)/144.0 + temp3*(3-36*theta2+49*theta2*theta2)/4.0
	xhdot1 := -temp1 * cosio
	sr.xnodot = xhdot1 + (0.5*temp2*(4-19*theta2)+2*temp3*(3-7*theta2))*cosio
	sr.xmdot = sr.no + 0.5*temp1*betao*sr.con41 + 0.0625*temp2*betao*(13-78*theta2+137*theta2*theta2)

	// Drag terms (CC1..CC5, t2cof..t5cof) — near-Earth branch only; isimp
	// is set for perigee altitudes below 220 km, which drops the d2..d4 and
	// t3cof..t5cof terms. The deep space resonance branch is out of scope
	// (see DESIGN.md).
	s4 := 1.01222928 // s parameter for standard atmosphere, earth radii
	qoms2t := 1.88027916e-9
	perige := (rp - 1) * earthRadiusKm
	if perige < 156.0 {
		s4 = perige - 78.0
		if perige < 98.0 {
			s4 = 20.0
		}
		s4 = s4/earthRadiusKm + 1.0
		qoms2t = math.Pow((120.0-s4*earthRadiusKm)/earthRadiusKm, 4)
	}

	pinvsq = 1.0 / posq
	tsi := 1.0 / (ao - s4)
	sr.eta = ao * sr.ecco * tsi
	etasq := sr.eta * sr.eta
	eeta := sr.ecco * sr.eta
	psisq := math.Abs(1 - etasq)
	coef := qoms2t * math.Pow(tsi, 4)
	coef1 := coef / math.Pow(psisq, 3.5)

	c2 := coef1 * sr.no * (ao*(1+1.5*etasq+eeta*(4+etasq)) + 0.375*j2*tsi/psisq*sr.con41*(8+3*etasq*(8+etasq)))
	sr.cc1 = sr.bstar * c2
	sr.cc4 = 2 * sr.no * coef1 * ao * betao2 * (sr.eta*(2+0.5*etasq) + sr.ecco*(0.5+2*etasq) -
		j2*tsi/(ao*psisq)*(-3*sr.con41*(1-2*eeta+etasq*(1.5-0.5*eeta))+0.75*sr.x1mth2*(2*etasq-eeta*(1+etasq))*math.Cos(2*sr.argpo)))
	sr.cc5 = 2 * coef1 * ao * betao2 * (1 + 2.75*(etasq+eeta) + eeta*etasq)

	sr.isimp = rp < (220.0/earthRadiusKm + 1.0)

	temp := 1.5 * j2 * pinvsq * sr.no
	sr.xnodcf = 3.5 * betao2 * temp * cosio

	sr.omgcof = sr.bstar * sr.cc5 * math.Cos(sr.argpo)
	sr.xmcof = 0
	if sr.ecco > 1e-4 {
		sr.xmcof = -x2o3 * coef * sr.bstar / eeta
	}

	sr.delmo = math.Pow(1+sr.eta*math.Cos(sr.mo), 3)
	sr.sinmao = math.Sin(sr.mo)
	sr.aycof = 0.25 * j3oj2 * sinio

	sr.t2cof = 1.5 * sr.cc1
	if math.Abs(cosio+1) > 1.5e-12 {
		sr.xlcof = 0.125 * j3oj2 * sinio * (3 + 5*cosio) / (1 + cosio)
	} else {
		sr.xlcof = 0.125 * j3oj2 * sinio * (3 + 5*cosio) / 1.5e-12
	}

	if !sr.isimp {
		c1sq := sr.cc1 * sr.cc1
		sr.d2 = 4 * ao * tsi * c1sq
		temp := sr.d2 * tsi * sr.cc1 / 3.0
		sr.d3 = (17*ao + s4) * temp
		sr.d4 = 0.5 * temp * ao * tsi * (221*ao + 31*s4) * sr.cc1 / 3.0
		sr.t3cof = sr.d2 + 2*c1sq
		sr.t4cof = 0.25 * (3*sr.d3 + sr.cc1*(12*sr.d2+10*c1sq))
		sr.t5cof = 0.2 * (3*sr.d4 + 12*sr.cc1*sr.d3 + 6*sr.d2*sr.d2 + 15*c1sq*(2*sr.d2+c1sq))
	}

	return sr, nil
}

// TEME is a position/velocity state in the TEME (True Equator, Mean
// Equinox) frame, the native output frame of SGP4: meters and meters/second.
type TEME struct {
	T    dd.DoubleDouble
	R, V linalg.Vec3
}

// Propagate advances a copy of sr's state (concurrency-safe: no shared
// mutable state) to jdUTC and returns the TEME position/velocity, or an
// error from the taxonomy if the elements become invalid at that epoch.
func (sr *satrec) Propagate(jdUTC dd.DoubleDouble, jdEpochUTC dd.DoubleDouble) (TEME, error) {
	tsince := jdUTC.Sub(jdEpochUTC).Float64() * minutesPerDay

	s := *sr // copy: propagation never mutates the initialized state

	xmdf := s.mo + s.xmdot*tsince
	argpdf := s.argpo + s.omgdot*tsince
	nodedf := s.nodeo + s.xnodot*tsince
	argp := argpdf
	mp := xmdf
	t2 := tsince * tsince
	node := nodedf + s.xnodcf*t2
	tempa := 1 - s.cc1*tsince
	tempe := s.bstar * s.cc4 * tsince
	templ := s.t2cof * t2

	if !s.isimp {
		delomg := s.omgcof * tsince
		delmtemp := 1 + s.eta*math.Cos(xmdf)
		delm := s.xmcof * (delmtemp*delmtemp*delmtemp - s.delmo)
		temp := delomg + delm
		mp = xmdf + temp
		argp = argpdf - temp
		t3 := t2 * tsince
		t4 := t3 * tsince
		tempa = tempa - s.d2*t2 - s.d3*t3 - s.d4*t4
		tempe = tempe + s.bstar*s.cc5*(math.Sin(mp)-s.sinmao)
		templ = templ + s.t3cof*t3 + t4*(s.t4cof+tsince*s.t5cof)
	}

	a := s.a * tempa * tempa
	e := s.ecco - tempe
	if e >= 1.0 || e < -0.001 {
		return TEME{}, ErrPerturbedElementsRange
	}
	if e < 1e-6 {
		e = 1e-6
	}
	xl := mp + argp + node + s.no*templ

	xn := xke / math.Pow(a, 1.5)

	// Long-period periodics.
	axn := e * math.Cos(argp)
	temp := 1.0 / (a * (1 - e*e))
	xlcof := s.xlcof
	aycof := s.aycof
	xll := temp * xlcof * axn
	aynl := temp * aycof
	xlt := xl + xll
	ayn := e*math.Sin(argp) + aynl

	// Solve Kepler's equation for (E+omega) via Newton-Raphson.
	u := math.Mod(xlt-node, twoPi)
	eo1 := u
	for i := 0; i < 10; i++ {
		sineo1, coseo1 := math.Sincos(eo1)
		tem5 := 1 - coseo1*axn - sineo1*ayn
		if tem5 == 0 {
			break
		}
		tem5 = (u - ayn*coseo1 + axn*sineo1 - eo1) / tem5
		delta := tem5
		if delta > 0.95 {
			delta = 0.95
		} else if delta < -0.95 {
			delta = -0.95
		}
		eo1 += delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}

	sineo1, coseo1 := math.Sincos(eo1)
	ecose := axn*coseo1 + ayn*sineo1
	esine := axn*sineo1 - ayn*coseo1
	el2 := axn*axn + ayn*ayn
	pl := a * (1 - el2)
	if pl < 0 {
		return TEME{}, ErrSemiLatusRectum
	}

	rr := a * (1 - ecose)
	rdot := xke * math.Sqrt(a) * esine / rr
	rfdot := xke * math.Sqrt(pl) / rr
	betal := math.Sqrt(1 - el2)
	temp = esine / (1 + betal)
	cosu := a / rr * (coseo1 - axn + ayn*temp)
	sinu := a / rr * (sineo1 - ayn - axn*temp)
	u = math.Atan2(sinu, cosu)
	sin2u := 2 * sinu * cosu
	cos2u := 1 - 2*sinu*sinu

	// Short period periodics.
	temp = 1.0 / pl
	temp1 := 0.5 * j2 * temp
	temp2 := temp1 * temp

	rk := rr*(1-1.5*temp2*betal*s.con41) + 0.5*temp1*s.x1mth2*cos2u
	uk := u - 0.25*temp2*s.x7thm1*sin2u
	nodek := node + 1.5*temp2*math.Cos(s.inclo)*sin2u
	xinck := s.inclo + 1.5*temp2*math.Cos(s.inclo)*math.Sin(s.inclo)*cos2u
	rdotk := rdot - xn*temp1*s.x1mth2*sin2u
	rfdotk := rfdot + xn*temp1*(s.x1mth2*cos2u+1.5*s.con41)

	if rk < 1.0 {
		return TEME{}, ErrSatelliteDecayed
	}

	sinuk, cosuk := math.Sincos(uk)
	sinik, cosik := math.Sincos(xinck)
	sinnodek, cosnodek := math.Sincos(nodek)

	xmx := -sinnodek * cosik
	xmy := cosnodek * cosik
	ux := xmx*sinuk + cosnodek*cosuk
	uy := xmy*sinuk + sinnodek*cosuk
	uz := sinik * sinuk
	vx := xmx*cosuk - cosnodek*sinuk
	vy := xmy*cosuk - sinnodek*sinuk
	vz := sinik * cosuk

	rEarthKm := earthRadiusKm
	r := linalg.Vec3{rk * ux * rEarthKm, rk * uy * rEarthKm, rk * uz * rEarthKm}
	v := linalg.Vec3{
		(rdotk*ux + rfdotk*vx) * rEarthKm / 60.0,
		(rdotk*uy + rfdotk*vy) * rEarthKm / 60.0,
		(rdotk*uz + rfdotk*vz) * rEarthKm / 60.0,
	}

	return TEME{
		T: jdUTC,
		R: r.Scale(1000), // km -> m
		V: v.Scale(1000), // km/s -> m/s
	}, nil
}
