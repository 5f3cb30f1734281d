package erot

import (
	"math"
	"testing"

	"github.com/rfernholz/skyframe/dd"
)

func TestCIPXYSmallAtJ2000(t *testing.T) {
	x, y := CIPXY(2451545.0)
	// At J2000 the CIP essentially coincides with the GCRS pole: X,Y are a
	// few arcseconds at most (frame bias + nutation at epoch).
	if math.Abs(x) > 1e-3 || math.Abs(y) > 1e-3 {
		t.Errorf("CIPXY(J2000) = (%v, %v), want both near zero", x, y)
	}
}

func TestCIOLocatorSSmall(t *testing.T) {
	x, y := CIPXY(2451545.0)
	s := CIOLocatorS(2451545.0, x, y)
	if math.Abs(s) > 1e-6 {
		t.Errorf("CIOLocatorS(J2000) = %v, want near zero", s)
	}
}

func TestCelestialToCIRSMatrixIsOrthogonal(t *testing.T) {
	x, y := CIPXY(2459000.5)
	s := CIOLocatorS(2459000.5, x, y)
	m := CelestialToCIRSMatrix(x, y, s)
	mt := m.Transpose()
	prod := m.Mul(mt)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod[i][j]-want) > 1e-9 {
				t.Errorf("m*m^T[%d][%d] = %v, want %v", i, j, prod[i][j], want)
			}
		}
	}
}

func TestERA2000MatchesPlainFormulaAtJ2000(t *testing.T) {
	jd := dd.From(2451545.0)
	era := ERA2000(jd)
	// At exactly J2000.0, Tu=0, so ERA = 2pi*frac(0.7790572732640).
	want := 2 * math.Pi * 0.7790572732640
	if math.Abs(era-want) > 1e-9 {
		t.Errorf("ERA2000(J2000) = %v, want %v", era, want)
	}
}

func TestERA2000Normalized(t *testing.T) {
	jd := dd.From(2459000.75)
	era := ERA2000(jd)
	if era < 0 || era >= 2*math.Pi {
		t.Errorf("ERA2000 = %v, not in [0, 2pi)", era)
	}
}

func TestERA2000AdvancesWithTime(t *testing.T) {
	era1 := ERA2000(dd.From(2459000.0))
	era2 := ERA2000(dd.From(2459001.0))
	// One UT1 day advances ERA by roughly 2pi * 1.00273781, i.e. about
	// 0.00273781*2pi beyond a full turn.
	diff := era2 - era1
	if diff < 0 {
		diff += 2 * math.Pi
	}
	want := 2 * math.Pi * 0.00273781191135448
	if math.Abs(diff-want) > 1e-6 {
		t.Errorf("ERA2000 one-day advance = %v, want %v", diff, want)
	}
}

func TestSPrimeZeroAtJ2000(t *testing.T) {
	if s := SPrime(2451545.0); s != 0 {
		t.Errorf("SPrime(J2000) = %v, want 0", s)
	}
}

func TestGMST82KnownRange(t *testing.T) {
	g := GMST82(2451545.0)
	if g < 0 || g >= 2*math.Pi {
		t.Errorf("GMST82 = %v, not in [0, 2pi)", g)
	}
}

func TestNutationAnglesSmall(t *testing.T) {
	dpsi, deps := NutationAngles(0.25)
	if math.Abs(dpsi) > 1e-3 || math.Abs(deps) > 1e-3 {
		t.Errorf("nutation angles too large: dpsi=%v deps=%v", dpsi, deps)
	}
}
