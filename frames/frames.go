// Package frames composes the Earth-rotation primitives in erot into the
// frame transform matrices spec.md §4.9 names: TEME<->PEF<->ITRF (the
// equinox-based chain SGP4 output needs) and GCRF<->ITRF (the IERS 2010
// CIO method). Every matrix is formed fresh from the primitives; nothing
// here is cached across calls.
package frames

import (
	"github.com/rfernholz/skyframe/dd"
	"github.com/rfernholz/skyframe/erot"
	"github.com/rfernholz/skyframe/linalg"
)

// earthRotationRate is omega, Earth's mean angular velocity (rad/s).
const earthRotationRate = 7.292115146706979e-5

var omega = linalg.Vec3{0, 0, earthRotationRate}

// TEMEToPEF returns the rotation matrix from TEME to the Pseudo Earth Fixed
// frame: ROT3(GMST82(ut1)).
func TEMEToPEF(jdUT1 float64) linalg.Mat3 {
	return linalg.ROT3(erot.GMST82(jdUT1))
}

// PEFToITRF returns the rotation matrix from PEF to ITRF given polar motion
// xp, yp (radians): ROT1(-yp) . ROT2(-xp).
func PEFToITRF(xpRad, ypRad float64) linalg.Mat3 {
	return linalg.ROT1(-ypRad).Mul(linalg.ROT2(-xpRad))
}

// TEMEToITRF returns the composed TEME->ITRF rotation matrix.
func TEMEToITRF(jdUT1, xpRad, ypRad float64) linalg.Mat3 {
	return PEFToITRF(xpRad, ypRad).Mul(TEMEToPEF(jdUT1))
}

// TEMEPositionToITRF converts a TEME position vector (any consistent length
// unit) to ITRF.
func TEMEPositionToITRF(rTEME linalg.Vec3, jdUT1, xpRad, ypRad float64) linalg.Vec3 {
	return TEMEToITRF(jdUT1, xpRad, ypRad).MulVec(rTEME)
}

// TEMEVelocityToITRF converts a TEME velocity vector to ITRF, applying the
// Earth-rotation cross-product correction in the PEF frame:
// v_itrf = R . v_teme - omega x r_pef, where R is TEME->ITRF and r_pef is
// the position rotated only through TEME->PEF.
func TEMEVelocityToITRF(rTEME, vTEME linalg.Vec3, jdUT1, xpRad, ypRad float64) linalg.Vec3 {
	toPEF := TEMEToPEF(jdUT1)
	toITRF := PEFToITRF(xpRad, ypRad)
	rPEF := toPEF.MulVec(rTEME)
	vITRF := toITRF.Mul(toPEF).MulVec(vTEME)
	return vITRF.Sub(omega.Cross(rPEF))
}

// ITRFVelocityToTEME is the inverse of TEMEVelocityToITRF.
func ITRFVelocityToTEME(rITRF, vITRF linalg.Vec3, jdUT1, xpRad, ypRad float64) linalg.Vec3 {
	toPEF := TEMEToPEF(jdUT1)
	toITRF := PEFToITRF(xpRad, ypRad)
	toTEME := toITRF.Mul(toPEF).Transpose()
	rPEF := toITRF.Transpose().MulVec(rITRF)
	vPEFPlusOmega := vITRF.Add(omega.Cross(rPEF))
	return toTEME.MulVec(vPEFPlusOmega)
}

// CIOTransform holds the three rotation stages of the IERS 2010 CIO method
// (spec.md §4.9), kept separate so velocity transforms can reuse Q and R
// without recomputing them.
type CIOTransform struct {
	Q linalg.Mat3 // GCRF -> CIRS
	R linalg.Mat3 // CIRS -> TIRS
	W linalg.Mat3 // TIRS -> ITRF
}

// NewCIOTransform builds the three CIO stages for a UT1 Julian date (given
// as a double-double for ERA2000's cancellation-safe evaluation), the
// corresponding TT Julian date (for CIP X,Y / s / s'), and polar motion.
func NewCIOTransform(jdUT1 dd.DoubleDouble, jdTT, xpRad, ypRad float64) CIOTransform {
	x, y := erot.CIPXY(jdTT)
	s := erot.CIOLocatorS(jdTT, x, y)
	sPrime := erot.SPrime(jdTT)

	Q := erot.CelestialToCIRSMatrix(x, y, s)
	R := linalg.ROT3(erot.ERA2000(jdUT1))
	W := linalg.ROT1(-ypRad).Mul(linalg.ROT2(-xpRad)).Mul(linalg.ROT3(sPrime))

	return CIOTransform{Q: Q, R: R, W: W}
}

// Matrix returns the composed GCRF->ITRF matrix W . R . Q.
func (c CIOTransform) Matrix() linalg.Mat3 {
	return c.W.Mul(c.R).Mul(c.Q)
}

// GCRFToITRF converts a GCRF position vector to ITRF.
func (c CIOTransform) GCRFToITRF(rGCRF linalg.Vec3) linalg.Vec3 {
	return c.Matrix().MulVec(rGCRF)
}

// ITRFToGCRF converts an ITRF position vector to GCRF.
func (c CIOTransform) ITRFToGCRF(rITRF linalg.Vec3) linalg.Vec3 {
	return c.Matrix().Transpose().MulVec(rITRF)
}

// GCRFVelocityToITRF converts a GCRF velocity vector to ITRF, applying the
// Earth-rotation correction in the TIRS frame:
// v_itrf = W^T . (R . Q . v_gcrf - omega x r_tirs), r_tirs = R . Q . r_gcrf.
func (c CIOTransform) GCRFVelocityToITRF(rGCRF, vGCRF linalg.Vec3) linalg.Vec3 {
	RQ := c.R.Mul(c.Q)
	rTIRS := RQ.MulVec(rGCRF)
	vTIRS := RQ.MulVec(vGCRF).Sub(omega.Cross(rTIRS))
	return c.W.Transpose().MulVec(vTIRS)
}

// ITRFVelocityToGCRF is the inverse of GCRFVelocityToITRF: the sign on the
// omega cross product flips since Earth-rotation correction runs the other
// direction.
func (c CIOTransform) ITRFVelocityToGCRF(rITRF, vITRF linalg.Vec3) linalg.Vec3 {
	rTIRS := c.W.Transpose().MulVec(rITRF)
	vTIRSPlusOmega := c.W.MulVec(vITRF).Add(omega.Cross(rTIRS))
	RQ := c.R.Mul(c.Q)
	return RQ.Transpose().MulVec(vTIRSPlusOmega)
}
