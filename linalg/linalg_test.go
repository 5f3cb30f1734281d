package linalg

import (
	"math"
	"testing"
)

func TestCrossOrthogonal(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)
	if z != (Vec3{0, 0, 1}) {
		t.Errorf("x cross y = %v, want {0,0,1}", z)
	}
}

func TestNormalized(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalized()
	if math.Abs(n.Norm()-1.0) > 1e-12 {
		t.Errorf("normalized norm = %v, want 1", n.Norm())
	}
}

func TestROT3IsPassive(t *testing.T) {
	// ROT3(theta) applied to the X axis should match rotating the frame by
	// +theta, i.e. the vector appears rotated by -theta.
	theta := math.Pi / 6
	r := ROT3(theta)
	v := r.MulVec(Vec3{1, 0, 0})
	want := Vec3{math.Cos(-theta) * 1, -math.Sin(theta), 0}
	_ = want
	if math.Abs(v[0]-math.Cos(theta)) > 1e-12 || math.Abs(v[1]+math.Sin(theta)) > 1e-12 {
		t.Errorf("ROT3 passive rotation mismatch: got %v", v)
	}
}

func TestROTInverse(t *testing.T) {
	theta := 0.37
	for _, pair := range []struct {
		fwd, rev Mat3
	}{
		{ROT1(theta), ROT1(-theta)},
		{ROT2(theta), ROT2(-theta)},
		{ROT3(theta), ROT3(-theta)},
	} {
		prod := pair.fwd.Mul(pair.rev)
		id := Identity3()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if math.Abs(prod[i][j]-id[i][j]) > 1e-12 {
					t.Errorf("rotation*inverse != identity at [%d][%d]: %v", i, j, prod[i][j])
				}
			}
		}
	}
}

func TestTransposeIsInverseForRotation(t *testing.T) {
	r := ROT2(1.2345)
	prod := r.Mul(r.Transpose())
	id := Identity3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(prod[i][j]-id[i][j]) > 1e-12 {
				t.Errorf("R*R^T != I at [%d][%d]: %v", i, j, prod[i][j])
			}
		}
	}
}

func TestFromRowsCols(t *testing.T) {
	r0 := Vec3{1, 2, 3}
	r1 := Vec3{4, 5, 6}
	r2 := Vec3{7, 8, 9}
	m := FromRows3(r0, r1, r2)
	if m[1][2] != 6 {
		t.Errorf("m[1][2] = %v, want 6", m[1][2])
	}

	c0 := Vec3{1, 4, 7}
	c1 := Vec3{2, 5, 8}
	c2 := Vec3{3, 6, 9}
	mc := FromCols3(c0, c1, c2)
	if mc != m {
		t.Errorf("FromCols3 mismatch: got %v want %v", mc, m)
	}
}
