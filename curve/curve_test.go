package curve_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"isogeny.network/csidh/curve"
	"isogeny.network/csidh/field"
	"isogeny.network/csidh/point"
)

func toyModulus() *field.Modulus {
	return field.NewModulus(big.NewInt(1021019))
}

// findAffinePoint searches for a small x with a quadratic-residue RHS and
// returns the corresponding affine point, for use as ladder-correctness
// test fixtures.
func findAffinePoint(t *testing.T, c curve.Montgomery) curve.AffinePoint {
	t.Helper()
	m := c.A.Modulus()
	for x := int64(2); x < 10000; x++ {
		xe := m.FromInt64(x)
		rhs := c.RHS(xe)
		if rhs.Legendre() == 1 {
			y := rhs.Sqrt(rand.Reader)
			return curve.AffinePoint{X: xe, Y: y}
		}
	}
	t.Fatal("no quadratic-residue x found")
	return curve.AffinePoint{}
}

func TestScalarMultUnsignedZero(t *testing.T) {
	m := toyModulus()
	c := curve.Identity(m)
	p := point.Finite(m.FromInt64(7))

	result := c.ScalarMultUnsigned(big.NewInt(0), p)
	if !result.Equal(point.Infinity(m)) {
		t.Errorf("expected [0]P to be the point at infinity")
	}
}

func TestScalarMultUnsignedNegativeMatchesAbs(t *testing.T) {
	m := toyModulus()
	c := curve.Identity(m)
	p := point.Finite(m.FromInt64(7))

	pos := c.ScalarMultUnsigned(big.NewInt(5), p)
	neg := c.ScalarMultUnsigned(big.NewInt(-5), p)

	if !pos.Equal(neg) {
		t.Errorf("expected [5]P == [-5]P on the x-only ladder")
	}
}

// TestLadderMatchesAffineDoubling discharges testable property 9: the
// x-only ladder's output agrees with repeated affine point addition.
func TestLadderMatchesAffineDoubling(t *testing.T) {
	m := toyModulus()
	c := curve.Identity(m)
	affine := findAffinePoint(t, c)
	xp := point.Finite(affine.X)

	for _, n := range []int64{1, 2, 3, 4, 5, 7, 11, 100, 12345} {
		ladderResult := c.ScalarMultUnsigned(big.NewInt(n), xp).Normalize()
		affineResult, isInf := c.MulAffine(big.NewInt(n), affine)

		if isInf {
			if !ladderResult.Equal(point.Infinity(m)) {
				t.Errorf("n=%d: affine gave infinity, ladder gave %v", n, ladderResult)
			}
			continue
		}
		if !ladderResult.X.Equal(affineResult.X) {
			t.Errorf("n=%d: ladder x=%s, affine x=%s", n, ladderResult.X, affineResult.X)
		}
	}
}

func TestXDblMatchesDoubleAffine(t *testing.T) {
	m := toyModulus()
	c := curve.Identity(m)
	affine := findAffinePoint(t, c)

	doubled := c.XDbl(point.Finite(affine.X)).Normalize()
	affineDoubled := c.DoubleAffine(affine)

	if !doubled.X.Equal(affineDoubled.X) {
		t.Errorf("x_dbl mismatch: got %s, want %s", doubled.X, affineDoubled.X)
	}
}

func TestSamplePointSatisfiesCurveEquation(t *testing.T) {
	m := toyModulus()
	c := curve.Identity(m)

	p, err := c.SamplePoint(rand.Reader, 0)
	if err != nil {
		t.Fatalf("SamplePoint: %v", err)
	}
	if c.RHS(p.X).Legendre() != 1 {
		t.Errorf("sampled point's RHS is not a quadratic residue")
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	m := toyModulus()
	c := curve.Identity(m)
	affine := findAffinePoint(t, c)

	cp := curve.Compress(affine)
	decompressed, isInf := c.Decompress(cp, rand.Reader)
	if isInf {
		t.Fatal("expected a finite point")
	}
	if !decompressed.X.Equal(affine.X) || !decompressed.Y.Equal(affine.Y) {
		t.Errorf("compress/decompress round trip failed: got (%s,%s), want (%s,%s)",
			decompressed.X, decompressed.Y, affine.X, affine.Y)
	}
}

func TestOrderNaiveOfInfinityIsOne(t *testing.T) {
	m := toyModulus()
	c := curve.Identity(m)
	order := c.OrderNaive(point.Infinity(m))
	if order.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("order of infinity = %s, want 1", order)
	}
}

func TestIsSingularDetectsPlusMinusTwo(t *testing.T) {
	m := toyModulus()
	if !curve.New(m.FromInt64(2)).IsSingular() {
		t.Errorf("expected A=2 to be singular")
	}
	if !curve.New(m.FromInt64(-2)).IsSingular() {
		t.Errorf("expected A=-2 to be singular")
	}
	if curve.New(m.FromInt64(5)).IsSingular() {
		t.Errorf("expected A=5 to be non-singular")
	}
}
