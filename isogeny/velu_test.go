package isogeny_test

import (
	"math/big"
	"testing"

	"isogeny.network/csidh/curve"
	"isogeny.network/csidh/field"
	"isogeny.network/csidh/internal/testutils"
	"isogeny.network/csidh/isogeny"
	"isogeny.network/csidh/point"
)

func toyModulus() *field.Modulus {
	return field.NewModulus(big.NewInt(1021019))
}

// findKernelOfOrder searches for a point whose order under the oracle's
// own ladder matches the target odd prime ell on the identity curve,
// using OrderNaive as ground truth (a supplemented feature, see
// SPEC_FULL.md §9).
func findKernelOfOrder(t *testing.T, c curve.Montgomery, p *big.Int, ell *big.Int) point.XPoint {
	t.Helper()
	m := c.A.Modulus()
	pPlus1 := new(big.Int).Add(p, big.NewInt(1))
	quotient := new(big.Int).Div(pPlus1, ell)

	for x := int64(2); x < 200000; x++ {
		xe := m.FromInt64(x)
		if c.RHS(xe).Legendre() != 1 {
			continue
		}
		base := point.Finite(xe)
		candidate := c.ScalarMultUnsigned(quotient, base)
		if candidate.Equal(point.Infinity(m)) {
			continue
		}
		if c.OrderNaive(candidate).Cmp(ell) == 0 {
			return candidate
		}
	}
	t.Fatalf("no order-%s point found", ell)
	return point.XPoint{}
}

// TestIsogenyKernelMapsToInfinity discharges testable property 6: pushing
// the kernel generator itself through its own isogeny yields the point
// at infinity on the image curve.
func TestIsogenyKernelMapsToInfinity(t *testing.T) {
	p := big.NewInt(1021019)
	m := field.NewModulus(p)
	c := curve.Identity(m)

	kernel := findKernelOfOrder(t, c, p, big.NewInt(3))

	result, err := isogeny.Compute(c, kernel, kernel, big.NewInt(3))
	if err != nil {
		t.Fatalf("isogeny.Compute: %v", err)
	}

	if !result.Image.Equal(point.Infinity(m)) {
		t.Errorf("expected the kernel generator to push to infinity, got %v", result.Image)
	}
}

// TestDegree3IsogenyChangesCurve discharges the "degree-3 Vélu sanity"
// scenario of spec.md §8: on the identity curve over the toy p, any
// 3-torsion kernel yields A' != 0.
func TestDegree3IsogenyChangesCurve(t *testing.T) {
	p := big.NewInt(1021019)
	m := field.NewModulus(p)
	c := curve.Identity(m)

	kernel := findKernelOfOrder(t, c, p, big.NewInt(3))

	result, err := isogeny.Compute(c, kernel, kernel, big.NewInt(3))
	if err != nil {
		t.Fatalf("isogeny.Compute: %v", err)
	}

	testutils.AssertBigIntNonZero(t, "image curve coefficient A'", result.Curve.A.Int())
}

func TestIsogenyRejectsEvenDegree(t *testing.T) {
	m := toyModulus()
	c := curve.Identity(m)
	p := point.Finite(m.FromInt64(7))

	_, err := isogeny.Compute(c, p, p, big.NewInt(4))
	if err == nil {
		t.Fatal("expected an error for an even degree")
	}
}

func TestIsogenyRejectsTooSmallDegree(t *testing.T) {
	m := toyModulus()
	c := curve.Identity(m)
	p := point.Finite(m.FromInt64(7))

	_, err := isogeny.Compute(c, p, p, big.NewInt(1))
	if err == nil {
		t.Fatal("expected an error for a degree below 3")
	}
}
