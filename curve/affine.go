package curve

import (
	"io"
	"math/big"

	"isogeny.network/csidh/field"
	"isogeny.network/csidh/point"
)

// AffinePoint is a full (x, y) point on a Montgomery curve, used only by
// tests and by the supplemented point-compression API below. The
// class-group-action driver never needs full points, only x-only ones.
type AffinePoint struct {
	X, Y field.Element
}

// AddAffine adds two distinct affine points (x1 != x2) using the standard
// Montgomery-curve group law with B = 1:
//
//	λ = (y2-y1)/(x2-x1)
//	x3 = λ² - A - x1 - x2
//	y3 = λ·(x1-x3) - y1
func (c Montgomery) AddAffine(p1, p2 AffinePoint) AffinePoint {
	lambda := p2.Y.Sub(p1.Y).Div(p2.X.Sub(p1.X))
	x3 := lambda.Mul(lambda).Sub(c.A).Sub(p1.X).Sub(p2.X)
	y3 := lambda.Mul(p1.X.Sub(x3)).Sub(p1.Y)
	return AffinePoint{X: x3, Y: y3}
}

// DoubleAffine doubles an affine point using the Montgomery-curve
// doubling law with B = 1:
//
//	λ = (3x1²+2A·x1+1)/(2y1)
//	x3 = λ² - A - 2x1
//	y3 = λ·(x1-x3) - y1
func (c Montgomery) DoubleAffine(p AffinePoint) AffinePoint {
	m := c.A.Modulus()
	three := m.FromInt64(3)
	two := m.FromInt64(2)

	num := three.Mul(p.X).Mul(p.X).Add(two.Mul(c.A).Mul(p.X)).Add(m.One())
	den := two.Mul(p.Y)
	lambda := num.Div(den)

	x3 := lambda.Mul(lambda).Sub(c.A).Sub(two.Mul(p.X))
	y3 := lambda.Mul(p.X.Sub(x3)).Sub(p.Y)
	return AffinePoint{X: x3, Y: y3}
}

// MulAffine computes [n]P by repeated affine addition/doubling (the
// classical double-and-add, not the x-only ladder), used in curve_test.go
// as an independent reference implementation to discharge testable
// property 9 ("ladder correctness"): ScalarMultUnsigned's x-coordinate
// must agree with this for every n and P.
func (c Montgomery) MulAffine(n *big.Int, p AffinePoint) (AffinePoint, bool) {
	n = new(big.Int).Abs(n)

	if n.Sign() == 0 {
		return AffinePoint{}, true // point at infinity
	}

	result := AffinePoint{}
	resultIsInf := true
	addend := p

	for i := 0; i < n.BitLen(); i++ {
		if n.Bit(i) == 1 {
			if resultIsInf {
				result = addend
				resultIsInf = false
			} else if result.X.Equal(addend.X) && result.Y.Equal(addend.Y) {
				result = c.DoubleAffine(result)
			} else if result.X.Equal(addend.X) {
				resultIsInf = true
			} else {
				result = c.AddAffine(result, addend)
			}
		}
		if i != n.BitLen()-1 {
			addend = c.DoubleAffine(addend)
		}
	}

	return result, resultIsInf
}

// CompressedPoint is the (x, sign-of-y) representation of
// original_source/elliptic_curves/fp_elliptic_curves.rs's ProjFpPoint:
// a compressed full point, distinct from the x-only XPoint used by the
// class-group action. Infinite is true for the point at infinity, in
// which case X and YEven are meaningless.
type CompressedPoint struct {
	X        field.Element
	YEven    bool
	Infinite bool
}

// Compress drops the affine point down to (x, sign-of-y).
func Compress(p AffinePoint) CompressedPoint {
	return CompressedPoint{X: p.X, YEven: p.Y.Sign()}
}

// CompressInfinity is the compressed point at infinity.
func CompressInfinity() CompressedPoint {
	return CompressedPoint{Infinite: true}
}

// Decompress recovers a full affine point from its x-coordinate and the
// sign of y, by taking a square root of the curve's right-hand side at x.
func (c Montgomery) Decompress(cp CompressedPoint, rand io.Reader) (AffinePoint, bool) {
	if cp.Infinite {
		return AffinePoint{}, true
	}
	root := c.RHS(cp.X).Sqrt(rand)
	if root.Sign() != cp.YEven {
		root = root.Neg()
	}
	return AffinePoint{X: cp.X, Y: root}, false
}

// AddCompressed adds two compressed points by decompressing, adding in
// full affine coordinates, and recompressing: the supplemented
// point-addition capability described in SPEC_FULL.md §9. If either
// argument is the point at infinity, the other is returned unchanged. The
// two finite points must have distinct x-coordinates: AddAffine's chord
// formula divides by x2 - x1.
func (c Montgomery) AddCompressed(p1, p2 CompressedPoint, rand io.Reader) CompressedPoint {
	a1, inf1 := c.Decompress(p1, rand)
	a2, inf2 := c.Decompress(p2, rand)
	if inf1 {
		return p2
	}
	if inf2 {
		return p1
	}
	return Compress(c.AddAffine(a1, a2))
}

// OrderNaive computes the order of an x-only point by brute-force
// repeated doubling/addition until the point at infinity is reached,
// grounded on original_source/csidh.rs's order_naive. It is a
// supplemented feature (SPEC_FULL.md §9) spec.md's distillation drops;
// used by tests to discharge the isogeny-kernel property directly.
func (c Montgomery) OrderNaive(p point.XPoint) *big.Int {
	m := c.A.Modulus()

	if p.Equal(point.Infinity(m)) {
		return big.NewInt(1)
	}

	pNorm := p.Normalize()
	order := big.NewInt(2)

	t := c.XDbl(pNorm)
	tMinus1 := pNorm

	for !t.Equal(point.Infinity(m)) {
		order.Add(order, big.NewInt(1))

		next := c.XAdd(t, p, tMinus1)
		tMinus1 = t
		t = next
	}

	return order
}
