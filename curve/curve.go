// Package curve implements x-only arithmetic on Montgomery curves
// B·y² = x³ + A·x² + x (with the CSIDH convention B = 1), per spec.md
// §4.3: differential addition, doubling, the constant-memory Montgomery
// ladder, and rejection sampling of a curve point. It also carries a
// full affine point representation used only by tests, to cross-check
// the x-only ladder against ordinary point addition (testable property
// 9) and to recover the point-compression capability
// original_source/elliptic_curves/fp_elliptic_curves.rs exposed that
// spec.md's distillation dropped (see SPEC_FULL.md §9).
package curve

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"isogeny.network/csidh/bigint"
	"isogeny.network/csidh/field"
	"isogeny.network/csidh/point"
)

// ErrIdentityKernel is the IDENTITY_KERNEL condition of spec.md §7:
// scalar multiplication yielded the point at infinity where a non-trivial
// generator was required. No function in this module returns it: the
// class-group-action drivers compare the ladder's output with the point
// at infinity directly and skip or resample on a match.
var ErrIdentityKernel = errors.New("curve: scalar multiplication yielded the point at infinity")

// Montgomery is a curve B·y² = x³ + A·x² + x with B = 1, identified by
// its single coefficient A, per spec.md §3.
type Montgomery struct {
	A field.Element
}

// New builds the Montgomery curve with coefficient a.
func New(a field.Element) Montgomery {
	return Montgomery{A: a}
}

// Identity is the A = 0 curve, the identity element of the class-group
// action.
func Identity(m *field.Modulus) Montgomery {
	return Montgomery{A: m.Zero()}
}

// IsSingular reports A = ±2, where y² = x³ + Ax² + x degenerates.
func (c Montgomery) IsSingular() bool {
	two := c.A.Modulus().FromInt64(2)
	return c.A.Equal(two) || c.A.Equal(two.Neg())
}

// IsIdentity reports whether this is the A = 0 curve.
func (c Montgomery) IsIdentity() bool {
	return c.A.IsZero()
}

// RHS evaluates the curve's right-hand side x³ + A·x² + x at x.
func (c Montgomery) RHS(x field.Element) field.Element {
	return x.Mul(x).Mul(x).Add(c.A.Mul(x).Mul(x)).Add(x)
}

// XDbl computes [2]P on the Kummer line, per spec.md §4.3:
//
//	q = (X+Z)², r = (X-Z)², s = q - r
//	(X' : Z') = (q·r : s·(r + s·(A+2)/4))
func (c Montgomery) XDbl(p point.XPoint) point.XPoint {
	m := c.A.Modulus()
	four := m.FromInt64(4)
	aPlus2Over4 := c.A.Add(m.FromInt64(2)).Div(four)

	q := p.X.Add(p.Z).Mul(p.X.Add(p.Z))
	r := p.X.Sub(p.Z).Mul(p.X.Sub(p.Z))
	s := q.Sub(r)

	return point.XPoint{
		X: q.Mul(r),
		Z: s.Mul(r.Add(s.Mul(aPlus2Over4))),
	}
}

// XAdd computes the differential addition P + Q given the known
// difference P - Q, per spec.md §4.3:
//
//	u = (Xp - Zp)·(Xq + Zq), v = (Xp + Zp)·(Xq - Zq)
//	(X : Z) = (Z{p-q}·(u+v)² : X{p-q}·(u-v)²)
func (c Montgomery) XAdd(p, q, pMinusQ point.XPoint) point.XPoint {
	u := p.X.Sub(p.Z).Mul(q.X.Add(q.Z))
	v := p.X.Add(p.Z).Mul(q.X.Sub(q.Z))

	upv := u.Add(v)
	umv := u.Sub(v)

	return point.XPoint{
		X: pMinusQ.Z.Mul(upv).Mul(upv),
		Z: pMinusQ.X.Mul(umv).Mul(umv),
	}
}

// ScalarMultUnsigned computes [n]P on the Kummer line by a standard
// Montgomery ladder with constant memory and a branch-free conditional
// swap, per spec.md §4.3: maintain (R0, R1) = ([k]P, [k+1]P) and at each
// scanned bit perform a conditional swap, one XAdd and one XDbl, then the
// same conditional swap again to restore the order. n < 0
// is treated as |n|; the unsigned representation absorbs the sign.
func (c Montgomery) ScalarMultUnsigned(n *big.Int, p point.XPoint) point.XPoint {
	m := c.A.Modulus()

	n = new(big.Int).Abs(n)
	if n.Sign() == 0 {
		return point.Infinity(m)
	}

	r0 := point.Infinity(m)
	r1 := p

	for i := n.BitLen() - 1; i >= 0; i-- {
		bit := m.FromInt64(int64(n.Bit(i)))

		r0, r1 = condSwap(bit, r0, r1)
		r0, r1 = c.XDbl(r0), c.XAdd(r0, r1, p)
		r0, r1 = condSwap(bit, r0, r1)
	}

	return r0
}

// condSwap conditionally swaps (r0, r1) when b = 1, computed arithmetically
// rather than with a data-dependent branch, per DESIGN NOTES §9's
// constant-time requirement on the ladder. It uses the standard
// single-multiplication swap: dummy = b*(r1-r0), r0' = r0+dummy,
// r1' = r1-dummy.
func condSwap(b field.Element, r0, r1 point.XPoint) (point.XPoint, point.XPoint) {
	dummyX := b.Mul(r1.X.Sub(r0.X))
	dummyZ := b.Mul(r1.Z.Sub(r0.Z))

	swapped0 := point.XPoint{X: r0.X.Add(dummyX), Z: r0.Z.Add(dummyZ)}
	swapped1 := point.XPoint{X: r1.X.Sub(dummyX), Z: r1.Z.Sub(dummyZ)}

	return swapped0, swapped1
}

// SamplePoint rejection-samples x ∈ Fp until x³+Ax²+x is a quadratic
// residue, then returns the projective point (x : 1), per spec.md §4.3.
// The sign of y is not retained. maxAttempts bounds the rejection loop,
// per DESIGN NOTES §9; 0 means "use the package default".
func (c Montgomery) SamplePoint(rand io.Reader, maxAttempts int) (point.XPoint, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	m := c.A.Modulus()
	p := m.Int()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		x, err := sampleField(rand, m, p)
		if err != nil {
			return point.XPoint{}, err
		}
		if c.RHS(x).Legendre() == 1 {
			return point.Finite(x), nil
		}
	}
	return point.XPoint{}, fmt.Errorf("curve: no quadratic residue found in %d attempts: %w", maxAttempts, ErrRetryBudgetExceeded)
}

// ErrRetryBudgetExceeded fires when a rejection loop exceeds its soft cap
// without succeeding, per DESIGN NOTES §9 ("bound the per-iteration retry
// count and surface a FATAL... to prevent silent live-lock").
var ErrRetryBudgetExceeded = errors.New("curve: rejection-sampling retry budget exceeded")

// DefaultMaxAttempts is the 2^20 soft cap DESIGN NOTES §9 recommends for
// rejection loops.
const DefaultMaxAttempts = 1 << 20

func sampleField(rand io.Reader, m *field.Modulus, p *big.Int) (field.Element, error) {
	n, err := bigint.SampleUniform(rand, big.NewInt(0), p)
	if err != nil {
		return field.Element{}, err
	}
	return m.Elem(n), nil
}
