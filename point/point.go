// Package point implements the projective x-only point representation
// (X : Z) of spec.md §3/§4.3: the Kummer-line encoding CSIDH's x-only
// arithmetic is built on, with a single sentinel for the point at
// infinity rather than a tagged union, per DESIGN NOTES §9.
package point

import "isogeny.network/csidh/field"

// XPoint is a projective x-coordinate (X : Z). The point at infinity is
// any pair with Z = 0; Infinity returns the canonical form (1, 0).
type XPoint struct {
	X field.Element
	Z field.Element
}

// Finite builds the x-only point (x : 1) for an affine x-coordinate.
func Finite(x field.Element) XPoint {
	return XPoint{X: x, Z: x.Modulus().One()}
}

// Infinity returns the canonical point-at-infinity (1 : 0) over m.
func Infinity(m *field.Modulus) XPoint {
	return XPoint{X: m.One(), Z: m.Zero()}
}

// IsInfinity reports whether p has Z = 0.
func (p XPoint) IsInfinity() bool {
	return p.Z.IsZero()
}

// Equal compares two x-only points by cross-multiplication,
// X1·Z2 = X2·Z1, which collapses correctly to equality-at-infinity when
// both Z coordinates are zero, per spec.md §3.
func (p XPoint) Equal(q XPoint) bool {
	return p.X.Mul(q.Z).Equal(q.X.Mul(p.Z))
}

// Normalize replaces (X, Z) by (X/Z, 1) when Z != 0, leaving points at
// infinity unchanged (there is nothing to normalize to).
func (p XPoint) Normalize() XPoint {
	if p.IsInfinity() {
		return p
	}
	return Finite(p.X.Div(p.Z))
}
