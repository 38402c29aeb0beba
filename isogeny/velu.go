// Package isogeny implements the degree-ℓ Vélu isogeny on the Kummer
// line, spec.md §4.5, grounded directly on original_source/csidh.rs's
// isogeny function: given a Montgomery curve, an odd-prime-order kernel
// generator, and a point to push through, it produces the codomain curve
// coefficient A' and the image of the pushed point in one pass.
package isogeny

import (
	"errors"
	"fmt"
	"math/big"

	"isogeny.network/csidh/curve"
	"isogeny.network/csidh/point"
)

// ErrKernelDegenerate is the KERNEL_DEGENERATE condition of spec.md §7:
// an iterate in the Vélu accumulation has X = 0, i.e. is a 2-torsion
// point, which is incompatible with an odd-degree kernel. Callers retry
// with a fresh sample.
var ErrKernelDegenerate = errors.New("isogeny: kernel iteration hit a 2-torsion point")

// Result is the image curve and the image of the pushed point produced
// by Compute.
type Result struct {
	Curve curve.Montgomery
	Image point.XPoint
}

// Compute applies the degree-ℓ Vélu formulas of spec.md §4.5 to curve c,
// with kernel generator p of odd prime order ell >= 3, pushing point q.
//
// It iterates t = P, [2]P, ..., [(ℓ-1)/2]P (x_dbl for the first step,
// x_add thereafter, tracking t_minus_1 starting at the point at infinity
// as original_source/csidh.rs does), accumulating:
//
//	π      *= (Xt : Zt)        (coordinate-wise, squared at the end)
//	σ      += Xt/Zt - Zt/Xt
//	proj_num *= Xt·Xq - Zt
//	proj_den *= Xq·Zt - Xt
//
// then squares π and the projection coordinates, doubles σ, normalizes
// π, and returns:
//
//	A' = π·(A - 3σ)
//	Q' = (Xq·proj_num² : proj_den²)
func Compute(c curve.Montgomery, p point.XPoint, q point.XPoint, ell *big.Int) (Result, error) {
	if ell.Cmp(big.NewInt(3)) < 0 {
		return Result{}, fmt.Errorf("isogeny: degree %s must be >= 3", ell)
	}
	if new(big.Int).Mod(ell, big.NewInt(2)).Sign() == 0 {
		return Result{}, fmt.Errorf("isogeny: degree %s must be odd", ell)
	}

	m := c.A.Modulus()
	pNorm := p.Normalize()
	q = q.Normalize()

	t := pNorm
	tMinus1 := point.Infinity(m)

	pi := point.XPoint{X: m.One(), Z: m.One()}
	sigma := m.Zero()
	projNum := m.One()
	projDen := m.One()

	half := new(big.Int).Div(new(big.Int).Sub(ell, big.NewInt(1)), big.NewInt(2))

	for i := big.NewInt(1); i.Cmp(half) <= 0; i.Add(i, big.NewInt(1)) {
		if t.X.IsZero() {
			return Result{}, fmt.Errorf("isogeny: %w", ErrKernelDegenerate)
		}

		pi = point.XPoint{X: pi.X.Mul(t.X), Z: pi.Z.Mul(t.Z)}
		sigma = sigma.Add(t.X.Div(t.Z).Sub(t.Z.Div(t.X)))
		projNum = projNum.Mul(t.X.Mul(q.X).Sub(t.Z))
		projDen = projDen.Mul(q.X.Mul(t.Z).Sub(t.X))

		if i.Cmp(big.NewInt(1)) == 0 {
			next := c.XDbl(pNorm)
			tMinus1 = t
			t = next
		} else {
			next := c.XAdd(t, pNorm, tMinus1)
			tMinus1 = t
			t = next
		}
	}

	piSquared := point.XPoint{X: pi.X.Mul(pi.X), Z: pi.Z.Mul(pi.Z)}
	projNum = projNum.Mul(projNum)
	projDen = projDen.Mul(projDen)
	sigma = sigma.Add(sigma)

	piNorm := piSquared.Normalize()

	three := m.FromInt64(3)
	aPrime := piNorm.X.Mul(c.A.Sub(three.Mul(sigma)))

	imageX := q.X.Mul(projNum)

	return Result{
		Curve: curve.New(aPrime),
		Image: point.XPoint{X: imageX, Z: projDen},
	}, nil
}
