package csidh

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"isogeny.network/csidh/bigint"
	"isogeny.network/csidh/curve"
	"isogeny.network/csidh/field"
	"isogeny.network/csidh/isogeny"
	"isogeny.network/csidh/point"
	"isogeny.network/csidh/supersingular"
)

// ClassGroupAction implements the batched driver of spec.md §4.6: it
// applies the signed exponent vector sk.E to public key pk, iterating
// until every component has been driven to zero, sign-partitioning the
// instance's primes on each outer pass and processing the large-ℓ end of
// each partition first, the way original_source/csidh.rs's
// class_group_action does.
func ClassGroupAction(rand io.Reader, inst *Instance, pk PublicKey, sk SecretKey) (PublicKey, error) {
	if len(sk.E) != inst.NPrimes() {
		return PublicKey{}, fmt.Errorf("csidh: secret vector has %d components, instance has %d primes", len(sk.E), inst.NPrimes())
	}

	m := inst.Modulus
	a := pk.A
	e := append([]int(nil), sk.E...)
	pPlus1 := new(big.Int).Add(inst.P, big.NewInt(1))

	for remaining(e) > 0 {
		x, err := sampleAffine(rand, m)
		if err != nil {
			return PublicKey{}, fmt.Errorf("csidh: sampling driver point: %w", err)
		}

		c := curve.New(a)
		s := c.RHS(x).Legendre()
		if s == 0 {
			continue
		}

		idx := partition(e, s)
		if len(idx) == 0 {
			continue
		}

		k := prodPrimes(inst.Primes, idx)
		q := c.ScalarMultUnsigned(new(big.Int).Div(pPlus1, k), point.Finite(x))

		for j := len(idx) - 1; j >= 0; j-- {
			i := idx[j]
			ell := inst.Primes[i]
			cofactor := new(big.Int).Div(k, ell)

			r := c.ScalarMultUnsigned(cofactor, q)
			if r.Equal(point.Infinity(m)) {
				continue
			}

			result, err := isogeny.Compute(c, r, q, ell)
			if errors.Is(err, isogeny.ErrKernelDegenerate) {
				continue
			}
			if err != nil {
				return PublicKey{}, fmt.Errorf("csidh: isogeny step for prime %s: %w", ell, err)
			}

			c = result.Curve
			a = c.A
			q = result.Image
			k = cofactor

			if e[i] > 0 {
				e[i]--
			} else {
				e[i]++
			}

			if inst.Debug {
				if c.IsSingular() {
					return PublicKey{}, fmt.Errorf("csidh: %w: image curve A=%s is singular", ErrSupersingularityFail, c.A)
				}
				ok, sErr := supersingular.IsSupersingular(rand, c, inst.Primes, inst.P)
				if sErr != nil {
					return PublicKey{}, fmt.Errorf("csidh: post-isogeny supersingularity check: %w", sErr)
				}
				if !ok {
					return PublicKey{}, fmt.Errorf("csidh: %w", ErrSupersingularityFail)
				}
			}
		}
	}

	return PublicKey{A: a}, nil
}

// NaiveClassGroupAction is the per-prime reference driver spec.md §4.6
// describes for cross-validation: for each coordinate eᵢ it performs
// |eᵢ| isogenies of degree ℓᵢ one at a time, each time sampling a fresh
// point of the sign matching eᵢ until a non-identity ℓᵢ-torsion
// generator is obtained. It is equivalent in output to ClassGroupAction
// and much slower, by design. Tests use it to catch a divergence the
// batched form's bookkeeping could introduce.
func NaiveClassGroupAction(rand io.Reader, inst *Instance, pk PublicKey, sk SecretKey) (PublicKey, error) {
	if len(sk.E) != inst.NPrimes() {
		return PublicKey{}, fmt.Errorf("csidh: secret vector has %d components, instance has %d primes", len(sk.E), inst.NPrimes())
	}

	m := inst.Modulus
	a := pk.A
	pPlus1 := new(big.Int).Add(inst.P, big.NewInt(1))

	for i, ei := range sk.E {
		if ei == 0 {
			continue
		}
		s := 1
		if ei < 0 {
			s = -1
		}
		ell := inst.Primes[i]
		cofactor := new(big.Int).Div(pPlus1, ell)

		for steps := abs(ei); steps > 0; steps-- {
			var kernel point.XPoint
			for {
				x, err := sampleAffine(rand, m)
				if err != nil {
					return PublicKey{}, fmt.Errorf("csidh: sampling naive driver point: %w", err)
				}
				c := curve.New(a)
				if c.RHS(x).Legendre() != s {
					continue
				}
				candidate := c.ScalarMultUnsigned(cofactor, point.Finite(x))
				if candidate.Equal(point.Infinity(m)) {
					continue
				}
				kernel = candidate
				break
			}

			c := curve.New(a)
			result, err := isogeny.Compute(c, kernel, kernel, ell)
			if errors.Is(err, isogeny.ErrKernelDegenerate) {
				steps++ // retry this step with a fresh sample
				continue
			}
			if err != nil {
				return PublicKey{}, fmt.Errorf("csidh: naive isogeny step for prime %s: %w", ell, err)
			}
			a = result.Curve.A
		}
	}

	return PublicKey{A: a}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func remaining(e []int) int {
	total := 0
	for _, ei := range e {
		total += abs(ei)
	}
	return total
}

// partition returns the indices i with sign(e[i]) == s, in ascending
// order (the instance's natural prime ordering).
func partition(e []int, s int) []int {
	var idx []int
	for i, ei := range e {
		sign := 0
		switch {
		case ei > 0:
			sign = 1
		case ei < 0:
			sign = -1
		}
		if sign == s {
			idx = append(idx, i)
		}
	}
	return idx
}

func prodPrimes(primes []*big.Int, idx []int) *big.Int {
	prod := big.NewInt(1)
	for _, i := range idx {
		prod.Mul(prod, primes[i])
	}
	return prod
}

// sampleAffine draws a uniform element of Fp, the x-coordinate candidate
// spec.md §4.6's driver loop resamples on every pass.
func sampleAffine(rand io.Reader, m *field.Modulus) (field.Element, error) {
	n, err := bigint.SampleUniform(rand, big.NewInt(0), m.Int())
	if err != nil {
		return field.Element{}, err
	}
	return m.Elem(n), nil
}
