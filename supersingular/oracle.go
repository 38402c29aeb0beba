// Package supersingular implements the probabilistic supersingularity
// test of spec.md §4.4, grounded on original_source/csidh.rs's
// is_supersingular: repeatedly sample a random x-point, accumulate the
// product of ℓᵢ whose torsion is confirmed present, and declare
// supersingular once Sutherland's bound d² > 16p is crossed. A NO answer
// (an ℓᵢ-torsion point fails to vanish under [ℓᵢ]) is certain; a YES has
// error probability bounded by the product of failure probabilities
// across the primes collected before the bound was crossed.
package supersingular

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"isogeny.network/csidh/curve"
	"isogeny.network/csidh/field"
	"isogeny.network/csidh/point"
)

// ErrRetryBudgetExceeded is the fatal condition DESIGN NOTES §9's "soft
// cap" guard raises when the oracle exhausts the prime list and resamples
// more than MaxAttempts times without reaching a verdict: evidence of a
// misconfigured instance, not of an inconclusive-but-expected run.
var ErrRetryBudgetExceeded = errors.New("supersingular: retry budget exceeded without a verdict")

// MaxAttempts bounds the oracle's outer resampling loop, per DESIGN
// NOTES §9.
const MaxAttempts = 1 << 20

// IsSupersingular runs the oracle of spec.md §4.4 against curve c, using
// the prime-plus-one factorization primes (the instance's ℓ list) and p
// (the instance's characteristic).
func IsSupersingular(rand io.Reader, c curve.Montgomery, primes []*big.Int, p *big.Int) (bool, error) {
	m := c.A.Modulus()
	sixteenP := new(big.Int).Mul(big.NewInt(16), p)
	pPlus1 := new(big.Int).Add(p, big.NewInt(1))

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		sample, err := c.SamplePoint(rand, 0)
		if err != nil {
			return false, fmt.Errorf("supersingular: sampling a curve point: %w", err)
		}

		if verdict, ok := probe(c, sample, primes, pPlus1, sixteenP, m); ok {
			return verdict, nil
		}
		// exhausted the prime list without a verdict; resample
	}

	return false, fmt.Errorf("supersingular: %w", ErrRetryBudgetExceeded)
}

// probe walks the prime list once for a single sampled point, returning
// (verdict, true) the moment a verdict is reached, or (false, false) if
// the list is exhausted inconclusively.
func probe(
	c curve.Montgomery,
	sample point.XPoint,
	primes []*big.Int,
	pPlus1, sixteenP *big.Int,
	m *field.Modulus,
) (bool, bool) {
	inf := point.Infinity(m)
	d := big.NewInt(1)

	for _, li := range primes {
		quotient := new(big.Int).Div(pPlus1, li)
		qi := c.ScalarMultUnsigned(quotient, sample)

		check := c.ScalarMultUnsigned(li, qi)
		if !check.Equal(inf) {
			return false, true
		}

		if !qi.Equal(inf) {
			d.Mul(d, li)
		}

		if new(big.Int).Mul(d, d).Cmp(sixteenP) > 0 {
			return true, true
		}
	}
	return false, false
}
