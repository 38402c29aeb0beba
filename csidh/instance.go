// Package csidh implements the class-group-action driver of spec.md
// §4.6/§4.7 and the outer CSIDH instance it operates over: parameter-set
// construction and validation, key sampling, public-key verification,
// and the class-group action itself, in both its batched and naive
// forms. It composes the field, point, curve, isogeny, and supersingular
// packages the way original_source/csidh.rs composes finite_fields,
// elliptic_curves, and the Vélu isogeny.
package csidh

import (
	"fmt"
	"math/big"

	"golang.org/x/exp/slices"

	"isogeny.network/csidh/field"
)

// Instance is an immutable CSIDH parameter set: an ordered list of small
// distinct odd primes ℓ1 < ... < ℓn together with p = 4·∏ℓi - 1, per
// spec.md §3. It is constructed once and passed to every operation that
// needs it, never mutated afterward.
type Instance struct {
	// Primes is the ordered prime list ℓ1 < ... < ℓn.
	Primes []*big.Int
	// P is the characteristic 4·∏ℓi - 1.
	P *big.Int
	// Modulus is the prime field Fp this instance's curves and points
	// live in.
	Modulus *field.Modulus
	// Debug gates the expensive post-isogeny supersingularity assertion
	// DESIGN NOTES §9 flags as an open question; off by default.
	Debug bool
}

// NewInstance builds the CSIDH instance for the prime list l: it
// computes p = 4·∏ℓi - 1 and validates the result with CheckWellDefined.
// l must already be sorted in strictly ascending order with no
// duplicates, the "ordered list of small distinct odd primes" spec.md
// §3 requires.
func NewInstance(l []*big.Int) (*Instance, error) {
	if len(l) == 0 {
		return nil, fmt.Errorf("csidh: %w: empty prime list", ErrConfig)
	}
	if !slices.IsSortedFunc(l, func(a, b *big.Int) int { return a.Cmp(b) }) {
		return nil, fmt.Errorf("csidh: %w: prime list must be strictly ascending", ErrConfig)
	}
	for i := 1; i < len(l); i++ {
		if l[i].Cmp(l[i-1]) == 0 {
			return nil, fmt.Errorf("csidh: %w: duplicate prime %s", ErrConfig, l[i])
		}
	}
	for _, li := range l {
		if li.Bit(0) == 0 {
			return nil, fmt.Errorf("csidh: %w: %s is not odd", ErrConfig, li)
		}
		if !li.ProbablyPrime(20) {
			return nil, fmt.Errorf("csidh: %w: %s is not prime", ErrConfig, li)
		}
	}

	prod := big.NewInt(1)
	for _, li := range l {
		prod.Mul(prod, li)
	}
	p := new(big.Int).Sub(new(big.Int).Mul(big.NewInt(4), prod), big.NewInt(1))

	primes := make([]*big.Int, len(l))
	for i, li := range l {
		primes[i] = new(big.Int).Set(li)
	}

	inst := &Instance{
		Primes:  primes,
		P:       p,
		Modulus: field.NewModulus(p),
	}

	if err := inst.CheckWellDefined(); err != nil {
		return nil, err
	}
	return inst, nil
}

// CheckWellDefined verifies 4·∏ℓi - 1 = p, per spec.md §6, returning
// ErrConfig (rather than asserting) so a caller building an instance from
// untrusted configuration, cmd/csidh-bench's flags say, can report
// the mismatch instead of crashing.
func (inst *Instance) CheckWellDefined() error {
	if len(inst.Primes) == 0 {
		return fmt.Errorf("csidh: %w: empty prime list", ErrConfig)
	}

	prod := big.NewInt(1)
	for _, li := range inst.Primes {
		prod.Mul(prod, li)
	}
	want := new(big.Int).Sub(new(big.Int).Mul(big.NewInt(4), prod), big.NewInt(1))

	if want.Cmp(inst.P) != 0 {
		return fmt.Errorf("csidh: %w: 4*prod(l)-1 = %s, want %s", ErrConfig, want, inst.P)
	}
	return nil
}

// NPrimes is len(Primes): spec.md's n_primes is derived, not stored
// separately, since Go has no use for the redundant field the original
// Rust struct carried.
func (inst *Instance) NPrimes() int {
	return len(inst.Primes)
}
