// Package field implements arithmetic in the prime field Fp used by the
// CSIDH core. A Modulus carries the prime p at runtime; there is no
// type-level binding between a prime and a Go type, so the same code
// works for the toy, medium, and production CSIDH parameter sets without
// recompilation.
package field

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"isogeny.network/csidh/bigint"
)

// ErrNotInvertible is the ARITHMETIC_ERROR of spec.md §7: the field
// element being inverted is congruent to zero modulo p.
var ErrNotInvertible = errors.New("field: element has no multiplicative inverse")

// Modulus is a fixed prime p shared by every Element constructed from it.
// It is immutable after construction, as spec.md §3 requires of a
// parameter set.
type Modulus struct {
	p *big.Int
}

// NewModulus validates p and returns the field Fp. p must be a positive
// odd integer; CSIDH additionally requires p ≡ 3 (mod 4), but that
// invariant belongs to the CSIDH instance, not to the field itself, so it
// is not checked here. A caller that supplies a bad modulus has a
// construction-time bug, not a runtime condition to recover from, so this
// panics rather than returning an error, the same convention the
// teacher's BIP340Sign uses for a secret key out of range.
func NewModulus(p *big.Int) *Modulus {
	if p.Sign() <= 0 {
		panic(fmt.Sprintf("field: modulus must be positive, got %s", p))
	}
	if p.Bit(0) == 0 {
		panic(fmt.Sprintf("field: modulus must be odd, got %s", p))
	}
	return &Modulus{p: new(big.Int).Set(p)}
}

// Int returns a copy of the prime p.
func (m *Modulus) Int() *big.Int {
	return new(big.Int).Set(m.p)
}

// BitLen returns the bit length of p, used to size the canonical byte
// encoding of a PublicKey (spec.md §6: ⌈log2 p / 8⌉ bytes).
func (m *Modulus) BitLen() int {
	return m.p.BitLen()
}

// Element is a value in the canonical range [0, p). The zero value of
// Element is not valid; always construct through a Modulus.
type Element struct {
	repr *big.Int
	m    *Modulus
}

// Elem reduces x modulo m by Euclidean division, mapping negative
// representatives into the canonical range [0, p), exactly as spec.md §3
// requires of every constructor.
func (m *Modulus) Elem(x *big.Int) Element {
	r := new(big.Int).Mod(x, m.p)
	return Element{repr: r, m: m}
}

// FromInt64 builds an Element from a machine-word integer.
func (m *Modulus) FromInt64(x int64) Element {
	return m.Elem(big.NewInt(x))
}

// Zero returns the additive identity of Fp.
func (m *Modulus) Zero() Element {
	return Element{repr: big.NewInt(0), m: m}
}

// One returns the multiplicative identity of Fp.
func (m *Modulus) One() Element {
	return Element{repr: big.NewInt(1), m: m}
}

// Modulus returns the field this element belongs to.
func (a Element) Modulus() *Modulus {
	return a.m
}

// Int returns a copy of the canonical representative of a.
func (a Element) Int() *big.Int {
	return new(big.Int).Set(a.repr)
}

func (a Element) sameField(b Element) {
	if a.m != b.m {
		panic("field: operands belong to different fields")
	}
}

// Add returns a + b.
func (a Element) Add(b Element) Element {
	a.sameField(b)
	return a.m.Elem(new(big.Int).Add(a.repr, b.repr))
}

// Sub returns a - b.
func (a Element) Sub(b Element) Element {
	a.sameField(b)
	return a.m.Elem(new(big.Int).Sub(a.repr, b.repr))
}

// Mul returns a * b.
func (a Element) Mul(b Element) Element {
	a.sameField(b)
	return a.m.Elem(new(big.Int).Mul(a.repr, b.repr))
}

// Neg returns -a.
func (a Element) Neg() Element {
	return a.m.Elem(new(big.Int).Neg(a.repr))
}

// Inverse returns a⁻¹ using the extended Euclidean algorithm
// (math/big's ModInverse), and ErrNotInvertible if a is zero.
func (a Element) Inverse() (Element, error) {
	inv := new(big.Int).ModInverse(a.repr, a.m.p)
	if inv == nil {
		return Element{}, fmt.Errorf("field: inverse of %s: %w", a.repr, ErrNotInvertible)
	}
	return Element{repr: inv, m: a.m}, nil
}

// Div returns a / b. It panics with the wrapped ErrNotInvertible if b is
// zero: division inside the core's hot path (x_add, x_dbl, the ladder) is
// never expected to hit a zero denominator on a well-formed curve, so a
// panic here indicates the SUPERSINGULARITY_FAIL-class logic bug spec.md
// §7 describes, not a recoverable condition.
func (a Element) Div(b Element) Element {
	inv, err := b.Inverse()
	if err != nil {
		panic(err)
	}
	return a.Mul(inv)
}

// Equal compares canonical representatives.
func (a Element) Equal(b Element) bool {
	a.sameField(b)
	return a.repr.Cmp(b.repr) == 0
}

// IsZero reports whether a is the additive identity.
func (a Element) IsZero() bool {
	return a.repr.Sign() == 0
}

// Sign implements spec.md §3's definition: an element is "positive" iff
// its canonical representative is ≤ (p-1)/2.
func (a Element) Sign() bool {
	bound := new(big.Int).Rsh(new(big.Int).Sub(a.m.p, big.NewInt(1)), 1)
	return a.repr.Cmp(bound) <= 0
}

// Legendre returns the Legendre symbol χ(a) ∈ {-1, 0, 1} via fast
// exponentiation a^((p-1)/2) mod p, per spec.md §4.2.
func (a Element) Legendre() int {
	if a.IsZero() {
		return 0
	}
	exp := new(big.Int).Rsh(new(big.Int).Sub(a.m.p, big.NewInt(1)), 1)
	r := new(big.Int).Exp(a.repr, exp, a.m.p)
	switch {
	case r.Cmp(big.NewInt(1)) == 0:
		return 1
	default:
		return -1
	}
}

// exp computes a^n mod p for a non-negative n, the field-local helper
// Tonelli-Shanks is built from.
func (a Element) exp(n *big.Int) Element {
	r := new(big.Int).Exp(a.repr, n, a.m.p)
	return Element{repr: r, m: a.m}
}

// Sqrt implements Tonelli-Shanks as specialized by spec.md §4.2: the
// p≡3(mod 4) and p≡5(mod 8) fast paths, falling back to the general
// bit-by-bit elimination otherwise. The caller must ensure a is a
// quadratic residue (Legendre(a) = 1); Sqrt does not check this itself,
// matching original_source/finite_fields.rs's square_root, which is only
// ever called after a Legendre-symbol rejection test. The result is
// canonicalized to the "positive" sign per spec.md §3.
func (a Element) Sqrt(rand io.Reader) Element {
	p := a.m.p

	mod8 := new(big.Int).Mod(p, big.NewInt(8)).Int64()

	var r Element
	switch {
	case mod8 == 3 || mod8 == 7:
		exp := new(big.Int).Rsh(new(big.Int).Add(p, big.NewInt(1)), 2)
		r = a.exp(exp)
	case mod8 == 5:
		exp := new(big.Int).Div(new(big.Int).Add(p, big.NewInt(3)), big.NewInt(8))
		x := a.exp(exp)
		if !x.Mul(x).Equal(a) {
			quarter := new(big.Int).Div(new(big.Int).Sub(p, big.NewInt(1)), big.NewInt(4))
			x = x.Mul(a.m.FromInt64(2).exp(quarter))
		}
		r = x
	default:
		r = a.sqrtTonelliShanks(rand)
	}

	if r.Sign() {
		return r
	}
	return r.Neg()
}

// sqrtTonelliShanks is the general p≡1(mod 8) case: find a non-residue
// d, write p-1 = t·2^s, then solve A·D^m = 1 for m bit by bit, per
// spec.md §4.2 and original_source/finite_fields.rs.
func (a Element) sqrtTonelliShanks(rand io.Reader) Element {
	p := a.m.p
	one := big.NewInt(1)
	two := big.NewInt(2)

	upper := new(big.Int).Sub(p, one)
	d, err := bigint.SampleUniform(rand, two, upper)
	if err != nil {
		panic(err)
	}
	dElem := a.m.Elem(d)
	for dElem.Legendre() != -1 {
		d, err = bigint.SampleUniform(rand, two, upper)
		if err != nil {
			panic(err)
		}
		dElem = a.m.Elem(d)
	}

	t := new(big.Int).Sub(p, one)
	s := 0
	for t.Bit(0) == 0 {
		t.Rsh(t, 1)
		s++
	}

	bigA := a.exp(t)
	bigD := dElem.exp(t)

	m := big.NewInt(0)
	exponent := new(big.Int).Lsh(one, uint(s-1))

	minusOne := a.m.Elem(big.NewInt(-1))

	for i := 0; i < s; i++ {
		candidate := bigA.Mul(bigD.exp(m)).exp(exponent)
		if candidate.Equal(minusOne) {
			m.Add(m, new(big.Int).Lsh(one, uint(i)))
		}
		exponent.Rsh(exponent, 1)
	}

	halfM := new(big.Int).Rsh(m, 1)
	tPlus1Half := new(big.Int).Rsh(new(big.Int).Add(t, one), 1)

	return a.exp(tPlus1Half).Mul(bigD.exp(halfM))
}

// String renders the canonical representative in base 10.
func (a Element) String() string {
	return a.repr.String()
}
