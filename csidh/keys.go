package csidh

import (
	"fmt"
	"io"
	"math/big"

	"isogeny.network/csidh/bigint"
	"isogeny.network/csidh/curve"
	"isogeny.network/csidh/field"
	"isogeny.network/csidh/supersingular"
)

// PublicKey is the Montgomery coefficient A identifying the curve
// y² = x³ + A·x² + x, the only thing the outside world ever sees of a
// point on the class-group-action orbit.
type PublicKey struct {
	A field.Element
}

// SecretKey is the signed exponent vector e, in the fixed order of the
// instance's prime list, per spec.md §6.
type SecretKey struct {
	E []int
}

// IdentityPublicKey returns the A = 0 public key, the identity of the
// class-group action, for instance inst.
func IdentityPublicKey(inst *Instance) PublicKey {
	return PublicKey{A: inst.Modulus.Zero()}
}

// SampleKeys implements spec.md §4.7: sample each component eᵢ uniformly
// in [-m, m], run the action on the identity curve A = 0, and return the
// resulting public key together with the secret vector that produced it.
// m is the difficulty bound and must be >= 1.
func SampleKeys(rand io.Reader, inst *Instance, m int) (PublicKey, SecretKey, error) {
	if m < 1 {
		return PublicKey{}, SecretKey{}, fmt.Errorf("csidh: %w: difficulty bound must be >= 1, got %d", ErrConfig, m)
	}

	e := make([]int, inst.NPrimes())
	for i := range e {
		v, err := sampleSigned(rand, m)
		if err != nil {
			return PublicKey{}, SecretKey{}, fmt.Errorf("csidh: sampling secret component %d: %w", i, err)
		}
		e[i] = v
	}

	sk := SecretKey{E: e}
	pk := IdentityPublicKey(inst)

	next, err := ClassGroupAction(rand, inst, pk, sk)
	if err != nil {
		return PublicKey{}, SecretKey{}, err
	}
	return next, sk, nil
}

// VerifyPublicKey implements spec.md §6's verify_public_key: it runs the
// supersingularity oracle of the supersingular package on
// y² = x³ + A·x² + x.
func VerifyPublicKey(rand io.Reader, inst *Instance, pk PublicKey) (bool, error) {
	c := curve.New(pk.A)
	return supersingular.IsSupersingular(rand, c, inst.Primes, inst.P)
}

// Bytes serializes the public key as the canonical Fp integer
// representative, big-endian, padded to ⌈log2 p / 8⌉ bytes, per spec.md
// §6.
func (pk PublicKey) Bytes(inst *Instance) []byte {
	width := (inst.Modulus.BitLen() + 7) / 8
	raw := pk.A.Int().Bytes()

	out := make([]byte, width)
	copy(out[width-len(raw):], raw)
	return out
}

// PublicKeyFromBytes parses the canonical encoding Bytes produces,
// rejecting a byte string of the wrong length.
func PublicKeyFromBytes(inst *Instance, b []byte) (PublicKey, error) {
	width := (inst.Modulus.BitLen() + 7) / 8
	if len(b) != width {
		return PublicKey{}, fmt.Errorf("csidh: got %d bytes, want %d: %w", len(b), width, ErrKeyLength)
	}
	n := new(big.Int).SetBytes(b)
	return PublicKey{A: inst.Modulus.Elem(n)}, nil
}

// sampleSigned draws a uniform integer in [-m, m], the shape spec.md
// §4.7 wants for a secret-key component.
func sampleSigned(rand io.Reader, m int) (int, error) {
	return bigint.SampleInt(rand, -m, m)
}
