// Package bigint supplies the handful of arbitrary-precision integer
// helpers spec.md §4.1 names that math/big does not already provide as a
// one-liner. It deliberately does not wrap *big.Int in a new type: the
// rest of this module takes and returns *big.Int directly, the way the
// teacher's int.go and curve.go do (ToBytes32, FromBytes32, the
// new(big.Int).Mod(...) idiom in EcMul). CSIDH's arbitrary-precision
// arithmetic is math/big's job, not a reimplementation's.
package bigint

import (
	"errors"
	"fmt"
	"io"
	"math/big"
)

// ErrRangeEmpty is the ArithmeticError spec.md §4.1 calls for when
// sampling from an empty or inverted half-open range.
var ErrRangeEmpty = errors.New("bigint: sampling range is empty")

// SampleUniform draws a uniformly random integer in the half-open range
// [lo, hi) by rejection sampling (randInt below), the same strategy the
// teacher's SampleFq and internal/testutils.generatePolynomial use for
// crypto/rand-backed sampling.
func SampleUniform(rand io.Reader, lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	if span.Sign() <= 0 {
		return nil, fmt.Errorf("bigint: sampling [%s, %s): %w", lo, hi, ErrRangeEmpty)
	}

	offset, err := randInt(rand, span)
	if err != nil {
		return nil, fmt.Errorf("bigint: sampling [%s, %s): %w", lo, hi, err)
	}

	return new(big.Int).Add(lo, offset), nil
}

// randInt draws a uniform integer in [0, max) from rand, the same
// rejection-sampling loop crypto/rand.Int performs internally, exposed
// here so SampleUniform works with any io.Reader, not just
// crypto/rand.Reader (bigint_test.go injects a scripted reader to drive
// the rejection loop deterministically).
func randInt(rand io.Reader, max *big.Int) (*big.Int, error) {
	if max.Sign() <= 0 {
		return nil, fmt.Errorf("bigint: upper bound must be positive: %w", ErrRangeEmpty)
	}

	bitLen := max.BitLen()
	byteLen := (bitLen + 7) / 8
	buf := make([]byte, byteLen)

	// mask off the high bits of the top byte so the rejection rate stays
	// below 2, the same bound crypto/rand.Int documents for its own loop
	excess := uint(byteLen*8 - bitLen)
	mask := byte(0xff) >> excess

	for {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, err
		}
		buf[0] &= mask

		n := new(big.Int).SetBytes(buf)
		if n.Cmp(max) < 0 {
			return n, nil
		}
	}
}

// SampleInt draws a uniform machine int in [lo, hi], inclusive on both
// ends, the shape spec.md §4.7 wants for a secret-key component drawn
// from [-m, m]. It is built on SampleUniform rather than duplicating the
// rejection loop.
func SampleInt(rand io.Reader, lo, hi int) (int, error) {
	n, err := SampleUniform(rand, big.NewInt(int64(lo)), big.NewInt(int64(hi)+1))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
