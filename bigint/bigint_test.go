package bigint_test

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"testing"

	"isogeny.network/csidh/bigint"
	"isogeny.network/csidh/internal/testutils"
)

// scriptedReader hands out a fixed sequence of byte slices, one per
// Read call, so a test can force SampleUniform's rejection loop to run
// a known number of times before it accepts.
type scriptedReader struct {
	words [][]byte
	next  int
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	if r.next >= len(r.words) {
		return 0, io.EOF
	}
	w := r.words[r.next]
	r.next++
	return copy(p, w), nil
}

func TestSampleUniformRejectsEmptyRange(t *testing.T) {
	_, err := bigint.SampleUniform(rand.Reader, big.NewInt(5), big.NewInt(5))
	if !errors.Is(err, bigint.ErrRangeEmpty) {
		t.Fatalf("equal bounds: got %v, want ErrRangeEmpty", err)
	}

	_, err = bigint.SampleUniform(rand.Reader, big.NewInt(5), big.NewInt(3))
	if !errors.Is(err, bigint.ErrRangeEmpty) {
		t.Fatalf("inverted bounds: got %v, want ErrRangeEmpty", err)
	}
}

// TestSampleUniformRetriesOnOutOfRangeBytes drives SampleUniform with a
// reader whose first word masks to a value at or above the span, forcing
// one rejection, then a second word that lands in range. A span of 5
// needs one byte per draw (span.BitLen() == 3), so the mask keeps the
// top five bits of that byte clear; 0xff survives the mask as 7, which
// is still rejected, and 0x02 is accepted as offset 2.
func TestSampleUniformRetriesOnOutOfRangeBytes(t *testing.T) {
	reader := &scriptedReader{words: [][]byte{{0xff}, {0x02}}}

	got, err := bigint.SampleUniform(reader, big.NewInt(0), big.NewInt(5))
	if err != nil {
		t.Fatalf("SampleUniform: %v", err)
	}
	testutils.AssertBigIntsEqual(t, "accepted offset after one rejection", big.NewInt(2), got)
	if reader.next != 2 {
		t.Errorf("expected the rejection loop to consume 2 reads, consumed %d", reader.next)
	}
}

// TestSampleIntInclusiveBounds checks both ends of SampleInt's [lo, hi]
// range are reachable, using the same masked-byte arithmetic as above:
// SampleInt(-2, 2) calls SampleUniform(-2, 3), which draws an offset in
// [0, 5) and adds it to -2, so raw
// byte 0x00 yields the low end and raw byte 0x04 yields the high end.
func TestSampleIntInclusiveBounds(t *testing.T) {
	low, err := bigint.SampleInt(&scriptedReader{words: [][]byte{{0x00}}}, -2, 2)
	if err != nil {
		t.Fatalf("SampleInt (low): %v", err)
	}
	testutils.AssertIntsEqual(t, "low end of [-2, 2]", -2, low)

	high, err := bigint.SampleInt(&scriptedReader{words: [][]byte{{0x04}}}, -2, 2)
	if err != nil {
		t.Fatalf("SampleInt (high): %v", err)
	}
	testutils.AssertIntsEqual(t, "high end of [-2, 2]", 2, high)
}

// TestSampleIntStaysInBounds exercises SampleInt against crypto/rand over
// many draws, checking every result falls within the inclusive range
// regardless of which branch of the rejection loop produced it.
func TestSampleIntStaysInBounds(t *testing.T) {
	const lo, hi = -3, 4
	for i := 0; i < 500; i++ {
		v, err := bigint.SampleInt(rand.Reader, lo, hi)
		if err != nil {
			t.Fatalf("SampleInt: %v", err)
		}
		if v < lo || v > hi {
			t.Fatalf("SampleInt(%d, %d) = %d, out of range", lo, hi, v)
		}
	}
}
