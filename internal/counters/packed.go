package counters

import (
	"fmt"
	"math"

	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
)

const (
	// WordBits is the width of one backing word.
	WordBits = 32

	// MaxBitsPerCounter is the widest counter that still spans at most two words.
	MaxBitsPerCounter = WordBits

	// maxWords bounds the backing slice so that size*bits never overflows the
	// index arithmetic and the slice length stays addressable on 32-bit targets.
	maxWords = math.MaxInt32
)

// Array is a fixed-size array of counters, each bits wide, packed into a
// stream of 32-bit words. The stream is overlaid most-significant-bit first:
// counter i occupies bits [i*bits, i*bits+bits-1] of the stream, and a counter
// whose offset is not word aligned straddles exactly two adjacent words.
//
// Array is not safe for concurrent use.
type Array struct {
	// words holds the packed bitstream, len(words) == ceil(size*bits/32).
	words []uint32

	// size is the number of counters.
	size uint32

	// bits is the width of one counter in [1, 32].
	bits uint32

	released bool
}

// New allocates a zeroed array of size counters with bitsPerCounter bits each.
func New(size uint32, bitsPerCounter int) (arr *Array, err error) {
	if bitsPerCounter < 1 || bitsPerCounter > MaxBitsPerCounter {
		return nil, fmt.Errorf("%w: bits per counter must be in [1, %d], %d provided",
			errs.ErrConfiguration, MaxBitsPerCounter, bitsPerCounter)
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: counters size must be positive", errs.ErrConfiguration)
	}

	totalBits := uint64(size) * uint64(bitsPerCounter)
	numWords := (totalBits + WordBits - 1) / WordBits
	if numWords > maxWords {
		return nil, fmt.Errorf("%w: %d words requested for %d counters of %d bits",
			errs.ErrAllocation, numWords, size, bitsPerCounter)
	}

	defer func() {
		// makeslice panics when the runtime refuses the length.
		if r := recover(); r != nil {
			arr, err = nil, fmt.Errorf("%w: %d words: %v", errs.ErrAllocation, numWords, r)
		}
	}()

	return &Array{
		words: make([]uint32, numWords),
		size:  size,
		bits:  uint32(bitsPerCounter),
	}, nil
}

// Locate maps counter idx to the words and bit positions it occupies.
// Bit positions are 1-based and counted from the right edge of a word, so
// bitStart marks the high end of the value inside wordStart and bitEnd marks
// the low end inside wordEnd. wordStart == wordEnd iff the counter does not
// straddle a word boundary.
func (a *Array) Locate(idx uint32) (wordStart, wordEnd, bitStart, bitEnd uint32) {
	s := uint64(a.bits) * uint64(idx)
	e := s + uint64(a.bits) - 1
	return uint32(s / WordBits), uint32(e / WordBits), WordBits - uint32(s%WordBits), WordBits - uint32(e%WordBits)
}

// bitsRange returns a word mask with bits [l, r] set (1-based from the right).
func bitsRange(l, r uint32) uint32 {
	return uint32(((uint64(1) << (l - 1)) - 1) ^ ((uint64(1) << r) - 1))
}

// Test reports whether counter idx is nonzero.
func (a *Array) Test(idx uint32) bool {
	a.check(idx)
	ws, we, bs, be := a.Locate(idx)
	if ws == we {
		return a.words[ws]&bitsRange(be, bs) != 0
	}
	return a.words[ws]&bitsRange(1, bs) != 0 || a.words[we]&bitsRange(be, WordBits) != 0
}

// Read returns the value of counter idx.
func (a *Array) Read(idx uint32) uint32 {
	a.check(idx)
	ws, we, bs, be := a.Locate(idx)
	if ws == we {
		return (a.words[ws] & bitsRange(be, bs)) >> (be - 1)
	}
	high := a.words[ws] & bitsRange(1, bs)
	low := (a.words[we] & bitsRange(be, WordBits)) >> (be - 1)
	return high<<(WordBits-be+1) | low
}

// Decrement lowers counter idx by one. A zero counter stays zero.
func (a *Array) Decrement(idx uint32) {
	if !a.Test(idx) {
		return
	}
	v := a.Read(idx) - 1

	ws, we, bs, be := a.Locate(idx)
	if ws == we {
		mask := bitsRange(be, bs)
		a.words[ws] = a.words[ws]&^mask | (v<<(be-1))&mask
		return
	}

	// high bits go to the tail of the first word, low bits to the head of the second
	highMask, lowMask := bitsRange(1, bs), bitsRange(be, WordBits)
	a.words[ws] = a.words[ws]&^highMask | (v>>(WordBits-be+1))&highMask
	a.words[we] = a.words[we]&^lowMask | (v<<(be-1))&lowMask
}

// SetToMax sets every bit of counter idx, whatever its current value.
func (a *Array) SetToMax(idx uint32) {
	a.check(idx)
	ws, we, bs, be := a.Locate(idx)
	if ws == we {
		a.words[ws] |= bitsRange(be, bs)
		return
	}
	a.words[ws] |= bitsRange(1, bs)
	a.words[we] |= bitsRange(be, WordBits)
}

// Release drops the backing storage. Any later counter access panics;
// CountZero reports 0.
func (a *Array) Release() {
	a.words = nil
	a.released = true
}

// Size returns the number of counters.
func (a *Array) Size() uint32 { return a.size }

// BitsPerCounter returns the counter width.
func (a *Array) BitsPerCounter() int { return int(a.bits) }

// Max returns the saturated counter value 2^bits - 1.
func (a *Array) Max() uint32 { return uint32((uint64(1) << a.bits) - 1) }

// NumWords returns the number of backing words.
func (a *Array) NumWords() int { return len(a.words) }

// MemBytes returns the size of the backing storage in bytes.
func (a *Array) MemBytes() uint64 { return uint64(len(a.words)) * WordBits / 8 }

// CountZero returns the number of zero counters.
func (a *Array) CountZero() uint32 {
	if a.released {
		return 0
	}
	var n uint32
	for i := uint32(0); i < a.size; i++ {
		if !a.Test(i) {
			n++
		}
	}
	return n
}

// ZeroRatio returns the fraction of counters that are zero.
func (a *Array) ZeroRatio() float64 {
	return float64(a.CountZero()) / float64(a.size)
}

func (a *Array) check(idx uint32) {
	if a.released {
		panic("counters: access after release")
	}
	if idx >= a.size {
		panic(fmt.Sprintf("counters: index %d out of range [0, %d)", idx, a.size))
	}
}
