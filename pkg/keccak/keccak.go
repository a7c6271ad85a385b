// Package keccak implements Keccak-256, the pre-standardization variant
// of SHA-3 used by Ethereum.
//
// It differs from NIST SHA3-256 only in the padding domain separator:
// Keccak pads with 0x01 where SHA3 pads with 0x06, so the two produce
// different digests for identical input. This package always uses the
// original Keccak padding.
package keccak

import (
	"encoding/binary"
	"encoding/hex"
	"math/bits"
)

const (
	// Size is the digest size in bytes.
	Size = 32
	// BlockSize is the sponge rate in bytes (1088-bit rate, 512-bit capacity).
	BlockSize = 136

	// Original Keccak multi-rate padding: 0x01 ... 0x80.
	domainSeparator = 0x01
	padEnd          = 0x80
)

// Digest is a Keccak-256 digest. Equality is byte-wise.
type Digest [Size]byte

// Bytes returns the digest as a freshly allocated byte slice.
func (d Digest) Bytes() []byte {
	return append([]byte(nil), d[:]...)
}

// Hex returns the 0x-prefixed hex encoding of the digest.
func (d Digest) Hex() string {
	return "0x" + hex.EncodeToString(d[:])
}

func (d Digest) String() string {
	return d.Hex()
}

// Sum256 computes the Keccak-256 digest of data.
// It accepts any input length including zero and never fails.
func Sum256(data []byte) Digest {
	h := New()
	h.Write(data)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Hasher computes a Keccak-256 digest incrementally. It implements
// hash.Hash. The zero value is not usable; call New.
//
// A Hasher must not be used concurrently; each goroutine should own its
// own instance. Sum does not disturb the running state, so a Hasher can
// keep absorbing input after a Sum.
type Hasher struct {
	state [25]uint64      // 5x5 matrix of 64-bit lanes
	block [BlockSize]byte // partially filled input block
	n     int             // bytes buffered in block
}

// New returns a new Keccak-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Write absorbs p into the sponge state. It never returns an error.
func (h *Hasher) Write(p []byte) (int, error) {
	written := len(p)
	for len(p) > 0 {
		n := copy(h.block[h.n:], p)
		h.n += n
		p = p[n:]
		if h.n == BlockSize {
			h.absorb(h.block[:])
			h.n = 0
		}
	}
	return written, nil
}

// Sum appends the digest of all data written so far to b. The running
// state is copied before padding, so further Writes remain valid.
func (h *Hasher) Sum(b []byte) []byte {
	// Pad into a zeroed block; a block-aligned input gets a full
	// padding block since h.n is 0 after the last absorb.
	state := h.state
	var block [BlockSize]byte
	copy(block[:], h.block[:h.n])
	block[h.n] = domainSeparator
	block[BlockSize-1] |= padEnd
	for i := 0; i < BlockSize/8; i++ {
		state[i] ^= binary.LittleEndian.Uint64(block[8*i:])
	}
	keccakF1600(&state)

	// Squeeze: the first 32 bytes of the rate, little-endian lanes.
	var out [Size]byte
	for i := 0; i < Size/8; i++ {
		binary.LittleEndian.PutUint64(out[8*i:], state[i])
	}
	return append(b, out[:]...)
}

// Reset restores the hasher to its initial state.
func (h *Hasher) Reset() {
	*h = Hasher{}
}

// Size returns the digest size in bytes.
func (h *Hasher) Size() int { return Size }

// BlockSize returns the sponge rate in bytes.
func (h *Hasher) BlockSize() int { return BlockSize }

func (h *Hasher) absorb(block []byte) {
	for i := 0; i < BlockSize/8; i++ {
		h.state[i] ^= binary.LittleEndian.Uint64(block[8*i:])
	}
	keccakF1600(&h.state)
}

// roundConstants are the 24 iota step constants for Keccak-f[1600].
var roundConstants = [24]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rotations holds the rho step offsets, indexed by lane x+5y.
var rotations = [25]int{
	0, 1, 62, 28, 27,
	36, 44, 6, 55, 20,
	3, 10, 43, 25, 39,
	41, 45, 15, 21, 8,
	18, 2, 61, 56, 14,
}

// keccakF1600 applies the 24-round Keccak-f[1600] permutation in place.
// Lane (x, y) lives at index x+5y.
func keccakF1600(a *[25]uint64) {
	var b [25]uint64
	var c, d [5]uint64

	for round := 0; round < 24; round++ {
		// theta
		for x := 0; x < 5; x++ {
			c[x] = a[x] ^ a[x+5] ^ a[x+10] ^ a[x+15] ^ a[x+20]
		}
		for x := 0; x < 5; x++ {
			d[x] = c[(x+4)%5] ^ bits.RotateLeft64(c[(x+1)%5], 1)
		}
		for i := 0; i < 25; i++ {
			a[i] ^= d[i%5]
		}

		// rho and pi
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				b[y+5*((2*x+3*y)%5)] = bits.RotateLeft64(a[x+5*y], rotations[x+5*y])
			}
		}

		// chi
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				a[x+5*y] = b[x+5*y] ^ (^b[(x+1)%5+5*y] & b[(x+2)%5+5*y])
			}
		}

		// iota
		a[0] ^= roundConstants[round]
	}
}
