package keccak

import (
	"encoding/hex"
	"fmt"
	"testing"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func TestSum256KnownVectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		},
		{
			name:  "abc",
			input: "abc",
			want:  "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		},
		{
			name:  "hello",
			input: "hello",
			want:  "1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8",
		},
		{
			name:  "pangram",
			input: "The quick brown fox jumps over the lazy dog",
			want:  "4d741b6f1eb29cb2a9b9911c82f56fa8d73b04959d3d9d222895df6c0b28aa15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sum256([]byte(tt.input))
			assert.Equal(t, tt.want, hex.EncodeToString(got[:]))
			assert.Equal(t, "0x"+tt.want, got.Hex())
		})
	}
}

func TestSum256Deterministic(t *testing.T) {
	input := []byte("Hello, Ethereum!")
	first := Sum256(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Sum256(input))
	}
}

// The digest must match the ecosystem's legacy Keccak-256 (not SHA3-256)
// across the rate boundary: 135, 136 and 137 byte inputs all exercise
// different padding paths.
func TestSum256MatchesReferenceImplementations(t *testing.T) {
	for size := 0; size <= 300; size++ {
		input := make([]byte, size)
		for i := range input {
			input[i] = byte(i * 7)
		}

		got := Sum256(input)

		ref := sha3.NewLegacyKeccak256()
		ref.Write(input)
		require.Equal(t, ref.Sum(nil), got.Bytes(), "x/crypto mismatch at size %d", size)
		require.Equal(t, gethcrypto.Keccak256(input), got.Bytes(), "go-ethereum mismatch at size %d", size)
	}
}

func TestSum256DiffersFromSHA3(t *testing.T) {
	// Same input, NIST SHA3-256 padding: must not collide.
	input := []byte("domain separation matters")
	nist := sha3.Sum256(input)
	got := Sum256(input)
	assert.NotEqual(t, nist[:], got.Bytes())
}

func TestSum256BitFlipChangesDigest(t *testing.T) {
	input := []byte("gas price oracle")
	base := Sum256(input)

	for i := range input {
		flipped := append([]byte(nil), input...)
		flipped[i] ^= 1
		assert.NotEqual(t, base, Sum256(flipped), "flipping byte %d left the digest unchanged", i)
	}
}

func TestHasherIncrementalMatchesOneShot(t *testing.T) {
	input := make([]byte, 260)
	for i := range input {
		input[i] = byte(i)
	}
	want := Sum256(input)

	for split := 0; split <= len(input); split += 13 {
		h := New()
		h.Write(input[:split])
		h.Write(input[split:])
		assert.Equal(t, want.Bytes(), h.Sum(nil), "split at %d", split)
	}
}

func TestHasherSumIsNonDestructive(t *testing.T) {
	h := New()
	h.Write([]byte("part one"))

	mid := h.Sum(nil)
	assert.Equal(t, mid, h.Sum(nil))

	h.Write([]byte(" part two"))
	assert.Equal(t, Sum256([]byte("part one part two")).Bytes(), h.Sum(nil))
}

func TestHasherReset(t *testing.T) {
	h := New()
	h.Write([]byte("stale"))
	h.Reset()
	h.Write([]byte("abc"))

	assert.Equal(t, Sum256([]byte("abc")).Bytes(), h.Sum(nil))
}

func TestHasherInterface(t *testing.T) {
	h := New()
	assert.Equal(t, 32, h.Size())
	assert.Equal(t, 136, h.BlockSize())
}

func TestDigestLengthInvariant(t *testing.T) {
	for _, size := range []int{0, 1, 135, 136, 137, 1000} {
		d := Sum256(make([]byte, size))
		assert.Len(t, d.Bytes(), 32)
	}
}

func ExampleSum256() {
	fmt.Println(Sum256(nil))
	// Output: 0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470
}
