// Package receipt defines the proof artifacts of the Vybium zkVM proving
// pipeline: claims, the receipt variants, verification, and the word-oriented
// serialization codec.
package receipt

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// DigestLen is the byte length of all structure digests in the pipeline.
const DigestLen = 32

// DigestWords is the number of 32-bit words in a digest.
const DigestWords = DigestLen / 4

// Digest is a 32-byte hash value. State digests, image IDs, input digests,
// journal digests and claim digests are all SHA-256; the configurable hash
// suite applies to seal derivation only, so digests stay comparable across
// receipts produced with different suites.
type Digest [DigestLen]byte

// ZeroDigest is the all-zero digest.
var ZeroDigest Digest

// HashBytes computes the SHA-256 structure digest of the concatenated inputs.
func HashBytes(data ...[]byte) Digest {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashWords computes the structure digest of 32-bit words in little-endian
// serialization.
func HashWords(words []uint32) Digest {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return HashBytes(buf)
}

// Words returns the digest as eight little-endian 32-bit words.
func (d Digest) Words() [DigestWords]uint32 {
	var out [DigestWords]uint32
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(d[i*4:])
	}
	return out
}

// DigestFromWords reconstructs a digest from its word representation.
func DigestFromWords(words [DigestWords]uint32) Digest {
	var out Digest
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// IsZero reports whether the digest is all zeros.
func (d Digest) IsZero() bool {
	return d == ZeroDigest
}

// String returns the digest as a lowercase hex string.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestFromHex parses a 64-character hex string into a digest.
func DigestFromHex(s string) (Digest, error) {
	var out Digest
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("invalid digest hex: %w", err)
	}
	if len(raw) != DigestLen {
		return out, fmt.Errorf("invalid digest length: got %d bytes, want %d", len(raw), DigestLen)
	}
	copy(out[:], raw)
	return out, nil
}
