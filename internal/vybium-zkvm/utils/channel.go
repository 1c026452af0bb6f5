// Package utils provides shared helpers for the Vybium zkVM proving pipeline.
package utils

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// Channel represents a Fiat-Shamir transcript channel.
//
// The prover sends commitments into the channel; the channel state after each
// send is the running hash of everything absorbed so far. Squeezing words out
// of the channel yields verifier challenges (and, in this pipeline, the seal
// material bound to a claim).
type Channel struct {
	state    []byte
	hashFunc string
}

// NewChannel creates a new Fiat-Shamir channel using the named hash function.
func NewChannel(hashFunc string) *Channel {
	if hashFunc == "" {
		hashFunc = "sha3"
	}
	return &Channel{
		state:    []byte{0},
		hashFunc: hashFunc,
	}
}

// Send absorbs data into the channel state.
func (c *Channel) Send(data []byte) {
	c.state = c.hash(append(c.state, data...))
}

// SqueezeWords derives n pseudo-random 32-bit words from the channel state.
// Each block of words re-hashes the state, so squeezed output depends on
// everything sent so far and on how much has already been squeezed.
func (c *Channel) SqueezeWords(n int) []uint32 {
	out := make([]uint32, 0, n)
	for len(out) < n {
		c.state = c.hash(c.state)
		for i := 0; i+4 <= len(c.state) && len(out) < n; i += 4 {
			out = append(out, binary.LittleEndian.Uint32(c.state[i:]))
		}
	}
	return out
}

// State returns a copy of the current channel state.
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// hash computes the hash of the input using the configured hash function.
func (c *Channel) hash(data []byte) []byte {
	switch c.hashFunc {
	case "sha-256", "sha256":
		h := sha256.Sum256(data)
		return h[:]
	case "sha3":
		h := sha3.Sum256(data)
		return h[:]
	case "blake2b":
		h := blake2b.Sum256(data)
		return h[:]
	case "poseidon", "p254":
		h := PoseidonSum256(data)
		return h[:]
	default:
		panic(fmt.Sprintf("unknown hash function %q", c.hashFunc))
	}
}

// PoseidonSum256 hashes arbitrary bytes with the field-friendly Poseidon
// sponge from vybium-crypto and packs the digest into 32 bytes.
//
// Input bytes are absorbed as 4-byte little-endian limbs so every limb fits
// the Goldilocks field without reduction. The variable-length digest elements
// are serialized 8 bytes each; the first four elements form the output.
func PoseidonSum256(data []byte) [32]byte {
	elems := make([]field.Element, 0, len(data)/4+2)
	// Length prefix keeps inputs of different lengths domain separated.
	elems = append(elems, field.New(uint64(len(data))))
	for i := 0; i < len(data); i += 4 {
		var limb [4]byte
		copy(limb[:], data[i:])
		elems = append(elems, field.New(uint64(binary.LittleEndian.Uint32(limb[:]))))
	}

	digest := hash.HashVarlen(elems)

	var out [32]byte
	for i := 0; i < 4 && i < len(digest); i++ {
		binary.LittleEndian.PutUint64(out[i*8:], digest[i].Value())
	}
	return out
}
