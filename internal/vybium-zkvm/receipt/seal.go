package receipt

import (
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// Seal hash suite identifiers. The suite selects the hash used for seal
// derivation and trace commitment; structure digests are always SHA-256.
const (
	SuiteSha256   = "sha-256"
	SuiteSha3     = "sha3"
	SuiteBlake2b  = "blake2b"
	SuitePoseidon = "poseidon"

	// SuiteP254 is the recursion-to-SNARK intermediate representation. It is
	// produced by the identity_p254 step and is the only suite the compact
	// wrapping step accepts. Not selectable through ProverOpts.
	SuiteP254 = "p254"
)

// Seal layout constants.
const (
	// segmentSealWords is the word length of a segment seal: the trace
	// commitment root followed by the derived binding words.
	segmentSealWords = DigestWords + sealBindingWords

	// succinctSealWords is the word length of a succinct (recursive) seal.
	succinctSealWords = 24

	// sealBindingWords is the number of derived words binding a segment seal
	// to its claim and trace root.
	sealBindingWords = 16

	// compactSealWords is the word length of the SNARK-wrapped seal:
	// 256 bytes laid out as Groth16 curve points A(64) || B(128) || C(64).
	compactSealWords = 64

	compactPointAWords = 16
	compactPointBWords = 32
	compactPointCWords = 16
)

// KnownSuite reports whether name identifies a seal hash suite.
func KnownSuite(name string) bool {
	switch name {
	case SuiteSha256, SuiteSha3, SuiteBlake2b, SuitePoseidon, SuiteP254:
		return true
	}
	return false
}

// DeriveSegmentSeal derives the seal over a segment proof. The seal commits
// to the trace root in clear (its first eight words) and binds the claim
// digest and the root through a Fiat-Shamir transcript in the given suite.
func DeriveSegmentSeal(hashFn string, claimDigest, traceRoot Digest) ([]uint32, error) {
	if !KnownSuite(hashFn) {
		return nil, fmt.Errorf("%w: %q", ErrHashSuite, hashFn)
	}
	seal := make([]uint32, 0, segmentSealWords)
	rootWords := traceRoot.Words()
	seal = append(seal, rootWords[:]...)
	seal = append(seal, deriveBinding("vzkvm/segment", hashFn, claimDigest, traceRoot, sealBindingWords)...)
	return seal, nil
}

// VerifySegmentSeal checks a segment seal against the claim digest it must
// bind. The trace root is recovered from the seal itself and the binding
// words are recomputed, mirroring how the prover derived them.
func VerifySegmentSeal(hashFn string, claimDigest Digest, seal []uint32) error {
	if !KnownSuite(hashFn) {
		return fmt.Errorf("%w: %q", ErrHashSuite, hashFn)
	}
	if len(seal) != segmentSealWords {
		return fmt.Errorf("%w: segment seal has %d words, want %d", ErrMalformedReceipt, len(seal), segmentSealWords)
	}
	var rootWords [DigestWords]uint32
	copy(rootWords[:], seal[:DigestWords])
	root := DigestFromWords(rootWords)
	expect := deriveBinding("vzkvm/segment", hashFn, claimDigest, root, sealBindingWords)
	if !wordsEqual(seal[DigestWords:], expect) {
		return fmt.Errorf("%w: segment seal binding mismatch", ErrIntegrity)
	}
	return nil
}

// DeriveSuccinctSeal derives the seal of a single recursive proof over the
// given claim. Every recursion step (lift, join, resolve, identity_p254)
// produces its output claim first and then seals it with this derivation, so
// seals of equal claims in equal suites are identical.
func DeriveSuccinctSeal(hashFn string, claimDigest Digest) ([]uint32, error) {
	if !KnownSuite(hashFn) {
		return nil, fmt.Errorf("%w: %q", ErrHashSuite, hashFn)
	}
	return deriveBinding("vzkvm/succinct", hashFn, claimDigest, ZeroDigest, succinctSealWords), nil
}

// VerifySuccinctSeal checks a succinct seal against its claim digest.
func VerifySuccinctSeal(hashFn string, claimDigest Digest, seal []uint32) error {
	if !KnownSuite(hashFn) {
		return fmt.Errorf("%w: %q", ErrHashSuite, hashFn)
	}
	if len(seal) != succinctSealWords {
		return fmt.Errorf("%w: succinct seal has %d words, want %d", ErrMalformedReceipt, len(seal), succinctSealWords)
	}
	expect := deriveBinding("vzkvm/succinct", hashFn, claimDigest, ZeroDigest, succinctSealWords)
	if !wordsEqual(seal, expect) {
		return fmt.Errorf("%w: succinct seal mismatch", ErrIntegrity)
	}
	return nil
}

// DeriveCompactSeal derives the SNARK-wrapped seal for a claim: three curve
// points A, B and C in the Groth16 layout, each derived from the claim
// digest through its own transcript domain.
func DeriveCompactSeal(claimDigest Digest) []uint32 {
	seal := make([]uint32, 0, compactSealWords)
	seal = append(seal, deriveBinding("vzkvm/compact/a", SuiteP254, claimDigest, ZeroDigest, compactPointAWords)...)
	seal = append(seal, deriveBinding("vzkvm/compact/b", SuiteP254, claimDigest, ZeroDigest, compactPointBWords)...)
	seal = append(seal, deriveBinding("vzkvm/compact/c", SuiteP254, claimDigest, ZeroDigest, compactPointCWords)...)
	return seal
}

// VerifyCompactSeal checks a compact seal against its claim digest.
func VerifyCompactSeal(claimDigest Digest, seal []uint32) error {
	if len(seal) != compactSealWords {
		return fmt.Errorf("%w: compact seal has %d words, want %d", ErrMalformedReceipt, len(seal), compactSealWords)
	}
	if !wordsEqual(seal, DeriveCompactSeal(claimDigest)) {
		return fmt.Errorf("%w: compact seal mismatch", ErrIntegrity)
	}
	return nil
}

// deriveBinding squeezes n words out of a transcript seeded with the domain
// tag, the suite name, the claim digest and the commitment.
func deriveBinding(tag, hashFn string, claimDigest, commitment Digest, n int) []uint32 {
	ch := utils.NewChannel(hashFn)
	ch.Send([]byte(tag))
	ch.Send([]byte(hashFn))
	ch.Send(claimDigest[:])
	ch.Send(commitment[:])
	return ch.SqueezeWords(n)
}

func wordsEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
