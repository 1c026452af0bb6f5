package receipt

import (
	"fmt"
)

// ReceiptKind orders receipt representations by strength. Composite is the
// weakest user-facing kind, Compact the strongest; Fake sits outside the
// order and never satisfies a requested kind.
type ReceiptKind int

const (
	ReceiptKindComposite ReceiptKind = iota
	ReceiptKindSuccinct
	ReceiptKindCompact
	ReceiptKindFake
)

func (k ReceiptKind) String() string {
	switch k {
	case ReceiptKindComposite:
		return "composite"
	case ReceiptKindSuccinct:
		return "succinct"
	case ReceiptKindCompact:
		return "compact"
	case ReceiptKindFake:
		return "fake"
	default:
		return fmt.Sprintf("ReceiptKind(%d)", int(k))
	}
}

// InnerReceipt is the closed union of proof representations. Exactly one
// variant backs any receipt: a list of per-segment proofs, one recursive
// proof, a SNARK-wrapped proof, or the dev-mode stub carrying no
// cryptographic material at all.
//
// The interface is sealed: only the variants in this package implement it,
// and consumers that type-switch over it must keep a default arm returning
// an error so an unhandled new variant surfaces loudly.
type InnerReceipt interface {
	// Kind returns which variant this is.
	Kind() ReceiptKind

	// ReceiptClaim recovers the claim the proof attests to.
	ReceiptClaim() (*Claim, error)

	// verifyIntegrity checks structural and cryptographic validity of this
	// variant, without binding to an image ID or journal.
	verifyIntegrity(ctx *VerifierContext) error

	innerReceipt()
}

// SegmentReceipt proves the correct execution of one segment in isolation.
type SegmentReceipt struct {
	// Index is the segment's position in its session. It must equal the
	// index of the segment it proves.
	Index uint32

	// Seal is the cryptographic proof payload. Its first eight words are the
	// trace commitment root.
	Seal []uint32

	// HashFn names the seal hash suite.
	HashFn string

	// Claim is the segment's state-transition claim.
	Claim *Claim
}

// ExitCode returns the exit condition of the proved segment.
func (r *SegmentReceipt) ExitCode() ExitCode {
	return r.Claim.ExitCode
}

// VerifyIntegrity checks the segment seal against the segment claim.
func (r *SegmentReceipt) VerifyIntegrity(ctx *VerifierContext) error {
	if r.Claim == nil {
		return fmt.Errorf("%w: segment receipt without claim", ErrMalformedReceipt)
	}
	if !ctx.SuiteAllowed(r.HashFn) {
		return fmt.Errorf("%w: %q not allowed by verifier context", ErrHashSuite, r.HashFn)
	}
	return VerifySegmentSeal(r.HashFn, r.Claim.Digest(), r.Seal)
}

// CompositeReceipt is the ordered list of segment proofs covering a whole
// session, plus succinct proofs for any claims the session assumed.
type CompositeReceipt struct {
	Segments []*SegmentReceipt

	// Corroborations prove claims the guest assumed. Each discharges the
	// first matching assumption from the folded session claim.
	Corroborations []*SuccinctReceipt
}

func (r *CompositeReceipt) Kind() ReceiptKind { return ReceiptKindComposite }
func (r *CompositeReceipt) innerReceipt()     {}

// ReceiptClaim reconstructs the session-level claim: fold the segment
// claims left to right, then discharge assumptions against the attached
// corroborations. Assumptions without a corroboration stay in the claim.
func (r *CompositeReceipt) ReceiptClaim() (*Claim, error) {
	if len(r.Segments) == 0 {
		return nil, fmt.Errorf("%w: composite receipt with no segments", ErrMalformedReceipt)
	}
	claim := r.Segments[0].Claim.Clone()
	for _, seg := range r.Segments[1:] {
		joined, err := JoinClaims(claim, seg.Claim)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", seg.Index, err)
		}
		claim = joined
	}
	for i, cor := range r.Corroborations {
		resolved, err := ResolveClaim(claim, cor.Claim)
		if err != nil {
			return nil, fmt.Errorf("corroboration %d: %w", i, err)
		}
		claim = resolved
	}
	return claim, nil
}

func (r *CompositeReceipt) verifyIntegrity(ctx *VerifierContext) error {
	if len(r.Segments) == 0 {
		return fmt.Errorf("%w: composite receipt with no segments", ErrMalformedReceipt)
	}
	for i, seg := range r.Segments {
		if seg.Index != uint32(i) {
			return fmt.Errorf("%w: segment index %d at position %d", ErrMalformedReceipt, seg.Index, i)
		}
		terminal := i == len(r.Segments)-1
		if !terminal && seg.Claim.ExitCode.IsTerminal() {
			return fmt.Errorf("%w: interior segment %d has terminal exit %s",
				ErrMalformedReceipt, i, seg.Claim.ExitCode)
		}
		if terminal && !seg.Claim.ExitCode.IsTerminal() {
			return fmt.Errorf("%w: final segment exit is %s", ErrMalformedReceipt, seg.Claim.ExitCode)
		}
		if i > 0 && r.Segments[i-1].Claim.PostStateDigest != seg.Claim.PreStateDigest {
			return fmt.Errorf("%w: segments %d and %d are not state-adjacent", ErrMalformedReceipt, i-1, i)
		}
		if err := seg.VerifyIntegrity(ctx); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	for i, cor := range r.Corroborations {
		if err := cor.verifyIntegrity(ctx); err != nil {
			return fmt.Errorf("corroboration %d: %w", i, err)
		}
		if cor.Claim.IsConditional() {
			return fmt.Errorf("%w: corroboration %d is itself conditional", ErrConditionalReceipt, i)
		}
	}
	return nil
}

// SuccinctReceipt is a single recursive proof of a claim. Composition treats
// it as an atom: beyond its claim it is opaque.
type SuccinctReceipt struct {
	// Seal is the recursive proof payload.
	Seal []uint32

	// HashFn names the seal hash suite.
	HashFn string

	// Claim is the statement this proof attests to.
	Claim *Claim
}

func (r *SuccinctReceipt) Kind() ReceiptKind { return ReceiptKindSuccinct }
func (r *SuccinctReceipt) innerReceipt()     {}

func (r *SuccinctReceipt) ReceiptClaim() (*Claim, error) {
	if r.Claim == nil {
		return nil, fmt.Errorf("%w: succinct receipt without claim", ErrMalformedReceipt)
	}
	return r.Claim.Clone(), nil
}

// VerifyIntegrity checks the succinct seal against the claim.
func (r *SuccinctReceipt) VerifyIntegrity(ctx *VerifierContext) error {
	if r.Claim == nil {
		return fmt.Errorf("%w: succinct receipt without claim", ErrMalformedReceipt)
	}
	if !ctx.SuiteAllowed(r.HashFn) {
		return fmt.Errorf("%w: %q not allowed by verifier context", ErrHashSuite, r.HashFn)
	}
	return VerifySuccinctSeal(r.HashFn, r.Claim.Digest(), r.Seal)
}

func (r *SuccinctReceipt) verifyIntegrity(ctx *VerifierContext) error {
	return r.VerifyIntegrity(ctx)
}

// CompactReceipt is the SNARK-wrapped proof: constant size, cheapest to
// verify, produced from a p254 succinct receipt.
type CompactReceipt struct {
	// Seal is the wrapped proof in the Groth16 A || B || C point layout.
	Seal []uint32

	// Claim is the statement this proof attests to.
	Claim *Claim
}

func (r *CompactReceipt) Kind() ReceiptKind { return ReceiptKindCompact }
func (r *CompactReceipt) innerReceipt()     {}

func (r *CompactReceipt) ReceiptClaim() (*Claim, error) {
	if r.Claim == nil {
		return nil, fmt.Errorf("%w: compact receipt without claim", ErrMalformedReceipt)
	}
	return r.Claim.Clone(), nil
}

func (r *CompactReceipt) verifyIntegrity(_ *VerifierContext) error {
	if r.Claim == nil {
		return fmt.Errorf("%w: compact receipt without claim", ErrMalformedReceipt)
	}
	return VerifyCompactSeal(r.Claim.Digest(), r.Seal)
}

// FakeReceipt is the dev-mode stub: a bare claim with no cryptographic
// material whatsoever. It verifies only where dev-mode verification is
// explicitly permitted, and can never be upgraded to another kind.
type FakeReceipt struct {
	Claim *Claim
}

func (r *FakeReceipt) Kind() ReceiptKind { return ReceiptKindFake }
func (r *FakeReceipt) innerReceipt()     {}

func (r *FakeReceipt) ReceiptClaim() (*Claim, error) {
	if r.Claim == nil {
		return nil, fmt.Errorf("%w: fake receipt without claim", ErrMalformedReceipt)
	}
	return r.Claim.Clone(), nil
}

func (r *FakeReceipt) verifyIntegrity(ctx *VerifierContext) error {
	if r.Claim == nil {
		return fmt.Errorf("%w: fake receipt without claim", ErrMalformedReceipt)
	}
	if !DevModeSupported() {
		return ErrDevModeDisabled
	}
	if !ctx.DevMode {
		return ErrFakeReceipt
	}
	return nil
}
