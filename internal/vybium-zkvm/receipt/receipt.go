package receipt

import (
	"bytes"
	"fmt"
)

// Journal is the public output committed by the guest program.
type Journal struct {
	Bytes []byte
}

// Digest hashes the journal bytes with SHA-256.
func (j *Journal) Digest() Digest {
	if j == nil {
		return HashBytes(nil)
	}
	return HashBytes(j.Bytes)
}

// Receipt attests that a guest program identified by an image ID executed
// from its initial state to a terminal state, committing the attached
// journal along the way.
type Receipt struct {
	// Inner is the proof backing this receipt.
	Inner InnerReceipt

	// Journal is the guest's committed public output.
	Journal Journal
}

// Kind reports the representation of the backing proof.
func (r *Receipt) Kind() ReceiptKind {
	return r.Inner.Kind()
}

// Claim recovers the claim the backing proof attests to.
func (r *Receipt) Claim() (*Claim, error) {
	return r.Inner.ReceiptClaim()
}

// Verify checks the receipt end to end against the expected image ID using
// the default verifier context.
func (r *Receipt) Verify(imageID Digest) error {
	return r.VerifyWithContext(imageID, DefaultVerifierContext())
}

// VerifyWithContext checks proof integrity (which rejects conditional
// claims) and then binds the claim to the image ID and the attached
// journal.
func (r *Receipt) VerifyWithContext(imageID Digest, ctx *VerifierContext) error {
	if err := r.VerifyIntegrityWithContext(ctx); err != nil {
		return err
	}
	claim, err := r.Inner.ReceiptClaim()
	if err != nil {
		return err
	}
	if !claim.ExitCode.IsTerminal() {
		return fmt.Errorf("%w: exit code %s is not terminal", ErrIntegrity, claim.ExitCode)
	}
	if claim.PreStateDigest != imageID {
		return fmt.Errorf("%w: claim pre-state %s, want %s",
			ErrImageIDMismatch, claim.PreStateDigest, imageID)
	}
	if got := r.Journal.Digest(); claim.JournalDigest != got {
		return fmt.Errorf("%w: claim commits %s, journal hashes to %s",
			ErrJournalMismatch, claim.JournalDigest, got)
	}
	return nil
}

// VerifyIntegrity checks the cryptographic validity of the backing proof,
// without binding to an image ID or journal. A claim that still carries
// unresolved assumptions fails with ErrConditionalReceipt: a conditional
// proof attests to nothing on its own.
func (r *Receipt) VerifyIntegrity() error {
	return r.VerifyIntegrityWithContext(DefaultVerifierContext())
}

// VerifyIntegrityWithContext is VerifyIntegrity under an explicit context.
func (r *Receipt) VerifyIntegrityWithContext(ctx *VerifierContext) error {
	if r.Inner == nil {
		return fmt.Errorf("%w: receipt without inner proof", ErrMalformedReceipt)
	}
	if err := r.Inner.verifyIntegrity(ctx); err != nil {
		return err
	}
	claim, err := r.Inner.ReceiptClaim()
	if err != nil {
		return err
	}
	if claim.IsConditional() {
		return fmt.Errorf("%w: %d unresolved assumptions", ErrConditionalReceipt, len(claim.Assumptions))
	}
	return nil
}

// Equal reports whether two receipts encode to the same words.
func (r *Receipt) Equal(other *Receipt) bool {
	if r == nil || other == nil {
		return r == other
	}
	a, errA := r.Words()
	b, errB := other.Words()
	if errA != nil || errB != nil {
		return false
	}
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

// JournalEqual reports whether the journal bytes match exactly.
func (r *Receipt) JournalEqual(data []byte) bool {
	return bytes.Equal(r.Journal.Bytes, data)
}

// VerifierContext carries verification policy: which seal suites are
// acceptable and whether dev-mode receipts are admissible at all.
type VerifierContext struct {
	// SealSuites lists acceptable hash suite names. Empty means the
	// defaults.
	SealSuites []string

	// DevMode permits fake receipts to pass verification. It has effect
	// only in builds where dev mode is compiled in.
	DevMode bool
}

// DefaultVerifierContext accepts every known suite and rejects fake
// receipts.
func DefaultVerifierContext() *VerifierContext {
	return &VerifierContext{
		SealSuites: []string{SuiteSha256, SuiteSha3, SuiteBlake2b, SuitePoseidon, SuiteP254},
	}
}

// WithDevMode returns the context with dev-mode admissibility set.
func (c *VerifierContext) WithDevMode(enabled bool) *VerifierContext {
	c.DevMode = enabled
	return c
}

// WithSealSuites returns the context restricted to the named suites.
func (c *VerifierContext) WithSealSuites(suites ...string) *VerifierContext {
	c.SealSuites = suites
	return c
}

// SuiteAllowed reports whether the named suite is acceptable under this
// context.
func (c *VerifierContext) SuiteAllowed(name string) bool {
	if !KnownSuite(name) {
		return false
	}
	if len(c.SealSuites) == 0 {
		return true
	}
	for _, s := range c.SealSuites {
		if s == name {
			return true
		}
	}
	return false
}
