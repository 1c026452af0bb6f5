package receipt

import (
	"fmt"
)

// Claim contains the public statement a receipt attests to: that a program
// whose initial machine state hashes to PreStateDigest, given input hashing
// to InputDigest, reached the machine state hashing to PostStateDigest,
// terminated with ExitCode, and committed a journal hashing to JournalDigest.
//
// A claim with a non-empty assumption list is conditional: it holds only if
// every listed assumption claim also holds. Assumptions are discharged one at
// a time through resolution, never by mutation of an existing claim.
type Claim struct {
	// PreStateDigest is the digest of the machine state before execution.
	// For a session's first segment this is the program's image ID.
	PreStateDigest Digest

	// PostStateDigest is the digest of the machine state after execution.
	PostStateDigest Digest

	// ExitCode is how this span of execution ended.
	ExitCode ExitCode

	// InputDigest is the digest of the public input stream.
	InputDigest Digest

	// JournalDigest is the digest of the committed public output. It is the
	// zero digest for spans that end in SystemSplit.
	JournalDigest Digest

	// Assumptions lists the claim digests this claim conditionally depends
	// on, in the order the guest recorded them.
	Assumptions []Digest
}

// IsConditional reports whether the claim still depends on unresolved
// assumptions.
func (c *Claim) IsConditional() bool {
	return len(c.Assumptions) > 0
}

// Digest computes the claim's structure digest over its word encoding.
func (c *Claim) Digest() Digest {
	var e wordEncoder
	c.encode(&e)
	return HashWords(e.words)
}

// Equal reports whether two claims are identical field for field.
func (c *Claim) Equal(o *Claim) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.PreStateDigest != o.PreStateDigest ||
		c.PostStateDigest != o.PostStateDigest ||
		c.ExitCode != o.ExitCode ||
		c.InputDigest != o.InputDigest ||
		c.JournalDigest != o.JournalDigest ||
		len(c.Assumptions) != len(o.Assumptions) {
		return false
	}
	for i := range c.Assumptions {
		if c.Assumptions[i] != o.Assumptions[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. Claims are value types: every operation on a
// claim produces a new one.
func (c *Claim) Clone() *Claim {
	out := *c
	out.Assumptions = append([]Digest(nil), c.Assumptions...)
	return &out
}

// JoinClaims combines the claims of two sequentially adjacent spans into the
// claim of their concatenation. The first claim must end in SystemSplit and
// its post-state digest must equal the second claim's pre-state digest.
//
// The operation is associative: joining (a,b) then c yields the same claim as
// joining a then (b,c). Composition order is a performance choice only.
func JoinClaims(a, b *Claim) (*Claim, error) {
	if a.ExitCode.IsTerminal() {
		return nil, fmt.Errorf("%w: left claim already terminal (%s)", ErrClaimsNotAdjacent, a.ExitCode)
	}
	if a.PostStateDigest != b.PreStateDigest {
		return nil, fmt.Errorf("%w: post %s != pre %s", ErrClaimsNotAdjacent,
			a.PostStateDigest, b.PreStateDigest)
	}
	if a.InputDigest != b.InputDigest {
		return nil, fmt.Errorf("%w: input digests differ", ErrClaimsNotAdjacent)
	}

	out := &Claim{
		PreStateDigest:  a.PreStateDigest,
		PostStateDigest: b.PostStateDigest,
		ExitCode:        b.ExitCode,
		InputDigest:     a.InputDigest,
		JournalDigest:   b.JournalDigest,
	}
	out.Assumptions = append(out.Assumptions, a.Assumptions...)
	out.Assumptions = append(out.Assumptions, b.Assumptions...)
	return out, nil
}

// ResolveClaim discharges one pending assumption of the conditional claim
// using the corroborating claim. The first assumption digest equal to the
// corroboration's claim digest is removed; the inputs are not mutated.
func ResolveClaim(conditional, corroboration *Claim) (*Claim, error) {
	if corroboration.IsConditional() {
		return nil, fmt.Errorf("%w: corroborating claim is itself conditional", ErrAssumptionMismatch)
	}
	target := corroboration.Digest()
	for i, a := range conditional.Assumptions {
		if a == target {
			out := conditional.Clone()
			out.Assumptions = append(out.Assumptions[:i:i], out.Assumptions[i+1:]...)
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: claim %s", ErrAssumptionMismatch, target)
}

// encode appends the claim's word encoding to the encoder.
func (c *Claim) encode(e *wordEncoder) {
	e.digest(c.PreStateDigest)
	e.digest(c.PostStateDigest)
	e.u32(uint32(c.ExitCode.Kind))
	e.u32(c.ExitCode.Code)
	e.digest(c.InputDigest)
	e.digest(c.JournalDigest)
	e.u32(uint32(len(c.Assumptions)))
	for _, a := range c.Assumptions {
		e.digest(a)
	}
}

// decodeClaim reads a claim from the decoder.
func decodeClaim(d *wordDecoder) *Claim {
	c := &Claim{
		PreStateDigest: d.readDigest(),
	}
	c.PostStateDigest = d.readDigest()
	c.ExitCode.Kind = ExitKind(d.readU32())
	c.ExitCode.Code = d.readU32()
	c.InputDigest = d.readDigest()
	c.JournalDigest = d.readDigest()
	n := d.readU32()
	if n > maxCodecElems {
		d.fail("assumption count out of range")
		return c
	}
	for i := uint32(0); i < n && d.err == nil; i++ {
		c.Assumptions = append(c.Assumptions, d.readDigest())
	}
	return c
}
