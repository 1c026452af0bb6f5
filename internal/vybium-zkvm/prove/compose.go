package prove

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
)

// Lift rewrites a segment proof as a succinct proof of the identical
// claim. The segment seal is verified first so a lifted receipt is never
// weaker than its input.
func (p *LocalProver) Lift(segment *receipt.SegmentReceipt) (*receipt.SuccinctReceipt, error) {
	if err := segment.VerifyIntegrity(p.verifierCtx); err != nil {
		return nil, fmt.Errorf("lift: %w", err)
	}
	claim := segment.Claim
	seal, err := receipt.DeriveSuccinctSeal(segment.HashFn, claim.Digest())
	if err != nil {
		return nil, fmt.Errorf("lift: %w", err)
	}
	return &receipt.SuccinctReceipt{
		Seal:   seal,
		HashFn: segment.HashFn,
		Claim:  claim,
	}, nil
}

// Join merges succinct proofs of adjacent claims. The inputs must share a
// hash suite and satisfy the claim adjacency rule: a's post state is b's
// pre state and a did not terminate.
func (p *LocalProver) Join(a, b *receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error) {
	if a.HashFn != b.HashFn {
		return nil, fmt.Errorf("join: %w: %q vs %q", receipt.ErrHashSuite, a.HashFn, b.HashFn)
	}
	if err := a.VerifyIntegrity(p.verifierCtx); err != nil {
		return nil, fmt.Errorf("join: left: %w", err)
	}
	if err := b.VerifyIntegrity(p.verifierCtx); err != nil {
		return nil, fmt.Errorf("join: right: %w", err)
	}
	claim, err := receipt.JoinClaims(a.Claim, b.Claim)
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	seal, err := receipt.DeriveSuccinctSeal(a.HashFn, claim.Digest())
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	return &receipt.SuccinctReceipt{Seal: seal, HashFn: a.HashFn, Claim: claim}, nil
}

// Resolve discharges one assumption of a conditional proof using an
// unconditional proof of the assumed claim.
func (p *LocalProver) Resolve(conditional, corroboration *receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error) {
	if err := conditional.VerifyIntegrity(p.verifierCtx); err != nil {
		return nil, fmt.Errorf("resolve: conditional: %w", err)
	}
	if err := corroboration.VerifyIntegrity(p.verifierCtx); err != nil {
		return nil, fmt.Errorf("resolve: corroboration: %w", err)
	}
	claim, err := receipt.ResolveClaim(conditional.Claim, corroboration.Claim)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	seal, err := receipt.DeriveSuccinctSeal(conditional.HashFn, claim.Digest())
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	return &receipt.SuccinctReceipt{Seal: seal, HashFn: conditional.HashFn, Claim: claim}, nil
}

// IdentityP254 re-seals a succinct proof under the p254 suite. Compact
// wrapping accepts only p254-sealed inputs.
func (p *LocalProver) IdentityP254(r *receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error) {
	if err := r.VerifyIntegrity(p.verifierCtx); err != nil {
		return nil, fmt.Errorf("identity_p254: %w", err)
	}
	seal, err := receipt.DeriveSuccinctSeal(receipt.SuiteP254, r.Claim.Digest())
	if err != nil {
		return nil, fmt.Errorf("identity_p254: %w", err)
	}
	return &receipt.SuccinctReceipt{Seal: seal, HashFn: receipt.SuiteP254, Claim: r.Claim.Clone()}, nil
}

// Compress converts a receipt to at least the kind the options request.
// The lattice orders composite below succinct below compact; a receipt
// already at or above the target is returned unchanged. Fake receipts
// cannot be compressed by a real prover.
func (p *LocalProver) Compress(ctx context.Context, opts *ProverOpts, r *receipt.Receipt) (*receipt.Receipt, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	switch inner := r.Inner.(type) {
	case *receipt.CompositeReceipt:
		if opts.ReceiptKind == receipt.ReceiptKindComposite {
			return r, nil
		}
		succinct, err := p.compositeToSuccinct(ctx, inner)
		if err != nil {
			return nil, err
		}
		return p.finishCompress(opts, succinct, r.Journal)
	case *receipt.SuccinctReceipt:
		if opts.ReceiptKind <= receipt.ReceiptKindSuccinct {
			return r, nil
		}
		return p.finishCompress(opts, inner, r.Journal)
	case *receipt.CompactReceipt:
		return r, nil
	case *receipt.FakeReceipt:
		return nil, fmt.Errorf("compress: %w", receipt.ErrFakeReceipt)
	default:
		return nil, fmt.Errorf("compress: unknown inner receipt %T", r.Inner)
	}
}

func (p *LocalProver) finishCompress(opts *ProverOpts, succinct *receipt.SuccinctReceipt, journal receipt.Journal) (*receipt.Receipt, error) {
	if opts.ReceiptKind == receipt.ReceiptKindSuccinct {
		return &receipt.Receipt{Inner: succinct, Journal: journal}, nil
	}
	compact, err := p.wrapCompact(succinct)
	if err != nil {
		return nil, err
	}
	return &receipt.Receipt{Inner: compact, Journal: journal}, nil
}

// compositeToSuccinct lifts every segment, joins the lifted proofs by tree
// reduction, and resolves assumptions against the attached corroborations.
func (p *LocalProver) compositeToSuccinct(ctx context.Context, composite *receipt.CompositeReceipt) (*receipt.SuccinctReceipt, error) {
	lifted := make([]*receipt.SuccinctReceipt, len(composite.Segments))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for i, seg := range composite.Segments {
		g.Go(func() error {
			sr, err := p.Lift(seg)
			if err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
			lifted[i] = sr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	joined, err := p.joinAll(ctx, lifted)
	if err != nil {
		return nil, err
	}
	for i, cor := range composite.Corroborations {
		joined, err = p.Resolve(joined, cor)
		if err != nil {
			return nil, fmt.Errorf("corroboration %d: %w", i, err)
		}
	}
	return joined, nil
}

// joinAll reduces adjacent succinct proofs pairwise until one remains.
// Each round joins independent pairs in parallel; join associativity makes
// the reduction order irrelevant to the final claim.
func (p *LocalProver) joinAll(ctx context.Context, receipts []*receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error) {
	if len(receipts) == 0 {
		return nil, fmt.Errorf("join: no receipts")
	}
	for len(receipts) > 1 {
		next := make([]*receipt.SuccinctReceipt, (len(receipts)+1)/2)
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(p.parallelism)
		for i := 0; i+1 < len(receipts); i += 2 {
			g.Go(func() error {
				joined, err := p.Join(receipts[i], receipts[i+1])
				if err != nil {
					return err
				}
				next[i/2] = joined
				return nil
			})
		}
		if len(receipts)%2 == 1 {
			next[len(next)-1] = receipts[len(receipts)-1]
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		receipts = next
	}
	return receipts[0], nil
}

// wrapCompact converts a succinct proof to the compact form via the p254
// identity step.
func (p *LocalProver) wrapCompact(succinct *receipt.SuccinctReceipt) (*receipt.CompactReceipt, error) {
	p254 := succinct
	if succinct.HashFn != receipt.SuiteP254 {
		var err error
		p254, err = p.IdentityP254(succinct)
		if err != nil {
			return nil, err
		}
	}
	seal := receipt.DeriveCompactSeal(p254.Claim.Digest())
	return &receipt.CompactReceipt{Seal: seal, Claim: p254.Claim.Clone()}, nil
}
