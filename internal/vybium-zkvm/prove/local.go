package prove

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/merkle"
	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/vm"
)

// LocalProver is the in-process proving backend. It executes the guest,
// proves each segment over a Merkle commitment to its trace, and performs
// every composition step.
type LocalProver struct {
	opts        *ProverOpts
	verifierCtx *receipt.VerifierContext
	parallelism int
	log         *slog.Logger
}

// NewLocalProver creates a local prover from the options.
func NewLocalProver(opts *ProverOpts) (*LocalProver, error) {
	if opts == nil {
		opts = DefaultProverOpts()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &LocalProver{
		opts:        opts,
		verifierCtx: receipt.DefaultVerifierContext(),
		parallelism: runtime.GOMAXPROCS(0),
		log:         slog.Default().With("component", "prover"),
	}, nil
}

// Prove executes the program under the environment and proves the session.
func (p *LocalProver) Prove(ctx context.Context, env *vm.ExecutorEnv, program *vm.Program) (*ProveInfo, error) {
	exec, err := vm.NewExecutor(program, env)
	if err != nil {
		return nil, err
	}
	session, err := exec.Run(ctx)
	if err != nil {
		return nil, err
	}
	return p.ProveSession(ctx, session)
}

// ProveSession proves every segment of the session in parallel, attaches
// succinct corroborations for its assumptions, and compresses the result
// to the requested receipt kind. The returned receipt is verified before
// it leaves the prover; a session whose assumptions are not all backed by
// receipts fails that final check with ErrConditionalReceipt.
func (p *LocalProver) ProveSession(ctx context.Context, session *vm.Session) (*ProveInfo, error) {
	if !session.ExitCode.IsTerminal() {
		return nil, fmt.Errorf("session exit %s is not terminal", session.ExitCode)
	}
	if !p.opts.ProveGuestErrors &&
		session.ExitCode.Kind == receipt.KindHalted && session.ExitCode.Code != 0 {
		return nil, fmt.Errorf("%w: exit code %d", ErrGuestFault, session.ExitCode.Code)
	}

	stats := session.Stats()
	p.log.Debug("proving session",
		"segments", stats.Segments,
		"cycles", stats.TotalCycles,
		"hash_fn", p.opts.HashFn)

	segments := make([]*receipt.SegmentReceipt, len(session.Segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for i, seg := range session.Segments {
		g.Go(func() error {
			for _, h := range session.Hooks {
				h.OnPreProveSegment(seg)
			}
			sr, err := p.ProveSegment(gctx, seg)
			if err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
			for _, h := range session.Hooks {
				h.OnPostProveSegment(seg)
			}
			segments[i] = sr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	composite := &receipt.CompositeReceipt{Segments: segments}
	for i, a := range session.Assumptions {
		if a.Receipt == nil {
			// No receipt to corroborate with: the claim stays conditional
			// and the self-check below rejects it.
			continue
		}
		cor, err := p.toSuccinct(ctx, a.Receipt)
		if err != nil {
			return nil, fmt.Errorf("assumption %d: %w", i, err)
		}
		composite.Corroborations = append(composite.Corroborations, cor)
	}

	out := &receipt.Receipt{
		Inner:   composite,
		Journal: receipt.Journal{Bytes: session.Journal},
	}
	out, err := p.Compress(ctx, p.opts, out)
	if err != nil {
		return nil, err
	}
	if err := out.VerifyIntegrityWithContext(p.verifierCtx); err != nil {
		return nil, fmt.Errorf("proved receipt failed self-check: %w", err)
	}
	return &ProveInfo{Receipt: out, Stats: stats}, nil
}

// ProveSegment commits to the segment trace with a Merkle tree over
// field-encoded rows and seals the segment claim against the commitment
// root.
func (p *LocalProver) ProveSegment(ctx context.Context, segment *vm.Segment) (*receipt.SegmentReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	claim := segment.Claim()
	root, err := commitTrace(segment.Trace)
	if err != nil {
		return nil, fmt.Errorf("trace commitment: %w", err)
	}
	seal, err := receipt.DeriveSegmentSeal(p.opts.HashFn, claim.Digest(), root)
	if err != nil {
		return nil, err
	}
	return &receipt.SegmentReceipt{
		Index:  segment.Index,
		Seal:   seal,
		HashFn: p.opts.HashFn,
		Claim:  claim,
	}, nil
}

// toSuccinct converts an assumption receipt into a succinct corroboration.
func (p *LocalProver) toSuccinct(ctx context.Context, r *receipt.Receipt) (*receipt.SuccinctReceipt, error) {
	switch inner := r.Inner.(type) {
	case *receipt.SuccinctReceipt:
		if err := inner.VerifyIntegrity(p.verifierCtx); err != nil {
			return nil, err
		}
		return inner, nil
	case *receipt.CompositeReceipt:
		return p.compositeToSuccinct(ctx, inner)
	case *receipt.CompactReceipt:
		// Compact proofs are unconditional; verify and re-seal succinctly.
		if err := r.VerifyIntegrityWithContext(p.verifierCtx); err != nil {
			return nil, err
		}
		seal, err := receipt.DeriveSuccinctSeal(p.opts.HashFn, inner.Claim.Digest())
		if err != nil {
			return nil, err
		}
		return &receipt.SuccinctReceipt{Seal: seal, HashFn: p.opts.HashFn, Claim: inner.Claim.Clone()}, nil
	case *receipt.FakeReceipt:
		return nil, fmt.Errorf("%w: fake receipts cannot corroborate real proofs", receipt.ErrFakeReceipt)
	default:
		return nil, fmt.Errorf("unknown inner receipt %T", r.Inner)
	}
}

// commitTrace Merkle-commits the execution trace. Each row is encoded as
// field elements and hashed; leaves are padded to a power of two so the
// tree shape is canonical. The root digest is folded through SHA-256 into
// the 32-byte form the seal embeds.
func commitTrace(trace [][]uint32) (receipt.Digest, error) {
	if len(trace) == 0 {
		return receipt.ZeroDigest, fmt.Errorf("empty trace")
	}
	n := utils.NextPowerOfTwo(len(trace))
	leaves := make([]hash.Digest, n)
	for i, row := range trace {
		elems := make([]field.Element, 0, len(row)+1)
		elems = append(elems, field.New(uint64(len(row))))
		for _, w := range row {
			elems = append(elems, field.New(uint64(w)))
		}
		leaves[i] = hash.HashVarlen(elems)
	}
	pad := hash.HashVarlen([]field.Element{field.New(0)})
	for i := len(trace); i < n; i++ {
		leaves[i] = pad
	}
	tree, err := merkle.New(leaves)
	if err != nil {
		return receipt.ZeroDigest, err
	}
	root := tree.Root()
	rootBytes := make([]byte, len(root)*8)
	for i, elem := range root {
		val := elem.Value()
		for j := 0; j < 8; j++ {
			rootBytes[i*8+j] = byte(val >> (j * 8))
		}
	}
	return receipt.Digest(sha256.Sum256(rootBytes)), nil
}
