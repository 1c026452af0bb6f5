package prove

import (
	"context"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/vm"
)

// ProveInfo bundles a proving result with its execution statistics.
type ProveInfo struct {
	Receipt *receipt.Receipt
	Stats   vm.SessionStats
}

// ProverServer is the proving backend contract. Implementations prove
// whole sessions or single segments and perform the receipt composition
// steps; not every backend supports every step.
type ProverServer interface {
	// Prove executes the program under the environment and proves the
	// resulting session.
	Prove(ctx context.Context, env *vm.ExecutorEnv, program *vm.Program) (*ProveInfo, error)

	// ProveSession proves an already-executed session.
	ProveSession(ctx context.Context, session *vm.Session) (*ProveInfo, error)

	// ProveSegment proves one segment in isolation.
	ProveSegment(ctx context.Context, segment *vm.Segment) (*receipt.SegmentReceipt, error)

	// Lift rewrites a segment proof as a succinct proof of the same claim.
	Lift(segment *receipt.SegmentReceipt) (*receipt.SuccinctReceipt, error)

	// Join merges succinct proofs of adjacent claims into a succinct proof
	// of the combined claim.
	Join(a, b *receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error)

	// Resolve discharges one assumption of a conditional succinct proof
	// using an unconditional succinct proof of the assumed claim.
	Resolve(conditional, corroboration *receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error)

	// IdentityP254 re-seals a succinct proof under the p254 suite, the
	// required input form for compact wrapping.
	IdentityP254(r *receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error)

	// Compress converts a receipt to at least the kind the options
	// request. A receipt already at or above the requested kind is
	// returned unchanged.
	Compress(ctx context.Context, opts *ProverOpts, r *receipt.Receipt) (*receipt.Receipt, error)
}

// GetProverServer selects a backend from the options. Dev mode returns the
// stub prover; it fails if dev mode was compiled out.
func GetProverServer(opts *ProverOpts, devMode bool) (ProverServer, error) {
	if devMode {
		p, err := NewDevModeProver(opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	p, err := NewLocalProver(opts)
	if err != nil {
		return nil, err
	}
	return p, nil
}
