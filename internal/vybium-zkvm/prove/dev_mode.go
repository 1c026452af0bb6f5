package prove

import (
	"context"
	"fmt"
	"os"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/vm"
)

// DevModeProver executes the guest but skips proof generation entirely,
// producing fake receipts that carry a claim and nothing else. Orders of
// magnitude faster than real proving; completely insecure.
//
// Two independent gates keep it out of production: the deploy-time flag
// passed to GetProverServer, and the vybium_disable_dev_mode build tag
// that removes dev-mode support from the binary altogether.
type DevModeProver struct {
	opts *ProverOpts
}

// NewDevModeProver creates the stub prover. It fails in builds where dev
// mode is compiled out.
func NewDevModeProver(opts *ProverOpts) (*DevModeProver, error) {
	if !receipt.DevModeSupported() {
		return nil, receipt.ErrDevModeDisabled
	}
	if opts == nil {
		opts = DefaultProverOpts()
	}
	return &DevModeProver{opts: opts}, nil
}

// Prove executes the program and wraps the resulting claim in a fake
// receipt.
func (p *DevModeProver) Prove(ctx context.Context, env *vm.ExecutorEnv, program *vm.Program) (*ProveInfo, error) {
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

// ProveSession wraps the session claim in a fake receipt without proving
// anything. Every invocation re-checks the build gate and prints a
// warning to stderr; the warning cannot be suppressed.
func (p *DevModeProver) ProveSession(_ context.Context, session *vm.Session) (*ProveInfo, error) {
	if !receipt.DevModeSupported() {
		return nil, receipt.ErrDevModeDisabled
	}
	fmt.Fprintln(os.Stderr,
		"WARNING: proving in dev mode. This receipt is NOT valid for production use.")
	if !p.opts.ProveGuestErrors &&
		session.ExitCode.Kind == receipt.KindHalted && session.ExitCode.Code != 0 {
		return nil, fmt.Errorf("%w: exit code %d", ErrGuestFault, session.ExitCode.Code)
	}
	claim, err := session.Claim()
	if err != nil {
		return nil, err
	}
	// Assumptions backed by a receipt in the environment count as
	// discharged, mirroring what real proving would resolve.
	for _, a := range session.Assumptions {
		if a.Receipt == nil || a.Claim == nil {
			continue
		}
		resolved, err := receipt.ResolveClaim(claim, a.Claim)
		if err != nil {
			return nil, err
		}
		claim = resolved
	}
	return &ProveInfo{
		Receipt: &receipt.Receipt{
			Inner:   &receipt.FakeReceipt{Claim: claim},
			Journal: receipt.Journal{Bytes: session.Journal},
		},
		Stats: session.Stats(),
	}, nil
}

// ProveSegment is not available in dev mode.
func (p *DevModeProver) ProveSegment(context.Context, *vm.Segment) (*receipt.SegmentReceipt, error) {
	return nil, fmt.Errorf("%w: prove_segment in dev mode", ErrUnsupportedOperation)
}

// Lift is not available in dev mode.
func (p *DevModeProver) Lift(*receipt.SegmentReceipt) (*receipt.SuccinctReceipt, error) {
	return nil, fmt.Errorf("%w: lift in dev mode", ErrUnsupportedOperation)
}

// Join is not available in dev mode.
func (p *DevModeProver) Join(_, _ *receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error) {
	return nil, fmt.Errorf("%w: join in dev mode", ErrUnsupportedOperation)
}

// Resolve is not available in dev mode.
func (p *DevModeProver) Resolve(_, _ *receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error) {
	return nil, fmt.Errorf("%w: resolve in dev mode", ErrUnsupportedOperation)
}

// IdentityP254 is not available in dev mode.
func (p *DevModeProver) IdentityP254(*receipt.SuccinctReceipt) (*receipt.SuccinctReceipt, error) {
	return nil, fmt.Errorf("%w: identity_p254 in dev mode", ErrUnsupportedOperation)
}

// Compress returns a fake receipt for a fake input regardless of the
// requested kind; dev mode never upgrades a receipt to a real one.
func (p *DevModeProver) Compress(_ context.Context, opts *ProverOpts, r *receipt.Receipt) (*receipt.Receipt, error) {
	switch inner := r.Inner.(type) {
	case *receipt.FakeReceipt:
		return &receipt.Receipt{
			Inner:   &receipt.FakeReceipt{Claim: inner.Claim.Clone()},
			Journal: r.Journal,
		}, nil
	default:
		return nil, fmt.Errorf("%w: compress of %s receipt in dev mode",
			ErrUnsupportedOperation, r.Kind())
	}
}
