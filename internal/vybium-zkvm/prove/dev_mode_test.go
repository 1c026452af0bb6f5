package prove

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/vm"
)

func devProver(t *testing.T) *DevModeProver {
	t.Helper()
	p, err := NewDevModeProver(DefaultProverOpts())
	if err != nil {
		t.Fatalf("NewDevModeProver failed: %v", err)
	}
	return p
}

// TestDevModeProve checks that dev mode executes for real but proves
// nothing.
func TestDevModeProve(t *testing.T) {
	ctx := context.Background()
	program := addProgram()
	imageID := imageIDOf(t, program)

	info, err := devProver(t).Prove(ctx, vm.NewExecutorEnv(), program)
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}
	if info.Receipt.Kind() != receipt.ReceiptKindFake {
		t.Fatalf("kind = %v, want fake", info.Receipt.Kind())
	}
	if info.Receipt.Journal.Bytes[0] != 7 {
		t.Errorf("journal word = %d, want 7", info.Receipt.Journal.Bytes[0])
	}

	// The claim is real even though the proof is not.
	claim, err := info.Receipt.Claim()
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claim.PreStateDigest != imageID {
		t.Error("fake receipt claim does not start at the image ID")
	}

	// Default verification rejects it; a dev-mode context accepts it.
	if err := info.Receipt.Verify(imageID); !errors.Is(err, receipt.ErrFakeReceipt) {
		t.Errorf("err = %v, want ErrFakeReceipt", err)
	}
	vctx := receipt.DefaultVerifierContext().WithDevMode(true)
	if err := info.Receipt.VerifyWithContext(imageID, vctx); err != nil {
		t.Errorf("dev-mode Verify failed: %v", err)
	}
}

// TestDevModeUnsupportedOps checks that composition steps are rejected.
func TestDevModeUnsupportedOps(t *testing.T) {
	p := devProver(t)

	if _, err := p.ProveSegment(context.Background(), &vm.Segment{}); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("ProveSegment err = %v, want ErrUnsupportedOperation", err)
	}
	if _, err := p.Lift(&receipt.SegmentReceipt{}); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("Lift err = %v, want ErrUnsupportedOperation", err)
	}
	if _, err := p.Join(nil, nil); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("Join err = %v, want ErrUnsupportedOperation", err)
	}
	if _, err := p.Resolve(nil, nil); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("Resolve err = %v, want ErrUnsupportedOperation", err)
	}
	if _, err := p.IdentityP254(nil); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("IdentityP254 err = %v, want ErrUnsupportedOperation", err)
	}
}

// TestDevModeCompress checks that compress keeps fake receipts fake and
// rejects real ones.
func TestDevModeCompress(t *testing.T) {
	ctx := context.Background()
	p := devProver(t)

	info, err := p.Prove(ctx, vm.NewExecutorEnv(), addProgram())
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}

	for _, opts := range []*ProverOpts{DefaultProverOpts(), SuccinctProverOpts(), CompactProverOpts()} {
		out, err := p.Compress(ctx, opts, info.Receipt)
		if err != nil {
			t.Fatalf("Compress failed: %v", err)
		}
		if out.Kind() != receipt.ReceiptKindFake {
			t.Errorf("compress to %v produced %v, want fake", opts.ReceiptKind, out.Kind())
		}
	}

	real := &receipt.Receipt{
		Inner: succinctFromClaim(t, &receipt.Claim{
			PreStateDigest:  receipt.HashBytes([]byte("pre")),
			PostStateDigest: receipt.HashBytes([]byte("post")),
			ExitCode:        receipt.Halted(0),
		}),
	}
	if _, err := p.Compress(ctx, DefaultProverOpts(), real); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("err = %v, want ErrUnsupportedOperation", err)
	}
}

func succinctFromClaim(t *testing.T, claim *receipt.Claim) *receipt.SuccinctReceipt {
	t.Helper()
	seal, err := receipt.DeriveSuccinctSeal(receipt.SuiteSha256, claim.Digest())
	if err != nil {
		t.Fatalf("DeriveSuccinctSeal failed: %v", err)
	}
	return &receipt.SuccinctReceipt{Seal: seal, HashFn: receipt.SuiteSha256, Claim: claim}
}

// TestDevModeResolvesBackedAssumptions checks that a receipt-backed
// assumption leaves the fake receipt unconditional, while a bare claim
// keeps it conditional.
func TestDevModeResolvesBackedAssumptions(t *testing.T) {
	ctx := context.Background()
	p := devProver(t)

	assumedInfo, err := p.Prove(ctx, vm.NewExecutorEnv(), addProgram())
	if err != nil {
		t.Fatalf("Prove assumed failed: %v", err)
	}
	assumedClaim, err := assumedInfo.Receipt.Claim()
	if err != nil {
		t.Fatalf("assumed claim: %v", err)
	}

	program := vm.NewProgram()
	ws := assumedClaim.Digest().Words()
	for _, w := range ws {
		program.Add(vm.Push, w)
	}
	program.Add(vm.Assume, 0).Add(vm.Halt, 0)

	t.Run("Backed", func(t *testing.T) {
		env := vm.NewExecutorEnv().AddAssumption(assumedInfo.Receipt)
		info, err := p.Prove(ctx, env, program)
		if err != nil {
			t.Fatalf("Prove failed: %v", err)
		}
		claim, _ := info.Receipt.Claim()
		if claim.IsConditional() {
			t.Error("backed assumption left the claim conditional")
		}
	})

	t.Run("Bare", func(t *testing.T) {
		env := vm.NewExecutorEnv().AddAssumptionClaim(assumedClaim)
		info, err := p.Prove(ctx, env, program)
		if err != nil {
			t.Fatalf("Prove failed: %v", err)
		}
		claim, _ := info.Receipt.Claim()
		if !claim.IsConditional() {
			t.Error("bare assumption did not leave the claim conditional")
		}
	})
}

// TestDevModeWarnsEveryInvocation checks that each proving call prints
// the dev-mode warning, not just prover construction.
func TestDevModeWarnsEveryInvocation(t *testing.T) {
	p := devProver(t)

	orig := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	ctx := context.Background()
	const runs = 3
	for i := 0; i < runs; i++ {
		if _, err := p.Prove(ctx, vm.NewExecutorEnv(), addProgram()); err != nil {
			os.Stderr = orig
			t.Fatalf("Prove %d failed: %v", i, err)
		}
	}
	w.Close()
	os.Stderr = orig

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.Count(string(out), "WARNING: proving in dev mode"); got != runs {
		t.Errorf("warnings = %d, want %d", got, runs)
	}
}
