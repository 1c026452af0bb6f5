package vm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
)

func mustRun(t *testing.T, program *Program, env *ExecutorEnv) *Session {
	t.Helper()
	exec, err := NewExecutor(program, env)
	if err != nil {
		t.Fatalf("NewExecutor failed: %v", err)
	}
	session, err := exec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return session
}

// TestBasicExecution tests the core instruction set end to end.
func TestBasicExecution(t *testing.T) {
	t.Run("AddAndCommit", func(t *testing.T) {
		program := NewProgram().
			Add(Push, 3).
			Add(Push, 4).
			Add(Add, 0).
			Add(Commit, 0).
			Add(Halt, 0)

		session := mustRun(t, program, nil)
		if session.ExitCode.Kind != receipt.KindHalted || session.ExitCode.Code != 0 {
			t.Errorf("ExitCode = %v, want Halted(0)", session.ExitCode)
		}
		want := []byte{7, 0, 0, 0}
		if string(session.Journal) != string(want) {
			t.Errorf("Journal = %v, want %v", session.Journal, want)
		}
	})

	t.Run("MulViaInput", func(t *testing.T) {
		program := NewProgram().
			Add(ReadInput, 0).
			Add(ReadInput, 0).
			Add(Mul, 0).
			Add(Commit, 0).
			Add(Halt, 0)

		env := NewExecutorEnv().Write(6, 7)
		session := mustRun(t, program, env)
		if session.Journal[0] != 42 {
			t.Errorf("journal word = %d, want 42", session.Journal[0])
		}
	})

	t.Run("Dup", func(t *testing.T) {
		program := NewProgram().
			Add(Push, 5).
			Add(Dup, 0).
			Add(Add, 0).
			Add(Commit, 0).
			Add(Halt, 0)

		session := mustRun(t, program, nil)
		if session.Journal[0] != 10 {
			t.Errorf("journal word = %d, want 10", session.Journal[0])
		}
	})

	t.Run("StoreLoad", func(t *testing.T) {
		program := NewProgram().
			Add(Push, 99).
			Add(Push, 64).
			Add(Store, 0).
			Add(Push, 64).
			Add(Load, 0).
			Add(Commit, 0).
			Add(Halt, 0)

		session := mustRun(t, program, nil)
		if session.Journal[0] != 99 {
			t.Errorf("journal word = %d, want 99", session.Journal[0])
		}
	})

	t.Run("HaltWithUserCode", func(t *testing.T) {
		program := NewProgram().Add(Halt, 7)
		session := mustRun(t, program, nil)
		want := receipt.Halted(7)
		if session.ExitCode != want {
			t.Errorf("ExitCode = %v, want %v", session.ExitCode, want)
		}
	})
}

// TestShaInstruction checks the in-guest SHA-256 against known digests.
func TestShaInstruction(t *testing.T) {
	// sha(empty range) must commit the SHA-256 of no bytes.
	program := NewProgram().
		Add(Push, 0). // address
		Add(Push, 0). // length
		Add(Sha, 0).
		Add(Halt, 0)

	session := mustRun(t, program, nil)

	wantHex := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := hex.EncodeToString(session.Journal); got != wantHex {
		t.Errorf("journal = %s, want %s", got, wantHex)
	}

	// A non-empty range hashes exactly the stored bytes.
	program = NewProgram().
		Add(Push, 0x64636261). // "abcd" little-endian
		Add(Push, 0).          // address
		Add(Store, 0).
		Add(Push, 0). // address
		Add(Push, 4). // length
		Add(Sha, 0).
		Add(Halt, 0)

	session = mustRun(t, program, nil)

	sum := sha256.Sum256([]byte("abcd"))
	if got := hex.EncodeToString(session.Journal); got != hex.EncodeToString(sum[:]) {
		t.Errorf("journal = %s, want %x", got, sum)
	}
}

// TestExecutionFaults checks the guest fault conditions.
func TestExecutionFaults(t *testing.T) {
	run := func(program *Program, env *ExecutorEnv) error {
		exec, err := NewExecutor(program, env)
		if err != nil {
			return err
		}
		_, err = exec.Run(context.Background())
		return err
	}

	t.Run("LoadMisaligned", func(t *testing.T) {
		program := NewProgram().
			Add(Push, 2).
			Add(Load, 0).
			Add(Halt, 0)
		err := run(program, nil)
		if !errors.Is(err, ErrLoadAddressMisaligned) {
			t.Errorf("err = %v, want ErrLoadAddressMisaligned", err)
		}
	})

	t.Run("StoreMisaligned", func(t *testing.T) {
		program := NewProgram().
			Add(Push, 1).
			Add(Push, 6).
			Add(Store, 0).
			Add(Halt, 0)
		err := run(program, nil)
		if !errors.Is(err, ErrStoreAddressMisaligned) {
			t.Errorf("err = %v, want ErrStoreAddressMisaligned", err)
		}
	})

	t.Run("StackUnderflow", func(t *testing.T) {
		program := NewProgram().
			Add(Pop, 0).
			Add(Halt, 0)
		err := run(program, nil)
		if !errors.Is(err, ErrStackUnderflow) {
			t.Errorf("err = %v, want ErrStackUnderflow", err)
		}
	})

	t.Run("InputExhausted", func(t *testing.T) {
		program := NewProgram().
			Add(ReadInput, 0).
			Add(Halt, 0)
		err := run(program, nil)
		if !errors.Is(err, ErrInputExhausted) {
			t.Errorf("err = %v, want ErrInputExhausted", err)
		}
	})

	t.Run("SessionLimit", func(t *testing.T) {
		program := NewProgram()
		for i := 0; i < 64; i++ {
			program.Add(Nop, 0)
		}
		program.Add(Halt, 0)
		err := run(program, NewExecutorEnv().SessionLimit(10))
		if !errors.Is(err, ErrSessionLimitExceeded) {
			t.Errorf("err = %v, want ErrSessionLimitExceeded", err)
		}
	})
}

// TestSegmentation checks that long runs split into multiple segments
// whose claims chain together.
func TestSegmentation(t *testing.T) {
	program := NewProgram()
	for i := 0; i < 100; i++ {
		program.Add(Nop, 0)
	}
	program.Add(Push, 1).Add(Commit, 0).Add(Halt, 0)

	// 2^4 = 16 cycles per segment forces several splits.
	env := NewExecutorEnv().SegmentLimitPo2(4)
	session := mustRun(t, program, env)

	if len(session.Segments) < 2 {
		t.Fatalf("got %d segments, want several", len(session.Segments))
	}
	for i, seg := range session.Segments {
		if seg.Index != uint32(i) {
			t.Errorf("segment %d has index %d", i, seg.Index)
		}
		last := i == len(session.Segments)-1
		if !last && seg.ExitCode != receipt.SystemSplit() {
			t.Errorf("interior segment %d exit = %v, want SystemSplit", i, seg.ExitCode)
		}
		if last && seg.ExitCode != receipt.Halted(0) {
			t.Errorf("final segment exit = %v, want Halted(0)", seg.ExitCode)
		}
		if i > 0 && session.Segments[i-1].PostState != seg.PreState {
			t.Errorf("segments %d and %d are not state-adjacent", i-1, i)
		}
		if seg.Cycles == 0 || seg.Cycles > env.SegmentLimit() {
			t.Errorf("segment %d cycles = %d, limit %d", i, seg.Cycles, env.SegmentLimit())
		}
	}

	claim, err := session.Claim()
	if err != nil {
		t.Fatalf("session claim: %v", err)
	}
	if claim.PreStateDigest != session.Segments[0].PreState {
		t.Error("session claim pre-state does not match first segment")
	}
	if claim.PostStateDigest != session.Segments[len(session.Segments)-1].PostState {
		t.Error("session claim post-state does not match last segment")
	}
	if claim.JournalDigest != session.JournalDigest() {
		t.Error("session claim journal digest does not match journal")
	}
}

// TestPauseResume runs a program that pauses, then resumes it to
// completion on the same executor.
func TestPauseResume(t *testing.T) {
	program := NewProgram().
		Add(Push, 1).
		Add(Commit, 0).
		Add(Pause, 0).
		Add(Push, 2).
		Add(Commit, 0).
		Add(Halt, 0)

	exec, err := NewExecutor(program, nil)
	if err != nil {
		t.Fatalf("NewExecutor failed: %v", err)
	}

	first, err := exec.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if first.ExitCode != receipt.Paused(0) {
		t.Fatalf("first exit = %v, want Paused(0)", first.ExitCode)
	}
	if first.Journal[0] != 1 {
		t.Errorf("first journal word = %d, want 1", first.Journal[0])
	}

	second, err := exec.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if second.ExitCode != receipt.Halted(0) {
		t.Fatalf("second exit = %v, want Halted(0)", second.ExitCode)
	}
	// The journal resets between runs.
	if second.Journal[0] != 2 {
		t.Errorf("second journal word = %d, want 2", second.Journal[0])
	}
	// The resumed session continues from the paused state, under the
	// original image ID.
	if second.Segments[0].PreState != first.Segments[len(first.Segments)-1].PostState {
		t.Error("resumed session does not start from the paused state")
	}
	if second.ImageID != first.ImageID {
		t.Error("resumed session has a different image ID")
	}

	// A third run after halt must fail.
	if _, err := exec.Run(context.Background()); err == nil {
		t.Error("Run after halt succeeded, want error")
	}
}

// TestImageIDStability checks that the image ID depends on the program
// but not on the input.
func TestImageIDStability(t *testing.T) {
	program := NewProgram().
		Add(ReadInput, 0).
		Add(Commit, 0).
		Add(Halt, 0)

	a, _ := NewExecutor(program, NewExecutorEnv().Write(1))
	b, _ := NewExecutor(program, NewExecutorEnv().Write(999))
	if a.ImageID() != b.ImageID() {
		t.Error("image ID varies with input")
	}

	other := NewProgram().
		Add(ReadInput, 0).
		Add(Commit, 0).
		Add(Halt, 1)
	c, _ := NewExecutor(other, NewExecutorEnv().Write(1))
	if a.ImageID() == c.ImageID() {
		t.Error("different programs share an image ID")
	}
}

// TestAssume checks assumption recording and the unknown-digest fault.
func TestAssume(t *testing.T) {
	assumed := &receipt.Claim{
		PreStateDigest:  receipt.HashBytes([]byte("pre")),
		PostStateDigest: receipt.HashBytes([]byte("post")),
		ExitCode:        receipt.Halted(0),
	}
	digestWords := assumed.Digest().Words()

	buildProgram := func() *Program {
		p := NewProgram()
		for _, w := range digestWords {
			p.Add(Push, w)
		}
		p.Add(Assume, 0).Add(Halt, 0)
		return p
	}

	t.Run("Registered", func(t *testing.T) {
		env := NewExecutorEnv().AddAssumptionClaim(assumed)
		session := mustRun(t, buildProgram(), env)
		claim, err := session.Claim()
		if err != nil {
			t.Fatalf("session claim: %v", err)
		}
		if len(claim.Assumptions) != 1 || claim.Assumptions[0] != assumed.Digest() {
			t.Errorf("claim assumptions = %v, want [%s]", claim.Assumptions, assumed.Digest())
		}
		if !claim.IsConditional() {
			t.Error("claim with assumptions is not conditional")
		}
	})

	t.Run("Unregistered", func(t *testing.T) {
		exec, err := NewExecutor(buildProgram(), NewExecutorEnv())
		if err != nil {
			t.Fatalf("NewExecutor failed: %v", err)
		}
		if _, err := exec.Run(context.Background()); err == nil {
			t.Error("assume of unregistered claim succeeded, want error")
		}
	})
}

// TestProgramParsing checks the textual program format.
func TestProgramParsing(t *testing.T) {
	text := `
# add two numbers
Push(3)
Push(4)
Add
Commit
Halt(0)
`
	program, err := ParseProgram(text)
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}
	if len(program.Instructions) != 5 {
		t.Fatalf("got %d instructions, want 5", len(program.Instructions))
	}
	session := mustRun(t, program, nil)
	if session.Journal[0] != 7 {
		t.Errorf("journal word = %d, want 7", session.Journal[0])
	}

	if _, err := ParseProgram("Push\nHalt(0)"); err == nil {
		t.Error("Push without argument parsed, want error")
	}
	if _, err := ParseProgram("Frobnicate(1)\nHalt(0)"); err == nil {
		t.Error("unknown instruction parsed, want error")
	}
}
