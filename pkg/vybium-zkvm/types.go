package vybiumzkvm

import (
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/prove"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/vm"
)

// Digest is a 32-byte hash value. Image IDs, claim digests, and journal
// digests are all Digests.
type Digest = receipt.Digest

// Claim is the public statement a receipt attests to.
type Claim = receipt.Claim

// ExitCode describes how an execution span ended.
type ExitCode = receipt.ExitCode

// Receipt attests to a guest execution and carries its journal.
type Receipt = receipt.Receipt

// Journal is the guest's committed public output.
type Journal = receipt.Journal

// ReceiptKind orders receipt representations by strength.
type ReceiptKind = receipt.ReceiptKind

// VerifierContext carries verification policy.
type VerifierContext = receipt.VerifierContext

// InnerReceipt is the closed union of proof representations.
type InnerReceipt = receipt.InnerReceipt

// SegmentReceipt proves one segment in isolation.
type SegmentReceipt = receipt.SegmentReceipt

// CompositeReceipt is a per-segment list of proofs.
type CompositeReceipt = receipt.CompositeReceipt

// SuccinctReceipt is a single recursive proof.
type SuccinctReceipt = receipt.SuccinctReceipt

// CompactReceipt is a constant-size wrapped proof.
type CompactReceipt = receipt.CompactReceipt

// FakeReceipt is the dev-mode stub.
type FakeReceipt = receipt.FakeReceipt

// Program is a guest program.
type Program = vm.Program

// Instruction is a guest VM opcode.
type Instruction = vm.Instruction

// EncodedInstruction pairs an instruction with its argument.
type EncodedInstruction = vm.EncodedInstruction

// ExecutorEnv configures a guest execution.
type ExecutorEnv = vm.ExecutorEnv

// Assumption is a claim the guest relies on.
type Assumption = vm.Assumption

// Executor runs a guest program.
type Executor = vm.Executor

// Session is the record of one guest run.
type Session = vm.Session

// Segment is one provable span of execution.
type Segment = vm.Segment

// SessionStats aggregates execution counters.
type SessionStats = vm.SessionStats

// SessionEvents receives lifecycle callbacks while a session's segments
// are proven.
type SessionEvents = vm.SessionEvents

// ProverServer is the proving backend contract.
type ProverServer = prove.ProverServer

// ProverOpts selects the hash suite and target receipt kind.
type ProverOpts = prove.ProverOpts

// ProveInfo bundles a proving result with execution statistics.
type ProveInfo = prove.ProveInfo

// Guest instruction opcodes.
const (
	Halt      = vm.Halt
	Pause     = vm.Pause
	Nop       = vm.Nop
	Push      = vm.Push
	Pop       = vm.Pop
	Dup       = vm.Dup
	Add       = vm.Add
	Mul       = vm.Mul
	Store     = vm.Store
	Load      = vm.Load
	ReadInput = vm.ReadInput
	Commit    = vm.Commit
	Sha       = vm.Sha
	Assume    = vm.Assume
)

// Receipt kinds, ordered by strength.
const (
	ReceiptKindComposite = receipt.ReceiptKindComposite
	ReceiptKindSuccinct  = receipt.ReceiptKindSuccinct
	ReceiptKindCompact   = receipt.ReceiptKindCompact
	ReceiptKindFake      = receipt.ReceiptKindFake
)

// Seal hash suites.
const (
	SuiteSha256   = receipt.SuiteSha256
	SuiteSha3     = receipt.SuiteSha3
	SuiteBlake2b  = receipt.SuiteBlake2b
	SuitePoseidon = receipt.SuitePoseidon
)
