package vybiumzkvm

import (
	"os"
	"strconv"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/prove"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/vm"
)

// DevModeEnv is the environment variable that selects the dev-mode
// prover at deploy time.
const DevModeEnv = "VYBIUM_DEV_MODE"

// DevModeFromEnv reads the dev-mode flag from the environment. This is
// the only place the process environment is consulted; libraries take
// the flag as an explicit parameter.
func DevModeFromEnv() bool {
	v := os.Getenv(DevModeEnv)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		// Any non-empty unparsable value counts as enabled, so that
		// VYBIUM_DEV_MODE=yes does not silently prove for real.
		return true
	}
	return b
}

// DevModeSupported reports whether dev mode is compiled into this binary.
func DevModeSupported() bool {
	return receipt.DevModeSupported()
}

// NewProverServer creates the default local proving backend.
func NewProverServer(opts *ProverOpts) (ProverServer, error) {
	return prove.GetProverServer(opts, false)
}

// GetProverServer selects a proving backend: the dev-mode stub when
// devMode is set, otherwise the local prover.
func GetProverServer(opts *ProverOpts, devMode bool) (ProverServer, error) {
	return prove.GetProverServer(opts, devMode)
}

// DefaultProverOpts targets a composite receipt with the default suite.
func DefaultProverOpts() *ProverOpts { return prove.DefaultProverOpts() }

// SuccinctProverOpts targets a succinct receipt.
func SuccinctProverOpts() *ProverOpts { return prove.SuccinctProverOpts() }

// CompactProverOpts targets a compact receipt.
func CompactProverOpts() *ProverOpts { return prove.CompactProverOpts() }

// NewProgram creates an empty guest program.
func NewProgram() *Program { return vm.NewProgram() }

// ParseProgram parses a textual guest program, one instruction per line.
func ParseProgram(text string) (*Program, error) { return vm.ParseProgram(text) }

// ParseInstruction parses one textual instruction like "Push(42)".
func ParseInstruction(s string) (*EncodedInstruction, error) { return vm.ParseInstruction(s) }

// NewExecutorEnv creates an execution environment with default limits.
func NewExecutorEnv() *ExecutorEnv { return vm.NewExecutorEnv() }

// NewExecutor creates an executor over a program and environment.
func NewExecutor(program *Program, env *ExecutorEnv) (*Executor, error) {
	return vm.NewExecutor(program, env)
}

// ImageID computes the image ID of a program: the digest of its initial
// machine state.
func ImageID(program *Program) (Digest, error) {
	exec, err := vm.NewExecutor(program, vm.NewExecutorEnv())
	if err != nil {
		return receipt.ZeroDigest, err
	}
	return exec.ImageID(), nil
}

// DigestFromHex parses a 64-character hex string into a Digest.
func DigestFromHex(s string) (Digest, error) { return receipt.DigestFromHex(s) }

// DefaultVerifierContext accepts every known suite and rejects fake
// receipts.
func DefaultVerifierContext() *VerifierContext {
	return receipt.DefaultVerifierContext()
}

// UnmarshalReceipt parses a receipt from its byte form.
func UnmarshalReceipt(data []byte) (*Receipt, error) {
	return receipt.UnmarshalReceipt(data)
}

// DecodeReceipt parses a receipt from its word form.
func DecodeReceipt(words []uint32) (*Receipt, error) {
	return receipt.DecodeReceipt(words)
}
