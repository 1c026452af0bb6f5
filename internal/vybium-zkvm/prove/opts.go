// Package prove implements proof generation: the prover server contract,
// the local proving backend, receipt composition, and the dev-mode stub.
package prove

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
)

var (
	// ErrUnsupportedOperation is returned by backends that cannot perform a
	// requested composition step.
	ErrUnsupportedOperation = errors.New("prove: operation not supported by this prover")

	// ErrGuestFault is returned when the guest faults and the options
	// request that faults abort proving.
	ErrGuestFault = errors.New("prove: guest execution faulted")
)

// ProverOpts selects the hash suite and target receipt kind for a proving
// run.
type ProverOpts struct {
	// HashFn names the seal hash suite.
	HashFn string

	// ProveGuestErrors, when set, proves sessions that fault instead of
	// returning the fault to the caller.
	ProveGuestErrors bool

	// ReceiptKind is the requested receipt representation. The prover may
	// return a stronger kind, never a weaker one.
	ReceiptKind receipt.ReceiptKind
}

// DefaultProverOpts targets a composite receipt with the default suite.
func DefaultProverOpts() *ProverOpts {
	return &ProverOpts{
		HashFn:      receipt.SuiteSha256,
		ReceiptKind: receipt.ReceiptKindComposite,
	}
}

// SuccinctProverOpts targets a succinct receipt.
func SuccinctProverOpts() *ProverOpts {
	o := DefaultProverOpts()
	o.ReceiptKind = receipt.ReceiptKindSuccinct
	return o
}

// CompactProverOpts targets a compact receipt.
func CompactProverOpts() *ProverOpts {
	o := DefaultProverOpts()
	o.ReceiptKind = receipt.ReceiptKindCompact
	return o
}

// WithHashFn returns the options with the seal suite replaced.
func (o *ProverOpts) WithHashFn(hashFn string) *ProverOpts {
	o.HashFn = hashFn
	return o
}

// WithReceiptKind returns the options with the target kind replaced.
func (o *ProverOpts) WithReceiptKind(kind receipt.ReceiptKind) *ProverOpts {
	o.ReceiptKind = kind
	return o
}

// Validate checks the options.
func (o *ProverOpts) Validate() error {
	if !receipt.KnownSuite(o.HashFn) {
		return fmt.Errorf("%w: %q", receipt.ErrHashSuite, o.HashFn)
	}
	if o.HashFn == receipt.SuiteP254 {
		return fmt.Errorf("%w: %q is an internal wrapping suite", receipt.ErrHashSuite, o.HashFn)
	}
	switch o.ReceiptKind {
	case receipt.ReceiptKindComposite, receipt.ReceiptKindSuccinct, receipt.ReceiptKindCompact:
		return nil
	case receipt.ReceiptKindFake:
		return fmt.Errorf("fake receipts cannot be requested; use the dev-mode prover")
	default:
		return fmt.Errorf("unknown receipt kind %d", int(o.ReceiptKind))
	}
}
