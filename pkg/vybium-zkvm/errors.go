package vybiumzkvm

import (
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/prove"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/vm"
)

// Verification errors. Match with errors.Is.
var (
	ErrImageIDMismatch    = receipt.ErrImageIDMismatch
	ErrIntegrity          = receipt.ErrIntegrity
	ErrConditionalReceipt = receipt.ErrConditionalReceipt
	ErrJournalMismatch    = receipt.ErrJournalMismatch
	ErrFakeReceipt        = receipt.ErrFakeReceipt
	ErrDevModeDisabled    = receipt.ErrDevModeDisabled
	ErrAssumptionMismatch = receipt.ErrAssumptionMismatch
	ErrClaimsNotAdjacent  = receipt.ErrClaimsNotAdjacent
	ErrHashSuite          = receipt.ErrHashSuite
	ErrMalformedReceipt   = receipt.ErrMalformedReceipt
	ErrCodec              = receipt.ErrCodec
)

// Proving errors.
var (
	ErrUnsupportedOperation = prove.ErrUnsupportedOperation
	ErrGuestFault           = prove.ErrGuestFault
)

// Guest execution errors.
var (
	ErrIllegalInstruction       = vm.ErrIllegalInstruction
	ErrLoadAddressMisaligned    = vm.ErrLoadAddressMisaligned
	ErrStoreAddressMisaligned   = vm.ErrStoreAddressMisaligned
	ErrStackUnderflow           = vm.ErrStackUnderflow
	ErrInputExhausted           = vm.ErrInputExhausted
	ErrProgramCounterOutOfRange = vm.ErrProgramCounterOutOfRange
	ErrSessionLimitExceeded     = vm.ErrSessionLimitExceeded
)
