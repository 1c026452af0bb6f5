package vm

import "errors"

var (
	// ErrIllegalInstruction is returned when the guest decodes an opcode
	// outside the instruction set.
	ErrIllegalInstruction = errors.New("vm: illegal instruction")

	// ErrLoadAddressMisaligned is returned by word loads at addresses that
	// are not multiples of four.
	ErrLoadAddressMisaligned = errors.New("vm: load address misaligned")

	// ErrStoreAddressMisaligned is returned by word stores at addresses
	// that are not multiples of four.
	ErrStoreAddressMisaligned = errors.New("vm: store address misaligned")

	// ErrStackUnderflow is returned when an instruction pops more elements
	// than the stack holds.
	ErrStackUnderflow = errors.New("vm: stack underflow")

	// ErrInputExhausted is returned when read_input runs past the end of
	// the provided input stream.
	ErrInputExhausted = errors.New("vm: input exhausted")

	// ErrProgramCounterOutOfRange is returned when execution runs off the
	// end of the program without halting or pausing.
	ErrProgramCounterOutOfRange = errors.New("vm: program counter out of range")

	// ErrSessionLimitExceeded is returned when a session exceeds the
	// configured total cycle budget.
	ErrSessionLimitExceeded = errors.New("vm: session cycle limit exceeded")
)
