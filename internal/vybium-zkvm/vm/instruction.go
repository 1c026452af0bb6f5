// Package vm provides the guest virtual machine: instruction set, memory,
// execution environment, and the segmenting executor.
package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Instruction is a guest VM opcode. The guest machine is a word-oriented
// stack machine: every value it manipulates is a uint32.
type Instruction uint32

const (
	// ========== Control Flow ==========

	// Halt terminates execution with a user exit code argument.
	Halt Instruction = 0

	// Pause suspends execution with a user exit code argument. A paused
	// session can be resumed from its post state.
	Pause Instruction = 1

	// Nop does nothing.
	Nop Instruction = 2

	// ========== Stack Manipulation ==========

	// Push pushes its argument onto the stack.
	Push Instruction = 8

	// Pop removes the top stack element.
	Pop Instruction = 9

	// Dup duplicates the element at stack[i], i given by the argument.
	Dup Instruction = 10

	// ========== Arithmetic ==========

	// Add pops two elements and pushes their wrapping sum.
	Add Instruction = 16

	// Mul pops two elements and pushes their wrapping product.
	Mul Instruction = 17

	// ========== Memory Access ==========

	// Store pops an address then a value and writes the value to RAM.
	Store Instruction = 24

	// Load pops an address and pushes the word at that RAM address.
	Load Instruction = 25

	// ========== I/O ==========

	// ReadInput pushes the next word from the input stream.
	ReadInput Instruction = 32

	// Commit pops a word and appends its little-endian bytes to the
	// journal.
	Commit Instruction = 33

	// ========== Cryptographic ==========

	// Sha hashes n bytes of RAM starting at an address. Pops the byte
	// count then the address and appends the 32-byte SHA-256 digest to
	// the journal.
	Sha Instruction = 40

	// Assume pops eight words forming a claim digest and records it as an
	// assumption of the current session.
	Assume Instruction = 41
)

// InstructionInfo provides metadata about an instruction.
type InstructionInfo struct {
	Opcode      Instruction
	Name        string
	Description string
	StackEffect int  // Net effect on stack depth
	HasArg      bool // Whether instruction takes an argument
}

// AllInstructions returns information about every guest instruction.
var AllInstructions = map[Instruction]InstructionInfo{
	Halt:      {Halt, "halt", "Terminate execution", 0, true},
	Pause:     {Pause, "pause", "Suspend execution", 0, true},
	Nop:       {Nop, "nop", "No operation", 0, false},
	Push:      {Push, "push", "Push argument onto stack", 1, true},
	Pop:       {Pop, "pop", "Remove top of stack", -1, false},
	Dup:       {Dup, "dup", "Duplicate stack[i] to top", 1, true},
	Add:       {Add, "add", "Add top two elements", -1, false},
	Mul:       {Mul, "mul", "Multiply top two elements", -1, false},
	Store:     {Store, "store", "Write word to RAM", -2, false},
	Load:      {Load, "load", "Read word from RAM", 0, false},
	ReadInput: {ReadInput, "read_input", "Read next input word", 1, false},
	Commit:    {Commit, "commit", "Append word to journal", -1, false},
	Sha:       {Sha, "sha", "SHA-256 a RAM range into the journal", -2, false},
	Assume:    {Assume, "assume", "Record an assumption digest", -8, false},
}

// String returns the name of the instruction.
func (i Instruction) String() string {
	if info, ok := AllInstructions[i]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown(%d)", i)
}

// Info returns metadata about the instruction.
func (i Instruction) Info() (InstructionInfo, error) {
	info, ok := AllInstructions[i]
	if !ok {
		return InstructionInfo{}, fmt.Errorf("%w: opcode %d", ErrIllegalInstruction, i)
	}
	return info, nil
}

// HasArgument returns whether the instruction takes an argument.
func (i Instruction) HasArgument() bool {
	info, err := i.Info()
	if err != nil {
		return false
	}
	return info.HasArg
}

// EncodedInstruction is an instruction paired with its argument word.
type EncodedInstruction struct {
	Instruction Instruction
	Argument    uint32
}

// NewEncodedInstruction creates an encoded instruction, rejecting unknown
// opcodes.
func NewEncodedInstruction(inst Instruction, arg uint32) (*EncodedInstruction, error) {
	info, err := inst.Info()
	if err != nil {
		return nil, err
	}
	if !info.HasArg && arg != 0 {
		return nil, fmt.Errorf("instruction %s does not take an argument", inst.String())
	}
	return &EncodedInstruction{Instruction: inst, Argument: arg}, nil
}

func (ei *EncodedInstruction) String() string {
	if ei.Instruction.HasArgument() {
		return fmt.Sprintf("%s(%d)", ei.Instruction.String(), ei.Argument)
	}
	return ei.Instruction.String()
}

// Program represents a guest program.
type Program struct {
	Instructions []*EncodedInstruction
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{Instructions: make([]*EncodedInstruction, 0)}
}

// AddInstruction appends an instruction to the program.
func (p *Program) AddInstruction(inst *EncodedInstruction) {
	p.Instructions = append(p.Instructions, inst)
}

// Add is a convenience wrapper that constructs and appends, panicking on
// malformed input. Intended for building fixed programs in code.
func (p *Program) Add(inst Instruction, arg uint32) *Program {
	ei, err := NewEncodedInstruction(inst, arg)
	if err != nil {
		panic(err)
	}
	p.AddInstruction(ei)
	return p
}

// ToWords flattens the program to its word encoding: opcode, then argument
// for instructions that carry one.
func (p *Program) ToWords() []uint32 {
	words := make([]uint32, 0, len(p.Instructions)*2)
	for _, inst := range p.Instructions {
		words = append(words, uint32(inst.Instruction))
		if inst.Instruction.HasArgument() {
			words = append(words, inst.Argument)
		}
	}
	return words
}

// ValidateProgram checks a program for structural correctness: it must be
// non-empty and end in Halt or Pause.
func ValidateProgram(program *Program) error {
	if len(program.Instructions) == 0 {
		return fmt.Errorf("empty program")
	}
	last := program.Instructions[len(program.Instructions)-1].Instruction
	if last != Halt && last != Pause {
		return fmt.Errorf("program must end with halt or pause")
	}
	return nil
}

// ParseInstruction parses a single textual instruction like "Push(42)" or
// "Halt(0)" or "Add".
func ParseInstruction(s string) (*EncodedInstruction, error) {
	s = strings.TrimSpace(s)
	name := s
	var arg uint32
	hasArg := false
	if open := strings.IndexByte(s, '('); open >= 0 {
		if !strings.HasSuffix(s, ")") {
			return nil, fmt.Errorf("malformed instruction %q", s)
		}
		name = s[:open]
		raw := s[open+1 : len(s)-1]
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed argument in %q: %w", s, err)
		}
		arg = uint32(v)
		hasArg = true
	}
	for opcode, info := range AllInstructions {
		if strings.EqualFold(info.Name, name) || strings.EqualFold(opcode.goName(), name) {
			if info.HasArg != hasArg {
				if info.HasArg {
					return nil, fmt.Errorf("instruction %s requires an argument", info.Name)
				}
				return nil, fmt.Errorf("instruction %s does not take an argument", info.Name)
			}
			return &EncodedInstruction{Instruction: opcode, Argument: arg}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrIllegalInstruction, name)
}

// ParseProgram parses one instruction per line, skipping blank lines and
// '#' comments.
func ParseProgram(text string) (*Program, error) {
	p := NewProgram()
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ei, err := ParseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		p.AddInstruction(ei)
	}
	if err := ValidateProgram(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (i Instruction) goName() string {
	// read_input -> ReadInput, sha -> Sha
	info, ok := AllInstructions[i]
	if !ok {
		return ""
	}
	parts := strings.Split(info.Name, "_")
	for j, part := range parts {
		if part != "" {
			parts[j] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "")
}
