package vm

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
)

// Executor runs a guest program, splitting execution into provable
// segments at the environment's cycle limit. Machine state persists across
// Run calls so a paused session can be resumed; the journal is reset at
// the start of every Run.
type Executor struct {
	program *Program
	env     *ExecutorEnv

	// Machine state. The state digest covers exactly these fields plus
	// the program words; the journal is output, not state.
	words    []uint32
	pc       uint32
	stack    []uint32
	mem      *Memory
	inputPtr uint32

	imageID receipt.Digest
	started bool
	halted  bool
}

// NewExecutor creates an executor over a validated program and environment.
func NewExecutor(program *Program, env *ExecutorEnv) (*Executor, error) {
	if err := ValidateProgram(program); err != nil {
		return nil, err
	}
	if env == nil {
		env = NewExecutorEnv()
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	e := &Executor{
		program: program,
		env:     env,
		words:   program.ToWords(),
		mem:     NewMemory(),
	}
	e.imageID = e.stateDigest()
	return e, nil
}

// ImageID identifies the program and its initial machine state.
func (e *Executor) ImageID() receipt.Digest {
	return e.imageID
}

// stateDigest hashes the full machine state: program, program counter,
// stack, RAM, and input position. SHA-256 regardless of the proving hash
// suite.
func (e *Executor) stateDigest() receipt.Digest {
	words := make([]uint32, 0, len(e.words)+len(e.stack)+e.mem.Len()*2+8)
	words = append(words, uint32(len(e.words)))
	words = append(words, e.words...)
	words = append(words, e.pc, e.inputPtr)
	words = append(words, uint32(len(e.stack)))
	words = append(words, e.stack...)
	snap := e.mem.Snapshot()
	words = append(words, uint32(len(snap)))
	for _, w := range snap {
		words = append(words, w.Addr, w.Val)
	}
	return receipt.HashWords(words)
}

// Run executes the guest until it halts or pauses, producing a session. A
// second Run after a pause resumes from the paused state.
func (e *Executor) Run(ctx context.Context) (*Session, error) {
	if e.halted {
		return nil, fmt.Errorf("program already halted")
	}
	session := &Session{
		ImageID:     e.imageID,
		InputDigest: e.env.InputDigest(),
	}
	e.started = true

	seg := e.beginSegment(0, session.InputDigest)
	limit := e.env.SegmentLimit()
	var totalCycles uint64

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.env.sessionLimit > 0 && totalCycles >= e.env.sessionLimit {
			return nil, fmt.Errorf("%w: %d cycles", ErrSessionLimitExceeded, totalCycles)
		}
		if seg.Cycles >= limit {
			// Split: close this segment mid-run and continue in the next.
			e.closeSegment(seg, receipt.SystemSplit(), receipt.ZeroDigest)
			session.Segments = append(session.Segments, seg)
			seg = e.beginSegment(uint32(len(session.Segments)), session.InputDigest)
		}

		exit, err := e.step(session, seg)
		if err != nil {
			return nil, err
		}
		seg.Cycles++
		totalCycles++

		if exit != nil {
			e.closeSegment(seg, *exit, receipt.HashBytes(session.Journal))
			session.Segments = append(session.Segments, seg)
			session.ExitCode = *exit
			if exit.Kind == receipt.KindHalted {
				e.halted = true
			}
			return session, nil
		}
	}
}

func (e *Executor) beginSegment(index uint32, inputDigest receipt.Digest) *Segment {
	return &Segment{
		Index:       index,
		PreState:    e.stateDigest(),
		InputDigest: inputDigest,
	}
}

func (e *Executor) closeSegment(seg *Segment, exit receipt.ExitCode, journal receipt.Digest) {
	seg.PostState = e.stateDigest()
	seg.ExitCode = exit
	seg.JournalDigest = journal
}

// step executes one instruction and appends its trace row. A non-nil exit
// code means the session ended on this cycle.
func (e *Executor) step(session *Session, seg *Segment) (*receipt.ExitCode, error) {
	if int(e.pc) >= len(e.words) {
		return nil, fmt.Errorf("%w: pc=%d", ErrProgramCounterOutOfRange, e.pc)
	}
	opcode := Instruction(e.words[e.pc])
	info, err := opcode.Info()
	if err != nil {
		return nil, fmt.Errorf("pc=%d: %w", e.pc, err)
	}
	var arg uint32
	if info.HasArg {
		if int(e.pc)+1 >= len(e.words) {
			return nil, fmt.Errorf("%w: %s at pc=%d is missing its argument",
				ErrProgramCounterOutOfRange, opcode, e.pc)
		}
		arg = e.words[e.pc+1]
	}

	seg.Trace = append(seg.Trace, e.traceRow(opcode, arg))

	pc := e.pc
	next := pc + 1
	if info.HasArg {
		next = pc + 2
	}

	switch opcode {
	case Halt:
		e.pc = next
		exit := receipt.Halted(arg)
		return &exit, nil

	case Pause:
		e.pc = next
		exit := receipt.Paused(arg)
		return &exit, nil

	case Nop:

	case Push:
		e.push(arg)

	case Pop:
		if _, err := e.pop(opcode); err != nil {
			return nil, err
		}

	case Dup:
		if int(arg) >= len(e.stack) {
			return nil, fmt.Errorf("%w: dup(%d) with depth %d", ErrStackUnderflow, arg, len(e.stack))
		}
		e.push(e.stack[len(e.stack)-1-int(arg)])

	case Add:
		a, b, err := e.pop2(opcode)
		if err != nil {
			return nil, err
		}
		e.push(a + b)

	case Mul:
		a, b, err := e.pop2(opcode)
		if err != nil {
			return nil, err
		}
		e.push(a * b)

	case Store:
		addr, err := e.pop(opcode)
		if err != nil {
			return nil, err
		}
		val, err := e.pop(opcode)
		if err != nil {
			return nil, err
		}
		if err := e.mem.StoreWord(addr, val); err != nil {
			return nil, fmt.Errorf("pc=%d: %w", pc, err)
		}

	case Load:
		addr, err := e.pop(opcode)
		if err != nil {
			return nil, err
		}
		val, err := e.mem.LoadWord(addr)
		if err != nil {
			return nil, fmt.Errorf("pc=%d: %w", pc, err)
		}
		e.push(val)

	case ReadInput:
		if int(e.inputPtr) >= len(e.env.input) {
			return nil, fmt.Errorf("%w: at word %d", ErrInputExhausted, e.inputPtr)
		}
		e.push(e.env.input[e.inputPtr])
		e.inputPtr++

	case Commit:
		v, err := e.pop(opcode)
		if err != nil {
			return nil, err
		}
		session.Journal = append(session.Journal,
			byte(v), byte(v>>8), byte(v>>16), byte(v>>24))

	case Sha:
		n, err := e.pop(opcode)
		if err != nil {
			return nil, err
		}
		addr, err := e.pop(opcode)
		if err != nil {
			return nil, err
		}
		data, err := e.mem.ReadBytes(addr, n)
		if err != nil {
			return nil, fmt.Errorf("pc=%d: %w", pc, err)
		}
		sum := sha256.Sum256(data)
		session.Journal = append(session.Journal, sum[:]...)

	case Assume:
		var ws [receipt.DigestWords]uint32
		for i := receipt.DigestWords - 1; i >= 0; i-- {
			w, err := e.pop(opcode)
			if err != nil {
				return nil, err
			}
			ws[i] = w
		}
		d := receipt.DigestFromWords(ws)
		if err := e.recordAssumption(session, seg, d); err != nil {
			return nil, fmt.Errorf("pc=%d: %w", pc, err)
		}

	default:
		return nil, fmt.Errorf("pc=%d: %w: %s", pc, ErrIllegalInstruction, opcode)
	}

	e.pc = next
	return nil, nil
}

func (e *Executor) recordAssumption(session *Session, seg *Segment, d receipt.Digest) error {
	a := e.env.findAssumption(d)
	if a == nil {
		return fmt.Errorf("assumed claim %s is not registered in the environment", d)
	}
	seg.Assumptions = append(seg.Assumptions, d)
	for _, known := range session.Assumptions {
		if known == a {
			return nil
		}
	}
	session.Assumptions = append(session.Assumptions, a)
	return nil
}

func (e *Executor) push(v uint32) {
	e.stack = append(e.stack, v)
}

func (e *Executor) pop(op Instruction) (uint32, error) {
	if len(e.stack) == 0 {
		return 0, fmt.Errorf("%w: %s on empty stack", ErrStackUnderflow, op)
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

// pop2 pops the top two elements, top first.
func (e *Executor) pop2(op Instruction) (uint32, uint32, error) {
	a, err := e.pop(op)
	if err != nil {
		return 0, 0, err
	}
	b, err := e.pop(op)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (e *Executor) traceRow(opcode Instruction, arg uint32) []uint32 {
	var top uint32
	if len(e.stack) > 0 {
		top = e.stack[len(e.stack)-1]
	}
	return []uint32{e.pc, uint32(opcode), arg, top, uint32(len(e.stack)), e.inputPtr}
}
