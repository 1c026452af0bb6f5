package receipt

import "fmt"

// ExitKind classifies how an execution run (or a segment of one) ended.
type ExitKind uint32

const (
	// KindHalted means the guest terminated for good with a user exit code.
	KindHalted ExitKind = iota

	// KindPaused means the guest suspended itself with a user exit code and
	// can be resumed by re-running the same executor.
	KindPaused

	// KindSystemSplit means the segment ended because a system limit was
	// reached; more segments follow in the same session.
	KindSystemSplit
)

// ExitCode is the exit condition of a segment or session.
type ExitCode struct {
	Kind ExitKind
	Code uint32
}

// Halted returns the terminal exit condition with the given user code.
func Halted(code uint32) ExitCode {
	return ExitCode{Kind: KindHalted, Code: code}
}

// Paused returns the resumable exit condition with the given user code.
func Paused(code uint32) ExitCode {
	return ExitCode{Kind: KindPaused, Code: code}
}

// SystemSplit returns the non-terminal segment-boundary exit condition.
func SystemSplit() ExitCode {
	return ExitCode{Kind: KindSystemSplit}
}

// IsTerminal reports whether this exit condition ends the execution run.
// SystemSplit is the only non-terminal kind.
func (e ExitCode) IsTerminal() bool {
	return e.Kind != KindSystemSplit
}

func (e ExitCode) String() string {
	switch e.Kind {
	case KindHalted:
		return fmt.Sprintf("Halted(%d)", e.Code)
	case KindPaused:
		return fmt.Sprintf("Paused(%d)", e.Code)
	case KindSystemSplit:
		return "SystemSplit"
	default:
		return fmt.Sprintf("ExitCode(%d,%d)", uint32(e.Kind), e.Code)
	}
}
