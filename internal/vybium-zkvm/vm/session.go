package vm

import (
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
)

// Segment is one contiguous span of execution small enough to prove in a
// single proof. Interior segments end in a system split; only the last
// segment of a session carries a terminal exit code.
type Segment struct {
	// Index is the segment's position within its session.
	Index uint32

	// PreState and PostState digest the machine state at segment entry and
	// exit.
	PreState  receipt.Digest
	PostState receipt.Digest

	// InputDigest matches the session's input digest.
	InputDigest receipt.Digest

	// Trace is the execution trace: one row per cycle.
	Trace [][]uint32

	// Cycles is the number of cycles the segment executed.
	Cycles uint64

	// ExitCode is how the segment ended.
	ExitCode receipt.ExitCode

	// JournalDigest digests the journal as of segment exit. Interior
	// segments carry the zero digest.
	JournalDigest receipt.Digest

	// Assumptions are the claim digests assumed during this segment, in
	// the order the guest recorded them.
	Assumptions []receipt.Digest
}

// Claim returns the segment's state-transition claim.
func (s *Segment) Claim() *receipt.Claim {
	return &receipt.Claim{
		PreStateDigest:  s.PreState,
		PostStateDigest: s.PostState,
		ExitCode:        s.ExitCode,
		InputDigest:     s.InputDigest,
		JournalDigest:   s.JournalDigest,
		Assumptions:     append([]receipt.Digest(nil), s.Assumptions...),
	}
}

// SessionStats aggregates execution counters.
type SessionStats struct {
	// Segments is the number of segments in the session.
	Segments int

	// TotalCycles is the sum of cycles over all segments.
	TotalCycles uint64
}

// SessionEvents receives lifecycle callbacks while a session's segments
// are proven. Segments prove in parallel, so implementations must be safe
// for concurrent use.
type SessionEvents interface {
	// OnPreProveSegment fires before the segment's proof is generated.
	OnPreProveSegment(segment *Segment)

	// OnPostProveSegment fires after the segment's proof is generated.
	OnPostProveSegment(segment *Segment)
}

// Session is the record of one complete guest run: its segments, journal,
// and exit condition. A session always ends in a terminal exit code; runs
// end either by halting or pausing, never mid-segment.
type Session struct {
	// Segments are the session's spans in execution order.
	Segments []*Segment

	// Journal is the guest's committed output.
	Journal []byte

	// ExitCode is the session's terminal exit condition.
	ExitCode receipt.ExitCode

	// ImageID identifies the program and initial machine state this run
	// started from. For a resumed session it is still the original image
	// ID, while the first segment's pre state is the paused state.
	ImageID receipt.Digest

	// InputDigest digests the session's input stream.
	InputDigest receipt.Digest

	// Assumptions are the environment entries for every claim the guest
	// assumed, in first-use order.
	Assumptions []*Assumption

	// Hooks are lifecycle observers invoked around segment proving.
	Hooks []SessionEvents
}

// AddHook registers a lifecycle hook. Hooks fire in registration order.
func (s *Session) AddHook(h SessionEvents) {
	s.Hooks = append(s.Hooks, h)
}

// Stats returns the session's execution counters.
func (s *Session) Stats() SessionStats {
	var cycles uint64
	for _, seg := range s.Segments {
		cycles += seg.Cycles
	}
	return SessionStats{Segments: len(s.Segments), TotalCycles: cycles}
}

// Claim folds the segment claims into the session-level claim.
func (s *Session) Claim() (*receipt.Claim, error) {
	if len(s.Segments) == 0 {
		return nil, fmt.Errorf("session has no segments")
	}
	claim := s.Segments[0].Claim()
	for _, seg := range s.Segments[1:] {
		joined, err := receipt.JoinClaims(claim, seg.Claim())
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", seg.Index, err)
		}
		claim = joined
	}
	return claim, nil
}

// JournalDigest hashes the session journal.
func (s *Session) JournalDigest() receipt.Digest {
	return receipt.HashBytes(s.Journal)
}
