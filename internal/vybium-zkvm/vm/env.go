package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/receipt"
)

const (
	// DefaultSegmentLimitPo2 caps a segment at 2^16 cycles unless the
	// environment overrides it.
	DefaultSegmentLimitPo2 = 16

	// MinSegmentLimitPo2 and MaxSegmentLimitPo2 bound the override.
	MinSegmentLimitPo2 = 4
	MaxSegmentLimitPo2 = 24
)

// Assumption is an unresolved claim the guest relies on, optionally paired
// with the receipt that will later corroborate it.
type Assumption struct {
	// Claim is the assumed statement.
	Claim *receipt.Claim

	// Receipt proves the assumed statement, when available. A nil receipt
	// leaves the assumption uncorroborated: proving will still succeed but
	// the resulting receipt stays conditional.
	Receipt *receipt.Receipt
}

// ExecutorEnv configures a guest execution: its input stream, segmentation
// limit, session cycle budget, and the assumptions available to the guest.
type ExecutorEnv struct {
	input           []uint32
	segmentLimitPo2 uint32
	sessionLimit    uint64
	assumptions     []*Assumption
}

// NewExecutorEnv creates an environment with default limits and no input.
func NewExecutorEnv() *ExecutorEnv {
	return &ExecutorEnv{segmentLimitPo2: DefaultSegmentLimitPo2}
}

// Write appends words to the guest's input stream.
func (e *ExecutorEnv) Write(words ...uint32) *ExecutorEnv {
	e.input = append(e.input, words...)
	return e
}

// WriteBytes appends bytes to the guest's input stream, zero-padded to a
// word boundary and packed little-endian.
func (e *ExecutorEnv) WriteBytes(data []byte) *ExecutorEnv {
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	for i := 0; i < len(data); i += 4 {
		e.input = append(e.input, binary.LittleEndian.Uint32(data[i:]))
	}
	return e
}

// SegmentLimitPo2 sets the per-segment cycle limit to 2^po2.
func (e *ExecutorEnv) SegmentLimitPo2(po2 uint32) *ExecutorEnv {
	e.segmentLimitPo2 = po2
	return e
}

// SessionLimit caps the total cycles a session may execute. Zero means
// unlimited.
func (e *ExecutorEnv) SessionLimit(cycles uint64) *ExecutorEnv {
	e.sessionLimit = cycles
	return e
}

// AddAssumption makes a proven claim available to the guest: the receipt's
// own claim becomes assumable and the receipt corroborates it.
func (e *ExecutorEnv) AddAssumption(r *receipt.Receipt) *ExecutorEnv {
	claim, err := r.Claim()
	if err != nil {
		// Recorded with a nil claim; Validate rejects it.
		e.assumptions = append(e.assumptions, &Assumption{Receipt: r})
		return e
	}
	e.assumptions = append(e.assumptions, &Assumption{Claim: claim, Receipt: r})
	return e
}

// AddAssumptionClaim makes a bare claim assumable without corroboration.
// Receipts proved from such a session remain conditional on it.
func (e *ExecutorEnv) AddAssumptionClaim(claim *receipt.Claim) *ExecutorEnv {
	e.assumptions = append(e.assumptions, &Assumption{Claim: claim})
	return e
}

// Validate checks the environment for consistency.
func (e *ExecutorEnv) Validate() error {
	if e.segmentLimitPo2 < MinSegmentLimitPo2 || e.segmentLimitPo2 > MaxSegmentLimitPo2 {
		return fmt.Errorf("segment limit po2 %d outside [%d, %d]",
			e.segmentLimitPo2, MinSegmentLimitPo2, MaxSegmentLimitPo2)
	}
	for i, a := range e.assumptions {
		if a.Claim == nil {
			return fmt.Errorf("assumption %d has no claim", i)
		}
	}
	return nil
}

// SegmentLimit returns the per-segment cycle limit in cycles.
func (e *ExecutorEnv) SegmentLimit() uint64 {
	return uint64(1) << e.segmentLimitPo2
}

// InputDigest hashes the input stream. An empty stream digests as no
// bytes.
func (e *ExecutorEnv) InputDigest() receipt.Digest {
	return receipt.HashWords(e.input)
}

// Assumptions returns the registered assumptions in insertion order.
func (e *ExecutorEnv) Assumptions() []*Assumption {
	return e.assumptions
}

// findAssumption looks up an assumption by claim digest.
func (e *ExecutorEnv) findAssumption(d receipt.Digest) *Assumption {
	for _, a := range e.assumptions {
		if a.Claim != nil && a.Claim.Digest() == d {
			return a
		}
	}
	return nil
}
