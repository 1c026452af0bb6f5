package vm

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Memory is the guest's word-addressed RAM. Storage is sparse: only
// written words occupy space, and an unwritten word reads as zero. All
// word accesses must be 4-byte aligned.
type Memory struct {
	words map[uint32]uint32
}

// NewMemory creates an empty RAM.
func NewMemory() *Memory {
	return &Memory{words: make(map[uint32]uint32)}
}

// LoadWord reads the word at addr.
func (m *Memory) LoadWord(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, fmt.Errorf("%w: %#x", ErrLoadAddressMisaligned, addr)
	}
	return m.words[addr], nil
}

// StoreWord writes val at addr.
func (m *Memory) StoreWord(addr, val uint32) error {
	if addr%4 != 0 {
		return fmt.Errorf("%w: %#x", ErrStoreAddressMisaligned, addr)
	}
	if val == 0 {
		delete(m.words, addr)
		return nil
	}
	m.words[addr] = val
	return nil
}

// ReadBytes reads n bytes starting at addr. The start need not be
// word-aligned; reads assemble from the underlying little-endian words.
func (m *Memory) ReadBytes(addr, n uint32) ([]byte, error) {
	out := make([]byte, n)
	for i := uint32(0); i < n; i++ {
		a := addr + i
		w := m.words[a&^3]
		out[i] = byte(w >> (8 * (a % 4)))
	}
	return out, nil
}

// WriteBytes writes data starting at addr, which must be word-aligned.
func (m *Memory) WriteBytes(addr uint32, data []byte) error {
	if addr%4 != 0 {
		return fmt.Errorf("%w: %#x", ErrStoreAddressMisaligned, addr)
	}
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	for i := 0; i < len(data); i += 4 {
		if err := m.StoreWord(addr+uint32(i), binary.LittleEndian.Uint32(data[i:])); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns the non-zero words sorted by address. The ordering is
// deterministic so the machine state digest is stable.
func (m *Memory) Snapshot() []MemoryWord {
	out := make([]MemoryWord, 0, len(m.words))
	for addr, val := range m.words {
		out = append(out, MemoryWord{Addr: addr, Val: val})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}

// Clone deep-copies the RAM.
func (m *Memory) Clone() *Memory {
	c := NewMemory()
	for addr, val := range m.words {
		c.words[addr] = val
	}
	return c
}

// Len reports the number of non-zero words.
func (m *Memory) Len() int {
	return len(m.words)
}

// MemoryWord is one address/value pair from a RAM snapshot.
type MemoryWord struct {
	Addr uint32
	Val  uint32
}
