package receipt

import (
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// Receipts serialize to a word-oriented format: a flat []uint32 stream with
// a magic word and format version up front, length-prefixed variable parts,
// and little-endian words throughout. The byte form is just the word form
// laid out little-endian.

const (
	receiptMagic   uint32 = 0x767a6b76 // "vzkv"
	receiptVersion uint32 = 1

	// maxCodecElems bounds every length prefix read back from the wire.
	maxCodecElems uint32 = 1 << 20
)

type wordEncoder struct {
	words []uint32
}

func (e *wordEncoder) u32(v uint32) {
	e.words = append(e.words, v)
}

func (e *wordEncoder) digest(d Digest) {
	ws := d.Words()
	e.words = append(e.words, ws[:]...)
}

func (e *wordEncoder) wordSlice(ws []uint32) {
	e.u32(uint32(len(ws)))
	e.words = append(e.words, ws...)
}

func (e *wordEncoder) bytes(b []byte) {
	e.u32(uint32(len(b)))
	padded := make([]byte, (len(b)+3)/4*4)
	copy(padded, b)
	ws, _ := utils.BytesToWords(padded)
	e.words = append(e.words, ws...)
}

func (e *wordEncoder) str(s string) {
	e.bytes([]byte(s))
}

type wordDecoder struct {
	words []uint32
	pos   int
	err   error
}

func (d *wordDecoder) fail(msg string) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrCodec, msg)
	}
}

func (d *wordDecoder) readU32() uint32 {
	if d.err != nil {
		return 0
	}
	if d.pos >= len(d.words) {
		d.fail("truncated stream")
		return 0
	}
	v := d.words[d.pos]
	d.pos++
	return v
}

func (d *wordDecoder) readDigest() Digest {
	var ws [DigestWords]uint32
	for i := range ws {
		ws[i] = d.readU32()
	}
	if d.err != nil {
		return ZeroDigest
	}
	return DigestFromWords(ws)
}

func (d *wordDecoder) readWordSlice() []uint32 {
	n := d.readU32()
	if n > maxCodecElems {
		d.fail("word slice length out of range")
	}
	if d.err != nil {
		return nil
	}
	ws := make([]uint32, 0, n)
	for i := uint32(0); i < n && d.err == nil; i++ {
		ws = append(ws, d.readU32())
	}
	return ws
}

func (d *wordDecoder) readBytes() []byte {
	n := d.readU32()
	if n > maxCodecElems*4 {
		d.fail("byte length out of range")
	}
	if d.err != nil {
		return nil
	}
	nw := (n + 3) / 4
	ws := make([]uint32, 0, nw)
	for i := uint32(0); i < nw && d.err == nil; i++ {
		ws = append(ws, d.readU32())
	}
	if d.err != nil {
		return nil
	}
	return utils.WordsToBytes(ws)[:n]
}

func (d *wordDecoder) readStr() string {
	return string(d.readBytes())
}

func (d *wordDecoder) done() error {
	if d.err != nil {
		return d.err
	}
	if d.pos != len(d.words) {
		return fmt.Errorf("%w: %d trailing words", ErrCodec, len(d.words)-d.pos)
	}
	return nil
}

// Inner variant tags on the wire.
const (
	tagComposite uint32 = iota + 1
	tagSuccinct
	tagCompact
	tagFake
)

// Words encodes the receipt to its word form.
func (r *Receipt) Words() ([]uint32, error) {
	var e wordEncoder
	e.u32(receiptMagic)
	e.u32(receiptVersion)
	if err := encodeInner(&e, r.Inner); err != nil {
		return nil, err
	}
	e.bytes(r.Journal.Bytes)
	return e.words, nil
}

// MarshalBinary encodes the receipt to bytes, little-endian word layout.
func (r *Receipt) MarshalBinary() ([]byte, error) {
	ws, err := r.Words()
	if err != nil {
		return nil, err
	}
	return utils.WordsToBytes(ws), nil
}

func encodeInner(e *wordEncoder, inner InnerReceipt) error {
	switch v := inner.(type) {
	case *CompositeReceipt:
		e.u32(tagComposite)
		e.u32(uint32(len(v.Segments)))
		for _, seg := range v.Segments {
			e.u32(seg.Index)
			e.str(seg.HashFn)
			e.wordSlice(seg.Seal)
			seg.Claim.encode(e)
		}
		e.u32(uint32(len(v.Corroborations)))
		for _, cor := range v.Corroborations {
			e.str(cor.HashFn)
			e.wordSlice(cor.Seal)
			cor.Claim.encode(e)
		}
	case *SuccinctReceipt:
		e.u32(tagSuccinct)
		e.str(v.HashFn)
		e.wordSlice(v.Seal)
		v.Claim.encode(e)
	case *CompactReceipt:
		e.u32(tagCompact)
		e.wordSlice(v.Seal)
		v.Claim.encode(e)
	case *FakeReceipt:
		e.u32(tagFake)
		v.Claim.encode(e)
	default:
		return fmt.Errorf("%w: unknown inner receipt %T", ErrCodec, inner)
	}
	return nil
}

// DecodeReceipt parses a receipt from its word form.
func DecodeReceipt(words []uint32) (*Receipt, error) {
	d := &wordDecoder{words: words}
	if magic := d.readU32(); d.err == nil && magic != receiptMagic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrCodec, magic)
	}
	if ver := d.readU32(); d.err == nil && ver != receiptVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCodec, ver)
	}
	inner := decodeInner(d)
	journal := d.readBytes()
	if err := d.done(); err != nil {
		return nil, err
	}
	return &Receipt{Inner: inner, Journal: Journal{Bytes: journal}}, nil
}

// UnmarshalReceipt parses a receipt from its byte form.
func UnmarshalReceipt(data []byte) (*Receipt, error) {
	ws, ok := utils.BytesToWords(data)
	if !ok {
		return nil, fmt.Errorf("%w: length %d is not word-aligned", ErrCodec, len(data))
	}
	return DecodeReceipt(ws)
}

func decodeInner(d *wordDecoder) InnerReceipt {
	switch tag := d.readU32(); tag {
	case tagComposite:
		n := d.readU32()
		if n > maxCodecElems {
			d.fail("segment count out of range")
			return nil
		}
		composite := &CompositeReceipt{}
		for i := uint32(0); i < n && d.err == nil; i++ {
			seg := &SegmentReceipt{
				Index:  d.readU32(),
				HashFn: d.readStr(),
			}
			seg.Seal = d.readWordSlice()
			seg.Claim = decodeClaim(d)
			composite.Segments = append(composite.Segments, seg)
		}
		nc := d.readU32()
		if nc > maxCodecElems {
			d.fail("corroboration count out of range")
			return nil
		}
		for i := uint32(0); i < nc && d.err == nil; i++ {
			cor := &SuccinctReceipt{HashFn: d.readStr()}
			cor.Seal = d.readWordSlice()
			cor.Claim = decodeClaim(d)
			composite.Corroborations = append(composite.Corroborations, cor)
		}
		return composite
	case tagSuccinct:
		r := &SuccinctReceipt{HashFn: d.readStr()}
		r.Seal = d.readWordSlice()
		r.Claim = decodeClaim(d)
		return r
	case tagCompact:
		r := &CompactReceipt{Seal: d.readWordSlice()}
		r.Claim = decodeClaim(d)
		return r
	case tagFake:
		return &FakeReceipt{Claim: decodeClaim(d)}
	default:
		d.fail(fmt.Sprintf("unknown inner receipt tag %d", tag))
		return nil
	}
}
