// Package codec implements the fixed-width binary encoding shared by the
// postings, lengths, and average-lengths on-disk formats.
//
// The layout deliberately mirrors the original implementation's bincode
// encoding of Rust's u64 and BTreeMap<String, u64>: every integer is exactly
// 8 bytes, little-endian, and every length-prefixed value (byte strings,
// map entry counts) uses the same 8-byte prefix rather than a variable-width
// one. Keeping the widths fixed makes the format trivial to read back with a
// single mmap and no separate framing pass.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Uint64Size is the encoded width of a uint64 value.
const Uint64Size = 8

// PutUint64 appends the little-endian encoding of v to dst.
func PutUint64(dst []byte, v uint64) []byte {
	var buf [Uint64Size]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}

// Uint64 decodes a little-endian uint64 from the front of b.
func Uint64(b []byte) (uint64, error) {
	if len(b) < Uint64Size {
		return 0, fmt.Errorf("codec: need %d bytes for uint64, got %d", Uint64Size, len(b))
	}
	return binary.LittleEndian.Uint64(b), nil
}

// PutBytes appends a length-prefixed byte string to dst: an 8-byte LE
// length followed by the raw bytes.
func PutBytes(dst []byte, b []byte) []byte {
	dst = PutUint64(dst, uint64(len(b)))
	return append(dst, b...)
}

// TakeBytes reads a length-prefixed byte string from the front of b and
// returns the value plus the remaining unconsumed bytes.
func TakeBytes(b []byte) (value []byte, rest []byte, err error) {
	n, err := Uint64(b)
	if err != nil {
		return nil, nil, fmt.Errorf("codec: read length prefix: %w", err)
	}
	b = b[Uint64Size:]
	if uint64(len(b)) < n {
		return nil, nil, fmt.Errorf("codec: length prefix %d exceeds remaining %d bytes", n, len(b))
	}
	return b[:n], b[n:], nil
}

// DocFreqEntry is one DocID → tf pair. A slice of entries sorted by DocID
// forms a DocFreqMap, an ordered DocID → tf table, serialized as:
//
//	8-byte LE entry count
//	for each entry, in ascending DocID byte order:
//	    8-byte LE key length, raw key bytes, 8-byte LE tf value
//
// This mirrors bincode's serialization of a BTreeMap<String, u64>.
type DocFreqEntry struct {
	DocID string
	Freq  uint64
}

// EncodeDocFreqMap serializes entries, which callers must already have
// sorted ascending by DocID, into the wire format above.
func EncodeDocFreqMap(entries []DocFreqEntry) []byte {
	out := make([]byte, 0, Uint64Size+len(entries)*32)
	out = PutUint64(out, uint64(len(entries)))
	for _, e := range entries {
		out = PutBytes(out, []byte(e.DocID))
		out = PutUint64(out, e.Freq)
	}
	return out
}

// DecodeDocFreqMap parses the wire format written by EncodeDocFreqMap.
func DecodeDocFreqMap(b []byte) ([]DocFreqEntry, error) {
	n, err := Uint64(b)
	if err != nil {
		return nil, fmt.Errorf("codec: decode entry count: %w", err)
	}
	b = b[Uint64Size:]

	entries := make([]DocFreqEntry, 0, n)
	for i := uint64(0); i < n; i++ {
		key, rest, err := TakeBytes(b)
		if err != nil {
			return nil, fmt.Errorf("codec: decode entry %d key: %w", i, err)
		}
		b = rest
		freq, err := Uint64(b)
		if err != nil {
			return nil, fmt.Errorf("codec: decode entry %d freq: %w", i, err)
		}
		b = b[Uint64Size:]
		entries = append(entries, DocFreqEntry{DocID: string(key), Freq: freq})
	}
	return entries, nil
}

// WriteUint64 writes v to w as a raw 8-byte little-endian value, used when
// streaming output directly to a file rather than building it in memory.
func WriteUint64(w io.Writer, v uint64) error {
	var buf [Uint64Size]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// Float64ToBits reinterprets f as its IEEE-754 bit pattern, explicitly,
// never via a blind pointer cast. Used to store float64 averages inside a
// value type (vellum FSTs only store uint64) without losing precision.
func Float64ToBits(f float64) uint64 {
	return math.Float64bits(f)
}

// BitsToFloat64 is the inverse of Float64ToBits. Callers must only invoke
// this after a successful, present lookup — never on a zero-valued miss,
// since 0 bit-cast back is a valid (if unlikely) float64.
func BitsToFloat64(bits uint64) float64 {
	return math.Float64frombits(bits)
}
