// Package docid implements the fixed-width DocID buffer shared by the
// DocID-keyed on-disk formats: document lengths and postings keys both key
// off the same normalized representation.
//
// The 128-byte width and zero-padding scheme are carried over from the
// original implementation's document reader, which rejects any DocID
// longer than MAX_DOCID_LENGTH and otherwise stores it in a fixed [128]byte
// buffer so downstream files never need a variable-width key.
package docid

import (
	"bytes"
	"errors"
	"fmt"
)

// MaxLength is the maximum number of bytes a raw DocID may occupy.
const MaxLength = 128

// ErrTooLong is returned when a DocID exceeds MaxLength bytes.
var ErrTooLong = errors.New("docid: exceeds maximum length")

// Normalize returns a MaxLength-byte buffer containing raw, left-aligned
// and zero-padded. Returns ErrTooLong if raw does not fit.
func Normalize(raw string) ([MaxLength]byte, error) {
	var buf [MaxLength]byte
	if len(raw) > MaxLength {
		return buf, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLong, len(raw), MaxLength)
	}
	copy(buf[:], raw)
	return buf, nil
}

// Denormalize strips the trailing NUL padding added by Normalize and
// returns the original DocID string.
func Denormalize(buf [MaxLength]byte) string {
	return string(bytes.TrimRight(buf[:], "\x00"))
}

// DenormalizeBytes is the slice-oriented counterpart of Denormalize, used
// when a buffer arrives as a []byte (e.g. read out of a postings entry)
// rather than a fixed array.
func DenormalizeBytes(buf []byte) string {
	return string(bytes.TrimRight(buf, "\x00"))
}
