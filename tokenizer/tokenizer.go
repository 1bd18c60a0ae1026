// Package tokenizer provides forward-only, position-tracked reading over an
// audio byte source. A Tokenizer is the contract every container parser is
// written against: it works identically whether the bytes come from a file,
// an in-memory buffer, or a pipe whose total length is unknown.
package tokenizer

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrEndOfStream is returned when a read or skip runs past the end of the
// source. Parsers treat it as "no more bytes", not as file corruption.
var ErrEndOfStream = errors.New("unexpected end of stream")

// SizeUnknown is the Size value for sources with no known total length.
const SizeUnknown int64 = -1

// peekWindow is the look-ahead available on stream-backed tokenizers. It
// covers the longest sniffing probe (DSDIFF needs bytes 0..15, ASF 16, plus
// the MPEG sync-scan window).
const peekWindow = 4096

// Tokenizer is a forward-only cursor over a byte source.
type Tokenizer struct {
	br   *bufio.Reader
	pos  int64
	size int64
}

// New wraps a stream. Pass SizeUnknown when the total length is not known;
// duration estimates that need the file size are skipped in that case.
func New(r io.Reader, size int64) *Tokenizer {
	return &Tokenizer{
		br:   bufio.NewReaderSize(r, peekWindow),
		size: size,
	}
}

// FromBytes wraps an in-memory buffer. Look-ahead is unlimited within the
// buffer.
func FromBytes(b []byte) *Tokenizer {
	n := len(b)
	if n < 16 {
		n = 16
	}
	return &Tokenizer{
		br:   bufio.NewReaderSize(bytes.NewReader(b), n),
		size: int64(len(b)),
	}
}

// FromReaderAt wraps a positioned source, reading it forward from offset 0.
func FromReaderAt(r io.ReaderAt, size int64) *Tokenizer {
	return New(io.NewSectionReader(r, 0, size), size)
}

// Size returns the total source length, or SizeUnknown.
func (t *Tokenizer) Size() int64 { return t.size }

// Pos returns the number of bytes consumed so far. Peek does not move it.
func (t *Tokenizer) Pos() int64 { return t.pos }

// Remaining returns the unconsumed byte count, or SizeUnknown.
func (t *Tokenizer) Remaining() int64 {
	if t.size == SizeUnknown {
		return SizeUnknown
	}
	return t.size - t.pos
}

// ReadFull fills p completely or fails with ErrEndOfStream.
func (t *Tokenizer) ReadFull(p []byte) error {
	n, err := io.ReadFull(t.br, p)
	t.pos += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w at offset %d (wanted %d bytes, got %d)", ErrEndOfStream, t.pos, len(p), n)
		}
		return err
	}
	return nil
}

// ReadBytes reads exactly n bytes into a fresh slice.
func (t *Tokenizer) ReadBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := t.ReadFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Peek returns up to n bytes without consuming them. Fewer bytes than asked
// are returned near the end of the source; the caller checks the length.
// Peek fails with ErrEndOfStream only when no bytes remain at all.
func (t *Tokenizer) Peek(n int) ([]byte, error) {
	b, err := t.br.Peek(n)
	if len(b) > 0 {
		return b, nil
	}
	if err == io.EOF {
		return nil, fmt.Errorf("%w at offset %d", ErrEndOfStream, t.pos)
	}
	if err == nil {
		return b, nil
	}
	return nil, err
}

// Skip consumes exactly n bytes or fails with ErrEndOfStream.
func (t *Tokenizer) Skip(n int64) error {
	skipped, err := t.discard(n)
	if err != nil {
		return err
	}
	if skipped < n {
		return fmt.Errorf("%w at offset %d (wanted to skip %d bytes, skipped %d)", ErrEndOfStream, t.pos, n, skipped)
	}
	return nil
}

// Ignore consumes up to n bytes and reports how many were consumed. Running
// out of bytes is not an error; Ignore is the tail-tolerant form of Skip.
func (t *Tokenizer) Ignore(n int64) (int64, error) {
	skipped, err := t.discard(n)
	if err != nil {
		return skipped, err
	}
	return skipped, nil
}

func (t *Tokenizer) discard(n int64) (int64, error) {
	var total int64
	for total < n {
		chunk := n - total
		if chunk > peekWindow {
			chunk = peekWindow
		}
		d, err := t.br.Discard(int(chunk))
		total += int64(d)
		t.pos += int64(d)
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
	return total, nil
}

// ReadString reads exactly n bytes and returns them as a string.
func (t *Tokenizer) ReadString(n int, what string) (string, error) {
	b := make([]byte, n)
	if err := t.ReadFull(b); err != nil {
		return "", fmt.Errorf("reading %s: %w", what, err)
	}
	return string(b), nil
}

// ReadUint24BE reads a 3-byte big-endian unsigned integer.
func (t *Tokenizer) ReadUint24BE(what string) (uint32, error) {
	var b [3]byte
	if err := t.ReadFull(b[:]); err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadUint24LE reads a 3-byte little-endian unsigned integer.
func (t *Tokenizer) ReadUint24LE(what string) (uint32, error) {
	var b [3]byte
	if err := t.ReadFull(b[:]); err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
}

// ReadBE reads a big-endian value of type T and advances the cursor.
func ReadBE[T uint8 | uint16 | uint32 | uint64](t *Tokenizer, what string) (T, error) {
	var zero T
	buf := make([]byte, sizeOf(zero))
	if err := t.ReadFull(buf); err != nil {
		return zero, fmt.Errorf("reading %s: %w", what, err)
	}
	return decodeBE[T](buf), nil
}

// ReadLE reads a little-endian value of type T and advances the cursor.
func ReadLE[T uint8 | uint16 | uint32 | uint64](t *Tokenizer, what string) (T, error) {
	var zero T
	buf := make([]byte, sizeOf(zero))
	if err := t.ReadFull(buf); err != nil {
		return zero, fmt.Errorf("reading %s: %w", what, err)
	}
	return decodeLE[T](buf), nil
}

// PeekBE decodes a big-endian value of type T without consuming it.
func PeekBE[T uint8 | uint16 | uint32 | uint64](t *Tokenizer, what string) (T, error) {
	var zero T
	n := sizeOf(zero)
	buf, err := t.Peek(n)
	if err != nil {
		return zero, fmt.Errorf("peeking %s: %w", what, err)
	}
	if len(buf) < n {
		return zero, fmt.Errorf("peeking %s: %w at offset %d", what, ErrEndOfStream, t.pos)
	}
	return decodeBE[T](buf), nil
}

func sizeOf[T uint8 | uint16 | uint32 | uint64](zero T) int {
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

func decodeBE[T uint8 | uint16 | uint32 | uint64](buf []byte) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(binary.BigEndian.Uint16(buf))
	case uint32:
		return T(binary.BigEndian.Uint32(buf))
	default:
		return T(binary.BigEndian.Uint64(buf))
	}
}

func decodeLE[T uint8 | uint16 | uint32 | uint64](buf []byte) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(binary.LittleEndian.Uint16(buf))
	case uint32:
		return T(binary.LittleEndian.Uint32(buf))
	default:
		return T(binary.LittleEndian.Uint64(buf))
	}
}
